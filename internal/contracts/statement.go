package contracts

// StatementType identifies one of the three financial statements
type StatementType string

const (
	StatementBalance  StatementType = "balance"
	StatementIncome   StatementType = "profit"
	StatementCashFlow StatementType = "cash_flow"
)

// ReportDateColumn is the raw column holding the compact report date (YYYYMMDD)
const ReportDateColumn = "Report Date"

// RawRow is one reporting period's line items as delivered by the data
// provider: provider-specific labels mapped to unparsed cell content.
// ⭐ SSOT: 원본 재무제표 행 표현은 이 타입으로만 전달
type RawRow map[string]string

// RawStatements bundles the three statements for one symbol,
// each ordered most recent period first.
type RawStatements struct {
	Symbol   string   `json:"symbol"`
	Balance  []RawRow `json:"balance"`
	Income   []RawRow `json:"income"`
	CashFlow []RawRow `json:"cash_flow"`
}

// Empty reports whether no statement has any rows
func (r *RawStatements) Empty() bool {
	return len(r.Balance) == 0 && len(r.Income) == 0 && len(r.CashFlow) == 0
}
