package statement

import "github.com/wonny/fsa/backend/internal/contracts"

// aliasSpec maps one canonical key to the provider column labels that may
// carry it, in priority order. The first label present in the merged header
// set wins for the whole series.
type aliasSpec struct {
	key        string
	candidates []string

	// zeroDefault keys read as 0 instead of missing when no candidate
	// label exists at all (cash outflows that are genuinely absent)
	zeroDefault bool
}

var columnAliases = []aliasSpec{
	// 利润表
	{key: contracts.KeyRevenue, candidates: []string{"Operating Revenue", "Total Operating Revenue"}},
	{key: contracts.KeyOperatingCosts, candidates: []string{"Operating Costs", "Total Operating Costs"}},
	{key: contracts.KeyNetProfit, candidates: []string{"Net Profit", "Net Profit Attributable to Parent"}},
	{key: contracts.KeyIncomeTax, candidates: []string{"Income Tax Expenses"}},
	{key: contracts.KeySellingExpenses, candidates: []string{"Selling Expenses"}},
	{key: contracts.KeyAdminExpenses, candidates: []string{"Administrative Expenses"}},
	{key: contracts.KeyFinancialExpenses, candidates: []string{"Financial Expenses"}},
	{key: contracts.KeyInterestExpenses, candidates: []string{"Interest Expenses"}},
	{key: contracts.KeyRnDExpenses, candidates: []string{"R&D Expenses"}},

	// 资产负债表
	{key: contracts.KeyCash, candidates: []string{"Cash and Cash Equivalents"}},
	{key: contracts.KeyTradingFinancialAssets, candidates: []string{"Trading Financial Assets"}},
	{key: contracts.KeyAccountsReceivable, candidates: []string{"Notes and Accounts Receivable", "Accounts Receivable"}},
	{key: contracts.KeyInventories, candidates: []string{"Inventories"}},
	{key: contracts.KeyTotalAssets, candidates: []string{"Total Assets"}},
	{key: contracts.KeyFixedAssets, candidates: []string{"Fixed Assets"}},
	{key: contracts.KeyConstructionInProgress, candidates: []string{"Construction in Progress"}},
	{key: contracts.KeyInvestmentProperty, candidates: []string{"Investment Property"}},
	{key: contracts.KeyCurrentAssets, candidates: []string{"Total Current Assets", "Current Assets"}},
	{key: contracts.KeyCurrentLiabilities, candidates: []string{"Total Current Liabilities", "Current Liabilities"}},
	{key: contracts.KeyShortTermBorrowings, candidates: []string{"Short-term Borrowings"}},
	{key: contracts.KeyNCLDueWithinOneYear, candidates: []string{"Non-current Liabilities Due within One Year"}},
	{key: contracts.KeyTotalLiabilities, candidates: []string{"Total Liabilities"}},
	{key: contracts.KeyEquity, candidates: []string{
		"Total Equity Attributable to Shareholders of the Parent Company",
		"Total Owner's Equity (or Shareholders' Equity)",
	}},

	// 现金流量表
	{key: contracts.KeyOperatingCashFlow, candidates: []string{"Net Cash Flow from Operating Activities"}},
	{key: contracts.KeyCapexCash, candidates: []string{
		"Cash Paid for Acquisition of Fixed Assets, Intangible Assets, and Other Long-term Assets",
	}, zeroDefault: true},

	// 折旧/摊销 headers not provided by the source; reads as zero until they are
	{key: contracts.KeyDepreciation, candidates: nil, zeroDefault: true},
}

// resolveAlias returns the first candidate label present in the header set,
// or "" when none is.
func resolveAlias(spec aliasSpec, headers map[string]bool) string {
	for _, label := range spec.candidates {
		if headers[label] {
			return label
		}
	}
	return ""
}
