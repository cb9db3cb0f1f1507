package statement

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/wonny/fsa/backend/internal/contracts"
	"github.com/wonny/fsa/backend/pkg/logger"
	"github.com/wonny/fsa/backend/pkg/series"
)

// ErrInsufficientData means no reporting period survived normalization
var ErrInsufficientData = errors.New("insufficient statement data")

// FrequencyNote is the caution emitted when report-date gaps are uneven
// (mixed annual/quarterly filings in one window)
const FrequencyNote = "注意：报告期频率不一致（可能混合年报/季报），请谨慎比较。"

// compactDateLayout is the provider's report-date format (YYYYMMDD)
const compactDateLayout = "20060102"

// Normalizer turns the provider's raw statement rows into the canonical
// per-period dataset: parse, merge the three statements on report date,
// sort ascending, resolve column aliases.
// ⭐ SSOT: 원본 재무제표 → 표준 데이터셋 변환은 여기서만
type Normalizer struct {
	log *logger.Logger
}

func NewNormalizer(log *logger.Logger) *Normalizer {
	return &Normalizer{log: log.WithField("component", "statement_normalizer")}
}

type parsedRow struct {
	date   time.Time
	values map[string]float64
}

// Normalize builds the canonical dataset from raw statements, keeping at
// most periods reporting periods (rows arrive most recent first).
// Returned warnings describe rows dropped for unparseable report dates.
func (n *Normalizer) Normalize(raw *contracts.RawStatements, periods int) (*contracts.Dataset, []string, error) {
	if raw == nil || raw.Empty() {
		return nil, nil, ErrInsufficientData
	}

	var warnings []string
	headers := make(map[string]bool)

	parse := func(stmt contracts.StatementType, rows []contracts.RawRow) []parsedRow {
		if periods > 0 && len(rows) > periods {
			rows = rows[:periods]
		}
		out := make([]parsedRow, 0, len(rows))
		for _, row := range rows {
			date, err := parseCompactDate(row[contracts.ReportDateColumn])
			if err != nil {
				msg := fmt.Sprintf("%s: dropped row with unparseable report date %q", stmt, row[contracts.ReportDateColumn])
				warnings = append(warnings, msg)
				n.log.WithField("statement", string(stmt)).Warn(msg)
				continue
			}
			values := make(map[string]float64, len(row))
			for label, cell := range row {
				if label == contracts.ReportDateColumn {
					continue
				}
				headers[label] = true
				values[label] = parseCell(cell)
			}
			out = append(out, parsedRow{date: date, values: values})
		}
		return out
	}

	balance := parse(contracts.StatementBalance, raw.Balance)
	income := parse(contracts.StatementIncome, raw.Income)
	cashFlow := parse(contracts.StatementCashFlow, raw.CashFlow)

	// Outer merge on report date. When the same label shows up in more than
	// one statement for a date, the earlier statement wins (balance first).
	merged := make(map[time.Time]map[string]float64)
	for _, rows := range [][]parsedRow{balance, income, cashFlow} {
		for _, row := range rows {
			period, ok := merged[row.date]
			if !ok {
				period = make(map[string]float64)
				merged[row.date] = period
			}
			for label, v := range row.values {
				if _, exists := period[label]; !exists {
					period[label] = v
				}
			}
		}
	}
	if len(merged) == 0 {
		return nil, warnings, ErrInsufficientData
	}

	dates := make([]time.Time, 0, len(merged))
	for date := range merged {
		dates = append(dates, date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	ds := contracts.NewDataset(raw.Symbol, dates)
	for _, spec := range columnAliases {
		label := resolveAlias(spec, headers)
		col := make([]float64, len(dates))
		if label == "" {
			if !spec.zeroDefault {
				continue
			}
			ds.Set(spec.key, col)
			continue
		}
		for i, date := range dates {
			if v, ok := merged[date][label]; ok {
				col[i] = v
			} else {
				col[i] = series.Missing()
			}
		}
		ds.Set(spec.key, col)
	}

	return ds, warnings, nil
}

// parseCompactDate parses a compact YYYYMMDD report date. Provider CSVs
// sometimes carry the value as a float ("20231231.0").
func parseCompactDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, ".0")
	if len(s) != len(compactDateLayout) {
		return time.Time{}, fmt.Errorf("invalid report date %q", s)
	}
	return time.Parse(compactDateLayout, s)
}

// parseCell coerces a raw cell to float64, missing on anything non-numeric
func parseCell(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" || s == "-" || strings.EqualFold(s, "none") || strings.EqualFold(s, "nan") {
		return series.Missing()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return series.Missing()
	}
	return v
}

// DetectFrequencyNote flags uneven report-date spacing. Gaps are rounded to
// whole months; more than one distinct gap means mixed filing frequencies.
func DetectFrequencyNote(dates []time.Time) string {
	if len(dates) < 2 {
		return ""
	}
	sorted := make([]time.Time, len(dates))
	copy(sorted, dates)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	gaps := make(map[int]bool)
	for i := 1; i < len(sorted); i++ {
		days := sorted[i].Sub(sorted[i-1]).Hours() / 24
		gaps[int(math.Round(days/30))] = true
	}
	if len(gaps) > 1 {
		return FrequencyNote
	}
	return ""
}
