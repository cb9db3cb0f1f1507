package contracts

import (
	"math"
	"strconv"
	"time"
)

// Value is a per-period metric value. NaN is the explicit missing-value
// marker and marshals to JSON null instead of breaking encoding.
type Value float64

// MissingValue returns the missing-value marker as a Value
func MissingValue() Value {
	return Value(math.NaN())
}

// IsMissing reports whether the value is the missing-value marker
func (v Value) IsMissing() bool {
	return math.IsNaN(float64(v))
}

// Float returns the underlying float64
func (v Value) Float() float64 {
	return float64(v)
}

// MarshalJSON renders missing/non-finite values as null
func (v Value) MarshalJSON() ([]byte, error) {
	f := float64(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, f, 'g', -1, 64), nil
}

// UnmarshalJSON accepts null as the missing-value marker
func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = MissingValue()
		return nil
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return err
	}
	*v = Value(f)
	return nil
}

// Values converts a float64 column into serializable metric values
func Values(s []float64) []Value {
	out := make([]Value, len(s))
	for i, f := range s {
		out[i] = Value(f)
	}
	return out
}

// Format describes how a metric renders in reports
type Format string

const (
	FormatRatio   Format = "ratio"   // 2 decimal places
	FormatPercent Format = "percent" // value*100 with % suffix
	FormatNumber  Format = "number"  // thousands separators
)

// Metric is one derived sub-metric with a value per reporting period
type Metric struct {
	Name   string  `json:"name"`
	Format Format  `json:"format"`
	Values []Value `json:"values"`
}

// MetricCategory groups related sub-metrics (solvency, profitability, ...)
type MetricCategory struct {
	Name    string   `json:"name"` // display name (偿债能力, ...)
	Slug    string   `json:"slug"`
	Metrics []Metric `json:"metrics"`
}

// MetricSeries is the full derived output: one value per metric per period,
// grouped by category, over the shared chronological date axis.
// ⭐ SSOT: 파생 지표 전달은 이 타입으로만
type MetricSeries struct {
	Symbol     string           `json:"symbol"`
	Dates      []time.Time      `json:"dates"`
	Categories []MetricCategory `json:"categories"`
}

// Category returns the category with the given slug
func (m *MetricSeries) Category(slug string) (*MetricCategory, bool) {
	for i := range m.Categories {
		if m.Categories[i].Slug == slug {
			return &m.Categories[i], true
		}
	}
	return nil, false
}

// CashFlowMetric is one cash-flow quality metric with its stability summary
type CashFlowMetric struct {
	Name   string  `json:"name"`
	Format Format  `json:"format"`
	Values []Value `json:"values"`
	Mean   Value   `json:"mean"`
	Std    Value   `json:"std"` // population standard deviation
	CV     Value   `json:"cv"`  // coefficient of variation (std/mean)
}

// CashFlowQuality holds the cash-flow quality analysis: indicator series
// plus per-metric stability summaries.
type CashFlowQuality struct {
	Dates   []time.Time      `json:"dates"`
	Metrics []CashFlowMetric `json:"metrics"`

	// Depreciation/amortization column absent from the provider headers;
	// cash reinvestment ratio treats it as zero
	DepreciationMissing bool `json:"depreciation_missing"`
}

// SnapshotItem is one latest-period headline figure
type SnapshotItem struct {
	Name   string `json:"name"`
	Format Format `json:"format"`
	Value  Value  `json:"value"`
}

// AnalysisResult is the full output of one pipeline run for one symbol
type AnalysisResult struct {
	Symbol  string `json:"symbol"`
	Periods int    `json:"periods"`
	Window  int    `json:"window"`

	Dates     []time.Time      `json:"dates"`
	Series    *MetricSeries    `json:"series"`
	CashFlow  *CashFlowQuality `json:"cash_flow_quality"`
	Snapshot  []SnapshotItem   `json:"snapshot"`
	Anomalies []Anomaly        `json:"anomalies"`

	// Per-row normalization warnings (dropped rows with unparseable dates)
	Warnings []string `json:"warnings,omitempty"`

	// Mixed annual/quarterly reporting caution, empty when consistent
	FrequencyNote string `json:"frequency_note,omitempty"`
}
