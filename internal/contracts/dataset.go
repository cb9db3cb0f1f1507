package contracts

import (
	"time"

	"github.com/wonny/fsa/backend/pkg/series"
)

// Dataset is the canonical per-period record set: one entry per report date,
// oldest first, with named columns of float64 values where math.NaN() marks
// a missing value.
// ⭐ SSOT: 정규화 → 지표 산출 → 이상탐지 사이의 데이터 전달은 이 타입으로만
type Dataset struct {
	Symbol  string
	Dates   []time.Time
	columns map[string][]float64
}

// NewDataset creates a dataset over the given chronologically ordered dates
func NewDataset(symbol string, dates []time.Time) *Dataset {
	return &Dataset{
		Symbol:  symbol,
		Dates:   dates,
		columns: make(map[string][]float64),
	}
}

// Len returns the number of reporting periods
func (d *Dataset) Len() int {
	return len(d.Dates)
}

// Set stores a column; a length mismatch is a programming error and the
// column is dropped rather than stored misaligned
func (d *Dataset) Set(name string, values []float64) {
	if len(values) != len(d.Dates) {
		return
	}
	d.columns[name] = values
}

// Column returns the named column, or an all-missing column when absent
func (d *Dataset) Column(name string) []float64 {
	if col, ok := d.columns[name]; ok {
		return col
	}
	col := make([]float64, len(d.Dates))
	for i := range col {
		col[i] = series.Missing()
	}
	return col
}

// Has reports whether the named column was set
func (d *Dataset) Has(name string) bool {
	_, ok := d.columns[name]
	return ok
}

// Value returns the i-th value of the named column, missing when out of range
func (d *Dataset) Value(name string, i int) float64 {
	col, ok := d.columns[name]
	if !ok || i < 0 || i >= len(col) {
		return series.Missing()
	}
	return col[i]
}

// Latest returns the most recent period's value of the named column
func (d *Dataset) Latest(name string) float64 {
	return d.Value(name, d.Len()-1)
}

// LatestDate returns the most recent report date
func (d *Dataset) LatestDate() time.Time {
	if len(d.Dates) == 0 {
		return time.Time{}
	}
	return d.Dates[len(d.Dates)-1]
}
