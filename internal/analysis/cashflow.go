package analysis

import (
	"math"

	"github.com/wonny/fsa/backend/internal/contracts"
	"github.com/wonny/fsa/backend/pkg/series"
)

// BuildCashFlowQuality produces the cash-flow quality view: OCF/net-profit
// ratio, cash reinvestment ratio ((capex - depreciation) / OCF) and free
// cash flow, each with a mean/std/CV stability summary over the window.
func BuildCashFlowQuality(ds *contracts.Dataset) *contracts.CashFlowQuality {
	ocf := ds.Column(contracts.KeyOperatingCashFlow)
	capex := ds.Column(contracts.KeyCapexCash)
	depreciation := ds.Column(contracts.KeyDepreciation)

	ocfProfit := ds.Column(contracts.ColOCFProfitRatio)
	reinvest := series.SafeDivide(series.Sub(capex, depreciation), ocf)
	fcf := series.Sub(ocf, capex)

	defs := []struct {
		name   string
		format contracts.Format
		values []float64
	}{
		{"OCF/净利润比", contracts.FormatPercent, ocfProfit},
		{"现金再投资比率", contracts.FormatPercent, reinvest},
		{"自由现金流", contracts.FormatNumber, fcf},
	}

	out := &contracts.CashFlowQuality{
		Dates:               ds.Dates,
		DepreciationMissing: allZeroOrMissing(depreciation),
	}
	for _, d := range defs {
		mean := series.Mean(d.values)
		std := series.Std(d.values)
		cv := series.Missing()
		if !series.IsMissing(mean) && mean != 0 {
			cv = std / mean
		}
		out.Metrics = append(out.Metrics, contracts.CashFlowMetric{
			Name:   d.name,
			Format: d.format,
			Values: contracts.Values(d.values),
			Mean:   contracts.Value(mean),
			Std:    contracts.Value(std),
			CV:     contracts.Value(cv),
		})
	}
	return out
}

func allZeroOrMissing(s []float64) bool {
	for _, v := range s {
		if !series.IsMissing(v) && math.Abs(v) > 0 {
			return false
		}
	}
	return true
}
