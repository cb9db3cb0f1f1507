package analysis

import (
	"github.com/wonny/fsa/backend/internal/contracts"
	"github.com/wonny/fsa/backend/pkg/series"
)

type metricDef struct {
	name   string
	format contracts.Format
	fn     func(ds *contracts.Dataset) []float64
}

type categoryDef struct {
	name    string
	slug    string
	metrics []metricDef
}

func column(name string) func(ds *contracts.Dataset) []float64 {
	return func(ds *contracts.Dataset) []float64 { return ds.Column(name) }
}

// categoryDefinitions is the declarative ratio catalogue: five analysis
// dimensions plus the DuPont decomposition, each metric a function of the
// enriched dataset.
// ⭐ SSOT: 재무비율 정의는 이 테이블로만 관리
var categoryDefinitions = []categoryDef{
	{
		name: "偿债能力",
		slug: "solvency",
		metrics: []metricDef{
			{"流动比率", contracts.FormatRatio, column(contracts.ColCurrentRatio)},
			{"速动比率", contracts.FormatRatio, func(ds *contracts.Dataset) []float64 {
				return series.SafeDivide(
					series.Sub(ds.Column(contracts.KeyCurrentAssets), ds.Column(contracts.KeyInventories)),
					ds.Column(contracts.KeyCurrentLiabilities))
			}},
			{"资产负债率", contracts.FormatPercent, func(ds *contracts.Dataset) []float64 {
				return series.SafeDivide(ds.Column(contracts.KeyTotalLiabilities), ds.Column(contracts.KeyTotalAssets))
			}},
			{"利息保障倍数", contracts.FormatRatio, func(ds *contracts.Dataset) []float64 {
				return series.SafeDivide(ds.Column(contracts.ColEBIT), ds.Column(contracts.KeyInterestExpenses))
			}},
		},
	},
	{
		name: "盈利能力",
		slug: "profitability",
		metrics: []metricDef{
			{"毛利率", contracts.FormatPercent, column(contracts.ColGrossMargin)},
			{"净利率", contracts.FormatPercent, column(contracts.ColNetMargin)},
			{"ROA", contracts.FormatPercent, func(ds *contracts.Dataset) []float64 {
				return series.SafeDivide(ds.Column(contracts.KeyNetProfit), ds.Column(contracts.ColAvgTotalAssets))
			}},
			{"ROE", contracts.FormatPercent, func(ds *contracts.Dataset) []float64 {
				return series.SafeDivide(ds.Column(contracts.KeyNetProfit), ds.Column(contracts.ColAvgEquity))
			}},
		},
	},
	{
		name: "运营效率",
		slug: "efficiency",
		metrics: []metricDef{
			{"应收账款周转率", contracts.FormatRatio, column(contracts.ColARTurnover)},
			{"存货周转率", contracts.FormatRatio, column(contracts.ColInventoryTurn)},
			{"总资产周转率", contracts.FormatRatio, column(contracts.ColAssetTurnover)},
		},
	},
	{
		name: "成长能力",
		slug: "growth",
		metrics: []metricDef{
			{"营收同比", contracts.FormatPercent, column(contracts.ColRevenueGrowth)},
			{"净利润同比", contracts.FormatPercent, column(contracts.ColNetProfitGrowth)},
			{"资产增长率", contracts.FormatPercent, func(ds *contracts.Dataset) []float64 {
				return series.PctChange(ds.Column(contracts.KeyTotalAssets))
			}},
		},
	},
	{
		name: "现金流质量",
		slug: "cash_flow",
		metrics: []metricDef{
			{"经营现金流/净利润比", contracts.FormatRatio, column(contracts.ColOCFProfitRatio)},
			{"自由现金流", contracts.FormatNumber, func(ds *contracts.Dataset) []float64 {
				return series.Sub(ds.Column(contracts.KeyOperatingCashFlow), ds.Column(contracts.KeyCapexCash))
			}},
		},
	},
	{
		name: "杜邦分析",
		slug: "dupont",
		metrics: []metricDef{
			{"净利率", contracts.FormatPercent, column(contracts.ColNetMargin)},
			{"总资产周转率", contracts.FormatRatio, column(contracts.ColAssetTurnover)},
			{"权益乘数", contracts.FormatRatio, column(contracts.ColEquityMultiplier)},
			{"ROE", contracts.FormatPercent, column(contracts.ColROE)},
		},
	},
}

// BuildMetricSeries evaluates the ratio catalogue over an enriched dataset
func BuildMetricSeries(ds *contracts.Dataset) *contracts.MetricSeries {
	out := &contracts.MetricSeries{
		Symbol: ds.Symbol,
		Dates:  ds.Dates,
	}
	for _, cat := range categoryDefinitions {
		category := contracts.MetricCategory{Name: cat.name, Slug: cat.slug}
		for _, m := range cat.metrics {
			category.Metrics = append(category.Metrics, contracts.Metric{
				Name:   m.name,
				Format: m.format,
				Values: contracts.Values(m.fn(ds)),
			})
		}
		out.Categories = append(out.Categories, category)
	}
	return out
}
