package analysis

import (
	"github.com/wonny/fsa/backend/internal/contracts"
	"github.com/wonny/fsa/backend/pkg/series"
)

func constSeries(n int, v float64) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = v
	}
	return s
}

func fill0(s []float64) []float64 {
	return series.FillMissing(s, 0)
}

// Enrich computes every derived column the ratio tables and anomaly rules
// read, in dependency order. Missing inputs flow through as missing; the
// fillna-style zero treatment mirrors how the source aggregates optional
// line items (三费, 长期资产, 短期债务).
func Enrich(ds *contracts.Dataset) {
	n := ds.Len()

	revenue := ds.Column(contracts.KeyRevenue)
	costs := ds.Column(contracts.KeyOperatingCosts)
	netProfit := ds.Column(contracts.KeyNetProfit)
	ocf := ds.Column(contracts.KeyOperatingCashFlow)

	ds.Set(contracts.ColGrossMargin, series.SafeDivide(series.Sub(revenue, costs), revenue))
	ds.Set(contracts.ColCostRate, series.SafeDivide(costs, revenue))
	ds.Set(contracts.ColExpenseRate, series.SafeDivide(series.Add(
		fill0(ds.Column(contracts.KeySellingExpenses)),
		fill0(ds.Column(contracts.KeyAdminExpenses)),
		fill0(ds.Column(contracts.KeyFinancialExpenses)),
	), revenue))
	ds.Set(contracts.ColRnDRate, series.SafeDivide(ds.Column(contracts.KeyRnDExpenses), revenue))
	ds.Set(contracts.ColOCFProfitRatio, series.SafeDivide(ocf, netProfit))

	ds.Set(contracts.ColAvgTotalAssets, series.RollingAverage(ds.Column(contracts.KeyTotalAssets)))
	ds.Set(contracts.ColAvgEquity, series.RollingAverage(ds.Column(contracts.KeyEquity)))
	ds.Set(contracts.ColAvgReceivables, series.RollingAverage(ds.Column(contracts.KeyAccountsReceivable)))
	ds.Set(contracts.ColAvgInventory, series.RollingAverage(ds.Column(contracts.KeyInventories)))

	ds.Set(contracts.ColARTurnover, series.SafeDivide(revenue, ds.Column(contracts.ColAvgReceivables)))
	ds.Set(contracts.ColInventoryTurn, series.SafeDivide(costs, ds.Column(contracts.ColAvgInventory)))

	daysPerYear := constSeries(n, contracts.DefaultThresholds().DaysPerYear)
	ds.Set(contracts.ColARDays, series.SafeDivide(daysPerYear, ds.Column(contracts.ColARTurnover)))
	ds.Set(contracts.ColInventoryDays, series.SafeDivide(daysPerYear, ds.Column(contracts.ColInventoryTurn)))

	longTermAssets := series.Add(
		fill0(ds.Column(contracts.KeyFixedAssets)),
		fill0(ds.Column(contracts.KeyConstructionInProgress)),
		fill0(ds.Column(contracts.KeyInvestmentProperty)),
	)
	ds.Set(contracts.ColLongTermAssets, longTermAssets)

	shortTermDebt := series.Add(
		fill0(ds.Column(contracts.KeyShortTermBorrowings)),
		fill0(ds.Column(contracts.KeyNCLDueWithinOneYear)),
	)
	ds.Set(contracts.ColShortTermDebt, shortTermDebt)

	ds.Set(contracts.ColFlowGap, series.Sub(series.Add(
		fill0(ds.Column(contracts.KeyCash)),
		fill0(ds.Column(contracts.KeyTradingFinancialAssets)),
	), shortTermDebt))
	ds.Set(contracts.ColCurrentRatio, series.SafeDivide(
		ds.Column(contracts.KeyCurrentAssets), ds.Column(contracts.KeyCurrentLiabilities)))
	ds.Set(contracts.ColShortDebtRatio, series.SafeDivide(
		shortTermDebt, ds.Column(contracts.KeyTotalLiabilities)))
	ds.Set(contracts.ColLongAssetRatio, series.SafeDivide(
		longTermAssets, ds.Column(contracts.KeyTotalAssets)))

	// Capex rate: positive long-asset buildup plus positive cash capex,
	// over revenue. The first period's asset delta reads as zero.
	capexCashPos := series.ClipLower(ds.Column(contracts.KeyCapexCash), 0)
	longAssetDelta := fill0(series.ClipLower(series.Diff(longTermAssets), 0))
	ds.Set(contracts.ColCapexRate, series.SafeDivide(series.Add(longAssetDelta, capexCashPos), revenue))

	ds.Set(contracts.ColEBIT, series.Add(
		fill0(netProfit),
		fill0(ds.Column(contracts.KeyIncomeTax)),
		fill0(ds.Column(contracts.KeyFinancialExpenses)),
	))

	// DuPont decomposition: ROE as the product of the three drivers
	netMargin := series.SafeDivide(netProfit, revenue)
	assetTurnover := series.SafeDivide(revenue, ds.Column(contracts.ColAvgTotalAssets))
	equityMultiplier := series.SafeDivide(ds.Column(contracts.ColAvgTotalAssets), ds.Column(contracts.ColAvgEquity))
	ds.Set(contracts.ColNetMargin, netMargin)
	ds.Set(contracts.ColAssetTurnover, assetTurnover)
	ds.Set(contracts.ColEquityMultiplier, equityMultiplier)
	ds.Set(contracts.ColROE, series.Mul(netMargin, assetTurnover, equityMultiplier))

	ds.Set(contracts.ColRevenueGrowth, series.PctChange(revenue))
	ds.Set(contracts.ColNetProfitGrowth, series.PctChange(netProfit))
	ds.Set(contracts.ColOCFGrowth, series.PctChange(ocf))
}
