package anomaly

import (
	"fmt"
	"math"

	"github.com/wonny/fsa/backend/internal/contracts"
	"github.com/wonny/fsa/backend/pkg/series"
)

// Rule names, stable identifiers in reports and persisted results
const (
	RuleVolatilityStreak   = "连续波动异常-同向高速"
	RuleVolatilityReversal = "连续波动异常-反转"
	RuleCostExpense        = "成本/费用率反常"
	RuleLiquidityGap       = "资产负债错配-流动缺口"
	RuleMaturityMismatch   = "资产负债错配-短贷长投"
	RuleCashProfitGap      = "现金流与利润背离"
	RuleARInventory        = "应收/存货异常"
	RuleCapex              = "资本开支/费用资本化异常"
)

func pct1(v float64) string { return fmt.Sprintf("%.1f%%", v*100) }
func pct2(v float64) string { return fmt.Sprintf("%.2f%%", v*100) }

// ruleContinuousVolatility flags revenue/profit/OCF growth that either runs
// hot two periods in a row or reverses violently. Needs three periods to
// produce two comparable growth figures.
func ruleContinuousVolatility(ds *contracts.Dataset, th contracts.Thresholds) []contracts.Anomaly {
	var out []contracts.Anomaly

	metrics := []struct {
		name string
		key  string
	}{
		{"营业收入", contracts.KeyRevenue},
		{"净利润", contracts.KeyNetProfit},
		{"经营现金流", contracts.KeyOperatingCashFlow},
	}

	for _, m := range metrics {
		growth := series.PctChange(ds.Column(m.key))
		for idx := 2; idx < ds.Len(); idx++ {
			prev, curr := growth[idx-1], growth[idx]
			if series.IsMissing(prev) || series.IsMissing(curr) {
				continue
			}
			if math.Abs(curr) > th.GrowthHigh && math.Abs(prev) > th.GrowthHigh && (curr > 0) == (prev > 0) {
				out = append(out, contracts.Anomaly{
					Rule:     RuleVolatilityStreak,
					Date:     ds.Dates[idx],
					Metric:   m.name,
					Detail:   fmt.Sprintf("%s连续两期高增速：上一期%s，本期%s", m.name, pct1(prev), pct1(curr)),
					Severity: contracts.SeverityWarning,
				})
			}
			amplitude := math.Abs(curr - prev)
			if curr < -th.ReversalDrop && prev > th.ReversalRise && amplitude > th.ReversalAmplitude {
				out = append(out, contracts.Anomaly{
					Rule:     RuleVolatilityReversal,
					Date:     ds.Dates[idx],
					Metric:   m.name,
					Detail:   fmt.Sprintf("%s增速剧烈反转：上一期%s，本期%s，幅度%s", m.name, pct1(prev), pct1(curr), pct1(amplitude)),
					Severity: contracts.SeverityCritical,
				})
			}
		}
	}
	return out
}

// ruleCostExpense checks cost, combined-expense and R&D rates against their
// recent median with a Tukey fence.
func ruleCostExpense(ds *contracts.Dataset, th contracts.Thresholds, window int) []contracts.Anomaly {
	var out []contracts.Anomaly

	ratios := []struct {
		name string
		col  string
	}{
		{"成本率", contracts.ColCostRate},
		{"三费率", contracts.ColExpenseRate},
		{"研发费用率", contracts.ColRnDRate},
	}

	for _, r := range ratios {
		recent := series.Tail(series.DropMissing(ds.Column(r.col)), window)
		if len(recent) == 0 {
			continue
		}
		current := recent[len(recent)-1]
		median := series.Median(recent)
		iqr := series.IQR(recent)
		deviation := current - median

		fenced := iqr > 0 && (current < median-th.IQRMultiplier*iqr || current > median+th.IQRMultiplier*iqr)
		if math.Abs(deviation) > th.RateDeviation || fenced {
			severity := contracts.SeverityWarning
			if math.Abs(deviation) >= th.RateSevere {
				severity = contracts.SeverityCritical
			}
			out = append(out, contracts.Anomaly{
				Rule:     RuleCostExpense,
				Date:     ds.LatestDate(),
				Metric:   r.name,
				Detail:   fmt.Sprintf("%s现值%s，中位数%s，偏离%s", r.name, pct2(current), pct2(median), pct2(deviation)),
				Severity: severity,
			})
		}
	}
	return out
}

// ruleAssetLiabilityMismatch checks the latest period only: a liquidity gap
// (current ratio under 1 with negative flow gap) and short-funded long
// assets (短贷长投).
func ruleAssetLiabilityMismatch(ds *contracts.Dataset, th contracts.Thresholds) []contracts.Anomaly {
	var out []contracts.Anomaly

	currentRatio := ds.Latest(contracts.ColCurrentRatio)
	flowGap := ds.Latest(contracts.ColFlowGap)
	if currentRatio < th.CurrentRatioFloor && flowGap < 0 {
		out = append(out, contracts.Anomaly{
			Rule:     RuleLiquidityGap,
			Date:     ds.LatestDate(),
			Metric:   "流动性",
			Detail:   fmt.Sprintf("流动比率%.2f且流动缺口%.0f<0", currentRatio, flowGap),
			Severity: contracts.SeverityCritical,
		})
	}

	shortDebt := ds.Latest(contracts.ColShortDebtRatio)
	longAsset := ds.Latest(contracts.ColLongAssetRatio)
	if shortDebt > th.ShortDebtShare && longAsset > th.LongAssetShare {
		out = append(out, contracts.Anomaly{
			Rule:     RuleMaturityMismatch,
			Date:     ds.LatestDate(),
			Metric:   "期限错配",
			Detail:   fmt.Sprintf("短债占比%s，长期资产占比%s，存在短贷长投风险", pct1(shortDebt), pct1(longAsset)),
			Severity: contracts.SeverityCritical,
		})
	}
	return out
}

// ruleCashProfitGap flags two straight periods of weak or negative operating
// cash flow against positive profit.
func ruleCashProfitGap(ds *contracts.Dataset, th contracts.Thresholds) []contracts.Anomaly {
	if ds.Len() < 2 {
		return nil
	}
	var out []contracts.Anomaly

	ratio := ds.Column(contracts.ColOCFProfitRatio)
	prev, curr := ratio[len(ratio)-2], ratio[len(ratio)-1]
	if prev < th.OCFProfitFloor && curr < th.OCFProfitFloor {
		out = append(out, contracts.Anomaly{
			Rule:     RuleCashProfitGap,
			Date:     ds.LatestDate(),
			Metric:   "现金流/净利润",
			Detail:   fmt.Sprintf("近两期经营现金流/净利润均低于0.8：%.2f, %.2f", prev, curr),
			Severity: contracts.SeverityWarning,
		})
	}

	ocf := ds.Column(contracts.KeyOperatingCashFlow)
	net := ds.Column(contracts.KeyNetProfit)
	n := ds.Len()
	diverged := func(i int) bool { return ocf[i] < 0 && net[i] > 0 }
	if diverged(n-2) && diverged(n-1) {
		out = append(out, contracts.Anomaly{
			Rule:     RuleCashProfitGap,
			Date:     ds.LatestDate(),
			Metric:   "利润质量",
			Detail:   "近两期净利润为正但经营现金流为负，可能存在利润质量问题",
			Severity: contracts.SeverityCritical,
		})
	}
	return out
}

// ruleARInventory covers working-capital stress: turnover days jumping while
// revenue growth stays flat, and receivable/inventory occupancy drifting off
// its recent mean.
func ruleARInventory(ds *contracts.Dataset, th contracts.Thresholds, window int) []contracts.Anomaly {
	if ds.Len() < 2 {
		return nil
	}
	var out []contracts.Anomaly
	n := ds.Len()

	revenueGrowth := series.PctChange(ds.Column(contracts.KeyRevenue))[n-1]
	growthText := "NA"
	if !series.IsMissing(revenueGrowth) {
		growthText = pct1(revenueGrowth)
	}
	flatDemand := series.IsMissing(revenueGrowth) || revenueGrowth < th.RevenueGrowthFloor

	daysChecks := []struct {
		col    string
		metric string
		label  string
	}{
		{contracts.ColARDays, "应收周转", "应收"},
		{contracts.ColInventoryDays, "存货周转", "存货"},
	}
	for _, c := range daysChecks {
		days := ds.Column(c.col)
		diff := days[n-1] - days[n-2]
		if !series.IsMissing(diff) && diff > th.TurnoverDaysJump && flatDemand {
			out = append(out, contracts.Anomaly{
				Rule:     RuleARInventory,
				Date:     ds.LatestDate(),
				Metric:   c.metric,
				Detail:   fmt.Sprintf("%s周转天数较上期增加%.1f天，营收增速%s", c.label, diff, growthText),
				Severity: contracts.SeverityWarning,
			})
		}
	}

	occupancyChecks := []struct {
		key    string
		metric string
	}{
		{contracts.KeyAccountsReceivable, "应收/营收"},
		{contracts.KeyInventories, "存货/营收"},
	}
	revenue := ds.Column(contracts.KeyRevenue)
	for _, c := range occupancyChecks {
		occupancy := series.SafeDivide(ds.Column(c.key), revenue)
		recent := series.Tail(series.DropMissing(occupancy), window)
		if len(recent) == 0 {
			continue
		}
		current := recent[len(recent)-1]
		deviation := current - series.Mean(recent)
		if math.Abs(deviation) > th.OccupancyDrift {
			severity := contracts.SeverityWarning
			if math.Abs(deviation) >= th.OccupancySevere {
				severity = contracts.SeverityCritical
			}
			out = append(out, contracts.Anomaly{
				Rule:     RuleARInventory,
				Date:     ds.LatestDate(),
				Metric:   c.metric,
				Detail:   fmt.Sprintf("%s占用率%s，较均值偏离%s", c.metric, pct2(current), pct2(deviation)),
				Severity: severity,
			})
		}
	}
	return out
}

// ruleCapexCapitalization flags a capex rate running both high and well
// above its trailing mean, and a paired capex-up/R&D-down move that smells
// like expense capitalization.
func ruleCapexCapitalization(ds *contracts.Dataset, th contracts.Thresholds, window int) []contracts.Anomaly {
	if ds.Len() < 2 {
		return nil
	}
	var out []contracts.Anomaly

	capexRate := ds.Column(contracts.ColCapexRate)
	recent := series.Tail(series.DropMissing(capexRate), window)
	if len(recent) == 0 {
		return nil
	}
	current := recent[len(recent)-1]
	baseline := series.Missing()
	if len(recent) > 1 {
		baseline = series.Mean(recent[:len(recent)-1])
	}
	uplift := current - baseline
	if current > th.CapexRateCeiling && !series.IsMissing(uplift) && uplift > th.CapexUplift {
		out = append(out, contracts.Anomaly{
			Rule:     RuleCapex,
			Date:     ds.LatestDate(),
			Metric:   "资本开支率",
			Detail:   fmt.Sprintf("资本开支率%s，较近%d期均值抬升%s", pct2(current), len(recent)-1, pct2(uplift)),
			Severity: contracts.SeverityCritical,
		})
	}

	n := ds.Len()
	rndRate := ds.Column(contracts.ColRnDRate)
	capexRise := capexRate[n-1] - capexRate[n-2]
	rndDrop := rndRate[n-2] - rndRate[n-1]
	if !series.IsMissing(capexRise) && !series.IsMissing(rndDrop) && capexRise > th.CapexRise && rndDrop > th.RnDDrop {
		out = append(out, contracts.Anomaly{
			Rule:     RuleCapex,
			Date:     ds.LatestDate(),
			Metric:   "资本化倾向",
			Detail:   fmt.Sprintf("资本开支率单期上升%s且研发费用率下降%s，可能存在费用资本化", pct2(capexRise), pct2(rndDrop)),
			Severity: contracts.SeverityWarning,
		})
	}
	return out
}
