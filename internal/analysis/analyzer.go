package analysis

import (
	"github.com/wonny/fsa/backend/internal/anomaly"
	"github.com/wonny/fsa/backend/internal/contracts"
	"github.com/wonny/fsa/backend/internal/statement"
	"github.com/wonny/fsa/backend/pkg/config"
	"github.com/wonny/fsa/backend/pkg/logger"
	"github.com/wonny/fsa/backend/pkg/series"
)

// Analyzer runs the full pipeline for one symbol: normalize raw statements,
// derive the ratio and DuPont views, score cash-flow quality, evaluate the
// structural anomaly rules.
// ⭐ SSOT: 분석 파이프라인 실행 순서는 여기서만 결정
type Analyzer struct {
	log        *logger.Logger
	normalizer *statement.Normalizer
	engine     *anomaly.Engine
	periods    int
	window     int
}

func New(log *logger.Logger, cfg *config.Config) *Analyzer {
	return &Analyzer{
		log:        log.WithField("component", "analyzer"),
		normalizer: statement.NewNormalizer(log),
		engine:     anomaly.NewEngine(log, contracts.DefaultThresholds()),
		periods:    cfg.Analysis.Periods,
		window:     cfg.Analysis.Window,
	}
}

// Analyze produces the complete result for one symbol's raw statements
func (a *Analyzer) Analyze(raw *contracts.RawStatements) (*contracts.AnalysisResult, error) {
	ds, warnings, err := a.normalizer.Normalize(raw, a.periods)
	if err != nil {
		return nil, err
	}

	Enrich(ds)

	result := &contracts.AnalysisResult{
		Symbol:        ds.Symbol,
		Periods:       ds.Len(),
		Window:        a.window,
		Dates:         ds.Dates,
		Series:        BuildMetricSeries(ds),
		CashFlow:      BuildCashFlowQuality(ds),
		Snapshot:      buildSnapshot(ds),
		Anomalies:     a.engine.Evaluate(ds, a.window),
		Warnings:      warnings,
		FrequencyNote: statement.DetectFrequencyNote(ds.Dates),
	}

	a.log.WithFields(map[string]interface{}{
		"symbol":    result.Symbol,
		"periods":   result.Periods,
		"anomalies": len(result.Anomalies),
	}).Info("analysis complete")

	return result, nil
}

// buildSnapshot pulls the latest period's headline figures
func buildSnapshot(ds *contracts.Dataset) []contracts.SnapshotItem {
	items := []struct {
		name   string
		format contracts.Format
		value  float64
	}{
		{"营收", contracts.FormatNumber, ds.Latest(contracts.KeyRevenue)},
		{"净利润", contracts.FormatNumber, ds.Latest(contracts.KeyNetProfit)},
		{"经营现金流", contracts.FormatNumber, ds.Latest(contracts.KeyOperatingCashFlow)},
		{"毛利率", contracts.FormatPercent, ds.Latest(contracts.ColGrossMargin)},
		{"成本率", contracts.FormatPercent, ds.Latest(contracts.ColCostRate)},
		{"三费率", contracts.FormatPercent, ds.Latest(contracts.ColExpenseRate)},
		{"研发费用率", contracts.FormatPercent, ds.Latest(contracts.ColRnDRate)},
		{"应收/营收", contracts.FormatPercent, series.SafeRatio(ds.Latest(contracts.KeyAccountsReceivable), ds.Latest(contracts.KeyRevenue))},
		{"存货/营收", contracts.FormatPercent, series.SafeRatio(ds.Latest(contracts.KeyInventories), ds.Latest(contracts.KeyRevenue))},
		{"流动比率", contracts.FormatRatio, ds.Latest(contracts.ColCurrentRatio)},
		{"短债占比", contracts.FormatPercent, ds.Latest(contracts.ColShortDebtRatio)},
		{"资本开支率", contracts.FormatPercent, ds.Latest(contracts.ColCapexRate)},
	}

	out := make([]contracts.SnapshotItem, 0, len(items))
	for _, it := range items {
		out = append(out, contracts.SnapshotItem{
			Name:   it.name,
			Format: it.format,
			Value:  contracts.Value(it.value),
		})
	}
	return out
}
