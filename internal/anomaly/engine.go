package anomaly

import (
	"github.com/wonny/fsa/backend/internal/contracts"
	"github.com/wonny/fsa/backend/pkg/logger"
)

// DefaultWindow is the trailing-period window for the windowed rules
const DefaultWindow = 4

// Engine runs the structural anomaly rules over a prepared dataset.
// Rules run in a fixed order so results are reproducible run to run.
// ⭐ SSOT: 이상탐지 규칙 실행 순서와 임계값은 여기서만 관리
type Engine struct {
	log        *logger.Logger
	thresholds contracts.Thresholds
}

func NewEngine(log *logger.Logger, thresholds contracts.Thresholds) *Engine {
	return &Engine{
		log:        log.WithField("component", "anomaly_engine"),
		thresholds: thresholds,
	}
}

// Evaluate applies every rule and returns the hits in rule order. The
// trailing window is capped at the dataset length; window <= 0 falls back
// to DefaultWindow. A dataset needs at least one period; rules with higher
// period requirements skip themselves.
func (e *Engine) Evaluate(ds *contracts.Dataset, window int) []contracts.Anomaly {
	if ds == nil || ds.Len() == 0 {
		return nil
	}
	if window <= 0 {
		window = DefaultWindow
	}
	if window > ds.Len() {
		window = ds.Len()
	}

	var results []contracts.Anomaly
	results = append(results, ruleContinuousVolatility(ds, e.thresholds)...)
	results = append(results, ruleCostExpense(ds, e.thresholds, window)...)
	results = append(results, ruleAssetLiabilityMismatch(ds, e.thresholds)...)
	results = append(results, ruleCashProfitGap(ds, e.thresholds)...)
	results = append(results, ruleARInventory(ds, e.thresholds, window)...)
	results = append(results, ruleCapexCapitalization(ds, e.thresholds, window)...)

	e.log.WithFields(map[string]interface{}{
		"symbol":    ds.Symbol,
		"periods":   ds.Len(),
		"window":    window,
		"anomalies": len(results),
	}).Info("anomaly evaluation complete")

	return results
}
