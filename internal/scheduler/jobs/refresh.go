package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/fsa/backend/internal/analysis"
	"github.com/wonny/fsa/backend/internal/contracts"
	"github.com/wonny/fsa/backend/internal/report"
	"github.com/wonny/fsa/backend/internal/store"
	"github.com/wonny/fsa/backend/pkg/logger"
)

// StatementFetcher downloads raw statements from the upstream source
type StatementFetcher interface {
	FetchStatements(ctx context.Context, symbol string) (*contracts.RawStatements, error)
}

// SymbolLister yields the symbols to refresh
type SymbolLister interface {
	TrackedSymbols(ctx context.Context) ([]string, error)
}

// ResultSaver persists one analysis run
type ResultSaver interface {
	SaveResult(ctx context.Context, result *contracts.AnalysisResult) error
}

// RefreshJob re-downloads statements for every tracked symbol, reruns the
// analysis pipeline, persists the results and rewrites the markdown
// reports. One failing symbol does not abort the rest.
type RefreshJob struct {
	log       *logger.Logger
	fetcher   StatementFetcher
	symbols   SymbolLister
	csvStore  *store.CSVStore
	analyzer  *analysis.Analyzer
	generator *report.Generator
	saver     ResultSaver
	schedule  string
}

func NewRefreshJob(
	log *logger.Logger,
	fetcher StatementFetcher,
	symbols SymbolLister,
	csvStore *store.CSVStore,
	analyzer *analysis.Analyzer,
	generator *report.Generator,
	saver ResultSaver,
	schedule string,
) *RefreshJob {
	return &RefreshJob{
		log:       log.WithField("job", "statement_refresh"),
		fetcher:   fetcher,
		symbols:   symbols,
		csvStore:  csvStore,
		analyzer:  analyzer,
		generator: generator,
		saver:     saver,
		schedule:  schedule,
	}
}

func (j *RefreshJob) Name() string {
	return "statement_refresh"
}

func (j *RefreshJob) Schedule() string {
	return j.schedule
}

// Run refreshes every tracked symbol, returning an error when all fail
func (j *RefreshJob) Run(ctx context.Context) error {
	symbols, err := j.symbols.TrackedSymbols(ctx)
	if err != nil {
		return fmt.Errorf("list tracked symbols: %w", err)
	}
	if len(symbols) == 0 {
		j.log.Warn("no tracked symbols, nothing to refresh")
		return nil
	}

	var failed int
	for _, symbol := range symbols {
		if err := j.refreshSymbol(ctx, symbol); err != nil {
			failed++
			j.log.WithError(err).WithField("symbol", symbol).Error("symbol refresh failed")
		}
	}

	j.log.WithFields(map[string]interface{}{
		"total":  len(symbols),
		"failed": failed,
	}).Info("refresh cycle complete")

	if failed == len(symbols) {
		return fmt.Errorf("all %d symbols failed to refresh", failed)
	}
	return nil
}

func (j *RefreshJob) refreshSymbol(ctx context.Context, symbol string) error {
	raw, err := j.fetcher.FetchStatements(ctx, symbol)
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	if err := j.csvStore.Save(raw); err != nil {
		return fmt.Errorf("save statements: %w", err)
	}

	result, err := j.analyzer.Analyze(raw)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}
	if j.saver != nil {
		if err := j.saver.SaveResult(ctx, result); err != nil {
			return fmt.Errorf("persist result: %w", err)
		}
	}
	if _, err := j.generator.Write(result); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
