package jobs

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/fsa/backend/internal/analysis"
	"github.com/wonny/fsa/backend/internal/contracts"
	"github.com/wonny/fsa/backend/internal/report"
	"github.com/wonny/fsa/backend/internal/store"
	"github.com/wonny/fsa/backend/pkg/config"
	"github.com/wonny/fsa/backend/pkg/logger"
)

type stubFetcher struct {
	raw  map[string]*contracts.RawStatements
	errs map[string]error
}

func (f *stubFetcher) FetchStatements(_ context.Context, symbol string) (*contracts.RawStatements, error) {
	if err := f.errs[symbol]; err != nil {
		return nil, err
	}
	return f.raw[symbol], nil
}

type stubLister struct{ symbols []string }

func (l *stubLister) TrackedSymbols(_ context.Context) ([]string, error) {
	return l.symbols, nil
}

type recordingSaver struct{ saved []string }

func (s *recordingSaver) SaveResult(_ context.Context, result *contracts.AnalysisResult) error {
	s.saved = append(s.saved, result.Symbol)
	return nil
}

func rawFor(symbol string) *contracts.RawStatements {
	return &contracts.RawStatements{
		Symbol: symbol,
		Balance: []contracts.RawRow{
			{contracts.ReportDateColumn: "20241231", "Total Assets": "2400"},
			{contracts.ReportDateColumn: "20231231", "Total Assets": "2200"},
		},
		Income: []contracts.RawRow{
			{contracts.ReportDateColumn: "20241231", "Operating Revenue": "1300", "Net Profit": "320"},
			{contracts.ReportDateColumn: "20231231", "Operating Revenue": "1200", "Net Profit": "290"},
		},
	}
}

func testJob(t *testing.T, fetcher StatementFetcher, lister SymbolLister, saver ResultSaver) *RefreshJob {
	t.Helper()
	cfg := &config.Config{
		Env:       "development",
		LogLevel:  "error",
		LogFormat: "json",
		Analysis:  config.AnalysisConfig{Periods: 4, Window: 4},
		Report:    config.ReportConfig{OutputDir: t.TempDir()},
	}
	log := logger.New(cfg)
	return NewRefreshJob(
		log,
		fetcher,
		lister,
		store.NewCSVStore(log, t.TempDir()),
		analysis.New(log, cfg),
		report.NewGenerator(log, cfg),
		saver,
		"0 0 6 * * *",
	)
}

func TestRefreshJobRun(t *testing.T) {
	saver := &recordingSaver{}
	job := testJob(t,
		&stubFetcher{raw: map[string]*contracts.RawStatements{
			"600519": rawFor("600519"),
			"000858": rawFor("000858"),
		}},
		&stubLister{symbols: []string{"600519", "000858"}},
		saver,
	)

	require.NoError(t, job.Run(context.Background()))
	assert.ElementsMatch(t, []string{"600519", "000858"}, saver.saved)
}

func TestRefreshJobPartialFailure(t *testing.T) {
	saver := &recordingSaver{}
	job := testJob(t,
		&stubFetcher{
			raw:  map[string]*contracts.RawStatements{"600519": rawFor("600519")},
			errs: map[string]error{"000858": fmt.Errorf("upstream down")},
		},
		&stubLister{symbols: []string{"600519", "000858"}},
		saver,
	)

	// One surviving symbol keeps the cycle green
	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, []string{"600519"}, saver.saved)
}

func TestRefreshJobAllFail(t *testing.T) {
	job := testJob(t,
		&stubFetcher{errs: map[string]error{"600519": fmt.Errorf("upstream down")}},
		&stubLister{symbols: []string{"600519"}},
		&recordingSaver{},
	)

	assert.Error(t, job.Run(context.Background()))
}

func TestRefreshJobMetadata(t *testing.T) {
	job := testJob(t, &stubFetcher{}, &stubLister{}, nil)

	assert.Equal(t, "statement_refresh", job.Name())
	assert.Equal(t, "0 0 6 * * *", job.Schedule())
	require.NoError(t, job.Run(context.Background()), "empty symbol list is a no-op")
}
