package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/fsa/backend/internal/analysis"
	"github.com/wonny/fsa/backend/internal/contracts"
	"github.com/wonny/fsa/backend/internal/store"
	"github.com/wonny/fsa/backend/pkg/config"
	"github.com/wonny/fsa/backend/pkg/logger"
	"github.com/wonny/fsa/backend/pkg/redis"
)

type stubFetcher struct {
	raw *contracts.RawStatements
	err error
}

func (f *stubFetcher) FetchStatements(_ context.Context, _ string) (*contracts.RawStatements, error) {
	return f.raw, f.err
}

func testRaw() *contracts.RawStatements {
	return &contracts.RawStatements{
		Symbol: "600519",
		Balance: []contracts.RawRow{
			{contracts.ReportDateColumn: "20241231", "Total Assets": "2400", "Total Current Assets": "1200", "Total Current Liabilities": "600"},
			{contracts.ReportDateColumn: "20231231", "Total Assets": "2200", "Total Current Assets": "1100", "Total Current Liabilities": "560"},
		},
		Income: []contracts.RawRow{
			{contracts.ReportDateColumn: "20241231", "Operating Revenue": "1300", "Net Profit": "320"},
			{contracts.ReportDateColumn: "20231231", "Operating Revenue": "1200", "Net Profit": "290"},
		},
		CashFlow: []contracts.RawRow{
			{contracts.ReportDateColumn: "20241231", "Net Cash Flow from Operating Activities": "350"},
			{contracts.ReportDateColumn: "20231231", "Net Cash Flow from Operating Activities": "310"},
		},
	}
}

func testHandler(t *testing.T, fetcher StatementFetcher) (*AnalysisHandler, *store.CSVStore) {
	t.Helper()
	cfg := &config.Config{
		Env:       "development",
		LogLevel:  "error",
		LogFormat: "json",
		Analysis:  config.AnalysisConfig{Periods: 4, Window: 4},
		Redis:     config.RedisConfig{Enabled: false},
	}
	log := logger.New(cfg)

	client, err := redis.New(cfg)
	require.NoError(t, err)

	csvStore := store.NewCSVStore(log, t.TempDir())
	h := NewAnalysisHandler(log, cfg, analysis.New(log, cfg), csvStore, redis.NewCache(client, "fsa"), fetcher)
	return h, csvStore
}

func doRequest(h http.HandlerFunc, method, path, symbol string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req = mux.SetURLVars(req, map[string]string{"symbol": symbol})
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestGetAnalysis(t *testing.T) {
	h, csvStore := testHandler(t, &stubFetcher{})
	require.NoError(t, csvStore.Save(testRaw()))

	rec := doRequest(h.GetAnalysis, http.MethodGet, "/api/analysis/600519", "600519")

	require.Equal(t, http.StatusOK, rec.Code)
	var result contracts.AnalysisResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "600519", result.Symbol)
	assert.Equal(t, 2, result.Periods)
	require.NotNil(t, result.Series)
	assert.Len(t, result.Series.Categories, 6)
}

func TestGetAnalysisUnknownSymbol(t *testing.T) {
	h, _ := testHandler(t, &stubFetcher{})

	rec := doRequest(h.GetAnalysis, http.MethodGet, "/api/analysis/000001", "000001")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetAnomalies(t *testing.T) {
	h, csvStore := testHandler(t, &stubFetcher{})
	require.NoError(t, csvStore.Save(testRaw()))

	rec := doRequest(h.GetAnomalies, http.MethodGet, "/api/analysis/600519/anomalies", "600519")

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Symbol    string              `json:"symbol"`
		Anomalies []contracts.Anomaly `json:"anomalies"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "600519", body.Symbol)
}

func TestRefresh(t *testing.T) {
	h, csvStore := testHandler(t, &stubFetcher{raw: testRaw()})

	rec := doRequest(h.Refresh, http.MethodPost, "/api/statements/600519/refresh", "600519")

	require.Equal(t, http.StatusOK, rec.Code)
	loaded, err := csvStore.Load("600519", 0)
	require.NoError(t, err)
	assert.Len(t, loaded.Balance, 2)
}

func TestRefreshFetchFailure(t *testing.T) {
	h, _ := testHandler(t, &stubFetcher{err: fmt.Errorf("upstream down")})

	rec := doRequest(h.Refresh, http.MethodPost, "/api/statements/600519/refresh", "600519")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
