package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/fsa/backend/internal/analysis"
	"github.com/wonny/fsa/backend/internal/contracts"
	"github.com/wonny/fsa/backend/internal/statement"
	"github.com/wonny/fsa/backend/internal/store"
	"github.com/wonny/fsa/backend/pkg/config"
	"github.com/wonny/fsa/backend/pkg/logger"
	"github.com/wonny/fsa/backend/pkg/redis"
)

// StatementFetcher downloads raw statements from the upstream source
type StatementFetcher interface {
	FetchStatements(ctx context.Context, symbol string) (*contracts.RawStatements, error)
}

// AnalysisHandler serves analysis results over HTTP
type AnalysisHandler struct {
	log      *logger.Logger
	analyzer *analysis.Analyzer
	store    *store.CSVStore
	cache    *redis.Cache
	fetcher  StatementFetcher
	redisCfg config.RedisConfig
}

func NewAnalysisHandler(
	log *logger.Logger,
	cfg *config.Config,
	analyzer *analysis.Analyzer,
	csvStore *store.CSVStore,
	cache *redis.Cache,
	fetcher StatementFetcher,
) *AnalysisHandler {
	return &AnalysisHandler{
		log:      log.WithField("component", "analysis_handler"),
		analyzer: analyzer,
		store:    csvStore,
		cache:    cache,
		fetcher:  fetcher,
		redisCfg: cfg.Redis,
	}
}

// GetAnalysis returns the full analysis result for a symbol from the
// stored statements, serving a cached result when one exists.
func (h *AnalysisHandler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	var cached contracts.AnalysisResult
	if ok, err := h.cache.Get(r.Context(), redis.AnalysisKey(symbol), &cached); err == nil && ok {
		writeJSON(w, http.StatusOK, &cached)
		return
	}

	result, ok := h.analyze(w, symbol)
	if !ok {
		return
	}

	if err := h.cache.Set(r.Context(), redis.AnalysisKey(symbol), result, h.redisCfg.TTL); err != nil {
		h.log.WithError(err).Warn("analysis cache write failed")
	}
	writeJSON(w, http.StatusOK, result)
}

// GetAnomalies returns only the anomaly hits for a symbol
func (h *AnalysisHandler) GetAnomalies(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	result, ok := h.analyze(w, symbol)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"symbol":    result.Symbol,
		"anomalies": result.Anomalies,
	})
}

// Refresh downloads fresh statements, persists them and invalidates the
// cached analysis for the symbol.
func (h *AnalysisHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	raw, err := h.fetcher.FetchStatements(r.Context(), symbol)
	if err != nil {
		h.log.WithError(err).WithField("symbol", symbol).Error("statement fetch failed")
		writeError(w, http.StatusBadGateway, "statement fetch failed")
		return
	}
	if err := h.store.Save(raw); err != nil {
		h.log.WithError(err).Error("statement save failed")
		writeError(w, http.StatusInternalServerError, "statement save failed")
		return
	}
	if err := h.cache.Delete(r.Context(), redis.AnalysisKey(symbol)); err != nil {
		h.log.WithError(err).Warn("analysis cache invalidation failed")
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"symbol":    symbol,
		"balance":   len(raw.Balance),
		"income":    len(raw.Income),
		"cash_flow": len(raw.CashFlow),
	})
}

// analyze loads stored statements and runs the pipeline, writing the
// error response itself when something fails
func (h *AnalysisHandler) analyze(w http.ResponseWriter, symbol string) (*contracts.AnalysisResult, bool) {
	raw, err := h.store.Load(symbol, 0)
	if err != nil {
		writeError(w, http.StatusNotFound, "no statements stored for symbol")
		return nil, false
	}

	result, err := h.analyzer.Analyze(raw)
	if err != nil {
		if errors.Is(err, statement.ErrInsufficientData) {
			writeError(w, http.StatusUnprocessableEntity, "insufficient statement data")
			return nil, false
		}
		h.log.WithError(err).WithField("symbol", symbol).Error("analysis failed")
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return nil, false
	}
	return result, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
