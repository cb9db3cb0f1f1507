package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/fsa/backend/internal/analysis"
	"github.com/wonny/fsa/backend/internal/api"
	"github.com/wonny/fsa/backend/internal/api/handlers"
	"github.com/wonny/fsa/backend/internal/external/sina"
	"github.com/wonny/fsa/backend/internal/store"
	"github.com/wonny/fsa/backend/pkg/config"
	"github.com/wonny/fsa/backend/pkg/httputil"
	"github.com/wonny/fsa/backend/pkg/logger"
	"github.com/wonny/fsa/backend/pkg/redis"
)

var apiPort string

// apiCmd starts the HTTP API server
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "분석 API 서버 시작",
	Long: `재무 분석 HTTP API 서버를 시작합니다.

Endpoints:
  GET  /health
  GET  /api/analysis/{symbol}
  GET  /api/analysis/{symbol}/anomalies
  POST /api/statements/{symbol}/refresh

Example:
  go run ./cmd/fsa api
  go run ./cmd/fsa api --port 8091`,
	RunE: runAPI,
}

func init() {
	apiCmd.Flags().StringVarP(&apiPort, "port", "p", "", "server port (overrides PORT)")
	rootCmd.AddCommand(apiCmd)
}

func runAPI(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if apiPort != "" {
		cfg.Port = apiPort
	}
	log := logger.New(cfg)

	redisClient, err := redis.New(cfg)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer redisClient.Close()
	cache := redis.NewCache(redisClient, "fsa")

	httpClient := httputil.New(log, cfg.Sina.Timeout)
	fetcher, err := sina.NewClient(httpClient, log, cfg)
	if err != nil {
		return fmt.Errorf("create sina client: %w", err)
	}

	csvStore := store.NewCSVStore(log, cfg.Report.DataDir)
	analyzer := analysis.New(log, cfg)

	analysisHandler := handlers.NewAnalysisHandler(log, cfg, analyzer, csvStore, cache, fetcher)
	router := api.NewRouter(analysisHandler, log)
	server := api.New(cfg, log, router)

	// Graceful shutdown on SIGINT/SIGTERM
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.WithField("signal", sig.String()).Info("Shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}
