package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/fsa/backend/internal/analysis"
	"github.com/wonny/fsa/backend/internal/external/sina"
	"github.com/wonny/fsa/backend/internal/report"
	"github.com/wonny/fsa/backend/internal/scheduler"
	"github.com/wonny/fsa/backend/internal/scheduler/jobs"
	"github.com/wonny/fsa/backend/internal/store"
	"github.com/wonny/fsa/backend/pkg/config"
	"github.com/wonny/fsa/backend/pkg/database"
	"github.com/wonny/fsa/backend/pkg/httputil"
	"github.com/wonny/fsa/backend/pkg/logger"
)

var (
	schedulerCron string
	schedulerNow  bool
)

// schedulerCmd runs the statement refresh scheduler in the foreground
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "추적 종목 재무제표 갱신 스케줄러 시작",
	Long: `추적 종목(analysis.tracked_symbols)의 재무제표를 주기적으로
갱신하고 분석 결과를 저장합니다.

이 명령어는:
- cron 스케줄에 따라 전 종목 재무제표 재수집
- 분석 파이프라인 재실행 후 PostgreSQL에 저장
- 마크다운 리포트 재생성

Example:
  go run ./cmd/fsa scheduler
  go run ./cmd/fsa scheduler --cron "0 0 6 * * *"
  go run ./cmd/fsa scheduler --now`,
	RunE: runScheduler,
}

func init() {
	schedulerCmd.Flags().StringVar(&schedulerCron, "cron", "0 0 6 * * *", "refresh schedule (cron with seconds)")
	schedulerCmd.Flags().BoolVar(&schedulerNow, "now", false, "run the refresh job immediately on startup")
	rootCmd.AddCommand(schedulerCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()
	repo := store.NewResultRepository(db.Pool)

	httpClient := httputil.New(log, cfg.Sina.Timeout)
	fetcher, err := sina.NewClient(httpClient, log, cfg)
	if err != nil {
		return fmt.Errorf("create sina client: %w", err)
	}

	refreshJob := jobs.NewRefreshJob(
		log,
		fetcher,
		repo,
		store.NewCSVStore(log, cfg.Report.DataDir),
		analysis.New(log, cfg),
		report.NewGenerator(log, cfg),
		repo,
		schedulerCron,
	)

	sched := scheduler.New(log)
	if err := sched.AddJob(refreshJob); err != nil {
		return fmt.Errorf("add refresh job: %w", err)
	}

	sched.Start()
	if schedulerNow {
		if err := sched.RunJob(refreshJob.Name()); err != nil {
			return fmt.Errorf("run refresh job: %w", err)
		}
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.WithField("signal", sig.String()).Info("Shutdown signal received")

	sched.Stop()
	return nil
}
