package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wonny/fsa/backend/internal/analysis"
	"github.com/wonny/fsa/backend/internal/report"
	"github.com/wonny/fsa/backend/internal/store"
	"github.com/wonny/fsa/backend/pkg/config"
	"github.com/wonny/fsa/backend/pkg/database"
	"github.com/wonny/fsa/backend/pkg/logger"
)

var (
	analyzeJSON    bool
	analyzeSave    bool
	analyzePeriods int
	analyzeWindow  int
)

// analyzeCmd runs the full pipeline on stored statements
var analyzeCmd = &cobra.Command{
	Use:   "analyze <symbol>",
	Short: "저장된 재무제표로 비율 분석 + 이상탐지 실행",
	Long: `저장된 CSV 재무제표를 읽어 분석 파이프라인을 실행합니다.

이 명령어는:
- 재무제표 정규화 및 병합
- 재무비율 6개 카테고리 계산 (杜邦分析 포함)
- 현금흐름 질 지표 계산
- 구조적 이상탐지 규칙 6종 평가

Example:
  go run ./cmd/fsa analyze 600519
  go run ./cmd/fsa analyze 600519 --json
  go run ./cmd/fsa analyze 600519 --save`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the full result as JSON")
	analyzeCmd.Flags().BoolVar(&analyzeSave, "save", false, "persist metrics and anomalies to PostgreSQL")
	analyzeCmd.Flags().IntVar(&analyzePeriods, "periods", 0, "reporting periods to analyze (overrides ANALYSIS_PERIODS)")
	analyzeCmd.Flags().IntVar(&analyzeWindow, "window", 0, "anomaly rule trailing window (overrides ANALYSIS_WINDOW)")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	symbol := args[0]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if analyzePeriods > 0 {
		cfg.Analysis.Periods = analyzePeriods
	}
	if analyzeWindow > 0 {
		cfg.Analysis.Window = analyzeWindow
	}
	log := logger.New(cfg)

	csvStore := store.NewCSVStore(log, cfg.Report.DataDir)
	raw, err := csvStore.Load(symbol, cfg.Analysis.Periods)
	if err != nil {
		return fmt.Errorf("load statements (run fetch first?): %w", err)
	}

	analyzer := analysis.New(log, cfg)
	result, err := analyzer.Analyze(raw)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	if analyzeSave {
		db, err := database.New(cfg)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer db.Close()

		repo := store.NewResultRepository(db.Pool)
		if err := repo.SaveResult(context.Background(), result); err != nil {
			return fmt.Errorf("persist result: %w", err)
		}
		fmt.Println("✓ metrics and anomalies persisted")
	}

	if analyzeJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	if result.FrequencyNote != "" {
		fmt.Println(result.FrequencyNote)
	}
	for _, w := range result.Warnings {
		fmt.Printf("警告：%s\n", w)
	}
	fmt.Printf("\n%s 结构性异常检测（%d 条）\n\n", symbol, len(result.Anomalies))
	fmt.Println(report.AnomalyTable(result.Anomalies))
	return nil
}
