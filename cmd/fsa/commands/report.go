package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/fsa/backend/internal/analysis"
	"github.com/wonny/fsa/backend/internal/llm"
	"github.com/wonny/fsa/backend/internal/report"
	"github.com/wonny/fsa/backend/internal/store"
	"github.com/wonny/fsa/backend/pkg/config"
	"github.com/wonny/fsa/backend/pkg/httputil"
	"github.com/wonny/fsa/backend/pkg/logger"
)

var (
	reportArticle bool
	reportPeriods int
)

// reportCmd renders the markdown report, optionally followed by the
// LLM-written analysis article
var reportCmd = &cobra.Command{
	Use:   "report <symbol>",
	Short: "마크다운 분석 리포트 생성 (--article로 AI 기사까지)",
	Long: `분석 결과를 마크다운 리포트로 저장합니다.

--article을 주면 생성된 리포트를 데이터 프롬프트로 묶어
OpenAI 호환 엔드포인트에서 종합 분석 기사를 생성합니다.

Example:
  go run ./cmd/fsa report 600519
  go run ./cmd/fsa report 600519 --article`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	reportCmd.Flags().BoolVar(&reportArticle, "article", false, "generate the AI analysis article after the report")
	reportCmd.Flags().IntVar(&reportPeriods, "periods", 0, "reporting periods to analyze (overrides ANALYSIS_PERIODS)")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	symbol := args[0]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if reportPeriods > 0 {
		cfg.Analysis.Periods = reportPeriods
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

	generator := report.NewGenerator(log, cfg)
	path, err := generator.Write(result)
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	fmt.Printf("✓ report written: %s\n", path)

	if !reportArticle {
		return nil
	}

	writerCfg, err := llm.LoadWriterConfig(cfg)
	if err != nil {
		return fmt.Errorf("load writer config: %w", err)
	}
	prompt, err := llm.BuildDataPrompt(cfg.Report.OutputDir, symbol)
	if err != nil {
		return fmt.Errorf("build data prompt: %w", err)
	}

	// Article generation runs far longer than a statement fetch
	httpClient := httputil.New(log, time.Duration(writerCfg.TimeoutSec)*time.Second).
		WithRetry(writerCfg.MaxRetries, time.Duration(writerCfg.RetryDelay)*time.Second)

	writer := llm.NewWriter(httpClient, log, writerCfg, cfg.Report.OutputDir)
	articlePath, err := writer.WriteArticle(context.Background(), symbol, prompt)
	if err != nil {
		return fmt.Errorf("write article: %w", err)
	}
	fmt.Printf("✓ article written: %s\n", articlePath)
	return nil
}
