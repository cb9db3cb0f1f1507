package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/fsa/backend/internal/external/sina"
	"github.com/wonny/fsa/backend/internal/store"
	"github.com/wonny/fsa/backend/pkg/config"
	"github.com/wonny/fsa/backend/pkg/httputil"
	"github.com/wonny/fsa/backend/pkg/logger"
)

// fetchCmd downloads the three statements for a symbol
var fetchCmd = &cobra.Command{
	Use:   "fetch <symbol>",
	Short: "新浪财经에서 재무제표 3종 다운로드",
	Long: `새 재무제표를 다운로드하고 CSV로 저장합니다.

이 명령어는:
- 资产负债表 / 利润表 / 现金流量表 다운로드
- 표두를 영문 표준 헤더로 번역
- 종목별 CSV 파일로 저장

Example:
  go run ./cmd/fsa fetch 600519`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	symbol := args[0]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	httpClient := httputil.New(log, cfg.Sina.Timeout)
	client, err := sina.NewClient(httpClient, log, cfg)
	if err != nil {
		return fmt.Errorf("create sina client: %w", err)
	}

	raw, err := client.FetchStatements(context.Background(), symbol)
	if err != nil {
		return fmt.Errorf("fetch statements: %w", err)
	}

	csvStore := store.NewCSVStore(log, cfg.Report.DataDir)
	if err := csvStore.Save(raw); err != nil {
		return fmt.Errorf("save statements: %w", err)
	}

	fmt.Printf("✓ %s: balance=%d profit=%d cash_flow=%d periods saved\n",
		symbol, len(raw.Balance), len(raw.Income), len(raw.CashFlow))
	return nil
}
