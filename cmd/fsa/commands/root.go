package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fsa",
	Short: "财务报表分析系统 - financial statement analysis pipeline",
	Long: `FSA Unified CLI

新浪财经 재무제표 수집부터 비율 분석, 이상탐지, 리포트 생성까지.

Usage:
  go run ./cmd/fsa [command]

Examples:
  go run ./cmd/fsa fetch 600519
  go run ./cmd/fsa analyze 600519
  go run ./cmd/fsa report 600519 --article
  go run ./cmd/fsa api
  go run ./cmd/fsa scheduler`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
