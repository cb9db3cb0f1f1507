package main

import (
	"os"

	"github.com/wonny/fsa/backend/cmd/fsa/commands"
)

// main is the entry point for the FSA CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/fsa [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
