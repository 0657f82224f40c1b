package main

import (
	"os"

	"github.com/wonny/spreadclean/cmd/clean/commands"
)

// main is the entry point for the spreadclean CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/clean [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
