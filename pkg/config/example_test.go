package config_test

import (
	"fmt"

	"github.com/wonny/spreadclean/pkg/config"
)

// Example demonstrates how to use the config package
func Example() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		return
	}

	fmt.Printf("Environment: %s\n", cfg.Env)
	fmt.Printf("Input: %s\n", cfg.DataPath("SecurityData.csv"))
	fmt.Printf("Output: %s (%s)\n", cfg.OutputDir, cfg.OutputFormat)
}
