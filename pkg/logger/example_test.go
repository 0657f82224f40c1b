package logger_test

import (
	"errors"

	"github.com/wonny/spreadclean/pkg/config"
	"github.com/wonny/spreadclean/pkg/logger"
)

// Example_withFields demonstrates structured logging with fields
func Example_withFields() {
	cfg := &config.Config{
		Env:       "production",
		LogLevel:  "info",
		LogFormat: "json",
	}

	log := logger.New(cfg)

	stageLog := log.WithField("module", "s5_impute")
	stageLog.WithFields(map[string]interface{}{
		"instrument_id": "83162CSS3_0",
		"missing":       3,
		"window":        9,
	}).Info("Filled missing spreads")

	// Output:
}

// Example_withError demonstrates error logging
func Example_withError() {
	cfg := &config.Config{
		Env:       "production",
		LogLevel:  "error",
		LogFormat: "json",
	}

	log := logger.New(cfg)

	err := errors.New(`parse "closing_price" row 12: "abc"`)
	log.WithError(err).Error("Normalization aborted")

	// Output:
}
