package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	// Check defaults
	if cfg.Env != "development" {
		t.Errorf("Expected Env to be development, got %s", cfg.Env)
	}

	if cfg.OutputFormat != "xlsx" {
		t.Errorf("Expected OutputFormat to be xlsx, got %s", cfg.OutputFormat)
	}

	if cfg.DataDir != "Data" {
		t.Errorf("Expected DataDir to be Data, got %s", cfg.DataDir)
	}
}

func TestLoadWithCustomValues(t *testing.T) {
	os.Setenv("ENV", "production")
	os.Setenv("OUTPUT_FORMAT", "csv")
	os.Setenv("OUTPUT_DIR", "/tmp/clean")
	os.Setenv("LOG_LEVEL", "debug")

	defer func() {
		os.Unsetenv("ENV")
		os.Unsetenv("OUTPUT_FORMAT")
		os.Unsetenv("OUTPUT_DIR")
		os.Unsetenv("LOG_LEVEL")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Env != "production" {
		t.Errorf("Expected Env to be production, got %s", cfg.Env)
	}

	if cfg.OutputFormat != "csv" {
		t.Errorf("Expected OutputFormat to be csv, got %s", cfg.OutputFormat)
	}

	if cfg.OutputDir != "/tmp/clean" {
		t.Errorf("Expected OutputDir to be /tmp/clean, got %s", cfg.OutputDir)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("Expected LogLevel to be debug, got %s", cfg.LogLevel)
	}
}

func TestValidateInvalidEnv(t *testing.T) {
	t.Setenv("ENV", "invalid")

	_, err := Load()
	if err == nil {
		t.Error("Expected error when ENV is invalid, got nil")
	}
}

func TestValidateInvalidOutputFormat(t *testing.T) {
	t.Setenv("OUTPUT_FORMAT", "parquet")

	_, err := Load()
	if err == nil {
		t.Error("Expected error when OUTPUT_FORMAT is invalid, got nil")
	}
}

func TestValidateMetricsWithoutTextfile(t *testing.T) {
	t.Setenv("METRICS_ENABLED", "true")

	_, err := Load()
	if err == nil {
		t.Error("Expected error when METRICS_TEXTFILE is missing, got nil")
	}
}

func TestDataPath(t *testing.T) {
	cfg := &Config{DataDir: "Data"}

	if got := cfg.DataPath("SecurityData.csv"); got != filepath.Join("Data", "SecurityData.csv") {
		t.Errorf("DataPath() = %s", got)
	}

	abs := filepath.Join(string(filepath.Separator), "srv", "in.csv")
	if got := cfg.DataPath(abs); got != abs {
		t.Errorf("DataPath(abs) = %s, want %s", got, abs)
	}

	if got := cfg.DataPath(""); got != "" {
		t.Errorf("DataPath(\"\") = %s, want empty", got)
	}
}

func TestGetEnvAsBool(t *testing.T) {
	os.Setenv("TEST_BOOL", "true")
	defer os.Unsetenv("TEST_BOOL")

	value := getEnvAsBool("TEST_BOOL", false)
	if value != true {
		t.Errorf("Expected value to be true, got %v", value)
	}

	os.Setenv("TEST_BOOL", "not-a-bool")
	if value := getEnvAsBool("TEST_BOOL", false); value != false {
		t.Errorf("Expected fallback false, got %v", value)
	}
}
