package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all process-level configuration for the cleaning runs
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	Env string // development, staging, production

	// Cleaning rules (YAML). Empty means built-in defaults.
	CleanConfigPath string

	// Files
	DataDir      string
	OutputDir    string
	OutputFormat string // xlsx, csv

	// Logging
	LogLevel  string
	LogFormat string

	// Monitoring
	MetricsEnabled  bool
	MetricsTextfile string // node-exporter textfile collector target
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Env: getEnv("ENV", "development"),

		CleanConfigPath: getEnv("CLEAN_CONFIG", ""),

		DataDir:      getEnv("DATA_DIR", "Data"),
		OutputDir:    getEnv("OUTPUT_DIR", "Data"),
		OutputFormat: getEnv("OUTPUT_FORMAT", "xlsx"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		MetricsEnabled:  getEnvAsBool("METRICS_ENABLED", false),
		MetricsTextfile: getEnv("METRICS_TEXTFILE", ""),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if configuration values are usable
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.OutputFormat != "xlsx" && c.OutputFormat != "csv" {
		return fmt.Errorf("OUTPUT_FORMAT must be one of: xlsx, csv")
	}

	if c.MetricsEnabled && c.MetricsTextfile == "" {
		return fmt.Errorf("METRICS_TEXTFILE is required when METRICS_ENABLED is set")
	}

	return nil
}

// DataPath resolves a file name relative to DataDir unless it is already absolute
func (c *Config) DataPath(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir, name)
}

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
	}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}
