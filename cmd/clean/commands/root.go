package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/spreadclean/internal/cleanconfig"
	"github.com/wonny/spreadclean/internal/pipeline"
	"github.com/wonny/spreadclean/pkg/config"
	"github.com/wonny/spreadclean/pkg/logger"
)

var (
	// Global flags
	rulesFile string
	verbose   bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "clean",
	Short: "Bond / CDS market data cleaning pipeline",
	Long: `spreadclean CLI

원본 채권/CDS 데이터를 분석용 테이블로 정리합니다.
S0 Ingest → S1 Normalize → S2 Derive → S3 Dedup → S4 Segment → S5 Impute → S6 Window → S7 Export

Usage:
  go run ./cmd/clean [command]

Examples:
  go run ./cmd/clean run securities --input Data/SecurityData.csv
  go run ./cmd/clean run cds --prices Data/CDSPrices.csv --spreads Data/CDSSpreads.csv
  go run ./cmd/clean inspect --input Data/SecurityData.csv`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&rulesFile, "config", "", "cleaning rules YAML (default: $CLEAN_CONFIG or built-in)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

// runtime bundles what every command needs
type runtime struct {
	cfg   *config.Config
	rules *cleanconfig.Config
	snap  *cleanconfig.RunSnapshot
	log   *logger.Logger
}

// setup loads env config, the cleaning rules and the logger
func setup() (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	log := logger.New(cfg)

	path := rulesFile
	if path == "" {
		path = cfg.CleanConfigPath
	}
	rules, raw, err := cleanconfig.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load cleaning rules: %w", err)
	}
	for _, w := range cleanconfig.Warn(rules) {
		log.WithField("code", w.Code).Warn(w.Message)
	}

	snap, err := cleanconfig.NewRunSnapshot(rules, raw)
	if err != nil {
		return nil, fmt.Errorf("snapshot cleaning rules: %w", err)
	}

	return &runtime{cfg: cfg, rules: rules, snap: snap, log: log}, nil
}

func (rt *runtime) orchestrator(format string) (*pipeline.Orchestrator, error) {
	if format == "" {
		format = rt.cfg.OutputFormat
	}
	return pipeline.NewOrchestrator(pipeline.Options{
		Rules:       rt.rules,
		Snapshot:    rt.snap,
		Format:      format,
		MetricsPath: rt.cfg.MetricsTextfile,
	}, rt.log)
}
