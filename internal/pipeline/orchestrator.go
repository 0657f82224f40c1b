// Package pipeline runs the cleaning stages in order for one dataset variant.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/wonny/spreadclean/internal/audit"
	"github.com/wonny/spreadclean/internal/cleanconfig"
	"github.com/wonny/spreadclean/internal/contracts"
	"github.com/wonny/spreadclean/internal/export"
	"github.com/wonny/spreadclean/pkg/logger"
)

// ErrNoRecords is returned when nothing survives normalization
var ErrNoRecords = errors.New("no records left after normalization")

// Orchestrator coordinates the cleaning pipeline
// ⭐ SSOT: 파이프라인 조율은 여기서만
type Orchestrator struct {
	rules    *cleanconfig.Config
	snapshot *cleanconfig.RunSnapshot
	exporter *export.Exporter

	// optional node-exporter textfile target
	metricsPath string

	logger *logger.Logger
}

// Options configures an Orchestrator
type Options struct {
	Rules       *cleanconfig.Config
	Snapshot    *cleanconfig.RunSnapshot
	Format      string // xlsx, csv
	MetricsPath string
}

// NewOrchestrator creates a new orchestrator
func NewOrchestrator(opts Options, log *logger.Logger) (*Orchestrator, error) {
	if opts.Rules == nil {
		opts.Rules = cleanconfig.Default()
	}
	if opts.Snapshot == nil {
		snap, err := cleanconfig.NewRunSnapshot(opts.Rules, nil)
		if err != nil {
			return nil, fmt.Errorf("snapshot rules: %w", err)
		}
		opts.Snapshot = snap
	}

	exporter, err := export.NewExporter(opts.Format, log)
	if err != nil {
		return nil, err
	}

	return &Orchestrator{
		rules:       opts.Rules,
		snapshot:    opts.Snapshot,
		exporter:    exporter,
		metricsPath: opts.MetricsPath,
		logger:      log.WithField("module", "pipeline"),
	}, nil
}

// stageError tags err with the short stage name
func stageError(stage contracts.Stage, err error) error {
	return fmt.Errorf("%s failed: %w", stage.ShortName(), err)
}

// track records one stage on rec and tags its failure with the stage name
func track(rec *audit.Recorder, stage contracts.Stage, input int, fn func() (int, map[string]interface{}, error)) error {
	if err := rec.Track(stage, input, fn); err != nil {
		return stageError(stage, err)
	}
	return nil
}

// finish closes the report, writes it next to the outputs on success and
// flushes metrics when a textfile target is configured
func (o *Orchestrator) finish(rec *audit.Recorder, outputDir string, runErr error) *audit.Report {
	report := rec.Finish(runErr)
	log := rec.Logger()

	if runErr == nil {
		path, err := audit.WriteJSON(outputDir, o.rules.Output.Report, report)
		if err != nil {
			log.WithError(err).Warn("Failed to write run report")
		} else {
			log.WithField("path", path).Debug("Wrote run report")
		}
	}

	if o.metricsPath != "" {
		m := audit.NewMetrics()
		m.Observe(report)
		if err := m.WriteTextfile(o.metricsPath); err != nil {
			log.WithError(err).Warn("Failed to write metrics textfile")
		}
	}

	fields := map[string]interface{}{
		"variant":     report.Variant,
		"success":     report.Success,
		"duration_ms": report.DurationMs,
		"stages":      len(report.Stages),
	}
	if runErr != nil {
		log.WithFields(fields).WithError(runErr).Error("Pipeline run failed")
	} else {
		log.WithFields(fields).Info("Pipeline run completed")
	}
	return report
}

func checkContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("run cancelled: %w", err)
	}
	return nil
}
