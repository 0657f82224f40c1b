package audit

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the batch-run gauges. They live in a private registry and
// are flushed to a node-exporter textfile at the end of a run.
type Metrics struct {
	registry *prometheus.Registry

	StageRecords  *prometheus.GaugeVec
	StageDuration *prometheus.GaugeVec
	Dropped       *prometheus.GaugeVec
	Imputed       prometheus.Gauge
	RunDuration   *prometheus.GaugeVec
	LastSuccess   *prometheus.GaugeVec
}

// NewMetrics registers the spreadclean gauges in a fresh registry
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		StageRecords: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "spreadclean_stage_records",
				Help: "Records entering and leaving each pipeline stage",
			},
			[]string{"variant", "stage", "direction"},
		),

		StageDuration: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "spreadclean_stage_duration_seconds",
				Help: "Wall time of each pipeline stage",
			},
			[]string{"variant", "stage"},
		),

		Dropped: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "spreadclean_dropped",
				Help: "Records or instruments removed by data-quality rules",
			},
			[]string{"variant", "reason"},
		),

		Imputed: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "spreadclean_spreads_imputed",
				Help: "Missing spreads filled by the rolling mean",
			},
		),

		RunDuration: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "spreadclean_run_duration_seconds",
				Help: "Wall time of the whole run",
			},
			[]string{"variant", "result"},
		),

		LastSuccess: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "spreadclean_last_success_timestamp_seconds",
				Help: "Unix time of the last successful run",
			},
			[]string{"variant"},
		),
	}

	m.registry.MustRegister(
		m.StageRecords,
		m.StageDuration,
		m.Dropped,
		m.Imputed,
		m.RunDuration,
		m.LastSuccess,
	)
	return m
}

// Registry exposes the private registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Observe copies a finished report into the gauges
func (m *Metrics) Observe(r *Report) {
	variant := string(r.Variant)

	for _, s := range r.Stages {
		stage := s.Stage.ShortName()
		m.StageRecords.WithLabelValues(variant, stage, "in").Set(float64(s.InputCount))
		m.StageRecords.WithLabelValues(variant, stage, "out").Set(float64(s.OutputCount))
		m.StageDuration.WithLabelValues(variant, stage).Set(float64(s.Duration) / 1000)
	}

	q := r.Quality
	m.Dropped.WithLabelValues(variant, "duplicate").Set(float64(q.DuplicatesDiscarded))
	m.Dropped.WithLabelValues(variant, "treasury_orphan").Set(float64(q.TreasuryOrphans))
	m.Dropped.WithLabelValues(variant, "insufficient_instrument").Set(float64(len(q.Insufficient)))
	m.Dropped.WithLabelValues(variant, "coupon_unresolved").Set(float64(len(q.UnresolvedCoupons)))
	m.Imputed.Set(float64(q.SpreadsImputed))

	result := "success"
	if !r.Success {
		result = "failure"
	}
	m.RunDuration.WithLabelValues(variant, result).Set(float64(r.DurationMs) / 1000)
	if r.Success {
		m.LastSuccess.WithLabelValues(variant).Set(float64(r.FinishedAt.Unix()))
	}
}

// WriteTextfile writes the registry in text exposition format to path
func (m *Metrics) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
