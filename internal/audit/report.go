package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/wonny/spreadclean/internal/cleanconfig"
	"github.com/wonny/spreadclean/internal/contracts"
	"github.com/wonny/spreadclean/internal/s6_window"
	"github.com/wonny/spreadclean/pkg/logger"
)

// =============================================================================
// Report Types
// =============================================================================

// Report is the audit record of one cleaning run
type Report struct {
	RunID      string                     `json:"run_id"`
	Variant    contracts.Variant          `json:"variant"`
	StartedAt  time.Time                  `json:"started_at"`
	FinishedAt time.Time                  `json:"finished_at"`
	DurationMs int64                      `json:"duration_ms"`
	Success    bool                       `json:"success"`
	Error      string                     `json:"error,omitempty"`
	Config     cleanconfig.RunSnapshot    `json:"config"`
	Inputs     []string                   `json:"inputs"`
	Stages     []contracts.PipelineResult `json:"stages"`
	Quality    Quality                    `json:"quality"`
	Window     *s6_window.TradeWindow     `json:"trade_window,omitempty"`
	Outputs    []string                   `json:"outputs,omitempty"`
}

// Quality 데이터 품질 요약
type Quality struct {
	DuplicatesDiscarded int                         `json:"duplicates_discarded"`
	TreasuryOrphans     int                         `json:"treasury_orphans"`
	UnresolvedCoupons   []string                    `json:"coupon_unresolved"`
	Insufficient        []contracts.DataSufficiency `json:"insufficient_instruments"`
	SpreadsImputed      int                         `json:"spreads_imputed"`
	Segments            int                         `json:"segments"`
}

// Stage returns the result recorded for stage, or false
func (r *Report) Stage(stage contracts.Stage) (contracts.PipelineResult, bool) {
	for _, s := range r.Stages {
		if s.Stage == stage {
			return s, true
		}
	}
	return contracts.PipelineResult{}, false
}

// =============================================================================
// Recorder
// =============================================================================

// Recorder collects stage results while a run is in progress
// ⭐ SSOT: run report 생성은 여기서만
type Recorder struct {
	report *Report
	clock  func() time.Time
	logger *logger.Logger
}

// NewRecorder starts a report for a new run id
func NewRecorder(variant contracts.Variant, snapshot *cleanconfig.RunSnapshot, log *logger.Logger) *Recorder {
	runID := uuid.New().String()
	rec := &Recorder{
		clock:  time.Now,
		logger: log.WithFields(map[string]interface{}{"module": "audit", "run_id": runID}),
	}
	rec.report = &Report{
		RunID:     runID,
		Variant:   variant,
		StartedAt: rec.clock(),
		Inputs:    make([]string, 0),
		Stages:    make([]contracts.PipelineResult, 0),
		Quality: Quality{
			UnresolvedCoupons: make([]string, 0),
			Insufficient:      make([]contracts.DataSufficiency, 0),
		},
	}
	if snapshot != nil {
		rec.report.Config = *snapshot
	}
	return rec
}

// RunID returns the id of the run being recorded
func (r *Recorder) RunID() string {
	return r.report.RunID
}

// Logger returns a logger tagged with the run id
func (r *Recorder) Logger() *logger.Logger {
	return r.logger
}

// Input records an input file
func (r *Recorder) Input(path string) {
	r.report.Inputs = append(r.report.Inputs, path)
}

// Quality gives write access to the quality section
func (r *Recorder) Quality() *Quality {
	return &r.report.Quality
}

// SetWindow records the trading window
func (r *Recorder) SetWindow(w s6_window.TradeWindow) {
	r.report.Window = &w
}

// SetOutputs records the written files
func (r *Recorder) SetOutputs(paths []string) {
	r.report.Outputs = append([]string(nil), paths...)
}

// Track times fn and records its result as stage. fn returns the output
// count and optional metadata.
func (r *Recorder) Track(stage contracts.Stage, input int, fn func() (int, map[string]interface{}, error)) error {
	start := r.clock()
	output, meta, err := fn()

	result := contracts.PipelineResult{
		Stage:       stage,
		Success:     err == nil,
		InputCount:  input,
		OutputCount: output,
		Duration:    r.clock().Sub(start).Milliseconds(),
		Metadata:    meta,
	}
	if err != nil {
		result.Error = err.Error()
	}
	r.report.Stages = append(r.report.Stages, result)

	r.logger.WithFields(map[string]interface{}{
		"stage":       stage.ShortName(),
		"input":       input,
		"output":      output,
		"duration_ms": result.Duration,
		"success":     result.Success,
	}).Debug("Stage finished")

	return err
}

// Finish closes the report
func (r *Recorder) Finish(err error) *Report {
	r.report.FinishedAt = r.clock()
	r.report.DurationMs = r.report.FinishedAt.Sub(r.report.StartedAt).Milliseconds()
	r.report.Success = err == nil
	if err != nil {
		r.report.Error = err.Error()
	}
	return r.report
}

// =============================================================================
// Persistence
// =============================================================================

// WriteJSON writes the report as indented JSON to dir/name.json
func WriteJSON(dir, name string, report *Report) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}

	path := filepath.Join(dir, name+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}

// ReadJSON loads a report written by WriteJSON
func ReadJSON(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("invalid report %s: %w", path, err)
	}
	return &report, nil
}
