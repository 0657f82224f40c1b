package pipeline

import (
	"context"

	"github.com/wonny/spreadclean/internal/audit"
	"github.com/wonny/spreadclean/internal/contracts"
	"github.com/wonny/spreadclean/internal/export"
	"github.com/wonny/spreadclean/internal/s0_ingest"
	"github.com/wonny/spreadclean/internal/s1_normalize"
	"github.com/wonny/spreadclean/internal/s2_derive"
	"github.com/wonny/spreadclean/internal/s3_dedup"
	"github.com/wonny/spreadclean/internal/s4_segment"
	"github.com/wonny/spreadclean/internal/s5_impute"
	"github.com/wonny/spreadclean/internal/s6_window"
)

// SecurityInput names the files of a securities run
type SecurityInput struct {
	Path      string
	OutputDir string
}

// SecurityResult holds every table a securities run produced
type SecurityResult struct {
	Report            *audit.Report
	Clean             []contracts.SecurityRecord
	Treasuries        []contracts.SecurityRecord
	TradingData       []contracts.SecurityRecord
	TradingTreasuries []contracts.SecurityRecord
	TradingIDs        []string
	TreasuryIDs       []string
}

// RunSecurities executes S0 → S7 on a security export
func (o *Orchestrator) RunSecurities(ctx context.Context, in SecurityInput) (*SecurityResult, error) {
	rec := audit.NewRecorder(contracts.VariantSecurity, o.snapshot, o.logger)
	rec.Input(in.Path)

	rec.Logger().WithFields(map[string]interface{}{
		"input":       in.Path,
		"output_dir":  in.OutputDir,
		"config_hash": o.snapshot.ConfigHash,
	}).Info("Starting securities run")

	result, err := o.runSecurities(ctx, rec, in)
	report := o.finish(rec, in.OutputDir, err)
	if err != nil {
		return nil, err
	}
	result.Report = report
	return result, nil
}

func (o *Orchestrator) runSecurities(ctx context.Context, rec *audit.Recorder, in SecurityInput) (*SecurityResult, error) {
	cfg := o.rules
	log := rec.Logger()

	// S0: Ingest
	var table *contracts.RawTable
	err := rec.Track(contracts.StageIngest, 0, func() (int, map[string]interface{}, error) {
		var err error
		table, err = s0_ingest.Read(in.Path)
		if err != nil {
			return 0, nil, err
		}
		return len(table.Rows), map[string]interface{}{"columns": len(table.Header)}, nil
	})
	if err != nil {
		return nil, stageError(contracts.StageIngest, err)
	}

	// S1: Normalize
	normalizer := s1_normalize.NewNormalizer(s1_normalize.SecurityRules(cfg), log)
	var normalized []contracts.SecurityRecord
	err = rec.Track(contracts.StageNormalize, len(table.Rows), func() (int, map[string]interface{}, error) {
		records, stats, err := normalizer.Normalize(table)
		if err != nil {
			return 0, nil, err
		}
		normalized = records
		rec.Quality().UnresolvedCoupons = stats.UnresolvedCoupons
		return len(records), map[string]interface{}{
			"null_price":        stats.DroppedNullPrice,
			"null_ytm":          stats.DroppedNullYTM,
			"not_rated":         stats.DroppedNotRated,
			"null_duration":     stats.DroppedNullDuration,
			"overrides_applied": stats.OverridesApplied,
		}, nil
	})
	if err != nil {
		return nil, stageError(contracts.StageNormalize, err)
	}
	if len(normalized) == 0 {
		return nil, stageError(contracts.StageNormalize, ErrNoRecords)
	}
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	// S2: Derive
	var derived []contracts.SecurityRecord
	if err := track(rec, contracts.StageDerive, len(normalized), func() (int, map[string]interface{}, error) {
		var stats s2_derive.Stats
		derived, stats = s2_derive.Apply(normalized)
		return len(derived), map[string]interface{}{
			"null_current_yield":     stats.NullCurrentYield,
			"null_modified_duration": stats.NullModifiedDuration,
		}, nil
	}); err != nil {
		return nil, err
	}

	// S3: Dedup
	var unique []contracts.SecurityRecord
	if err := track(rec, contracts.StageDedup, len(derived), func() (int, map[string]interface{}, error) {
		var discarded int
		unique, discarded = s3_dedup.Resolve(derived)
		rec.Quality().DuplicatesDiscarded = discarded
		return len(unique), nil, nil
	}); err != nil {
		return nil, err
	}

	// S4: Segment
	var segmented []contracts.SecurityRecord
	if err := track(rec, contracts.StageSegment, len(unique), func() (int, map[string]interface{}, error) {
		var stats s4_segment.Stats
		segmented, stats = s4_segment.Segment(unique, cfg.Segment.MaxGapDays)
		rec.Quality().Segments = stats.Segments
		return len(segmented), map[string]interface{}{
			"instruments": stats.Instruments,
			"segments":    stats.Segments,
		}, nil
	}); err != nil {
		return nil, err
	}
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	// S5: Treasury split + impute
	var split s5_impute.Split
	var imputed s5_impute.Result
	imputer := s5_impute.NewImputer(s5_impute.Params{
		MinObservations: cfg.Impute.MinObservations,
		MinWindow:       cfg.Impute.MinWindow,
		MinPeriods:      cfg.Impute.MinPeriods,
	}, log)
	if err := track(rec, contracts.StageImpute, len(segmented), func() (int, map[string]interface{}, error) {
		split = s5_impute.SplitTreasuries(segmented)
		contracts.SortByDate(split.Treasuries)
		imputed = imputer.Impute(split.NonTreasuries)

		q := rec.Quality()
		q.TreasuryOrphans = split.Orphans
		q.Insufficient = imputed.Insufficient
		q.SpreadsImputed = imputed.Imputed
		return len(imputed.Records) + len(split.Treasuries), map[string]interface{}{
			"treasuries":     len(split.Treasuries),
			"non_treasuries": len(imputed.Records),
			"orphans":        split.Orphans,
			"insufficient":   len(imputed.Insufficient),
			"imputed":        imputed.Imputed,
		}, nil
	}); err != nil {
		return nil, err
	}
	if imputed.Unfilled > 0 {
		log.WithField("unfilled", imputed.Unfilled).Warn("Some spreads could not be imputed")
	}

	// S6: Trading window (end = latest normalized date)
	var partition s6_window.Partition
	if err := track(rec, contracts.StageWindow, len(imputed.Records)+len(split.Treasuries), func() (int, map[string]interface{}, error) {
		w, ok := s6_window.ForRecords(normalized, cfg.Window.LookbackYears, cfg.Window.LookbackMonths)
		if !ok {
			return 0, nil, ErrNoRecords
		}
		rec.SetWindow(w)
		partition = s6_window.Select(w, imputed.Records, split.Treasuries)
		return len(partition.TradingData) + len(partition.TradingTreasuries), map[string]interface{}{
			"trade_start": w.Start.Format(export.DateLayout),
			"trade_end":   w.End.Format(export.DateLayout),
		}, nil
	}); err != nil {
		return nil, err
	}

	result := &SecurityResult{
		Clean:             imputed.Records,
		Treasuries:        split.Treasuries,
		TradingData:       partition.TradingData,
		TradingTreasuries: partition.TradingTreasuries,
		TradingIDs:        partition.TradingIDs,
		TreasuryIDs:       partition.TreasuryIDs,
	}
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	// S7: Export
	out := cfg.Output
	tables := []export.Table{
		export.SecurityTable(out.CleanData, result.Clean),
		export.SecurityTable(out.TradingData, result.TradingData),
		export.SecurityTable(out.Treasuries, result.Treasuries),
		export.SecurityTable(out.TradingTreasuries, result.TradingTreasuries),
		export.IDTable(out.TradingIDs, result.TradingIDs),
		export.IDTable(out.TreasuryIDs, result.TreasuryIDs),
	}
	if err := o.exportTables(rec, in.OutputDir, tables); err != nil {
		return nil, err
	}

	return result, nil
}

func (o *Orchestrator) exportTables(rec *audit.Recorder, dir string, tables []export.Table) error {
	rows := 0
	for _, t := range tables {
		rows += len(t.Rows)
	}
	err := rec.Track(contracts.StageExport, rows, func() (int, map[string]interface{}, error) {
		paths, err := o.exporter.Export(dir, tables)
		if err != nil {
			return 0, nil, err
		}
		rec.SetOutputs(paths)
		return rows, map[string]interface{}{"files": len(paths)}, nil
	})
	if err != nil {
		return stageError(contracts.StageExport, err)
	}
	return nil
}
