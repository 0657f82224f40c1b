package pipeline

import (
	"context"
	"time"

	"github.com/wonny/spreadclean/internal/audit"
	"github.com/wonny/spreadclean/internal/cds"
	"github.com/wonny/spreadclean/internal/contracts"
	"github.com/wonny/spreadclean/internal/export"
	"github.com/wonny/spreadclean/internal/s0_ingest"
	"github.com/wonny/spreadclean/internal/s1_normalize"
	"github.com/wonny/spreadclean/internal/s6_window"
)

// CDSInput names the files of a CDS run
type CDSInput struct {
	PricePath  string
	SpreadPath string
	OutputDir  string
}

// CDSResult holds the reshaped CDS tables
type CDSResult struct {
	Report  *audit.Report
	Quotes  []contracts.CDSQuote
	Trading []contracts.CDSQuote
}

// RunCDS executes ingest → normalize → reshape → window → export on the
// CDS price and spread sheets
func (o *Orchestrator) RunCDS(ctx context.Context, in CDSInput) (*CDSResult, error) {
	rec := audit.NewRecorder(contracts.VariantCDS, o.snapshot, o.logger)
	rec.Input(in.PricePath)
	rec.Input(in.SpreadPath)

	rec.Logger().WithFields(map[string]interface{}{
		"prices":      in.PricePath,
		"spreads":     in.SpreadPath,
		"output_dir":  in.OutputDir,
		"config_hash": o.snapshot.ConfigHash,
	}).Info("Starting CDS run")

	result, err := o.runCDS(ctx, rec, in)
	report := o.finish(rec, in.OutputDir, err)
	if err != nil {
		return nil, err
	}
	result.Report = report
	return result, nil
}

func (o *Orchestrator) runCDS(ctx context.Context, rec *audit.Recorder, in CDSInput) (*CDSResult, error) {
	cfg := o.rules
	rules := s1_normalize.CDSRules(cfg)

	// S0: Ingest
	var priceTable, spreadTable *contracts.RawTable
	err := rec.Track(contracts.StageIngest, 0, func() (int, map[string]interface{}, error) {
		var err error
		if priceTable, err = s0_ingest.Read(in.PricePath); err != nil {
			return 0, nil, err
		}
		if spreadTable, err = s0_ingest.Read(in.SpreadPath); err != nil {
			return 0, nil, err
		}
		return len(priceTable.Rows) + len(spreadTable.Rows), nil, nil
	})
	if err != nil {
		return nil, stageError(contracts.StageIngest, err)
	}

	// S1: Normalize (wide sheets)
	var prices, spreads *s1_normalize.WideSheet
	err = rec.Track(contracts.StageNormalize, len(priceTable.Rows)+len(spreadTable.Rows), func() (int, map[string]interface{}, error) {
		var err error
		if prices, err = s1_normalize.ParseWide(priceTable, "price", rules); err != nil {
			return 0, nil, err
		}
		if spreads, err = s1_normalize.ParseWide(spreadTable, "spread", rules); err != nil {
			return 0, nil, err
		}
		return len(prices.Dates) + len(spreads.Dates), nil, nil
	})
	if err != nil {
		return nil, stageError(contracts.StageNormalize, err)
	}
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	// CDS: melt + join + duration
	reshaper := cds.NewReshaper(rules, cfg.CDS.Tenors, rec.Logger())
	var quotes []contracts.CDSQuote
	err = rec.Track(contracts.StageCDSReshape, len(prices.Dates)+len(spreads.Dates), func() (int, map[string]interface{}, error) {
		var stats cds.Stats
		var err error
		quotes, stats, err = reshaper.Reshape(prices, spreads)
		if err != nil {
			return 0, nil, err
		}
		return len(quotes), map[string]interface{}{
			"unmatched":     stats.Unmatched,
			"null_dropped":  stats.NullDropped,
			"null_duration": stats.NullDuration,
		}, nil
	})
	if err != nil {
		return nil, stageError(contracts.StageCDSReshape, err)
	}
	if len(quotes) == 0 {
		return nil, stageError(contracts.StageCDSReshape, ErrNoRecords)
	}

	// S6: Trading window
	var trading []contracts.CDSQuote
	if err := track(rec, contracts.StageWindow, len(quotes), func() (int, map[string]interface{}, error) {
		w := s6_window.NewTradeWindow(latestQuote(quotes), cfg.Window.LookbackYears, cfg.Window.LookbackMonths)
		rec.SetWindow(w)
		trading = s6_window.SelectQuotes(w, quotes)
		return len(trading), map[string]interface{}{
			"trade_start": w.Start.Format(export.DateLayout),
			"trade_end":   w.End.Format(export.DateLayout),
		}, nil
	}); err != nil {
		return nil, err
	}

	// S7: Export
	tables := []export.Table{
		export.CDSTable(cfg.Output.CDSData, quotes),
		export.CDSTable(cfg.Output.TradingCDSData, trading),
	}
	if err := o.exportTables(rec, in.OutputDir, tables); err != nil {
		return nil, err
	}

	return &CDSResult{Quotes: quotes, Trading: trading}, nil
}

func latestQuote(quotes []contracts.CDSQuote) time.Time {
	var max time.Time
	for _, q := range quotes {
		if q.Date.After(max) {
			max = q.Date
		}
	}
	return max
}
