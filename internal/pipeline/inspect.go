package pipeline

import (
	"github.com/wonny/spreadclean/internal/contracts"
	"github.com/wonny/spreadclean/internal/s0_ingest"
	"github.com/wonny/spreadclean/internal/s1_normalize"
	"github.com/wonny/spreadclean/internal/s2_derive"
	"github.com/wonny/spreadclean/internal/s3_dedup"
	"github.com/wonny/spreadclean/internal/s4_segment"
	"github.com/wonny/spreadclean/internal/s5_impute"
)

// Inspection is the dry-run view of a security export
type Inspection struct {
	Records     int
	Duplicates  int
	Treasuries  int
	Orphans     int
	Instruments []s5_impute.Summary // non-treasury segments
}

// Insufficient returns the instruments an actual run would drop
func (i *Inspection) Insufficient() []s5_impute.Summary {
	out := make([]s5_impute.Summary, 0)
	for _, s := range i.Instruments {
		if !s.Sufficient {
			out = append(out, s)
		}
	}
	return out
}

// Inspect runs S0 to S4 and the treasury split on path and reports spread
// coverage per instrument. Nothing is written.
func (o *Orchestrator) Inspect(path string) (*Inspection, error) {
	cfg := o.rules

	table, err := s0_ingest.Read(path)
	if err != nil {
		return nil, stageError(contracts.StageIngest, err)
	}

	normalizer := s1_normalize.NewNormalizer(s1_normalize.SecurityRules(cfg), o.logger)
	records, _, err := normalizer.Normalize(table)
	if err != nil {
		return nil, stageError(contracts.StageNormalize, err)
	}

	derived, _ := s2_derive.Apply(records)
	unique, discarded := s3_dedup.Resolve(derived)
	segmented, _ := s4_segment.Segment(unique, cfg.Segment.MaxGapDays)
	split := s5_impute.SplitTreasuries(segmented)

	imputer := s5_impute.NewImputer(s5_impute.Params{
		MinObservations: cfg.Impute.MinObservations,
		MinWindow:       cfg.Impute.MinWindow,
		MinPeriods:      cfg.Impute.MinPeriods,
	}, o.logger)

	ins := &Inspection{
		Records:     len(records),
		Duplicates:  discarded,
		Treasuries:  len(split.Treasuries),
		Orphans:     split.Orphans,
		Instruments: imputer.Summarize(split.NonTreasuries),
	}

	o.logger.WithFields(map[string]interface{}{
		"path":         path,
		"records":      ins.Records,
		"instruments":  len(ins.Instruments),
		"insufficient": len(ins.Insufficient()),
	}).Debug("Inspected security export")

	return ins, nil
}
