package s5_impute

import (
	"github.com/wonny/spreadclean/internal/contracts"
)

// Split is the result of separating treasuries from the rest of the universe
type Split struct {
	Treasuries    []contracts.SecurityRecord
	NonTreasuries []contracts.SecurityRecord
	// Orphans are rows of treasury instruments that are not themselves
	// treasury rows. They go to neither table.
	Orphans int
}

// SplitTreasuries partitions records. An instrument with at least one
// treasury row is a treasury instrument; only its treasury rows are kept.
// Every row of any other instrument is non-treasury. Input order is kept.
func SplitTreasuries(records []contracts.SecurityRecord) Split {
	treasury := make(map[string]bool)
	for _, r := range records {
		if r.IsTreasuryRow() {
			treasury[r.InstrumentID] = true
		}
	}

	split := Split{
		Treasuries:    make([]contracts.SecurityRecord, 0),
		NonTreasuries: make([]contracts.SecurityRecord, 0, len(records)),
	}
	for _, r := range records {
		switch {
		case r.IsTreasuryRow():
			split.Treasuries = append(split.Treasuries, r)
		case treasury[r.InstrumentID]:
			split.Orphans++
		default:
			split.NonTreasuries = append(split.NonTreasuries, r)
		}
	}
	return split
}
