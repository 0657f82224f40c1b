// Package s4_segment splits an instrument's history at long trading gaps.
//
// Every record is renamed to "{id}_{n}" where n counts the gaps of more than
// maxGapDays at or before it. Segment 0 keeps the suffix.
package s4_segment

import (
	"fmt"
	"time"

	"github.com/wonny/spreadclean/internal/contracts"
)

// SegmentID returns the renamed instrument id for segment n
func SegmentID(id string, n int) string {
	return fmt.Sprintf("%s_%d", id, n)
}

// GapDays returns the whole calendar days between two dates
func GapDays(prev, next time.Time) int {
	return int(next.Sub(prev).Hours() / 24)
}

// Stats summarises a segmentation pass
type Stats struct {
	Instruments int `json:"instruments"`
	Segments    int `json:"segments"`
	Boundaries  int `json:"boundaries"`
}

// Segment renames every record by gap segment and returns them date ordered.
// The input slice is left untouched.
func Segment(records []contracts.SecurityRecord, maxGapDays int) ([]contracts.SecurityRecord, Stats) {
	ids, groups := contracts.GroupByInstrument(records)
	out := make([]contracts.SecurityRecord, 0, len(records))
	stats := Stats{Instruments: len(ids)}

	for _, id := range ids {
		group := make([]contracts.SecurityRecord, len(groups[id]))
		copy(group, groups[id])
		contracts.SortByDate(group)

		n := 0
		for i := range group {
			if i > 0 && GapDays(group[i-1].Date, group[i].Date) > maxGapDays {
				n++
			}
			group[i].InstrumentID = SegmentID(id, n)
		}
		stats.Boundaries += n
		stats.Segments += n + 1

		out = append(out, group...)
	}

	contracts.SortByDate(out)
	return out, stats
}
