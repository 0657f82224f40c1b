// Package s3_dedup keeps one record per (instrument, date).
package s3_dedup

import (
	"github.com/wonny/spreadclean/internal/contracts"
)

// Resolve stable-sorts records by date and keeps the last record seen for
// each (instrument, date) key. The result is date ordered; ties keep input
// order. It returns the number of discarded records.
func Resolve(records []contracts.SecurityRecord) ([]contracts.SecurityRecord, int) {
	sorted := make([]contracts.SecurityRecord, len(records))
	copy(sorted, records)
	contracts.SortByDate(sorted)

	// 마지막 위치 기록
	last := make(map[contracts.RecordKey]int, len(sorted))
	for i, rec := range sorted {
		last[rec.Key()] = i
	}

	out := make([]contracts.SecurityRecord, 0, len(last))
	for i, rec := range sorted {
		if last[rec.Key()] == i {
			out = append(out, rec)
		}
	}

	return out, len(sorted) - len(out)
}

// Duplicates returns the keys that occur more than once, in date order
func Duplicates(records []contracts.SecurityRecord) []contracts.RecordKey {
	counts := make(map[contracts.RecordKey]int, len(records))
	for _, rec := range records {
		counts[rec.Key()]++
	}

	sorted := make([]contracts.SecurityRecord, len(records))
	copy(sorted, records)
	contracts.SortByDate(sorted)

	keys := make([]contracts.RecordKey, 0)
	for _, rec := range sorted {
		k := rec.Key()
		if counts[k] > 1 {
			keys = append(keys, k)
			counts[k] = 0
		}
	}
	return keys
}
