// Package s2_derive computes the analytic columns that depend only on
// fields of the same record.
package s2_derive

import (
	"github.com/wonny/spreadclean/internal/contracts"
)

// CurrentYield returns 100 * coupon / price.
// Null when either input is null or price is zero.
func CurrentYield(coupon, price *float64) *float64 {
	if coupon == nil || price == nil || *price == 0 {
		return nil
	}
	v := 100 * *coupon / *price
	return &v
}

// ModifiedDuration returns duration / (1 + ytm/2), the semi-annual
// compounding approximation used for the whole universe.
func ModifiedDuration(duration, ytm *float64) *float64 {
	if duration == nil || ytm == nil {
		return nil
	}
	denom := 1 + *ytm/2
	if denom == 0 {
		return nil
	}
	v := *duration / denom
	return &v
}

// Stats counts how many derived values came out null
type Stats struct {
	NullCurrentYield     int `json:"null_current_yield"`
	NullModifiedDuration int `json:"null_modified_duration"`
}

// Apply returns a copy of records with current_yield overwritten and
// modified_duration added. Any existing current_yield is discarded.
func Apply(records []contracts.SecurityRecord) ([]contracts.SecurityRecord, Stats) {
	out := make([]contracts.SecurityRecord, len(records))
	var stats Stats

	for i, rec := range records {
		rec.CurrentYield = CurrentYield(rec.CouponRate, rec.ClosingPrice)
		rec.ModifiedDuration = ModifiedDuration(rec.Duration, rec.YieldToMaturity)
		if rec.CurrentYield == nil {
			stats.NullCurrentYield++
		}
		if rec.ModifiedDuration == nil {
			stats.NullModifiedDuration++
		}
		out[i] = rec
	}

	return out, stats
}
