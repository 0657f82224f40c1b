// Package s5_impute fills missing spreads of non-treasury instruments with
// a centered rolling mean whose width grows with the number of gaps.
package s5_impute

import (
	"github.com/wonny/spreadclean/internal/contracts"
	"github.com/wonny/spreadclean/pkg/logger"
)

// Params controls sufficiency and the rolling window
type Params struct {
	MinObservations int // instruments with fewer non-null spreads are dropped
	MinWindow       int
	MinPeriods      int // non-null values required inside a window
}

// Result is the imputer output
type Result struct {
	Records      []contracts.SecurityRecord
	Insufficient []contracts.DataSufficiency
	Imputed      int // spreads filled
	Unfilled     int // nulls left because their window had too few values
}

// Imputer S5 spread imputation
// ⭐ SSOT: spread 보간 로직은 여기서만
type Imputer struct {
	params Params
	logger *logger.Logger
}

// NewImputer creates an Imputer
func NewImputer(params Params, log *logger.Logger) *Imputer {
	return &Imputer{
		params: params,
		logger: log.WithField("module", "s5_impute"),
	}
}

// Window returns max(MinWindow, 2m+1) for m null spreads
func (im *Imputer) Window(m int) int {
	return Window(m, im.params.MinWindow)
}

// Window returns max(minWindow, 2m+1)
func Window(m, minWindow int) int {
	w := 2*m + 1
	if w < minWindow {
		return minWindow
	}
	return w
}

// Impute drops insufficient instruments and fills the remaining nulls.
// The input is not modified; the output is date ordered.
func (im *Imputer) Impute(records []contracts.SecurityRecord) Result {
	ids, groups := contracts.GroupByInstrument(records)
	res := Result{
		Records:      make([]contracts.SecurityRecord, 0, len(records)),
		Insufficient: make([]contracts.DataSufficiency, 0),
	}

	for _, id := range ids {
		group := make([]contracts.SecurityRecord, len(groups[id]))
		copy(group, groups[id])
		contracts.SortByDate(group)

		nonNull, nulls := countSpreads(group)
		if nonNull < im.params.MinObservations {
			entry := contracts.DataSufficiency{
				InstrumentID: id,
				NonNull:      nonNull,
				Null:         nulls,
				Required:     im.params.MinObservations,
			}
			res.Insufficient = append(res.Insufficient, entry)
			im.logger.WithFields(map[string]interface{}{
				"instrument_id": id,
				"non_null":      nonNull,
				"null":          nulls,
			}).Debug("Insufficient spread observations, instrument excluded")
			continue
		}

		if nulls > 0 {
			series := make([]*float64, len(group))
			for i, r := range group {
				series[i] = r.Spread
			}
			filled := RollingMean(series, im.Window(nulls), im.params.MinPeriods)
			for i := range group {
				if group[i].Spread != nil {
					continue
				}
				if filled[i] == nil {
					res.Unfilled++
					continue
				}
				group[i].Spread = filled[i]
				res.Imputed++
			}
		}

		res.Records = append(res.Records, group...)
	}

	contracts.SortByDate(res.Records)

	im.logger.WithFields(map[string]interface{}{
		"instruments":  len(ids),
		"insufficient": len(res.Insufficient),
		"imputed":      res.Imputed,
		"unfilled":     res.Unfilled,
	}).Info("Imputed missing spreads")

	return res
}

// RollingMean returns the centered rolling mean of series over window
// values. A position with fewer than minPeriods non-null values in its
// window is null. Even windows put the extra value on the right.
func RollingMean(series []*float64, window, minPeriods int) []*float64 {
	out := make([]*float64, len(series))
	if window < 1 {
		return out
	}
	left := (window - 1) / 2
	right := window - 1 - left

	for i := range series {
		lo, hi := i-left, i+right
		if lo < 0 {
			lo = 0
		}
		if hi > len(series)-1 {
			hi = len(series) - 1
		}

		var sum float64
		var n int
		for j := lo; j <= hi; j++ {
			if series[j] != nil {
				sum += *series[j]
				n++
			}
		}
		if n == 0 || n < minPeriods {
			continue
		}
		mean := sum / float64(n)
		out[i] = &mean
	}
	return out
}

// Summary is the per-instrument spread coverage shown by inspect
type Summary struct {
	InstrumentID string
	Records      int
	NonNull      int
	Null         int
	Window       int
	Sufficient   bool
}

// Summarize reports spread coverage per instrument in first-seen order
func (im *Imputer) Summarize(records []contracts.SecurityRecord) []Summary {
	ids, groups := contracts.GroupByInstrument(records)
	out := make([]Summary, 0, len(ids))
	for _, id := range ids {
		nonNull, nulls := countSpreads(groups[id])
		out = append(out, Summary{
			InstrumentID: id,
			Records:      len(groups[id]),
			NonNull:      nonNull,
			Null:         nulls,
			Window:       im.Window(nulls),
			Sufficient:   nonNull >= im.params.MinObservations,
		})
	}
	return out
}

func countSpreads(records []contracts.SecurityRecord) (nonNull, nulls int) {
	for _, r := range records {
		if r.Spread == nil {
			nulls++
		} else {
			nonNull++
		}
	}
	return nonNull, nulls
}
