// Package cds turns wide CDS price and spread sheets into one long table
// keyed by (Date, Type, Tenor) with the spread duration of each contract.
package cds

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/wonny/spreadclean/internal/contracts"
	"github.com/wonny/spreadclean/internal/s1_normalize"
	"github.com/wonny/spreadclean/pkg/logger"
)

// IG5, IG 5Y, hy_10 ...
var columnPattern = regexp.MustCompile(`^(IG|HY)[ _\-]?(\d+)\s*Y?$`)

// Key identifies one contract on one date
type Key struct {
	Date  time.Time
	Type  string
	Tenor int
}

// Observation is one melted cell
type Observation struct {
	Key
	Value *float64
}

// ParseColumn splits a sheet header into index type and tenor
func ParseColumn(header string) (string, int, bool) {
	m := columnPattern.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(header)))
	if m == nil {
		return "", 0, false
	}
	tenor, err := strconv.Atoi(m[2])
	if err != nil {
		return "", 0, false
	}
	return m[1], tenor, true
}

// Melt converts a wide sheet into one observation per (date, column).
// Headers that are not index columns and tenors outside tenors are a
// SchemaError.
func Melt(sheet *s1_normalize.WideSheet, tenors []int) ([]Observation, error) {
	allowed := make(map[int]bool, len(tenors))
	for _, t := range tenors {
		allowed[t] = true
	}

	type column struct {
		kind  string
		tenor int
	}
	cols := make([]column, len(sheet.Columns))
	for i, h := range sheet.Columns {
		kind, tenor, ok := ParseColumn(h)
		if !ok {
			return nil, &contracts.SchemaError{Source: sheet.Source, Column: h, Message: "not an IG/HY tenor column"}
		}
		if !allowed[tenor] {
			return nil, &contracts.SchemaError{Source: sheet.Source, Column: h, Message: fmt.Sprintf("unsupported tenor %d", tenor)}
		}
		cols[i] = column{kind: kind, tenor: tenor}
	}

	out := make([]Observation, 0, len(sheet.Dates)*len(cols))
	for r, d := range sheet.Dates {
		for c, col := range cols {
			out = append(out, Observation{
				Key:   Key{Date: d, Type: col.kind, Tenor: col.tenor},
				Value: sheet.Values[r][c],
			})
		}
	}
	return out, nil
}

// SpreadDuration returns (1 - price/100) / (spread - coupon).
// Null when any input is null or spread equals coupon.
func SpreadDuration(price, spread, coupon *float64) *float64 {
	if price == nil || spread == nil || coupon == nil {
		return nil
	}
	denom := *spread - *coupon
	if denom == 0 {
		return nil
	}
	v := (1 - *price/100) / denom
	return &v
}

// Stats counts what the reshape dropped
type Stats struct {
	PriceRows    int `json:"price_rows"`
	SpreadRows   int `json:"spread_rows"`
	Joined       int `json:"joined"`
	Unmatched    int `json:"unmatched"`     // key present on one side only
	NullDropped  int `json:"null_dropped"`  // price or spread null
	NullDuration int `json:"null_duration"` // spread == coupon
}

// Reshaper CDS melt + join + duration
type Reshaper struct {
	rules  s1_normalize.Rules
	tenors []int
	logger *logger.Logger
}

// NewReshaper creates a Reshaper. Coupons come from the rules' overrides
// keyed by index type.
func NewReshaper(rules s1_normalize.Rules, tenors []int, log *logger.Logger) *Reshaper {
	return &Reshaper{
		rules:  rules,
		tenors: tenors,
		logger: log.WithField("module", "cds"),
	}
}

// Reshape melts both sheets, inner-joins them and computes spread duration.
// The output is sorted by (Date, Type, Tenor).
func (r *Reshaper) Reshape(prices, spreads *s1_normalize.WideSheet) ([]contracts.CDSQuote, Stats, error) {
	priceObs, err := Melt(prices, r.tenors)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("melt price sheet: %w", err)
	}
	spreadObs, err := Melt(spreads, r.tenors)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("melt spread sheet: %w", err)
	}

	stats := Stats{PriceRows: len(priceObs), SpreadRows: len(spreadObs)}

	spreadByKey := make(map[Key]*float64, len(spreadObs))
	for _, o := range spreadObs {
		spreadByKey[o.Key] = o.Value
	}
	matched := make(map[Key]bool, len(priceObs))

	quotes := make([]contracts.CDSQuote, 0, len(priceObs))
	for _, p := range priceObs {
		spread, ok := spreadByKey[p.Key]
		if !ok {
			stats.Unmatched++
			continue
		}
		matched[p.Key] = true
		if p.Value == nil || spread == nil {
			stats.NullDropped++
			continue
		}

		var coupon *float64
		if o, ok := r.rules.Overrides[p.Type]; ok {
			coupon, _ = o.Apply(nil)
		}

		q := contracts.CDSQuote{
			Date:     p.Date,
			Type:     p.Type,
			Tenor:    p.Tenor,
			Price:    p.Value,
			Spread:   spread,
			Coupon:   coupon,
			Duration: SpreadDuration(p.Value, spread, coupon),
		}
		if q.Duration == nil {
			stats.NullDuration++
		}
		quotes = append(quotes, q)
	}
	for k := range spreadByKey {
		if !matched[k] {
			stats.Unmatched++
		}
	}
	stats.Joined = len(quotes)

	SortQuotes(quotes)

	r.logger.WithFields(map[string]interface{}{
		"joined":        stats.Joined,
		"unmatched":     stats.Unmatched,
		"null_dropped":  stats.NullDropped,
		"null_duration": stats.NullDuration,
	}).Info("Reshaped CDS sheets")

	return quotes, stats, nil
}

// SortQuotes sorts by (Date, Type, Tenor) in place
func SortQuotes(quotes []contracts.CDSQuote) {
	sort.SliceStable(quotes, func(i, j int) bool {
		a, b := quotes[i], quotes[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		return a.Tenor < b.Tenor
	})
}
