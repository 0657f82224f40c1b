package s1_normalize

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/wonny/spreadclean/internal/contracts"
	"github.com/wonny/spreadclean/internal/s0_ingest"
	"github.com/wonny/spreadclean/pkg/logger"
)

var (
	errMissingDate = errors.New("date is required")
	errMissingID   = errors.New("instrument id is required")
)

// Stats counts what Clean changed
type Stats struct {
	InputCount          int      `json:"input_count"`
	OutputCount         int      `json:"output_count"`
	DroppedNullPrice    int      `json:"dropped_null_price"`
	DroppedNullYTM      int      `json:"dropped_null_ytm"`
	DroppedNotRated     int      `json:"dropped_not_rated"`
	DroppedNullDuration int      `json:"dropped_null_duration"`
	OverridesApplied    int      `json:"overrides_applied"`
	UnresolvedCoupons   []string `json:"unresolved_coupons"` // instruments left with a null coupon
}

// Normalizer turns a raw security export into typed records
// ⭐ SSOT: S1 정규화는 이 패키지에서만
type Normalizer struct {
	rules  Rules
	logger *logger.Logger
}

// NewNormalizer creates a Normalizer for one dataset variant
func NewNormalizer(rules Rules, log *logger.Logger) *Normalizer {
	return &Normalizer{
		rules:  rules,
		logger: log.WithField("module", "s1_normalize"),
	}
}

// RequiredColumns lists the columns a security export must carry
func (n *Normalizer) RequiredColumns() []string {
	cols := []string{
		ColDate, ColCUSIP, ColAssetType, ColCouponRate, ColSpread,
		ColClosingPrice, ColCurrentYield, ColYTM, ColCreditRating,
	}
	if n.rules.RequireDuration {
		cols = append(cols, ColDuration)
	}
	return cols
}

// Normalize runs sentinel replacement, parsing, overrides and filters
func (n *Normalizer) Normalize(table *contracts.RawTable) ([]contracts.SecurityRecord, Stats, error) {
	records, err := n.Parse(ReplaceSentinels(table, n.rules.NullSentinel))
	if err != nil {
		return nil, Stats{}, err
	}

	cleaned, stats := n.Clean(records)

	n.logger.WithFields(map[string]interface{}{
		"source":            table.Source,
		"input":             stats.InputCount,
		"output":            stats.OutputCount,
		"null_price":        stats.DroppedNullPrice,
		"null_ytm":          stats.DroppedNullYTM,
		"not_rated":         stats.DroppedNotRated,
		"null_duration":     stats.DroppedNullDuration,
		"overrides_applied": stats.OverridesApplied,
	}).Info("Normalized security records")

	return cleaned, stats, nil
}

// ReplaceSentinels returns a copy of table with every sentinel cell blanked.
// Applying it twice gives the same table as applying it once.
func ReplaceSentinels(table *contracts.RawTable, sentinel string) *contracts.RawTable {
	out := &contracts.RawTable{
		Source: table.Source,
		Header: append([]string(nil), table.Header...),
		Rows:   make([][]string, len(table.Rows)),
	}
	for i, row := range table.Rows {
		cleaned := make([]string, len(row))
		for j, cell := range row {
			if strings.TrimSpace(cell) == sentinel {
				cell = ""
			}
			cleaned[j] = cell
		}
		out.Rows[i] = cleaned
	}
	return out
}

// Parse converts a sentinel-free table to records. Blank cells are null.
func (n *Normalizer) Parse(table *contracts.RawTable) ([]contracts.SecurityRecord, error) {
	if err := s0_ingest.RequireColumns(table, n.RequiredColumns()...); err != nil {
		return nil, err
	}

	col := func(name string) int { return table.Index(name) }
	idx := struct {
		date, id, asset, coupon, spread, price, cy, ytm, rating, dur, mdur, mat, call int
	}{
		col(ColDate), col(ColCUSIP), col(ColAssetType), col(ColCouponRate), col(ColSpread),
		col(ColClosingPrice), col(ColCurrentYield), col(ColYTM), col(ColCreditRating),
		col(ColDuration), col(ColModifiedDuration), col(ColMaturityDate), col(ColNextCallDate),
	}

	records := make([]contracts.SecurityRecord, 0, len(table.Rows))
	for i, row := range table.Rows {
		p := rowParser{table: table, row: row, rowNum: i + 1, rules: n.rules}

		date := p.date(idx.date, ColDate)
		if p.err == nil && date == nil {
			p.fail(ColDate, "", errMissingDate)
		}
		id := p.text(idx.id)
		if p.err == nil && id == nil {
			p.fail(ColCUSIP, "", errMissingID)
		}

		rec := contracts.SecurityRecord{
			CouponRate:       p.number(idx.coupon, ColCouponRate),
			Spread:           p.number(idx.spread, ColSpread),
			ClosingPrice:     p.number(idx.price, ColClosingPrice),
			CurrentYield:     p.number(idx.cy, ColCurrentYield),
			YieldToMaturity:  p.number(idx.ytm, ColYTM),
			CreditRating:     p.text(idx.rating),
			Duration:         p.number(idx.dur, ColDuration),
			ModifiedDuration: p.number(idx.mdur, ColModifiedDuration),
			MaturityDate:     p.date(idx.mat, ColMaturityDate),
			NextCallDate:     p.date(idx.call, ColNextCallDate),
		}
		if p.err != nil {
			return nil, p.err
		}

		rec.Date = *date
		rec.InstrumentID = *id
		if asset := p.text(idx.asset); asset != nil {
			rec.AssetType = *asset
		}
		records = append(records, rec)
	}

	return records, nil
}

// Clean applies coupon overrides and the row filters. It never mutates its
// input, and Clean(Clean(x)) equals Clean(x).
func (n *Normalizer) Clean(records []contracts.SecurityRecord) ([]contracts.SecurityRecord, Stats) {
	stats := Stats{InputCount: len(records), UnresolvedCoupons: make([]string, 0)}
	out := make([]contracts.SecurityRecord, 0, len(records))
	unresolved := make(map[string]struct{})

	for _, rec := range records {
		switch {
		case rec.ClosingPrice == nil:
			stats.DroppedNullPrice++
			continue
		case rec.YieldToMaturity == nil:
			stats.DroppedNullYTM++
			continue
		case rec.CreditRating != nil && *rec.CreditRating == contracts.RatingNotRated:
			stats.DroppedNotRated++
			continue
		case n.rules.RequireDuration && rec.Duration == nil:
			stats.DroppedNullDuration++
			continue
		}

		if o, ok := n.rules.Overrides[rec.InstrumentID]; ok {
			var applied bool
			rec.CouponRate, applied = o.Apply(rec.CouponRate)
			if applied {
				stats.OverridesApplied++
			}
		}
		if rec.CouponRate == nil {
			unresolved[rec.InstrumentID] = struct{}{}
		}

		out = append(out, rec)
	}

	for id := range unresolved {
		stats.UnresolvedCoupons = append(stats.UnresolvedCoupons, id)
	}
	sort.Strings(stats.UnresolvedCoupons)
	for _, id := range stats.UnresolvedCoupons {
		n.logger.WithField("instrument_id", id).Warn("Missing coupon_rate with no override; current yield will be null")
	}

	stats.OutputCount = len(out)
	return out, stats
}

// rowParser parses cells of one row and keeps the first error
type rowParser struct {
	table  *contracts.RawTable
	row    []string
	rowNum int
	rules  Rules
	err    error
}

func (p *rowParser) cell(i int) (string, bool) {
	if i < 0 || i >= len(p.row) {
		return "", false
	}
	v := strings.TrimSpace(p.row[i])
	return v, v != ""
}

func (p *rowParser) fail(column, value string, err error) {
	if p.err == nil {
		p.err = &contracts.ParseError{Source: p.table.Source, Row: p.rowNum, Column: column, Value: value, Err: err}
	}
}

func (p *rowParser) text(i int) *string {
	v, ok := p.cell(i)
	if !ok {
		return nil
	}
	return &v
}

func (p *rowParser) number(i int, column string) *float64 {
	v, ok := p.cell(i)
	if !ok || p.err != nil {
		return nil
	}
	f, err := ParseNumber(v)
	if err != nil {
		p.fail(column, v, err)
		return nil
	}
	f /= p.rules.divisor(column)
	return &f
}

func (p *rowParser) date(i int, column string) *time.Time {
	v, ok := p.cell(i)
	if !ok || p.err != nil {
		return nil
	}
	d, err := time.Parse(p.rules.DateLayout, v)
	if err != nil {
		p.fail(column, v, err)
		return nil
	}
	return &d
}

var (
	groupedNumber = regexp.MustCompile(`^[+-]?\d{1,3}(,\d{3})+(\.\d+)?$`)

	errBadGrouping = errors.New("malformed thousands separator")
	errNotFinite   = errors.New("value is not finite")
)

// ParseNumber parses a finite float cell. Commas are accepted only as
// thousands grouping (1,234.5).
func ParseNumber(v string) (float64, error) {
	if strings.Contains(v, ",") {
		if !groupedNumber.MatchString(v) {
			return 0, fmt.Errorf("not a number: %w", errBadGrouping)
		}
		v = strings.ReplaceAll(v, ",", "")
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %w", err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not a number: %w", errNotFinite)
	}
	return f, nil
}
