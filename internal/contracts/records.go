package contracts

import (
	"sort"
	"time"
)

// Variant identifies which raw dataset a run is processing.
// The variants differ in divisors, override policy and which stages run.
type Variant string

const (
	VariantSecurity Variant = "securities"
	VariantCDS      Variant = "cds"
)

// AssetTypeGovernment marks government issues in the asset_type column
const AssetTypeGovernment = "Government"

// RatingNotRated is the credit_rating value excluded by normalization
const RatingNotRated = "NR"

// RawTable is a sheet as read from disk: every cell is still a string
type RawTable struct {
	Source string
	Header []string
	Rows   [][]string
}

// Index returns the column position of name, or -1
func (t *RawTable) Index(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// SecurityRecord is one observation of one instrument on one date.
// Numeric fields and optional dates are nil when null; nil is distinct from 0.
type SecurityRecord struct {
	InstrumentID     string     `json:"instrument_id"` // CUSIP, {CUSIP}_{n} after segmentation
	Date             time.Time  `json:"date"`
	AssetType        string     `json:"asset_type"`
	CouponRate       *float64   `json:"coupon_rate"`
	Spread           *float64   `json:"spread"`
	ClosingPrice     *float64   `json:"closing_price"`
	CurrentYield     *float64   `json:"current_yield"`
	YieldToMaturity  *float64   `json:"ytm"`
	CreditRating     *string    `json:"credit_rating"`
	Duration         *float64   `json:"duration"`
	ModifiedDuration *float64   `json:"modified_duration"`
	MaturityDate     *time.Time `json:"maturity_date"`
	NextCallDate     *time.Time `json:"next_call_date"`
}

// IsTreasuryRow reports whether this record on its own satisfies the
// treasury predicate: spread == 0 and asset_type == "Government".
// A null spread is never a treasury row.
func (r SecurityRecord) IsTreasuryRow() bool {
	return r.Spread != nil && *r.Spread == 0 && r.AssetType == AssetTypeGovernment
}

// RecordKey identifies a record for duplicate detection
type RecordKey struct {
	InstrumentID string
	Date         time.Time
}

// Key returns the (instrument, date) key of the record
func (r SecurityRecord) Key() RecordKey {
	return RecordKey{InstrumentID: r.InstrumentID, Date: r.Date}
}

// CDS index families
const (
	CDSTypeIG = "IG"
	CDSTypeHY = "HY"
)

// CDSTenors lists the contract tenors carried in the CDS sheets, in years
var CDSTenors = []int{3, 5, 7, 10}

// CDSQuote is one (Date, Type, Tenor) row of the reshaped CDS table
type CDSQuote struct {
	Date     time.Time `json:"date"`
	Type     string    `json:"type"`
	Tenor    int       `json:"tenor"`
	Price    *float64  `json:"price"`
	Spread   *float64  `json:"spread"`
	Coupon   *float64  `json:"coupon"`
	Duration *float64  `json:"duration"`
}

// Float returns a pointer to v
func Float(v float64) *float64 {
	return &v
}

// String returns a pointer to s
func String(s string) *string {
	return &s
}

// SortByDate stable-sorts records by date in place
func SortByDate(records []SecurityRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})
}

// GroupByInstrument splits records by InstrumentID, keeping input order within
// each group. The returned ids are in first-seen order.
func GroupByInstrument(records []SecurityRecord) ([]string, map[string][]SecurityRecord) {
	ids := make([]string, 0)
	groups := make(map[string][]SecurityRecord)
	for _, r := range records {
		if _, ok := groups[r.InstrumentID]; !ok {
			ids = append(ids, r.InstrumentID)
		}
		groups[r.InstrumentID] = append(groups[r.InstrumentID], r)
	}
	return ids, groups
}

// MaxDate returns the latest date in records and false when records is empty
func MaxDate(records []SecurityRecord) (time.Time, bool) {
	if len(records) == 0 {
		return time.Time{}, false
	}
	max := records[0].Date
	for _, r := range records[1:] {
		if r.Date.After(max) {
			max = r.Date
		}
	}
	return max, true
}

// InstrumentIDs returns the distinct instrument ids of records, sorted
func InstrumentIDs(records []SecurityRecord) []string {
	seen := make(map[string]struct{}, len(records))
	ids := make([]string, 0)
	for _, r := range records {
		if _, ok := seen[r.InstrumentID]; ok {
			continue
		}
		seen[r.InstrumentID] = struct{}{}
		ids = append(ids, r.InstrumentID)
	}
	sort.Strings(ids)
	return ids
}
