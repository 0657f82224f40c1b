// Package export writes the cleaned tables as XLSX workbooks or CSV files.
package export

import (
	"time"

	"github.com/wonny/spreadclean/internal/contracts"
)

// DateLayout is the date format of every exported date cell
const DateLayout = "2006-01-02"

// Table is one output file. Cells are nil (empty), string or float64.
type Table struct {
	Name   string
	Header []string
	Rows   [][]interface{}
}

// SecurityHeader is the column order of the security tables
var SecurityHeader = []string{
	"Date", "CUSIP", "asset_type", "coupon_rate", "spread", "closing_price",
	"current_yield", "ytm", "credit_rating", "duration", "modified_duration",
	"maturity_date", "next_call_date",
}

// CDSHeader is the column order of the CDS tables
var CDSHeader = []string{"Date", "Type", "Tenor", "Price", "Spread", "Coupon", "Duration"}

// SecurityTable builds a table of security records
func SecurityTable(name string, records []contracts.SecurityRecord) Table {
	t := Table{Name: name, Header: SecurityHeader, Rows: make([][]interface{}, len(records))}
	for i, r := range records {
		t.Rows[i] = []interface{}{
			r.Date.Format(DateLayout),
			r.InstrumentID,
			r.AssetType,
			num(r.CouponRate),
			num(r.Spread),
			num(r.ClosingPrice),
			num(r.CurrentYield),
			num(r.YieldToMaturity),
			text(r.CreditRating),
			num(r.Duration),
			num(r.ModifiedDuration),
			date(r.MaturityDate),
			date(r.NextCallDate),
		}
	}
	return t
}

// CDSTable builds a table of CDS quotes
func CDSTable(name string, quotes []contracts.CDSQuote) Table {
	t := Table{Name: name, Header: CDSHeader, Rows: make([][]interface{}, len(quotes))}
	for i, q := range quotes {
		t.Rows[i] = []interface{}{
			q.Date.Format(DateLayout),
			q.Type,
			float64(q.Tenor),
			num(q.Price),
			num(q.Spread),
			num(q.Coupon),
			num(q.Duration),
		}
	}
	return t
}

// IDTable builds a single-column list of instrument ids
func IDTable(name string, ids []string) Table {
	t := Table{Name: name, Header: []string{"CUSIP"}, Rows: make([][]interface{}, len(ids))}
	for i, id := range ids {
		t.Rows[i] = []interface{}{id}
	}
	return t
}

func num(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func text(v *string) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func date(v *time.Time) interface{} {
	if v == nil {
		return nil
	}
	return v.Format(DateLayout)
}
