package s1_normalize

import (
	"time"

	"github.com/wonny/spreadclean/internal/contracts"
	"github.com/wonny/spreadclean/internal/s0_ingest"
)

// WideSheet is a parsed CDS sheet: one row per date, one column per index/tenor
type WideSheet struct {
	Source  string
	Field   string // price or spread
	Columns []string
	Dates   []time.Time
	Values  [][]*float64 // Values[row][column]
}

// ParseWide parses a CDS sheet whose first data column is Date and whose
// remaining columns are all numeric. The divisor for field is applied to
// every value.
func ParseWide(table *contracts.RawTable, field string, rules Rules) (*WideSheet, error) {
	if err := s0_ingest.RequireColumns(table, ColDate); err != nil {
		return nil, err
	}
	table = ReplaceSentinels(table, rules.NullSentinel)
	dateIdx := table.Index(ColDate)

	sheet := &WideSheet{
		Source: table.Source,
		Field:  field,
		Dates:  make([]time.Time, 0, len(table.Rows)),
		Values: make([][]*float64, 0, len(table.Rows)),
	}
	valueIdx := make([]int, 0, len(table.Header))
	for i, h := range table.Header {
		if i == dateIdx || h == "" {
			continue
		}
		sheet.Columns = append(sheet.Columns, h)
		valueIdx = append(valueIdx, i)
	}

	scale := rules.divisor(field)
	for r, row := range table.Rows {
		p := rowParser{table: table, row: row, rowNum: r + 1, rules: rules}

		date := p.date(dateIdx, ColDate)
		if p.err == nil && date == nil {
			p.fail(ColDate, "", errMissingDate)
		}

		values := make([]*float64, len(valueIdx))
		for c, i := range valueIdx {
			v, ok := p.cell(i)
			if !ok || p.err != nil {
				continue
			}
			f, err := ParseNumber(v)
			if err != nil {
				p.fail(table.Header[i], v, err)
				continue
			}
			f /= scale
			values[c] = &f
		}
		if p.err != nil {
			return nil, p.err
		}

		sheet.Dates = append(sheet.Dates, *date)
		sheet.Values = append(sheet.Values, values)
	}

	return sheet, nil
}
