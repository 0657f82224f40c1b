package contracts

import "fmt"

// ParseError is returned when a non-null field does not parse as its type.
// It aborts the run.
type ParseError struct {
	Source string
	Row    int // 1-based data row, header excluded
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s row %d column %q: cannot parse %q: %v", e.Source, e.Row, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// SchemaError is returned when an expected column is missing or unusable.
// It aborts the run.
type SchemaError struct {
	Source  string
	Column  string
	Message string
}

func (e *SchemaError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: missing column %q", e.Source, e.Column)
	}
	return fmt.Sprintf("%s: column %q: %s", e.Source, e.Column, e.Message)
}

// DataSufficiency records an instrument excluded for having too few
// non-null spread observations. It is an audit entry, not a failure.
type DataSufficiency struct {
	InstrumentID string `json:"instrument_id"`
	NonNull      int    `json:"non_null"`
	Null         int    `json:"null"`
	Required     int    `json:"required"`
}

func (d DataSufficiency) String() string {
	return fmt.Sprintf("%s: %d non-null spreads (< %d required), %d null", d.InstrumentID, d.NonNull, d.Required, d.Null)
}
