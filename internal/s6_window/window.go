// Package s6_window selects the trading window at the end of the dataset.
package s6_window

import (
	"sort"
	"time"

	"github.com/wonny/spreadclean/internal/contracts"
)

// TradeWindow is the inclusive [Start, End] date range passed downstream
type TradeWindow struct {
	Start time.Time `json:"trade_start"`
	End   time.Time `json:"trade_end"`
}

// Contains reports whether d falls inside the window
func (w TradeWindow) Contains(d time.Time) bool {
	return !d.Before(w.Start) && !d.After(w.End)
}

// AddMonths shifts t by months, clamping the day to the last day of the
// target month (Aug 31 - 6 months = Feb 28/29)
func AddMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	last := first.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// TradeStart subtracts years, then months, from end
func TradeStart(end time.Time, years, months int) time.Time {
	return AddMonths(AddMonths(end, -12*years), -months)
}

// NewTradeWindow builds the window ending at end
func NewTradeWindow(end time.Time, years, months int) TradeWindow {
	return TradeWindow{Start: TradeStart(end, years, months), End: end}
}

// ForRecords builds the window from the latest date in records.
// It returns false when records is empty.
func ForRecords(records []contracts.SecurityRecord, years, months int) (TradeWindow, bool) {
	end, ok := contracts.MaxDate(records)
	if !ok {
		return TradeWindow{}, false
	}
	return NewTradeWindow(end, years, months), true
}

// Since returns the items dated on or after start, stable-sorted by date.
// The input is not modified.
func Since[T any](items []T, date func(T) time.Time, start time.Time) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if !date(it).Before(start) {
			out = append(out, it)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return date(out[i]).Before(date(out[j]))
	})
	return out
}

func recordDate(r contracts.SecurityRecord) time.Time { return r.Date }

func quoteDate(q contracts.CDSQuote) time.Time { return q.Date }

// Partition is the security-variant S6 output
type Partition struct {
	Window            TradeWindow
	TradingData       []contracts.SecurityRecord
	TradingTreasuries []contracts.SecurityRecord
	TradingIDs        []string
	TreasuryIDs       []string
}

// Select cuts the non-treasury and treasury tables at w.Start
func Select(w TradeWindow, nonTreasuries, treasuries []contracts.SecurityRecord) Partition {
	p := Partition{
		Window:            w,
		TradingData:       Since(nonTreasuries, recordDate, w.Start),
		TradingTreasuries: Since(treasuries, recordDate, w.Start),
	}
	p.TradingIDs = contracts.InstrumentIDs(p.TradingData)
	p.TreasuryIDs = contracts.InstrumentIDs(p.TradingTreasuries)
	return p
}

// SelectQuotes returns the CDS quotes inside the window, order kept
func SelectQuotes(w TradeWindow, quotes []contracts.CDSQuote) []contracts.CDSQuote {
	return Since(quotes, quoteDate, w.Start)
}
