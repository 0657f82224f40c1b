package s5_impute

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/spreadclean/internal/contracts"
	"github.com/wonny/spreadclean/pkg/logger"
)

var defaultParams = Params{MinObservations: 4, MinWindow: 9, MinPeriods: 1}

func newImputer() *Imputer {
	return NewImputer(defaultParams, logger.Nop())
}

func series(id string, spreads ...*float64) []contracts.SecurityRecord {
	out := make([]contracts.SecurityRecord, len(spreads))
	for i, s := range spreads {
		out[i] = contracts.SecurityRecord{
			InstrumentID: id,
			Date:         time.Date(2021, 1, 4+i, 0, 0, 0, 0, time.UTC),
			Spread:       s,
		}
	}
	return out
}

func f(v float64) *float64 { return contracts.Float(v) }

func TestWindow(t *testing.T) {
	tests := []struct {
		nulls int
		want  int
	}{
		{0, 9},
		{1, 9},
		{3, 9},
		{4, 9},
		{5, 11},
		{10, 21},
	}

	for _, tt := range tests {
		if got := newImputer().Window(tt.nulls); got != tt.want {
			t.Errorf("Window(%d) = %d, want %d", tt.nulls, got, tt.want)
		}
	}
}

func TestImpute_ScenarioA_DroppedBelowMinimum(t *testing.T) {
	in := series("A_0", f(10), nil, f(12), nil, nil, f(15))

	res := newImputer().Impute(in)

	assert.Empty(t, res.Records)
	assert.Zero(t, res.Imputed)
	require.Len(t, res.Insufficient, 1)
	assert.Equal(t, contracts.DataSufficiency{InstrumentID: "A_0", NonNull: 3, Null: 3, Required: 4}, res.Insufficient[0])
}

func TestImpute_ScenarioA_CenteredMeanFill(t *testing.T) {
	in := series("A_0", f(10), nil, f(12), nil, nil, f(15))
	params := defaultParams
	params.MinObservations = 3

	res := NewImputer(params, logger.Nop()).Impute(in)

	require.Len(t, res.Records, 6)
	assert.Empty(t, res.Insufficient)
	assert.Equal(t, 3, res.Imputed)

	// window 9 spans the whole series, so every fill is the full mean
	mean := (10.0 + 12.0 + 15.0) / 3
	want := []float64{10, mean, 12, mean, mean, 15}
	for i, r := range res.Records {
		require.NotNil(t, r.Spread, "row %d", i)
		assert.InDelta(t, want[i], *r.Spread, 1e-12, "row %d", i)
	}
	assert.Equal(t, 10.0, *res.Records[0].Spread)
	assert.Equal(t, 12.0, *res.Records[2].Spread)
	assert.Equal(t, 15.0, *res.Records[5].Spread)

	assert.Nil(t, in[1].Spread, "input is not mutated")
}

func TestImpute_ScenarioB_Insufficient(t *testing.T) {
	in := append(
		series("B_0", f(10), nil, f(11), nil, f(12)),
		series("A_0", f(1), f(2), f(3), f(4))...,
	)

	res := newImputer().Impute(in)

	require.Len(t, res.Insufficient, 1)
	assert.Equal(t, contracts.DataSufficiency{InstrumentID: "B_0", NonNull: 3, Null: 2, Required: 4}, res.Insufficient[0])
	for _, r := range res.Records {
		assert.NotEqual(t, "B_0", r.InstrumentID)
	}
	assert.Len(t, res.Records, 4)
}

func TestImpute_DropsEvenWithoutNulls(t *testing.T) {
	res := newImputer().Impute(series("C_0", f(1), f(2), f(3)))

	assert.Empty(t, res.Records)
	require.Len(t, res.Insufficient, 1)
	assert.Zero(t, res.Insufficient[0].Null)
}

func TestImpute_NoNullsPassThrough(t *testing.T) {
	in := series("D_0", f(5), f(6), f(7), f(8))

	res := newImputer().Impute(in)

	assert.Equal(t, in, res.Records)
	assert.Zero(t, res.Imputed)
}

func TestImpute_NoNullSpreadsAfterwards(t *testing.T) {
	spreads := make([]*float64, 40)
	for i := range spreads {
		if i%3 != 0 {
			spreads[i] = f(float64(i))
		}
	}
	in := append(series("E_0", spreads...), series("F_0", nil, nil, f(1), f(2), f(3), f(4), nil)...)

	res := newImputer().Impute(in)

	assert.Zero(t, res.Unfilled)
	for _, r := range res.Records {
		assert.NotNil(t, r.Spread, "%s %s", r.InstrumentID, r.Date)
	}
	for i := 1; i < len(res.Records); i++ {
		assert.False(t, res.Records[i].Date.Before(res.Records[i-1].Date))
	}
}

func TestImpute_UsesOriginalValuesOnly(t *testing.T) {
	// long run of nulls: fills must come from observed values, never from
	// earlier fills
	spreads := []*float64{f(100), f(100), f(100), f(100), nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, f(0)}
	res := newImputer().Impute(series("G_0", spreads...))

	// m = 10, window 21: positions 4..10 see the whole series
	want := 400.0 / 5
	for _, r := range res.Records[4:11] {
		assert.InDelta(t, want, *r.Spread, 1e-12)
	}
}

func TestRollingMean(t *testing.T) {
	in := []*float64{f(1), nil, f(3), nil, nil, nil, f(7)}

	got := RollingMean(in, 3, 1)

	assert.InDelta(t, 1.0, *got[0], 1e-12)
	assert.InDelta(t, 2.0, *got[1], 1e-12)
	assert.InDelta(t, 3.0, *got[2], 1e-12)
	assert.InDelta(t, 3.0, *got[3], 1e-12)
	assert.Nil(t, got[4], "no observations in window")
	assert.InDelta(t, 7.0, *got[5], 1e-12)

	strict := RollingMean(in, 3, 2)
	assert.InDelta(t, 2.0, *strict[1], 1e-12)
	assert.Nil(t, strict[0], "edge window has one value")
}

func TestSummarize(t *testing.T) {
	in := append(series("A_0", f(1), nil, f(2), f(3), f(4)), series("B_0", nil)...)

	got := newImputer().Summarize(in)

	require.Len(t, got, 2)
	assert.Equal(t, Summary{InstrumentID: "A_0", Records: 5, NonNull: 4, Null: 1, Window: 9, Sufficient: true}, got[0])
	assert.False(t, got[1].Sufficient)
}

func TestSplitTreasuries(t *testing.T) {
	govt := func(id string, spread *float64) contracts.SecurityRecord {
		return contracts.SecurityRecord{InstrumentID: id, AssetType: contracts.AssetTypeGovernment, Spread: spread}
	}
	corp := func(id string, spread *float64) contracts.SecurityRecord {
		return contracts.SecurityRecord{InstrumentID: id, AssetType: "Corporate", Spread: spread}
	}

	in := []contracts.SecurityRecord{
		govt("T1", f(0)),
		corp("C1", f(0.01)),
		govt("T1", nil),      // orphan
		govt("AG", f(0.002)), // government with a spread
		corp("C2", f(0)),     // zero spread but not government
		govt("T1", f(0)),
	}

	split := SplitTreasuries(in)

	assert.Len(t, split.Treasuries, 2)
	assert.Equal(t, 1, split.Orphans)
	require.Len(t, split.NonTreasuries, 3)
	assert.Equal(t, []string{"C1", "AG", "C2"}, []string{
		split.NonTreasuries[0].InstrumentID,
		split.NonTreasuries[1].InstrumentID,
		split.NonTreasuries[2].InstrumentID,
	})

	for _, r := range split.NonTreasuries {
		assert.NotEqual(t, "T1", r.InstrumentID)
	}
}
