package s2_derive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/spreadclean/internal/contracts"
)

func TestCurrentYield(t *testing.T) {
	tests := []struct {
		name   string
		coupon *float64
		price  *float64
		want   *float64
	}{
		{"par bond", contracts.Float(5), contracts.Float(100), contracts.Float(5)},
		{"discount bond", contracts.Float(4), contracts.Float(80), contracts.Float(5)},
		{"null coupon", nil, contracts.Float(100), nil},
		{"null price", contracts.Float(4), nil, nil},
		{"zero price", contracts.Float(4), contracts.Float(0), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CurrentYield(tt.coupon, tt.price)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 1e-12)
		})
	}
}

func TestModifiedDuration(t *testing.T) {
	got := ModifiedDuration(contracts.Float(5), contracts.Float(0.04))
	require.NotNil(t, got)
	assert.InDelta(t, 5/1.02, *got, 1e-12)

	assert.Nil(t, ModifiedDuration(nil, contracts.Float(0.04)))
	assert.Nil(t, ModifiedDuration(contracts.Float(5), nil))
	assert.Nil(t, ModifiedDuration(contracts.Float(5), contracts.Float(-2)), "zero denominator")
}

func TestApply(t *testing.T) {
	in := []contracts.SecurityRecord{
		{
			InstrumentID:    "A",
			Date:            time.Date(2021, 1, 4, 0, 0, 0, 0, time.UTC),
			CouponRate:      contracts.Float(3),
			ClosingPrice:    contracts.Float(120),
			CurrentYield:    contracts.Float(99), // stale vendor value
			YieldToMaturity: contracts.Float(0.02),
			Duration:        contracts.Float(10.1),
		},
		{
			InstrumentID:    "B",
			Date:            time.Date(2021, 1, 4, 0, 0, 0, 0, time.UTC),
			ClosingPrice:    contracts.Float(100),
			CurrentYield:    contracts.Float(1),
			YieldToMaturity: contracts.Float(0.05),
		},
	}

	out, stats := Apply(in)
	require.Len(t, out, 2)

	assert.InDelta(t, 2.5, *out[0].CurrentYield, 1e-12)
	assert.InDelta(t, 10.1/1.01, *out[0].ModifiedDuration, 1e-12)
	assert.Nil(t, out[1].CurrentYield, "null coupon overwrites vendor value with null")
	assert.Nil(t, out[1].ModifiedDuration)

	assert.Equal(t, Stats{NullCurrentYield: 1, NullModifiedDuration: 1}, stats)
	assert.Equal(t, 99.0, *in[0].CurrentYield, "input is not mutated")
}
