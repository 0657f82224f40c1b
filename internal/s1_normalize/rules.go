package s1_normalize

import (
	"github.com/wonny/spreadclean/internal/cleanconfig"
)

// Security export column names
const (
	ColDate             = "Date"
	ColCUSIP            = "CUSIP"
	ColAssetType        = "asset_type"
	ColCouponRate       = "coupon_rate"
	ColSpread           = "spread"
	ColClosingPrice     = "closing_price"
	ColCurrentYield     = "current_yield"
	ColYTM              = "ytm"
	ColCreditRating     = "credit_rating"
	ColDuration         = "duration"
	ColModifiedDuration = "modified_duration"
	ColMaturityDate     = "maturity_date"
	ColNextCallDate     = "next_call_date"
)

// Override is one manual coupon correction
type Override struct {
	Rate  float64
	Force bool // false: only when the source value is null
}

// Apply returns the corrected value for current
func (o Override) Apply(current *float64) (*float64, bool) {
	if current != nil && !o.Force {
		return current, false
	}
	rate := o.Rate
	return &rate, true
}

// Rules are the parsing and filtering parameters of one dataset variant
type Rules struct {
	NullSentinel    string
	DateLayout      string
	Divisors        map[string]float64  // column → divisor applied after parsing
	Overrides       map[string]Override // instrument id → coupon override
	RequireDuration bool
}

// SecurityRules builds the security-variant rules from the cleaning config
func SecurityRules(cfg *cleanconfig.Config) Rules {
	overrides := make(map[string]Override, len(cfg.Securities.CouponOverrides))
	for _, o := range cfg.Securities.CouponOverrides {
		overrides[o.InstrumentID] = Override{
			Rate:  o.Rate,
			Force: o.Policy == cleanconfig.PolicyForce,
		}
	}

	return Rules{
		NullSentinel:    cfg.Input.NullSentinel,
		DateLayout:      cfg.Input.DateLayout,
		Divisors:        copyDivisors(cfg.Securities.Divisors),
		Overrides:       overrides,
		RequireDuration: cfg.Securities.RequireDuration,
	}
}

// CDSRules builds the CDS-variant rules. The per-index standard coupons are
// unconditional overrides keyed by index type.
func CDSRules(cfg *cleanconfig.Config) Rules {
	overrides := make(map[string]Override, len(cfg.CDS.Coupons))
	for kind, coupon := range cfg.CDS.Coupons {
		overrides[kind] = Override{Rate: coupon, Force: true}
	}

	return Rules{
		NullSentinel: cfg.Input.NullSentinel,
		DateLayout:   cfg.Input.DateLayout,
		Divisors:     copyDivisors(cfg.CDS.Divisors),
		Overrides:    overrides,
	}
}

func (r Rules) divisor(column string) float64 {
	if d, ok := r.Divisors[column]; ok && d != 0 {
		return d
	}
	return 1
}

func copyDivisors(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
