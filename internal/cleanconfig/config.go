package cleanconfig

import "time"

// Config is the full set of cleaning rules for both dataset variants.
// Business constants (thresholds, divisors, overrides, lookback) live here,
// never in the stage packages.
type Config struct {
	Meta       Meta          `yaml:"meta" json:"meta"`
	Input      Input         `yaml:"input" json:"input"`
	Securities SecurityRules `yaml:"securities" json:"securities"`
	CDS        CDSRules      `yaml:"cds" json:"cds"`
	Segment    Segment       `yaml:"segment" json:"segment"`
	Impute     Impute        `yaml:"impute" json:"impute"`
	Window     Window        `yaml:"window" json:"window"`
	Output     Output        `yaml:"output" json:"output"`
}

// Meta 메타 정보
type Meta struct {
	ConfigID string `yaml:"config_id" json:"config_id" validate:"required"`
	Version  string `yaml:"version" json:"version" validate:"required"`
}

// Input describes how raw exports encode values
type Input struct {
	NullSentinel string `yaml:"null_sentinel" json:"null_sentinel" validate:"required"`
	DateLayout   string `yaml:"date_layout" json:"date_layout" validate:"required"` // Go layout, "01/02/2006"
}

// OverridePolicy decides when a coupon override replaces the source value
type OverridePolicy string

const (
	// PolicyFill applies the override only when the source coupon is null
	PolicyFill OverridePolicy = "fill"
	// PolicyForce applies the override unconditionally
	PolicyForce OverridePolicy = "force"
)

// CouponOverride is a manual correction for a known-bad source record
type CouponOverride struct {
	InstrumentID string         `yaml:"instrument_id" json:"instrument_id" validate:"required"`
	Rate         float64        `yaml:"rate" json:"rate" validate:"gte=0"`
	Policy       OverridePolicy `yaml:"policy" json:"policy" validate:"oneof=fill force"`
}

// SecurityRules S1 rules for the security-level bond export
type SecurityRules struct {
	InputFile       string             `yaml:"input_file" json:"input_file" validate:"required"`
	Divisors        map[string]float64 `yaml:"divisors" json:"divisors" validate:"dive,keys,required,endkeys,gt=0"`
	CouponOverrides []CouponOverride   `yaml:"coupon_overrides" json:"coupon_overrides" validate:"dive"`
	RequireDuration bool               `yaml:"require_duration" json:"require_duration"`
}

// CDSRules S1 + reshape rules for the CDS index sheets
type CDSRules struct {
	PriceFile  string             `yaml:"price_file" json:"price_file" validate:"required"`
	SpreadFile string             `yaml:"spread_file" json:"spread_file" validate:"required"`
	Divisors   map[string]float64 `yaml:"divisors" json:"divisors" validate:"dive,keys,oneof=price spread,endkeys,gt=0"`
	// 지수별 표준 쿠폰 (force override)
	Coupons map[string]float64 `yaml:"coupons" json:"coupons" validate:"required,dive,keys,oneof=IG HY,endkeys,gt=0"`
	Tenors  []int              `yaml:"tenors" json:"tenors" validate:"required,min=1,dive,gt=0"`
}

// Segment S4 gap detection
type Segment struct {
	MaxGapDays int `yaml:"max_gap_days" json:"max_gap_days" validate:"gt=0"`
}

// Impute S5 sufficiency and rolling window
type Impute struct {
	MinObservations int `yaml:"min_observations" json:"min_observations" validate:"gte=1"`
	MinWindow       int `yaml:"min_window" json:"min_window" validate:"gte=1"`
	MinPeriods      int `yaml:"min_periods" json:"min_periods" validate:"gte=1"`
}

// Window S6 lookback: warm-up plus trading window
type Window struct {
	LookbackYears  int `yaml:"lookback_years" json:"lookback_years" validate:"gte=0"`
	LookbackMonths int `yaml:"lookback_months" json:"lookback_months" validate:"gte=0,lt=12"`
}

// Output S7 file names (without extension)
type Output struct {
	CleanData         string `yaml:"clean_data" json:"clean_data" validate:"required"`
	TradingData       string `yaml:"trading_data" json:"trading_data" validate:"required"`
	Treasuries        string `yaml:"treasuries" json:"treasuries" validate:"required"`
	TradingTreasuries string `yaml:"trading_treasuries" json:"trading_treasuries" validate:"required"`
	TradingIDs        string `yaml:"trading_ids" json:"trading_ids" validate:"required"`
	TreasuryIDs       string `yaml:"treasury_ids" json:"treasury_ids" validate:"required"`
	CDSData           string `yaml:"cds_data" json:"cds_data" validate:"required"`
	TradingCDSData    string `yaml:"trading_cds_data" json:"trading_cds_data" validate:"required"`
	Report            string `yaml:"report" json:"report" validate:"required"`
}

// Default returns the rules the historical exports were cleaned with
func Default() *Config {
	return &Config{
		Meta: Meta{
			ConfigID: "bond_cds_cleaning",
			Version:  "1",
		},
		Input: Input{
			NullSentinel: "NULL",
			DateLayout:   "1/2/2006",
		},
		Securities: SecurityRules{
			InputFile: "SecurityData.csv",
			Divisors: map[string]float64{
				"ytm":    100,   // percent → decimal
				"spread": 10000, // bp → decimal
			},
			CouponOverrides: []CouponOverride{
				{InstrumentID: "83162CSS3", Rate: 4.45, Policy: PolicyForce},
				{InstrumentID: "90261XHF2", Rate: 0.8731, Policy: PolicyFill},
				{InstrumentID: "55608PAN4", Rate: 0.7611, Policy: PolicyFill},
				{InstrumentID: "20826FAH9", Rate: 1.2616, Policy: PolicyFill},
			},
			RequireDuration: true,
		},
		CDS: CDSRules{
			PriceFile:  "CDSPrices.csv",
			SpreadFile: "CDSSpreads.csv",
			Divisors: map[string]float64{
				"spread": 10000,
			},
			Coupons: map[string]float64{
				"IG": 0.01,
				"HY": 0.05,
			},
			Tenors: []int{3, 5, 7, 10},
		},
		Segment: Segment{MaxGapDays: 60},
		Impute: Impute{
			MinObservations: 4,
			MinWindow:       9,
			MinPeriods:      1,
		},
		Window: Window{
			LookbackYears:  2,
			LookbackMonths: 6,
		},
		Output: Output{
			CleanData:         "CleanData",
			TradingData:       "TradingData",
			Treasuries:        "Treasuries",
			TradingTreasuries: "TradingTreasuries",
			TradingIDs:        "TradingCUSIPsList",
			TreasuryIDs:       "TreasuryCUSIPsList",
			CDSData:           "CDSData",
			TradingCDSData:    "TradingCDSData",
			Report:            "run_report",
		},
	}
}

// RunSnapshot 실행 스냅샷 (재현성용)
type RunSnapshot struct {
	ConfigHash string    `json:"config_hash"`
	ConfigYAML string    `json:"config_yaml,omitempty"`
	ConfigID   string    `json:"config_id"`
	Version    string    `json:"version"`
	CreatedAt  time.Time `json:"created_at"`
}
