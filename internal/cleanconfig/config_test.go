package cleanconfig

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cleaning.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, Validate(cfg))

	assert.Equal(t, 60, cfg.Segment.MaxGapDays)
	assert.Equal(t, 4, cfg.Impute.MinObservations)
	assert.Equal(t, 9, cfg.Impute.MinWindow)
	assert.Equal(t, 1, cfg.Impute.MinPeriods)
	assert.Equal(t, 2, cfg.Window.LookbackYears)
	assert.Equal(t, 6, cfg.Window.LookbackMonths)
	assert.Len(t, cfg.Securities.CouponOverrides, 4)
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, data, err := Load("")
	require.NoError(t, err)
	assert.Nil(t, data)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_RepositoryConfig(t *testing.T) {
	path := "../../config/cleaning.yaml"
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Skip("config file not found")
	}

	cfg, yamlData, err := Load(path)
	require.NoError(t, err)
	assert.NotEmpty(t, yamlData)

	// the checked-in file restates the defaults
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	path := writeYAML(t, `
segment:
  max_gap_days: 90
securities:
  divisors:
    duration: 1
`)

	cfg, _, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 90, cfg.Segment.MaxGapDays)
	assert.Equal(t, 4, cfg.Impute.MinObservations, "untouched sections keep defaults")
	assert.Equal(t, 100.0, cfg.Securities.Divisors["ytm"], "maps merge")
	assert.Equal(t, 1.0, cfg.Securities.Divisors["duration"])
}

func TestLoad_UnknownFieldFails(t *testing.T) {
	path := writeYAML(t, `
impute:
  min_obs: 4
`)

	_, _, err := Load(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{
			name:      "even window",
			mutate:    func(c *Config) { c.Impute.MinWindow = 8 },
			wantField: "impute.min_window",
		},
		{
			name:      "zero gap",
			mutate:    func(c *Config) { c.Segment.MaxGapDays = 0 },
			wantField: "segment.max_gap_days",
		},
		{
			name: "bad override policy",
			mutate: func(c *Config) {
				c.Securities.CouponOverrides[0].Policy = "sometimes"
			},
			wantField: "securities.coupon_overrides[0].policy",
		},
		{
			name: "duplicate override",
			mutate: func(c *Config) {
				c.Securities.CouponOverrides[1].InstrumentID = c.Securities.CouponOverrides[0].InstrumentID
			},
			wantField: "securities.coupon_overrides[1]",
		},
		{
			name:      "unknown divisor column",
			mutate:    func(c *Config) { c.Securities.Divisors["price"] = 100 },
			wantField: "securities.divisors",
		},
		{
			name:      "zero lookback",
			mutate:    func(c *Config) { c.Window.LookbackYears, c.Window.LookbackMonths = 0, 0 },
			wantField: "window",
		},
		{
			name:      "min periods above window",
			mutate:    func(c *Config) { c.Impute.MinPeriods = 11 },
			wantField: "impute.min_periods",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := Validate(cfg)
			require.Error(t, err)

			var ve ValidationError
			require.True(t, errors.As(err, &ve), "got %T: %v", err, err)
			assert.Equal(t, tt.wantField, ve.Field)
		})
	}
}

func TestHash_Deterministic(t *testing.T) {
	h1, err := Hash(Default())
	require.NoError(t, err)
	h2, err := Hash(Default())
	require.NoError(t, err)

	assert.Len(t, h1, 64)
	assert.Equal(t, h1, h2)

	changed := Default()
	changed.Segment.MaxGapDays = 61
	h3, err := Hash(changed)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h3)
}

func TestWarn(t *testing.T) {
	assert.Empty(t, Warn(Default()))

	cfg := Default()
	cfg.Segment.MaxGapDays = 3
	cfg.Securities.CouponOverrides = nil

	codes := make([]string, 0)
	for _, w := range Warn(cfg) {
		codes = append(codes, w.Code)
	}
	assert.ElementsMatch(t, []string{"SHORT_GAP", "NO_OVERRIDES"}, codes)
}
