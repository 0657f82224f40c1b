package cleanconfig

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ValidationError 검증 실패 (프로그램 중단)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Warning 권장 위반 (경고만)
type Warning struct {
	Code    string
	Message string
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report yaml field names instead of Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks all required constraints
// 실패 시 error 반환 (프로그램 중단)
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			field := strings.TrimPrefix(fe.Namespace(), "Config.")
			return ValidationError{field, describeTag(fe)}
		}
		return err
	}

	// === Input ===
	if _, err := time.Parse(cfg.Input.DateLayout, time.Date(2021, 1, 5, 0, 0, 0, 0, time.UTC).Format(cfg.Input.DateLayout)); err != nil {
		return ValidationError{"input.date_layout", "not a usable Go time layout"}
	}

	// === Securities ===
	known := map[string]bool{
		"coupon_rate": true, "spread": true, "closing_price": true,
		"current_yield": true, "ytm": true, "duration": true,
	}
	for col := range cfg.Securities.Divisors {
		if !known[col] {
			return ValidationError{"securities.divisors", fmt.Sprintf("unknown numeric column %q", col)}
		}
	}

	seen := make(map[string]bool)
	for i, o := range cfg.Securities.CouponOverrides {
		if seen[o.InstrumentID] {
			return ValidationError{
				Field:   fmt.Sprintf("securities.coupon_overrides[%d]", i),
				Message: fmt.Sprintf("duplicate instrument_id %s", o.InstrumentID),
			}
		}
		seen[o.InstrumentID] = true
	}

	// === CDS ===
	for _, tenor := range cfg.CDS.Tenors {
		if tenor > 30 {
			return ValidationError{"cds.tenors", fmt.Sprintf("tenor %d exceeds 30 years", tenor)}
		}
	}

	// === Impute ===
	// 윈도우는 중심 정렬이므로 홀수여야 함
	if cfg.Impute.MinWindow%2 == 0 {
		return ValidationError{"impute.min_window", "must be odd for a centered window"}
	}
	if cfg.Impute.MinPeriods > cfg.Impute.MinWindow {
		return ValidationError{"impute.min_periods", "must be <= min_window"}
	}

	// === Window ===
	if cfg.Window.LookbackYears == 0 && cfg.Window.LookbackMonths == 0 {
		return ValidationError{"window", "lookback must be positive"}
	}

	return nil
}

// Warn checks recommended constraints (non-fatal)
func Warn(cfg *Config) []Warning {
	var warnings []Warning

	if cfg.Impute.MinObservations < 2 {
		warnings = append(warnings, Warning{
			Code:    "LOW_MIN_OBSERVATIONS",
			Message: "min_observations < 2: single-point instruments will be extrapolated flat",
		})
	}

	if cfg.Segment.MaxGapDays < 7 {
		warnings = append(warnings, Warning{
			Code:    "SHORT_GAP",
			Message: "max_gap_days < 7: ordinary weekends and holidays will split instruments",
		})
	}

	if len(cfg.Securities.CouponOverrides) == 0 {
		warnings = append(warnings, Warning{
			Code:    "NO_OVERRIDES",
			Message: "no coupon overrides: null coupons will produce null current yield",
		})
	}

	return warnings
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "oneof":
		return fmt.Sprintf("must be one of [%s], got %v", fe.Param(), fe.Value())
	case "gt", "gte", "lt", "min":
		return fmt.Sprintf("must satisfy %s=%s, got %v", fe.Tag(), fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}
