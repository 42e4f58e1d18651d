package util

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// maximum accepted magnitude for a single operation or budget limit
var maxAmount = decimal.NewFromInt(10_000_000)

// ParseAmount parses a decimal magnitude. It must be strictly positive
// and below the sanity cap.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid decimal %q: %w", s, err)
	}
	if d.Sign() <= 0 {
		return decimal.Zero, fmt.Errorf("amount must be positive, got %s", d)
	}
	if d.GreaterThanOrEqual(maxAmount) {
		return decimal.Zero, fmt.Errorf("amount too large, got %s", d)
	}
	return d, nil
}

// ParseNonNegativeAmount parses a decimal that may be zero, e.g. a budget limit.
func ParseNonNegativeAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid decimal %q: %w", s, err)
	}
	if d.Sign() < 0 {
		return decimal.Zero, fmt.Errorf("amount must not be negative, got %s", d)
	}
	if d.GreaterThanOrEqual(maxAmount) {
		return decimal.Zero, fmt.Errorf("amount too large, got %s", d)
	}
	return d, nil
}

// ParseDate parses a calendar date in YYYY-MM-DD form.
func ParseDate(dateStr string) (time.Time, error) {
	if dateStr == "" {
		return time.Time{}, fmt.Errorf("date is empty")
	}
	t, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: %w", err)
	}
	return t, nil
}

// ValidateLength checks an inclusive rune-length range.
func ValidateLength(s string, min, max int) error {
	n := len([]rune(s))
	if n < min || n > max {
		return fmt.Errorf("length must be %d to %d characters, got %d", min, max, n)
	}
	return nil
}
