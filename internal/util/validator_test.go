package util

import (
	"testing"
)

func TestParseAmount_Valid(t *testing.T) {
	testCases := []string{"0.01", "1", "100.5", "9999999.99"}

	for _, s := range testCases {
		if _, err := ParseAmount(s); err != nil {
			t.Errorf("ParseAmount(%q) error = %v, want nil", s, err)
		}
	}
}

func TestParseAmount_Invalid(t *testing.T) {
	testCases := []string{"", "0", "-0.01", "-100", "abc", "12,50", "10000000"}

	for _, s := range testCases {
		if _, err := ParseAmount(s); err == nil {
			t.Errorf("ParseAmount(%q) error = nil, want error", s)
		}
	}
}

func TestParseNonNegativeAmount_ZeroAllowed(t *testing.T) {
	d, err := ParseNonNegativeAmount("0")
	if err != nil {
		t.Fatalf("ParseNonNegativeAmount(0) error = %v, want nil", err)
	}
	if !d.IsZero() {
		t.Errorf("ParseNonNegativeAmount(0) = %s, want 0", d)
	}

	if _, err := ParseNonNegativeAmount("-1"); err == nil {
		t.Error("ParseNonNegativeAmount(-1) error = nil, want error")
	}
}

func TestParseDate_Valid(t *testing.T) {
	testCases := []string{
		"2024-01-01",
		"2024-12-31",
		"2025-06-15",
	}

	for _, date := range testCases {
		if _, err := ParseDate(date); err != nil {
			t.Errorf("ParseDate(%q) error = %v, want nil", date, err)
		}
	}
}

func TestParseDate_Invalid(t *testing.T) {
	testCases := []string{
		"",
		"2024/01/01",
		"01-01-2024",
		"2024-1-1",
		"not-a-date",
		"2024-13-01",
		"2024-01-32",
	}

	for _, date := range testCases {
		if _, err := ParseDate(date); err == nil {
			t.Errorf("ParseDate(%q) error = nil, want error", date)
		}
	}
}

func TestValidateLength(t *testing.T) {
	if err := ValidateLength("groceries", 1, 150); err != nil {
		t.Errorf("ValidateLength(groceries) error = %v, want nil", err)
	}
	if err := ValidateLength("", 1, 150); err == nil {
		t.Error("ValidateLength(\"\") error = nil, want error")
	}
	long := make([]byte, 151)
	for i := range long {
		long[i] = 'a'
	}
	if err := ValidateLength(string(long), 1, 150); err == nil {
		t.Error("ValidateLength(151 chars) error = nil, want error")
	}
}
