// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Rupee is the currency symbol that selects Indian digit grouping.
const Rupee = "₹"

// FormatMoney formats an amount with the currency symbol. Whole amounts drop
// the paise/cents. Rupee amounts use lakh/crore grouping.
// e.g., 150000 "₹" -> "₹1,50,000", 1234.5 "$" -> "$1,234.50", -500 "₹" -> "-₹500"
func FormatMoney(d decimal.Decimal, symbol string) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}

	places := int32(2)
	if d.Equal(d.Truncate(0)) {
		places = 0
	}
	s := d.StringFixed(places)

	whole, frac, _ := strings.Cut(s, ".")
	if symbol == Rupee {
		whole = groupIndian(whole)
	} else {
		whole = groupWestern(whole)
	}
	if frac != "" {
		whole += "." + frac
	}
	return sign + symbol + whole
}

// groupWestern inserts a comma every three digits.
// e.g., "1234567" -> "1,234,567"
func groupWestern(s string) string {
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// groupIndian groups the last three digits, then pairs.
// e.g., "12345678" -> "1,23,45,678"
func groupIndian(s string) string {
	if len(s) <= 3 {
		return s
	}
	head, tail := s[:len(s)-3], s[len(s)-3:]

	var result strings.Builder
	remainder := len(head) % 2
	if remainder > 0 {
		result.WriteString(head[:remainder])
	}
	for i := remainder; i < len(head); i += 2 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(head[i : i+2])
	}
	return result.String() + "," + tail
}

// FormatRate formats a savings rate fraction, or "n/a" when undefined.
func FormatRate(r decimal.NullDecimal) string {
	if !r.Valid {
		return "n/a"
	}
	return r.Decimal.Mul(decimal.NewFromInt(100)).StringFixed(1) + "%"
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// MaskKey hides all but the last four characters of a credential.
func MaskKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return "(not set)"
	}
	r := []rune(key)
	if len(r) <= 4 {
		return strings.Repeat("*", len(r))
	}
	return strings.Repeat("*", 8) + string(r[len(r)-4:])
}
