package util

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	reCurrency      = regexp.MustCompile(`(?i)[$€£¥₹₽]|\b(usd|eur|gbp|rs|inr)\b`)
	reThousandDots  = regexp.MustCompile(`^\d{1,3}(?:\.\d{3})+$`)
	reThousandComma = regexp.MustCompile(`^\d{1,3}(?:,\d{3})+(?:\.\d+)?$`)
	rePlainNumber   = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?$`)
)

// ParseAmount reads a monetary cell. Anything unreadable or negative yields 0.
func ParseAmount(input string) float64 {
	v, ok := parseNumber(input)
	if !ok || v < 0 {
		return 0
	}
	return v
}

// ParseCount reads a guest count. Anything unreadable or below 1 yields 1.
func ParseCount(input string) int {
	v, ok := parseNumber(input)
	if !ok || v < 1 {
		return 1
	}
	return int(v)
}

// IsNumeric reports whether the trimmed cell is a plain decimal number, the
// way a raw spreadsheet value for a date serial looks. Go literal forms such
// as "1_000" or "0x10" are not numbers here.
func IsNumeric(input string) (float64, bool) {
	s := strings.TrimSpace(input)
	if !rePlainNumber.MatchString(s) {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func parseNumber(input string) (float64, bool) {
	s := strings.ReplaceAll(input, "\u00A0", " ")
	s = reCurrency.ReplaceAllString(s, "")
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if s == "" {
		return 0, false
	}
	if v, ok := IsNumeric(s); ok {
		return v, true
	}
	v, ok := IsNumeric(normalizeNumericToken(s))
	return v, ok
}

func normalizeNumericToken(token string) string {
	if reThousandDots.MatchString(token) {
		return strings.ReplaceAll(token, ".", "")
	}
	if reThousandComma.MatchString(token) {
		return strings.ReplaceAll(token, ",", "")
	}
	if strings.Contains(token, ",") && !strings.Contains(token, ".") {
		return strings.ReplaceAll(token, ",", ".")
	}
	return token
}
