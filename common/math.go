package common

import (
	"math"
	"strconv"
)

// https://stackoverflow.com/questions/18390266/how-can-we-truncate-float64-type-to-a-particular-precision
func Round(num float64) int {
	return int(num + math.Copysign(0.5, num))
}

func DecimalToFixed(num float64, precision int) float64 {
	output := math.Pow(10, float64(precision))
	return float64(Round(num*output)) / output
}

// ParseLeadingFloat parses the longest decimal floating point prefix of s,
// like C's atof: leading whitespace is skipped, trailing garbage is ignored,
// and a string without any numeric prefix is 0.
// Only plain decimal notation is recognized; hex floats, "inf" and "nan" are 0.
// Out of range values saturate to ±Inf.
func ParseLeadingFloat(s string) float64 {
	prefix := leadingFloatPrefix(s)
	if prefix == "" {
		return 0
	}
	f, err := strconv.ParseFloat(prefix, 64)
	if err != nil {
		// Only ErrRange can get here; f is already ±Inf (or ±0 on underflow).
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return f
		}
		return 0
	}
	return f
}

// leadingFloatPrefix returns the part of s matching
// [space]* [+-]? (digits [. digits?]? | . digits) ([eE] [+-]? digits)?
func leadingFloatPrefix(s string) string {
	i := 0
	for i < len(s) && isCSpace(s[i]) {
		i++
	}
	start := i
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		frac := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			frac++
		}
		if digits > 0 || frac > 0 {
			i = j
			digits += frac
		}
	}
	if digits == 0 {
		return ""
	}
	// An exponent only counts if at least one digit follows it.
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		exp := j
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		if j > exp {
			i = j
		}
	}
	return s[start:i]
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isCSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
