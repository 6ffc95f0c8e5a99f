package search

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Result size limits.
const (
	DefaultLimit   = 20
	MaxLimit       = 50
	SecondaryLimit = 10
)

// ClampLimit turns a loosely typed limit (JSON number, numeric string, integer)
// into a result limit in [1, MaxLimit]. A leading integer is read from strings
// ("12 results" is 12) and fractions are truncated. Anything that does not yield
// a positive integer falls back to DefaultLimit.
func ClampLimit(value interface{}) int {
	parsed, ok := leadingInt(value)
	if !ok || parsed <= 0 {
		return DefaultLimit
	}
	return int(min(parsed, MaxLimit))
}

// SecondaryLimitFor returns the extras bucket size for a clamped primary limit.
func SecondaryLimitFor(limit int) int {
	return min(SecondaryLimit, limit)
}

func leadingInt(value interface{}) (int64, bool) {
	switch v := value.(type) {
	case nil:
		return 0, false
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case float32:
		return truncateFloat(float64(v))
	case float64:
		return truncateFloat(v)
	case json.Number:
		return parseLeadingInt(v.String())
	case string:
		return parseLeadingInt(v)
	default:
		return 0, false
	}
}

func truncateFloat(v float64) (int64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	if v >= math.MaxInt64 {
		return math.MaxInt64, true
	}
	if v <= math.MinInt64 {
		return math.MinInt64, true
	}
	return int64(v), true
}

func parseLeadingInt(s string) (int64, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0, false
	}

	parsed, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		// Out of range: the sign still decides whether it clamps up or falls back.
		if strings.HasPrefix(s, "-") {
			return math.MinInt64, true
		}
		return math.MaxInt64, true
	}
	return parsed, true
}
