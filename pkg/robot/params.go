package robot

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// QueryParam is one clamped key=value pair of a robot request.
type QueryParam struct {
	Key   string `json:"key"`
	Value int    `json:"value"`
}

// ClampArgument converts a raw host value to an integer in [min, max].
//
// Strings are read up to the first non-digit ("70abc" -> 70, "3.9" -> 3,
// "0x1f" -> 31), numbers are truncated toward zero. Anything that does not
// yield an integer is replaced by def. The result is always clamped.
func ClampArgument(raw any, min, max, def int) int {
	v, ok := toInt(raw)
	if !ok {
		v = def
	}
	return clamp(v, min, max)
}

// Clamp applies ClampArgument with the parameter's range and default.
func (p Param) Clamp(raw any) int {
	return ClampArgument(raw, p.Min, p.Max, p.Default)
}

func clamp(v, min, max int) int {
	if v > max {
		v = max
	}
	if v < min {
		v = min
	}
	return v
}

func toInt(raw any) (int, bool) {
	switch v := raw.(type) {
	case nil:
		return 0, false
	case string:
		return parseLeadingInt(v)
	case []byte:
		return parseLeadingInt(string(v))
	case int:
		return v, true
	case int8:
		return int(v), true
	case int16:
		return int(v), true
	case int32:
		return int(v), true
	case int64:
		return saturate(float64(v))
	case uint:
		return saturate(float64(v))
	case uint8:
		return int(v), true
	case uint16:
		return int(v), true
	case uint32:
		return saturate(float64(v))
	case uint64:
		return saturate(float64(v))
	case float32:
		return saturate(float64(v))
	case float64:
		return saturate(v)
	case bool:
		return 0, false
	case fmt.Stringer:
		return parseLeadingInt(v.String())
	default:
		return parseLeadingInt(fmt.Sprint(v))
	}
}

// saturate truncates f toward zero, pinning values outside the int range.
func saturate(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	f = math.Trunc(f)
	if f >= math.MaxInt32 {
		return math.MaxInt32, true
	}
	if f <= math.MinInt32 {
		return math.MinInt32, true
	}
	return int(f), true
}

// parseLeadingInt reads an optionally signed integer prefix of s.
func parseLeadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}

	base := uint64(10)
	if len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		base = 16
		s = s[2:]
	}

	var n uint64
	digits := 0
	for _, r := range s {
		d, ok := digitValue(r)
		if !ok || d >= base {
			break
		}
		digits++
		if n <= math.MaxInt32 {
			n = n*base + d
		}
	}
	if digits == 0 {
		return 0, false
	}

	f := float64(n)
	if neg {
		f = -f
	}
	return saturate(f)
}

func digitValue(r rune) (uint64, bool) {
	switch {
	case r >= '0' && r <= '9':
		return uint64(r - '0'), true
	case r >= 'a' && r <= 'f':
		return uint64(r-'a') + 10, true
	case r >= 'A' && r <= 'F':
		return uint64(r-'A') + 10, true
	}
	return 0, false
}

// encodeQuery joins params as key=value pairs in order.
func encodeQuery(params []QueryParam) string {
	if len(params) == 0 {
		return ""
	}
	parts := make([]string, 0, len(params))
	for _, p := range params {
		parts = append(parts, p.Key+"="+strconv.Itoa(p.Value))
	}
	return "?" + strings.Join(parts, "&")
}
