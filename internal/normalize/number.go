package normalize

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// NumberFormat describes the grouping and decimal separators of a locale.
type NumberFormat struct {
	Group   rune
	Decimal rune
}

// Italian is the default format: "1.234,56" parses to 1234.56.
var Italian = NumberFormat{Group: '.', Decimal: ','}

// Parse converts a free-form numeric token into a finite float. Input may
// be nil, an already-numeric value, or a string in the configured locale
// convention. The second return is false when there is no value (empty,
// unparseable, or non-finite).
func (f NumberFormat) Parse(v any) (float64, bool) {
	switch n := v.(type) {
	case nil:
		return 0, false
	case float64:
		return finite(n)
	case float32:
		return finite(float64(n))
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		return f.parseString(n)
	default:
		return 0, false
	}
}

// Float is Parse with a pointer result, for callers that track "absent".
func (f NumberFormat) Float(v any) *float64 {
	n, ok := f.Parse(v)
	if !ok {
		return nil
	}
	return &n
}

func (f NumberFormat) parseString(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	// strip internal whitespace first: OCR likes to split digit groups
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	s = stripGrouping(s, f.Group)
	if f.Decimal != '.' {
		s = strings.ReplaceAll(s, string(f.Decimal), ".")
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return finite(n)
}

// stripGrouping removes each group separator that is followed by exactly
// three digits and then a non-digit or end of string. Matching is against
// the original token, left to right, so "1.234.567" loses both dots.
func stripGrouping(s string, group rune) string {
	rs := []rune(s)
	var b strings.Builder
	b.Grow(len(s))
	for i, r := range rs {
		if r == group && isGroupSep(rs, i) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isGroupSep(rs []rune, i int) bool {
	for k := 1; k <= 3; k++ {
		if i+k >= len(rs) || !unicode.IsDigit(rs[i+k]) {
			return false
		}
	}
	return i+4 >= len(rs) || !unicode.IsDigit(rs[i+4])
}

func finite(n float64) (float64, bool) {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// Round2 rounds to two decimals, the precision records are stored at.
// The epsilon nudge keeps midpoints like 1.005 rounding up despite
// their inexact binary representation.
func Round2(n float64) float64 {
	return math.Round((n+epsilon)*100) / 100
}

const epsilon = 2.220446049250313e-16

// Clamp limits v to [min, max].
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
