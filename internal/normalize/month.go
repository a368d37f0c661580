package normalize

import (
	"fmt"
	"regexp"
	"strings"
)

// Strictness controls month validation. Lenient checks digit shape only,
// so "2024-13" passes; Strict additionally requires the month to be 01-12.
type Strictness int

const (
	Lenient Strictness = iota
	Strict
)

var (
	reYearMonth  = regexp.MustCompile(`^(\d{4})[-/](\d{2})$`)
	reCompact    = regexp.MustCompile(`^(\d{4})(\d{2})$`)
	reMonthFirst = regexp.MustCompile(`^(\d{2})/(\d{4})$`)
)

// Month converts a period representation into the canonical YYYY-MM key
// with the default lenient validation.
func Month(v any) (string, bool) {
	return MonthLevel(v, Lenient)
}

// MonthLevel is Month with an explicit strictness level. Accepted shapes,
// first match wins: YYYY-MM or YYYY/MM, YYYYMM, MM/YYYY.
func MonthLevel(v any, level Strictness) (string, bool) {
	if v == nil {
		return "", false
	}
	s := strings.TrimSpace(fmt.Sprint(v))
	if s == "" {
		return "", false
	}

	var key string
	switch {
	case reYearMonth.MatchString(s):
		m := reYearMonth.FindStringSubmatch(s)
		key = m[1] + "-" + m[2]
	case reCompact.MatchString(s):
		m := reCompact.FindStringSubmatch(s)
		key = m[1] + "-" + m[2]
	case reMonthFirst.MatchString(s):
		m := reMonthFirst.FindStringSubmatch(s)
		key = m[2] + "-" + m[1]
	default:
		return "", false
	}

	if level == Strict {
		mm := key[5:]
		if mm < "01" || mm > "12" {
			return "", false
		}
	}
	return key, true
}

// MonthKey formats a (year, month) pair as the canonical key.
func MonthKey(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}
