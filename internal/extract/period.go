package extract

import (
	"fmt"
	"regexp"
	"strconv"
)

var (
	reFullDate  = regexp.MustCompile(`(\d{1,2})/(\d{1,2})/(\d{4})`)
	reMonthYear = regexp.MustCompile(`\b(0?[1-9]|1[0-2])[-/](\d{4})\b`)
	reLoneMonth = regexp.MustCompile(`\b(0?[1-9]|1[0-2])\b`)
)

// Italian month names, checked in calendar order. Order matters only for
// determinism when a document mentions several months.
var monthNames = []struct {
	name string
	num  string
}{
	{"gennaio", "01"}, {"febbraio", "02"}, {"marzo", "03"}, {"aprile", "04"},
	{"maggio", "05"}, {"giugno", "06"}, {"luglio", "07"}, {"agosto", "08"},
	{"settembre", "09"}, {"ottobre", "10"}, {"novembre", "11"}, {"dicembre", "12"},
}

var monthNameRules = buildMonthNameRules()

func buildMonthNameRules() []struct {
	rx  *regexp.Regexp
	num string
} {
	rules := make([]struct {
		rx  *regexp.Regexp
		num string
	}, 0, len(monthNames))
	for _, m := range monthNames {
		rules = append(rules, struct {
			rx  *regexp.Regexp
			num string
		}{regexp.MustCompile(`(?i)\b` + m.name + `\b\s*(\d{4})`), m.num})
	}
	return rules
}

// Period derives the billing month from bill text. Rules are tried in
// order; the first hit wins:
//
//  1. the first dd/mm/yyyy date (bills open with the period start)
//  2. an Italian month name followed by a year
//  3. a bare mm-yyyy or mm/yyyy token
//  4. a lone month number paired with the fallback year
//
// Returns the canonical YYYY-MM key, or false when nothing matched.
func Period(text string, fallbackYear int) (string, bool) {
	if m := reFullDate.FindStringSubmatch(text); m != nil {
		month, _ := strconv.Atoi(m[2])
		if month >= 1 && month <= 12 {
			return fmt.Sprintf("%s-%02d", m[3], month), true
		}
	}

	for _, rule := range monthNameRules {
		if m := rule.rx.FindStringSubmatch(text); m != nil {
			return m[1] + "-" + rule.num, true
		}
	}

	if m := reMonthYear.FindStringSubmatch(text); m != nil {
		month, _ := strconv.Atoi(m[1])
		return fmt.Sprintf("%s-%02d", m[2], month), true
	}

	if fallbackYear > 0 {
		if m := reLoneMonth.FindStringSubmatch(text); m != nil {
			month, _ := strconv.Atoi(m[1])
			return fmt.Sprintf("%d-%02d", fallbackYear, month), true
		}
	}

	return "", false
}
