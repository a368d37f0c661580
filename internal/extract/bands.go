// Package extract pulls tariff-band readings and billing periods out of
// free-form bill text. Inputs are noisy (OCR output, concatenated page
// text), so every matcher is best-effort and the caller decides what to
// do with partial results.
package extract

import (
	"regexp"

	"github.com/joseph-ayodele/energy-tracker/internal/normalize"
)

// Bands holds the three tariff-band readings found in a document.
// A nil field means the band was not found; OK is true only when all
// three parsed to finite numbers.
type Bands struct {
	F1 *float64
	F2 *float64
	F3 *float64
	OK bool
}

// Band labels appear either before the number ("F1: 1.234 kWh") or after
// it ("1.234 kWh F1"). The label-first form is tried first for each band;
// the unit suffix is optional there but required in the reversed form to
// avoid grabbing arbitrary numbers.
type bandRule struct {
	label    *regexp.Regexp
	reversed *regexp.Regexp
}

var bandRules = [3]bandRule{
	{
		label:    regexp.MustCompile(`(?i)\bF1\b[\s:=-]*([\d.,]+)\s*(?:kwh|k\s*wh)?`),
		reversed: regexp.MustCompile(`(?i)([\d.,]+)\s*(?:kwh|k\s*wh)\s*\bF1\b`),
	},
	{
		label:    regexp.MustCompile(`(?i)\bF2\b[\s:=-]*([\d.,]+)\s*(?:kwh|k\s*wh)?`),
		reversed: regexp.MustCompile(`(?i)([\d.,]+)\s*(?:kwh|k\s*wh)\s*\bF2\b`),
	},
	{
		label:    regexp.MustCompile(`(?i)\bF3\b[\s:=-]*([\d.,]+)\s*(?:kwh|k\s*wh)?`),
		reversed: regexp.MustCompile(`(?i)([\d.,]+)\s*(?:kwh|k\s*wh)\s*\bF3\b`),
	},
}

// TariffBands scans bill text for F1/F2/F3 readings. The raw text is
// normalized first so line breaks and OCR artifacts do not split a
// label from its number.
func TariffBands(rawText string) Bands {
	text := normalize.Text(rawText)

	find := func(rule bandRule) *float64 {
		if m := rule.label.FindStringSubmatch(text); m != nil {
			if v, ok := normalize.Italian.Parse(m[1]); ok {
				return &v
			}
		}
		if m := rule.reversed.FindStringSubmatch(text); m != nil {
			if v, ok := normalize.Italian.Parse(m[1]); ok {
				return &v
			}
		}
		return nil
	}

	b := Bands{
		F1: find(bandRules[0]),
		F2: find(bandRules[1]),
		F3: find(bandRules[2]),
	}
	b.OK = b.F1 != nil && b.F2 != nil && b.F3 != nil
	return b
}
