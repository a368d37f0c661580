package extract

import "regexp"

var (
	reAnyBand   = regexp.MustCompile(`(?i)\bF[123]\b`)
	reAnyKWh    = regexp.MustCompile(`(?i)\bk\s*wh\b`)
	reAnyNumber = regexp.MustCompile(`\b\d{1,3}(\.\d{3})*(,\d+)?\b|\b\d+,\d+\b`)
)

// naive heuristic confidence based on decoded text characteristics
func Confidence(txt string, bands Bands, monthOK bool) float32 {
	// boost for common bill artifacts (band labels, unit mentions,
	// Italian-formatted numbers). Each adds a fixed share.
	score := float32(0.2) // base
	if bands.OK {
		score += 0.25
	} else if reAnyBand.MatchString(txt) {
		score += 0.1
	}
	if monthOK {
		score += 0.2
	}
	if reAnyKWh.MatchString(txt) {
		score += 0.1
	}
	if reAnyNumber.MatchString(txt) {
		score += 0.05
	}
	if len(txt) > 120 {
		score += 0.1
	} // enough content
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// ConfidenceLabel buckets a score for review tables.
func ConfidenceLabel(score float32) string {
	switch {
	case score >= 0.7:
		return "high"
	case score >= 0.4:
		return "medium"
	default:
		return "low"
	}
}
