package normalize

import (
	"regexp"
	"strings"
)

var (
	reNBSP  = regexp.MustCompile(" ")
	reQuote = regexp.MustCompile("[‘’']")
	reSpace = regexp.MustCompile(`\s+`)
)

// Text flattens raw document or OCR text for pattern matching: NBSP to
// space, curly quotes folded to straight quotes, whitespace collapsed.
func Text(s string) string {
	s = reNBSP.ReplaceAllString(s, " ")
	s = reQuote.ReplaceAllString(s, "'")
	s = reSpace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
