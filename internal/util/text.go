package util

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	reSpaces = regexp.MustCompile(`\s+`)

	// NFD decomposition followed by removal of combining marks turns
	// "Número" into "Numero" without touching the base letters.
	stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Normalize canonicalizes a free-text cell value for comparison: surrounding
// whitespace trimmed, diacritics stripped, upper-cased, internal whitespace
// collapsed, bare periods removed ("COD." and "COD" compare equal).
// Total and idempotent.
func Normalize(input string) string {
	s := strings.TrimSpace(input)
	if s == "" {
		return ""
	}
	if stripped, _, err := transform.String(stripMarks, s); err == nil {
		s = stripped
	}
	s = strings.ToUpper(s)
	s = strings.ReplaceAll(s, ".", "")
	s = reSpaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// IsBlank reports whether a cell holds no usable value.
func IsBlank(input string) bool {
	return strings.TrimSpace(input) == ""
}

// ContainsAny reports whether the (already normalized) text contains one of
// the keywords.
func ContainsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
