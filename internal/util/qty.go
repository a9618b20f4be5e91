package util

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reDotThousands   = regexp.MustCompile(`^\d{1,3}(?:\.\d{3})+$`)
	reCommaThousands = regexp.MustCompile(`^\d{1,3}(?:,\d{3})+$`)
)

// ParseQuantity coerces a quantity cell to a number. Packing lists arrive
// with mixed locale formatting: "1,5", "1.000" and "1 000" all occur.
// Returns false when the cell is blank or not numeric.
func ParseQuantity(input string) (float64, bool) {
	s := strings.ReplaceAll(input, "\u00A0", " ")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	parsed, err := strconv.ParseFloat(normalizeNumericToken(s), 64)
	if err != nil {
		return 0, false
	}
	return parsed, true
}

func normalizeNumericToken(token string) string {
	compact := strings.ReplaceAll(token, " ", "")
	if reDotThousands.MatchString(compact) {
		return strings.ReplaceAll(compact, ".", "")
	}
	if reCommaThousands.MatchString(compact) {
		return strings.ReplaceAll(compact, ",", "")
	}
	if strings.Contains(compact, ",") && !strings.Contains(compact, ".") {
		return strings.ReplaceAll(compact, ",", ".")
	}
	return compact
}
