package pipeline

import (
	"strings"

	"empaque/internal"
	"empaque/internal/grid"
	"empaque/internal/util"
)

// DefaultScanRows bounds the forward header scan. Observed packing lists put
// the header anywhere from row 0 to the mid-teens; 30 leaves slack without
// letting a footer block qualify.
const DefaultScanRows = 30

// Keyword families for the three semantic roles. All matching happens on
// util.Normalize output, so diacritics and periods are already gone.
var (
	groupKeywords  = []string{"CAJA", "PALLET", "TARIMA", "BULTO"}
	itemKeywords   = []string{"PARTE", "ARTICULO", "CODIGO", "ITEM"}
	packedKeywords = []string{"EMPAC"}
	qtyKeywords    = []string{"CANTIDAD", "CANT", "QTY"}
)

// FindHeader scans rows 0..maxRows-1 for the header block. A row qualifies on
// its own when it carries keyword evidence for two roles at once (grouping and
// item, or quantity and packed-quantity). When neither the row nor its
// successor qualifies alone, the pair fused is tested against a stricter bar
// (all three role families present), which covers headers split across two
// merged rows. A successor that qualifies alone suppresses the fused test, so
// a title line directly above the header is never absorbed into it. First
// match wins.
func FindHeader(g grid.Grid, maxRows int) (internal.HeaderLocation, error) {
	if maxRows <= 0 {
		maxRows = DefaultScanRows
	}
	limit := maxRows
	if len(g) < limit {
		limit = len(g)
	}

	for i := 0; i < limit; i++ {
		rowText := rowSearchText(g.Row(i))
		if isSingleRowHeader(rowText) {
			return internal.HeaderLocation{StartRow: i, RowSpan: 1}, nil
		}
		if i+1 < len(g) {
			nextText := rowSearchText(g.Row(i + 1))
			if !isSingleRowHeader(nextText) && isFusedHeader(rowText+" "+nextText) {
				return internal.HeaderLocation{StartRow: i, RowSpan: 2}, nil
			}
		}
	}
	return internal.HeaderLocation{}, internal.ErrHeaderNotFound
}

func rowSearchText(cells []string) string {
	parts := make([]string, 0, len(cells))
	for _, c := range cells {
		if v := util.Normalize(c); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " ")
}

func isSingleRowHeader(text string) bool {
	if util.ContainsAny(text, groupKeywords) && util.ContainsAny(text, itemKeywords) {
		return true
	}
	return util.ContainsAny(text, qtyKeywords) && util.ContainsAny(text, packedKeywords)
}

func isFusedHeader(text string) bool {
	return util.ContainsAny(text, groupKeywords) &&
		util.ContainsAny(text, itemKeywords) &&
		(util.ContainsAny(text, packedKeywords) || util.ContainsAny(text, qtyKeywords))
}
