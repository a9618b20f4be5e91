package pipeline

import (
	"strings"

	"empaque/internal"
	"empaque/internal/grid"
	"empaque/internal/util"
)

// ExtractRecords reads every row from dataStart to the end of the grid,
// projects the three role-bound columns and cleans them: fully blank rows are
// dropped, the grouping key is forward-filled across blank cells, the item
// code is normalized, and the quantity is coerced to a number. Rows whose
// quantity will not parse or whose code normalizes to blank are dropped
// silently; they still seed the forward fill first, so a box number on a
// subtotal line carries into the rows beneath it. Surviving rows keep
// document order.
func ExtractRecords(g grid.Grid, dataStart int, roles internal.RoleMap) []internal.ExtractedRecord {
	out := []internal.ExtractedRecord{}
	lastGroup := ""

	for r := dataStart; r < len(g); r++ {
		group := strings.TrimSpace(g.Cell(r, roles.GroupKey))
		codeCell := g.Cell(r, roles.ItemCode)
		qtyCell := g.Cell(r, roles.Quantity)

		if group == "" && util.IsBlank(codeCell) && util.IsBlank(qtyCell) {
			continue
		}

		if group == "" {
			group = lastGroup
		} else {
			lastGroup = group
		}

		qty, ok := util.ParseQuantity(qtyCell)
		if !ok {
			continue
		}
		code := util.Normalize(codeCell)
		if code == "" {
			continue
		}

		out = append(out, internal.ExtractedRecord{
			GroupKey: group,
			ItemCode: code,
			Quantity: qty,
		})
	}
	return out
}
