package pipeline

import (
	"strings"

	"empaque/internal"
	"empaque/internal/grid"
	"empaque/internal/util"
)

// HeaderCells projects the header block into one normalized value per column.
// For a two-row header each column fuses the corresponding cell of both rows,
// so "CANTIDAD" over "EMPACADA" classifies the same as "CANTIDAD EMPACADA".
func HeaderCells(g grid.Grid, loc internal.HeaderLocation) []string {
	width := 0
	for r := loc.StartRow; r < loc.StartRow+loc.RowSpan; r++ {
		if n := len(g.Row(r)); n > width {
			width = n
		}
	}

	out := make([]string, width)
	for c := 0; c < width; c++ {
		parts := make([]string, 0, loc.RowSpan)
		for r := loc.StartRow; r < loc.StartRow+loc.RowSpan; r++ {
			if v := util.Normalize(g.Cell(r, c)); v != "" {
				parts = append(parts, v)
			}
		}
		out[c] = strings.Join(parts, " ")
	}
	return out
}

// ClassifyColumns binds each role to the first column whose header text
// contains one of its keywords. A column never carries two roles: once bound
// it is skipped for the remaining families. The packed-quantity wording is
// preferred for the quantity role so an ordered-quantity column sitting left
// of "CANTIDAD EMPACADA" does not capture it.
func ClassifyColumns(headerCells []string) (internal.RoleMap, error) {
	roles := internal.RoleMap{GroupKey: -1, ItemCode: -1, Quantity: -1}
	bound := make(map[int]bool, 3)

	bind := func(keywords []string) int {
		for i, cell := range headerCells {
			if bound[i] || cell == "" {
				continue
			}
			if util.ContainsAny(cell, keywords) {
				bound[i] = true
				return i
			}
		}
		return -1
	}

	roles.GroupKey = bind(groupKeywords)
	roles.ItemCode = bind(itemKeywords)
	roles.Quantity = bind(packedKeywords)
	if roles.Quantity < 0 {
		roles.Quantity = bind(qtyKeywords)
	}

	if roles.GroupKey < 0 || roles.ItemCode < 0 || roles.Quantity < 0 {
		return internal.RoleMap{}, internal.ErrColumnsIncomplete
	}
	return roles, nil
}
