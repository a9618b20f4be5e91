// Package catalog holds the reference lookup built from the CONSOLIDADO
// workbook: one descriptive text per normalized item code.
package catalog

import (
	"empaque/internal"
	"empaque/internal/grid"
	"empaque/internal/util"
)

var (
	dispatchKeywords    = []string{"DESPACHO"}
	codeKeywords        = []string{"COD"}
	descriptionKeywords = []string{"DESCRIPCION", "DESCR"}
)

// Catalog maps normalized item codes to their catalog description. Built once
// per run, read-only afterwards, safe for concurrent lookups.
type Catalog struct {
	byCode map[string]string
}

// Build constructs the catalog from the reference workbook's grid. The
// reference document is trusted to carry its header on the first row; no
// locating heuristic applies. Columns are found by fuzzy containment, with
// the code family excluding cells that also read as descriptions ("CODIGO
// DESCRIPCION" style fused headers must not steal the code role). Duplicate
// codes overwrite in document order, last wins.
func Build(g grid.Grid) (*Catalog, error) {
	if len(g) == 0 {
		return nil, internal.ErrReferenceColumns
	}

	header := g.Row(0)
	dispatchIdx, codeIdx, descIdx := -1, -1, -1
	for i, cell := range header {
		norm := util.Normalize(cell)
		if norm == "" {
			continue
		}
		isDesc := util.ContainsAny(norm, descriptionKeywords)
		switch {
		case dispatchIdx < 0 && util.ContainsAny(norm, dispatchKeywords):
			dispatchIdx = i
		case descIdx < 0 && isDesc:
			descIdx = i
		case codeIdx < 0 && util.ContainsAny(norm, codeKeywords) && !isDesc:
			codeIdx = i
		}
	}
	if dispatchIdx < 0 || codeIdx < 0 || descIdx < 0 {
		return nil, internal.ErrReferenceColumns
	}

	c := &Catalog{byCode: make(map[string]string, len(g))}
	for r := 1; r < len(g); r++ {
		code := util.Normalize(g.Cell(r, codeIdx))
		if code == "" {
			continue
		}
		c.byCode[code] = g.Cell(r, descIdx)
	}
	return c, nil
}

// Lookup returns the description for a normalized item code.
func (c *Catalog) Lookup(code string) (string, bool) {
	desc, ok := c.byCode[code]
	return desc, ok
}

// Len reports how many distinct codes the catalog holds.
func (c *Catalog) Len() int {
	return len(c.byCode)
}
