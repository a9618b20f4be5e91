// Package grid loads source documents into raw rectangular cell grids.
// Everything downstream operates on uniform string data; no type inference
// happens here.
package grid

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/xuri/excelize/v2"
)

// Grid is a row-major array of textual cell values, no assumed header.
type Grid [][]string

// Cell returns the value at (row, col), or "" when the position falls outside
// the ragged row data.
func (g Grid) Cell(row, col int) string {
	if row < 0 || row >= len(g) {
		return ""
	}
	r := g[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return r[col]
}

// Row returns the raw cells of one row, nil past the end.
func (g Grid) Row(i int) []string {
	if i < 0 || i >= len(g) {
		return nil
	}
	return g[i]
}

var reHTMLMarker = regexp.MustCompile(`(?i)<\s*(html|table|!doctype)`)

// Load reads a document into a Grid, dispatching on its extension. Some ERP
// systems export ".xls" files that are really HTML tables; those are sniffed
// and routed to the HTML reader.
func Load(path string) (Grid, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".htm", ".html":
		return FromHTML(bytes.NewReader(blob))
	case ".xls":
		if reHTMLMarker.Match(blob) {
			return FromHTML(bytes.NewReader(blob))
		}
		return FromXLSX(bytes.NewReader(blob))
	default:
		return FromXLSX(bytes.NewReader(blob))
	}
}

// FromXLSX reads the first sheet of a workbook as text cells.
func FromXLSX(r io.Reader) (Grid, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	return Grid(rows), nil
}

// FromHTML reads the first <table> element as a grid.
func FromHTML(r io.Reader) (Grid, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}
	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("document has no table element")
	}

	out := Grid{}
	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := []string{}
		row.Find("th,td").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, strings.TrimSpace(cell.Text()))
		})
		out = append(out, cells)
	})
	if len(out) == 0 {
		return nil, fmt.Errorf("table has no rows")
	}
	return out, nil
}
