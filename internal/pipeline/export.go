package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"

	"empaque/internal"
)

// AggregateSheetName is reserved for the grand-union sheet; per-document
// names never take it.
const AggregateSheetName = "CONSOLIDADO"

const maxSheetNameLen = 31

var (
	reIllegalSheetChars = regexp.MustCompile(`[\\/*?:\[\]]`)
	reDispatchCode      = regexp.MustCompile(`(?i)\bDC[\s-]*\d+\b`)
	reNameDelims        = regexp.MustCompile(`[\s_]+`)
)

// Output column order matches the operators' consolidation workbook. The
// columns after DESCRIPCION stay blank for manual entry.
var bundleHeaders = []string{
	"No. de Caja",
	"Número de Parte",
	"DESCRIPCION",
	"Cantidad Empacada",
	"CANTIDAD FISICA",
	"U/M",
	"U/M POR CADA",
	"ORDEN DE PRODUCCION",
	"LOTE",
	"OBSERVACION",
}

// SanitizeSheetName derives a sheet identifier from a document name: the
// embedded dispatch code when one is present ("Lista DC 01 rev2" -> "DC 01"),
// otherwise the last two name tokens, otherwise the name itself, always
// stripped of illegal sheet characters and capped at 31 runes. Collisions are
// not resolved here; the aggregator disambiguates on insert.
func SanitizeSheetName(documentName string) string {
	name := filepath.Base(documentName)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = reIllegalSheetChars.ReplaceAllString(name, " ")
	name = strings.TrimSpace(reNameDelims.ReplaceAllString(name, " "))

	if code := reDispatchCode.FindString(name); code != "" {
		code = strings.ReplaceAll(code, "-", " ")
		name = strings.ToUpper(strings.Join(strings.Fields(code), " "))
	} else if tokens := strings.Fields(name); len(tokens) > 2 {
		name = strings.Join(tokens[len(tokens)-2:], " ")
	}

	if name == "" {
		name = "LISTA"
	}
	return truncateRunes(name, maxSheetNameLen)
}

func truncateRunes(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return strings.TrimSpace(string(r[:max]))
}

// Aggregator accumulates one DocumentResult per processed document and owns
// the final bundle. Sheet names are reserved on insert: the aggregate name up
// front, then each sanitized name, with " (2)"-style suffixes when two
// documents sanitize to the same identifier. Inserts are serialized so the
// batch driver may run documents concurrently.
type Aggregator struct {
	mu      sync.Mutex
	used    map[string]struct{}
	results []internal.DocumentResult
}

func NewAggregator() *Aggregator {
	return &Aggregator{
		used: map[string]struct{}{strings.ToUpper(AggregateSheetName): {}},
	}
}

// Add sanitizes the result's document name, reserves a unique sheet name for
// it and appends it. Call order defines both sheet order and the aggregate
// sheet's row order.
func (a *Aggregator) Add(result internal.DocumentResult) {
	a.mu.Lock()
	defer a.mu.Unlock()
	result.SheetName = a.reserve(SanitizeSheetName(result.DocumentName))
	a.results = append(a.results, result)
}

func (a *Aggregator) reserve(name string) string {
	if a.claim(name) {
		return name
	}
	for n := 2; ; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		candidate := truncateRunes(name, maxSheetNameLen-len(suffix)) + suffix
		if a.claim(candidate) {
			return candidate
		}
	}
}

// claim marks a name as taken. Sheet names are case-insensitive in a
// workbook, so the reservation key is upper-cased.
func (a *Aggregator) claim(name string) bool {
	key := strings.ToUpper(name)
	if _, taken := a.used[key]; taken {
		return false
	}
	a.used[key] = struct{}{}
	return true
}

// Results returns the accumulated document results in insertion order.
func (a *Aggregator) Results() []internal.DocumentResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]internal.DocumentResult, len(a.results))
	copy(out, a.results)
	return out
}

// WriteBundle emits the final workbook: one sheet per document plus the
// CONSOLIDADO sheet holding every record in document order.
func (a *Aggregator) WriteBundle(outputPath string) error {
	results := a.Results()

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName(f.GetSheetName(0), AggregateSheetName); err != nil {
		return err
	}

	all := []internal.ReconciledRecord{}
	for _, res := range results {
		if _, err := f.NewSheet(res.SheetName); err != nil {
			return err
		}
		writeSheet(f, res.SheetName, res.Records)
		all = append(all, res.Records...)
	}
	writeSheet(f, AggregateSheetName, all)

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return f.SaveAs(outputPath)
}

func writeSheet(f *excelize.File, sheet string, records []internal.ReconciledRecord) {
	for i, h := range bundleHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, rec := range records {
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(sheet, cell, value)
		}

		set(1, rec.GroupKey)
		set(2, rec.ItemCode)
		set(3, rec.Description)
		set(4, rec.Quantity)
		set(5, rec.PhysicalQuantity)
		set(6, rec.UnitOfMeasure)
		set(7, rec.UnitsPerPack)
		set(8, rec.ProductionOrder)
		set(9, rec.Lot)
		set(10, rec.Remark)
	}
}
