package pipeline

import (
	"testing"

	"empaque/internal"
	"empaque/internal/catalog"
	"empaque/internal/grid"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Build(grid.Grid{
		{"DESPACHO", "COD.", "DESCRIPCION"},
		{"DC 01", "P001", "WIDGET"},
		{"DC 01", "P002", "GADGET"},
	})
	if err != nil {
		t.Fatal(err)
	}
	return cat
}

func TestReconcile(t *testing.T) {
	records := []internal.ExtractedRecord{
		{GroupKey: "1", ItemCode: "P001", Quantity: 10},
		{GroupKey: "1", ItemCode: "P002", Quantity: 5},
	}
	out, unmatched := Reconcile(records, testCatalog(t))
	if len(out) != 2 || len(unmatched) != 0 {
		t.Fatalf("out=%d unmatched=%v", len(out), unmatched)
	}
	if out[0].Description != "WIDGET" || out[1].Description != "GADGET" {
		t.Fatalf("descriptions=%q %q", out[0].Description, out[1].Description)
	}
}

func TestReconcileUnmatchedSentinel(t *testing.T) {
	records := []internal.ExtractedRecord{
		{GroupKey: "1", ItemCode: "P999", Quantity: 1},
		{GroupKey: "2", ItemCode: "P999", Quantity: 2},
		{GroupKey: "2", ItemCode: "P001", Quantity: 3},
	}
	out, unmatched := Reconcile(records, testCatalog(t))

	// Total join: same length, never blank, never dropped.
	if len(out) != len(records) {
		t.Fatalf("len=%d want %d", len(out), len(records))
	}
	for _, rec := range out {
		if rec.Description == "" {
			t.Fatalf("blank description for %s", rec.ItemCode)
		}
	}
	if out[0].Description != internal.DescriptionNotFound || out[1].Description != internal.DescriptionNotFound {
		t.Fatalf("sentinel missing: %+v", out)
	}
	if len(unmatched) != 1 || unmatched[0] != "P999" {
		t.Fatalf("unmatched=%v", unmatched)
	}
}

func TestReconcileEmpty(t *testing.T) {
	out, unmatched := Reconcile(nil, testCatalog(t))
	if len(out) != 0 || len(unmatched) != 0 {
		t.Fatalf("out=%v unmatched=%v", out, unmatched)
	}
}
