package pipeline

import (
	"testing"

	"empaque/internal"
	"empaque/internal/grid"
)

var testRoles = internal.RoleMap{GroupKey: 0, ItemCode: 1, Quantity: 2}

func TestExtractRecordsForwardFill(t *testing.T) {
	g := grid.Grid{
		{"A", "P001", "1"},
		{"", "P002", "2"},
		{"", "P003", "3"},
		{"B", "P004", "4"},
		{"", "P005", "5"},
	}
	records := ExtractRecords(g, 0, testRoles)
	if len(records) != 5 {
		t.Fatalf("len=%d", len(records))
	}
	want := []string{"A", "A", "A", "B", "B"}
	for i, rec := range records {
		if rec.GroupKey != want[i] {
			t.Fatalf("row %d group=%q want %q", i, rec.GroupKey, want[i])
		}
	}
}

func TestExtractRecordsDropsAndCleans(t *testing.T) {
	g := grid.Grid{
		{"1", "p001", "10"},
		{"", "", ""},
		{"", "P002", "n/a"},
		{"", "", "5"},
		{"2", "Número-X", "3"},
	}
	records := ExtractRecords(g, 0, testRoles)
	if len(records) != 2 {
		t.Fatalf("len=%d records=%+v", len(records), records)
	}
	if records[0].ItemCode != "P001" || records[0].Quantity != 10 {
		t.Fatalf("first=%+v", records[0])
	}
	if records[1].GroupKey != "2" || records[1].ItemCode != "NUMERO-X" {
		t.Fatalf("second=%+v", records[1])
	}
}

func TestExtractRecordsUnseededFill(t *testing.T) {
	// No value above the first rows: the grouping key stays blank until the
	// first non-blank appears.
	g := grid.Grid{
		{"", "P001", "1"},
		{"A", "P002", "2"},
		{"", "P003", "3"},
	}
	records := ExtractRecords(g, 0, testRoles)
	if len(records) != 3 {
		t.Fatalf("len=%d", len(records))
	}
	if records[0].GroupKey != "" || records[1].GroupKey != "A" || records[2].GroupKey != "A" {
		t.Fatalf("records=%+v", records)
	}
}

func TestExtractRecordsDroppedRowStillSeedsFill(t *testing.T) {
	// A subtotal line with a box number but no quantity is dropped, yet its
	// box number carries into the rows beneath it.
	g := grid.Grid{
		{"3", "", "subtotal"},
		{"", "P009", "4"},
	}
	records := ExtractRecords(g, 0, testRoles)
	if len(records) != 1 {
		t.Fatalf("len=%d", len(records))
	}
	if records[0].GroupKey != "3" {
		t.Fatalf("group=%q", records[0].GroupKey)
	}
}

func TestExtractRecordsOrderPreserved(t *testing.T) {
	g := grid.Grid{
		{"1", "B", "1"},
		{"1", "A", "1"},
		{"1", "C", "1"},
	}
	records := ExtractRecords(g, 0, testRoles)
	if records[0].ItemCode != "B" || records[1].ItemCode != "A" || records[2].ItemCode != "C" {
		t.Fatalf("records=%+v", records)
	}
}
