package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"empaque/internal"
)

func TestInsertAndListRuns(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	defer db.Close()

	report := internal.ProcessingReport{
		Succeeded: []internal.DocumentResult{
			{
				DocumentName: "lista DC 01.xlsx",
				SheetName:    "DC 01",
				Records:      make([]internal.ReconciledRecord, 3),
				Unmatched:    []string{"P999"},
			},
		},
		Failed: []internal.DocumentFailure{
			{DocumentName: "rota.xlsx", Kind: internal.ErrHeaderNotFound},
		},
	}

	require.NoError(t, db.InsertRun("trace-1", "2026-08-31T00:00:00Z", "/tmp/out.xlsx", report))

	runs, err := db.ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	run := runs[0]
	assert.Equal(t, "trace-1", run.TraceID)
	assert.Equal(t, 2, run.DocsTotal)
	assert.Equal(t, 1, run.DocsOK)
	assert.Equal(t, 1, run.DocsFailed)
	assert.Equal(t, 3, run.Records)
	assert.Equal(t, 1, run.Unmatched)
	assert.Equal(t, "/tmp/out.xlsx", run.OutputPath)
}

func TestListRunsNewestFirst(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.InsertRun("trace-1", "2026-08-30T00:00:00Z", "", internal.ProcessingReport{}))
	require.NoError(t, db.InsertRun("trace-2", "2026-08-31T00:00:00Z", "", internal.ProcessingReport{}))

	runs, err := db.ListRuns(1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "trace-2", runs[0].TraceID)
}
