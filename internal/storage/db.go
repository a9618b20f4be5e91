package storage

import (
	"database/sql"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"empaque/internal"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  startedAt TEXT NOT NULL,
  docsTotal INTEGER NOT NULL,
  docsOk INTEGER NOT NULL,
  docsFailed INTEGER NOT NULL,
  records INTEGER NOT NULL,
  unmatched INTEGER NOT NULL,
  outputPath TEXT,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS run_documents (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  runId INTEGER NOT NULL,
  documentName TEXT NOT NULL,
  sheetName TEXT,
  status TEXT NOT NULL,
  errorKind TEXT,
  recordCount INTEGER NOT NULL DEFAULT 0,
  unmatchedCount INTEGER NOT NULL DEFAULT 0,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  FOREIGN KEY(runId) REFERENCES runs(id)
);
CREATE INDEX IF NOT EXISTS idx_run_documents_runId ON run_documents(runId);
`
	_, err := d.conn.Exec(schema)
	return err
}

// InsertRun records one batch run plus its per-document outcomes in a single
// transaction.
func (d *DB) InsertRun(traceID, startedAt, outputPath string, report internal.ProcessingReport) error {
	records, unmatched := 0, 0
	for _, res := range report.Succeeded {
		records += len(res.Records)
		unmatched += len(res.Unmatched)
	}

	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.Exec(
		`INSERT INTO runs (traceId, startedAt, docsTotal, docsOk, docsFailed, records, unmatched, outputPath)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		traceID, startedAt,
		len(report.Succeeded)+len(report.Failed), len(report.Succeeded), len(report.Failed),
		records, unmatched, outputPath,
	)
	if err != nil {
		return err
	}
	runID, err := result.LastInsertId()
	if err != nil {
		return err
	}

	for _, res := range report.Succeeded {
		if _, err := tx.Exec(
			`INSERT INTO run_documents (runId, documentName, sheetName, status, recordCount, unmatchedCount)
			 VALUES (?, ?, ?, 'ok', ?, ?)`,
			runID, res.DocumentName, res.SheetName, len(res.Records), len(res.Unmatched),
		); err != nil {
			return err
		}
	}
	for _, fail := range report.Failed {
		if _, err := tx.Exec(
			`INSERT INTO run_documents (runId, documentName, status, errorKind)
			 VALUES (?, ?, 'failed', ?)`,
			runID, fail.DocumentName, string(fail.Kind),
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ListRuns returns the most recent batch runs, newest first.
func (d *DB) ListRuns(limit int) ([]internal.RunRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := d.conn.Query(
		`SELECT id, traceId, startedAt, docsTotal, docsOk, docsFailed, records, unmatched, COALESCE(outputPath, '')
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []internal.RunRow{}
	for rows.Next() {
		var r internal.RunRow
		if err := rows.Scan(&r.ID, &r.TraceID, &r.StartedAt, &r.DocsTotal, &r.DocsOK, &r.DocsFailed, &r.Records, &r.Unmatched, &r.OutputPath); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
