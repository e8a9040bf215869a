package storage

import (
	"database/sql"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"scoresheet/internal"
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
  trace_id TEXT NOT NULL,
  source TEXT NOT NULL,
  formats TEXT NOT NULL,
  groups INTEGER NOT NULL,
  songs INTEGER NOT NULL,
  diagnostics INTEGER NOT NULL,
  duration_ms REAL NOT NULL,
  created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS run_diagnostics (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  run_id INTEGER NOT NULL,
  row_idx INTEGER NOT NULL,
  category TEXT,
  field TEXT,
  message TEXT NOT NULL,
  FOREIGN KEY (run_id) REFERENCES runs(id)
);
CREATE INDEX IF NOT EXISTS idx_run_diagnostics_run ON run_diagnostics(run_id);
`
	_, err := d.conn.Exec(schema)
	return err
}

type RunRow struct {
	ID          int
	TraceID     string
	Source      string
	Formats     string
	Groups      int
	Songs       int
	Diagnostics int
	DurationMs  float64
	CreatedAt   string
}

func (d *DB) InsertRun(traceID, source, formats string, groups, songs int, durationMs float64, diags []internal.Diagnostic) (int64, error) {
	res, err := d.conn.Exec(
		`INSERT INTO runs (trace_id, source, formats, groups, songs, diagnostics, duration_ms) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		traceID, source, formats, groups, songs, len(diags), durationMs,
	)
	if err != nil {
		return 0, err
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, diag := range diags {
		_, err := d.conn.Exec(
			`INSERT INTO run_diagnostics (run_id, row_idx, category, field, message) VALUES (?, ?, ?, ?, ?)`,
			runID, diag.RowIndex, diag.Category, diag.Field, diag.Message,
		)
		if err != nil {
			return runID, err
		}
	}

	return runID, nil
}

func (d *DB) ListRuns(limit int) ([]RunRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := d.conn.Query(
		`SELECT id, trace_id, source, formats, groups, songs, diagnostics, duration_ms, created_at
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRow
	for rows.Next() {
		var r RunRow
		if err := rows.Scan(&r.ID, &r.TraceID, &r.Source, &r.Formats, &r.Groups, &r.Songs, &r.Diagnostics, &r.DurationMs, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (d *DB) ListRunDiagnostics(runID int64) ([]internal.Diagnostic, error) {
	rows, err := d.conn.Query(
		`SELECT row_idx, category, field, message FROM run_diagnostics WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.Diagnostic
	for rows.Next() {
		var diag internal.Diagnostic
		if err := rows.Scan(&diag.RowIndex, &diag.Category, &diag.Field, &diag.Message); err != nil {
			return nil, err
		}
		out = append(out, diag)
	}
	return out, rows.Err()
}
