package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// History records every build run to a SQLite database.
type History struct {
	db *sql.DB
}

// Run is one recorded build.
type Run struct {
	Timestamp      time.Time
	OutFile        string
	Cap            int
	Workers        int
	Solutions      uint64
	UniqueLayouts  int
	Nodes          uint64
	ElapsedSeconds float64
}

// New opens (or creates) the SQLite database at dbPath and ensures the
// build_runs table exists.
func New(dbPath string) (*History, error) {
	dsn := "file:" + dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("history: open db: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS build_runs (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		ts              TEXT    NOT NULL,
		out_file        TEXT    NOT NULL,
		cap             INTEGER NOT NULL,
		workers         INTEGER NOT NULL,
		solutions       INTEGER NOT NULL,
		unique_layouts  INTEGER NOT NULL,
		nodes           INTEGER NOT NULL,
		elapsed_seconds REAL    NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: create table: %w", err)
	}
	return &History{db: db}, nil
}

// Record inserts one row. It is safe to call concurrently.
func (h *History) Record(r Run) error {
	ts := r.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err := h.db.Exec(
		`INSERT INTO build_runs (ts, out_file, cap, workers, solutions, unique_layouts, nodes, elapsed_seconds)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		ts.UTC().Format(time.RFC3339), r.OutFile, r.Cap, r.Workers,
		r.Solutions, r.UniqueLayouts, r.Nodes, r.ElapsedSeconds,
	)
	return err
}

// Recent returns up to n runs, newest first.
func (h *History) Recent(n int) ([]Run, error) {
	rows, err := h.db.Query(
		`SELECT ts, out_file, cap, workers, solutions, unique_layouts, nodes, elapsed_seconds
		 FROM build_runs ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("history: query: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var ts string
		if err := rows.Scan(&ts, &r.OutFile, &r.Cap, &r.Workers,
			&r.Solutions, &r.UniqueLayouts, &r.Nodes, &r.ElapsedSeconds); err != nil {
			return nil, fmt.Errorf("history: scan: %w", err)
		}
		r.Timestamp, _ = time.Parse(time.RFC3339, ts)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Close closes the underlying database connection.
func (h *History) Close() error {
	return h.db.Close()
}
