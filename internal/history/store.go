// Package history persists analysis run summaries in a local SQLite
// database. The pipeline itself never touches it; the CLI opts in.
package history

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // pure Go SQLite driver

	"codescope/internal/analyzer"
	"codescope/internal/cserr"
	"codescope/internal/output"
)

// RunSummary is one row of the run log, without the full report body.
type RunSummary struct {
	RunID        string    `json:"runId"`
	Root         string    `json:"root"`
	StartedAt    time.Time `json:"startedAt"`
	DurationMS   int64     `json:"durationMs"`
	Phase        string    `json:"phase"`
	TotalFiles   int       `json:"totalFiles"`
	QualityScore float64   `json:"qualityScore"`
	IssueCount   int       `json:"issueCount"`
}

// Store is a SQLite-backed run log.
type Store struct {
	db   *sql.DB
	path string
	log  *slog.Logger
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id        TEXT PRIMARY KEY,
	root          TEXT NOT NULL,
	started_at    TEXT NOT NULL,
	duration_ms   INTEGER NOT NULL,
	phase         TEXT NOT NULL,
	total_files   INTEGER NOT NULL,
	quality_score REAL NOT NULL,
	issue_count   INTEGER NOT NULL,
	report        TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
`

// Open opens or creates the store at path, creating parent directories
// as needed.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, cserr.Wrap(cserr.StoreFailure, "create history directory", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, cserr.Wrap(cserr.StoreFailure, "open history database", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, cserr.Wrap(cserr.StoreFailure, "set pragma", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, cserr.Wrap(cserr.StoreFailure, "initialize history schema", err)
	}

	return &Store{db: db, path: path, log: logger}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save records a completed run. The full report document is stored as
// deterministic JSON next to the summary columns.
func (s *Store) Save(ctx context.Context, report *analyzer.Report) error {
	body, err := output.Encode(report.ToDocument())
	if err != nil {
		return cserr.Wrap(cserr.StoreFailure, "encode report", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO runs
			(run_id, root, started_at, duration_ms, phase, total_files, quality_score, issue_count, report)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		report.RunID,
		report.Root,
		report.StartedAt.UTC().Format(time.RFC3339Nano),
		report.DurationMS,
		string(report.Phase),
		report.TotalFiles,
		report.Metrics.QualityScore,
		report.Security.Summary.Total,
		string(body),
	)
	if err != nil {
		return cserr.Wrap(cserr.StoreFailure, "insert run", err)
	}

	s.log.Debug("run saved", "runId", report.RunID, "path", s.path)
	return nil
}

// List returns the most recent runs, newest first. A non-positive
// limit means all runs.
func (s *Store) List(ctx context.Context, limit int) ([]RunSummary, error) {
	query := `
		SELECT run_id, root, started_at, duration_ms, phase, total_files, quality_score, issue_count
		FROM runs
		ORDER BY started_at DESC, run_id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, cserr.Wrap(cserr.StoreFailure, "list runs", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		var startedAt string
		if err := rows.Scan(&r.RunID, &r.Root, &startedAt, &r.DurationMS,
			&r.Phase, &r.TotalFiles, &r.QualityScore, &r.IssueCount); err != nil {
			return nil, cserr.Wrap(cserr.StoreFailure, "scan run row", err)
		}
		if t, err := time.Parse(time.RFC3339Nano, startedAt); err == nil {
			r.StartedAt = t
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, cserr.Wrap(cserr.StoreFailure, "list runs", err)
	}
	return runs, nil
}

// Get returns one run's summary and its stored report JSON. A missing
// run wraps sql.ErrNoRows.
func (s *Store) Get(ctx context.Context, runID string) (RunSummary, []byte, error) {
	var r RunSummary
	var startedAt, report string

	err := s.db.QueryRowContext(ctx, `
		SELECT run_id, root, started_at, duration_ms, phase, total_files, quality_score, issue_count, report
		FROM runs WHERE run_id = ?`, runID).
		Scan(&r.RunID, &r.Root, &startedAt, &r.DurationMS,
			&r.Phase, &r.TotalFiles, &r.QualityScore, &r.IssueCount, &report)
	if err != nil {
		return RunSummary{}, nil, cserr.Wrap(cserr.StoreFailure, "load run "+runID, err)
	}

	if t, err := time.Parse(time.RFC3339Nano, startedAt); err == nil {
		r.StartedAt = t
	}
	return r, []byte(report), nil
}
