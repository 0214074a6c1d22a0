package history

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// timeLayout is fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type Repository struct {
	db *sql.DB
}

// NewRepository opens (and creates if needed) the sqlite database at path.
// ":memory:" gives a throwaway database.
func NewRepository(path string) (*Repository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	// One connection, so ":memory:" is a single database.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to %s: %w", path, err)
	}

	repo := &Repository{db: db}
	if err := repo.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return repo, nil
}

func (r *Repository) init() error {
	runsQuery := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		duration INTEGER NOT NULL,
		remaining INTEGER NOT NULL,
		started_at TEXT NOT NULL,
		ended_at TEXT NOT NULL,
		outcome TEXT NOT NULL
	)
	`
	if _, err := r.db.Exec(runsQuery); err != nil {
		return err
	}

	_, err := r.db.Exec("CREATE INDEX IF NOT EXISTS runs_ended_at ON runs (ended_at)")
	return err
}

// Create stores run, assigning an ID when it has none.
func (r *Repository) Create(run *Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	_, err := r.db.Exec(
		"INSERT INTO runs (id, duration, remaining, started_at, ended_at, outcome) VALUES (?, ?, ?, ?, ?, ?)",
		run.ID,
		run.Duration,
		run.Remaining,
		run.StartedAt.UTC().Format(timeLayout),
		run.EndedAt.UTC().Format(timeLayout),
		string(run.Outcome),
	)
	return err
}

// Recent returns up to limit runs, most recently ended first.
func (r *Repository) Recent(limit int) ([]Run, error) {
	rows, err := r.db.Query(
		"SELECT id, duration, remaining, started_at, ended_at, outcome FROM runs ORDER BY ended_at DESC, rowid DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var startedAt, endedAt, outcome string
		if err := rows.Scan(&run.ID, &run.Duration, &run.Remaining, &startedAt, &endedAt, &outcome); err != nil {
			return nil, err
		}
		if run.StartedAt, err = time.Parse(timeLayout, startedAt); err != nil {
			return nil, fmt.Errorf("run %s: %w", run.ID, err)
		}
		if run.EndedAt, err = time.Parse(timeLayout, endedAt); err != nil {
			return nil, fmt.Errorf("run %s: %w", run.ID, err)
		}
		run.Outcome = Outcome(outcome)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Stats groups all runs by outcome.
func (r *Repository) Stats() ([]OutcomeStats, error) {
	rows, err := r.db.Query(
		"SELECT outcome, COUNT(*), COALESCE(SUM(duration), 0) FROM runs GROUP BY outcome ORDER BY outcome",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []OutcomeStats
	for rows.Next() {
		var s OutcomeStats
		var outcome string
		if err := rows.Scan(&outcome, &s.Count, &s.Seconds); err != nil {
			return nil, err
		}
		s.Outcome = Outcome(outcome)
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func (r *Repository) Close() error {
	return r.db.Close()
}
