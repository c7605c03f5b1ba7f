package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Run kinds.
const (
	KindBench   = "bench"
	KindRollout = "rollout"
)

// timeLayout keeps a fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Run represents a benchmark or rollout run in the database.
type Run struct {
	RunID         string
	Kind          string
	Metric        string
	Seed          *int64
	ScrambleMoves int
	Policy        *string
	Notes         *string
	StartedAt     time.Time
	EndedAt       *time.Time
	DurationMs    *int64
}

// NewRun describes a run about to start.
type NewRun struct {
	Kind          string
	Metric        string
	Seed          *int64
	ScrambleMoves int
	Policy        string
	Notes         string
}

// BenchResult is one timed case of a benchmark run.
type BenchResult struct {
	Name        string
	Parallel    int
	Ops         int64
	Elapsed     time.Duration
	NsPerOp     float64
	AllocsPerOp float64
}

// RunRepository provides CRUD operations for runs.
type RunRepository struct {
	db *DB
}

// NewRunRepository creates a new run repository.
func NewRunRepository(db *DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create creates a new run and returns its ID.
func (r *RunRepository) Create(nr NewRun) (string, error) {
	id := uuid.New().String()
	startedAt := time.Now().UTC()

	var policyPtr, notesPtr *string
	if nr.Policy != "" {
		policyPtr = &nr.Policy
	}
	if nr.Notes != "" {
		notesPtr = &nr.Notes
	}

	_, err := r.db.Exec(`
		INSERT INTO runs (run_id, kind, metric, seed, scramble_moves, policy, notes, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, id, nr.Kind, nr.Metric, nr.Seed, nr.ScrambleMoves, policyPtr, notesPtr, startedAt.Format(timeLayout))
	if err != nil {
		return "", fmt.Errorf("failed to create run: %w", err)
	}

	return id, nil
}

// End marks a run as complete.
func (r *RunRepository) End(runID string) error {
	endedAt := time.Now().UTC()

	var startedAtStr string
	err := r.db.QueryRow("SELECT started_at FROM runs WHERE run_id = ?", runID).Scan(&startedAtStr)
	if err != nil {
		return fmt.Errorf("failed to get run start time: %w", err)
	}

	startedAt, err := time.Parse(timeLayout, startedAtStr)
	if err != nil {
		return fmt.Errorf("failed to parse start time: %w", err)
	}

	_, err = r.db.Exec(`
		UPDATE runs
		SET ended_at = ?, duration_ms = ?
		WHERE run_id = ?
	`, endedAt.Format(timeLayout), endedAt.Sub(startedAt).Milliseconds(), runID)
	if err != nil {
		return fmt.Errorf("failed to end run: %w", err)
	}

	return nil
}

const runColumns = `run_id, kind, metric, seed, scramble_moves, policy, notes, started_at, ended_at, duration_ms`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var run Run
	var startedAtStr string
	var endedAtStr sql.NullString

	err := row.Scan(
		&run.RunID, &run.Kind, &run.Metric, &run.Seed, &run.ScrambleMoves,
		&run.Policy, &run.Notes, &startedAtStr, &endedAtStr, &run.DurationMs,
	)
	if err != nil {
		return run, err
	}

	run.StartedAt, _ = time.Parse(timeLayout, startedAtStr)
	if endedAtStr.Valid {
		t, _ := time.Parse(timeLayout, endedAtStr.String)
		run.EndedAt = &t
	}
	return run, nil
}

// Get retrieves a run by ID. It returns nil if no run matches.
func (r *RunRepository) Get(runID string) (*Run, error) {
	run, err := scanRun(r.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE run_id = ?`, runID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &run, nil
}

// FindByPrefix resolves a unique run ID prefix, as typed on the command line.
// The prefix is compared literally, so % and _ match only themselves. An
// empty prefix matches nothing.
func (r *RunRepository) FindByPrefix(prefix string) (*Run, error) {
	if prefix == "" {
		return nil, nil
	}
	rows, err := r.db.Query(`SELECT `+runColumns+` FROM runs WHERE substr(run_id, 1, length(?1)) = ?1 LIMIT 2`, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to find run: %w", err)
	}
	defer rows.Close()

	var found []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		found = append(found, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to find run: %w", err)
	}

	switch len(found) {
	case 0:
		return nil, nil
	case 1:
		return &found[0], nil
	default:
		return nil, fmt.Errorf("run id prefix %q is ambiguous", prefix)
	}
}

// List retrieves recent runs, newest first.
func (r *RunRepository) List(limit int) ([]Run, error) {
	rows, err := r.db.Query(`
		SELECT `+runColumns+`
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Delete deletes a run and all related data (cascading).
func (r *RunRepository) Delete(runID string) error {
	_, err := r.db.Exec("DELETE FROM runs WHERE run_id = ?", runID)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	return nil
}

// AddBenchResults stores the results of a benchmark run.
func (r *RunRepository) AddBenchResults(runID string, results []BenchResult) error {
	return r.db.Transaction(func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`
			INSERT INTO bench_results (run_id, name, parallel, ops, elapsed_ns, ns_per_op, allocs_per_op)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare bench insert: %w", err)
		}
		defer stmt.Close()

		for _, res := range results {
			_, err := stmt.Exec(runID, res.Name, res.Parallel, res.Ops, res.Elapsed.Nanoseconds(), res.NsPerOp, res.AllocsPerOp)
			if err != nil {
				return fmt.Errorf("failed to insert bench result %s: %w", res.Name, err)
			}
		}
		return nil
	})
}

// BenchResults retrieves the results of a benchmark run in insertion order.
func (r *RunRepository) BenchResults(runID string) ([]BenchResult, error) {
	rows, err := r.db.Query(`
		SELECT name, parallel, ops, elapsed_ns, ns_per_op, allocs_per_op
		FROM bench_results
		WHERE run_id = ?
		ORDER BY rowid
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bench results: %w", err)
	}
	defer rows.Close()

	var results []BenchResult
	for rows.Next() {
		var res BenchResult
		var elapsedNs int64
		if err := rows.Scan(&res.Name, &res.Parallel, &res.Ops, &elapsedNs, &res.NsPerOp, &res.AllocsPerOp); err != nil {
			return nil, fmt.Errorf("failed to scan bench result: %w", err)
		}
		res.Elapsed = time.Duration(elapsedNs)
		results = append(results, res)
	}
	return results, rows.Err()
}
