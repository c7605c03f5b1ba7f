package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// Episode is the stored summary of one rollout episode.
type Episode struct {
	Episode   int
	Steps     int
	Solved    bool
	Truncated bool
	Reward    float64
	Duration  time.Duration
}

// EpisodeStats aggregates the episodes of a run.
type EpisodeStats struct {
	Episodes  int
	Solved    int
	Truncated int
	AvgSteps  float64
}

// SolveRate returns the fraction of solved episodes.
func (s EpisodeStats) SolveRate() float64 {
	if s.Episodes == 0 {
		return 0
	}
	return float64(s.Solved) / float64(s.Episodes)
}

// EpisodeRepository provides operations for episode summaries.
type EpisodeRepository struct {
	db *DB
}

// NewEpisodeRepository creates a new episode repository.
func NewEpisodeRepository(db *DB) *EpisodeRepository {
	return &EpisodeRepository{db: db}
}

// CreateBatch stores episodes for a run in one transaction.
func (r *EpisodeRepository) CreateBatch(runID string, episodes []Episode) error {
	return r.db.Transaction(func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`
			INSERT INTO episodes (run_id, episode, steps, solved, truncated, reward, duration_ms)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare episode insert: %w", err)
		}
		defer stmt.Close()

		for _, ep := range episodes {
			_, err := stmt.Exec(runID, ep.Episode, ep.Steps, ep.Solved, ep.Truncated, ep.Reward, ep.Duration.Milliseconds())
			if err != nil {
				return fmt.Errorf("failed to insert episode %d: %w", ep.Episode, err)
			}
		}
		return nil
	})
}

// GetByRun retrieves all episodes of a run in order.
func (r *EpisodeRepository) GetByRun(runID string) ([]Episode, error) {
	rows, err := r.db.Query(`
		SELECT episode, steps, solved, truncated, reward, duration_ms
		FROM episodes
		WHERE run_id = ?
		ORDER BY episode
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get episodes: %w", err)
	}
	defer rows.Close()

	var episodes []Episode
	for rows.Next() {
		var ep Episode
		var durationMs int64
		if err := rows.Scan(&ep.Episode, &ep.Steps, &ep.Solved, &ep.Truncated, &ep.Reward, &durationMs); err != nil {
			return nil, fmt.Errorf("failed to scan episode: %w", err)
		}
		ep.Duration = time.Duration(durationMs) * time.Millisecond
		episodes = append(episodes, ep)
	}
	return episodes, rows.Err()
}

// Stats aggregates the episodes of a run.
func (r *EpisodeRepository) Stats(runID string) (EpisodeStats, error) {
	var s EpisodeStats
	err := r.db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(solved), 0),
		       COALESCE(SUM(truncated), 0),
		       COALESCE(AVG(steps), 0)
		FROM episodes
		WHERE run_id = ?
	`, runID).Scan(&s.Episodes, &s.Solved, &s.Truncated, &s.AvgSteps)
	if err != nil {
		return s, fmt.Errorf("failed to get episode stats: %w", err)
	}
	return s, nil
}
