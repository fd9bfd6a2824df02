// Package runlog keeps a history of finished simulation runs in SQLite.
package runlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/elektrokombinacija/gridagent/internal/core"
	"github.com/elektrokombinacija/gridagent/internal/sim"
)

// Run is one stored simulation run.
type Run struct {
	ID             string
	Scenario       string
	Strategy       string
	Seed           int64
	StartedAt      time.Time
	Duration       time.Duration
	Ticks          int
	PathCost       int
	TasksTotal     int
	TasksCompleted int
	CompletedTasks []core.TaskID
	NodesExpanded  int
	Unreachable    int
}

// FromMetrics converts simulator metrics into a run record.
func FromMetrics(m sim.SimulationMetrics, seed int64) Run {
	return Run{
		ID:             m.RunID,
		Scenario:       m.Scenario,
		Strategy:       m.Strategy,
		Seed:           seed,
		StartedAt:      m.StartTime,
		Duration:       m.EndTime.Sub(m.StartTime),
		Ticks:          m.Ticks,
		PathCost:       m.PathCost,
		TasksTotal:     m.TasksTotal,
		TasksCompleted: m.TasksCompleted,
		CompletedTasks: m.CompletedTasks,
		NodesExpanded:  m.NodesExpanded,
		Unreachable:    m.UnreachableReports,
	}
}

// Store provides run history operations.
type Store struct {
	db *sql.DB
}

// Open creates a new database connection and initializes the schema.
func Open(ctx context.Context, dbPath string) (*Store, error) {
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id          TEXT PRIMARY KEY,
		scenario        TEXT NOT NULL,
		strategy        TEXT NOT NULL,
		seed            INTEGER NOT NULL,
		started_at      INTEGER NOT NULL,
		duration_us     INTEGER NOT NULL,
		ticks           INTEGER NOT NULL,
		path_cost       INTEGER NOT NULL,
		tasks_total     INTEGER NOT NULL,
		tasks_completed INTEGER NOT NULL,
		completed_tasks TEXT NOT NULL,
		nodes_expanded  INTEGER NOT NULL,
		unreachable     INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_scenario ON runs(scenario, strategy);
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Record stores a run. A run without an id gets a new one, which is returned.
func (s *Store) Record(ctx context.Context, r Run) (string, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CompletedTasks == nil {
		r.CompletedTasks = []core.TaskID{}
	}
	completed, err := json.Marshal(r.CompletedTasks)
	if err != nil {
		return "", err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (run_id, scenario, strategy, seed, started_at, duration_us, ticks,
			path_cost, tasks_total, tasks_completed, completed_tasks, nodes_expanded, unreachable)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Scenario, r.Strategy, r.Seed, r.StartedAt.UnixNano(), r.Duration.Microseconds(), r.Ticks,
		r.PathCost, r.TasksTotal, r.TasksCompleted, string(completed), r.NodesExpanded, r.Unreachable,
	)
	if err != nil {
		return "", fmt.Errorf("failed to record run: %w", err)
	}
	return r.ID, nil
}

// List returns the most recent runs, newest first. limit <= 0 returns all.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	query := `
		SELECT run_id, scenario, strategy, seed, started_at, duration_us, ticks,
			path_cost, tasks_total, tasks_completed, completed_tasks, nodes_expanded, unreachable
		FROM runs
		ORDER BY started_at DESC, run_id`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r          Run
			startedAt  int64
			durationUs int64
			completed  string
		)
		if err := rows.Scan(&r.ID, &r.Scenario, &r.Strategy, &r.Seed, &startedAt, &durationUs, &r.Ticks,
			&r.PathCost, &r.TasksTotal, &r.TasksCompleted, &completed, &r.NodesExpanded, &r.Unreachable); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.StartedAt = time.Unix(0, startedAt)
		r.Duration = time.Duration(durationUs) * time.Microsecond
		if err := json.Unmarshal([]byte(completed), &r.CompletedTasks); err != nil {
			return nil, fmt.Errorf("run %s: bad completed list: %w", r.ID, err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Summary aggregates runs of one strategy on one scenario.
type Summary struct {
	Scenario     string
	Strategy     string
	Runs         int
	AvgPathCost  float64
	AvgExpanded  float64
	FullyCleared int
}

// Summarize groups stored runs by scenario and strategy.
func (s *Store) Summarize(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT scenario, strategy, COUNT(*), AVG(path_cost), AVG(nodes_expanded),
			SUM(CASE WHEN tasks_completed = tasks_total THEN 1 ELSE 0 END)
		FROM runs
		GROUP BY scenario, strategy
		ORDER BY scenario, strategy`)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize runs: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var sum Summary
		if err := rows.Scan(&sum.Scenario, &sum.Strategy, &sum.Runs, &sum.AvgPathCost, &sum.AvgExpanded, &sum.FullyCleared); err != nil {
			return nil, fmt.Errorf("failed to scan summary: %w", err)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}
