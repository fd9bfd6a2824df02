// Package sim drives a task-collecting agent across a grid.
//
// The agent is tick-driven: BeginDispatch starts it, and every
// AdvanceOneTick moves it one cell. Arriving on a task cell removes the task
// and immediately picks the next nearest one. The agent stops when no task
// is left or none can be reached.
package sim

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/elektrokombinacija/gridagent/internal/algo"
	"github.com/elektrokombinacija/gridagent/internal/core"
)

// SimulationConfig configures the simulation parameters
type SimulationConfig struct {
	// Scenario to simulate. The simulator works on a copy.
	Scenario *core.Scenario

	// Strategy used for every path search
	Strategy algo.Strategy

	// Delay between ticks in Run; zero runs as fast as possible
	TickInterval time.Duration

	// Stop Run after this many ticks; zero means no limit
	MaxTicks int

	// Enable verbose logging
	Verbose bool

	// Logger for diagnostics; nil uses log.Default()
	Logger *log.Logger

	// OnEvent, if set, receives agent events while the simulator lock is held.
	OnEvent func(Event)
}

// DefaultConfig returns default simulation configuration
func DefaultConfig() SimulationConfig {
	return SimulationConfig{
		Strategy:     algo.NewAStar(),
		TickInterval: 200 * time.Millisecond,
		MaxTicks:     0,
		Verbose:      false,
	}
}

// SimulationMetrics collects metrics during simulation
type SimulationMetrics struct {
	RunID    string `json:"run_id"`
	Strategy string `json:"strategy"`
	Scenario string `json:"scenario"`

	// Timing
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	PlanningTimeMs float64   `json:"planning_time_ms"`

	// Motion
	Ticks    int `json:"ticks"`
	PathCost int `json:"path_cost"`

	// Tasks
	TasksTotal     int           `json:"tasks_total"`
	TasksCompleted int           `json:"tasks_completed"`
	CompletedTasks []core.TaskID `json:"completed_tasks"`
	TasksRemaining int           `json:"tasks_remaining"`

	// Search
	Dispatches         int `json:"dispatches"`
	Searches           int `json:"searches"`
	NodesExpanded      int `json:"nodes_expanded"`
	UnreachableReports int `json:"unreachable_reports"`
}

// Snapshot is the read-only state a renderer polls.
type Snapshot struct {
	Strategy       string
	Started        bool
	Position       core.Cell
	Moving         bool
	TasksCompleted int
	CompletedTasks []core.TaskID
	PathCost       int
	Path           core.Path
	Tasks          []core.Entry
}

// Simulator owns one agent and serializes every operation on it.
type Simulator struct {
	mu sync.Mutex

	config   SimulationConfig
	scenario *core.Scenario
	agent    *Agent
	logger   *log.Logger

	started  bool
	planning time.Duration
	metrics  SimulationMetrics
}

// NewSimulator creates a new simulation instance
func NewSimulator(config SimulationConfig) (*Simulator, error) {
	if config.Scenario == nil {
		return nil, errors.New("simulation needs a scenario")
	}
	if err := config.Scenario.Validate(); err != nil {
		return nil, err
	}
	if config.Strategy == nil {
		config.Strategy = algo.NewAStar()
	}

	logger := config.Logger
	if logger == nil {
		logger = log.Default()
	}

	s := &Simulator{
		config:   config,
		scenario: config.Scenario.Clone(),
		logger:   logger,
	}
	s.metrics = SimulationMetrics{
		RunID:      uuid.NewString(),
		Strategy:   config.Strategy.Name(),
		Scenario:   config.Scenario.Name,
		TasksTotal: s.scenario.Grid.Tasks.Len(),
	}

	timed := &timedStrategy{Strategy: config.Strategy, elapsed: &s.planning}
	s.agent = NewAgent(s.scenario.Grid, s.scenario.Start, algo.NewDispatcher(timed, logger))
	s.agent.OnEvent = s.handleEvent

	return s, nil
}

// BeginDispatch starts the agent. Later calls are ignored.
// It returns true if the agent is moving.
func (s *Simulator) BeginDispatch() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return s.agent.Moving()
	}
	s.started = true
	if s.metrics.StartTime.IsZero() {
		s.metrics.StartTime = time.Now()
	}
	return s.agent.Dispatch()
}

// AdvanceOneTick moves the agent one cell. Ticks before BeginDispatch or
// after the agent went idle do nothing.
func (s *Simulator) AdvanceOneTick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started || !s.agent.Moving() {
		return
	}
	s.metrics.Ticks++
	s.agent.Move()
}

// Moving reports whether the agent is still travelling.
func (s *Simulator) Moving() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.agent.Moving()
}

// Run executes the simulation until the agent goes idle, MaxTicks is hit or
// ctx is cancelled.
func (s *Simulator) Run(ctx context.Context) (*SimulationMetrics, error) {
	s.mu.Lock()
	if s.metrics.StartTime.IsZero() {
		s.metrics.StartTime = time.Now()
	}
	s.mu.Unlock()

	s.BeginDispatch()

	var tick <-chan time.Time
	if s.config.TickInterval > 0 {
		ticker := time.NewTicker(s.config.TickInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for s.Moving() {
		if s.config.MaxTicks > 0 && s.Metrics().Ticks >= s.config.MaxTicks {
			break
		}

		if tick != nil {
			select {
			case <-ctx.Done():
				m := s.finish()
				return &m, ctx.Err()
			case <-tick:
			}
		} else if err := ctx.Err(); err != nil {
			m := s.finish()
			return &m, err
		}

		s.AdvanceOneTick()
	}

	m := s.finish()
	return &m, nil
}

func (s *Simulator) finish() SimulationMetrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics.EndTime = time.Now()
	return s.snapshotMetrics()
}

// handleEvent runs with s.mu held.
func (s *Simulator) handleEvent(e Event) {
	switch e.Kind {
	case EventArrived:
		if s.config.Verbose {
			s.logger.Printf("[INFO] task %d collected at %v (%d/%d), path cost %d",
				e.Task, e.Position, s.agent.TasksCompleted(), s.metrics.TasksTotal, s.agent.PathCost())
		}
	case EventDispatched:
		if s.config.Verbose {
			s.logger.Printf("[INFO] heading for task %d at %v, %d steps", e.Task, e.Cell, e.Cost)
		}
	case EventIdle:
		if s.config.Verbose {
			s.logger.Printf("[INFO] agent idle at %v, %d tasks remaining", e.Position, s.scenario.Grid.Tasks.Len())
		}
	}

	if s.config.OnEvent != nil {
		s.config.OnEvent(e)
	}
}

// Snapshot returns the observable agent state.
func (s *Simulator) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		Strategy:       s.config.Strategy.Name(),
		Started:        s.started,
		Position:       s.agent.Position(),
		Moving:         s.agent.Moving(),
		TasksCompleted: s.agent.TasksCompleted(),
		CompletedTasks: s.agent.CompletedTasks(),
		PathCost:       s.agent.PathCost(),
		Path:           s.agent.Path(),
		Tasks:          s.scenario.Grid.Tasks.Entries(),
	}
}

// Grid returns the simulator's working grid. Callers must not modify it.
func (s *Simulator) Grid() *core.Grid {
	return s.scenario.Grid
}

// Metrics returns current simulation metrics
func (s *Simulator) Metrics() SimulationMetrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotMetrics()
}

func (s *Simulator) snapshotMetrics() SimulationMetrics {
	m := s.metrics
	stats := s.agent.SearchStats()
	m.PathCost = s.agent.PathCost()
	m.TasksCompleted = s.agent.TasksCompleted()
	m.CompletedTasks = s.agent.CompletedTasks()
	m.TasksRemaining = s.scenario.Grid.Tasks.Len()
	m.Dispatches = stats.Dispatches
	m.Searches = stats.Searches
	m.NodesExpanded = stats.Expanded
	m.UnreachableReports = stats.Unreachable
	m.PlanningTimeMs = float64(s.planning.Microseconds()) / 1000.0
	return m
}

// ExportMetrics writes metrics to a JSON file
func (s *Simulator) ExportMetrics(path string) error {
	metrics := s.Metrics()

	data, err := json.MarshalIndent(metrics, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}

// RunSimulation is a convenience function to run a complete simulation
func RunSimulation(ctx context.Context, config SimulationConfig) (*SimulationMetrics, error) {
	sim, err := NewSimulator(config)
	if err != nil {
		return nil, err
	}
	return sim.Run(ctx)
}

// timedStrategy accumulates time spent searching.
type timedStrategy struct {
	algo.Strategy
	elapsed *time.Duration
}

func (t *timedStrategy) Search(start, goal core.Cell, topo core.Topology) (algo.Result, error) {
	began := time.Now()
	res, err := t.Strategy.Search(start, goal, topo)
	*t.elapsed += time.Since(began)
	return res, err
}
