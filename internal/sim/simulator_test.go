package sim

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/elektrokombinacija/gridagent/internal/algo"
	"github.com/elektrokombinacija/gridagent/internal/core"
)

func testScenario() *core.Scenario {
	s := core.NewScenario("test", 6, 6)
	s.Grid.AddWall(core.Cell{Col: 2, Row: 0}, core.Cell{Col: 2, Row: 1}, core.Cell{Col: 2, Row: 2})
	s.Grid.Tasks.Add(core.Cell{Col: 1, Row: 2}, 1)
	s.Grid.Tasks.Add(core.Cell{Col: 4, Row: 0}, 2)
	s.Grid.Tasks.Add(core.Cell{Col: 5, Row: 5}, 3)
	return s
}

func testConfig(scenario *core.Scenario, strategy algo.Strategy) SimulationConfig {
	cfg := DefaultConfig()
	cfg.Scenario = scenario
	cfg.Strategy = strategy
	cfg.TickInterval = 0
	cfg.Logger = log.New(&bytes.Buffer{}, "", 0)
	return cfg
}

func TestNewSimulatorRejectsInvalidScenario(t *testing.T) {
	s := core.NewScenario("bad", 3, 3)
	s.Start = core.Cell{Col: 5, Row: 5}

	if _, err := NewSimulator(testConfig(s, nil)); !errors.Is(err, core.ErrInvalidScenario) {
		t.Errorf("expected ErrInvalidScenario, got %v", err)
	}
	if _, err := NewSimulator(testConfig(nil, nil)); err == nil {
		t.Error("expected error without a scenario")
	}
}

func TestRunCollectsAllTasks(t *testing.T) {
	scenario := testScenario()
	g := scenario.Grid

	for _, strategy := range []algo.Strategy{algo.NewAStar(), algo.NewIDAStar(algo.BoundFor(g))} {
		t.Run(strategy.Name(), func(t *testing.T) {
			m, err := RunSimulation(context.Background(), testConfig(scenario, strategy))
			if err != nil {
				t.Fatalf("RunSimulation: %v", err)
			}
			if m.TasksCompleted != 3 || m.TasksRemaining != 0 {
				t.Errorf("completed %d remaining %d, want 3 and 0", m.TasksCompleted, m.TasksRemaining)
			}
			if m.Ticks != m.PathCost {
				t.Errorf("ticks %d should equal path cost %d", m.Ticks, m.PathCost)
			}
			if m.Strategy != strategy.Name() {
				t.Errorf("strategy %q, want %q", m.Strategy, strategy.Name())
			}
			if m.RunID == "" {
				t.Error("expected a run id")
			}
		})
	}

	if scenario.Grid.Tasks.Len() != 3 {
		t.Errorf("runs must not consume the caller's scenario, %d tasks left", scenario.Grid.Tasks.Len())
	}
}

func TestStrategiesAgreeOnCost(t *testing.T) {
	scenario := testScenario()

	a, err := RunSimulation(context.Background(), testConfig(scenario, algo.NewAStar()))
	if err != nil {
		t.Fatal(err)
	}
	b, err := RunSimulation(context.Background(), testConfig(scenario, algo.NewIDAStar(algo.BoundFor(scenario.Grid))))
	if err != nil {
		t.Fatal(err)
	}

	if a.PathCost != b.PathCost {
		t.Errorf("A* cost %d, IDA* cost %d", a.PathCost, b.PathCost)
	}
	for i := range a.CompletedTasks {
		if a.CompletedTasks[i] != b.CompletedTasks[i] {
			t.Errorf("completion order differs: %v vs %v", a.CompletedTasks, b.CompletedTasks)
			break
		}
	}
}

func TestTicksBeforeDispatchAreIgnored(t *testing.T) {
	sim, err := NewSimulator(testConfig(testScenario(), nil))
	if err != nil {
		t.Fatal(err)
	}

	sim.AdvanceOneTick()
	sim.AdvanceOneTick()
	if snap := sim.Snapshot(); snap.Started || snap.PathCost != 0 || snap.Position != (core.Cell{}) {
		t.Errorf("agent moved before dispatch: %+v", snap)
	}

	if !sim.BeginDispatch() {
		t.Fatal("BeginDispatch should start the agent")
	}
	path := sim.Snapshot().Path

	// A second call must not re-plan.
	sim.BeginDispatch()
	if m := sim.Metrics(); m.Dispatches != 1 {
		t.Errorf("expected 1 dispatch, got %d", m.Dispatches)
	}

	sim.AdvanceOneTick()
	if snap := sim.Snapshot(); snap.Position != path[0] {
		t.Errorf("expected agent at %v, got %v", path[0], snap.Position)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	sim, err := NewSimulator(testConfig(testScenario(), nil))
	if err != nil {
		t.Fatal(err)
	}
	sim.BeginDispatch()

	snap := sim.Snapshot()
	snap.Path[0] = core.Cell{Col: 99, Row: 99}
	snap.Tasks = nil

	again := sim.Snapshot()
	if again.Path[0] == (core.Cell{Col: 99, Row: 99}) {
		t.Error("snapshot path aliases agent state")
	}
	if len(again.Tasks) != 3 {
		t.Errorf("expected 3 tasks, got %d", len(again.Tasks))
	}
}

func TestRunStopsAtMaxTicks(t *testing.T) {
	cfg := testConfig(testScenario(), nil)
	cfg.MaxTicks = 3

	m, err := RunSimulation(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if m.Ticks != 3 {
		t.Errorf("expected 3 ticks, got %d", m.Ticks)
	}
}

func TestRunHonoursContext(t *testing.T) {
	cfg := testConfig(testScenario(), nil)
	cfg.TickInterval = time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	m, err := RunSimulation(ctx, cfg)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if m == nil || m.Ticks != 0 {
		t.Errorf("expected metrics with no ticks, got %+v", m)
	}
}

func TestUnreachableTaskIsReported(t *testing.T) {
	s := core.NewScenario("pocket", 5, 5)
	s.Grid.AddWall(core.Cell{Col: 2, Row: 1}, core.Cell{Col: 2, Row: 3}, core.Cell{Col: 1, Row: 2}, core.Cell{Col: 3, Row: 2})
	s.Grid.Tasks.Add(core.Cell{Col: 2, Row: 2}, 1)
	s.Grid.Tasks.Add(core.Cell{Col: 4, Row: 4}, 2)

	var buf bytes.Buffer
	cfg := testConfig(s, nil)
	cfg.Logger = log.New(&buf, "", 0)
	cfg.Verbose = true

	m, err := RunSimulation(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if m.TasksCompleted != 1 || m.TasksRemaining != 1 {
		t.Errorf("completed %d remaining %d, want 1 and 1", m.TasksCompleted, m.TasksRemaining)
	}
	if m.UnreachableReports == 0 {
		t.Error("expected unreachable reports")
	}
	if !strings.Contains(buf.String(), "[WARN] no path to task 1") {
		t.Errorf("missing warning in log: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "[INFO] task 2 collected") {
		t.Errorf("missing verbose collection log: %q", buf.String())
	}
}

func TestExportMetrics(t *testing.T) {
	sim, err := NewSimulator(testConfig(testScenario(), nil))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := sim.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "metrics.json")
	if err := sim.ExportMetrics(path); err != nil {
		t.Fatalf("ExportMetrics: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var m SimulationMetrics
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("metrics file is not JSON: %v", err)
	}
	if m.TasksCompleted != 3 || m.RunID != sim.Metrics().RunID {
		t.Errorf("unexpected exported metrics %+v", m)
	}
}

func TestRunKeepsStartTimeOfEarlierDispatch(t *testing.T) {
	sim, err := NewSimulator(testConfig(testScenario(), nil))
	if err != nil {
		t.Fatal(err)
	}

	sim.BeginDispatch()
	started := sim.Metrics().StartTime
	if started.IsZero() {
		t.Fatal("BeginDispatch should record the start time")
	}
	sim.AdvanceOneTick()
	time.Sleep(5 * time.Millisecond)

	m, err := sim.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !m.StartTime.Equal(started) {
		t.Errorf("start time moved from %v to %v", started, m.StartTime)
	}
	if m.EndTime.Sub(m.StartTime) < 5*time.Millisecond {
		t.Errorf("duration %v misses the time before Run", m.EndTime.Sub(m.StartTime))
	}
}
