package state

import (
	"bytes"
	"log"
	"testing"
	"time"

	"github.com/elektrokombinacija/gridagent/internal/algo"
	"github.com/elektrokombinacija/gridagent/internal/core"
	"github.com/elektrokombinacija/gridagent/internal/sim"
	"github.com/elektrokombinacija/gridagent/internal/vis/observer"
)

// eventCounts tallies events by kind.
type eventCounts map[sim.EventKind]int

func (c eventCounts) OnEvent(e sim.Event) { c[e.Kind]++ }

func newTestState(t *testing.T) (*State, eventCounts) {
	t.Helper()

	s := core.NewScenario("vis", 4, 1)
	s.Grid.Tasks.Add(core.Cell{Col: 3, Row: 0}, 1)

	events := NewEventLog(4)
	counter := eventCounts{}

	cfg := sim.DefaultConfig()
	cfg.Scenario = s
	cfg.Strategy = algo.NewAStar()
	cfg.Logger = log.New(&bytes.Buffer{}, "", 0)
	observer.Attach(&cfg, events, counter)

	simulator, err := sim.NewSimulator(cfg)
	if err != nil {
		t.Fatal(err)
	}
	return NewState(simulator, 200*time.Millisecond, events), counter
}

func TestPacerDue(t *testing.T) {
	p := NewPacer(200 * time.Millisecond)
	t0 := time.Unix(100, 0)

	if p.Due(t0.Add(time.Second)) {
		t.Error("stopped pacer should never be due")
	}

	p.Start(t0)
	if p.Due(t0.Add(199 * time.Millisecond)) {
		t.Error("move due before the delay elapsed")
	}
	if !p.Due(t0.Add(200 * time.Millisecond)) {
		t.Error("move not due after the delay")
	}
	// A long stall still yields a single move.
	if !p.Due(t0.Add(2 * time.Second)) {
		t.Error("move not due after a stall")
	}
	if p.Due(t0.Add(2*time.Second + time.Millisecond)) {
		t.Error("second move due right after the first")
	}
}

func TestPacerSpeed(t *testing.T) {
	p := NewPacer(200 * time.Millisecond)
	p.SetSpeed(2)
	if p.Interval() != 100*time.Millisecond {
		t.Errorf("expected 100ms at speed 2, got %v", p.Interval())
	}
	p.SetSpeed(100)
	if p.Speed != 8 {
		t.Errorf("speed not clamped: %v", p.Speed)
	}
	p.SetSpeed(0)
	if p.Speed != 0.25 {
		t.Errorf("speed not clamped: %v", p.Speed)
	}
}

func TestPacerPause(t *testing.T) {
	p := NewPacer(0)
	t0 := time.Unix(0, 0)
	p.Start(t0)
	p.TogglePause(t0)
	if p.Due(t0.Add(time.Hour)) {
		t.Error("paused pacer is due")
	}
	p.TogglePause(t0.Add(time.Hour))
	if p.Due(t0.Add(time.Hour + 100*time.Millisecond)) {
		t.Error("resume should restart the interval")
	}
}

func TestStateRunsAgentAtPace(t *testing.T) {
	st, counter := newTestState(t)
	t0 := time.Unix(0, 0)

	if st.Update(t0.Add(time.Second)) {
		t.Error("agent should not move before Start")
	}

	st.Start(t0)
	if !st.Snapshot.Moving {
		t.Fatal("agent not moving after Start")
	}

	now := t0
	for i := 0; i < 3; i++ {
		now = now.Add(200 * time.Millisecond)
		st.Update(now)
	}

	if st.Snapshot.Position != (core.Cell{Col: 3, Row: 0}) {
		t.Errorf("expected agent at (3,0), got %v", st.Snapshot.Position)
	}
	if st.Snapshot.TasksCompleted != 1 || st.Snapshot.Moving {
		t.Errorf("unexpected final snapshot %+v", st.Snapshot)
	}
	if st.Update(now.Add(time.Second)) {
		t.Error("Update should report no animation once idle")
	}

	lines := st.Events.Lines()
	if len(lines) != 3 || lines[1] != "collected task 1" {
		t.Errorf("unexpected event lines %q", lines)
	}
	if counter[sim.EventStepped] != 3 {
		t.Errorf("expected 3 steps, got %d", counter[sim.EventStepped])
	}
}

func TestEventLogKeepsNewest(t *testing.T) {
	l := NewEventLog(2)
	for id := core.TaskID(1); id <= 3; id++ {
		l.OnEvent(sim.Event{Kind: sim.EventArrived, Task: id})
	}
	l.OnEvent(sim.Event{Kind: sim.EventStepped})

	lines := l.Lines()
	if len(lines) != 2 || lines[0] != "collected task 2" || lines[1] != "collected task 3" {
		t.Errorf("unexpected lines %q", lines)
	}
}
