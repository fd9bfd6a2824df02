package widgets

import (
	"testing"

	"github.com/elektrokombinacija/gridagent/internal/core"
	"github.com/elektrokombinacija/gridagent/internal/sim"
)

func TestStatusLines(t *testing.T) {
	snap := sim.Snapshot{
		Strategy:       "IDA*",
		Started:        true,
		Position:       core.Cell{Col: 3, Row: 4},
		Moving:         true,
		TasksCompleted: 2,
		CompletedTasks: []core.TaskID{5, 1},
		PathCost:       17,
		Tasks:          []core.Entry{{Cell: core.Cell{Col: 1, Row: 1}, ID: 2}},
	}

	want := []string{
		"Algorithm: IDA* Search",
		"Tasks Completed: 2",
		"Position: (3,4)",
		"Completed Tasks: [5 1]",
		"Total Path Cost: 17",
		"Remaining Tasks: 1",
		"State: Moving",
	}
	got := StatusLines(snap)
	if len(got) != len(want) {
		t.Fatalf("got %d lines, want %d: %q", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestStatusLinesBeforeStart(t *testing.T) {
	got := StatusLines(sim.Snapshot{Strategy: "A*"})
	if got[3] != "Completed Tasks: []" {
		t.Errorf("unexpected completed line %q", got[3])
	}
	if got[6] != "State: Waiting for start" {
		t.Errorf("unexpected state line %q", got[6])
	}
}
