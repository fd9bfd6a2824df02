package core

import (
	"errors"
	"testing"
)

func TestTaskSetInsertionOrder(t *testing.T) {
	s := NewTaskSet()
	s.Add(Cell{4, 4}, 1)
	s.Add(Cell{0, 3}, 2)
	s.Add(Cell{2, 2}, 3)

	want := []Cell{{4, 4}, {0, 3}, {2, 2}}
	got := s.Cells()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Cells()[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	if _, ok := s.Remove(Cell{0, 3}); !ok {
		t.Fatal("Expected task at (0,3)")
	}
	got = s.Cells()
	if len(got) != 2 || got[0] != (Cell{4, 4}) || got[1] != (Cell{2, 2}) {
		t.Errorf("Order after remove = %v", got)
	}
}

func TestTaskSetRemoveOnce(t *testing.T) {
	s := NewTaskSet()
	s.Add(Cell{1, 1}, 7)

	id, ok := s.Remove(Cell{1, 1})
	if !ok || id != 7 {
		t.Fatalf("Remove = (%d, %v), want (7, true)", id, ok)
	}
	if _, ok := s.Remove(Cell{1, 1}); ok {
		t.Error("Second Remove should report absence")
	}
	if s.Len() != 0 {
		t.Errorf("Len = %d, want 0", s.Len())
	}
}

func TestTaskSetRejectsDuplicateCell(t *testing.T) {
	s := NewTaskSet()
	if !s.Add(Cell{1, 1}, 1) {
		t.Fatal("First Add should succeed")
	}
	if s.Add(Cell{1, 1}, 2) {
		t.Error("Add on occupied cell should fail")
	}
	if id, _ := s.Lookup(Cell{1, 1}); id != 1 {
		t.Errorf("Lookup = %d, want 1", id)
	}
}

func TestScenarioValidate(t *testing.T) {
	tests := []struct {
		name  string
		build func() *Scenario
		ok    bool
	}{
		{"valid", func() *Scenario {
			s := NewScenario("ok", 5, 5)
			s.Grid.Tasks.Add(Cell{4, 4}, 1)
			return s
		}, true},
		{"start out of bounds", func() *Scenario {
			s := NewScenario("oob", 5, 5)
			s.Start = Cell{5, 0}
			return s
		}, false},
		{"start on barrier", func() *Scenario {
			s := NewScenario("barrier", 5, 5)
			s.Grid.AddBarrier(Cell{0, 0})
			return s
		}, false},
		{"task on barrier", func() *Scenario {
			s := NewScenario("task", 5, 5)
			s.Grid.AddBarrier(Cell{2, 2})
			s.Grid.Tasks.Add(Cell{2, 2}, 1)
			return s
		}, false},
		{"duplicate id", func() *Scenario {
			s := NewScenario("dup", 5, 5)
			s.Grid.Tasks.Add(Cell{1, 1}, 1)
			s.Grid.Tasks.Add(Cell{2, 2}, 1)
			return s
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.build().Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidScenario) {
				t.Errorf("Validate() = %v, want ErrInvalidScenario", err)
			}
		})
	}
}

func TestGridReachable(t *testing.T) {
	g := NewGrid(5, 5)
	g.AddWall(Cell{2, 0}, Cell{2, 1}, Cell{2, 2}, Cell{2, 3}, Cell{2, 4})

	reach := g.Reachable(Cell{0, 0})
	if len(reach) != 10 {
		t.Errorf("Reachable from left half = %d cells, want 10", len(reach))
	}
	if reach[Cell{4, 4}] {
		t.Error("Right half should be unreachable")
	}
	if g.FreeCells() != 20 {
		t.Errorf("FreeCells = %d, want 20", g.FreeCells())
	}
}
