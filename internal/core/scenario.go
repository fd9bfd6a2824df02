package core

import (
	"errors"
	"fmt"
)

// ErrInvalidScenario is returned by Scenario.Validate.
var ErrInvalidScenario = errors.New("invalid scenario")

// Scenario is a grid with tasks plus the agent's starting cell.
type Scenario struct {
	Name  string
	Grid  *Grid
	Start Cell
}

// NewScenario creates an empty scenario on a columns x rows grid.
func NewScenario(name string, columns, rows int) *Scenario {
	return &Scenario{
		Name: name,
		Grid: NewGrid(columns, rows),
	}
}

// Validate checks scenario consistency.
func (s *Scenario) Validate() error {
	if s.Grid == nil {
		return fmt.Errorf("%w: no grid", ErrInvalidScenario)
	}
	if s.Grid.Columns <= 0 || s.Grid.Rows <= 0 {
		return fmt.Errorf("%w: grid size %dx%d", ErrInvalidScenario, s.Grid.Columns, s.Grid.Rows)
	}
	if !s.Grid.InBounds(s.Start) {
		return fmt.Errorf("%w: start %v out of bounds", ErrInvalidScenario, s.Start)
	}
	if s.Grid.IsBarrier(s.Start) {
		return fmt.Errorf("%w: start %v is a barrier", ErrInvalidScenario, s.Start)
	}

	seen := make(map[TaskID]Cell)
	for _, e := range s.Grid.Tasks.Entries() {
		if !s.Grid.InBounds(e.Cell) {
			return fmt.Errorf("%w: task %d at %v out of bounds", ErrInvalidScenario, e.ID, e.Cell)
		}
		if s.Grid.IsBarrier(e.Cell) {
			return fmt.Errorf("%w: task %d at %v is a barrier", ErrInvalidScenario, e.ID, e.Cell)
		}
		if prev, dup := seen[e.ID]; dup {
			return fmt.Errorf("%w: task %d at both %v and %v", ErrInvalidScenario, e.ID, prev, e.Cell)
		}
		seen[e.ID] = e.Cell
	}
	return nil
}

// TaskByID finds the cell of a task.
func (s *Scenario) TaskByID(id TaskID) (Cell, bool) {
	for _, e := range s.Grid.Tasks.Entries() {
		if e.ID == id {
			return e.Cell, true
		}
	}
	return Cell{}, false
}

// Clone returns a deep copy, so one scenario can drive several runs.
func (s *Scenario) Clone() *Scenario {
	return &Scenario{
		Name:  s.Name,
		Grid:  s.Grid.Clone(),
		Start: s.Start,
	}
}
