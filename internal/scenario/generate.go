// Package scenario creates, loads and watches grid scenarios.
package scenario

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/elektrokombinacija/gridagent/internal/core"
)

// ErrTooCrowded is returned when tasks and barriers do not fit on the grid.
var ErrTooCrowded = errors.New("not enough free cells")

// ErrUnreachable is returned when RequireReachable placement keeps failing.
var ErrUnreachable = errors.New("could not place reachable tasks")

// Params defines parameters for scenario generation.
type Params struct {
	Name     string
	Seed     int64
	Columns  int
	Rows     int
	Tasks    int
	Barriers int
	Start    core.Cell

	// Retry placement until every task is reachable from Start.
	RequireReachable bool
	// Placement attempts before giving up; zero means 100.
	MaxAttempts int
}

// DefaultParams matches the classic 800x600 window with 40 px cells.
func DefaultParams() Params {
	return Params{
		Seed:     1,
		Columns:  20,
		Rows:     15,
		Tasks:    5,
		Barriers: 15,
	}
}

// Generate places barriers and tasks at random. Tasks are numbered 1..n in
// placement order. The start cell is never used.
func Generate(params Params) (*core.Scenario, error) {
	if params.Columns <= 0 || params.Rows <= 0 {
		return nil, fmt.Errorf("%w: grid size %dx%d", core.ErrInvalidScenario, params.Columns, params.Rows)
	}
	if params.Tasks < 0 || params.Barriers < 0 {
		return nil, fmt.Errorf("%w: negative counts", core.ErrInvalidScenario)
	}
	if params.Tasks+params.Barriers > params.Columns*params.Rows-1 {
		return nil, fmt.Errorf("%w: %d tasks + %d barriers on %dx%d",
			ErrTooCrowded, params.Tasks, params.Barriers, params.Columns, params.Rows)
	}

	attempts := params.MaxAttempts
	if attempts <= 0 {
		attempts = 100
	}

	rng := rand.New(rand.NewSource(params.Seed))
	for i := 0; i < attempts; i++ {
		s, err := place(params, rng)
		if err != nil {
			return nil, err
		}
		if !params.RequireReachable || allReachable(s) {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w after %d attempts", ErrUnreachable, attempts)
}

func place(params Params, rng *rand.Rand) (*core.Scenario, error) {
	name := params.Name
	if name == "" {
		name = fmt.Sprintf("grid_%dx%d_%d", params.Columns, params.Rows, params.Seed)
	}

	s := core.NewScenario(name, params.Columns, params.Rows)
	s.Start = params.Start
	if !s.Grid.InBounds(s.Start) {
		return nil, fmt.Errorf("%w: start %v out of bounds", core.ErrInvalidScenario, s.Start)
	}

	// Shuffle every cell except the start, then take barriers and tasks
	// from the front.
	cells := make([]core.Cell, 0, params.Columns*params.Rows-1)
	for row := 0; row < params.Rows; row++ {
		for col := 0; col < params.Columns; col++ {
			c := core.Cell{Col: col, Row: row}
			if c != s.Start {
				cells = append(cells, c)
			}
		}
	}
	rng.Shuffle(len(cells), func(i, j int) { cells[i], cells[j] = cells[j], cells[i] })

	for _, c := range cells[:params.Barriers] {
		s.Grid.AddBarrier(c)
	}
	for i, c := range cells[params.Barriers : params.Barriers+params.Tasks] {
		s.Grid.Tasks.Add(c, core.TaskID(i+1))
	}
	return s, nil
}

func allReachable(s *core.Scenario) bool {
	reach := s.Grid.Reachable(s.Start)
	for _, c := range s.Grid.Tasks.Cells() {
		if !reach[c] {
			return false
		}
	}
	return true
}
