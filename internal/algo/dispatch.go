package algo

import (
	"errors"
	"log"

	"github.com/elektrokombinacija/gridagent/internal/core"
)

// Target is the task chosen by a dispatch round.
type Target struct {
	Task core.TaskID
	Cell core.Cell
	// Path excludes the starting cell and ends at Cell.
	Path core.Path
	Cost int

	Searches    int // searches run this round
	Expanded    int // nodes expanded across all searches
	Unreachable []core.Cell
}

// Dispatcher picks the nearest remaining task by path cost.
type Dispatcher struct {
	Strategy Strategy
	Logger   *log.Logger
}

// NewDispatcher creates a dispatcher. A nil logger uses log.Default().
func NewDispatcher(strategy Strategy, logger *log.Logger) *Dispatcher {
	if logger == nil {
		logger = log.Default()
	}
	return &Dispatcher{Strategy: strategy, Logger: logger}
}

// Select searches a path from from to every task in tasks and returns the
// cheapest. Tasks are tried in set order and only a strictly lower cost
// replaces the current best, so the first minimal task wins ties.
//
// Tasks whose search fails are reported and skipped. ErrNoReachableTask is returned
// when tasks is empty or nothing can be reached. Select never modifies tasks.
func (d *Dispatcher) Select(from core.Cell, tasks *core.TaskSet, topo core.Topology) (Target, error) {
	var (
		best  Target
		found bool
		round Target
	)

	for _, e := range tasks.Entries() {
		if e.Cell == from {
			// Collected on arrival; nothing to travel to.
			continue
		}

		res, err := d.Strategy.Search(from, e.Cell, topo)
		round.Searches++
		round.Expanded += res.Expanded
		if err != nil {
			// A failed search only drops this task from the round.
			if errors.Is(err, ErrNoPath) {
				d.logf("[WARN] no path to task %d at %v: %v", e.ID, e.Cell, err)
			} else {
				d.logf("[ERROR] search for task %d at %v failed: %v", e.ID, e.Cell, err)
			}
			round.Unreachable = append(round.Unreachable, e.Cell)
			continue
		}

		if !found || res.Cost < best.Cost {
			found = true
			best = Target{
				Task: e.ID,
				Cell: e.Cell,
				Path: res.Path[1:].Clone(),
				Cost: res.Cost,
			}
		}
	}

	if !found {
		return round, ErrNoReachableTask
	}

	best.Searches = round.Searches
	best.Expanded = round.Expanded
	best.Unreachable = round.Unreachable
	return best, nil
}

func (d *Dispatcher) logf(format string, args ...any) {
	if d.Logger != nil {
		d.Logger.Printf(format, args...)
	}
}
