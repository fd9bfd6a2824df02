package sim

import (
	"errors"
	"fmt"

	"github.com/elektrokombinacija/gridagent/internal/algo"
	"github.com/elektrokombinacija/gridagent/internal/core"
)

// ErrInvalidPath is returned by Assign for paths the agent cannot walk.
var ErrInvalidPath = errors.New("invalid path")

// State is the agent's motion state.
type State int

const (
	Idle   State = iota // No path, ignores ticks
	Moving              // Following a non-empty path
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Moving:
		return "Moving"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// EventKind classifies agent events.
type EventKind int

const (
	EventDispatched  EventKind = iota // A new target was chosen
	EventStepped                      // Moved one cell
	EventArrived                      // Reached a task cell
	EventUnreachable                  // A task had no path this round
	EventIdle                         // Stopped moving
)

func (k EventKind) String() string {
	switch k {
	case EventDispatched:
		return "dispatched"
	case EventStepped:
		return "stepped"
	case EventArrived:
		return "arrived"
	case EventUnreachable:
		return "unreachable"
	case EventIdle:
		return "idle"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event describes a change in agent state.
type Event struct {
	Kind     EventKind
	Position core.Cell
	Task     core.TaskID // Arrived, Dispatched
	Cell     core.Cell   // target or unreachable task cell
	Cost     int         // Dispatched: path cost
}

// Agent walks a grid and collects tasks, nearest first.
// It is not safe for concurrent use; Simulator serializes access.
type Agent struct {
	grid       *core.Grid
	dispatcher *algo.Dispatcher

	position  core.Cell
	path      core.Path
	moving    bool
	completed []core.TaskID
	pathCost  int

	dispatches  int
	searches    int
	expanded    int
	unreachable int

	// OnEvent, if set, receives every state change.
	OnEvent func(Event)
}

// NewAgent creates an idle agent at start. The agent removes tasks from
// grid.Tasks as it reaches them.
func NewAgent(grid *core.Grid, start core.Cell, dispatcher *algo.Dispatcher) *Agent {
	return &Agent{
		grid:       grid,
		dispatcher: dispatcher,
		position:   start,
	}
}

// Dispatch selects the nearest reachable task and starts moving toward it.
// It returns true if the agent is moving afterwards.
func (a *Agent) Dispatch() bool {
	// A task on the current cell counts as reached.
	a.collect()
	return a.dispatch()
}

// Move advances the agent one cell along its path. Idle agents ignore it.
func (a *Agent) Move() {
	if !a.moving {
		return
	}
	if len(a.path) == 0 {
		a.stop()
		return
	}

	next := a.path[0]
	a.path = a.path[1:]
	a.position = next
	a.pathCost++
	a.emit(Event{Kind: EventStepped, Position: next})

	if a.collect() {
		a.dispatch()
		return
	}
	if len(a.path) == 0 {
		a.stop()
	}
}

// Assign replaces the current path. The path must start next to the agent
// and cross only passable cells. An empty path leaves the agent idle.
func (a *Agent) Assign(path core.Path) error {
	if !path.Walkable(a.position, a.grid) {
		return fmt.Errorf("%w: %v from %v", ErrInvalidPath, path, a.position)
	}
	a.path = path.Clone()
	if len(a.path) == 0 {
		a.stop()
		return nil
	}
	a.moving = true
	return nil
}

// collect removes a task at the current cell, if any.
func (a *Agent) collect() bool {
	id, ok := a.grid.Tasks.Remove(a.position)
	if !ok {
		return false
	}
	a.completed = append(a.completed, id)
	a.emit(Event{Kind: EventArrived, Position: a.position, Task: id, Cell: a.position})
	return true
}

func (a *Agent) dispatch() bool {
	target, err := a.dispatcher.Select(a.position, a.grid.Tasks, a.grid)
	a.dispatches++
	a.searches += target.Searches
	a.expanded += target.Expanded
	a.unreachable += len(target.Unreachable)
	for _, c := range target.Unreachable {
		id, _ := a.grid.Tasks.Lookup(c)
		a.emit(Event{Kind: EventUnreachable, Position: a.position, Task: id, Cell: c})
	}

	if err != nil || len(target.Path) == 0 {
		a.stop()
		return false
	}

	a.path = target.Path
	a.moving = true
	a.emit(Event{Kind: EventDispatched, Position: a.position, Task: target.Task, Cell: target.Cell, Cost: target.Cost})
	return true
}

func (a *Agent) stop() {
	a.path = nil
	if a.moving {
		a.moving = false
		a.emit(Event{Kind: EventIdle, Position: a.position})
	}
}

func (a *Agent) emit(e Event) {
	if a.OnEvent != nil {
		a.OnEvent(e)
	}
}

// Position returns the current cell.
func (a *Agent) Position() core.Cell { return a.position }

// Moving reports whether the agent has a path to follow.
func (a *Agent) Moving() bool { return a.moving }

// State returns Moving or Idle.
func (a *Agent) State() State {
	if a.moving {
		return Moving
	}
	return Idle
}

// TasksCompleted returns the number of collected tasks.
func (a *Agent) TasksCompleted() int { return len(a.completed) }

// CompletedTasks returns task ids in completion order.
func (a *Agent) CompletedTasks() []core.TaskID {
	out := make([]core.TaskID, len(a.completed))
	copy(out, a.completed)
	return out
}

// PathCost returns the number of cells traversed so far.
func (a *Agent) PathCost() int { return a.pathCost }

// Path returns the remaining path.
func (a *Agent) Path() core.Path { return a.path.Clone() }

// SearchStats summarizes dispatch work done by the agent.
type SearchStats struct {
	Dispatches  int
	Searches    int
	Expanded    int
	Unreachable int
}

// SearchStats returns cumulative dispatch counters.
func (a *Agent) SearchStats() SearchStats {
	return SearchStats{
		Dispatches:  a.dispatches,
		Searches:    a.searches,
		Expanded:    a.expanded,
		Unreachable: a.unreachable,
	}
}
