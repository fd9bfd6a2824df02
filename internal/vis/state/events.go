package state

import (
	"fmt"
	"sync"

	"github.com/elektrokombinacija/gridagent/internal/sim"
)

// EventLog keeps the most recent agent events as display lines.
type EventLog struct {
	mu    sync.Mutex
	max   int
	lines []string
}

// NewEventLog creates a log holding up to max lines; max <= 0 means 8.
func NewEventLog(max int) *EventLog {
	if max <= 0 {
		max = 8
	}
	return &EventLog{max: max}
}

// OnEvent records an event. Steps are not recorded.
func (l *EventLog) OnEvent(e sim.Event) {
	var line string
	switch e.Kind {
	case sim.EventDispatched:
		line = fmt.Sprintf("-> task %d at %v (%d)", e.Task, e.Cell, e.Cost)
	case sim.EventArrived:
		line = fmt.Sprintf("collected task %d", e.Task)
	case sim.EventUnreachable:
		line = fmt.Sprintf("task %d unreachable", e.Task)
	case sim.EventIdle:
		line = fmt.Sprintf("idle at %v", e.Position)
	default:
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, line)
	if len(l.lines) > l.max {
		l.lines = l.lines[len(l.lines)-l.max:]
	}
}

// Lines returns recorded lines, oldest first.
func (l *EventLog) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}
