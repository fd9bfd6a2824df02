// Package state holds what the visualizer shows between frames.
package state

import (
	"time"

	"github.com/elektrokombinacija/gridagent/internal/core"
	"github.com/elektrokombinacija/gridagent/internal/sim"
)

// State ties a simulator to frame pacing.
type State struct {
	Sim    *sim.Simulator
	Grid   *core.Grid
	Pacer  *Pacer
	Events *EventLog

	// Snapshot is refreshed by Update and read by the widgets.
	Snapshot sim.Snapshot
}

// NewState creates visualization state for a simulator. events may be nil.
func NewState(s *sim.Simulator, delay time.Duration, events *EventLog) *State {
	if events == nil {
		events = NewEventLog(0)
	}
	st := &State{
		Sim:    s,
		Grid:   s.Grid(),
		Pacer:  NewPacer(delay),
		Events: events,
	}
	st.Snapshot = s.Snapshot()
	return st
}

// Started reports whether the Start control was used.
func (s *State) Started() bool {
	return s.Snapshot.Started
}

// Start dispatches the agent and begins pacing. Later calls do nothing.
func (s *State) Start(now time.Time) {
	if s.Snapshot.Started {
		return
	}
	s.Sim.BeginDispatch()
	s.Pacer.Start(now)
	s.Snapshot = s.Sim.Snapshot()
}

// Update advances the agent if a move is due. It returns true while the
// agent is still moving, so the caller keeps redrawing.
func (s *State) Update(now time.Time) bool {
	if s.Snapshot.Started && s.Snapshot.Moving && s.Pacer.Due(now) {
		s.Sim.AdvanceOneTick()
		s.Snapshot = s.Sim.Snapshot()
	}
	return s.Animating()
}

// Animating reports whether frames should keep coming.
func (s *State) Animating() bool {
	return s.Snapshot.Moving && s.Pacer.Running
}
