// Package observer fans agent events out to display listeners.
package observer

import (
	"github.com/elektrokombinacija/gridagent/internal/sim"
)

// Observer is the interface for observing agent execution.
type Observer interface {
	// OnEvent is called for every agent state change, with the simulator
	// lock held. It must not call back into the simulator.
	OnEvent(e sim.Event)
}

// Func adapts a function to the Observer interface.
type Func func(sim.Event)

// OnEvent calls f(e).
func (f Func) OnEvent(e sim.Event) { f(e) }

// Attach makes cfg deliver events to every observer in order, after any hook
// already set on cfg.
func Attach(cfg *sim.SimulationConfig, observers ...Observer) {
	prev := cfg.OnEvent
	cfg.OnEvent = func(e sim.Event) {
		if prev != nil {
			prev(e)
		}
		for _, o := range observers {
			o.OnEvent(e)
		}
	}
}
