// Package vis implements a Gio-based view of the task-collecting agent.
package vis

import (
	"fmt"
	"image/color"
	"log"
	"time"

	"gioui.org/app"
	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/paint"
	"gioui.org/widget/material"

	"github.com/elektrokombinacija/gridagent/internal/sim"
	"github.com/elektrokombinacija/gridagent/internal/vis/interact"
	"github.com/elektrokombinacija/gridagent/internal/vis/observer"
	"github.com/elektrokombinacija/gridagent/internal/vis/state"
	"github.com/elektrokombinacija/gridagent/internal/vis/widgets"
)

// SimFactory builds a fresh simulator whose events reach the observers.
type SimFactory func(observers ...observer.Observer) (*sim.Simulator, error)

// App is the main visualization application.
type App struct {
	newSim SimFactory
	delay  time.Duration
	logger *log.Logger

	state   *state.State
	theme   *material.Theme
	camera  *interact.Camera
	board   *widgets.Board
	status  *widgets.Status
	toolbar *widgets.Toolbar
}

// NewApp creates the application with a first scenario from newSim.
// delay is the pause between agent moves.
func NewApp(newSim SimFactory, delay time.Duration, logger *log.Logger) (*App, error) {
	if logger == nil {
		logger = log.Default()
	}
	a := &App{
		newSim: newSim,
		delay:  delay,
		logger: logger,
		theme:  material.NewTheme(),
		camera: interact.NewCamera(),
	}

	st, err := a.buildState()
	if err != nil {
		return nil, err
	}
	a.state = st
	a.board = widgets.NewBoard(st, a.camera)
	a.status = widgets.NewStatus(st)
	a.toolbar = widgets.NewToolbar(st, a.camera)
	a.toolbar.OnNew = a.reload
	return a, nil
}

func (a *App) buildState() (*state.State, error) {
	events := state.NewEventLog(10)
	s, err := a.newSim(events)
	if err != nil {
		return nil, fmt.Errorf("create simulator: %w", err)
	}
	return state.NewState(s, a.delay, events), nil
}

// reload swaps in a new scenario; on failure the current one stays.
func (a *App) reload() {
	st, err := a.buildState()
	if err != nil {
		a.logger.Printf("[ERROR] new scenario: %v", err)
		return
	}
	a.state = st
	a.board.SetState(st)
	a.status.SetState(st)
	a.toolbar.SetState(st)
	a.camera.Reset()
}

// Run starts the application event loop.
func (a *App) Run(w *app.Window) error {
	var ops op.Ops

	tag := new(int)

	for {
		switch e := w.Event().(type) {
		case app.DestroyEvent:
			return e.Err

		case app.FrameEvent:
			gtx := app.NewContext(&ops, e)

			for {
				ev, ok := gtx.Event(key.Filter{Focus: tag, Optional: key.ModShift})
				if !ok {
					break
				}
				if ke, ok := ev.(key.Event); ok && ke.State == key.Press {
					a.handleKeyEvent(ke, gtx.Now)
				}
			}

			event.Op(gtx.Ops, tag)

			a.state.Update(gtx.Now)

			a.layout(gtx)
			e.Frame(gtx.Ops)

			// Start may have been clicked during layout.
			if a.state.Animating() {
				w.Invalidate()
			}
		}
	}
}

func (a *App) handleKeyEvent(e key.Event, now time.Time) {
	switch e.Name {
	case key.NameSpace, key.NameReturn:
		if !a.state.Started() {
			a.state.Start(now)
		} else {
			a.state.Pacer.TogglePause(now)
		}
	case "+", "=":
		a.state.Pacer.SetSpeed(a.state.Pacer.Speed * 2)
	case "-":
		a.state.Pacer.SetSpeed(a.state.Pacer.Speed / 2)
	case key.NameHome, "F":
		a.camera.Reset()
	case "N":
		a.reload()
	}
}

func (a *App) layout(gtx layout.Context) layout.Dimensions {
	paint.Fill(gtx.Ops, color.NRGBA{R: 30, G: 30, B: 35, A: 255})

	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return a.toolbar.Layout(gtx, a.theme)
		}),
		layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
			return layout.Flex{Axis: layout.Horizontal}.Layout(gtx,
				layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
					return a.board.Layout(gtx, a.theme)
				}),
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					return a.status.Layout(gtx, a.theme)
				}),
			)
		}),
	)
}
