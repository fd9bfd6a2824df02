package widgets

import (
	"fmt"
	"image"
	"image/color"

	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget/material"

	"github.com/elektrokombinacija/gridagent/internal/sim"
	"github.com/elektrokombinacija/gridagent/internal/vis/state"
)

// StatusWidth is the width of the status panel in dp.
const StatusWidth = 240

// Status is the side panel with run statistics and recent events.
type Status struct {
	state *state.State
}

// NewStatus creates a new status panel.
func NewStatus(st *state.State) *Status {
	return &Status{state: st}
}

// SetState points the panel at a new scenario.
func (s *Status) SetState(st *state.State) {
	s.state = st
}

// StatusLines formats a snapshot for display.
func StatusLines(snap sim.Snapshot) []string {
	completed := fmt.Sprint(snap.CompletedTasks)
	if snap.CompletedTasks == nil {
		completed = "[]"
	}

	mode := "Waiting for start"
	switch {
	case snap.Moving:
		mode = "Moving"
	case snap.Started:
		mode = "Idle"
	}

	return []string{
		fmt.Sprintf("Algorithm: %s Search", snap.Strategy),
		fmt.Sprintf("Tasks Completed: %d", snap.TasksCompleted),
		fmt.Sprintf("Position: %v", snap.Position),
		fmt.Sprintf("Completed Tasks: %s", completed),
		fmt.Sprintf("Total Path Cost: %d", snap.PathCost),
		fmt.Sprintf("Remaining Tasks: %d", len(snap.Tasks)),
		fmt.Sprintf("State: %s", mode),
	}
}

// Layout renders the panel.
func (s *Status) Layout(gtx layout.Context, th *material.Theme) layout.Dimensions {
	width := gtx.Dp(unit.Dp(StatusWidth))
	gtx.Constraints = layout.Exact(image.Pt(width, gtx.Constraints.Max.Y))

	rect := image.Rect(0, 0, width, gtx.Constraints.Max.Y)
	paint.FillShape(gtx.Ops, color.NRGBA{R: 35, G: 38, B: 42, A: 255}, clip.Rect(rect).Op())

	var children []layout.FlexChild
	for _, line := range StatusLines(s.state.Snapshot) {
		children = append(children, s.line(th, line, 14, color.NRGBA{R: 220, G: 220, B: 220, A: 255}))
	}

	children = append(children,
		layout.Rigid(layout.Spacer{Height: unit.Dp(16)}.Layout),
		s.line(th, "Recent events", 12, color.NRGBA{R: 150, G: 180, B: 200, A: 255}),
	)
	for _, line := range s.state.Events.Lines() {
		children = append(children, s.line(th, line, 12, color.NRGBA{R: 170, G: 170, B: 170, A: 255}))
	}

	layout.Inset{Left: unit.Dp(10), Right: unit.Dp(10), Top: unit.Dp(12)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Vertical}.Layout(gtx, children...)
	})
	return layout.Dimensions{Size: gtx.Constraints.Max}
}

func (s *Status) line(th *material.Theme, text string, size unit.Sp, col color.NRGBA) layout.FlexChild {
	return layout.Rigid(func(gtx layout.Context) layout.Dimensions {
		return layout.Inset{Bottom: unit.Dp(6)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
			label := material.Label(th, size, text)
			label.Color = col
			return label.Layout(gtx)
		})
	})
}
