// Package widgets provides Gio UI widgets for the visualizer.
package widgets

import (
	"image"
	"image/color"

	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/widget/material"

	"github.com/elektrokombinacija/gridagent/internal/vis/draw"
	"github.com/elektrokombinacija/gridagent/internal/vis/interact"
	"github.com/elektrokombinacija/gridagent/internal/vis/state"
)

// Board is the grid view: barriers, tasks, the agent and its planned path.
type Board struct {
	state  *state.State
	camera *interact.Camera
}

// NewBoard creates a new board widget.
func NewBoard(st *state.State, camera *interact.Camera) *Board {
	return &Board{
		state:  st,
		camera: camera,
	}
}

// SetState points the board at a new scenario.
func (b *Board) SetState(st *state.State) {
	b.state = st
}

// Layout renders the board.
func (b *Board) Layout(gtx layout.Context, th *material.Theme) layout.Dimensions {
	bounds := gtx.Constraints.Max
	defer clip.Rect(image.Rect(0, 0, bounds.X, bounds.Y)).Push(gtx.Ops).Pop()

	paint.Fill(gtx.Ops, color.NRGBA{R: 25, G: 28, B: 32, A: 255})

	b.handlePointerEvents(gtx)

	g := b.state.Grid
	snap := b.state.Snapshot
	b.camera.Fit(g.Columns, g.Rows, bounds, 12)

	draw.DrawGrid(gtx, g, b.camera)
	draw.DrawBarriers(gtx, g, b.camera)
	draw.DrawTasks(gtx, th, snap.Tasks, b.camera)
	draw.DrawPlannedPath(gtx, snap.Position, snap.Path, b.camera)
	draw.DrawAgent(gtx, snap.Position, snap.Moving, b.camera)

	return layout.Dimensions{Size: bounds}
}

func (b *Board) handlePointerEvents(gtx layout.Context) {
	area := clip.Rect(image.Rect(0, 0, gtx.Constraints.Max.X, gtx.Constraints.Max.Y)).Push(gtx.Ops)
	event.Op(gtx.Ops, b)
	area.Pop()

	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target:  b,
			Kinds:   pointer.Press | pointer.Drag | pointer.Release | pointer.Scroll,
			ScrollY: pointer.ScrollRange{Min: -100, Max: 100},
		})
		if !ok {
			break
		}
		if pe, ok := ev.(pointer.Event); ok {
			b.camera.HandleEvent(pe)
		}
	}
}
