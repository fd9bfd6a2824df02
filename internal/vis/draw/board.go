// Package draw provides rendering functions for the grid board.
package draw

import (
	"image"
	"image/color"
	"strconv"

	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/widget/material"

	"github.com/elektrokombinacija/gridagent/internal/core"
	"github.com/elektrokombinacija/gridagent/internal/vis/interact"
)

// Board colors
var (
	ColorBackground = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	ColorGridLine   = color.NRGBA{R: 200, G: 200, B: 200, A: 255}
	ColorBarrier    = color.NRGBA{R: 0, G: 0, B: 0, A: 255}
	ColorTask       = color.NRGBA{R: 255, G: 0, B: 0, A: 255}
	ColorTaskText   = color.NRGBA{R: 0, G: 0, B: 0, A: 255}
)

// DrawGrid fills the board and outlines every cell.
func DrawGrid(gtx layout.Context, g *core.Grid, camera *interact.Camera) {
	board := camera.CellRect(core.Cell{}).Union(camera.CellRect(core.Cell{Col: g.Columns - 1, Row: g.Rows - 1}))
	paint.FillShape(gtx.Ops, ColorBackground, clip.Rect(board).Op())

	for col := 0; col <= g.Columns; col++ {
		x := camera.CellRect(core.Cell{Col: col}).Min.X
		rect := image.Rect(x, board.Min.Y, x+1, board.Max.Y)
		paint.FillShape(gtx.Ops, ColorGridLine, clip.Rect(rect).Op())
	}
	for row := 0; row <= g.Rows; row++ {
		y := camera.CellRect(core.Cell{Row: row}).Min.Y
		rect := image.Rect(board.Min.X, y, board.Max.X, y+1)
		paint.FillShape(gtx.Ops, ColorGridLine, clip.Rect(rect).Op())
	}
}

// DrawBarriers fills barrier cells.
func DrawBarriers(gtx layout.Context, g *core.Grid, camera *interact.Camera) {
	for _, c := range g.Barriers() {
		paint.FillShape(gtx.Ops, ColorBarrier, clip.Rect(camera.CellRect(c)).Op())
	}
}

// DrawTasks fills task cells and labels them with their number.
func DrawTasks(gtx layout.Context, th *material.Theme, tasks []core.Entry, camera *interact.Camera) {
	for _, t := range tasks {
		rect := camera.CellRect(t.Cell)
		paint.FillShape(gtx.Ops, ColorTask, clip.Rect(rect).Op())
		drawLabel(gtx, th, rect, strconv.Itoa(int(t.ID)), ColorTaskText)
	}
}

func drawLabel(gtx layout.Context, th *material.Theme, rect image.Rectangle, text string, col color.NRGBA) {
	defer op.Offset(rect.Min).Push(gtx.Ops).Pop()

	gtx.Constraints = layout.Exact(rect.Size())
	layout.Center.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		label := material.Label(th, 14, text)
		label.Color = col
		return label.Layout(gtx)
	})
}
