package draw

import (
	"image/color"
	"math"

	"gioui.org/f32"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"

	"github.com/elektrokombinacija/gridagent/internal/core"
	"github.com/elektrokombinacija/gridagent/internal/vis/interact"
)

// Agent colors
var (
	ColorAgent      = color.NRGBA{R: 0, G: 90, B: 220, A: 255}
	ColorAgentIdle  = color.NRGBA{R: 90, G: 90, B: 110, A: 255}
	ColorPlannedWay = color.NRGBA{R: 0, G: 90, B: 220, A: 120}
)

// DrawAgent draws the agent as a disc inside its cell.
func DrawAgent(gtx layout.Context, pos core.Cell, moving bool, camera *interact.Camera) {
	col := ColorAgentIdle
	if moving {
		col = ColorAgent
	}

	rect := camera.CellRect(pos)
	inset := rect.Dx() / 6
	disc := rect.Inset(inset)
	paint.FillShape(gtx.Ops, col, clip.Ellipse(disc).Op(gtx.Ops))
}

// DrawPlannedPath draws the remaining path from the agent's cell through
// every path cell, centre to centre.
func DrawPlannedPath(gtx layout.Context, from core.Cell, path core.Path, camera *interact.Camera) {
	if len(path) == 0 {
		return
	}

	width := camera.Cell() / 8
	prevX, prevY := camera.CellCenter(from)
	for _, c := range path {
		x, y := camera.CellCenter(c)
		drawSegment(gtx, prevX, prevY, x, y, width, ColorPlannedWay)
		prevX, prevY = x, y
	}

	// Mark the target cell.
	last, _ := path.Last()
	target := camera.CellRect(last)
	dot := target.Inset(target.Dx() * 3 / 8)
	paint.FillShape(gtx.Ops, ColorPlannedWay, clip.Ellipse(dot).Op(gtx.Ops))
}

func drawSegment(gtx layout.Context, x1, y1, x2, y2, width float32, col color.NRGBA) {
	dx := x2 - x1
	dy := y2 - y1
	length := float32(math.Sqrt(float64(dx*dx + dy*dy)))
	if length < 0.1 {
		return
	}

	dx /= length
	dy /= length
	px := -dy * width / 2
	py := dx * width / 2

	var path clip.Path
	path.Begin(gtx.Ops)
	path.MoveTo(f32.Pt(x1+px, y1+py))
	path.LineTo(f32.Pt(x2+px, y2+py))
	path.LineTo(f32.Pt(x2-px, y2-py))
	path.LineTo(f32.Pt(x1-px, y1-py))
	path.Close()

	paint.FillShape(gtx.Ops, col, clip.Outline{Path: path.End()}.Op())
}
