package widgets

import (
	"fmt"
	"image"
	"image/color"

	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"

	"github.com/elektrokombinacija/gridagent/internal/vis/interact"
	"github.com/elektrokombinacija/gridagent/internal/vis/state"
)

// Toolbar provides the Start control and playback buttons.
type Toolbar struct {
	state  *state.State
	camera *interact.Camera

	// OnNew, if set, enables the New button.
	OnNew func()

	startBtn     widget.Clickable
	pauseBtn     widget.Clickable
	speedUpBtn   widget.Clickable
	speedDownBtn widget.Clickable
	viewBtn      widget.Clickable
	newBtn       widget.Clickable
}

// NewToolbar creates a new toolbar.
func NewToolbar(st *state.State, camera *interact.Camera) *Toolbar {
	return &Toolbar{
		state:  st,
		camera: camera,
	}
}

// SetState points the toolbar at a new scenario.
func (t *Toolbar) SetState(st *state.State) {
	t.state = st
}

// Layout renders the toolbar.
func (t *Toolbar) Layout(gtx layout.Context, th *material.Theme) layout.Dimensions {
	height := gtx.Dp(unit.Dp(48))

	rect := image.Rect(0, 0, gtx.Constraints.Max.X, height)
	paint.FillShape(gtx.Ops, color.NRGBA{R: 40, G: 43, B: 48, A: 255}, clip.Rect(rect).Op())

	t.handleClicks(gtx)

	gtx.Constraints.Max.Y = height
	layout.Inset{Left: unit.Dp(10), Right: unit.Dp(10), Top: unit.Dp(8), Bottom: unit.Dp(8)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				if !t.state.Started() {
					return t.button(gtx, th, &t.startBtn, "Start", true)
				}
				label := "Pause"
				if !t.state.Pacer.Running {
					label = "Resume"
				}
				return t.button(gtx, th, &t.pauseBtn, label, false)
			}),
			layout.Rigid(t.separator),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return t.button(gtx, th, &t.speedDownBtn, "-", false)
			}),
			layout.Rigid(layout.Spacer{Width: unit.Dp(4)}.Layout),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				label := material.Label(th, 12, fmt.Sprintf("%.2gx", t.state.Pacer.Speed))
				label.Color = color.NRGBA{R: 150, G: 180, B: 200, A: 255}
				return label.Layout(gtx)
			}),
			layout.Rigid(layout.Spacer{Width: unit.Dp(4)}.Layout),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return t.button(gtx, th, &t.speedUpBtn, "+", false)
			}),
			layout.Rigid(t.separator),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return t.button(gtx, th, &t.viewBtn, "Fit", false)
			}),
			layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
				return layout.Dimensions{}
			}),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				if t.OnNew == nil {
					return layout.Dimensions{}
				}
				return t.button(gtx, th, &t.newBtn, "New", false)
			}),
		)
	})
	return layout.Dimensions{Size: image.Point{X: gtx.Constraints.Max.X, Y: height}}
}

func (t *Toolbar) separator(gtx layout.Context) layout.Dimensions {
	return layout.Inset{Left: unit.Dp(8), Right: unit.Dp(8)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		rect := image.Rect(0, 0, 1, 24)
		paint.FillShape(gtx.Ops, color.NRGBA{R: 60, G: 65, B: 70, A: 255}, clip.Rect(rect).Op())
		return layout.Dimensions{Size: image.Point{X: 1, Y: 24}}
	})
}

func (t *Toolbar) button(gtx layout.Context, th *material.Theme, btn *widget.Clickable, text string, primary bool) layout.Dimensions {
	bg := color.NRGBA{R: 55, G: 58, B: 65, A: 255}
	if primary {
		bg = color.NRGBA{R: 0, G: 200, B: 0, A: 255}
	}
	if btn.Hovered() {
		bg.R = minU8(bg.R, 240) + 15
		bg.G = minU8(bg.G, 240) + 15
		bg.B = minU8(bg.B, 240) + 15
	}

	return btn.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Background{}.Layout(gtx,
			func(gtx layout.Context) layout.Dimensions {
				sz := gtx.Constraints.Min
				paint.FillShape(gtx.Ops, bg, clip.Rect(image.Rectangle{Max: sz}).Op())
				return layout.Dimensions{Size: sz}
			},
			func(gtx layout.Context) layout.Dimensions {
				return layout.UniformInset(unit.Dp(6)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
					label := material.Label(th, 12, text)
					label.Color = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
					return label.Layout(gtx)
				})
			},
		)
	})
}

func (t *Toolbar) handleClicks(gtx layout.Context) {
	for t.startBtn.Clicked(gtx) {
		t.state.Start(gtx.Now)
	}
	for t.pauseBtn.Clicked(gtx) {
		t.state.Pacer.TogglePause(gtx.Now)
	}
	for t.speedUpBtn.Clicked(gtx) {
		t.state.Pacer.SetSpeed(t.state.Pacer.Speed * 2)
	}
	for t.speedDownBtn.Clicked(gtx) {
		t.state.Pacer.SetSpeed(t.state.Pacer.Speed / 2)
	}
	for t.viewBtn.Clicked(gtx) {
		t.camera.Reset()
	}
	for t.newBtn.Clicked(gtx) {
		if t.OnNew != nil {
			t.OnNew()
		}
	}
}

func minU8(a, b uint8) uint8 {
	if a < b {
		return a
	}
	return b
}
