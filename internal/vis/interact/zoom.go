// Package interact handles board pan and zoom.
package interact

import (
	"image"

	"gioui.org/io/pointer"

	"github.com/elektrokombinacija/gridagent/internal/core"
)

const (
	minZoom = 0.25
	maxZoom = 8
)

// Camera maps grid cells to screen pixels.
type Camera struct {
	OffsetX  float32 // Screen position of cell (0,0)'s top-left corner
	OffsetY  float32
	CellSize float32 // Cell edge at zoom 1
	Zoom     float32

	// Manual is set once the user pans or zooms; Fit leaves the view alone
	// after that until Reset.
	Manual bool

	dragging     bool
	lastX, lastY float32
}

// NewCamera creates a camera with 40 px cells.
func NewCamera() *Camera {
	return &Camera{CellSize: 40, Zoom: 1}
}

// Reset returns to the fitted view.
func (c *Camera) Reset() {
	c.Zoom = 1
	c.Manual = false
}

// Cell returns the on-screen edge length of one cell.
func (c *Camera) Cell() float32 {
	return c.CellSize * c.Zoom
}

// CellRect returns the screen rectangle of a cell.
func (c *Camera) CellRect(cell core.Cell) image.Rectangle {
	s := c.Cell()
	x0 := c.OffsetX + float32(cell.Col)*s
	y0 := c.OffsetY + float32(cell.Row)*s
	return image.Rect(int(x0), int(y0), int(x0+s), int(y0+s))
}

// CellCenter returns the screen position of a cell's centre.
func (c *Camera) CellCenter(cell core.Cell) (x, y float32) {
	s := c.Cell()
	return c.OffsetX + (float32(cell.Col)+0.5)*s, c.OffsetY + (float32(cell.Row)+0.5)*s
}

// ScreenToCell returns the cell under a screen point.
func (c *Camera) ScreenToCell(x, y float32) core.Cell {
	s := c.Cell()
	col := (x - c.OffsetX) / s
	row := (y - c.OffsetY) / s
	return core.Cell{Col: floor(col), Row: floor(row)}
}

func floor(v float32) int {
	i := int(v)
	if v < 0 && float32(i) != v {
		i--
	}
	return i
}

// Fit sizes cells so a columns x rows board fills the view, centred.
// It does nothing once the user has adjusted the view.
func (c *Camera) Fit(columns, rows int, view image.Point, margin float32) {
	if c.Manual || columns <= 0 || rows <= 0 {
		return
	}
	availW := float32(view.X) - 2*margin
	availH := float32(view.Y) - 2*margin
	if availW <= 0 || availH <= 0 {
		return
	}

	c.CellSize = availW / float32(columns)
	if h := availH / float32(rows); h < c.CellSize {
		c.CellSize = h
	}
	c.Zoom = 1
	c.OffsetX = (float32(view.X) - c.CellSize*float32(columns)) / 2
	c.OffsetY = (float32(view.Y) - c.CellSize*float32(rows)) / 2
}

// HandleEvent processes pointer events: secondary-button drag pans, scroll
// zooms around the pointer.
func (c *Camera) HandleEvent(ev pointer.Event) {
	switch ev.Kind {
	case pointer.Press:
		if ev.Buttons.Contain(pointer.ButtonSecondary) || ev.Buttons.Contain(pointer.ButtonTertiary) {
			c.dragging = true
		}
		c.lastX, c.lastY = ev.Position.X, ev.Position.Y

	case pointer.Drag:
		if c.dragging {
			c.Pan(ev.Position.X-c.lastX, ev.Position.Y-c.lastY)
		}
		c.lastX, c.lastY = ev.Position.X, ev.Position.Y

	case pointer.Release:
		c.dragging = false

	case pointer.Scroll:
		switch {
		case ev.Scroll.Y > 0:
			c.ZoomBy(1/1.1, ev.Position.X, ev.Position.Y)
		case ev.Scroll.Y < 0:
			c.ZoomBy(1.1, ev.Position.X, ev.Position.Y)
		}
	}
}

// Pan moves the view by a screen delta.
func (c *Camera) Pan(dx, dy float32) {
	c.OffsetX += dx
	c.OffsetY += dy
	c.Manual = true
}

// ZoomBy zooms by factor, keeping the point under (cx, cy) fixed.
func (c *Camera) ZoomBy(factor, cx, cy float32) {
	// Board-relative position of the pivot, in zoom-1 pixels.
	wx := (cx - c.OffsetX) / c.Zoom
	wy := (cy - c.OffsetY) / c.Zoom

	c.Zoom *= factor
	if c.Zoom < minZoom {
		c.Zoom = minZoom
	}
	if c.Zoom > maxZoom {
		c.Zoom = maxZoom
	}

	c.OffsetX = cx - wx*c.Zoom
	c.OffsetY = cy - wy*c.Zoom
	c.Manual = true
}
