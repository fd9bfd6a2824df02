// Package core defines domain models for the grid task simulator.
package core

import "fmt"

// Cell is a grid position (column, row).
type Cell struct {
	Col, Row int
}

// Add returns the cell offset by (dc, dr).
func (c Cell) Add(dc, dr int) Cell {
	return Cell{Col: c.Col + dc, Row: c.Row + dr}
}

// Less orders cells by column, then row.
func (c Cell) Less(o Cell) bool {
	if c.Col != o.Col {
		return c.Col < o.Col
	}
	return c.Row < o.Row
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.Col, c.Row)
}

// Manhattan returns |dx| + |dy| between two cells.
func Manhattan(a, b Cell) int {
	return abs(a.Col-b.Col) + abs(a.Row-b.Row)
}

// Adjacent reports whether a and b differ by one unit on exactly one axis.
func Adjacent(a, b Cell) bool {
	return Manhattan(a, b) == 1
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Direction is a unit move on the grid.
type Direction struct {
	Name   string
	DC, DR int
}

// Directions lists moves in expansion order: up, down, left, right.
var Directions = [4]Direction{
	{"up", 0, -1},
	{"down", 0, 1},
	{"left", -1, 0},
	{"right", 1, 0},
}

// Topology answers bounds and barrier queries for a cell.
type Topology interface {
	InBounds(c Cell) bool
	IsBarrier(c Cell) bool
}

// Passable reports whether c is in bounds and not a barrier.
func Passable(t Topology, c Cell) bool {
	return t.InBounds(c) && !t.IsBarrier(c)
}

// Neighbors returns the passable neighbours of c in Directions order.
func Neighbors(t Topology, c Cell) []Cell {
	neighbors := make([]Cell, 0, len(Directions))
	for _, d := range Directions {
		n := c.Add(d.DC, d.DR)
		if Passable(t, n) {
			neighbors = append(neighbors, n)
		}
	}
	return neighbors
}

// Path is an ordered sequence of cells.
type Path []Cell

// Clone returns a copy of the path.
func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	out := make(Path, len(p))
	copy(out, p)
	return out
}

// Last returns the final cell of the path.
func (p Path) Last() (Cell, bool) {
	if len(p) == 0 {
		return Cell{}, false
	}
	return p[len(p)-1], true
}

// Walkable reports whether p, starting after from, is a chain of
// 4-adjacent passable cells.
func (p Path) Walkable(from Cell, t Topology) bool {
	prev := from
	for _, c := range p {
		if !Adjacent(prev, c) || !Passable(t, c) {
			return false
		}
		prev = c
	}
	return true
}
