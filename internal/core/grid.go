package core

// Grid is a rectangular board with barrier cells and task locations.
type Grid struct {
	Columns  int
	Rows     int
	barriers map[Cell]bool
	Tasks    *TaskSet
}

// NewGrid creates an empty grid.
func NewGrid(columns, rows int) *Grid {
	return &Grid{
		Columns:  columns,
		Rows:     rows,
		barriers: make(map[Cell]bool),
		Tasks:    NewTaskSet(),
	}
}

// InBounds checks if c lies on the grid.
func (g *Grid) InBounds(c Cell) bool {
	return c.Col >= 0 && c.Col < g.Columns && c.Row >= 0 && c.Row < g.Rows
}

// IsBarrier checks if c is blocked.
func (g *Grid) IsBarrier(c Cell) bool {
	return g.barriers[c]
}

// AddBarrier blocks cell c. Out-of-bounds cells are ignored.
func (g *Grid) AddBarrier(c Cell) {
	if g.InBounds(c) {
		g.barriers[c] = true
	}
}

// AddWall blocks every cell in cells.
func (g *Grid) AddWall(cells ...Cell) {
	for _, c := range cells {
		g.AddBarrier(c)
	}
}

// Barriers returns barrier cells sorted by column, then row.
func (g *Grid) Barriers() []Cell {
	out := make([]Cell, 0, len(g.barriers))
	for x := 0; x < g.Columns; x++ {
		for y := 0; y < g.Rows; y++ {
			if c := (Cell{Col: x, Row: y}); g.barriers[c] {
				out = append(out, c)
			}
		}
	}
	return out
}

// FreeCells counts cells that are in bounds and not barriers.
func (g *Grid) FreeCells() int {
	return g.Columns*g.Rows - len(g.barriers)
}

// Reachable returns every passable cell connected to from.
func (g *Grid) Reachable(from Cell) map[Cell]bool {
	seen := make(map[Cell]bool)
	if !Passable(g, from) {
		return seen
	}
	seen[from] = true
	queue := []Cell{from}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		for _, n := range Neighbors(g, c) {
			if !seen[n] {
				seen[n] = true
				queue = append(queue, n)
			}
		}
	}
	return seen
}

// Clone returns a deep copy of the grid, including its tasks.
func (g *Grid) Clone() *Grid {
	out := NewGrid(g.Columns, g.Rows)
	for c := range g.barriers {
		out.barriers[c] = true
	}
	out.Tasks = g.Tasks.Clone()
	return out
}
