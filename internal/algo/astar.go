package algo

import (
	"container/heap"

	"github.com/elektrokombinacija/gridagent/internal/core"
)

// astarNode for priority queue.
type astarNode struct {
	cell  core.Cell
	g     int // Steps from start
	f     int // g + h
	index int // heap index
}

// astarHeap implements heap.Interface.
// Ties on f fall back to cell order (column, then row), then lower g.
type astarHeap []*astarNode

func (h astarHeap) Len() int { return len(h) }
func (h astarHeap) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	if h[i].cell != h[j].cell {
		return h[i].cell.Less(h[j].cell)
	}
	return h[i].g < h[j].g
}
func (h astarHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *astarHeap) Push(x any) {
	n := x.(*astarNode)
	n.index = len(*h)
	*h = append(*h, n)
}
func (h *astarHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*h = old[0 : n-1]
	return x
}

// AStar is the best-first strategy with a Manhattan heuristic.
type AStar struct{}

// NewAStar creates an A* strategy.
func NewAStar() *AStar {
	return &AStar{}
}

// Name returns the algorithm name.
func (a *AStar) Name() string { return "A*" }

// Search runs A* from start to goal.
//
// A cell is pushed again only when a strictly shorter route to it is found.
// Older heap entries for that cell are skipped when popped.
func (a *AStar) Search(start, goal core.Cell, topo core.Topology) (Result, error) {
	open := &astarHeap{}
	heap.Init(open)
	heap.Push(open, &astarNode{cell: start, g: 0, f: core.Manhattan(start, goal)})

	gScore := map[core.Cell]int{start: 0}
	cameFrom := make(map[core.Cell]core.Cell)
	expanded := 0

	for open.Len() > 0 {
		current := heap.Pop(open).(*astarNode)

		// Stale entry superseded by a cheaper push
		if current.g > gScore[current.cell] {
			continue
		}

		if current.cell == goal {
			path := reconstructPath(cameFrom, start, goal)
			return Result{
				Path:     path,
				Cost:     current.g,
				Found:    true,
				Expanded: expanded,
			}, nil
		}
		expanded++

		for _, neighbor := range core.Neighbors(topo, current.cell) {
			tentative := current.g + 1
			if old, seen := gScore[neighbor]; seen && tentative >= old {
				continue
			}
			gScore[neighbor] = tentative
			cameFrom[neighbor] = current.cell
			heap.Push(open, &astarNode{
				cell: neighbor,
				g:    tentative,
				f:    tentative + core.Manhattan(neighbor, goal),
			})
		}
	}

	return Result{Expanded: expanded}, noPath(ErrNoPath, start, goal)
}

// reconstructPath walks predecessor links back from goal and reverses them.
func reconstructPath(cameFrom map[core.Cell]core.Cell, start, goal core.Cell) core.Path {
	path := core.Path{goal}
	for current := goal; current != start; {
		prev, ok := cameFrom[current]
		if !ok {
			break
		}
		path = append(path, prev)
		current = prev
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
