package algo

import (
	"github.com/elektrokombinacija/gridagent/internal/core"
)

// IDAStar is the iterative-deepening strategy.
// It keeps only the current path in memory and re-explores cells across
// iterations instead of remembering them.
type IDAStar struct {
	// Bound stops the search once the threshold would exceed it.
	// Zero means no bound.
	Bound int
}

// NewIDAStar creates an IDA* strategy with the given threshold bound.
func NewIDAStar(bound int) *IDAStar {
	return &IDAStar{Bound: bound}
}

// Name returns the algorithm name.
func (s *IDAStar) Name() string { return "IDA*" }

// Search runs IDA* from start to goal.
func (s *IDAStar) Search(start, goal core.Cell, topo core.Topology) (Result, error) {
	// The threshold loop cannot tell a disconnected goal from a far one
	// and would walk every simple path up to the bound.
	if !connected(start, goal, topo) {
		return Result{}, noPath(ErrExhausted, start, goal)
	}

	w := &idaWalk{
		topo:   topo,
		goal:   goal,
		path:   core.Path{start},
		onPath: map[core.Cell]bool{start: true},
	}

	threshold := core.Manhattan(start, goal)
	for {
		next, found := w.probe(start, 0, threshold)
		if found {
			return Result{
				Path:     w.path.Clone(),
				Cost:     len(w.path) - 1,
				Found:    true,
				Expanded: w.expanded,
			}, nil
		}
		if next == unbounded {
			return Result{Expanded: w.expanded}, noPath(ErrExhausted, start, goal)
		}
		if s.Bound > 0 && next > s.Bound {
			return Result{Expanded: w.expanded}, noPath(ErrExhausted, start, goal)
		}
		threshold = next
	}
}

// idaWalk holds the state of one depth-first exploration.
type idaWalk struct {
	topo     core.Topology
	goal     core.Cell
	path     core.Path
	onPath   map[core.Cell]bool
	expanded int
}

// probe explores from node with g steps taken. It returns true when the goal
// was reached, otherwise the smallest f that exceeded threshold
// (unbounded if no branch was pruned).
func (w *idaWalk) probe(node core.Cell, g, threshold int) (int, bool) {
	f := g + core.Manhattan(node, w.goal)
	if f > threshold {
		return f, false
	}
	if node == w.goal {
		return 0, true
	}
	w.expanded++

	minNext := unbounded
	for _, neighbor := range core.Neighbors(w.topo, node) {
		if w.onPath[neighbor] {
			continue
		}

		w.path = append(w.path, neighbor)
		w.onPath[neighbor] = true

		t, found := w.probe(neighbor, g+1, threshold)
		if found {
			return 0, true
		}

		w.path = w.path[:len(w.path)-1]
		delete(w.onPath, neighbor)

		if t < minNext {
			minNext = t
		}
	}
	return minNext, false
}

// connected reports whether goal can be reached from start by a flood fill.
func connected(start, goal core.Cell, topo core.Topology) bool {
	if start == goal {
		return true
	}
	seen := map[core.Cell]bool{start: true}
	queue := []core.Cell{start}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		for _, n := range core.Neighbors(topo, c) {
			if n == goal {
				return true
			}
			if !seen[n] {
				seen[n] = true
				queue = append(queue, n)
			}
		}
	}
	return false
}
