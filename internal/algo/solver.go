// Package algo implements shortest-path search and task dispatch on a grid.
package algo

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/elektrokombinacija/gridagent/internal/core"
)

// Strategy is the interface for shortest-path search algorithms.
type Strategy interface {
	// Search finds a minimum-length path from start to goal.
	// The returned path includes both start and goal.
	Search(start, goal core.Cell, topo core.Topology) (Result, error)

	// Name returns the algorithm name.
	Name() string
}

// Result is the outcome of a single search.
type Result struct {
	Path     core.Path // start..goal inclusive
	Cost     int       // number of steps, len(Path)-1
	Found    bool
	Expanded int // nodes expanded, for benchmarking
}

var (
	ErrNoPath          = errors.New("no path found")
	ErrExhausted       = errors.New("search space exhausted")
	ErrNoReachableTask = errors.New("no reachable task")
)

// SearchError reports a failed search for a specific start/goal pair.
type SearchError struct {
	Kind  error
	Start core.Cell
	Goal  core.Cell
}

func (e *SearchError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %v -> %v", e.Kind.Error(), e.Start, e.Goal)
}

func (e *SearchError) Unwrap() error { return e.Kind }

// Is makes an exhausted search match ErrNoPath as well.
func (e *SearchError) Is(target error) bool {
	return e.Kind == ErrExhausted && target == ErrNoPath
}

func noPath(kind error, start, goal core.Cell) error {
	return &SearchError{Kind: kind, Start: start, Goal: goal}
}

// unbounded marks "no candidate threshold" in IDA*.
const unbounded = math.MaxInt

// Strategy names accepted by NewStrategy.
const (
	NameAStar   = "astar"
	NameIDAStar = "idastar"
)

// StrategyNames lists the registered strategies.
func StrategyNames() []string {
	return []string{NameAStar, NameIDAStar}
}

// NewStrategy returns the strategy registered under name.
// bound is passed to IDA* and ignored by A*.
func NewStrategy(name string, bound int) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case NameAStar, "a*", "bestfirst":
		return NewAStar(), nil
	case NameIDAStar, "ida*", "iterative":
		return NewIDAStar(bound), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q (want one of %s)", name, strings.Join(StrategyNames(), ", "))
	}
}

// BoundFor returns the IDA* threshold bound for a grid: no simple path can
// take more steps than there are free cells minus one.
func BoundFor(g *core.Grid) int {
	if n := g.FreeCells() - 1; n > 0 {
		return n
	}
	return 1
}
