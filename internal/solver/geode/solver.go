// Package geode implements the branch-and-bound search that decides which robot to
// build next so that the most geodes are open when the horizon is reached.
package geode

import (
	"fmt"
	"strings"

	"github.com/napolitain/solver-geode/internal/models"
)

// Ordering selects the frontier priority
type Ordering int

const (
	// OrderByCurrent pops the state holding the most geodes right now
	OrderByCurrent Ordering = iota
	// OrderByBound pops the state with the highest upper bound (best-first)
	OrderByBound
)

// String returns the name used on the command line
func (o Ordering) String() string {
	switch o {
	case OrderByCurrent:
		return "current"
	case OrderByBound:
		return "bound"
	default:
		return "unknown"
	}
}

// ParseOrdering maps a command line name to an Ordering
func ParseOrdering(name string) (Ordering, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "current":
		return OrderByCurrent, nil
	case "bound":
		return OrderByBound, nil
	}
	return 0, fmt.Errorf("unknown ordering %q (want current or bound)", name)
}

// Options tunes a search. The zero value orders by current geodes with no node cap.
type Options struct {
	Ordering Ordering

	// MaxNodes caps the number of expanded states; 0 means unlimited.
	// A capped search returns the best value found so far with Truncated set.
	MaxNodes int
}

// Option configures Options
type Option func(*Options)

// WithOrdering sets the frontier priority
func WithOrdering(o Ordering) Option {
	return func(opts *Options) { opts.Ordering = o }
}

// WithMaxNodes caps the number of expanded states
func WithMaxNodes(n int) Option {
	return func(opts *Options) { opts.MaxNodes = n }
}

// Result is the outcome of one (blueprint, horizon) search
type Result struct {
	BlueprintID int
	Horizon     int
	MaxGeodes   int
	Plan        []Build

	// Search statistics
	Expanded  int
	Pruned    int
	Pushed    int
	Truncated bool
}

// Quality returns the blueprint's quality level: id times max geodes
func (r Result) Quality() int {
	return r.BlueprintID * r.MaxGeodes
}

// Solver searches a single blueprint
type Solver struct {
	Blueprint *models.Blueprint
	Options   Options
}

// NewSolver creates a solver for a blueprint
func NewSolver(bp *models.Blueprint, opts ...Option) *Solver {
	s := &Solver{Blueprint: bp}
	for _, opt := range opts {
		opt(&s.Options)
	}
	return s
}

// Solve returns the maximum number of geodes that can be open after horizon minutes.
// It is a pure function of the blueprint, the horizon and the options: the incumbent
// lives in this call only, so separate solvers may run concurrently.
func (s *Solver) Solve(horizon int) Result {
	result := Result{BlueprintID: s.Blueprint.ID, Horizon: horizon}
	if horizon <= 0 {
		return result
	}

	incumbent := 0
	var best *node

	queue := newFrontier()
	root := &node{state: NewState()}
	queue.Push(root, s.priority(root.state, horizon))
	result.Pushed++

	for queue.Len() > 0 {
		n := queue.Pop()

		if UpperBound(n.state, horizon) <= incumbent {
			result.Pruned++
			continue
		}

		if s.Options.MaxNodes > 0 && result.Expanded >= s.Options.MaxNodes {
			result.Truncated = true
			break
		}
		result.Expanded++

		// Geodes never decrease along a path, so the idle value of any visited
		// state is reachable and a valid incumbent.
		if v := n.state.IdleValue(horizon); v > incumbent || best == nil {
			incumbent = v
			best = n
		}

		for _, step := range Children(s.Blueprint, n.state, horizon) {
			if UpperBound(step.State, horizon) <= incumbent {
				result.Pruned++
				continue
			}
			child := &node{state: step.State, parent: n, robot: step.Robot}
			queue.Push(child, s.priority(child.state, horizon))
			result.Pushed++
		}
	}

	result.MaxGeodes = incumbent
	result.Plan = best.plan()
	return result
}

func (s *Solver) priority(st State, horizon int) int {
	if s.Options.Ordering == OrderByBound {
		return UpperBound(st, horizon)
	}
	return st.Resources[models.Target]
}

// plan replays the parent chain from the root to n
func (n *node) plan() []Build {
	if n == nil {
		return nil
	}

	var builds []Build
	for cur := n; cur.parent != nil; cur = cur.parent {
		// The robot was paid for in the minute before it came online
		builds = append(builds, Build{Minute: cur.state.Time - 1, Robot: cur.robot})
	}

	for i, j := 0, len(builds)-1; i < j; i, j = i+1, j-1 {
		builds[i], builds[j] = builds[j], builds[i]
	}
	return builds
}

// MaxGeodes is a convenience wrapper around NewSolver(bp).Solve(horizon)
func MaxGeodes(bp *models.Blueprint, horizon int) int {
	return NewSolver(bp).Solve(horizon).MaxGeodes
}
