package geode

import (
	"fmt"

	"github.com/napolitain/solver-geode/internal/models"
)

// Build is one step of a plan: the robot whose cost is paid during Minute.
// The robot starts collecting at the beginning of the next minute.
type Build struct {
	Minute int
	Robot  models.Resource
}

func (b Build) String() string {
	return fmt.Sprintf("minute %d: %s robot", b.Minute, b.Robot)
}

// Step is a child state together with the robot built to reach it
type Step struct {
	Robot models.Resource
	State State
}

// waitFor returns the number of minutes to wait before cost is affordable.
// It returns -1 when some required resource has no robot collecting it.
func waitFor(s State, cost models.Vector) int {
	wait := 0
	for _, r := range models.AllResources() {
		if cost[r] == 0 {
			continue
		}
		shortfall := cost[r] - s.Resources[r]
		if shortfall <= 0 {
			continue
		}
		rate := s.Robots[r]
		if rate == 0 {
			return -1
		}
		if w := (shortfall + rate - 1) / rate; w > wait {
			wait = w
		}
	}
	return wait
}

// ScheduleBuild returns the state reached by waiting until robot is affordable,
// paying for it and bringing it online one minute later.
// It returns false when robot can never be afforded from s.
func ScheduleBuild(bp *models.Blueprint, s State, robot models.Resource) (State, bool) {
	cost := bp.Cost(robot)
	wait := waitFor(s, cost)
	if wait < 0 {
		return State{}, false
	}

	elapsed := wait + 1
	next := State{
		Time:      s.Time + elapsed,
		Robots:    s.Robots,
		Resources: s.Resources.Add(s.Robots.Scale(elapsed)).Sub(cost),
	}
	next.Robots[robot]++

	if !next.Resources.NonNegative() {
		panic(fmt.Sprintf("geode: invariant violation: building %s robot from %v left %v",
			robot, s, next.Resources))
	}

	return next, true
}

// buildable reports whether every resource in robot's recipe has a collector
func buildable(bp *models.Blueprint, s State, robot models.Resource) bool {
	cost := bp.Cost(robot)
	for _, r := range models.AllResources() {
		if cost[r] > 0 && s.Robots[r] == 0 {
			return false
		}
	}
	return true
}

// Candidates returns the robot types worth building next from s.
// A robot is a candidate when its recipe is reachable and, for non-target types,
// the current count is still below the blueprint's spending ceiling.
func Candidates(bp *models.Blueprint, s State) []models.Resource {
	candidates := make([]models.Resource, 0, models.NumResources)
	for _, robot := range models.AllResources() {
		if !buildable(bp, s, robot) {
			continue
		}
		if robot != models.Target && s.Robots[robot] >= bp.Ceiling(robot) {
			continue
		}
		candidates = append(candidates, robot)
	}
	return candidates
}

// Children expands s into the states reachable by building one more robot
// before the horizon
func Children(bp *models.Blueprint, s State, horizon int) []Step {
	candidates := Candidates(bp, s)
	steps := make([]Step, 0, len(candidates))
	for _, robot := range candidates {
		next, ok := ScheduleBuild(bp, s, robot)
		if !ok || next.Time > horizon {
			continue
		}
		steps = append(steps, Step{Robot: robot, State: next})
	}
	return steps
}
