package geode

import (
	"errors"
	"fmt"

	"github.com/napolitain/solver-geode/internal/models"
)

var (
	// ErrUnaffordable is returned when a plan pays for a robot it cannot afford yet
	ErrUnaffordable = errors.New("geode: robot not affordable")

	// ErrInvalidPlan is returned for plans that are out of order or outside the horizon
	ErrInvalidPlan = errors.New("geode: invalid plan")
)

// Snapshot is the state at the end of one simulated minute
type Snapshot struct {
	Minute    int
	Built     *models.Resource // robot paid for during this minute, if any
	Robots    models.Vector
	Resources models.Vector
}

// Trace is the minute-by-minute record of a simulated plan
type Trace struct {
	Minutes []Snapshot
	Geodes  int
}

// Simulate replays a plan one minute at a time. Each minute the scheduled robot
// (if any) is paid for, existing robots collect, then the new robot comes online.
// It is independent of ScheduleBuild and is used to check search results.
func Simulate(bp *models.Blueprint, plan []Build, horizon int) (Trace, error) {
	scheduled := make(map[int]models.Resource, len(plan))
	last := 0
	for _, b := range plan {
		if b.Minute <= last || b.Minute > horizon {
			return Trace{}, fmt.Errorf("%w: %s (previous build at minute %d, horizon %d)", ErrInvalidPlan, b, last, horizon)
		}
		if !b.Robot.Valid() {
			return Trace{}, fmt.Errorf("%w: %s", ErrInvalidPlan, b)
		}
		scheduled[b.Minute] = b.Robot
		last = b.Minute
	}

	state := NewState()
	trace := Trace{Minutes: make([]Snapshot, 0, horizon)}

	for minute := 1; minute <= horizon; minute++ {
		snap := Snapshot{Minute: minute}

		robot, building := scheduled[minute]
		if building {
			cost := bp.Cost(robot)
			if !state.Resources.Covers(cost) {
				return trace, fmt.Errorf("%w: minute %d: %s robot costs %s, have %s",
					ErrUnaffordable, minute, robot, cost, state.Resources)
			}
			state.Resources = state.Resources.Sub(cost)
			snap.Built = &robot
		}

		state.Resources = state.Resources.Add(state.Robots)
		if building {
			state.Robots[robot]++
		}
		state.Time = minute + 1

		snap.Robots = state.Robots
		snap.Resources = state.Resources
		trace.Minutes = append(trace.Minutes, snap)
	}

	trace.Geodes = state.Resources[models.Target]
	return trace, nil
}
