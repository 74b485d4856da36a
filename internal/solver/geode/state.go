package geode

import (
	"fmt"

	"github.com/napolitain/solver-geode/internal/models"
)

// State is a fully settled point in the simulation.
// Time is the minute about to begin, so the initial state is at minute 1 and
// Robots and Resources are exact as of the start of that minute.
// States are values: transitions return new states and never mutate their input.
type State struct {
	Time      int
	Robots    models.Vector
	Resources models.Vector
}

// NewState returns the initial state: one ore robot, no resources
func NewState() State {
	return State{
		Time:   1,
		Robots: models.Vector{models.Ore: 1},
	}
}

// Remaining returns the number of minutes still to run before the horizon,
// counting the current one
func (s State) Remaining(horizon int) int {
	if r := horizon - s.Time + 1; r > 0 {
		return r
	}
	return 0
}

// IdleValue returns the target quantity at the horizon if nothing else is built
func (s State) IdleValue(horizon int) int {
	return s.Resources[models.Target] + s.Robots[models.Target]*s.Remaining(horizon)
}

func (s State) String() string {
	return fmt.Sprintf("minute %d: robots [%s] resources [%s]", s.Time, s.Robots, s.Resources)
}
