package models

import (
	"errors"
	"fmt"
)

// ErrInvalidBlueprint is returned when a cost table cannot describe a playable blueprint
var ErrInvalidBlueprint = errors.New("models: invalid blueprint")

// Blueprint is the immutable cost table for building each robot type.
// Costs[t] is what one robot collecting resource t consumes.
type Blueprint struct {
	ID    int
	Costs [NumResources]Vector

	// MaxSpend is the largest amount of each non-target resource any single recipe
	// consumes. Owning more robots of that type than MaxSpend can never help, since at
	// most one robot is built per minute. Used for pruning only.
	MaxSpend Vector
}

// NewBlueprint creates a blueprint and derives its cost ceilings
func NewBlueprint(id int, costs [NumResources]Vector) *Blueprint {
	bp := &Blueprint{ID: id, Costs: costs}
	for _, robot := range AllResources() {
		for _, r := range AllResources() {
			if r == Target {
				continue
			}
			if c := costs[robot][r]; c > bp.MaxSpend[r] {
				bp.MaxSpend[r] = c
			}
		}
	}
	return bp
}

// NewStandardBlueprint builds the four-recipe shape used by the puzzle input:
// ore and clay robots cost ore, obsidian robots cost ore and clay,
// geode robots cost ore and obsidian.
func NewStandardBlueprint(id, oreRobotOre, clayRobotOre, obsidianRobotOre, obsidianRobotClay, geodeRobotOre, geodeRobotObsidian int) *Blueprint {
	var costs [NumResources]Vector
	costs[Ore][Ore] = oreRobotOre
	costs[Clay][Ore] = clayRobotOre
	costs[Obsidian][Ore] = obsidianRobotOre
	costs[Obsidian][Clay] = obsidianRobotClay
	costs[Geode][Ore] = geodeRobotOre
	costs[Geode][Obsidian] = geodeRobotObsidian
	return NewBlueprint(id, costs)
}

// Cost returns the recipe for a robot type
func (b *Blueprint) Cost(robot Resource) Vector {
	return b.Costs[robot]
}

// Ceiling returns the maximum useful robot count for a resource.
// The target resource is never capped; -1 is returned for it.
func (b *Blueprint) Ceiling(r Resource) int {
	if r == Target {
		return -1
	}
	return b.MaxSpend[r]
}

// Validate checks the cost table is usable by the search.
// Every cost must be non-negative and the ore robot must be buildable from ore alone,
// otherwise the initial state (a single ore robot) could never build anything.
func (b *Blueprint) Validate() error {
	for _, robot := range AllResources() {
		if !b.Costs[robot].NonNegative() {
			return fmt.Errorf("%w: blueprint %d: negative cost for %s robot", ErrInvalidBlueprint, b.ID, robot)
		}
	}
	for _, r := range AllResources() {
		if r != Ore && b.Costs[Ore][r] > 0 {
			return fmt.Errorf("%w: blueprint %d: ore robot cannot require %s", ErrInvalidBlueprint, b.ID, r)
		}
	}
	return nil
}

// String returns a compact one-line form of the cost table
func (b *Blueprint) String() string {
	return fmt.Sprintf("Blueprint %d: ore robot %s; clay robot %s; obsidian robot %s; geode robot %s",
		b.ID, b.Costs[Ore], b.Costs[Clay], b.Costs[Obsidian], b.Costs[Geode])
}
