package geode

import "github.com/napolitain/solver-geode/internal/models"

// SampleInput is the published example input
const SampleInput = `Blueprint 1: Each ore robot costs 4 ore. Each clay robot costs 2 ore. Each obsidian robot costs 3 ore and 14 clay. Each geode robot costs 2 ore and 7 obsidian.
Blueprint 2: Each ore robot costs 2 ore. Each clay robot costs 3 ore. Each obsidian robot costs 3 ore and 8 clay. Each geode robot costs 3 ore and 12 obsidian.
`

// SampleBlueprints returns the two published example blueprints.
// Known answers: 9 and 12 geodes in 24 minutes, 56 and 62 in 32 minutes.
func SampleBlueprints() []*models.Blueprint {
	return []*models.Blueprint{
		models.NewStandardBlueprint(1, 4, 2, 3, 14, 2, 7),
		models.NewStandardBlueprint(2, 2, 3, 3, 8, 3, 12),
	}
}
