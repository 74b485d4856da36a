package geode

import (
	"math/rand/v2"
	"testing"

	"github.com/napolitain/solver-geode/internal/models"
)

func sampleBlueprint(t testing.TB, id int) *models.Blueprint {
	t.Helper()
	for _, bp := range SampleBlueprints() {
		if bp.ID == id {
			return bp
		}
	}
	t.Fatalf("no sample blueprint %d", id)
	return nil
}

// randomBlueprint returns a small standard blueprint whose robots are cheap enough
// for geodes to appear within a few minutes
func randomBlueprint(rng *rand.Rand, id int) *models.Blueprint {
	n := func(hi int) int { return 1 + rng.IntN(hi) }
	return models.NewStandardBlueprint(id, n(3), n(3), n(3), n(4), n(3), n(4))
}

func TestScheduleBuildKnownTransitions(t *testing.T) {
	bp := sampleBlueprint(t, 1)
	start := NewState()

	tests := []struct {
		name  string
		from  State
		robot models.Resource
		want  State
	}{
		{
			name:  "first clay robot waits two minutes",
			from:  start,
			robot: models.Clay,
			want:  State{Time: 4, Robots: models.Vector{1, 1, 0, 0}, Resources: models.Vector{1, 0, 0, 0}},
		},
		{
			name:  "first ore robot waits four minutes",
			from:  start,
			robot: models.Ore,
			want:  State{Time: 6, Robots: models.Vector{2, 0, 0, 0}, Resources: models.Vector{1, 0, 0, 0}},
		},
		{
			name:  "second clay robot",
			from:  State{Time: 4, Robots: models.Vector{1, 1, 0, 0}, Resources: models.Vector{1, 0, 0, 0}},
			robot: models.Clay,
			want:  State{Time: 6, Robots: models.Vector{1, 2, 0, 0}, Resources: models.Vector{1, 2, 0, 0}},
		},
		{
			name:  "affordable robot still takes a minute",
			from:  State{Time: 10, Robots: models.Vector{1, 3, 1, 0}, Resources: models.Vector{5, 20, 9, 0}},
			robot: models.Geode,
			want:  State{Time: 11, Robots: models.Vector{1, 3, 1, 1}, Resources: models.Vector{4, 23, 3, 0}},
		},
		{
			name:  "wait is the slowest resource",
			from:  State{Time: 10, Robots: models.Vector{2, 4, 0, 0}, Resources: models.Vector{0, 0, 0, 0}},
			robot: models.Obsidian,
			// ore needs 2 minutes, clay needs 4
			want: State{Time: 15, Robots: models.Vector{2, 4, 1, 0}, Resources: models.Vector{7, 6, 0, 0}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ScheduleBuild(bp, tc.from, tc.robot)
			if !ok {
				t.Fatalf("ScheduleBuild(%s) reported infeasible", tc.robot)
			}
			if got != tc.want {
				t.Errorf("ScheduleBuild(%s) = %v, want %v", tc.robot, got, tc.want)
			}
		})
	}
}

func TestScheduleBuildInfeasible(t *testing.T) {
	bp := sampleBlueprint(t, 1)

	if _, ok := ScheduleBuild(bp, NewState(), models.Obsidian); ok {
		t.Error("obsidian robot should be infeasible without clay robots")
	}
	if _, ok := ScheduleBuild(bp, NewState(), models.Geode); ok {
		t.Error("geode robot should be infeasible without obsidian robots")
	}
}

func TestScheduleBuildDoesNotMutateInput(t *testing.T) {
	bp := sampleBlueprint(t, 2)
	s := State{Time: 5, Robots: models.Vector{2, 1, 0, 0}, Resources: models.Vector{3, 1, 0, 0}}
	before := s

	if _, ok := ScheduleBuild(bp, s, models.Clay); !ok {
		t.Fatal("clay robot should be feasible")
	}
	if s != before {
		t.Errorf("input state mutated: %v -> %v", before, s)
	}
}

func TestCandidates(t *testing.T) {
	bp := sampleBlueprint(t, 1) // ceilings: ore 4, clay 14, obsidian 7

	tests := []struct {
		name   string
		robots models.Vector
		want   []models.Resource
	}{
		{"initial", models.Vector{1, 0, 0, 0}, []models.Resource{models.Ore, models.Clay}},
		{"with clay", models.Vector{1, 1, 0, 0}, []models.Resource{models.Ore, models.Clay, models.Obsidian}},
		{"all unlocked", models.Vector{1, 1, 1, 0}, []models.Resource{models.Ore, models.Clay, models.Obsidian, models.Geode}},
		{"ore capped", models.Vector{4, 1, 1, 0}, []models.Resource{models.Clay, models.Obsidian, models.Geode}},
		{"everything capped but geode", models.Vector{4, 14, 7, 9}, []models.Resource{models.Geode}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Candidates(bp, State{Time: 1, Robots: tc.robots})
			if len(got) != len(tc.want) {
				t.Fatalf("Candidates = %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("Candidates = %v, want %v", got, tc.want)
					break
				}
			}
		})
	}
}

func TestChildrenRespectHorizon(t *testing.T) {
	bp := sampleBlueprint(t, 1)

	// From minute 1 the clay robot lands at minute 4 and the ore robot at minute 6
	if got := len(Children(bp, NewState(), 5)); got != 1 {
		t.Errorf("horizon 5: got %d children, want 1", got)
	}
	if got := len(Children(bp, NewState(), 6)); got != 2 {
		t.Errorf("horizon 6: got %d children, want 2", got)
	}
	if got := len(Children(bp, NewState(), 3)); got != 0 {
		t.Errorf("horizon 3: got %d children, want 0", got)
	}
}

// TestRandomWalkInvariants walks random paths through random blueprints and checks
// the transition invariants at every step
func TestRandomWalkInvariants(t *testing.T) {
	rng := rand.New(rand.NewPCG(19, 2022))

	for i := 0; i < 200; i++ {
		bp := randomBlueprint(rng, i+1)
		horizon := 8 + rng.IntN(25)
		s := NewState()

		for {
			children := Children(bp, s, horizon)
			if len(children) == 0 {
				break
			}
			step := children[rng.IntN(len(children))]
			next := step.State

			if !next.Resources.NonNegative() {
				t.Fatalf("blueprint %v: negative resources after %s robot: %v", bp, step.Robot, next)
			}
			if next.Time <= s.Time {
				t.Fatalf("time did not advance: %v -> %v", s, next)
			}
			if next.Time > horizon {
				t.Fatalf("child beyond horizon %d: %v", horizon, next)
			}
			for _, r := range models.AllResources() {
				if next.Robots[r] < s.Robots[r] {
					t.Fatalf("robot count decreased: %v -> %v", s, next)
				}
			}
			if next.Resources[models.Target] < s.Resources[models.Target] {
				t.Fatalf("geodes decreased: %v -> %v", s, next)
			}
			s = next
		}
	}
}
