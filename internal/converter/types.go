// Package converter provides conversions between wire messages and model types
package converter

import (
	"fmt"

	"github.com/napolitain/solver-geode/internal/models"
	"github.com/napolitain/solver-geode/internal/solver/geode"
)

// Costs maps a resource name to an amount, e.g. {"ore": 3, "clay": 14}
type Costs map[string]int

// BlueprintMessage is a blueprint on the wire. Costs is keyed by robot name.
type BlueprintMessage struct {
	ID    int              `json:"id"`
	Costs map[string]Costs `json:"costs"`
}

// SolveRequest asks for one of the combined answers.
// Blueprints come either as puzzle text in Input or structured in Blueprints.
type SolveRequest struct {
	Input      string             `json:"input,omitempty"`
	Blueprints []BlueprintMessage `json:"blueprints,omitempty"`
	Sample     bool               `json:"sample,omitempty"`

	// Zero values fall back to the server defaults
	Horizon int `json:"horizon,omitempty"`
	Top     int `json:"top,omitempty"`
}

// BuildMessage is one plan step
type BuildMessage struct {
	Minute int    `json:"minute"`
	Robot  string `json:"robot"`
}

// BlueprintResult is the search outcome for one blueprint
type BlueprintResult struct {
	ID        int            `json:"id"`
	MaxGeodes int            `json:"max_geodes"`
	Quality   int            `json:"quality"`
	Expanded  int            `json:"expanded"`
	Pruned    int            `json:"pruned"`
	Truncated bool           `json:"truncated,omitempty"`
	Plan      []BuildMessage `json:"plan"`
	NextBuild *BuildMessage  `json:"next_build,omitempty"`
}

// SolveResponse carries a combined answer
type SolveResponse struct {
	Mode    string            `json:"mode"`
	Horizon int               `json:"horizon"`
	Value   int               `json:"value"`
	Results []BlueprintResult `json:"results"`
}

// CostsToVector converts wire costs to a model vector
func CostsToVector(costs Costs) (models.Vector, error) {
	var v models.Vector
	for name, amount := range costs {
		r, err := models.ParseResource(name)
		if err != nil {
			return models.Vector{}, err
		}
		v[r] = amount
	}
	return v, nil
}

// VectorToCosts converts a model vector to wire costs, omitting zero amounts
func VectorToCosts(v models.Vector) Costs {
	costs := make(Costs)
	for _, r := range models.AllResources() {
		if v[r] != 0 {
			costs[r.String()] = v[r]
		}
	}
	return costs
}

// BuildToMessage converts a plan step
func BuildToMessage(b geode.Build) BuildMessage {
	return BuildMessage{Minute: b.Minute, Robot: b.Robot.String()}
}

// MessageToBuild converts a wire plan step
func MessageToBuild(m BuildMessage) (geode.Build, error) {
	robot, err := models.ParseResource(m.Robot)
	if err != nil {
		return geode.Build{}, fmt.Errorf("plan step at minute %d: %w", m.Minute, err)
	}
	return geode.Build{Minute: m.Minute, Robot: robot}, nil
}
