package loader

import (
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/napolitain/solver-geode/internal/models"
)

// ParseBlueprintsJSON parses a JSON array of blueprints:
//
//	[{"id": 1,
//	  "ore_robot": {"ore": 4},
//	  "clay_robot": {"ore": 2},
//	  "obsidian_robot": {"ore": 3, "clay": 14},
//	  "geode_robot": {"ore": 2, "obsidian": 7}}]
//
// Unknown keys are ignored. Missing ids or robot recipes are malformed.
func ParseBlueprintsJSON(data []byte) ([]*models.Blueprint, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformedBlueprint)
	}

	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, fmt.Errorf("%w: expected a JSON array of blueprints", ErrMalformedBlueprint)
	}

	var blueprints []*models.Blueprint
	var parseErr error

	root.ForEach(func(key, v gjson.Result) bool {
		idx := int(key.Int())

		id, ok := intValue(v.Get("id"))
		if !ok {
			parseErr = fmt.Errorf("%w: entry %d: missing integer id", ErrMalformedBlueprint, idx)
			return false
		}

		var costs [models.NumResources]models.Vector
		for _, robot := range models.AllResources() {
			recipe := v.Get(robot.String() + "_robot")
			if !recipe.IsObject() {
				parseErr = fmt.Errorf("%w: entry %d: missing %s_robot recipe", ErrMalformedBlueprint, idx, robot)
				return false
			}

			recipe.ForEach(func(name, amount gjson.Result) bool {
				r, err := models.ParseResource(name.String())
				n, ok := intValue(amount)
				if err != nil || !ok {
					parseErr = fmt.Errorf("%w: entry %d: %s_robot: bad cost %s=%s",
						ErrMalformedBlueprint, idx, robot, name.String(), amount.Raw)
					return false
				}
				costs[robot][r] = n
				return true
			})
			if parseErr != nil {
				return false
			}
		}

		blueprints = append(blueprints, models.NewBlueprint(id, costs))
		return true
	})

	if parseErr != nil {
		return nil, parseErr
	}

	return checkBlueprints(blueprints)
}

// intValue accepts only JSON numbers written as plain integers, so 4.7 or 1e3 are rejected
// rather than truncated
func intValue(v gjson.Result) (int, bool) {
	if v.Type != gjson.Number {
		return 0, false
	}
	n, err := strconv.Atoi(v.Raw)
	if err != nil {
		return 0, false
	}
	return n, true
}
