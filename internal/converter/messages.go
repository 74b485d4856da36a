package converter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/napolitain/solver-geode/internal/aggregate"
	"github.com/napolitain/solver-geode/internal/loader"
	"github.com/napolitain/solver-geode/internal/models"
	"github.com/napolitain/solver-geode/internal/solver/geode"
)

// ErrNoInput is returned for requests that carry no blueprints
var ErrNoInput = errors.New("converter: request has no blueprints")

// BlueprintToMessage converts a model blueprint
func BlueprintToMessage(bp *models.Blueprint) BlueprintMessage {
	msg := BlueprintMessage{ID: bp.ID, Costs: make(map[string]Costs, models.NumResources)}
	for _, robot := range models.AllResources() {
		msg.Costs[robot.String()] = VectorToCosts(bp.Cost(robot))
	}
	return msg
}

// MessageToBlueprint converts and validates a wire blueprint
func MessageToBlueprint(msg BlueprintMessage) (*models.Blueprint, error) {
	var costs [models.NumResources]models.Vector
	for name, c := range msg.Costs {
		robot, err := models.ParseResource(name)
		if err != nil {
			return nil, fmt.Errorf("blueprint %d: robot: %w", msg.ID, err)
		}
		v, err := CostsToVector(c)
		if err != nil {
			return nil, fmt.Errorf("blueprint %d: %s robot: %w", msg.ID, robot, err)
		}
		costs[robot] = v
	}

	bp := models.NewBlueprint(msg.ID, costs)
	if err := bp.Validate(); err != nil {
		return nil, err
	}
	return bp, nil
}

// RequestToBlueprints extracts the blueprints of a request. Text input wins over
// structured blueprints; the sample flag wins over both.
func RequestToBlueprints(req *SolveRequest) ([]*models.Blueprint, error) {
	switch {
	case req.Sample:
		return geode.SampleBlueprints(), nil
	case strings.TrimSpace(req.Input) != "":
		return loader.ParseBlueprints(strings.NewReader(req.Input))
	case len(req.Blueprints) > 0:
		seen := make(map[int]bool, len(req.Blueprints))
		bps := make([]*models.Blueprint, 0, len(req.Blueprints))
		for _, msg := range req.Blueprints {
			if seen[msg.ID] {
				return nil, fmt.Errorf("%w: id %d", loader.ErrDuplicateBlueprint, msg.ID)
			}
			seen[msg.ID] = true

			bp, err := MessageToBlueprint(msg)
			if err != nil {
				return nil, err
			}
			bps = append(bps, bp)
		}
		return bps, nil
	}
	return nil, ErrNoInput
}

// ResultToMessage converts a search result
func ResultToMessage(res geode.Result) BlueprintResult {
	msg := BlueprintResult{
		ID:        res.BlueprintID,
		MaxGeodes: res.MaxGeodes,
		Quality:   res.Quality(),
		Expanded:  res.Expanded,
		Pruned:    res.Pruned,
		Truncated: res.Truncated,
		Plan:      make([]BuildMessage, 0, len(res.Plan)),
	}
	for _, b := range res.Plan {
		msg.Plan = append(msg.Plan, BuildToMessage(b))
	}
	if len(msg.Plan) > 0 {
		next := msg.Plan[0]
		msg.NextBuild = &next
	}
	return msg
}

// ReportToResponse converts a combined answer
func ReportToResponse(report aggregate.Report) *SolveResponse {
	resp := &SolveResponse{
		Mode:    string(report.Mode),
		Horizon: report.Horizon,
		Value:   report.Value,
		Results: make([]BlueprintResult, 0, len(report.Results)),
	}
	for _, res := range report.Results {
		resp.Results = append(resp.Results, ResultToMessage(res))
	}
	return resp
}
