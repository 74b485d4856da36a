// Package aggregate runs the geode search over a list of blueprints and combines
// the answers into the two puzzle totals.
package aggregate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/napolitain/solver-geode/internal/cache"
	"github.com/napolitain/solver-geode/internal/metrics"
	"github.com/napolitain/solver-geode/internal/models"
	"github.com/napolitain/solver-geode/internal/solver/geode"
)

// ErrInvalidTopN is returned when the number of leading blueprints is not positive
var ErrInvalidTopN = errors.New("aggregate: top n must be positive")

// Mode names the combination applied to per-blueprint answers
type Mode string

const (
	ModeQualitySum Mode = "quality-sum"
	ModeTopProduct Mode = "top-product"
)

// Report is a combined answer plus the per-blueprint results behind it
type Report struct {
	Mode    Mode
	Horizon int
	Value   int
	Results []geode.Result
}

// Runner evaluates blueprints, optionally in parallel and through a cache.
// The zero value is usable: one worker per CPU, no cache, no metrics, default logger.
type Runner struct {
	// Workers bounds concurrent searches; 0 means GOMAXPROCS
	Workers  int
	Logger   *slog.Logger
	Cache    cache.Store
	Recorder metrics.Recorder
	Options  []geode.Option
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

func (r *Runner) recorder() metrics.Recorder {
	if r.Recorder == nil {
		return metrics.NopRecorder{}
	}
	return r.Recorder
}

func (r *Runner) workers() int {
	if r.Workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return r.Workers
}

// Evaluate solves every blueprint at the horizon. Results are returned in input
// order regardless of completion order. Searches share nothing, so each runs on
// its own goroutine.
func (r *Runner) Evaluate(ctx context.Context, blueprints []*models.Blueprint, horizon int) ([]geode.Result, error) {
	results := make([]geode.Result, len(blueprints))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers())

	for i, bp := range blueprints {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := r.solve(ctx, bp, horizon)
			if err != nil {
				return fmt.Errorf("blueprint %d: %w", bp.ID, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *Runner) solve(ctx context.Context, bp *models.Blueprint, horizon int) (geode.Result, error) {
	log := r.logger().With("blueprint", bp.ID, "horizon", horizon)

	solver := geode.NewSolver(bp, r.Options...)
	key := cache.Key(bp, horizon, solver.Options.Ordering)

	if r.Cache != nil {
		entry, ok, err := r.Cache.Get(ctx, key)
		if err != nil {
			return geode.Result{}, err
		}
		if ok {
			res := entry.Result
			// Identical recipes share an entry; report under this blueprint's id
			res.BlueprintID = bp.ID
			r.recorder().RecordCacheHit()
			log.Debug("cache hit", "geodes", res.MaxGeodes, "run", entry.RunID)
			return res, nil
		}
	}

	start := time.Now()
	res := solver.Solve(horizon)
	elapsed := time.Since(start)

	r.recorder().RecordSearch(res, elapsed)
	log.Debug("solved",
		"geodes", res.MaxGeodes,
		"expanded", res.Expanded,
		"pruned", res.Pruned,
		"elapsed", elapsed)
	if res.Truncated {
		log.Warn("search truncated by node cap, answer may be below optimum", "geodes", res.MaxGeodes)
	}

	if r.Cache != nil && !res.Truncated {
		if err := r.Cache.Put(ctx, cache.Entry{Key: key, Result: res}); err != nil {
			return geode.Result{}, err
		}
	}

	return res, nil
}

// QualitySum returns the sum of id * max geodes over all blueprints
func (r *Runner) QualitySum(ctx context.Context, blueprints []*models.Blueprint, horizon int) (Report, error) {
	results, err := r.Evaluate(ctx, blueprints, horizon)
	if err != nil {
		return Report{}, err
	}

	sum := 0
	for _, res := range results {
		sum += res.Quality()
	}

	r.logger().Info("quality sum", "blueprints", len(results), "horizon", horizon, "value", sum)
	return Report{Mode: ModeQualitySum, Horizon: horizon, Value: sum, Results: results}, nil
}

// TopProduct returns the product of max geodes over the first n blueprints.
// An n larger than the input uses every blueprint.
func (r *Runner) TopProduct(ctx context.Context, blueprints []*models.Blueprint, n, horizon int) (Report, error) {
	if n <= 0 {
		return Report{}, fmt.Errorf("%w: got %d", ErrInvalidTopN, n)
	}
	if n > len(blueprints) {
		n = len(blueprints)
	}

	results, err := r.Evaluate(ctx, blueprints[:n], horizon)
	if err != nil {
		return Report{}, err
	}

	product := 1
	for _, res := range results {
		product *= res.MaxGeodes
	}

	r.logger().Info("top product", "blueprints", len(results), "horizon", horizon, "value", product)
	return Report{Mode: ModeTopProduct, Horizon: horizon, Value: product, Results: results}, nil
}
