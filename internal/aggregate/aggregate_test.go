package aggregate

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/napolitain/solver-geode/internal/cache"
	"github.com/napolitain/solver-geode/internal/models"
	"github.com/napolitain/solver-geode/internal/solver/geode"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// countingRecorder counts events; the runner calls it from several goroutines
type countingRecorder struct {
	mu        sync.Mutex
	searches  int
	cacheHits int
}

func (c *countingRecorder) RecordSearch(geode.Result, time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.searches++
}

func (c *countingRecorder) RecordCacheHit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cacheHits++
}

func TestQualitySumSample(t *testing.T) {
	runner := &Runner{Workers: 2, Logger: quietLogger()}

	report, err := runner.QualitySum(context.Background(), geode.SampleBlueprints(), geode.DefaultHorizon)
	require.NoError(t, err)

	assert.Equal(t, ModeQualitySum, report.Mode)
	assert.Equal(t, 33, report.Value)
	require.Len(t, report.Results, 2)
	assert.Equal(t, 9, report.Results[0].MaxGeodes)
	assert.Equal(t, 12, report.Results[1].MaxGeodes)
}

func TestTopProductSample(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping 32 minute searches in short mode")
	}

	runner := &Runner{Logger: quietLogger()}
	report, err := runner.TopProduct(context.Background(), geode.SampleBlueprints(), geode.DefaultTopN, geode.ExtendedHorizon)
	require.NoError(t, err)

	// Only two blueprints exist, so n = 3 clamps to 2
	assert.Equal(t, 56*62, report.Value)
	assert.Len(t, report.Results, 2)
}

func TestTopProductInvalidN(t *testing.T) {
	runner := &Runner{Logger: quietLogger()}

	for _, n := range []int{0, -1} {
		_, err := runner.TopProduct(context.Background(), geode.SampleBlueprints(), n, geode.DefaultHorizon)
		assert.ErrorIs(t, err, ErrInvalidTopN)
	}
}

func TestTopProductUsesLeadingBlueprints(t *testing.T) {
	runner := &Runner{Logger: quietLogger()}

	bps := geode.SampleBlueprints()
	report, err := runner.TopProduct(context.Background(), []*models.Blueprint{bps[1], bps[0]}, 1, geode.DefaultHorizon)
	require.NoError(t, err)

	assert.Equal(t, 12, report.Value)
	require.Len(t, report.Results, 1)
	assert.Equal(t, 2, report.Results[0].BlueprintID)
}

func TestEvaluatePreservesInputOrder(t *testing.T) {
	bps := make([]*models.Blueprint, 0, 12)
	for i := 0; i < 12; i++ {
		// Cheaper recipes finish first; order must still follow the input
		c := 1 + i%4
		bps = append(bps, models.NewStandardBlueprint(i+1, c, c, c, c+2, c, c+2))
	}

	runner := &Runner{Workers: 4, Logger: quietLogger()}
	results, err := runner.Evaluate(context.Background(), bps, 16)
	require.NoError(t, err)

	require.Len(t, results, len(bps))
	for i, res := range results {
		assert.Equal(t, bps[i].ID, res.BlueprintID)
		assert.Equal(t, geode.MaxGeodes(bps[i], 16), res.MaxGeodes)
	}
}

func TestEvaluateEmpty(t *testing.T) {
	runner := &Runner{Logger: quietLogger()}

	results, err := runner.Evaluate(context.Background(), nil, geode.DefaultHorizon)
	require.NoError(t, err)
	assert.Empty(t, results)

	report, err := runner.QualitySum(context.Background(), nil, geode.DefaultHorizon)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Value)
}

func TestEvaluateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := &Runner{Logger: quietLogger()}
	_, err := runner.Evaluate(ctx, geode.SampleBlueprints(), geode.DefaultHorizon)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEvaluateUsesCache(t *testing.T) {
	store, err := cache.OpenSQLite(":memory:")
	require.NoError(t, err)
	defer store.Close()

	rec := &countingRecorder{}
	runner := &Runner{Workers: 2, Logger: quietLogger(), Cache: store, Recorder: rec}
	ctx := context.Background()

	first, err := runner.Evaluate(ctx, geode.SampleBlueprints(), geode.DefaultHorizon)
	require.NoError(t, err)
	assert.Equal(t, 2, rec.searches)
	assert.Equal(t, 0, rec.cacheHits)

	second, err := runner.Evaluate(ctx, geode.SampleBlueprints(), geode.DefaultHorizon)
	require.NoError(t, err)
	assert.Equal(t, 2, rec.searches, "second run should not search")
	assert.Equal(t, 2, rec.cacheHits)

	for i := range first {
		assert.Equal(t, first[i].MaxGeodes, second[i].MaxGeodes)
		assert.Equal(t, first[i].Plan, second[i].Plan)
	}
}

func TestCacheHitKeepsBlueprintID(t *testing.T) {
	store, err := cache.OpenSQLite(":memory:")
	require.NoError(t, err)
	defer store.Close()

	runner := &Runner{Workers: 1, Logger: quietLogger(), Cache: store}
	twins := []*models.Blueprint{
		models.NewStandardBlueprint(1, 4, 2, 3, 14, 2, 7),
		models.NewStandardBlueprint(7, 4, 2, 3, 14, 2, 7),
	}

	report, err := runner.QualitySum(context.Background(), twins, geode.DefaultHorizon)
	require.NoError(t, err)
	assert.Equal(t, 7, report.Results[1].BlueprintID)
	assert.Equal(t, 9+7*9, report.Value)
}

func TestTruncatedResultsAreNotCached(t *testing.T) {
	store, err := cache.OpenSQLite(":memory:")
	require.NoError(t, err)
	defer store.Close()

	rec := &countingRecorder{}
	runner := &Runner{
		Logger:   quietLogger(),
		Cache:    store,
		Recorder: rec,
		Options:  []geode.Option{geode.WithMaxNodes(3)},
	}
	bps := geode.SampleBlueprints()[:1]

	_, err = runner.Evaluate(context.Background(), bps, geode.DefaultHorizon)
	require.NoError(t, err)
	_, err = runner.Evaluate(context.Background(), bps, geode.DefaultHorizon)
	require.NoError(t, err)

	assert.Equal(t, 2, rec.searches)
	assert.Equal(t, 0, rec.cacheHits)
}
