package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/napolitain/solver-geode/internal/solver/geode"
)

func TestPrometheusRecorderCounts(t *testing.T) {
	r, err := NewPrometheusRecorder()
	require.NoError(t, err)

	r.RecordSearch(geode.Result{Horizon: 24, Expanded: 100, Pruned: 40}, 10*time.Millisecond)
	r.RecordSearch(geode.Result{Horizon: 24, Expanded: 50, Pruned: 10, Truncated: true}, 20*time.Millisecond)
	r.RecordSearch(geode.Result{Horizon: 32, Expanded: 7}, time.Second)
	r.RecordCacheHit()

	assert.Equal(t, 157.0, testutil.ToFloat64(r.expanded))
	assert.Equal(t, 50.0, testutil.ToFloat64(r.pruned))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.truncated))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.cacheHits))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.searches.WithLabelValues("24")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.searches.WithLabelValues("32")))
}

func TestRecordersUseSeparateRegistries(t *testing.T) {
	a, err := NewPrometheusRecorder()
	require.NoError(t, err)
	b, err := NewPrometheusRecorder()
	require.NoError(t, err)

	a.RecordCacheHit()
	assert.Equal(t, 0.0, testutil.ToFloat64(b.cacheHits))
}

func TestWriteTextfile(t *testing.T) {
	r, err := NewPrometheusRecorder()
	require.NoError(t, err)
	r.RecordSearch(geode.Result{Horizon: 24, Expanded: 3}, time.Millisecond)

	path := filepath.Join(t.TempDir(), "geode.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "geode_solver_states_expanded_total 3")
	assert.Contains(t, string(data), `geode_solver_searches_total{horizon="24"} 1`)
}

func TestNopRecorder(t *testing.T) {
	var r Recorder = NopRecorder{}
	r.RecordSearch(geode.Result{}, 0)
	r.RecordCacheHit()
}
