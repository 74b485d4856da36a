// Package metrics records search statistics with Prometheus collectors.
package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/napolitain/solver-geode/internal/solver/geode"
)

const (
	namespace = "geode"
	subsystem = "solver"
)

// Recorder receives one event per finished search
type Recorder interface {
	RecordSearch(result geode.Result, elapsed time.Duration)
	RecordCacheHit()
}

// NopRecorder discards everything
type NopRecorder struct{}

func (NopRecorder) RecordSearch(geode.Result, time.Duration) {}
func (NopRecorder) RecordCacheHit()                          {}

// PrometheusRecorder exports search statistics on its own registry so that
// several recorders can coexist in one process (tests, library callers)
type PrometheusRecorder struct {
	registry *prometheus.Registry

	expanded  prometheus.Counter
	pruned    prometheus.Counter
	searches  *prometheus.CounterVec
	truncated prometheus.Counter
	cacheHits prometheus.Counter
	duration  *prometheus.HistogramVec
}

// NewPrometheusRecorder creates a recorder and registers its collectors
func NewPrometheusRecorder() (*PrometheusRecorder, error) {
	r := &PrometheusRecorder{
		registry: prometheus.NewRegistry(),

		expanded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "states_expanded_total",
			Help:      "States popped from the frontier and expanded",
		}),
		pruned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "states_pruned_total",
			Help:      "States discarded because their upper bound could not beat the incumbent",
		}),
		searches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "searches_total",
				Help:      "Completed blueprint searches by horizon",
			},
			[]string{"horizon"},
		),
		truncated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "searches_truncated_total",
			Help:      "Searches stopped by the node cap",
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "cache_hits_total",
			Help:      "Searches answered from the solution cache",
		}),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "search_duration_seconds",
				Help:      "Wall time of a single blueprint search",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
			},
			[]string{"horizon"},
		),
	}

	collectors := []prometheus.Collector{
		r.expanded,
		r.pruned,
		r.searches,
		r.truncated,
		r.cacheHits,
		r.duration,
	}
	for _, c := range collectors {
		if err := r.registry.Register(c); err != nil {
			return nil, fmt.Errorf("register collector: %w", err)
		}
	}

	return r, nil
}

// Registry exposes the underlying registry, e.g. for promhttp
func (r *PrometheusRecorder) Registry() *prometheus.Registry {
	return r.registry
}

// RecordSearch records the statistics of one finished search
func (r *PrometheusRecorder) RecordSearch(result geode.Result, elapsed time.Duration) {
	horizon := strconv.Itoa(result.Horizon)

	r.expanded.Add(float64(result.Expanded))
	r.pruned.Add(float64(result.Pruned))
	r.searches.WithLabelValues(horizon).Inc()
	r.duration.WithLabelValues(horizon).Observe(elapsed.Seconds())
	if result.Truncated {
		r.truncated.Inc()
	}
}

// RecordCacheHit counts a search answered from the cache
func (r *PrometheusRecorder) RecordCacheHit() {
	r.cacheHits.Inc()
}

// WriteTextfile writes every collected metric in the node-exporter textfile format
func (r *PrometheusRecorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics to %s: %w", path, err)
	}
	return nil
}
