package metrics

import (
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Package-level Prometheus collectors. They are registered via Register.
var (
	regOK atomic.Bool

	toolStarts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "toolhub",
			Subsystem: "tool",
			Name:      "starts_total",
			Help:      "Number of successful tool spawns.",
		}, []string{"tool"},
	)
	toolStops = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "toolhub",
			Subsystem: "tool",
			Name:      "stops_total",
			Help:      "Number of stops (graceful or forced).",
		}, []string{"tool"},
	)
	spawnFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "toolhub",
			Subsystem: "tool",
			Name:      "spawn_failures_total",
			Help:      "Number of spawns that exited within the grace window or failed outright.",
		}, []string{"tool"},
	)
	runningTools = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "toolhub",
			Subsystem: "tool",
			Name:      "running_owned",
			Help:      "Tools currently running as owned child processes.",
		},
	)
	externalTools = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "toolhub",
			Subsystem: "tool",
			Name:      "running_external",
			Help:      "Tools currently tracked as externally-started processes.",
		},
	)
	scanDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "toolhub",
			Subsystem: "scan",
			Name:      "duration_seconds",
			Help:      "Duration of full process-table scans.",
			Buckets:   prometheus.DefBuckets,
		},
	)
)

// Register registers all metrics with the provided registerer.
// It is safe to call multiple times; subsequent calls after success are no-ops.
func Register(r prometheus.Registerer) error {
	if regOK.Load() {
		return nil
	}
	cs := []prometheus.Collector{toolStarts, toolStops, spawnFailures, runningTools, externalTools, scanDuration}
	for _, c := range cs {
		if err := r.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	regOK.Store(true)
	return nil
}

// Handler returns an http.Handler serving Prometheus metrics for the
// DefaultGatherer.
func Handler() http.Handler { return promhttp.Handler() }

// Helpers below no-op until Register has been called.

func IncStart(tool string) {
	if regOK.Load() {
		toolStarts.WithLabelValues(tool).Inc()
	}
}

func IncStop(tool string) {
	if regOK.Load() {
		toolStops.WithLabelValues(tool).Inc()
	}
}

func IncSpawnFailure(tool string) {
	if regOK.Load() {
		spawnFailures.WithLabelValues(tool).Inc()
	}
}

func SetRunning(owned, external int) {
	if regOK.Load() {
		runningTools.Set(float64(owned))
		externalTools.Set(float64(external))
	}
}

func ObserveScan(seconds float64) {
	if regOK.Load() {
		scanDuration.Observe(seconds)
	}
}
