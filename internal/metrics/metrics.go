package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Discovery instrumentation. Counters are registered on the default
// registry; the consume loop exposes them via Serve.
var (
	DiscoveryRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "procmine_discovery_runs_total",
		Help: "Completed discovery runs by variant.",
	}, []string{"variant"})

	DiscoveryErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "procmine_discovery_errors_total",
		Help: "Discovery runs that ended with an error.",
	})

	CutsFound = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "procmine_cuts_total",
		Help: "Accepted cuts by kind.",
	}, []string{"kind"})

	Fallthroughs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "procmine_fallthroughs_total",
		Help: "Fallthrough resolutions by case.",
	}, []string{"case"})

	FilteredCutRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "procmine_filtered_cut_retries_total",
		Help: "Cut attempts retried on a noise-filtered or simplified graph.",
	})

	DegradedFlowers = promauto.NewCounter(prometheus.CounterOpts{
		Name: "procmine_degraded_flowers_total",
		Help: "Flower models capped by the approximate complexity limit.",
	})

	DiscoveryDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "procmine_discovery_duration_seconds",
		Help:    "Wall time of discovery runs.",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
	})
)

// ObserveRun records one finished run.
func ObserveRun(variant string, start time.Time) {
	DiscoveryRuns.WithLabelValues(variant).Inc()
	DiscoveryDuration.Observe(time.Since(start).Seconds())
}

// Serve exposes /metrics on the given address. Blocks like
// http.ListenAndServe.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(addr, mux)
}
