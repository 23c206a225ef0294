// Package prometheus implements ports.Metrics with client_golang collectors on
// a private registry. The CLI is short-lived, so instead of serving /metrics
// the registry is dumped in node-exporter textfile format after each run.
package prometheus

import (
	"time"

	"github.com/corey/verbhash/internal/ports"
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder collects search metrics.
type Recorder struct {
	reg *prometheus.Registry

	searches   *prometheus.CounterVec
	candidates prometheus.Counter
	duration   prometheus.Histogram
	size       prometheus.Gauge
	seed       prometheus.Gauge
}

// NewRecorder registers the verbhash collectors on a fresh registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		reg: prometheus.NewRegistry(),
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "verbhash_searches_total",
			Help: "Completed searches by outcome",
		}, []string{"outcome"}),
		candidates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "verbhash_candidates_total",
			Help: "(seed, size) pairs evaluated",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "verbhash_search_duration_seconds",
			Help:    "Wall-clock time of a full search",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
		}),
		size: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "verbhash_table_size",
			Help: "Size of the last table found, 0 if none",
		}),
		seed: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "verbhash_table_seed",
			Help: "Seed of the last table found, 0 if none",
		}),
	}
	r.reg.MustRegister(r.searches, r.candidates, r.duration, r.size, r.seed)
	return r
}

// ObserveSearch records one finished search.
func (r *Recorder) ObserveSearch(size int, seed uint64, candidates uint64, elapsed time.Duration) {
	outcome := "found"
	if size == 0 {
		outcome = "not_found"
	}
	r.searches.WithLabelValues(outcome).Inc()
	r.candidates.Add(float64(candidates))
	r.duration.Observe(elapsed.Seconds())
	r.size.Set(float64(size))
	r.seed.Set(float64(seed))
}

// Registry exposes the underlying registry, e.g. for an HTTP handler.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.reg
}

// WriteTextfile writes the current metrics to path in the textfile
// collector format. The write is atomic (temp file plus rename).
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.reg)
}

var _ ports.Metrics = (*Recorder)(nil)
