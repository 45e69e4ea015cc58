package metrics

import (
	"io"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
)

// Registry holds the sort metrics on a private prometheus registry so that
// several sorts in one process (tests) never collide. A nil *Registry is a
// valid no-op.
type Registry struct {
	registry *prometheus.Registry

	RecordsRead     prometheus.Counter
	RunsWritten     *prometheus.CounterVec
	MergeGroups     prometheus.Counter
	MergeFanIn      prometheus.Histogram
	CleanupFailures prometheus.Counter
	PhaseDuration   *prometheus.HistogramVec
}

func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}

	r.RecordsRead = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "novasort_records_read_total",
			Help: "Records read from the source file",
		},
	)

	r.RunsWritten = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "novasort_runs_written_total",
			Help: "Sorted runs persisted, by merge level",
		},
		[]string{"level"},
	)

	r.MergeGroups = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "novasort_merge_groups_total",
			Help: "k-way merges performed",
		},
	)

	r.MergeFanIn = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "novasort_merge_fanin",
			Help:    "Number of input runs per merge",
			Buckets: []float64{1, 2, 4, 8, 16, 32, 64, 128},
		},
	)

	r.CleanupFailures = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "novasort_cleanup_failures_total",
			Help: "Consumed runs left on disk after the retry budget",
		},
	)

	r.PhaseDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "novasort_phase_duration_seconds",
			Help:    "Duration of sort phases in seconds",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 30, 120},
		},
		[]string{"phase"},
	)

	return r
}

func (r *Registry) AddRecordsRead(n int) {
	if r == nil {
		return
	}
	r.RecordsRead.Add(float64(n))
}

func (r *Registry) RecordRun(level int) {
	if r == nil {
		return
	}
	r.RunsWritten.WithLabelValues(strconv.Itoa(level)).Inc()
}

func (r *Registry) RecordMerge(fanIn int) {
	if r == nil {
		return
	}
	r.MergeGroups.Inc()
	r.MergeFanIn.Observe(float64(fanIn))
}

func (r *Registry) RecordCleanupFailure() {
	if r == nil {
		return
	}
	r.CleanupFailures.Inc()
}

func (r *Registry) ObservePhase(phase string, d time.Duration) {
	if r == nil {
		return
	}
	r.PhaseDuration.WithLabelValues(phase).Observe(d.Seconds())
}

// WriteText dumps every metric in the prometheus text exposition format.
func (r *Registry) WriteText(w io.Writer) error {
	if r == nil {
		return nil
	}
	mfs, err := r.registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
