package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eratecache_requests_total",
			Help: "Total number of read API requests per route",
		},
		[]string{"route"},
	)

	RequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "eratecache_request_duration_seconds",
			Help:    "Read API request duration in seconds per route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	RequestErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eratecache_request_errors_total",
			Help: "Total number of error responses per route and status code",
		},
		[]string{"route", "code"},
	)
)

var (
	PollCyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eratecache_poll_cycles_total",
			Help: "Total number of polling cycles per outcome",
		},
		[]string{"outcome"},
	)

	CacheResetsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "eratecache_cache_resets_total",
			Help: "Total number of times the cache was reset to empty after an invalid commit",
		},
	)

	CachePairs = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "eratecache_cache_pairs",
			Help: "Number of currency pairs in the committed snapshot",
		},
	)

	CacheLastCommit = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "eratecache_cache_last_commit_timestamp",
			Help: "Unix timestamp of the last successful commit",
		},
	)
)

// RecordCycle counts a finished polling cycle.
func RecordCycle(outcome string) {
	PollCyclesTotal.WithLabelValues(outcome).Inc()
}

// UpdateCacheMetrics publishes the size of the cache after a mutation.
func UpdateCacheMetrics(pairs int, committedAt time.Time) {
	CachePairs.Set(float64(pairs))
	if committedAt.IsZero() {
		return
	}
	CacheLastCommit.Set(float64(committedAt.Unix()))
}

var (
	ScheduledJobLastRun = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "eratecache_job_last_run_timestamp",
			Help: "Unix timestamp of the last completed run for a job",
		},
		[]string{"job"},
	)

	ScheduledJobLastDurationSeconds = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "eratecache_job_last_duration_seconds",
			Help: "Duration of the last completed run for a job",
		},
		[]string{"job"},
	)

	ScheduledJobFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eratecache_job_failures_total",
			Help: "Total number of failed executions per job",
		},
		[]string{"job"},
	)
)

func UpdateJobMetrics(job string, startedAt time.Time, err error) {
	dur := time.Since(startedAt).Seconds()
	ScheduledJobLastDurationSeconds.WithLabelValues(job).Set(dur)
	ScheduledJobLastRun.WithLabelValues(job).Set(float64(time.Now().Unix()))
	if err != nil {
		ScheduledJobFailuresTotal.WithLabelValues(job).Inc()
	}
}
