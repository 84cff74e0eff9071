package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace     = "webshop"
	cronSubsystem = "cron"
)

// sweepDurationBuckets cover the spread the nightly sweeps actually show: a
// cart sweep on an empty table finishes in milliseconds while a customer
// sweep over a year of dormant accounts can take minutes.
var sweepDurationBuckets = []float64{0.05, 0.25, 1, 5, 30, 120, 600}

// CronJobMetrics records outcomes of the shop's scheduled maintenance jobs.
type CronJobMetrics struct {
	duration  *prometheus.HistogramVec
	success   *prometheus.CounterVec
	failure   *prometheus.CounterVec
	rowsSwept *prometheus.CounterVec
}

// NewCronJobMetrics registers the maintenance job metrics on the provided
// registerer under the webshop_cron_* prefix.
func NewCronJobMetrics(reg prometheus.Registerer) *CronJobMetrics {
	if reg == nil {
		return &CronJobMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: cronSubsystem,
		Name:      "job_duration_seconds",
		Help:      "Duration of maintenance jobs in seconds.",
		Buckets:   sweepDurationBuckets,
	}, []string{"job"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: cronSubsystem,
		Name:      "job_success_total",
		Help:      "Successful maintenance job executions.",
	}, []string{"job"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: cronSubsystem,
		Name:      "job_failure_total",
		Help:      "Failed maintenance job executions.",
	}, []string{"job"})
	rowsSwept := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: cronSubsystem,
		Name:      "rows_swept_total",
		Help:      "Rows removed by sweep jobs, such as expired carts and dormant accounts.",
	}, []string{"job"})
	reg.MustRegister(duration, success, failure, rowsSwept)
	return &CronJobMetrics{
		duration:  duration,
		success:   success,
		failure:   failure,
		rowsSwept: rowsSwept,
	}
}

// ObserveDuration records the duration for the named job.
func (c *CronJobMetrics) ObserveDuration(job string, duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(normalizeLabel(job)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named job.
func (c *CronJobMetrics) IncSuccess(job string) {
	if c == nil || c.success == nil {
		return
	}
	c.success.WithLabelValues(normalizeLabel(job)).Inc()
}

// IncFailure increments the failure counter for the named job.
func (c *CronJobMetrics) IncFailure(job string) {
	if c == nil || c.failure == nil {
		return
	}
	c.failure.WithLabelValues(normalizeLabel(job)).Inc()
}

// AddRowsSwept adds the number of rows a sweep removed in one run.
func (c *CronJobMetrics) AddRowsSwept(job string, rows int64) {
	if c == nil || c.rowsSwept == nil || rows < 0 {
		return
	}
	c.rowsSwept.WithLabelValues(normalizeLabel(job)).Add(float64(rows))
}

func normalizeLabel(job string) string {
	if job == "" {
		return "unknown"
	}
	return job
}
