package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	queueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "aurora_queue_length",
			Help: "Current number of users waiting in the queue",
		},
	)

	activeTesters = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "aurora_active_testers",
			Help: "Current number of active testers",
		},
	)

	queueOpen = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "aurora_queue_open",
			Help: "Whether the queue is currently open (1) or closed (0)",
		},
	)

	queueOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aurora_queue_operations_total",
			Help: "Total queue operations",
		},
		[]string{"operation", "status"},
	)

	platformErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aurora_platform_errors_total",
			Help: "Failed chat platform calls by kind",
		},
		[]string{"kind"},
	)

	sessionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "aurora_session_duration_seconds",
			Help:    "Duration of evaluation sessions",
			Buckets: prometheus.ExponentialBuckets(30, 2, 10),
		},
	)
)

// Monitor is the metrics facade handed to the services.
type Monitor struct{}

func NewMonitor() *Monitor {
	return &Monitor{}
}

// TrackQueueState updates the queue gauges after a committed mutation.
func (m *Monitor) TrackQueueState(open bool, members, testers int) {
	if open {
		queueOpen.Set(1)
	} else {
		queueOpen.Set(0)
	}
	queueLength.Set(float64(members))
	activeTesters.Set(float64(testers))
}

// TrackQueueOperation counts one engine operation outcome.
func (m *Monitor) TrackQueueOperation(operation, status string) {
	queueOperations.WithLabelValues(operation, status).Inc()
}

// TrackPlatformError counts a failed best-effort platform call.
func (m *Monitor) TrackPlatformError(kind string) {
	platformErrors.WithLabelValues(kind).Inc()
}

// TrackSessionDuration records how long an evaluation session was open.
func (m *Monitor) TrackSessionDuration(d time.Duration) {
	sessionDuration.Observe(d.Seconds())
}
