// Package metrics exposes Prometheus metrics for robot requests.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/gwillem/robobug/pkg/robot"
)

// Recorder counts robot requests and their latency. It implements robot.Recorder.
type Recorder struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var _ robot.Recorder = (*Recorder)(nil)

// NewRecorder creates a recorder and registers its collectors with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "robobug_requests_total",
				Help: "Total number of robot requests",
			},
			[]string{"endpoint", "kind", "status"}, // status: ok, transport_error
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "robobug_request_duration_seconds",
				Help:    "Robot request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
	}
	reg.MustRegister(r.requests, r.duration)
	return r
}

// Record implements robot.Recorder.
func (r *Recorder) Record(endpoint string, kind robot.Kind, elapsed time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "transport_error"
	}
	r.requests.WithLabelValues(endpoint, string(kind), status).Inc()
	r.duration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}
