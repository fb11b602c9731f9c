// Package metrics defines the Prometheus instruments of the session
// coordinator. A nil *Recorder is valid and records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gophprofile"

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

type Recorder struct {
	operations   *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	sessionState prometheus.Gauge
	connected    prometheus.Gauge
}

// NewRecorder registers the instruments with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		// Labels:
		//   - op: register, login, logout, update_profile
		//   - outcome: success or failure
		//   - code: error taxonomy code, empty on success
		operations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Total number of account operations, by outcome and error code.",
		}, []string{"op", "outcome", "code"}),

		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of account operations including remote calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),

		sessionState: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "session_state",
			Help:      "Session state: 0 unknown, 1 anonymous, 2 authenticated.",
		}),

		connected: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connected",
			Help:      "1 when the identity backend is reachable.",
		}),
	}
}

// ObserveOperation records one finished operation.
func (r *Recorder) ObserveOperation(op string, success bool, code string, d time.Duration) {
	if r == nil {
		return
	}
	outcome := OutcomeSuccess
	if !success {
		outcome = OutcomeFailure
	}
	r.operations.WithLabelValues(op, outcome, code).Inc()
	r.duration.WithLabelValues(op).Observe(d.Seconds())
}

func (r *Recorder) SetSessionState(state int) {
	if r == nil {
		return
	}
	r.sessionState.Set(float64(state))
}

func (r *Recorder) SetConnected(connected bool) {
	if r == nil {
		return
	}
	if connected {
		r.connected.Set(1)
		return
	}
	r.connected.Set(0)
}

// Handler exposes the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
