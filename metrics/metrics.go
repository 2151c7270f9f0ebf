// Package metrics exports builder activity as prometheus metrics.
package metrics

import (
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/reoring/anomalies"
)

const namespace = "anomalies"

// Recorder is an anomalies.Observer backed by prometheus collectors. It is
// safe to share between builders.
type Recorder struct {
	committed    *prometheus.CounterVec
	passDuration *prometheus.HistogramVec
	passFailures *prometheus.CounterVec
}

var _ anomalies.Observer = (*Recorder)(nil)

// NewRecorder creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		committed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "records_committed_total",
				Help:      "Anomaly records committed, by pass and severity at commit time",
			},
			[]string{"pass", "severity"},
		),
		passDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "pass_duration_seconds",
				Help:      "Duration of diff and skew passes",
				Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
			},
			[]string{"pass"},
		),
		passFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "pass_failures_total",
				Help:      "Passes aborted by an error",
			},
			[]string{"pass"},
		),
	}
	if reg == nil {
		return r, nil
	}
	for _, c := range []prometheus.Collector{r.committed, r.passDuration, r.passFailures} {
		if err := reg.Register(c); err != nil {
			return nil, errors.Wrap(err, "metrics: register")
		}
	}
	return r, nil
}

// RecordCommitted implements anomalies.Observer.
func (r *Recorder) RecordCommitted(pass anomalies.Pass, _ anomalies.Path, severity anomalies.Severity) {
	r.committed.WithLabelValues(string(pass), severity.String()).Inc()
}

// PassFinished implements anomalies.Observer.
func (r *Recorder) PassFinished(pass anomalies.Pass, elapsed time.Duration, err error) {
	r.passDuration.WithLabelValues(string(pass)).Observe(elapsed.Seconds())
	if err != nil {
		r.passFailures.WithLabelValues(string(pass)).Inc()
	}
}

// Committed returns the committed-records counter for pass and severity.
func (r *Recorder) Committed(pass anomalies.Pass, severity anomalies.Severity) prometheus.Counter {
	return r.committed.WithLabelValues(string(pass), severity.String())
}

// Failures returns the failures counter for pass.
func (r *Recorder) Failures(pass anomalies.Pass) prometheus.Counter {
	return r.passFailures.WithLabelValues(string(pass))
}
