package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

/*
Metrics are registered on a registry owned by each Metrics value rather
than the global default, so several instances (tests, CLI runs) can coexist.

- CounterVec: votes by direction, scan notifications by kind and outcome.
- Histogram: scan duration, to spot slow stores as the goal list grows.

All recording methods are safe on a nil *Metrics.
*/

const (
	ResultDelivered = "delivered"
	ResultDropped   = "dropped"
	ResultFailed    = "failed"
)

type Metrics struct {
	Registry *prometheus.Registry

	GoalsCreated      prometheus.Counter
	VotesCast         *prometheus.CounterVec
	EvidenceAdded     prometheus.Counter
	ScanNotifications *prometheus.CounterVec
	ScanDuration      prometheus.Histogram
}

func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		GoalsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "goals_created_total",
			Help:      "Total number of goals created",
		}),
		VotesCast: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "votes_cast_total",
				Help:      "Total number of votes cast, including overwrites",
			},
			[]string{"vote"},
		),
		EvidenceAdded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evidence_added_total",
			Help:      "Total number of evidence entries added",
		}),
		ScanNotifications: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "scanner",
				Name:      "notifications_total",
				Help:      "Scan notifications by kind and delivery result",
			},
			[]string{"kind", "result"},
		),
		ScanDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scanner",
			Name:      "scan_duration_seconds",
			Help:      "Histogram of goal scan durations",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8), // 1ms to ~16s
		}),
	}
}

func (m *Metrics) ObserveGoalCreated() {
	if m == nil {
		return
	}
	m.GoalsCreated.Inc()
}

func (m *Metrics) ObserveVote(vote bool) {
	if m == nil {
		return
	}
	label := "against"
	if vote {
		label = "for"
	}
	m.VotesCast.WithLabelValues(label).Inc()
}

func (m *Metrics) ObserveEvidence() {
	if m == nil {
		return
	}
	m.EvidenceAdded.Inc()
}

func (m *Metrics) ObserveNotification(kind, result string) {
	if m == nil {
		return
	}
	m.ScanNotifications.WithLabelValues(kind, result).Inc()
}

func (m *Metrics) ObserveScan(d time.Duration) {
	if m == nil {
		return
	}
	m.ScanDuration.Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
