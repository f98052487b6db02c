package peerlist

import (
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	"github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
)

const (
	// MetricsSubsystem is a subsystem shared by all metrics exposed by this
	// package.
	MetricsSubsystem = "store"
)

// Metrics contains metrics exposed by this package.
type Metrics struct {
	// Addresses newly added.
	Adds metrics.Counter
	// Addresses removed.
	Removes metrics.Counter
	// Add or remove calls that left the list unchanged.
	Noops metrics.Counter
	// Number of members after the last operation.
	Members metrics.Gauge
	// Time spent persisting the list.
	SaveTime metrics.Histogram
}

// PrometheusMetrics returns Metrics build using Prometheus client library and
// registered with reg. Optionally, labels can be provided along with their
// values ("foo", "fooValue").
func PrometheusMetrics(reg stdprometheus.Registerer, namespace string, labelsAndValues ...string) *Metrics {
	labels := []string{}
	for i := 0; i < len(labelsAndValues); i += 2 {
		labels = append(labels, labelsAndValues[i])
	}

	adds := stdprometheus.NewCounterVec(stdprometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: MetricsSubsystem,
		Name:      "adds_total",
		Help:      "Number of peer addresses added to the list.",
	}, labels)
	removes := stdprometheus.NewCounterVec(stdprometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: MetricsSubsystem,
		Name:      "removes_total",
		Help:      "Number of peer addresses removed from the list.",
	}, labels)
	noops := stdprometheus.NewCounterVec(stdprometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: MetricsSubsystem,
		Name:      "noops_total",
		Help:      "Number of add or remove calls that did not change the list.",
	}, labels)
	members := stdprometheus.NewGaugeVec(stdprometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: MetricsSubsystem,
		Name:      "members",
		Help:      "Number of peer addresses in the list.",
	}, labels)
	saveTime := stdprometheus.NewHistogramVec(stdprometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: MetricsSubsystem,
		Name:      "save_duration_seconds",
		Help:      "Time spent persisting the peer list.",
		Buckets:   stdprometheus.ExponentialBuckets(0.0005, 4, 8),
	}, labels)
	reg.MustRegister(adds, removes, noops, members, saveTime)

	return &Metrics{
		Adds:     prometheus.NewCounter(adds).With(labelsAndValues...),
		Removes:  prometheus.NewCounter(removes).With(labelsAndValues...),
		Noops:    prometheus.NewCounter(noops).With(labelsAndValues...),
		Members:  prometheus.NewGauge(members).With(labelsAndValues...),
		SaveTime: prometheus.NewHistogram(saveTime).With(labelsAndValues...),
	}
}

// NopMetrics returns no-op Metrics.
func NopMetrics() *Metrics {
	return &Metrics{
		Adds:     discard.NewCounter(),
		Removes:  discard.NewCounter(),
		Noops:    discard.NewCounter(),
		Members:  discard.NewGauge(),
		SaveTime: discard.NewHistogram(),
	}
}
