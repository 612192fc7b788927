package observability

import (
	"context"
	"net/http"
	"time"

	"github.com/aretw0/formstate/pkg/actions"
	"github.com/aretw0/formstate/pkg/domain"
	"github.com/aretw0/formstate/pkg/form"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors fed by instrumented trees.
type Metrics struct {
	registry   *prometheus.Registry
	dispatched *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	invalid    *prometheus.CounterVec
}

// NewMetrics creates the collectors on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		dispatched: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "formstate_actions_dispatched_total",
				Help: "Total number of dispatched form events",
			},
			[]string{"kind"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "formstate_action_chain_duration_seconds",
				Help:    "Duration of whole handler chains",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
			[]string{"kind"},
		),
		invalid: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "formstate_validation_failures_total",
				Help: "Validations that left errors on a node",
			},
			[]string{"path"},
		),
	}
	m.registry.MustRegister(m.dispatched, m.duration, m.invalid)
	return m
}

// Registry exposes the registry, e.g. to add process collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the collected metrics in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Dispatched returns the counter for kind.
func (m *Metrics) Dispatched(kind domain.ActionKind) prometheus.Counter {
	return m.dispatched.WithLabelValues(string(kind))
}

// ValidationFailures returns the failure counter for a node path.
func (m *Metrics) ValidationFailures(path string) prometheus.Counter {
	return m.invalid.WithLabelValues(path)
}

// Instrument registers the metric handlers on every node of the tree.
func (m *Metrics) Instrument(root form.Node) error {
	return wrap(root, Kinds, m.handler)
}

// Setup adapts Instrument to session setup hooks.
func (m *Metrics) Setup(formID string, g *form.Group) error {
	return m.Instrument(g)
}

func (m *Metrics) handler(kind domain.ActionKind) actions.Handler[form.Node] {
	label := string(kind)
	return func(ctx context.Context, n form.Node, next actions.Next, args ...any) error {
		m.dispatched.WithLabelValues(label).Inc()
		start := time.Now()
		err := next(ctx, args...)
		m.duration.WithLabelValues(label).Observe(time.Since(start).Seconds())

		if kind == domain.Validate && err == nil && len(n.Errors()) > 0 {
			m.invalid.WithLabelValues(n.Path()).Inc()
		}
		return err
	}
}
