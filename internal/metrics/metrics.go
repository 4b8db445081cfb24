// Package metrics exposes planner counters to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry  *prometheus.Registry
	mutations *prometheus.CounterVec
	saves     *prometheus.CounterVec
	history   *prometheus.CounterVec
	undoDepth prometheus.Gauge
}

// New registers the planner counters on a private registry together with
// the Go runtime collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "backstage",
			Name:      "mutations_total",
			Help:      "Applied state mutations by operation.",
		}, []string{"op"}),
		saves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "backstage",
			Name:      "saves_total",
			Help:      "Document saves by result.",
		}, []string{"result"}),
		history: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "backstage",
			Name:      "history_steps_total",
			Help:      "Undo and redo steps taken.",
		}, []string{"direction"}),
		undoDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "backstage",
			Name:      "undo_depth",
			Help:      "Snapshots currently on the undo stack.",
		}),
	}
	reg.MustRegister(m.mutations, m.saves, m.history, m.undoDepth,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// The methods below accept a nil receiver so callers can run without metrics.

func (m *Metrics) Mutation(op string) {
	if m != nil {
		m.mutations.WithLabelValues(op).Inc()
	}
}

func (m *Metrics) Save(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.saves.WithLabelValues(result).Inc()
}

func (m *Metrics) HistoryStep(direction string) {
	if m != nil {
		m.history.WithLabelValues(direction).Inc()
	}
}

func (m *Metrics) UndoDepth(n int) {
	if m != nil {
		m.undoDepth.Set(float64(n))
	}
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
