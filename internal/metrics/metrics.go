// Package metrics exports justification and knowledge-base activity to
// prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/HendryAvila/justifier/internal/axiom"
	"github.com/HendryAvila/justifier/internal/justification"
)

const namespace = "justifier"

var (
	_ justification.Listener     = (*Collector)(nil)
	_ axiom.ChangeListener       = (*Collector)(nil)
	_ justification.PhaseMonitor = (*monitor)(nil)
)

// Collector counts manager events, knowledge-base changes and search
// phases. It is a justification.Listener and an axiom.ChangeListener; the
// search monitor comes from Monitor.
type Collector struct {
	registry *prometheus.Registry

	// Computed counts successful computations.
	Computed prometheus.Counter
	// LimitChanges counts setting updates, including no-op ones.
	LimitChanges prometheus.Counter
	// ExplanationLimit is the last limit a manager reported.
	ExplanationLimit prometheus.Gauge
	// KBChanges counts axiom changes. Labels: op (add, remove)
	KBChanges *prometheus.CounterVec
	// Phases counts phase transitions of monitored searches. Labels: phase
	Phases *prometheus.CounterVec
	// ExplanationsFound counts explanations reported while searching.
	ExplanationsFound prometheus.Counter
}

// New builds a collector on its own registry, which also carries the Go
// runtime and process collectors.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		Computed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "explanations_computed_total",
			Help:      "Successful justification computations",
		}),
		LimitChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "limit_changes_total",
			Help:      "Explanation limit or find-all updates",
		}),
		ExplanationLimit: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "explanation_limit",
			Help:      "Current explanation limit, 1 when find-all is off",
		}),
		KBChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kb_changes_total",
			Help:      "Axiom changes applied to the knowledge base",
		}, []string{"op"}),
		Phases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "phases_total",
			Help:      "Phase transitions of justification searches",
		}, []string{"phase"}),
		ExplanationsFound: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "explanations_found_total",
			Help:      "Explanations reported by running searches",
		}),
	}
	c.registry.MustRegister(
		c.Computed,
		c.LimitChanges,
		c.ExplanationLimit,
		c.KBChanges,
		c.Phases,
		c.ExplanationsFound,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Registry returns the registry the collector's metrics live in.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler serves the registry in the prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ExplanationLimitChanged implements justification.Listener.
func (c *Collector) ExplanationLimitChanged(m *justification.Manager) {
	c.LimitChanges.Inc()
	limit := m.ExplanationLimit()
	if !m.FindAllExplanations() {
		limit = 1
	}
	c.ExplanationLimit.Set(float64(limit))
}

// ExplanationsComputed implements justification.Listener.
func (c *Collector) ExplanationsComputed(axiom.Axiom) {
	c.Computed.Inc()
}

// AxiomsChanged implements axiom.ChangeListener.
func (c *Collector) AxiomsChanged(changes []axiom.Change) {
	for _, ch := range changes {
		c.KBChanges.WithLabelValues(string(ch.Op)).Inc()
	}
}

// Monitor returns a progress monitor that records phases and found
// explanations, forwarding both to next when it is non-nil.
func (c *Collector) Monitor(next justification.ProgressMonitor) justification.ProgressMonitor {
	return &monitor{c: c, next: next}
}

type monitor struct {
	c    *Collector
	next justification.ProgressMonitor
}

func (m *monitor) ExplanationFound(x justification.Explanation) {
	m.c.ExplanationsFound.Inc()
	if m.next != nil {
		m.next.ExplanationFound(x)
	}
}

func (m *monitor) PhaseChanged(p justification.Phase) {
	m.c.Phases.WithLabelValues(string(p)).Inc()
	if pm, ok := m.next.(justification.PhaseMonitor); ok {
		pm.PhaseChanged(p)
	}
}
