package metrics

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HendryAvila/justifier/internal/axiom"
	"github.com/HendryAvila/justifier/internal/blackbox"
	"github.com/HendryAvila/justifier/internal/justification"
	"github.com/HendryAvila/justifier/internal/kb"
	"github.com/HendryAvila/justifier/internal/reasoner"
)

func newManager(t *testing.T, c *Collector) (*kb.KnowledgeBase, *justification.Manager) {
	t.Helper()
	base := kb.New()
	base.AddChangeListener(c)
	m := justification.NewManager(base, reasoner.New(base, reasoner.NewSATFactory(0), nil), blackbox.New())
	m.AddListener(c)
	t.Cleanup(m.Dispose)
	return base, m
}

func TestCollector_KBChanges(t *testing.T) {
	c := New()
	base, _ := newManager(t, c)

	_, err := base.AddAxioms("u", axiom.MustParse("A SubClassOf B"), axiom.MustParse("B SubClassOf C"))
	require.NoError(t, err)
	_, err = base.RemoveAxioms("u", axiom.MustParse("A SubClassOf B"))
	require.NoError(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.KBChanges.WithLabelValues("add")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.KBChanges.WithLabelValues("remove")))
}

func TestCollector_LimitChanges(t *testing.T) {
	c := New()
	_, m := newManager(t, c)

	m.SetExplanationLimit(5)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.LimitChanges))
	assert.Equal(t, 5.0, testutil.ToFloat64(c.ExplanationLimit))

	m.SetFindAllExplanations(false)
	assert.Equal(t, 2.0, testutil.ToFloat64(c.LimitChanges))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ExplanationLimit))
}

func TestCollector_ComputationAndMonitor(t *testing.T) {
	c := New()
	base, m := newManager(t, c)
	_, err := base.AddAxioms("u", axiom.MustParse("A SubClassOf B"), axiom.MustParse("B SubClassOf C"))
	require.NoError(t, err)

	var forwarded int
	mon := c.Monitor(justification.MonitorFunc(func(justification.Explanation) { forwarded++ }))
	r, err := m.ComputeJustifications(context.Background(), axiom.Subsumption("A", "C"), justification.KindRegular, mon)
	require.NoError(t, err)
	require.Equal(t, 1, r.Len())

	assert.Equal(t, 1.0, testutil.ToFloat64(c.Computed))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ExplanationsFound))
	assert.Equal(t, 1, forwarded)
	for _, p := range []justification.Phase{
		justification.PhaseSnapshotting,
		justification.PhaseStrategySelected,
		justification.PhaseSearching,
		justification.PhaseCompleted,
	} {
		assert.Equal(t, 1.0, testutil.ToFloat64(c.Phases.WithLabelValues(string(p))), p)
	}
}

func TestCollector_MonitorWithoutNext(t *testing.T) {
	c := New()
	mon := c.Monitor(nil)
	assert.NotPanics(t, func() {
		mon.ExplanationFound(justification.EmptyExplanation(axiom.Subsumption("A", "B")))
		mon.(justification.PhaseMonitor).PhaseChanged(justification.PhaseFailed)
	})
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Phases.WithLabelValues("failed")))
}

func TestCollector_Handler(t *testing.T) {
	c := New()
	c.Computed.Inc()

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), "justifier_explanations_computed_total 1")
	assert.Contains(t, string(body), "go_goroutines")
}
