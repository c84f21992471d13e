package justification

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/HendryAvila/justifier/internal/axiom"
	"github.com/HendryAvila/justifier/internal/reasoner"
)

// Defaults for a new Manager.
const (
	DefaultExplanationLimit = 2
	DefaultFindAll          = true
)

// KnowledgeBase is the axiom store the engine reads from and subscribes to.
type KnowledgeBase interface {
	ActiveUnits() []axiom.Unit
	AddChangeListener(l axiom.ChangeListener)
	RemoveChangeListener(l axiom.ChangeListener)
}

// Reasoner answers the live consistency question and supplies the factory
// generators use to build their own checkers.
type Reasoner interface {
	IsConsistent(ctx context.Context) (bool, error)
	Factory() reasoner.Factory
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithExplanationLimit sets the initial explanation limit.
func WithExplanationLimit(n int) Option {
	return func(m *Manager) { m.limit = n }
}

// WithFindAll sets the initial find-all flag.
func WithFindAll(b bool) Option {
	return func(m *Manager) { m.findAll = b }
}

// WithResultCaching makes ComputeJustifications answer from and populate the
// per-kind caches. Off by default: every call recomputes.
func WithResultCaching(b bool) Option {
	return func(m *Manager) { m.caching = b }
}

// Manager computes justifications for one knowledge base. Create it with
// NewManager and release it with Dispose.
type Manager struct {
	kb       KnowledgeBase
	reasoner Reasoner
	selector *Selector

	caches       *CacheManager
	listeners    *ListenerRegistry
	invalidation *ChangeInvalidationListener
	rootDerived  *RootDerivedGenerator
	logger       *zap.SugaredLogger

	// guarded by caches.mu
	limit    int
	findAll  bool
	caching  bool
	disposed bool
}

// NewManager wires a manager to kb and subscribes its cache invalidation to
// kb's changes.
func NewManager(kb KnowledgeBase, r Reasoner, svc SearchService, opts ...Option) *Manager {
	m := &Manager{
		kb:       kb,
		reasoner: r,
		selector: NewSelector(svc),
		caches:   NewCacheManager(),
		logger:   zap.NewNop().Sugar(),
		limit:    DefaultExplanationLimit,
		findAll:  DefaultFindAll,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.listeners = NewListenerRegistry(m.logger)
	m.invalidation = NewChangeInvalidationListener(m.caches, m.logger)
	m.rootDerived = NewRootDerivedGenerator(svc)
	kb.AddChangeListener(m.invalidation)
	kb.AddChangeListener(m.rootDerived)
	return m
}

// Caches exposes the per-kind result caches.
func (m *Manager) Caches() *CacheManager { return m.caches }

// ReasonerFactory returns the factory generators are built with.
func (m *Manager) ReasonerFactory() reasoner.Factory { return m.reasoner.Factory() }

// --- Settings ---

// ExplanationLimit is the maximum number of explanations a computation
// returns when find-all is set. Zero or negative means no limit.
func (m *Manager) ExplanationLimit() int {
	m.caches.mu.RLock()
	defer m.caches.mu.RUnlock()
	return m.limit
}

// SetExplanationLimit stores n and notifies listeners, even if n is unchanged.
func (m *Manager) SetExplanationLimit(n int) {
	m.caches.mu.Lock()
	m.limit = n
	m.caches.mu.Unlock()
	m.listeners.fireLimitChanged(m)
}

// FindAllExplanations reports whether computations search for more than one
// explanation.
func (m *Manager) FindAllExplanations() bool {
	m.caches.mu.RLock()
	defer m.caches.mu.RUnlock()
	return m.findAll
}

// SetFindAllExplanations stores b and notifies listeners, even if b is
// unchanged.
func (m *Manager) SetFindAllExplanations(b bool) {
	m.caches.mu.Lock()
	m.findAll = b
	m.caches.mu.Unlock()
	m.listeners.fireLimitChanged(m)
}

// ResultCaching reports whether computed results are cached.
func (m *Manager) ResultCaching() bool {
	m.caches.mu.RLock()
	defer m.caches.mu.RUnlock()
	return m.caching
}

type settings struct {
	limit    int
	findAll  bool
	caching  bool
	disposed bool
}

func (m *Manager) settings() settings {
	m.caches.mu.RLock()
	defer m.caches.mu.RUnlock()
	return settings{limit: m.limit, findAll: m.findAll, caching: m.caching, disposed: m.disposed}
}

// effectiveLimit is 1 when only the first explanation is wanted, otherwise
// the configured limit.
func (s settings) effectiveLimit() int {
	if !s.findAll {
		return 1
	}
	return s.limit
}

// --- Listeners ---

// AddListener registers l. The same listener may be registered twice.
func (m *Manager) AddListener(l Listener) { m.listeners.Add(l) }

// RemoveListener drops one registration of l.
func (m *Manager) RemoveListener(l Listener) { m.listeners.Remove(l) }

// --- Computation ---

// snapshot copies the active axioms so a computation never sees later
// mutations.
func (m *Manager) snapshot() []axiom.Axiom {
	var axs []axiom.Axiom
	for _, u := range m.kb.ActiveUnits() {
		axs = append(axs, u.Axioms()...)
	}
	return axiom.Dedupe(axs)
}

// ComputeJustifications finds explanations of e over the active axioms.
// The strategy follows kind and the knowledge base's consistency at call
// time. Listeners are told about every successful computation, including
// one that found nothing. Every failure is an *ExplanationError.
func (m *Manager) ComputeJustifications(ctx context.Context, e axiom.Axiom, kind Kind, monitor ProgressMonitor) (*Result, error) {
	if monitor == nil {
		monitor = NopMonitor
	}
	s := m.settings()
	if s.disposed {
		return nil, explanationError(e, kind, ErrDisposed)
	}
	if err := ValidateKind(kind); err != nil {
		return nil, explanationError(e, kind, err)
	}

	start := time.Now()
	m.logger.Infow("Computing justifications", "entailment", e.Key(), "kind", kind)

	reportPhase(monitor, PhaseSnapshotting)
	gen := m.caches.Generation()
	axioms := m.snapshot()
	cache := m.caches.Cache(kind)

	if s.caching {
		if r, err := cache.Get(e); err == nil {
			reportPhase(monitor, PhaseCompleted)
			m.logger.Infow("Justifications served from cache", "entailment", e.Key(), "total", r.Len())
			m.listeners.fireComputed(e)
			return r, nil
		}
	}

	consistent, err := m.reasoner.IsConsistent(ctx)
	if err != nil {
		return nil, m.fail(monitor, e, kind, err)
	}
	factory, err := m.selector.Select(kind, consistent, m.reasoner.Factory())
	if err != nil {
		return nil, m.fail(monitor, e, kind, err)
	}
	reportPhase(monitor, PhaseStrategySelected)
	m.logger.Debugw("strategy selected", "kind", kind, "consistent", consistent, "axioms", len(axioms))

	reportPhase(monitor, PhaseSearching)
	exps, err := factory.CreateGenerator(axioms, monitor).Explanations(ctx, e, s.effectiveLimit())
	if err != nil {
		return nil, m.fail(monitor, e, kind, err)
	}
	result := NewResult(e, exps...)
	if s.caching {
		cache.PutAt(gen, result)
	}

	reportPhase(monitor, PhaseCompleted)
	m.logger.Infow("Justifications computed",
		"entailment", e.Key(),
		"total", result.Len(),
		"elapsed", time.Since(start),
	)
	m.listeners.fireComputed(e)
	return result, nil
}

func (m *Manager) fail(monitor ProgressMonitor, e axiom.Axiom, kind Kind, err error) error {
	xerr := &ExplanationError{Entailment: e, Kind: kind, Err: err}
	if xerr.Cancelled() {
		reportPhase(monitor, PhaseCancelled)
		m.logger.Infow("Justification search cancelled", "entailment", e.Key(), "kind", kind)
	} else {
		reportPhase(monitor, PhaseFailed)
		m.logger.Errorw("Justification search failed", "entailment", e.Key(), "kind", kind, "error", err)
	}
	return xerr
}

// ComputedExplanationCount returns the number of cached explanations for e,
// or -1 when nothing is cached. It never computes.
func (m *Manager) ComputedExplanationCount(e axiom.Axiom, kind Kind) int {
	r, err := m.caches.Cache(kind).Get(e)
	if err != nil {
		return -1
	}
	return r.Len()
}

// LaconicJustification returns one laconic form of exp, or the empty
// explanation of exp's entailment when there is none or the search fails.
func (m *Manager) LaconicJustification(ctx context.Context, exp Explanation) Explanation {
	r, err := m.LaconicExplanations(ctx, exp, 1)
	if err != nil {
		m.logger.Warnw("laconic justification failed", "entailment", exp.Entailment().Key(), "error", err)
		return EmptyExplanation(exp.Entailment())
	}
	xs := r.Explanations()
	if len(xs) == 0 {
		return EmptyExplanation(exp.Entailment())
	}
	return xs[0]
}

// LaconicExplanations searches for laconic explanations of exp's entailment
// using only exp's axioms. Results are not cached and listeners are not
// notified.
func (m *Manager) LaconicExplanations(ctx context.Context, exp Explanation, limit int) (*Result, error) {
	e := exp.Entailment()
	if m.settings().disposed {
		return nil, explanationError(e, KindLaconic, ErrDisposed)
	}
	consistent, err := m.reasoner.IsConsistent(ctx)
	if err != nil {
		return nil, explanationError(e, KindLaconic, err)
	}
	factory, err := m.selector.Select(KindLaconic, consistent, m.reasoner.Factory())
	if err != nil {
		return nil, explanationError(e, KindLaconic, err)
	}
	exps, err := factory.CreateGenerator(exp.Axioms(), NopMonitor).Explanations(ctx, e, limit)
	if err != nil {
		return nil, explanationError(e, KindLaconic, err)
	}
	return NewResult(e, exps...), nil
}

// UnsatisfiableClasses returns the root and derived unsatisfiable classes of
// the active axioms. The answer is kept until the next knowledge-base change.
func (m *Manager) UnsatisfiableClasses(ctx context.Context) (*UnsatisfiableClasses, error) {
	if m.settings().disposed {
		return nil, ErrDisposed
	}
	return m.rootDerived.Compute(ctx, m.snapshot(), m.reasoner.Factory())
}

// Future is the pending outcome of ComputeJustificationsAsync.
type Future struct {
	done   chan struct{}
	result *Result
	err    error
}

// Done is closed when the computation has finished.
func (f *Future) Done() <-chan struct{} { return f.done }

// Wait blocks until the computation finishes or ctx is done. Cancelling ctx
// stops waiting, not the computation; cancel the context passed to
// ComputeJustificationsAsync for that.
func (f *Future) Wait(ctx context.Context) (*Result, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// ComputeJustificationsAsync runs ComputeJustifications in its own goroutine.
func (m *Manager) ComputeJustificationsAsync(ctx context.Context, e axiom.Axiom, kind Kind, monitor ProgressMonitor) *Future {
	f := &Future{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.result, f.err = m.ComputeJustifications(ctx, e, kind, monitor)
	}()
	return f
}

// --- Lifecycle ---

// Dispose unsubscribes from the knowledge base and releases the
// unsatisfiable-class generator. Later computations fail with ErrDisposed.
// Dispose is idempotent.
func (m *Manager) Dispose() {
	m.caches.mu.Lock()
	if m.disposed {
		m.caches.mu.Unlock()
		return
	}
	m.disposed = true
	m.caches.mu.Unlock()

	m.kb.RemoveChangeListener(m.invalidation)
	m.kb.RemoveChangeListener(m.rootDerived)
	m.rootDerived.Dispose()
	m.logger.Debugw("justification manager disposed")
}
