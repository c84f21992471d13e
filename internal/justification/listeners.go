package justification

import (
	"sync"

	"go.uber.org/zap"

	"github.com/HendryAvila/justifier/internal/axiom"
)

// Listener observes a Manager.
type Listener interface {
	// ExplanationLimitChanged fires after either setting changes.
	ExplanationLimitChanged(m *Manager)
	// ExplanationsComputed fires after a successful computation for e.
	ExplanationsComputed(e axiom.Axiom)
}

// ListenerFuncs adapts optional functions to Listener. Register a pointer
// if the listener must later be removed.
type ListenerFuncs struct {
	OnLimitChanged func(m *Manager)
	OnComputed     func(e axiom.Axiom)
}

// ExplanationLimitChanged implements Listener.
func (l *ListenerFuncs) ExplanationLimitChanged(m *Manager) {
	if l.OnLimitChanged != nil {
		l.OnLimitChanged(m)
	}
}

// ExplanationsComputed implements Listener.
func (l *ListenerFuncs) ExplanationsComputed(e axiom.Axiom) {
	if l.OnComputed != nil {
		l.OnComputed(e)
	}
}

// ListenerRegistry holds listeners in registration order. Duplicates are
// allowed and notified once per registration.
type ListenerRegistry struct {
	mu        sync.RWMutex
	listeners []Listener
	logger    *zap.SugaredLogger
}

// NewListenerRegistry returns an empty registry. A nil logger is replaced
// with a no-op logger.
func NewListenerRegistry(logger *zap.SugaredLogger) *ListenerRegistry {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &ListenerRegistry{logger: logger}
}

// Add appends l.
func (r *ListenerRegistry) Add(l Listener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, l)
}

// Remove drops the first registration of l. Removing an unknown listener
// is a no-op.
func (r *ListenerRegistry) Remove(l Listener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, x := range r.listeners {
		if x == l {
			r.listeners = append(r.listeners[:i:i], r.listeners[i+1:]...)
			return
		}
	}
}

// Len is the number of registrations.
func (r *ListenerRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.listeners)
}

// snapshot copies the slice so callbacks may add or remove listeners.
func (r *ListenerRegistry) snapshot() []Listener {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Listener, len(r.listeners))
	copy(out, r.listeners)
	return out
}

func (r *ListenerRegistry) notify(event string, fn func(Listener)) {
	for _, l := range r.snapshot() {
		r.call(event, l, fn)
	}
}

func (r *ListenerRegistry) call(event string, l Listener, fn func(Listener)) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Errorw("listener panicked", "event", event, "panic", p)
		}
	}()
	fn(l)
}

func (r *ListenerRegistry) fireLimitChanged(m *Manager) {
	r.notify("limit_changed", func(l Listener) { l.ExplanationLimitChanged(m) })
}

func (r *ListenerRegistry) fireComputed(e axiom.Axiom) {
	r.notify("computed", func(l Listener) { l.ExplanationsComputed(e) })
}
