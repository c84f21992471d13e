// Package kb is the knowledge base: named units of axioms that can be
// switched on and off, optionally persisted to SQLite.
//
// Every mutation is persisted first, then applied in memory, then reported
// to change listeners as a single batch. Mutations that change nothing are
// not reported.
package kb

import (
	"sort"
	"sync"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/HendryAvila/justifier/internal/axiom"
)

// ErrUnknownUnit is returned for operations naming a unit that does not exist.
var ErrUnknownUnit = errors.New("unknown unit")

// Unit is a read-only snapshot of one unit.
type Unit struct {
	name   string
	active bool
	axioms []axiom.Axiom
}

// Name implements axiom.Unit.
func (u Unit) Name() string { return u.name }

// Axioms implements axiom.Unit. The returned slice is a copy.
func (u Unit) Axioms() []axiom.Axiom { return append([]axiom.Axiom(nil), u.axioms...) }

// Active reports whether the unit contributes to reasoning.
func (u Unit) Active() bool { return u.active }

// Stats summarizes the knowledge base.
type Stats struct {
	Units        int `json:"units"`
	ActiveUnits  int `json:"active_units"`
	Axioms       int `json:"axioms"`
	ActiveAxioms int `json:"active_axioms"`
}

type unitState struct {
	active bool
	axioms []axiom.Axiom
}

// KnowledgeBase holds units in memory and broadcasts their changes.
type KnowledgeBase struct {
	// writeMu serializes mutations so batches reach listeners in the order
	// they were applied.
	writeMu sync.Mutex

	mu    sync.RWMutex
	units map[string]*unitState

	lmu       sync.RWMutex
	listeners []axiom.ChangeListener

	store  *Store
	logger *zap.SugaredLogger
}

// Option configures a KnowledgeBase.
type Option func(*KnowledgeBase)

// WithLogger sets the logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(kb *KnowledgeBase) {
		if l != nil {
			kb.logger = l
		}
	}
}

// New returns an empty in-memory knowledge base.
func New(opts ...Option) *KnowledgeBase {
	kb := &KnowledgeBase{
		units:  make(map[string]*unitState),
		logger: zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(kb)
	}
	return kb
}

// Open returns a knowledge base backed by store, loaded with its contents.
// Loading does not notify listeners.
func Open(store *Store, opts ...Option) (*KnowledgeBase, error) {
	kb := New(opts...)
	kb.store = store
	units, err := store.Load()
	if err != nil {
		return nil, err
	}
	for _, u := range units {
		kb.units[u.Name] = &unitState{active: u.Active, axioms: axiom.Dedupe(u.Axioms)}
	}
	kb.logger.Infow("knowledge base loaded", "units", len(units))
	return kb, nil
}

// ─── Listeners ───────────────────────────────────────────────────────────────

// AddChangeListener registers l. Listeners are called synchronously and must
// not mutate the knowledge base from inside the callback.
func (kb *KnowledgeBase) AddChangeListener(l axiom.ChangeListener) {
	kb.lmu.Lock()
	defer kb.lmu.Unlock()
	kb.listeners = append(kb.listeners, l)
}

// RemoveChangeListener drops the first registration of l.
func (kb *KnowledgeBase) RemoveChangeListener(l axiom.ChangeListener) {
	kb.lmu.Lock()
	defer kb.lmu.Unlock()
	for i, x := range kb.listeners {
		if x == l {
			kb.listeners = append(kb.listeners[:i:i], kb.listeners[i+1:]...)
			return
		}
	}
}

func (kb *KnowledgeBase) notify(changes []axiom.Change) {
	kb.lmu.RLock()
	ls := make([]axiom.ChangeListener, len(kb.listeners))
	copy(ls, kb.listeners)
	kb.lmu.RUnlock()

	for _, l := range ls {
		l.AxiomsChanged(changes)
	}
}

// ─── Reads ───────────────────────────────────────────────────────────────────

// Units returns every unit, sorted by name.
func (kb *KnowledgeBase) Units() []Unit {
	kb.mu.RLock()
	defer kb.mu.RUnlock()
	out := make([]Unit, 0, len(kb.units))
	for name, u := range kb.units {
		out = append(out, Unit{name: name, active: u.active, axioms: u.axioms})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// Unit returns the named unit.
func (kb *KnowledgeBase) Unit(name string) (Unit, error) {
	kb.mu.RLock()
	defer kb.mu.RUnlock()
	u, ok := kb.units[name]
	if !ok {
		return Unit{}, errors.Wrapf(ErrUnknownUnit, "%q", name)
	}
	return Unit{name: name, active: u.active, axioms: u.axioms}, nil
}

// ActiveUnits returns the active units, sorted by name.
func (kb *KnowledgeBase) ActiveUnits() []axiom.Unit {
	var out []axiom.Unit
	for _, u := range kb.Units() {
		if u.active {
			out = append(out, u)
		}
	}
	return out
}

// Axioms returns the distinct axioms of all active units.
func (kb *KnowledgeBase) Axioms() []axiom.Axiom {
	var out []axiom.Axiom
	for _, u := range kb.ActiveUnits() {
		out = append(out, u.Axioms()...)
	}
	return axiom.Dedupe(out)
}

// Stats counts units and axioms.
func (kb *KnowledgeBase) Stats() Stats {
	var s Stats
	for _, u := range kb.Units() {
		s.Units++
		s.Axioms += len(u.axioms)
		if u.active {
			s.ActiveUnits++
		}
	}
	s.ActiveAxioms = len(kb.Axioms())
	return s
}

// ─── Mutations ───────────────────────────────────────────────────────────────

// AddAxioms adds axs to unit, creating it (active) if needed. Axioms already
// in the unit are ignored.
func (kb *KnowledgeBase) AddAxioms(unit string, axs ...axiom.Axiom) ([]axiom.Change, error) {
	return kb.mutate(func(read func(string) (unitState, bool)) ([]StoredUnit, error) {
		cur, ok := read(unit)
		if !ok {
			cur = unitState{active: true}
		}
		next := axiom.Dedupe(append(append([]axiom.Axiom(nil), cur.axioms...), axs...))
		return []StoredUnit{{Name: unit, Active: cur.active, Axioms: next}}, nil
	})
}

// RemoveAxioms removes axs from unit. Axioms not in the unit are ignored.
func (kb *KnowledgeBase) RemoveAxioms(unit string, axs ...axiom.Axiom) ([]axiom.Change, error) {
	return kb.mutate(func(read func(string) (unitState, bool)) ([]StoredUnit, error) {
		cur, ok := read(unit)
		if !ok {
			return nil, errors.Wrapf(ErrUnknownUnit, "%q", unit)
		}
		drop := make(map[string]bool, len(axs))
		for _, a := range axs {
			drop[a.Key()] = true
		}
		var next []axiom.Axiom
		for _, a := range cur.axioms {
			if !drop[a.Key()] {
				next = append(next, a)
			}
		}
		return []StoredUnit{{Name: unit, Active: cur.active, Axioms: next}}, nil
	})
}

// ReplaceUnit sets unit's axioms to axs, creating it (active) if needed.
func (kb *KnowledgeBase) ReplaceUnit(unit string, axs []axiom.Axiom) ([]axiom.Change, error) {
	return kb.mutate(func(read func(string) (unitState, bool)) ([]StoredUnit, error) {
		cur, ok := read(unit)
		if !ok {
			cur.active = true
		}
		return []StoredUnit{{Name: unit, Active: cur.active, Axioms: axiom.Dedupe(axs)}}, nil
	})
}

// SetActive switches unit on or off.
func (kb *KnowledgeBase) SetActive(unit string, active bool) ([]axiom.Change, error) {
	return kb.mutate(func(read func(string) (unitState, bool)) ([]StoredUnit, error) {
		cur, ok := read(unit)
		if !ok {
			return nil, errors.Wrapf(ErrUnknownUnit, "%q", unit)
		}
		return []StoredUnit{{Name: unit, Active: active, Axioms: cur.axioms}}, nil
	})
}

// RemoveUnit deletes unit and its axioms.
func (kb *KnowledgeBase) RemoveUnit(unit string) ([]axiom.Change, error) {
	return kb.mutate(func(read func(string) (unitState, bool)) ([]StoredUnit, error) {
		if _, ok := read(unit); !ok {
			return nil, errors.Wrapf(ErrUnknownUnit, "%q", unit)
		}
		return []StoredUnit{{Name: unit, Deleted: true}}, nil
	})
}

// mutate plans the next state of some units, persists it, applies it and
// reports the resulting changes as one batch.
func (kb *KnowledgeBase) mutate(plan func(read func(string) (unitState, bool)) ([]StoredUnit, error)) ([]axiom.Change, error) {
	kb.writeMu.Lock()
	defer kb.writeMu.Unlock()

	kb.mu.RLock()
	read := func(name string) (unitState, bool) {
		u, ok := kb.units[name]
		if !ok {
			return unitState{}, false
		}
		return unitState{active: u.active, axioms: u.axioms}, true
	}
	next, err := plan(read)
	var changes []axiom.Change
	altered := false
	if err == nil {
		for _, u := range next {
			changes = append(changes, diffUnit(u.Name, kb.units[u.Name], u)...)
			altered = altered || altersUnit(kb.units[u.Name], u)
		}
	}
	kb.mu.RUnlock()
	if err != nil {
		return nil, err
	}
	if len(changes) == 0 && !altered {
		return nil, nil
	}

	if kb.store != nil {
		if err := kb.store.Save(next); err != nil {
			return nil, err
		}
	}

	kb.mu.Lock()
	for _, u := range next {
		if u.Deleted {
			delete(kb.units, u.Name)
			continue
		}
		kb.units[u.Name] = &unitState{active: u.Active, axioms: u.Axioms}
	}
	kb.mu.Unlock()

	if len(changes) > 0 {
		kb.logger.Debugw("knowledge base changed", "changes", len(changes))
		kb.notify(changes)
	}
	return changes, nil
}

// altersUnit reports whether next changes the unit itself: creating it,
// deleting it or flipping its active flag. An empty unit changes no axioms
// in any of these cases but must still be stored.
func altersUnit(cur *unitState, next StoredUnit) bool {
	switch {
	case cur == nil:
		return !next.Deleted
	case next.Deleted:
		return true
	default:
		return cur.active != next.Active
	}
}

// diffUnit lists the changes turning cur into next. Axioms leaving or
// entering the unit are reported, and so is every remaining axiom when the
// unit is switched off or on.
func diffUnit(name string, cur *unitState, next StoredUnit) []axiom.Change {
	var old unitState
	if cur != nil {
		old = *cur
	}
	if next.Deleted {
		next = StoredUnit{Name: name}
	}

	oldKeys := make(map[string]bool, len(old.axioms))
	for _, a := range old.axioms {
		oldKeys[a.Key()] = true
	}
	newKeys := make(map[string]bool, len(next.Axioms))
	for _, a := range next.Axioms {
		newKeys[a.Key()] = true
	}

	var out []axiom.Change
	for _, a := range old.axioms {
		if !newKeys[a.Key()] {
			out = append(out, axiom.Change{Op: axiom.OpRemove, Unit: name, Axiom: a})
		}
	}
	toggled := cur != nil && old.active != next.Active
	for _, a := range next.Axioms {
		switch {
		case !oldKeys[a.Key()]:
			out = append(out, axiom.Change{Op: axiom.OpAdd, Unit: name, Axiom: a})
		case toggled && next.Active:
			out = append(out, axiom.Change{Op: axiom.OpAdd, Unit: name, Axiom: a})
		case toggled:
			out = append(out, axiom.Change{Op: axiom.OpRemove, Unit: name, Axiom: a})
		}
	}
	return out
}
