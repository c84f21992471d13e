package justification

import (
	"context"
	"sort"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/HendryAvila/justifier/internal/axiom"
	"github.com/HendryAvila/justifier/internal/reasoner"
)

// UnsatisfiableClasses splits the unsatisfiable concepts of a knowledge base
// into roots and derived classes. A class is derived when the justification
// found for its unsatisfiability strictly contains the justification of
// another unsatisfiable class; fixing the roots fixes the derived classes.
type UnsatisfiableClasses struct {
	Roots   []string            `json:"roots"`
	Derived []string            `json:"derived"`
	Parents map[string][]string `json:"parents,omitempty"`
}

// Len is the total number of unsatisfiable classes.
func (u *UnsatisfiableClasses) Len() int { return len(u.Roots) + len(u.Derived) }

// RootDerivedGenerator computes UnsatisfiableClasses and keeps the answer
// until the next knowledge-base change.
type RootDerivedGenerator struct {
	svc SearchService

	mu       sync.Mutex
	cached   *UnsatisfiableClasses
	gen      uint64
	disposed bool
}

// NewRootDerivedGenerator returns a generator using svc to find
// justifications of unsatisfiability.
func NewRootDerivedGenerator(svc SearchService) *RootDerivedGenerator {
	return &RootDerivedGenerator{svc: svc}
}

// AxiomsChanged implements axiom.ChangeListener.
func (g *RootDerivedGenerator) AxiomsChanged([]axiom.Change) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cached = nil
	g.gen++
}

// Dispose drops the cached answer. Later calls to Compute fail.
func (g *RootDerivedGenerator) Dispose() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cached = nil
	g.disposed = true
}

// Compute returns the root and derived unsatisfiable classes of axioms.
func (g *RootDerivedGenerator) Compute(ctx context.Context, axioms []axiom.Axiom, rf reasoner.Factory) (*UnsatisfiableClasses, error) {
	g.mu.Lock()
	if g.disposed {
		g.mu.Unlock()
		return nil, ErrDisposed
	}
	if g.cached != nil {
		out := g.cached
		g.mu.Unlock()
		return out, nil
	}
	gen := g.gen
	g.mu.Unlock()

	out, err := g.compute(ctx, axioms, rf)
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	if g.gen == gen && !g.disposed {
		g.cached = out
	}
	g.mu.Unlock()
	return out, nil
}

func (g *RootDerivedGenerator) compute(ctx context.Context, axioms []axiom.Axiom, rf reasoner.Factory) (*UnsatisfiableClasses, error) {
	concepts := conceptNames(axioms)
	checker := rf.NewChecker(axioms)
	all := reasoner.All(len(axioms))
	search := g.svc.EntailmentFactory(rf).CreateGenerator(axioms, NopMonitor)

	justs := make(map[string]map[string]bool)
	var unsat []string
	for _, c := range concepts {
		e := axiom.Subsumption(c, axiom.Nothing)
		ok, _, err := checker.Entails(ctx, all, e)
		if err != nil {
			return nil, errors.Wrapf(err, "checking %s", c)
		}
		if !ok {
			continue
		}
		exps, err := search.Explanations(ctx, e, 1)
		if err != nil {
			return nil, errors.Wrapf(err, "justifying %s", c)
		}
		unsat = append(unsat, c)
		if len(exps) == 0 {
			continue
		}
		set := make(map[string]bool)
		for _, a := range exps[0].Axioms() {
			set[a.Key()] = true
		}
		justs[c] = set
	}

	// A class without a justification is a root and never a parent.
	out := &UnsatisfiableClasses{Roots: []string{}, Derived: []string{}, Parents: map[string][]string{}}
	for _, d := range unsat {
		var parents []string
		for _, r := range unsat {
			rj, ok := justs[r]
			if r != d && ok && strictSubset(rj, justs[d]) {
				parents = append(parents, r)
			}
		}
		if len(parents) == 0 {
			out.Roots = append(out.Roots, d)
			continue
		}
		out.Derived = append(out.Derived, d)
		out.Parents[d] = parents
	}
	return out, nil
}

func conceptNames(axioms []axiom.Axiom) []string {
	seen := make(map[string]bool)
	var out []string
	for _, a := range axioms {
		for _, c := range a.Concepts() {
			if !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		}
	}
	sort.Strings(out)
	return out
}

func strictSubset(a, b map[string]bool) bool {
	if len(a) >= len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}
