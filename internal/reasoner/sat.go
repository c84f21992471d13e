package reasoner

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-air/gini"
	"github.com/go-air/gini/z"

	"github.com/HendryAvila/justifier/internal/axiom"
)

// DefaultPollInterval is how often a running solve is checked for
// completion and cancellation.
const DefaultPollInterval = 250 * time.Microsecond

// probe stands for an arbitrary, unnamed domain element. No parsed
// individual can collide with it.
const probe = "\x00probe"

// SATFactory builds checkers backed by the gini SAT solver.
//
// Each axiom is grounded over every named individual plus one probe element
// and guarded by a selector literal. Questions about a subset of axioms are
// asked by assuming exactly that subset's selectors; the failed assumptions
// of an unsatisfiable answer give the core.
type SATFactory struct {
	PollInterval time.Duration
}

// NewSATFactory returns a factory polling running solves every poll. A
// non-positive poll uses DefaultPollInterval.
func NewSATFactory(poll time.Duration) *SATFactory {
	if poll <= 0 {
		poll = DefaultPollInterval
	}
	return &SATFactory{PollInterval: poll}
}

// Name implements Factory.
func (f *SATFactory) Name() string { return "gini-sat" }

// NewChecker implements Factory.
func (f *SATFactory) NewChecker(axioms []axiom.Axiom) Checker {
	poll := f.PollInterval
	if poll <= 0 {
		poll = DefaultPollInterval
	}
	c := &satChecker{
		g:        gini.New(),
		poll:     poll,
		axioms:   axioms,
		vars:     make(map[atom]z.Lit),
		selIndex: make(map[z.Var]int, len(axioms)),
		named:    make(map[string]bool),
	}
	c.ground()
	return c
}

type atom struct {
	concept    string
	individual string
}

type satChecker struct {
	mu   sync.Mutex
	g    *gini.Gini
	poll time.Duration

	axioms   []axiom.Axiom
	next     z.Var
	top      z.Lit
	sels     []z.Lit
	selIndex map[z.Var]int
	vars     map[atom]z.Lit
	named    map[string]bool
}

func (c *satChecker) clause(lits ...z.Lit) {
	for _, m := range lits {
		c.g.Add(m)
	}
	c.g.Add(z.LitNull)
}

// newLit allocates a fresh variable. The solver only sizes itself from added
// clauses, so every variable is introduced by a clause that top satisfies.
func (c *satChecker) newLit() z.Lit {
	c.next++
	m := c.next.Pos()
	c.clause(c.top, m)
	return m
}

func (c *satChecker) lit(concept, individual string) z.Lit {
	switch concept {
	case axiom.Thing:
		return c.top
	case axiom.Nothing:
		return c.top.Not()
	}
	k := atom{concept: concept, individual: individual}
	if m, ok := c.vars[k]; ok {
		return m
	}
	m := c.newLit()
	c.vars[k] = m
	return m
}

func (c *satChecker) literal(l axiom.Literal, individual string) z.Lit {
	m := c.lit(l.Concept, individual)
	if l.Negated {
		return m.Not()
	}
	return m
}

func (c *satChecker) ground() {
	c.next = 1
	c.top = c.next.Pos()
	c.clause(c.top)

	for _, a := range c.axioms {
		if a.Kind == axiom.KindAssertion {
			c.named[a.Individual] = true
		}
	}
	individuals := make([]string, 0, len(c.named)+1)
	for ind := range c.named {
		individuals = append(individuals, ind)
	}
	sort.Strings(individuals)
	individuals = append(individuals, probe)

	c.sels = make([]z.Lit, len(c.axioms))
	for i, a := range c.axioms {
		sel := c.newLit()
		c.sels[i] = sel
		c.selIndex[sel.Var()] = i

		if a.Kind == axiom.KindAssertion {
			for _, l := range a.Super {
				c.clause(sel.Not(), c.literal(l, a.Individual))
			}
			continue
		}
		for _, ind := range individuals {
			for _, s := range a.Sub {
				for _, l := range a.Super {
					c.clause(sel.Not(), c.lit(s, ind).Not(), c.literal(l, ind))
				}
			}
		}
	}
}

// Consistent implements Checker.
func (c *satChecker) Consistent(ctx context.Context, idx []int) (bool, []int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	res, err := c.solve(ctx, c.assumptions(idx))
	if err != nil {
		return false, nil, err
	}
	if res == 1 {
		return true, nil, nil
	}
	return false, c.core(), nil
}

// Entails implements Checker. e is entailed when, for every (sub, super)
// pair, no model of the selected axioms has an element in sub but outside
// super.
func (c *satChecker) Entails(ctx context.Context, idx []int, e axiom.Axiom) (bool, []int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	base := c.assumptions(idx)
	var core []int
	seen := make(map[int]bool)

	for _, q := range c.queries(e) {
		ms := append(append([]z.Lit(nil), base...), q...)
		res, err := c.solve(ctx, ms)
		if err != nil {
			return false, nil, err
		}
		if res == 1 {
			return false, nil, nil
		}
		for _, i := range c.core() {
			if !seen[i] {
				seen[i] = true
				core = append(core, i)
			}
		}
	}
	sort.Ints(core)
	return true, core, nil
}

// queries returns one assumption set per counterexample shape of e.
func (c *satChecker) queries(e axiom.Axiom) [][]z.Lit {
	var out [][]z.Lit
	if e.Kind == axiom.KindAssertion {
		ind := e.Individual
		if !c.named[ind] {
			ind = probe
		}
		for _, l := range e.Super {
			out = append(out, []z.Lit{c.literal(l, ind).Not()})
		}
		return out
	}
	for _, s := range e.Sub {
		for _, l := range e.Super {
			out = append(out, []z.Lit{c.lit(s, probe), c.literal(l, probe).Not()})
		}
	}
	return out
}

func (c *satChecker) assumptions(idx []int) []z.Lit {
	ms := make([]z.Lit, 0, len(idx))
	for _, i := range idx {
		ms = append(ms, c.sels[i])
	}
	return ms
}

// core maps the failed assumptions of the last UNSAT answer back to axiom
// indexes.
func (c *satChecker) core() []int {
	var out []int
	for _, m := range c.g.Why(nil) {
		if !m.IsPos() {
			continue
		}
		if i, ok := c.selIndex[m.Var()]; ok {
			out = append(out, i)
		}
	}
	sort.Ints(out)
	return out
}

func (c *satChecker) solve(ctx context.Context, ms []z.Lit) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, errors.Wrap(err, "sat solve")
	}
	c.g.Assume(ms...)
	if ctx.Done() == nil {
		return c.settle(c.g.Solve())
	}

	s := c.g.GoSolve()
	ticker := time.NewTicker(c.poll)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.Stop()
			return 0, errors.Wrap(ctx.Err(), "sat solve")
		case <-ticker.C:
			if res, done := s.Test(); done {
				return c.settle(res)
			}
		}
	}
}

func (c *satChecker) settle(res int) (int, error) {
	if res == 0 {
		return 0, ErrUnknown
	}
	return res, nil
}
