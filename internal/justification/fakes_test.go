package justification

import (
	"context"
	"fmt"
	"sync"

	"github.com/HendryAvila/justifier/internal/axiom"
	"github.com/HendryAvila/justifier/internal/reasoner"
)

type staticUnit struct {
	name   string
	axioms []axiom.Axiom
}

func (u staticUnit) Name() string          { return u.name }
func (u staticUnit) Axioms() []axiom.Axiom { return u.axioms }

type fakeKB struct {
	mu        sync.Mutex
	units     []axiom.Unit
	listeners []axiom.ChangeListener
}

func newFakeKB(axioms ...string) *fakeKB {
	var axs []axiom.Axiom
	for _, a := range axioms {
		axs = append(axs, axiom.MustParse(a))
	}
	return &fakeKB{units: []axiom.Unit{staticUnit{name: "main", axioms: axs}}}
}

func (k *fakeKB) ActiveUnits() []axiom.Unit {
	k.mu.Lock()
	defer k.mu.Unlock()
	return append([]axiom.Unit(nil), k.units...)
}

func (k *fakeKB) AddChangeListener(l axiom.ChangeListener) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.listeners = append(k.listeners, l)
}

func (k *fakeKB) RemoveChangeListener(l axiom.ChangeListener) {
	k.mu.Lock()
	defer k.mu.Unlock()
	for i, x := range k.listeners {
		if x == l {
			k.listeners = append(k.listeners[:i:i], k.listeners[i+1:]...)
			return
		}
	}
}

func (k *fakeKB) listenerCount() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.listeners)
}

// mutate fires one change batch, the way a real knowledge base would.
func (k *fakeKB) mutate() {
	k.mu.Lock()
	ls := append([]axiom.ChangeListener(nil), k.listeners...)
	k.mu.Unlock()
	batch := []axiom.Change{{Op: axiom.OpAdd, Unit: "main", Axiom: axiom.Subsumption("New", "Thing")}}
	for _, l := range ls {
		l.AxiomsChanged(batch)
	}
}

type fakeReasoner struct {
	mu         sync.Mutex
	consistent bool
	err        error
	calls      int
}

func (r *fakeReasoner) IsConsistent(context.Context) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	return r.consistent, r.err
}

func (r *fakeReasoner) Factory() reasoner.Factory { return reasoner.NewSATFactory(0) }

func (r *fakeReasoner) setConsistent(b bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.consistent = b
}

// fakeService records which factory produced each search and answers with
// canned explanations.
type fakeService struct {
	mu      sync.Mutex
	answers []string
	err     error
	block   bool
	used    []string
	limits  []int
	axioms  [][]axiom.Axiom

	// byEntailment, when set, replaces answers per entailment key.
	byEntailment map[string][]string
}

type fakeFactory struct {
	svc  *fakeService
	name string
}

func (s *fakeService) EntailmentFactory(reasoner.Factory) GeneratorFactory {
	return &fakeFactory{svc: s, name: "entailment"}
}

func (s *fakeService) InconsistencyFactory(_ reasoner.Factory, maxSize int64) GeneratorFactory {
	return &fakeFactory{svc: s, name: fmt.Sprintf("inconsistency(%d)", maxSize)}
}

func (s *fakeService) LaconicFactory(inner GeneratorFactory) GeneratorFactory {
	return &fakeFactory{svc: s, name: "laconic(" + inner.(*fakeFactory).name + ")"}
}

func (f *fakeFactory) CreateGenerator(axioms []axiom.Axiom, monitor ProgressMonitor) Generator {
	return &fakeGenerator{factory: f, axioms: axioms, monitor: monitor}
}

type fakeGenerator struct {
	factory *fakeFactory
	axioms  []axiom.Axiom
	monitor ProgressMonitor
}

func (g *fakeGenerator) Explanations(ctx context.Context, e axiom.Axiom, limit int) ([]Explanation, error) {
	s := g.factory.svc
	s.mu.Lock()
	s.used = append(s.used, g.factory.name)
	s.limits = append(s.limits, limit)
	s.axioms = append(s.axioms, g.axioms)
	answers, err, block := s.answers, s.err, s.block
	if s.byEntailment != nil {
		answers = s.byEntailment[e.Key()]
	}
	s.mu.Unlock()

	if block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if err != nil {
		return nil, err
	}
	var out []Explanation
	for _, ans := range answers {
		if limit > 0 && len(out) >= limit {
			break
		}
		var axs []axiom.Axiom
		for _, a := range splitLines(ans) {
			axs = append(axs, axiom.MustParse(a))
		}
		x := NewExplanation(e, axs)
		g.monitor.ExplanationFound(x)
		out = append(out, x)
	}
	return out, nil
}

func (s *fakeService) lastUsed() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.used) == 0 {
		return ""
	}
	return s.used[len(s.used)-1]
}

func (s *fakeService) lastLimit() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.limits[len(s.limits)-1]
}

func (s *fakeService) searches() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.used)
}

func splitLines(s string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ';' {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	return out
}

// phaseRecorder collects phases and found explanations.
type phaseRecorder struct {
	mu     sync.Mutex
	phases []Phase
	found  int
}

func (p *phaseRecorder) ExplanationFound(Explanation) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.found++
}

func (p *phaseRecorder) PhaseChanged(ph Phase) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.phases = append(p.phases, ph)
}
