package blackbox

import (
	"context"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/HendryAvila/justifier/internal/axiom"
	"github.com/HendryAvila/justifier/internal/justification"
	"github.com/HendryAvila/justifier/internal/reasoner"
)

// oracle reports whether the axiom subset idx has the property being
// justified, and if so a core subset of idx that also has it.
type oracle func(ctx context.Context, idx []int) (bool, []int, error)

type entailmentFactory struct {
	rf     reasoner.Factory
	logger *zap.SugaredLogger
}

func (f *entailmentFactory) CreateGenerator(axioms []axiom.Axiom, monitor justification.ProgressMonitor) justification.Generator {
	checker := f.rf.NewChecker(axioms)
	return &generator{
		axioms:  axioms,
		monitor: orNop(monitor),
		maxSize: math.MaxInt64,
		logger:  f.logger,
		oracleFor: func(e axiom.Axiom) oracle {
			return func(ctx context.Context, idx []int) (bool, []int, error) {
				return checker.Entails(ctx, idx, e)
			}
		},
	}
}

type inconsistencyFactory struct {
	rf      reasoner.Factory
	maxSize int64
	logger  *zap.SugaredLogger
}

// CreateGenerator returns a generator of justifications for inconsistency.
// An inconsistent axiom set entails everything, so the requested
// entailment does not change the search.
func (f *inconsistencyFactory) CreateGenerator(axioms []axiom.Axiom, monitor justification.ProgressMonitor) justification.Generator {
	checker := f.rf.NewChecker(axioms)
	return &generator{
		axioms:  axioms,
		monitor: orNop(monitor),
		maxSize: f.maxSize,
		logger:  f.logger,
		oracleFor: func(axiom.Axiom) oracle {
			return func(ctx context.Context, idx []int) (bool, []int, error) {
				ok, core, err := checker.Consistent(ctx, idx)
				return !ok, core, err
			}
		},
	}
}

func orNop(m justification.ProgressMonitor) justification.ProgressMonitor {
	if m == nil {
		return justification.NopMonitor
	}
	return m
}

type generator struct {
	axioms    []axiom.Axiom
	monitor   justification.ProgressMonitor
	maxSize   int64
	oracleFor func(e axiom.Axiom) oracle
	logger    *zap.SugaredLogger
}

// Explanations runs a hitting-set tree: every node removes the axioms on
// its path, and each justification found labels a node whose children
// remove one of its axioms in turn. An entailment that holds without any
// axiom, such as A SubClassOf Thing, has no justification and yields none.
func (g *generator) Explanations(ctx context.Context, e axiom.Axiom, limit int) ([]justification.Explanation, error) {
	o := g.oracleFor(e)
	var (
		found    [][]int
		out      []justification.Explanation
		visited  = map[string]bool{}
		closed   [][]int
		queue    = [][]int{nil}
		oracleNs int
	)

	report := func(just []int) {
		if int64(len(just)) > g.maxSize {
			return
		}
		x := justification.NewExplanation(e, g.pick(just))
		out = append(out, x)
		g.monitor.ExplanationFound(x)
	}
	done := func() bool { return limit > 0 && len(out) >= limit }

	for len(queue) > 0 && !done() {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, "hitting set search")
		}
		path := queue[0]
		queue = queue[1:]

		if hasSubset(closed, path) {
			continue
		}

		just := reusable(found, path)
		if just == nil {
			rest := without(reasoner.All(len(g.axioms)), path)
			ok, core, err := o(ctx, rest)
			oracleNs++
			if err != nil {
				return nil, err
			}
			if !ok {
				closed = append(closed, path)
				continue
			}
			just, err = g.minimize(ctx, o, core)
			if err != nil {
				return nil, err
			}
			if len(just) == 0 {
				g.logger.Debugw("entailment holds without axioms", "entailment", e.Key())
				return nil, nil
			}
			if !containsSet(found, just) {
				found = append(found, just)
				report(just)
			}
		}

		for _, a := range just {
			child := insertSorted(path, a)
			k := setKey(child)
			if visited[k] {
				continue
			}
			visited[k] = true
			queue = append(queue, child)
		}
	}

	g.logger.Debugw("hitting set search finished",
		"entailment", e.Key(),
		"justifications", len(found),
		"reported", len(out),
		"oracle_calls", oracleNs,
	)
	return out, nil
}

// minimize shrinks core to a minimal subset still accepted by o. An axiom
// found necessary stays necessary in every smaller set.
func (g *generator) minimize(ctx context.Context, o oracle, core []int) ([]int, error) {
	cur := append([]int(nil), core...)
	necessary := map[int]bool{}
	for i := 0; i < len(cur); i++ {
		if necessary[cur[i]] {
			continue
		}
		trial := append(append([]int(nil), cur[:i]...), cur[i+1:]...)
		ok, smaller, err := o(ctx, trial)
		if err != nil {
			return nil, err
		}
		if !ok {
			necessary[cur[i]] = true
			continue
		}
		cur = smaller
		i = -1
	}
	sort.Ints(cur)
	return cur, nil
}

func (g *generator) pick(idx []int) []axiom.Axiom {
	out := make([]axiom.Axiom, len(idx))
	for i, j := range idx {
		out[i] = g.axioms[j]
	}
	return out
}

// --- index set helpers; all sets are sorted []int ---

func setKey(s []int) string {
	parts := make([]string, len(s))
	for i, x := range s {
		parts[i] = strconv.Itoa(x)
	}
	return strings.Join(parts, ",")
}

func contains(s []int, x int) bool {
	i := sort.SearchInts(s, x)
	return i < len(s) && s[i] == x
}

func insertSorted(s []int, x int) []int {
	out := make([]int, 0, len(s)+1)
	out = append(out, s...)
	out = append(out, x)
	sort.Ints(out)
	return out
}

func without(all, remove []int) []int {
	out := make([]int, 0, len(all))
	for _, x := range all {
		if !contains(remove, x) {
			out = append(out, x)
		}
	}
	return out
}

func disjoint(a, b []int) bool {
	for _, x := range a {
		if contains(b, x) {
			return false
		}
	}
	return true
}

func subset(a, b []int) bool {
	for _, x := range a {
		if !contains(b, x) {
			return false
		}
	}
	return true
}

func reusable(found [][]int, path []int) []int {
	for _, j := range found {
		if disjoint(j, path) {
			return j
		}
	}
	return nil
}

func hasSubset(sets [][]int, s []int) bool {
	for _, c := range sets {
		if subset(c, s) {
			return true
		}
	}
	return false
}

func containsSet(sets [][]int, s []int) bool {
	k := setKey(s)
	for _, c := range sets {
		if setKey(c) == k {
			return true
		}
	}
	return false
}
