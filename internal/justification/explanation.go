package justification

import (
	"sort"
	"strings"

	"github.com/HendryAvila/justifier/internal/axiom"
)

// Explanation is an entailment together with a set of axioms from which it
// follows. Explanations are immutable.
type Explanation struct {
	entailment axiom.Axiom
	axioms     []axiom.Axiom
	key        string
}

// NewExplanation builds an explanation. Duplicate axioms are collapsed.
func NewExplanation(e axiom.Axiom, axioms []axiom.Axiom) Explanation {
	axs := axiom.Dedupe(axioms)
	axiom.Sort(axs)
	keys := make([]string, len(axs))
	for i, a := range axs {
		keys[i] = a.Key()
	}
	return Explanation{entailment: e, axioms: axs, key: strings.Join(keys, "\n")}
}

// EmptyExplanation is the "nothing found" value for e.
func EmptyExplanation(e axiom.Axiom) Explanation {
	return Explanation{entailment: e}
}

// Entailment returns what the explanation explains.
func (x Explanation) Entailment() axiom.Axiom { return x.entailment }

// Axioms returns a copy of the axiom set, sorted by key.
func (x Explanation) Axioms() []axiom.Axiom {
	return append([]axiom.Axiom(nil), x.axioms...)
}

// Size is the number of axioms.
func (x Explanation) Size() int { return len(x.axioms) }

// IsEmpty reports whether the axiom set is empty.
func (x Explanation) IsEmpty() bool { return len(x.axioms) == 0 }

// Key identifies the axiom set. Two explanations of the same entailment
// are the same justification iff their keys are equal.
func (x Explanation) Key() string { return x.key }

// Contains reports whether a is one of the explanation's axioms.
func (x Explanation) Contains(a axiom.Axiom) bool {
	k := a.Key()
	for _, b := range x.axioms {
		if b.Key() == k {
			return true
		}
	}
	return false
}

func (x Explanation) String() string {
	var b strings.Builder
	b.WriteString(x.entailment.Key())
	b.WriteString(" because {")
	for i, a := range x.axioms {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(a.Key())
	}
	b.WriteString("}")
	return b.String()
}

// Result is the set of distinct explanations found for one entailment.
// A Result is not safe for concurrent mutation; the engine hands out
// results it no longer writes to.
type Result struct {
	entailment axiom.Axiom
	byKey      map[string]Explanation
}

// NewResult builds a result, dropping duplicate axiom sets.
func NewResult(e axiom.Axiom, exps ...Explanation) *Result {
	r := &Result{entailment: e, byKey: make(map[string]Explanation, len(exps))}
	for _, x := range exps {
		r.Add(x)
	}
	return r
}

// Add inserts x and reports whether it was new.
func (r *Result) Add(x Explanation) bool {
	if _, ok := r.byKey[x.Key()]; ok {
		return false
	}
	r.byKey[x.Key()] = x
	return true
}

// Entailment returns the entailment every explanation in r explains.
func (r *Result) Entailment() axiom.Axiom { return r.entailment }

// Len is the number of distinct explanations.
func (r *Result) Len() int { return len(r.byKey) }

// Contains reports whether an explanation with x's axiom set is present.
func (r *Result) Contains(x Explanation) bool {
	_, ok := r.byKey[x.Key()]
	return ok
}

// Explanations returns the explanations, smallest first, ties broken by key.
func (r *Result) Explanations() []Explanation {
	out := make([]Explanation, 0, len(r.byKey))
	for _, x := range r.byKey {
		out = append(out, x)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Size() != out[j].Size() {
			return out[i].Size() < out[j].Size()
		}
		return out[i].Key() < out[j].Key()
	})
	return out
}

// Equal reports whether r and o hold the same entailment and axiom sets.
func (r *Result) Equal(o *Result) bool {
	if r == nil || o == nil {
		return r == o
	}
	if !r.entailment.Equal(o.entailment) || r.Len() != o.Len() {
		return false
	}
	for k := range r.byKey {
		if _, ok := o.byKey[k]; !ok {
			return false
		}
	}
	return true
}
