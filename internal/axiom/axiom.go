// Package axiom defines the axiom language the justification engine reasons about.
//
// The language is a propositional fragment of a description logic over named
// individuals:
//
//	A or B SubClassOf C and not D
//	A DisjointWith B               (sugar for A SubClassOf not B)
//	alice Type C and not D
//
// Thing and Nothing are the top and bottom concepts. The entailment
// "the knowledge base is inconsistent" is written Thing SubClassOf Nothing.
//
// Axioms are values. Two axioms are equal when their canonical Key is equal,
// which is what caches and result sets key on.
package axiom

import (
	"sort"
	"strings"
)

// Reserved concept names.
const (
	Thing   = "Thing"
	Nothing = "Nothing"
)

// Kind distinguishes terminological from assertional axioms.
type Kind string

const (
	KindSubClassOf Kind = "subclass"
	KindAssertion  Kind = "assertion"
)

// Literal is a possibly negated concept name.
type Literal struct {
	Concept string `json:"concept" yaml:"concept"`
	Negated bool   `json:"negated,omitempty" yaml:"negated,omitempty"`
}

// Pos returns the positive literal for concept.
func Pos(concept string) Literal { return Literal{Concept: concept} }

// Neg returns the negated literal for concept.
func Neg(concept string) Literal { return Literal{Concept: concept, Negated: true} }

// Not returns the complement of l.
func (l Literal) Not() Literal { return Literal{Concept: l.Concept, Negated: !l.Negated} }

func (l Literal) String() string {
	if l.Negated {
		return "not " + l.Concept
	}
	return l.Concept
}

func literalLess(a, b Literal) bool {
	if a.Concept != b.Concept {
		return a.Concept < b.Concept
	}
	return !a.Negated && b.Negated
}

// Axiom is a single logical statement. Build axioms with SubClassOf,
// Assertion or Parse so they are normalized; the zero value is not valid.
type Axiom struct {
	Kind       Kind      `json:"kind"`
	Sub        []string  `json:"sub,omitempty"`
	Super      []Literal `json:"super"`
	Individual string    `json:"individual,omitempty"`
}

// SubClassOf builds the axiom (sub[0] or sub[1] ...) SubClassOf (super[0] and ...).
func SubClassOf(sub []string, super ...Literal) Axiom {
	return normalize(Axiom{Kind: KindSubClassOf, Sub: sub, Super: super})
}

// Subsumption is the common single-name case A SubClassOf B.
func Subsumption(sub, super string) Axiom {
	return SubClassOf([]string{sub}, Pos(super))
}

// Assertion builds the axiom individual Type (super[0] and ...).
func Assertion(individual string, super ...Literal) Axiom {
	return normalize(Axiom{Kind: KindAssertion, Individual: individual, Super: super})
}

// Inconsistency is the entailment that holds exactly when a set of axioms
// has no model.
func Inconsistency() Axiom {
	return Subsumption(Thing, Nothing)
}

// IsInconsistency reports whether a is the inconsistency entailment.
func (a Axiom) IsInconsistency() bool {
	return a.Key() == Inconsistency().Key()
}

// normalize sorts and dedupes both sides so that Key is canonical.
func normalize(a Axiom) Axiom {
	if len(a.Sub) > 0 {
		seen := make(map[string]bool, len(a.Sub))
		sub := make([]string, 0, len(a.Sub))
		for _, s := range a.Sub {
			if !seen[s] {
				seen[s] = true
				sub = append(sub, s)
			}
		}
		sort.Strings(sub)
		a.Sub = sub
	}
	if len(a.Super) > 0 {
		seen := make(map[Literal]bool, len(a.Super))
		super := make([]Literal, 0, len(a.Super))
		for _, l := range a.Super {
			if !seen[l] {
				seen[l] = true
				super = append(super, l)
			}
		}
		sort.Slice(super, func(i, j int) bool { return literalLess(super[i], super[j]) })
		a.Super = super
	}
	return a
}

// String renders the axiom in the surface syntax accepted by Parse.
func (a Axiom) String() string {
	var b strings.Builder
	switch a.Kind {
	case KindAssertion:
		b.WriteString(a.Individual)
		b.WriteString(" Type ")
	default:
		b.WriteString(strings.Join(a.Sub, " or "))
		b.WriteString(" SubClassOf ")
	}
	for i, l := range a.Super {
		if i > 0 {
			b.WriteString(" and ")
		}
		b.WriteString(l.String())
	}
	return b.String()
}

// Key is the canonical identity of the axiom.
func (a Axiom) Key() string {
	return a.String()
}

// Equal reports structural equality.
func (a Axiom) Equal(b Axiom) bool {
	return a.Key() == b.Key()
}

// Concepts returns every concept name the axiom mentions, excluding Thing
// and Nothing.
func (a Axiom) Concepts() []string {
	var out []string
	for _, s := range a.Sub {
		if !reserved(s) {
			out = append(out, s)
		}
	}
	for _, l := range a.Super {
		if !reserved(l.Concept) {
			out = append(out, l.Concept)
		}
	}
	return out
}

func reserved(name string) bool {
	return name == Thing || name == Nothing
}

// Parts splits a into its atomic weakenings: one axiom per (sub, super)
// pair, or one per super literal for assertions. Every part is entailed by
// a. An axiom that is already atomic returns itself.
func (a Axiom) Parts() []Axiom {
	if a.Kind == KindAssertion {
		if len(a.Super) <= 1 {
			return []Axiom{a}
		}
		parts := make([]Axiom, 0, len(a.Super))
		for _, l := range a.Super {
			parts = append(parts, Assertion(a.Individual, l))
		}
		return parts
	}
	if len(a.Sub) <= 1 && len(a.Super) <= 1 {
		return []Axiom{a}
	}
	parts := make([]Axiom, 0, len(a.Sub)*len(a.Super))
	for _, s := range a.Sub {
		for _, l := range a.Super {
			parts = append(parts, SubClassOf([]string{s}, l))
		}
	}
	return parts
}

// Weakens reports whether part is weaker than or equal to source in the
// syntactic sense used for laconic axioms: same kind and individual, with
// both sides drawn from the source's sides.
func Weakens(part, source Axiom) bool {
	if part.Kind != source.Kind || part.Individual != source.Individual {
		return false
	}
	for _, s := range part.Sub {
		if !containsString(source.Sub, s) {
			return false
		}
	}
	for _, l := range part.Super {
		if !containsLiteral(source.Super, l) {
			return false
		}
	}
	return true
}

func containsString(xs []string, x string) bool {
	for _, y := range xs {
		if y == x {
			return true
		}
	}
	return false
}

func containsLiteral(xs []Literal, x Literal) bool {
	for _, y := range xs {
		if y == x {
			return true
		}
	}
	return false
}

// Dedupe returns axs without structural duplicates, keeping first
// occurrences in order.
func Dedupe(axs []Axiom) []Axiom {
	seen := make(map[string]bool, len(axs))
	out := make([]Axiom, 0, len(axs))
	for _, a := range axs {
		k := a.Key()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, a)
	}
	return out
}

// Sort orders axs by key in place.
func Sort(axs []Axiom) {
	sort.Slice(axs, func(i, j int) bool { return axs[i].Key() < axs[j].Key() })
}
