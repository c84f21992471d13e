package axiom

import (
	"strings"
	"unicode"

	"github.com/cockroachdb/errors"
)

// ErrSyntax marks axiom text that could not be parsed.
var ErrSyntax = errors.New("axiom syntax error")

const (
	kwSubClassOf   = "SubClassOf"
	kwDisjointWith = "DisjointWith"
	kwType         = "Type"
	kwOr           = "or"
	kwAnd          = "and"
	kwNot          = "not"
)

// Parse reads one axiom in the surface syntax documented on the package.
func Parse(text string) (Axiom, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return Axiom{}, errors.Wrap(ErrSyntax, "empty axiom")
	}

	for i, f := range fields {
		switch f {
		case kwSubClassOf:
			return parseSubClassOf(fields[:i], fields[i+1:], text)
		case kwDisjointWith:
			return parseDisjoint(fields[:i], fields[i+1:], text)
		case kwType:
			return parseAssertion(fields[:i], fields[i+1:], text)
		}
	}
	return Axiom{}, errors.Wrapf(ErrSyntax, "%q: expected SubClassOf, DisjointWith or Type", text)
}

// MustParse is Parse for literals in tests and fixtures. It panics on error.
func MustParse(text string) Axiom {
	a, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return a
}

// ParseAll parses one axiom per non-empty line. Lines starting with # are
// comments.
func ParseAll(text string) ([]Axiom, error) {
	var out []Axiom
	for n, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		a, err := Parse(line)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", n+1)
		}
		out = append(out, a)
	}
	return out, nil
}

func parseSubClassOf(lhs, rhs []string, text string) (Axiom, error) {
	sub, err := parseDisjunction(lhs, text)
	if err != nil {
		return Axiom{}, err
	}
	super, err := parseConjunction(rhs, text)
	if err != nil {
		return Axiom{}, err
	}
	return SubClassOf(sub, super...), nil
}

func parseDisjoint(lhs, rhs []string, text string) (Axiom, error) {
	if len(lhs) != 1 || len(rhs) != 1 {
		return Axiom{}, errors.Wrapf(ErrSyntax, "%q: DisjointWith takes exactly two class names", text)
	}
	if err := checkName(lhs[0], text); err != nil {
		return Axiom{}, err
	}
	if err := checkName(rhs[0], text); err != nil {
		return Axiom{}, err
	}
	return SubClassOf(lhs, Neg(rhs[0])), nil
}

func parseAssertion(lhs, rhs []string, text string) (Axiom, error) {
	if len(lhs) != 1 {
		return Axiom{}, errors.Wrapf(ErrSyntax, "%q: Type needs exactly one individual", text)
	}
	if err := checkName(lhs[0], text); err != nil {
		return Axiom{}, err
	}
	if reserved(lhs[0]) {
		return Axiom{}, errors.Wrapf(ErrSyntax, "%q: %s is not an individual", text, lhs[0])
	}
	super, err := parseConjunction(rhs, text)
	if err != nil {
		return Axiom{}, err
	}
	return Assertion(lhs[0], super...), nil
}

// parseDisjunction reads "A or B or C".
func parseDisjunction(toks []string, text string) ([]string, error) {
	if len(toks) == 0 {
		return nil, errors.Wrapf(ErrSyntax, "%q: missing left-hand side", text)
	}
	var names []string
	for i, t := range toks {
		if i%2 == 1 {
			if t != kwOr {
				return nil, errors.Wrapf(ErrSyntax, "%q: expected 'or', got %q", text, t)
			}
			continue
		}
		if err := checkName(t, text); err != nil {
			return nil, err
		}
		names = append(names, t)
	}
	if len(toks)%2 == 0 {
		return nil, errors.Wrapf(ErrSyntax, "%q: dangling 'or'", text)
	}
	return names, nil
}

// parseConjunction reads "A and not B and C".
func parseConjunction(toks []string, text string) ([]Literal, error) {
	if len(toks) == 0 {
		return nil, errors.Wrapf(ErrSyntax, "%q: missing right-hand side", text)
	}
	var lits []Literal
	expectLiteral := true
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		if !expectLiteral {
			if t != kwAnd {
				return nil, errors.Wrapf(ErrSyntax, "%q: expected 'and', got %q", text, t)
			}
			expectLiteral = true
			continue
		}
		negated := false
		if t == kwNot {
			negated = true
			i++
			if i == len(toks) {
				return nil, errors.Wrapf(ErrSyntax, "%q: dangling 'not'", text)
			}
			t = toks[i]
		}
		if err := checkName(t, text); err != nil {
			return nil, err
		}
		lits = append(lits, Literal{Concept: t, Negated: negated})
		expectLiteral = false
	}
	if expectLiteral {
		return nil, errors.Wrapf(ErrSyntax, "%q: dangling 'and'", text)
	}
	return lits, nil
}

func checkName(name, text string) error {
	switch name {
	case kwSubClassOf, kwDisjointWith, kwType, kwOr, kwAnd, kwNot:
		return errors.Wrapf(ErrSyntax, "%q: keyword %q used as a name", text, name)
	}
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune("_-.:", r) {
			continue
		}
		return errors.Wrapf(ErrSyntax, "%q: invalid character %q in name %q", text, r, name)
	}
	return nil
}
