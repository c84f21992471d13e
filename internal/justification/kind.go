// Package justification computes and caches justifications: minimal sets of
// axioms from which an entailment follows.
//
// The package is the engine around a pluggable search algorithm:
//   - Selector picks a generator strategy from the requested kind and the
//     knowledge base's live consistency state
//   - CacheManager holds one result cache per kind, cleared wholesale on
//     every knowledge-base change
//   - Manager runs computations and notifies registered listeners
//
// The search itself (SearchService) and the reasoner are collaborators
// supplied by the caller.
package justification

import (
	"github.com/cockroachdb/errors"
)

// --- Justification kind enum ---

// Kind selects regular justifications or their laconic (fine-grained) form.
type Kind string

const (
	KindRegular Kind = "regular"
	KindLaconic Kind = "laconic"
)

// validKinds is the closed set of kinds the engine knows how to compute.
var validKinds = map[Kind]bool{
	KindRegular: true,
	KindLaconic: true,
}

// Kinds returns the enum values for tool definitions.
func Kinds() []string {
	return []string{string(KindRegular), string(KindLaconic)}
}

// ValidateKind returns an error wrapping ErrUnknownKind if k is not recognized.
func ValidateKind(k Kind) error {
	if !validKinds[k] {
		return errors.Wrapf(ErrUnknownKind, "%q: must be one of: regular, laconic", string(k))
	}
	return nil
}

// ParseKind converts user input to a Kind. Empty input means KindRegular.
func ParseKind(s string) (Kind, error) {
	if s == "" {
		return KindRegular, nil
	}
	k := Kind(s)
	if err := ValidateKind(k); err != nil {
		return "", err
	}
	return k, nil
}
