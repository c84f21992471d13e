package justification

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/HendryAvila/justifier/internal/axiom"
)

var (
	// ErrExplanation matches every failed computation, see ExplanationError.
	ErrExplanation = errors.New("explanation failed")
	// ErrLookupMiss is returned by Cache.Get when nothing is cached for an
	// entailment. It is distinct from a cached empty result.
	ErrLookupMiss = errors.New("no cached justifications")
	// ErrDisposed is returned by operations on a disposed Manager.
	ErrDisposed = errors.New("justification manager disposed")
	// ErrUnknownKind is returned for kinds outside the strategy table.
	ErrUnknownKind = errors.New("unknown justification kind")
)

// ExplanationError is the failure of one computation. It wraps the cause,
// so errors.Is(err, context.Canceled) tells cancellation from a search fault.
type ExplanationError struct {
	Entailment axiom.Axiom
	Kind       Kind
	Err        error
}

func (e *ExplanationError) Error() string {
	return "computing " + string(e.Kind) + " justifications for " + e.Entailment.Key() + ": " + e.Err.Error()
}

func (e *ExplanationError) Unwrap() error { return e.Err }

// Is makes every ExplanationError match ErrExplanation.
func (e *ExplanationError) Is(target error) bool { return target == ErrExplanation }

// Cancelled reports whether the computation stopped because its context was
// cancelled or timed out.
func (e *ExplanationError) Cancelled() bool {
	return errors.Is(e.Err, context.Canceled) || errors.Is(e.Err, context.DeadlineExceeded)
}

func explanationError(e axiom.Axiom, kind Kind, err error) error {
	return &ExplanationError{Entailment: e, Kind: kind, Err: err}
}
