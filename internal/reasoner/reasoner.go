// Package reasoner answers consistency and entailment questions over sets of
// axioms. The engine treats it as an oracle: it never needs to know how the
// answer was produced, only which axioms were responsible for it.
package reasoner

import (
	"context"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/HendryAvila/justifier/internal/axiom"
)

// ErrUnknown is returned when the oracle stopped without an answer.
var ErrUnknown = errors.New("reasoner: no answer")

// Checker answers questions about subsets of a fixed axiom list. Subsets are
// given as indexes into that list. When the answer is "entailed" (or
// "inconsistent") the checker also returns a core: a subset of idx that is
// already sufficient for the answer. Cores need not be minimal.
type Checker interface {
	Consistent(ctx context.Context, idx []int) (ok bool, core []int, err error)
	Entails(ctx context.Context, idx []int, e axiom.Axiom) (ok bool, core []int, err error)
}

// Factory builds checkers. A checker is not required to be safe for
// concurrent use; build one per goroutine.
type Factory interface {
	Name() string
	NewChecker(axioms []axiom.Axiom) Checker
}

// All returns the index set {0, ..., n-1}.
func All(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// AxiomSource supplies the live axiom set a Reasoner reasons over.
type AxiomSource interface {
	Axioms() []axiom.Axiom
}

// Reasoner evaluates questions against the current contents of a source.
// Every call reads a fresh snapshot, so answers always reflect the latest
// mutation.
type Reasoner struct {
	source  AxiomSource
	factory Factory
	logger  *zap.SugaredLogger
}

// New creates a Reasoner. A nil logger is replaced with a no-op logger.
func New(source AxiomSource, factory Factory, logger *zap.SugaredLogger) *Reasoner {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Reasoner{source: source, factory: factory, logger: logger}
}

// Factory returns the factory used to build checkers.
func (r *Reasoner) Factory() Factory {
	return r.factory
}

// IsConsistent reports whether the current axioms have a model.
func (r *Reasoner) IsConsistent(ctx context.Context) (bool, error) {
	axs := r.source.Axioms()
	ok, _, err := r.factory.NewChecker(axs).Consistent(ctx, All(len(axs)))
	if err != nil {
		return false, errors.Wrap(err, "consistency check")
	}
	r.logger.Debugw("consistency checked", "axioms", len(axs), "consistent", ok)
	return ok, nil
}

// Entails reports whether the current axioms entail e.
func (r *Reasoner) Entails(ctx context.Context, e axiom.Axiom) (bool, error) {
	axs := r.source.Axioms()
	ok, _, err := r.factory.NewChecker(axs).Entails(ctx, All(len(axs)), e)
	if err != nil {
		return false, errors.Wrapf(err, "entailment check %q", e.Key())
	}
	return ok, nil
}
