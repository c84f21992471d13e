package justification

import (
	"context"
	"math"

	"github.com/cockroachdb/errors"

	"github.com/HendryAvila/justifier/internal/axiom"
	"github.com/HendryAvila/justifier/internal/reasoner"
)

// Generator searches for explanations of an entailment over the axioms it
// was created with. limit <= 0 means no limit.
type Generator interface {
	Explanations(ctx context.Context, e axiom.Axiom, limit int) ([]Explanation, error)
}

// GeneratorFactory creates generators over an axiom snapshot.
type GeneratorFactory interface {
	CreateGenerator(axioms []axiom.Axiom, monitor ProgressMonitor) Generator
}

// SearchService is the black-box search algorithm the engine drives.
type SearchService interface {
	// EntailmentFactory finds justifications in a consistent knowledge base.
	EntailmentFactory(rf reasoner.Factory) GeneratorFactory
	// InconsistencyFactory finds justifications for inconsistency, reporting
	// only those with at most maxSize axioms.
	InconsistencyFactory(rf reasoner.Factory, maxSize int64) GeneratorFactory
	// LaconicFactory wraps inner so that it yields laconic justifications.
	LaconicFactory(inner GeneratorFactory) GeneratorFactory
}

type strategyKey struct {
	kind       Kind
	consistent bool
}

type strategy func(svc SearchService, rf reasoner.Factory) GeneratorFactory

// strategies is the closed table of generator strategies.
var strategies = map[strategyKey]strategy{
	{KindRegular, true}: func(svc SearchService, rf reasoner.Factory) GeneratorFactory {
		return svc.EntailmentFactory(rf)
	},
	{KindLaconic, true}: func(svc SearchService, rf reasoner.Factory) GeneratorFactory {
		return svc.LaconicFactory(svc.EntailmentFactory(rf))
	},
	{KindRegular, false}: func(svc SearchService, rf reasoner.Factory) GeneratorFactory {
		return svc.InconsistencyFactory(rf, math.MaxInt64)
	},
	{KindLaconic, false}: func(svc SearchService, rf reasoner.Factory) GeneratorFactory {
		return svc.LaconicFactory(svc.InconsistencyFactory(rf, math.MaxInt64))
	},
}

// Selector maps (kind, consistency) to a generator factory.
type Selector struct {
	svc SearchService
}

// NewSelector returns a selector drawing factories from svc.
func NewSelector(svc SearchService) *Selector {
	return &Selector{svc: svc}
}

// Select returns the factory for kind given the current consistency state.
// Callers must pass a freshly queried consistent flag.
func (s *Selector) Select(kind Kind, consistent bool, rf reasoner.Factory) (GeneratorFactory, error) {
	st, ok := strategies[strategyKey{kind: kind, consistent: consistent}]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownKind, "%q", string(kind))
	}
	return st(s.svc, rf), nil
}
