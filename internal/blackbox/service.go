// Package blackbox is a reference search service for the justification
// engine. It treats the reasoner as an oracle over axiom subsets: a
// justification is grown from the oracle's core and shrunk by deletion, and
// further justifications come from a breadth-first hitting-set tree.
package blackbox

import (
	"runtime"

	"go.uber.org/zap"

	"github.com/HendryAvila/justifier/internal/justification"
	"github.com/HendryAvila/justifier/internal/reasoner"
)

// DefaultWorkers bounds the parallel laconic searches.
var DefaultWorkers = runtime.NumCPU()

// Service implements justification.SearchService.
type Service struct {
	workers int
	logger  *zap.SugaredLogger
}

// Option configures a Service.
type Option func(*Service)

// WithWorkers bounds how many laconic searches run at once.
func WithWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New returns a Service.
func New(opts ...Option) *Service {
	s := &Service{workers: DefaultWorkers, logger: zap.NewNop().Sugar()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EntailmentFactory implements justification.SearchService.
func (s *Service) EntailmentFactory(rf reasoner.Factory) justification.GeneratorFactory {
	return &entailmentFactory{rf: rf, logger: s.logger}
}

// InconsistencyFactory implements justification.SearchService.
func (s *Service) InconsistencyFactory(rf reasoner.Factory, maxSize int64) justification.GeneratorFactory {
	return &inconsistencyFactory{rf: rf, maxSize: maxSize, logger: s.logger}
}

// LaconicFactory implements justification.SearchService.
func (s *Service) LaconicFactory(inner justification.GeneratorFactory) justification.GeneratorFactory {
	return &laconicFactory{inner: inner, workers: s.workers, logger: s.logger}
}
