package blackbox

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/HendryAvila/justifier/internal/axiom"
	"github.com/HendryAvila/justifier/internal/justification"
)

type laconicFactory struct {
	inner   justification.GeneratorFactory
	workers int
	logger  *zap.SugaredLogger
}

func (f *laconicFactory) CreateGenerator(axioms []axiom.Axiom, monitor justification.ProgressMonitor) justification.Generator {
	return &laconicGenerator{
		inner:   f.inner,
		axioms:  axioms,
		monitor: orNop(monitor),
		workers: f.workers,
		logger:  f.logger,
	}
}

type laconicGenerator struct {
	inner   justification.GeneratorFactory
	axioms  []axiom.Axiom
	monitor justification.ProgressMonitor
	workers int
	logger  *zap.SugaredLogger
}

// Explanations finds the regular justifications of e, splits each one's
// axioms into their atomic parts and searches the parts for a minimal set.
// Every axiom of a laconic explanation is a part of some source axiom.
func (g *laconicGenerator) Explanations(ctx context.Context, e axiom.Axiom, limit int) ([]justification.Explanation, error) {
	regular, err := g.inner.CreateGenerator(g.axioms, justification.NopMonitor).Explanations(ctx, e, 0)
	if err != nil {
		return nil, err
	}
	if len(regular) == 0 {
		return nil, nil
	}

	laconic := make([]*justification.Explanation, len(regular))
	eg, egCtx := errgroup.WithContext(ctx)
	if g.workers > 0 {
		eg.SetLimit(g.workers)
	}
	for i, just := range regular {
		eg.Go(func() error {
			parts := partsOf(just.Axioms())
			xs, err := g.inner.CreateGenerator(parts, justification.NopMonitor).Explanations(egCtx, e, 1)
			if err != nil {
				return err
			}
			if len(xs) > 0 {
				laconic[i] = &xs[0]
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var out []justification.Explanation
	for _, x := range laconic {
		if x == nil || seen[x.Key()] {
			continue
		}
		seen[x.Key()] = true
		out = append(out, *x)
		g.monitor.ExplanationFound(*x)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	g.logger.Debugw("laconic search finished", "entailment", e.Key(), "regular", len(regular), "laconic", len(out))
	return out, nil
}

func partsOf(axs []axiom.Axiom) []axiom.Axiom {
	var parts []axiom.Axiom
	for _, a := range axs {
		parts = append(parts, a.Parts()...)
	}
	return axiom.Dedupe(parts)
}
