package justification

import (
	"go.uber.org/zap"

	"github.com/HendryAvila/justifier/internal/axiom"
)

// ChangeInvalidationListener clears every cache on any knowledge-base
// change. It does not try to work out which results a change affects.
type ChangeInvalidationListener struct {
	caches *CacheManager
	logger *zap.SugaredLogger
}

// NewChangeInvalidationListener returns a listener clearing caches.
func NewChangeInvalidationListener(caches *CacheManager, logger *zap.SugaredLogger) *ChangeInvalidationListener {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &ChangeInvalidationListener{caches: caches, logger: logger}
}

// AxiomsChanged implements axiom.ChangeListener.
func (l *ChangeInvalidationListener) AxiomsChanged(changes []axiom.Change) {
	l.caches.Clear()
	l.logger.Debugw("justification caches cleared", "changes", len(changes))
}
