package justification

import (
	"sort"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

// ErrUnknownSession is returned for session ids that were never opened or
// are already closed.
var ErrUnknownSession = errors.New("unknown justification session")

// Sessions holds the managers of open knowledge-base sessions, keyed by
// session ID.
type Sessions struct {
	mu       sync.RWMutex
	managers map[string]*Manager
}

// NewSessions returns an empty registry.
func NewSessions() *Sessions {
	return &Sessions{managers: make(map[string]*Manager)}
}

// Open registers m under a fresh id.
func (s *Sessions) Open(m *Manager) string {
	id := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.managers[id] = m
	return id
}

// Lookup returns the manager registered under id.
func (s *Sessions) Lookup(id string) (*Manager, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.managers[id]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownSession, "%q", id)
	}
	return m, nil
}

// Close disposes and forgets the manager registered under id.
func (s *Sessions) Close(id string) error {
	s.mu.Lock()
	m, ok := s.managers[id]
	delete(s.managers, id)
	s.mu.Unlock()
	if !ok {
		return errors.Wrapf(ErrUnknownSession, "%q", id)
	}
	m.Dispose()
	return nil
}

// CloseAll disposes every open manager.
func (s *Sessions) CloseAll() {
	s.mu.Lock()
	ms := s.managers
	s.managers = make(map[string]*Manager)
	s.mu.Unlock()
	for _, m := range ms {
		m.Dispose()
	}
}

// IDs returns the open session ids, sorted.
func (s *Sessions) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.managers))
	for id := range s.managers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
