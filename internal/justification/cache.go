package justification

import (
	"sync"

	"github.com/HendryAvila/justifier/internal/axiom"
)

// Cache maps entailments to computed results for one kind. "Not computed"
// (Contains false, Get returns ErrLookupMiss) is distinct from "computed,
// no explanations" (an empty Result).
type Cache struct {
	kind    Kind
	mu      *sync.RWMutex
	gen     *uint64
	results map[string]*Result
}

// Kind returns the kind of justification this cache holds.
func (c *Cache) Kind() Kind { return c.kind }

// Contains reports whether a result for e is cached.
func (c *Cache) Contains(e axiom.Axiom) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.results[e.Key()]
	return ok
}

// Get returns the cached result for e, or ErrLookupMiss.
func (c *Cache) Get(e axiom.Axiom) (*Result, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.results[e.Key()]
	if !ok {
		return nil, ErrLookupMiss
	}
	return r, nil
}

// Put stores r under its entailment, replacing any previous result.
func (c *Cache) Put(r *Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results[r.Entailment().Key()] = r
}

// PutAt stores r only if no Clear happened since generation gen was read.
// It reports whether r was stored.
func (c *Cache) PutAt(gen uint64, r *Result) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if *c.gen != gen {
		return false
	}
	c.results[r.Entailment().Key()] = r
	return true
}

// Len is the number of cached entailments.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.results)
}

// CacheManager owns one Cache per kind and clears them together.
type CacheManager struct {
	mu     sync.RWMutex
	gen    uint64
	caches map[Kind]*Cache
}

// NewCacheManager returns a manager with no caches yet.
func NewCacheManager() *CacheManager {
	return &CacheManager{caches: make(map[Kind]*Cache)}
}

// Cache returns the cache for kind, creating it on first use. The same
// instance is returned for the manager's lifetime.
func (m *CacheManager) Cache(kind Kind) *Cache {
	m.mu.RLock()
	c, ok := m.caches[kind]
	m.mu.RUnlock()
	if ok {
		return c
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.caches[kind]; ok {
		return c
	}
	c = &Cache{kind: kind, mu: &m.mu, gen: &m.gen, results: make(map[string]*Result)}
	m.caches[kind] = c
	return c
}

// Clear empties every cache and starts a new generation.
func (m *CacheManager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gen++
	for _, c := range m.caches {
		c.results = make(map[string]*Result)
	}
}

// Generation identifies the current cache epoch. It changes on every Clear.
func (m *CacheManager) Generation() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.gen
}
