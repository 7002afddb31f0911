package query

import (
	"sync"

	"github.com/orilang/oricore/internal/canon"
	"github.com/orilang/oricore/internal/pool"
)

// CacheGuard is a zero-sized proof token that the side caches (PoolCache,
// CanonCache, ImportsCache) for one file have just been invalidated. It
// cannot be constructed from outside this package — its only two
// producers are CacheGuardUntracked (nothing to invalidate: the caller is
// working from data that was never cached) and invalidateFileCaches
// (actually clears the entries). typed() must hold one before it is
// allowed to re-type-check and repopulate the caches, so a caller can
// never race a stale PoolCache read against a fresh parse. Grounded on the
// Rust original's CacheGuard(()) discipline (oric/src/query/mod.rs).
type CacheGuard struct{ proof struct{} }

// CacheGuardUntracked returns a guard for callers with no cached entries
// to invalidate (e.g. a first-ever parse of a file).
func CacheGuardUntracked() CacheGuard {
	return CacheGuard{}
}

// Cache is a keyed, mutex-guarded memoization table. PoolCache, CanonCache
// and ImportsCache are instantiations of it; a plain map+sync.RWMutex is
// the right tool here (see DESIGN.md) rather than an external cache
// library, since entries are invalidated one key at a time by a guard the
// engine itself produces, not by size/TTL eviction.
type Cache[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]V
}

// NewCache constructs an empty Cache.
func NewCache[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{entries: make(map[K]V)}
}

// Get returns the cached value for key, if any.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	return v, ok
}

// Set stores value under key.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
}

// Invalidate removes key, if present.
func (c *Cache[K, V]) Invalidate(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Len reports the number of live entries, for tests and diagnostics.
func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// PoolCache memoizes the interner Pool built while parsing/canonicalizing
// one file, keyed by file path.
type PoolCache = Cache[string, *pool.Pool]

// CanonCache memoizes the CanArena produced for one file.
type CanonCache = Cache[string, *canon.CanArena]

// ImportsCache memoizes the resolved import-path list for one file.
type ImportsCache = Cache[string, []string]

// SideCaches bundles the three per-file side caches an Engine maintains
// alongside its tracked-query tables, and is the only thing
// invalidateFileCaches is allowed to mutate.
type SideCaches struct {
	Pool    *PoolCache
	Canon   *CanonCache
	Imports *ImportsCache
}

// NewSideCaches constructs an empty set of side caches.
func NewSideCaches() *SideCaches {
	return &SideCaches{
		Pool:    NewCache[string, *pool.Pool](),
		Canon:   NewCache[string, *canon.CanArena](),
		Imports: NewCache[string, []string](),
	}
}

// invalidateFileCaches drops path's entry from every side cache and
// returns the CacheGuard proving it happened. This is the package's only
// other CacheGuard producer; it is unexported because the guard's
// discipline only makes sense inside the engine that threads it through
// Typed.
func (s *SideCaches) invalidateFileCaches(path string) CacheGuard {
	s.Pool.Invalidate(path)
	s.Canon.Invalidate(path)
	s.Imports.Invalidate(path)
	return CacheGuard{}
}
