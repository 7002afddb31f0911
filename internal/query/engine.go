// Package query implements the incremental tokens→parsed→typed query chain
// and its content-addressed artifact cache (spec.md §4.9, §5, §8). It
// mirrors the Salsa-style tracked-query discipline of the original
// implementation (oric/src/query/mod.rs): each stage memoizes its result,
// a source edit invalidates only what actually changed, and the
// TokenList.Equal early-cutoff (see tokens.go) lets a whitespace-only edit
// skip re-parsing and re-type-checking entirely.
//
// The tokens/parsed/typed stage functions themselves are supplied by the
// caller: lexing, parsing, and type checking a real surface language are
// out of scope for this module (spec.md §1 Non-goals). Engine owns the
// generic memoization, cutoff, and cache-invalidation machinery; ParseFn
// and TypeCheckFn plug in whatever frontend a caller has.
package query

import (
	"fmt"
	"os"
	"sync"
)

// ParseFn turns one file's TokenList into its parsed representation.
type ParseFn[TParsed any] func(tokens TokenList) (TParsed, error)

// TypeCheckFn type-checks a parsed file. It receives the CacheGuard
// produced by invalidating that file's side caches (PoolCache, CanonCache,
// ImportsCache), or CacheGuardUntracked for a file with nothing cached.
type TypeCheckFn[TParsed, TTyped any] func(parsed TParsed, guard CacheGuard) (TTyped, error)

// Engine is one module's tracked-query database: per-file memoized
// tokens, parsed trees, and typed results, plus the side caches a real
// type checker would populate (pool interning, canonicalization, resolved
// imports).
type Engine[TParsed, TTyped any] struct {
	mu sync.Mutex

	parse     ParseFn[TParsed]
	typeCheck TypeCheckFn[TParsed, TTyped]

	tokens map[string]TokenList
	parsed map[string]TParsed
	typed  map[string]TTyped
	guards map[string]CacheGuard

	Caches  *SideCaches
	Verbose bool
}

// NewEngine builds an Engine over the given stage functions.
func NewEngine[TParsed, TTyped any](parse ParseFn[TParsed], typeCheck TypeCheckFn[TParsed, TTyped]) *Engine[TParsed, TTyped] {
	return &Engine[TParsed, TTyped]{
		parse:     parse,
		typeCheck: typeCheck,
		tokens:    make(map[string]TokenList),
		parsed:    make(map[string]TParsed),
		typed:     make(map[string]TTyped),
		guards:    make(map[string]CacheGuard),
		Caches:    NewSideCaches(),
	}
}

func (e *Engine[TParsed, TTyped]) logf(phase, path string) {
	if e.Verbose {
		fmt.Fprintf(os.Stderr, "[query] %s: %s\n", phase, path)
	}
}

// SetSource records text as path's current source and re-tokenizes it.
// It returns false, leaving every memoized stage and side-cache entry for
// path untouched, when the new TokenList is position-independent-equal to
// what was previously recorded (the "Tokens cutoff" property, spec.md
// §8) — e.g. a whitespace reflow. Otherwise it
// invalidates path's parsed/typed results and its side-cache entries,
// returning true.
func (e *Engine[TParsed, TTyped]) SetSource(path, text string) bool {
	newToks := Tokenize(path, text)

	e.mu.Lock()
	defer e.mu.Unlock()

	old, hadOld := e.tokens[path]
	if hadOld && old.Equal(newToks) {
		e.logf("cutoff", path)
		return false
	}

	e.tokens[path] = newToks
	delete(e.parsed, path)
	delete(e.typed, path)

	if hadOld {
		e.guards[path] = e.Caches.invalidateFileCaches(path)
	} else {
		e.guards[path] = CacheGuardUntracked()
	}
	e.logf("tokens", path)
	return true
}

// Tokens returns the memoized TokenList for path, if SetSource has been
// called for it.
func (e *Engine[TParsed, TTyped]) Tokens(path string) (TokenList, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	t, ok := e.tokens[path]
	return t, ok
}

// Parsed returns the memoized parse of path, running ParseFn on first
// request and caching the result.
func (e *Engine[TParsed, TTyped]) Parsed(path string) (TParsed, error) {
	e.mu.Lock()
	if p, ok := e.parsed[path]; ok {
		e.mu.Unlock()
		return p, nil
	}
	toks, ok := e.tokens[path]
	e.mu.Unlock()
	if !ok {
		var zero TParsed
		return zero, fmt.Errorf("query: no source set for %q", path)
	}

	p, err := e.parse(toks)
	if err != nil {
		var zero TParsed
		return zero, err
	}

	e.mu.Lock()
	e.parsed[path] = p
	e.mu.Unlock()
	e.logf("parsed", path)
	return p, nil
}

// Typed returns the memoized type-checking result of path, running
// Parsed and then TypeCheckFn on first request. TypeCheckFn is always
// handed the CacheGuard produced the last time path's side caches were
// invalidated (or CacheGuardUntracked if path has never been
// invalidated); by the time it runs after an edit, path's
// PoolCache/CanonCache/ImportsCache entries have already been dropped.
func (e *Engine[TParsed, TTyped]) Typed(path string) (TTyped, error) {
	e.mu.Lock()
	if t, ok := e.typed[path]; ok {
		e.mu.Unlock()
		return t, nil
	}
	e.mu.Unlock()

	p, err := e.Parsed(path)
	if err != nil {
		var zero TTyped
		return zero, err
	}

	e.mu.Lock()
	guard, ok := e.guards[path]
	if ok {
		delete(e.guards, path)
	}
	e.mu.Unlock()
	if !ok {
		guard = CacheGuardUntracked()
	}

	t, err := e.typeCheck(p, guard)
	if err != nil {
		var zero TTyped
		return zero, err
	}

	e.mu.Lock()
	e.typed[path] = t
	e.mu.Unlock()
	e.logf("typed", path)
	return t, nil
}

// Forget drops every memoized stage for path, as if it had never been
// seen, without invalidating side-cache entries (those are only cleared
// through invalidateFileCaches, which requires a prior SetSource call).
func (e *Engine[TParsed, TTyped]) Forget(path string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.tokens, path)
	delete(e.parsed, path)
	delete(e.typed, path)
	delete(e.guards, path)
}
