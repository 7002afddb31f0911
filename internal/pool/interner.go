// Package pool implements the process-scoped interning tables shared by the
// canonical IR, the ARC pipeline, and the match compiler: a string Interner
// producing Name handles, and a Pool of structurally-deduplicated types
// producing TypeIdx handles. Both tables are append-only for the lifetime of
// a compilation session — a handle, once issued, never changes meaning.
package pool

import (
	"sync"

	"golang.org/x/text/unicode/norm"
)

// Name is a 32-bit handle into the Interner's string table. Names are
// copyable, comparable, and hashable; the backing string is never exposed
// except through Interner.Lookup.
type Name uint32

// InvalidName is the sentinel for "no name" (e.g. an anonymous tuple field).
const InvalidName Name = 1<<32 - 1

// Interner maps identifier and string-literal text to stable Name handles.
// Input is NFC-normalized before interning so that Unicode-equivalent
// spellings of the same identifier collapse to one Name — the same
// normalization the front end applies at the lexer boundary.
type Interner struct {
	mu      sync.RWMutex
	strings []string
	byText  map[string]Name
}

// NewInterner returns an empty Interner.
func NewInterner() *Interner {
	return &Interner{byText: make(map[string]Name)}
}

// Intern returns the canonical Name for s, normalizing s to NFC first.
// Calling Intern twice with Unicode-equivalent but differently-encoded text
// (e.g. "café" in NFC vs NFD) returns the same Name.
func (in *Interner) Intern(s string) Name {
	normalized := normalizeText(s)

	in.mu.RLock()
	if n, ok := in.byText[normalized]; ok {
		in.mu.RUnlock()
		return n
	}
	in.mu.RUnlock()

	in.mu.Lock()
	defer in.mu.Unlock()
	if n, ok := in.byText[normalized]; ok {
		return n
	}
	n := Name(len(in.strings))
	in.strings = append(in.strings, normalized)
	in.byText[normalized] = n
	return n
}

// Lookup returns the text behind a Name. It panics on an out-of-range
// handle — a valid Name is always the result of a prior Intern call on this
// same Interner.
func (in *Interner) Lookup(n Name) string {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.strings[n]
}

// Len reports how many distinct names have been interned.
func (in *Interner) Len() int {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return len(in.strings)
}

func normalizeText(s string) string {
	b := []byte(s)
	if norm.NFC.IsNormal(b) {
		return s
	}
	return string(norm.NFC.Bytes(b))
}
