// Package arc implements the ARC analysis pipeline: classifying types by
// refcount shape, synthesizing drop procedures, inferring parameter
// ownership by fixed-point dataflow, and inserting/eliminating RcInc/RcDec
// operations on the ARC IR.
package arc

import (
	"fmt"

	"github.com/orilang/oricore/internal/pool"
)

// ArcClass is the refcount shape of a type, per spec.md §4.3/§3.
type ArcClass uint8

const (
	ClassScalar ArcClass = iota
	ClassTrivial
	ClassDefiniteRef
	ClassCollection
	ClassMap
	ClassEnum
	ClassFields
	ClassClosureEnv
)

func (c ArcClass) String() string {
	switch c {
	case ClassScalar:
		return "Scalar"
	case ClassTrivial:
		return "Trivial"
	case ClassDefiniteRef:
		return "DefiniteRef"
	case ClassCollection:
		return "Collection"
	case ClassMap:
		return "Map"
	case ClassEnum:
		return "Enum"
	case ClassFields:
		return "Fields"
	case ClassClosureEnv:
		return "ClosureEnv"
	default:
		return fmt.Sprintf("ArcClass(%d)", c)
	}
}

// IsScalar reports whether c requires no refcount work at all.
func (c ArcClass) IsScalar() bool { return c == ClassScalar }

// Classifier computes ArcClass for a TypeIdx, memoized so that recursive
// (self-referential) aggregate types terminate: a type currently being
// classified that is reached again through one of its own fields is, by
// construction, heap-allocated (only an aggregate can recurse structurally)
// and is conservatively treated as non-scalar without expanding further —
// the enclosing classification correctly resolves to Fields/Enum either
// way, since it has already observed a non-scalar field.
type Classifier struct {
	pool       *pool.Pool
	memo       map[pool.TypeIdx]ArcClass
	inProgress map[pool.TypeIdx]bool
}

// NewClassifier returns a classifier backed by p. A Classifier may be
// reused across many Classify calls within one session to amortize the
// memo; it observes only Pool contents, never runtime values.
func NewClassifier(p *pool.Pool) *Classifier {
	return &Classifier{
		pool:       p,
		memo:       make(map[pool.TypeIdx]ArcClass),
		inProgress: make(map[pool.TypeIdx]bool),
	}
}

// Classify returns the ArcClass of idx.
func (c *Classifier) Classify(idx pool.TypeIdx) ArcClass {
	ridx, tag := c.pool.ResolveThroughAliases(idx)

	if class, ok := c.memo[ridx]; ok {
		return class
	}
	if c.inProgress[ridx] {
		// Cycle: treat as a heap pointer without expanding further.
		return ClassDefiniteRef
	}
	c.inProgress[ridx] = true
	class := c.classifyTag(ridx, tag)
	delete(c.inProgress, ridx)
	c.memo[ridx] = class
	return class
}

func (c *Classifier) classifyTag(idx pool.TypeIdx, tag pool.Tag) ArcClass {
	switch tag {
	case pool.TagInt, pool.TagFloat, pool.TagBool, pool.TagChar, pool.TagByte,
		pool.TagUnit, pool.TagNever:
		return ClassScalar

	case pool.TagStr:
		return ClassDefiniteRef

	case pool.TagFunction, pool.TagChannel:
		// A closure (captures a refcounted environment) or a channel
		// handle is itself a single heap allocation released with one
		// untyped decrement — the runtime never needs to walk into its
		// fields, so it is Trivial rather than Scalar or DefiniteRef.
		return ClassTrivial

	case pool.TagList, pool.TagSet:
		// A list/set is always its own heap-allocated buffer, even when
		// every element is scalar — it still needs one free, just no
		// per-element decrements.
		elem := c.pool.ElemType(idx)
		if c.Classify(elem).IsScalar() {
			return ClassTrivial
		}
		return ClassCollection

	case pool.TagMap:
		// Mirrors List/Set: the hash table itself is always a heap
		// allocation, but only needs per-entry decrements when a key or
		// value side is itself ref-bearing.
		key, val := c.pool.MapTypes(idx)
		if c.Classify(key).IsScalar() && c.Classify(val).IsScalar() {
			return ClassTrivial
		}
		return ClassMap

	case pool.TagTuple, pool.TagStruct:
		// Unlike a list/map, a tuple/struct with no ref-bearing field at
		// all carries no allocation of its own (it is stored inline) and
		// so is Scalar, not Trivial.
		fields := c.pool.StructFields(idx)
		for _, f := range fields {
			if !c.Classify(f.Type).IsScalar() {
				return ClassFields
			}
		}
		return ClassScalar

	case pool.TagEnum:
		for _, v := range c.pool.EnumVariants(idx) {
			for _, f := range v.Fields {
				if !c.Classify(f.Type).IsScalar() {
					return ClassEnum
				}
			}
		}
		return ClassScalar

	case pool.TagOption:
		elem := c.pool.ElemType(idx)
		if c.Classify(elem).IsScalar() {
			return ClassScalar
		}
		return ClassEnum

	case pool.TagResult:
		ok, err := c.pool.ResultTypes(idx)
		if c.Classify(ok).IsScalar() && c.Classify(err).IsScalar() {
			return ClassScalar
		}
		return ClassEnum

	case pool.TagRange:
		return ClassScalar

	default:
		// Named/Applied/Alias that failed to resolve (forward-declared,
		// never completed): cannot classify, but must not panic mid-pass.
		// Treated as Scalar so a dangling declaration doesn't crash the
		// classifier; the front end is responsible for rejecting an
		// unresolved Named type before ARC lowering.
		return ClassScalar
	}
}

// RefBearingFields returns the indices (into StructFields order) of the
// fields of a Tuple/Struct that need per-field release, i.e. those whose
// own classification is not Scalar.
func (c *Classifier) RefBearingFields(idx pool.TypeIdx) []int {
	fields := c.pool.StructFields(idx)
	var out []int
	for i, f := range fields {
		if !c.Classify(f.Type).IsScalar() {
			out = append(out, i)
		}
	}
	return out
}
