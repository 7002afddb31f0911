// Package canon implements the canonical IR (CanIR): a span-free,
// arena-allocated, structurally-hashable intermediate form shared by the
// ARC pipeline, the match compiler, and the query engine's artifact cache.
package canon

import (
	"github.com/orilang/oricore/internal/ast"
	"github.com/orilang/oricore/internal/pool"
)

// CanId addresses one CanNode in a CanArena. The arena's allocation order
// carries no semantic meaning — only the content at an id is significant.
type CanId uint32

// InvalidCanId is the sentinel for "no expression" (a missing else-branch,
// a for-loop with no guard, a range with a default step, ...).
const InvalidCanId CanId = 1<<32 - 1

// IsValid reports whether id names a real node.
func (id CanId) IsValid() bool { return id != InvalidCanId }

// CanNode is one entry in the arena: a tagged variant payload, its resolved
// type, and its source span. The span is carried for diagnostics only —
// hashing and structural comparison never consult it.
type CanNode struct {
	Kind CanExpr
	Type pool.TypeIdx
	Span ast.Span
}

// CanRange is a contiguous range of CanIds stored in the arena's shared
// expression-list side arena.
type CanRange struct {
	Start  uint32
	Length uint32
}

// CanMapEntry is one key-value pair of a Map literal.
type CanMapEntry struct {
	Key   CanId
	Value CanId
}

// CanMapEntryRange addresses a contiguous run of CanMapEntry in the side
// arena.
type CanMapEntryRange struct {
	Start  uint32
	Length uint32
}

// CanField is one name-value pair of a Struct literal.
type CanField struct {
	Name  pool.Name
	Value CanId
}

// CanFieldRange addresses a contiguous run of CanField.
type CanFieldRange struct {
	Start  uint32
	Length uint32
}

// CanParam is one parameter of a Lambda: its name and an optional default
// expression (InvalidCanId if none).
type CanParam struct {
	Name    pool.Name
	Default CanId
}

// CanParamRange addresses a contiguous run of CanParam.
type CanParamRange struct {
	Start  uint32
	Length uint32
}

// CanNamedExpr is one named property of a FunctionExp (first-class
// pattern), e.g. `.step` in a `recurse` form.
type CanNamedExpr struct {
	Name  pool.Name
	Value CanId
}

// CanNamedExprRange addresses a contiguous run of CanNamedExpr.
type CanNamedExprRange struct {
	Start  uint32
	Length uint32
}

// CanArena owns every node and side-arena slice for one function body (or
// top-level module). It is append-only during lowering; downstream
// consumers (ARC, the match compiler, the emitter) treat it as read-only.
type CanArena struct {
	nodes []CanNode

	exprList      []CanId
	mapEntries    []CanMapEntry
	fields        []CanField
	params        []CanParam
	namedExprs    []CanNamedExpr
	bindingList   []CanBindingPatternId
	fieldBindings []CanFieldBinding

	bindingPatterns []CanBindingPattern
}

// NewCanArena returns an empty arena.
func NewCanArena() *CanArena {
	return &CanArena{}
}

// Push appends a node and returns its CanId.
func (a *CanArena) Push(n CanNode) CanId {
	a.nodes = append(a.nodes, n)
	return CanId(len(a.nodes) - 1)
}

// Node returns the full node at id. Panics if id is invalid or out of
// range — callers must check IsValid first.
func (a *CanArena) Node(id CanId) CanNode { return a.nodes[id] }

// Kind returns the variant payload at id.
func (a *CanArena) Kind(id CanId) CanExpr { return a.nodes[id].Kind }

// Type returns the resolved type at id.
func (a *CanArena) Type(id CanId) pool.TypeIdx { return a.nodes[id].Type }

// Span returns the source span at id.
func (a *CanArena) Span(id CanId) ast.Span { return a.nodes[id].Span }

// PushExprList appends a slice of CanIds to the shared side arena and
// returns a range addressing it.
func (a *CanArena) PushExprList(ids []CanId) CanRange {
	start := uint32(len(a.exprList))
	a.exprList = append(a.exprList, ids...)
	return CanRange{Start: start, Length: uint32(len(ids))}
}

// ExprList returns the CanIds named by r.
func (a *CanArena) ExprList(r CanRange) []CanId {
	return a.exprList[r.Start : r.Start+r.Length]
}

func (a *CanArena) PushMapEntries(es []CanMapEntry) CanMapEntryRange {
	start := uint32(len(a.mapEntries))
	a.mapEntries = append(a.mapEntries, es...)
	return CanMapEntryRange{Start: start, Length: uint32(len(es))}
}

func (a *CanArena) MapEntries(r CanMapEntryRange) []CanMapEntry {
	return a.mapEntries[r.Start : r.Start+r.Length]
}

func (a *CanArena) PushFields(fs []CanField) CanFieldRange {
	start := uint32(len(a.fields))
	a.fields = append(a.fields, fs...)
	return CanFieldRange{Start: start, Length: uint32(len(fs))}
}

func (a *CanArena) Fields(r CanFieldRange) []CanField {
	return a.fields[r.Start : r.Start+r.Length]
}

func (a *CanArena) PushParams(ps []CanParam) CanParamRange {
	start := uint32(len(a.params))
	a.params = append(a.params, ps...)
	return CanParamRange{Start: start, Length: uint32(len(ps))}
}

func (a *CanArena) Params(r CanParamRange) []CanParam {
	return a.params[r.Start : r.Start+r.Length]
}

func (a *CanArena) PushNamedExprs(ns []CanNamedExpr) CanNamedExprRange {
	start := uint32(len(a.namedExprs))
	a.namedExprs = append(a.namedExprs, ns...)
	return CanNamedExprRange{Start: start, Length: uint32(len(ns))}
}

func (a *CanArena) NamedExprs(r CanNamedExprRange) []CanNamedExpr {
	return a.namedExprs[r.Start : r.Start+r.Length]
}

// --- Binding patterns (Let destructuring) ---

// CanBindingPatternId addresses one entry in the arena's binding-pattern
// side arena.
type CanBindingPatternId uint32

// CanBindingPatternRange addresses a contiguous run of
// CanBindingPatternId.
type CanBindingPatternRange struct {
	Start  uint32
	Length uint32
}

// CanFieldBinding destructures one named field of a struct pattern.
type CanFieldBinding struct {
	Name    pool.Name
	Pattern CanBindingPatternId
}

// CanFieldBindingRange addresses a contiguous run of CanFieldBinding.
type CanFieldBindingRange struct {
	Start  uint32
	Length uint32
}

// CanBindingPatternKind discriminates a CanBindingPattern variant.
type CanBindingPatternKind uint8

const (
	BindingName CanBindingPatternKind = iota
	BindingTuple
	BindingStruct
	BindingList
	BindingWildcard
)

// CanBindingPattern is the left-hand side of a Let: a simple name, a tuple
// destructure, a struct destructure, a list destructure with an optional
// rest-name, or a wildcard.
type CanBindingPattern struct {
	Kind CanBindingPatternKind

	Name pool.Name // BindingName

	Tuple CanBindingPatternRange // BindingTuple

	StructFields CanFieldBindingRange // BindingStruct

	ListElements CanBindingPatternRange // BindingList
	ListRest     *pool.Name              // BindingList; nil if no rest binding
}

func (a *CanArena) PushBindingPattern(p CanBindingPattern) CanBindingPatternId {
	a.bindingPatterns = append(a.bindingPatterns, p)
	return CanBindingPatternId(len(a.bindingPatterns) - 1)
}

func (a *CanArena) BindingPattern(id CanBindingPatternId) CanBindingPattern {
	return a.bindingPatterns[id]
}

func (a *CanArena) PushBindingPatternList(ids []CanBindingPatternId) CanBindingPatternRange {
	start := uint32(len(a.bindingList))
	a.bindingList = append(a.bindingList, ids...)
	return CanBindingPatternRange{Start: start, Length: uint32(len(ids))}
}

func (a *CanArena) BindingPatternList(r CanBindingPatternRange) []CanBindingPatternId {
	return a.bindingList[r.Start : r.Start+r.Length]
}

func (a *CanArena) PushFieldBindings(fs []CanFieldBinding) CanFieldBindingRange {
	start := uint32(len(a.fieldBindings))
	a.fieldBindings = append(a.fieldBindings, fs...)
	return CanFieldBindingRange{Start: start, Length: uint32(len(fs))}
}

func (a *CanArena) FieldBindings(r CanFieldBindingRange) []CanFieldBinding {
	return a.fieldBindings[r.Start : r.Start+r.Length]
}
