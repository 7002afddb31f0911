package pool

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// TypeIdx is a 32-bit handle into a Pool of interned types. Once issued, a
// TypeIdx is immutable and remains valid for the lifetime of the session.
type TypeIdx uint32

// InvalidTypeIdx is the sentinel for "no type" (e.g. a not-yet-inferred
// slot). It never compares equal to any TypeIdx returned by Intern.
const InvalidTypeIdx TypeIdx = 1<<32 - 1

// Tag discriminates the shape of a type's payload. The scalar kinds
// (Int, Float, Bool, Char, Byte, Unit, Never) are flat members of Tag
// rather than a nested sub-enum — classify() (internal/arc) treats all of
// them uniformly as ArcClass Scalar.
type Tag uint8

const (
	TagInt Tag = iota
	TagFloat
	TagBool
	TagChar
	TagByte
	TagUnit
	TagNever
	TagStr
	TagList
	TagSet
	TagMap
	TagTuple
	TagStruct
	TagEnum
	TagFunction
	TagChannel
	TagOption
	TagResult
	TagRange
	TagNamed
	TagApplied
	TagAlias
)

func (t Tag) String() string {
	switch t {
	case TagInt:
		return "Int"
	case TagFloat:
		return "Float"
	case TagBool:
		return "Bool"
	case TagChar:
		return "Char"
	case TagByte:
		return "Byte"
	case TagUnit:
		return "Unit"
	case TagNever:
		return "Never"
	case TagStr:
		return "Str"
	case TagList:
		return "List"
	case TagSet:
		return "Set"
	case TagMap:
		return "Map"
	case TagTuple:
		return "Tuple"
	case TagStruct:
		return "Struct"
	case TagEnum:
		return "Enum"
	case TagFunction:
		return "Function"
	case TagChannel:
		return "Channel"
	case TagOption:
		return "Option"
	case TagResult:
		return "Result"
	case TagRange:
		return "Range"
	case TagNamed:
		return "Named"
	case TagApplied:
		return "Applied"
	case TagAlias:
		return "Alias"
	default:
		return fmt.Sprintf("Tag(%d)", t)
	}
}

// scalarTags enumerates the Tag values classify() treats as Scalar.
var scalarTags = map[Tag]bool{
	TagInt: true, TagFloat: true, TagBool: true, TagChar: true,
	TagByte: true, TagUnit: true, TagNever: true,
}

// IsScalarTag reports whether t is one of the flat scalar kinds.
func IsScalarTag(t Tag) bool { return scalarTags[t] }

// Field is a named, typed struct field or tuple element.
type Field struct {
	Name Name // InvalidName for positional tuple elements
	Type TypeIdx
}

// Variant is one constructor of an Enum type.
type Variant struct {
	Name   Name
	Fields []Field
}

// entry is the payload for one interned type. Only the fields relevant to
// Tag are populated; the rest are zero.
type entry struct {
	tag Tag

	name Name // Named/Struct/Enum/Function-effect carrier

	elem TypeIdx // List/Set/Option/Range element, Channel payload

	key TypeIdx // Map key
	val TypeIdx // Map value

	elems []TypeIdx // Tuple elements, Function parameters

	ret     TypeIdx // Function return type
	effects []Name  // Function effect row

	fields   []Field   // Struct fields (positional Name == InvalidName for tuple-structs)
	variants []Variant // Enum variants

	ok  TypeIdx // Result Ok type
	err TypeIdx // Result Err type

	target  TypeIdx   // Alias target, or Named/Applied resolution (InvalidTypeIdx until resolved)
	appArgs []TypeIdx // Applied: type arguments
}

// Pool interns types into TypeIdx handles. Structurally identical types
// collapse to the same handle; the Pool is process-scoped and append-only
// during a session.
type Pool struct {
	mu      sync.RWMutex
	entries []entry
	byKey   map[string]TypeIdx
}

// NewPool returns an empty Pool.
func NewPool() *Pool {
	return &Pool{byKey: make(map[string]TypeIdx)}
}

// intern returns the canonical TypeIdx for e, creating a new entry only if
// no structurally equal type has been interned already.
func (p *Pool) intern(e entry) TypeIdx {
	key := canonKey(e)

	p.mu.RLock()
	if idx, ok := p.byKey[key]; ok {
		p.mu.RUnlock()
		return idx
	}
	p.mu.RUnlock()

	p.mu.Lock()
	defer p.mu.Unlock()
	if idx, ok := p.byKey[key]; ok {
		return idx
	}
	idx := TypeIdx(len(p.entries))
	p.entries = append(p.entries, e)
	p.byKey[key] = idx
	return idx
}

func (p *Pool) get(idx TypeIdx) entry {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.entries[idx]
}

// Tag returns the shape discriminant for idx.
func (p *Pool) Tag(idx TypeIdx) Tag { return p.get(idx).tag }

// --- Scalar and leaf constructors ---

func (p *Pool) Int() TypeIdx    { return p.intern(entry{tag: TagInt}) }
func (p *Pool) Float() TypeIdx  { return p.intern(entry{tag: TagFloat}) }
func (p *Pool) Bool() TypeIdx   { return p.intern(entry{tag: TagBool}) }
func (p *Pool) Char() TypeIdx   { return p.intern(entry{tag: TagChar}) }
func (p *Pool) Byte() TypeIdx   { return p.intern(entry{tag: TagByte}) }
func (p *Pool) Unit() TypeIdx   { return p.intern(entry{tag: TagUnit}) }
func (p *Pool) Never() TypeIdx  { return p.intern(entry{tag: TagNever}) }
func (p *Pool) Str() TypeIdx    { return p.intern(entry{tag: TagStr}) }

// --- Constructors for product/coproduct/sum/arrow types ---

func (p *Pool) List(elem TypeIdx) TypeIdx { return p.intern(entry{tag: TagList, elem: elem}) }
func (p *Pool) Set(elem TypeIdx) TypeIdx  { return p.intern(entry{tag: TagSet, elem: elem}) }
func (p *Pool) Map(key, val TypeIdx) TypeIdx {
	return p.intern(entry{tag: TagMap, key: key, val: val})
}
func (p *Pool) Channel(elem TypeIdx) TypeIdx { return p.intern(entry{tag: TagChannel, elem: elem}) }
func (p *Pool) Range(elem TypeIdx) TypeIdx   { return p.intern(entry{tag: TagRange, elem: elem}) }
func (p *Pool) Option(elem TypeIdx) TypeIdx  { return p.intern(entry{tag: TagOption, elem: elem}) }
func (p *Pool) Result(ok, err TypeIdx) TypeIdx {
	return p.intern(entry{tag: TagResult, ok: ok, err: err})
}

// Tuple interns an unnamed product of elems in order.
func (p *Pool) Tuple(elems ...TypeIdx) TypeIdx {
	cp := append([]TypeIdx(nil), elems...)
	return p.intern(entry{tag: TagTuple, elems: cp})
}

// Struct interns a named product with named fields, in declaration order.
func (p *Pool) Struct(name Name, fields ...Field) TypeIdx {
	cp := append([]Field(nil), fields...)
	return p.intern(entry{tag: TagStruct, name: name, fields: cp})
}

// Enum interns a named sum of variants, in declaration order. Variant index
// (position in the slice) is the numeric tag the drop synthesizer keys on;
// the decision-tree compiler matches constructors by name instead.
func (p *Pool) Enum(name Name, variants ...Variant) TypeIdx {
	cp := append([]Variant(nil), variants...)
	return p.intern(entry{tag: TagEnum, name: name, variants: cp})
}

// Function interns an arrow type: params -> ret, with an effect row.
func (p *Pool) Function(params []TypeIdx, ret TypeIdx, effects ...Name) TypeIdx {
	ps := append([]TypeIdx(nil), params...)
	es := append([]Name(nil), effects...)
	sort.Slice(es, func(i, j int) bool { return es[i] < es[j] })
	return p.intern(entry{tag: TagFunction, elems: ps, ret: ret, effects: es})
}

// Named interns a forward-declarable nominal type by name. The returned
// TypeIdx resolves to InvalidTypeIdx until SetResolution is called — this
// supports the two-phase declare-then-define symbol-table pattern
// (declarations are registered before any body is lowered, so recursive
// named types are safe to reference before their definition is complete).
func (p *Pool) Named(name Name) TypeIdx {
	return p.intern(entry{tag: TagNamed, name: name, target: InvalidTypeIdx})
}

// SetResolution binds a previously-declared Named or Applied TypeIdx to its
// definition. It is an error to call this more than once for the same idx
// with a different target once already resolved to a value other than
// InvalidTypeIdx.
func (p *Pool) SetResolution(idx TypeIdx, target TypeIdx) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries[idx].target = target
}

// Applied interns a generic type application base<args...>, e.g. List<T>
// after substitution. It resolves through the same target mechanism as
// Named once its instantiation is computed.
func (p *Pool) Applied(base TypeIdx, args ...TypeIdx) TypeIdx {
	as := append([]TypeIdx(nil), args...)
	return p.intern(entry{tag: TagApplied, elem: base, appArgs: as, target: InvalidTypeIdx})
}

// Alias interns a type alias pointing directly at target (always resolved —
// unlike Named, an alias is never forward-declared without its target).
func (p *Pool) Alias(name Name, target TypeIdx) TypeIdx {
	return p.intern(entry{tag: TagAlias, name: name, target: target})
}

// --- Structural navigation ---

// Resolve follows a single indirection: for Named/Applied/Alias it returns
// the immediate target (which may itself be another indirection); for any
// other tag it returns (idx, false) unchanged.
func (p *Pool) Resolve(idx TypeIdx) (TypeIdx, bool) {
	e := p.get(idx)
	switch e.tag {
	case TagNamed, TagApplied, TagAlias:
		if e.target == InvalidTypeIdx {
			return idx, false
		}
		return e.target, true
	default:
		return idx, false
	}
}

// ResolveThroughAliases follows a chain of Named/Applied/Alias indirections
// to the first non-indirection type, guarding against cycles with a
// visited set. It is idempotent: resolving an already-resolved index is a
// no-op. The parser/type-checker guarantee aliases never cycle; the guard
// here turns a violation of that invariant into a safe no-match return
// rather than an infinite loop.
func (p *Pool) ResolveThroughAliases(idx TypeIdx) (TypeIdx, Tag) {
	visited := map[TypeIdx]bool{}
	cur := idx
	for {
		if visited[cur] {
			return cur, p.Tag(cur)
		}
		visited[cur] = true
		next, ok := p.Resolve(cur)
		if !ok || next == cur {
			return cur, p.Tag(cur)
		}
		cur = next
	}
}

// EnumVariants returns the (name, field types) pairs of an Enum type, in
// declaration order. It panics if idx does not resolve to an Enum.
func (p *Pool) EnumVariants(idx TypeIdx) []Variant {
	ridx, tag := p.ResolveThroughAliases(idx)
	if tag != TagEnum {
		panic(fmt.Sprintf("pool: EnumVariants on non-Enum tag %v", tag))
	}
	return append([]Variant(nil), p.get(ridx).variants...)
}

// StructFields returns the fields of a Struct or Tuple type (tuple elements
// are reported with InvalidName).
func (p *Pool) StructFields(idx TypeIdx) []Field {
	ridx, tag := p.ResolveThroughAliases(idx)
	e := p.get(ridx)
	switch tag {
	case TagStruct:
		return append([]Field(nil), e.fields...)
	case TagTuple:
		fs := make([]Field, len(e.elems))
		for i, t := range e.elems {
			fs[i] = Field{Name: InvalidName, Type: t}
		}
		return fs
	default:
		panic(fmt.Sprintf("pool: StructFields on tag %v", tag))
	}
}

// ElemType returns the element type of List/Set/Option/Range/Channel.
func (p *Pool) ElemType(idx TypeIdx) TypeIdx {
	ridx, _ := p.ResolveThroughAliases(idx)
	return p.get(ridx).elem
}

// MapTypes returns the key and value types of a Map.
func (p *Pool) MapTypes(idx TypeIdx) (key, val TypeIdx) {
	ridx, _ := p.ResolveThroughAliases(idx)
	e := p.get(ridx)
	return e.key, e.val
}

// ResultTypes returns the Ok and Err types of a Result.
func (p *Pool) ResultTypes(idx TypeIdx) (ok, err TypeIdx) {
	ridx, _ := p.ResolveThroughAliases(idx)
	e := p.get(ridx)
	return e.ok, e.err
}

// FunctionSig returns the parameter types, return type, and effect row of a
// Function type.
func (p *Pool) FunctionSig(idx TypeIdx) (params []TypeIdx, ret TypeIdx, effects []Name) {
	ridx, _ := p.ResolveThroughAliases(idx)
	e := p.get(ridx)
	return append([]TypeIdx(nil), e.elems...), e.ret, append([]Name(nil), e.effects...)
}

// Name returns the declared name of a Struct/Enum/Named/Alias type.
func (p *Pool) Name(idx TypeIdx) Name { return p.get(idx).name }

// canonKey produces a deterministic string key for structural deduplication.
// Children are referenced by their own already-canonical TypeIdx, so this
// need not recurse into grandchildren — equal children always carry equal
// indices.
func canonKey(e entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d|", e.tag)
	switch e.tag {
	case TagInt, TagFloat, TagBool, TagChar, TagByte, TagUnit, TagNever, TagStr:
		// no payload
	case TagList, TagSet, TagChannel, TagRange, TagOption:
		fmt.Fprintf(&b, "%d", e.elem)
	case TagMap:
		fmt.Fprintf(&b, "%d,%d", e.key, e.val)
	case TagTuple:
		writeIdxSlice(&b, e.elems)
	case TagStruct:
		fmt.Fprintf(&b, "%d;", e.name)
		for _, f := range e.fields {
			fmt.Fprintf(&b, "%d:%d,", f.Name, f.Type)
		}
	case TagEnum:
		fmt.Fprintf(&b, "%d;", e.name)
		for _, v := range e.variants {
			fmt.Fprintf(&b, "%d[", v.Name)
			for _, f := range v.Fields {
				fmt.Fprintf(&b, "%d:%d,", f.Name, f.Type)
			}
			b.WriteString("];")
		}
	case TagFunction:
		writeIdxSlice(&b, e.elems)
		fmt.Fprintf(&b, "->%d/", e.ret)
		for _, n := range e.effects {
			fmt.Fprintf(&b, "%d,", n)
		}
	case TagResult:
		fmt.Fprintf(&b, "%d,%d", e.ok, e.err)
	case TagNamed:
		fmt.Fprintf(&b, "%d", e.name)
	case TagApplied:
		fmt.Fprintf(&b, "%d<", e.elem)
		writeIdxSlice(&b, e.appArgs)
		b.WriteString(">")
	case TagAlias:
		fmt.Fprintf(&b, "%d=%d", e.name, e.target)
	}
	return b.String()
}

func writeIdxSlice(b *strings.Builder, s []TypeIdx) {
	for _, t := range s {
		fmt.Fprintf(b, "%d,", t)
	}
}
