package canon

import (
	"hash/fnv"
	"math"
)

// invalidSentinel is hashed in place of an invalid CanId — a distinguished
// value that cannot collide with any real node's discriminant+type prefix,
// since discriminants never exceed uint8 range.
const invalidSentinel = ^uint32(0)

// accumulator incrementally folds field values into a running FNV-1a
// state, mirroring the Rust original's `Hasher::hash` calls threaded
// through a single `FxHasher`. Each call mixes its argument into the
// running state; order matters, exactly as in the ported algorithm.
type accumulator struct {
	h uint64
}

func newAccumulator() *accumulator {
	a := &accumulator{}
	f := fnv.New64a()
	a.h = bytesToUint64(f.Sum(nil))
	return a
}

func bytesToUint64(b []byte) uint64 {
	var v uint64
	for _, x := range b {
		v = v<<8 | uint64(x)
	}
	return v
}

// mix folds an 8-byte chunk into the running hash with FNV-1a's
// xor-multiply step, applied once to the whole 64-bit value v.
func (a *accumulator) mix(v uint64) {
	const prime64 = 1099511628211
	a.h ^= v
	a.h *= prime64
}

func (a *accumulator) u64(v uint64) { a.mix(v) }
func (a *accumulator) u32(v uint32) { a.mix(uint64(v)) }
func (a *accumulator) i64(v int64)  { a.mix(uint64(v)) }
func (a *accumulator) f64(v float64) {
	// Hash the raw bits so NaN payloads and signed zero are
	// distinguished, matching the structural-equality requirement that
	// two canonical trees hash equal iff their content is equal.
	a.mix(math.Float64bits(v))
}
func (a *accumulator) boolean(v bool) {
	if v {
		a.mix(1)
	} else {
		a.mix(0)
	}
}
func (a *accumulator) str(s string) {
	a.mix(uint64(len(s)))
	for i := 0; i+8 <= len(s); i += 8 {
		var v uint64
		for j := 0; j < 8; j++ {
			v = v<<8 | uint64(s[i+j])
		}
		a.mix(v)
	}
	rem := len(s) % 8
	if rem != 0 {
		var v uint64
		for _, c := range []byte(s[len(s)-rem:]) {
			v = v<<8 | uint64(c)
		}
		a.mix(v)
	}
}
func (a *accumulator) rune_(r rune) { a.mix(uint64(uint32(r))) }

func (a *accumulator) finish() uint64 { return a.h }

// HashCanonicalSubtree computes a span-free structural fingerprint of the
// tree rooted at root. Two trees built in distinct arenas with identical
// construction sequences and type assignments produce identical hashes;
// any change to a discriminant, operator, field name, resolved type, or
// child content changes the hash with high probability. CanId values
// themselves are never hashed — only the content they name.
func HashCanonicalSubtree(arena *CanArena, root CanId) uint64 {
	acc := newAccumulator()
	hashNode(arena, root, acc)
	return acc.finish()
}

func hashNode(arena *CanArena, id CanId, acc *accumulator) {
	if !id.IsValid() {
		acc.u32(invalidSentinel)
		return
	}

	node := arena.Node(id)

	acc.u32(uint32(node.Kind.Kind()))
	acc.u32(uint32(node.Type))

	hashExpr(arena, node.Kind, acc)
}

func hashExpr(arena *CanArena, kind CanExpr, acc *accumulator) {
	switch k := kind.(type) {
	case Int:
		acc.i64(int64(k))
	case Float:
		acc.f64(float64(k))
	case Bool:
		acc.boolean(bool(k))
	case Char:
		acc.rune_(rune(k))
	case Duration:
		acc.i64(k.Value)
		acc.u32(uint32(k.Unit))
	case Size:
		acc.i64(k.Value)
		acc.u32(uint32(k.Unit))
	case UnitExpr, NoneExpr, SelfRefExpr, HashLengthExpr, ErrorExpr:
		// No additional data beyond discriminant + type.

	case Constant:
		acc.u32(uint32(k.ID))
	case Str:
		acc.u32(uint32(k.Name))
	case Ident:
		acc.u32(uint32(k.Name))
	case Const:
		acc.u32(uint32(k.Name))
	case FunctionRef:
		acc.u32(uint32(k.Name))
	case TypeRef:
		acc.u32(uint32(k.Name))

	case Binary:
		acc.u32(uint32(k.Op))
		hashNode(arena, k.Left, acc)
		hashNode(arena, k.Right, acc)
	case Unary:
		acc.u32(uint32(k.Op))
		hashNode(arena, k.Operand, acc)
	case Cast:
		acc.u32(uint32(k.Target))
		acc.boolean(k.Fallible)
		hashNode(arena, k.Expr, acc)

	case Call:
		hashNode(arena, k.Func, acc)
		hashRange(arena, k.Args, acc)
	case MethodCall:
		acc.u32(uint32(k.Method))
		hashNode(arena, k.Receiver, acc)
		hashRange(arena, k.Args, acc)

	case Field:
		acc.u32(uint32(k.FieldName))
		hashNode(arena, k.Receiver, acc)
	case Index:
		hashNode(arena, k.Receiver, acc)
		hashNode(arena, k.Index, acc)

	case If:
		hashNode(arena, k.Cond, acc)
		hashNode(arena, k.ThenBranch, acc)
		hashNode(arena, k.ElseBranch, acc)
	case Match:
		acc.u32(uint32(k.DecisionTree))
		hashNode(arena, k.Scrutinee, acc)
		hashRange(arena, k.Arms, acc)
	case For:
		acc.u32(uint32(k.Binding))
		acc.boolean(k.IsYield)
		hashNode(arena, k.Iter, acc)
		hashNode(arena, k.Guard, acc)
		hashNode(arena, k.Body, acc)
	case Loop:
		hashNode(arena, k.Body, acc)
	case Break:
		hashNode(arena, k.Value, acc)
	case Continue:
		hashNode(arena, k.Value, acc)
	case Try:
		hashNode(arena, k.Value, acc)
	case Await:
		hashNode(arena, k.Value, acc)

	case Block:
		hashRange(arena, k.Stmts, acc)
		hashNode(arena, k.Result, acc)
	case Let:
		acc.boolean(k.Mutable)
		hashBindingPattern(arena, k.Pattern, acc)
		hashNode(arena, k.Init, acc)
	case Assign:
		hashNode(arena, k.Target, acc)
		hashNode(arena, k.Value, acc)

	case Lambda:
		hashParams(arena, k.Params, acc)
		hashNode(arena, k.Body, acc)

	case List:
		hashRange(arena, k.Elements, acc)
	case Tuple:
		hashRange(arena, k.Elements, acc)
	case Map:
		hashMapEntries(arena, k.Entries, acc)
	case Struct:
		acc.u32(uint32(k.Name))
		hashFields(arena, k.Fields, acc)
	case Range:
		acc.boolean(k.Inclusive)
		hashNode(arena, k.Start, acc)
		hashNode(arena, k.End, acc)
		hashNode(arena, k.Step, acc)

	case Ok:
		hashNode(arena, k.Value, acc)
	case Err:
		hashNode(arena, k.Value, acc)
	case Some:
		hashNode(arena, k.Value, acc)

	case WithCapability:
		acc.u32(uint32(k.Capability))
		hashNode(arena, k.Provider, acc)
		hashNode(arena, k.Body, acc)

	case FunctionExp:
		acc.u32(uint32(k.PatternKind))
		hashNamedExprs(arena, k.Props, acc)

	default:
		panic("canon: hashExpr: unhandled CanExpr variant")
	}
}

func hashRange(arena *CanArena, r CanRange, acc *accumulator) {
	ids := arena.ExprList(r)
	acc.u64(uint64(len(ids)))
	for _, id := range ids {
		hashNode(arena, id, acc)
	}
}

func hashMapEntries(arena *CanArena, r CanMapEntryRange, acc *accumulator) {
	entries := arena.MapEntries(r)
	acc.u64(uint64(len(entries)))
	for _, e := range entries {
		hashNode(arena, e.Key, acc)
		hashNode(arena, e.Value, acc)
	}
}

func hashFields(arena *CanArena, r CanFieldRange, acc *accumulator) {
	fields := arena.Fields(r)
	acc.u64(uint64(len(fields)))
	for _, f := range fields {
		acc.u32(uint32(f.Name))
		hashNode(arena, f.Value, acc)
	}
}

func hashParams(arena *CanArena, r CanParamRange, acc *accumulator) {
	params := arena.Params(r)
	acc.u64(uint64(len(params)))
	for _, p := range params {
		acc.u32(uint32(p.Name))
		hashNode(arena, p.Default, acc)
	}
}

func hashNamedExprs(arena *CanArena, r CanNamedExprRange, acc *accumulator) {
	exprs := arena.NamedExprs(r)
	acc.u64(uint64(len(exprs)))
	for _, e := range exprs {
		acc.u32(uint32(e.Name))
		hashNode(arena, e.Value, acc)
	}
}

func hashBindingPattern(arena *CanArena, id CanBindingPatternId, acc *accumulator) {
	p := arena.BindingPattern(id)
	acc.u32(uint32(p.Kind))

	switch p.Kind {
	case BindingName:
		acc.u32(uint32(p.Name))
	case BindingTuple:
		hashBindingPatternRange(arena, p.Tuple, acc)
	case BindingStruct:
		hashFieldBindings(arena, p.StructFields, acc)
	case BindingList:
		hashBindingPatternRange(arena, p.ListElements, acc)
		if p.ListRest != nil {
			acc.boolean(true)
			acc.u32(uint32(*p.ListRest))
		} else {
			acc.boolean(false)
		}
	case BindingWildcard:
		// no payload
	}
}

func hashBindingPatternRange(arena *CanArena, r CanBindingPatternRange, acc *accumulator) {
	ids := arena.BindingPatternList(r)
	acc.u64(uint64(len(ids)))
	for _, id := range ids {
		hashBindingPattern(arena, id, acc)
	}
}

func hashFieldBindings(arena *CanArena, r CanFieldBindingRange, acc *accumulator) {
	bindings := arena.FieldBindings(r)
	acc.u64(uint64(len(bindings)))
	for _, b := range bindings {
		acc.u32(uint32(b.Name))
		hashBindingPattern(arena, b.Pattern, acc)
	}
}
