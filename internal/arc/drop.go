package arc

import "github.com/orilang/oricore/internal/pool"

// FieldDrop names one field of a Fields/Enum/ClosureEnv drop that requires
// release: its position in declaration order and its type.
type FieldDrop struct {
	Index int
	Type  pool.TypeIdx
}

// DropKind is the shape of the release procedure for a non-scalar type.
type DropKind interface {
	dropKind()
}

// DropTrivial releases the allocation itself with no per-field work: a
// Str, any Channel or Function, a List/Set whose element is scalar, or a
// Map whose keys and values are both scalar.
type DropTrivial struct{}

func (DropTrivial) dropKind() {}

// DropCollection releases every element (of ElementType) before freeing
// the backing buffer.
type DropCollection struct {
	ElementType pool.TypeIdx
}

func (DropCollection) dropKind() {}

// DropMap releases keys and/or values before freeing the backing buffer,
// depending on whether each side is itself ref-bearing.
type DropMap struct {
	KeyType, ValueType pool.TypeIdx
	DecKeys, DecValues bool
}

func (DropMap) dropKind() {}

// DropFields releases the listed ref-bearing fields of a Struct or Tuple
// before freeing the allocation.
type DropFields []FieldDrop

func (DropFields) dropKind() {}

// DropEnum releases the ref-bearing fields of whichever variant is live,
// indexed by declaration order (one []FieldDrop per variant, possibly
// empty for an all-scalar variant).
type DropEnum [][]FieldDrop

func (DropEnum) dropKind() {}

// DropClosureEnv releases the listed ref-bearing captures of a closure
// environment before freeing it. Structurally identical to DropFields;
// kept as a distinct type so the emitter can tell closure envs apart from
// ordinary struct drops without a side table.
type DropClosureEnv []FieldDrop

func (DropClosureEnv) dropKind() {}

// DropInfo pairs a type with its synthesized release procedure.
type DropInfo struct {
	Type pool.TypeIdx
	Kind DropKind
}

// ComputeDropInfo returns the release procedure for idx, or nil if idx's
// ArcClass is Scalar and no release is needed at all.
func ComputeDropInfo(idx pool.TypeIdx, c *Classifier, p *pool.Pool) *DropInfo {
	ridx, _ := p.ResolveThroughAliases(idx)
	class := c.Classify(idx)

	switch class {
	case ClassScalar:
		return nil

	case ClassDefiniteRef:
		return &DropInfo{Type: idx, Kind: DropTrivial{}}

	case ClassTrivial:
		return &DropInfo{Type: idx, Kind: DropTrivial{}}

	case ClassCollection:
		elem := p.ElemType(ridx)
		return &DropInfo{Type: idx, Kind: DropCollection{ElementType: elem}}

	case ClassMap:
		key, val := p.MapTypes(ridx)
		return &DropInfo{Type: idx, Kind: DropMap{
			KeyType:   key,
			ValueType: val,
			DecKeys:   !c.Classify(key).IsScalar(),
			DecValues: !c.Classify(val).IsScalar(),
		}}

	case ClassFields:
		return &DropInfo{Type: idx, Kind: DropFields(refBearingFieldDrops(c, p, ridx))}

	case ClassEnum:
		return &DropInfo{Type: idx, Kind: DropEnum(enumVariantFieldDrops(c, p, ridx))}

	default:
		panic("arc: ComputeDropInfo: unexpected ArcClass " + class.String())
	}
}

// ComputeClosureEnvDrop classifies a closure's capture list directly,
// without going through the Pool (a closure environment is not itself an
// interned type — it is an ad hoc tuple of captured variables).
func ComputeClosureEnvDrop(captures []pool.TypeIdx, c *Classifier) DropKind {
	var fields []FieldDrop
	for i, t := range captures {
		if !c.Classify(t).IsScalar() {
			fields = append(fields, FieldDrop{Index: i, Type: t})
		}
	}
	if len(fields) == 0 {
		return DropTrivial{}
	}
	return DropClosureEnv(fields)
}

func refBearingFieldDrops(c *Classifier, p *pool.Pool, idx pool.TypeIdx) []FieldDrop {
	fields := p.StructFields(idx)
	var out []FieldDrop
	for i, f := range fields {
		if !c.Classify(f.Type).IsScalar() {
			out = append(out, FieldDrop{Index: i, Type: f.Type})
		}
	}
	return out
}

// enumVariantFieldDrops handles Enum, Option, and Result uniformly: each
// is classified as ClassEnum by the Classifier when at least one
// variant/payload carries a non-scalar field. An Enum's variants come from
// Pool.EnumVariants in declaration order; Option and Result are not Pool
// enums, so their variants are built here in fixed order (Option: [None,
// Some(T)]; Result: [Ok(T), Err(E)]).
func enumVariantFieldDrops(c *Classifier, p *pool.Pool, idx pool.TypeIdx) [][]FieldDrop {
	var variants []pool.Variant
	switch p.Tag(idx) {
	case pool.TagOption:
		variants = []pool.Variant{{}, {Fields: []pool.Field{{Type: p.ElemType(idx)}}}}
	case pool.TagResult:
		ok, err := p.ResultTypes(idx)
		variants = []pool.Variant{{Fields: []pool.Field{{Type: ok}}}, {Fields: []pool.Field{{Type: err}}}}
	default:
		variants = p.EnumVariants(idx)
	}
	out := make([][]FieldDrop, len(variants))
	for vi, v := range variants {
		var fields []FieldDrop
		for fi, f := range v.Fields {
			if !c.Classify(f.Type).IsScalar() {
				fields = append(fields, FieldDrop{Index: fi, Type: f.Type})
			}
		}
		out[vi] = fields
	}
	return out
}

// CollectDropInfos walks every RcDec in every function body, resolves its
// operand's type through VarTypes, and deduplicates by Pool.TypeIdx: the
// module carries exactly one DropInfo per type actually released anywhere
// in it, regardless of how many RcDec sites mention that type.
func CollectDropInfos(functions []ArcFunction, c *Classifier, p *pool.Pool) []DropInfo {
	seen := make(map[pool.TypeIdx]bool)
	var out []DropInfo

	for _, fn := range functions {
		for _, blk := range fn.Blocks {
			for _, instr := range blk.Body {
				dec, ok := instr.(RcDec)
				if !ok {
					continue
				}
				ty := fn.VarTypes[dec.Var]
				if seen[ty] {
					continue
				}
				info := ComputeDropInfo(ty, c, p)
				if info == nil {
					seen[ty] = true
					continue
				}
				seen[ty] = true
				out = append(out, *info)
			}
		}
	}
	return out
}
