package dtree

import "github.com/orilang/oricore/internal/pool"

// ValueKind discriminates a Value. Grounded on the Rust original's
// ori_patterns::Value (original_source/compiler/ori_eval/src/exec/
// decision_tree.rs's test module constructs Value::int/tuple/list/... of
// exactly this shape) — kept as a flat tagged struct rather than a
// Kind()-interface closed union, since Value here exists solely to drive
// ResolvePath/EvalDecisionTree and their tests, not as a general-purpose
// runtime representation (the middle-end has no evaluator of its own;
// spec.md §1 Non-goals excludes one).
type ValueKind uint8

const (
	VInt ValueKind = iota
	VFloat
	VBool
	VStr
	VTuple
	VList
	VStruct
	VVariant
)

// Value is one runtime value ResolvePath/EvalDecisionTree can navigate.
// Option's Some/None and Result's Ok/Err are not separate kinds: both are
// VVariant values tagged by name, matched the same way any other enum
// constructor is (see ConstructorPattern and TestValue's TestTag) — the
// combined Some/Err-vs-None/Ok discriminant the Rust original hardcodes
// for its two built-in enums doesn't generalize to user-defined ones, and
// since canon's Some/None/Ok/Err expression kinds already distinguish
// themselves at the AST level, unifying them here loses nothing.
type Value struct {
	Kind ValueKind

	Int   int64
	Float float64
	Bool  bool
	Str   pool.Name

	// Elements holds Tuple/List contents.
	Elements []Value
	// Fields holds Struct field values, and Variant payload fields.
	Fields []Value
	// TagName names a Variant's constructor.
	TagName pool.Name
}

func IntValue(v int64) Value     { return Value{Kind: VInt, Int: v} }
func FloatValue(v float64) Value { return Value{Kind: VFloat, Float: v} }
func BoolValue(v bool) Value     { return Value{Kind: VBool, Bool: v} }
func StrValue(v pool.Name) Value { return Value{Kind: VStr, Str: v} }

func TupleValue(elems ...Value) Value   { return Value{Kind: VTuple, Elements: elems} }
func ListValue(elems ...Value) Value    { return Value{Kind: VList, Elements: elems} }
func StructValue(fields ...Value) Value { return Value{Kind: VStruct, Fields: fields} }

func VariantValue(name pool.Name, fields ...Value) Value {
	return Value{Kind: VVariant, TagName: name, Fields: fields}
}

// SomeValue, NoneValue, OkValue and ErrValue are VariantValue convenience
// wrappers for the two built-in enums; callers supply the pool.Name each
// constructor interns to, just as they would for any user-defined variant.
func SomeValue(name pool.Name, inner Value) Value { return VariantValue(name, inner) }
func NoneValue(name pool.Name) Value              { return VariantValue(name) }
func OkValue(name pool.Name, inner Value) Value   { return VariantValue(name, inner) }
func ErrValue(name pool.Name, inner Value) Value  { return VariantValue(name, inner) }

func (v Value) AsInt() (int64, bool) {
	if v.Kind != VInt {
		return 0, false
	}
	return v.Int, true
}

func (v Value) AsFloat() (float64, bool) {
	if v.Kind != VFloat {
		return 0, false
	}
	return v.Float, true
}

func (v Value) AsBool() (bool, bool) {
	if v.Kind != VBool {
		return false, false
	}
	return v.Bool, true
}

func (v Value) AsStr() (pool.Name, bool) {
	if v.Kind != VStr {
		return 0, false
	}
	return v.Str, true
}

func (v Value) AsList() ([]Value, bool) {
	if v.Kind != VList {
		return nil, false
	}
	return v.Elements, true
}
