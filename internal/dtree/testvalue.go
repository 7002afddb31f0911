package dtree

import "github.com/orilang/oricore/internal/pool"

// TestKind discriminates which shape of test a Switch node's edges carry,
// mirroring the Rust original's TestKind (ori_ir::canon::tree) — carried
// alongside TestValue rather than inferred from it, so a diagnostic can
// name the test family without pattern-matching on TestValue's payload.
type TestKind uint8

const (
	TestBool TestKind = iota
	TestInt
	TestFloat
	TestStr
	TestTag
	TestIntRange
	TestListLen
)

func (k TestKind) String() string {
	switch k {
	case TestBool:
		return "Bool"
	case TestInt:
		return "Int"
	case TestFloat:
		return "Float"
	case TestStr:
		return "Str"
	case TestTag:
		return "Tag"
	case TestIntRange:
		return "IntRange"
	case TestListLen:
		return "ListLen"
	default:
		return "Unknown"
	}
}

// TestValue is one Switch edge's discriminant: the concrete value a
// sub-value must equal (or fall within, for ranges) to take that edge.
// Ported field-for-field from the Rust original's TestValue enum, flattened
// into one struct (the Go idiom this package's siblings already use for
// closed variant sets — see arc.ArcInstr's Kind()-tagged interface — would
// cost an extra interface+Kind() pair for no benefit here: TestValue is
// itself the Switch edge key, not a recursive tree node, and every field
// combination is comparable, so a plain struct can serve directly as a map
// key during compilation).
type TestValue struct {
	Kind TestKind

	// TestTag
	TagName pool.Name

	// TestInt
	Int int64

	// TestFloat
	FloatBits uint64

	// TestStr
	Str pool.Name

	// TestBool
	Bool bool

	// TestIntRange
	Lo, Hi int64

	// TestListLen
	Len   int
	Exact bool
}
