package dtree

import "github.com/orilang/oricore/internal/pool"

// PathInstructionKind discriminates one step of a Path.
type PathInstructionKind uint8

const (
	// TagPayload steps into the Index-th payload field of a tagged value
	// (an enum variant, or Some/Ok/Err, whose single payload sits at
	// index 0).
	TagPayload PathInstructionKind = iota
	// TupleIndex steps into the Index-th element of a tuple. pattern.go
	// has no tuple pattern, so the compiler never emits this step;
	// ResolvePath still supports it.
	TupleIndex
	// StructField steps into a struct field, addressed positionally by
	// Index (the field's resolved offset, independent of source order).
	StructField
	// ListElement steps into the Index-th element of a fixed-position
	// list pattern.
	ListElement
)

// PathInstruction is one step of a Path: which kind of structural access,
// and the positional Index it reads. FieldName is an optional label for
// diagnostics (spec.md §6 Labels can name the field a test inspected);
// CompileMatchArms leaves it unset, and resolution itself is by Index.
type PathInstruction struct {
	Kind      PathInstructionKind
	Index     int
	FieldName pool.Name
}

// Path is a sequence of PathInstructions from the match scrutinee down to
// a sub-value a Switch node tests, or a Leaf/Guard node binds. An empty
// Path names the scrutinee itself.
type Path []PathInstruction

// extend returns a new Path with step appended, without mutating p —
// every row threaded through the compiler keeps its own Path slice since
// sibling rows built from the same parent must not observe each other's
// appends (see compile.go's childPaths building distinct
// per-column paths from one parent Path).
func (p Path) extend(step PathInstruction) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, step)
}

// Binding records that Name should be bound, at a Leaf/Guard node, to
// whatever value Path resolves to against the match's original scrutinee.
type Binding struct {
	Name pool.Name
	Path Path
}
