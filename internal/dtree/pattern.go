// Package dtree compiles match arms into a Maranget-style decision tree
// (spec.md §3/§4.7) and evaluates one against a runtime Value
// (spec.md §4.8). It is the middle-end's own domain: canon.CanExpr's
// Match node stores only a DecisionTreeID into a side table (see
// canon/expr.go's comment on that field) — the compiled tree itself, and
// the refutable match-pattern vocabulary it compiles from, live here.
//
// MatchPattern is grounded on the teacher's internal/core.CorePattern
// family (VarPattern/LitPattern/ConstructorPattern/ListPattern/
// RecordPattern/WildcardPattern), adapted to carry pool.Name handles
// instead of raw strings so patterns interoperate with the rest of the
// middle-end's interned vocabulary.
package dtree

import "github.com/orilang/oricore/internal/pool"

// PatternKind discriminates a MatchPattern variant.
type PatternKind uint8

const (
	PatVar PatternKind = iota
	PatLit
	PatConstructor
	PatList
	PatRecord
	PatWildcard
)

// MatchPattern is one refutable pattern in a match arm.
type MatchPattern interface {
	Kind() PatternKind
}

// VarPattern always matches and binds the scrutinee (or sub-value, once
// specialized) to Name.
type VarPattern struct {
	Name pool.Name
}

func (VarPattern) Kind() PatternKind { return PatVar }

// LitKind discriminates which field of LitPattern holds the literal.
type LitKind uint8

const (
	LitInt LitKind = iota
	LitFloat
	LitBool
	LitStr
)

// LitPattern matches a single scalar constant.
type LitPattern struct {
	LitKind LitKind
	Int     int64
	Float   float64
	Bool    bool
	Str     pool.Name
}

func (LitPattern) Kind() PatternKind { return PatLit }

// ConstructorPattern matches a tagged value (an enum variant, or the
// built-in Some/None/Ok/Err tags) by Name, destructuring its payload
// positionally into Args.
type ConstructorPattern struct {
	Name pool.Name
	Args []MatchPattern
}

func (ConstructorPattern) Kind() PatternKind { return PatConstructor }

// ListPattern matches a list by its leading Elements. When Tail is nil the
// list must have exactly len(Elements) items; when Tail is non-nil the
// list must have at least that many (Tail itself is not further
// destructured — resolving a variable-length remainder has no
// PathInstruction to address it, see path.go).
type ListPattern struct {
	Elements []MatchPattern
	Tail     *MatchPattern
}

func (ListPattern) Kind() PatternKind { return PatList }

// RecordPattern matches a struct's fields by name. Unlike the other
// constructor-shaped patterns, a RecordPattern is irrefutable with
// respect to tag (a well-typed column is homogeneous: every refutable
// pattern at that column names the same struct type), so the compiler
// treats every row's RecordPattern at a given column as a single implicit
// case rather than something to discriminate between variants of.
type RecordPattern struct {
	Fields map[pool.Name]MatchPattern
}

func (RecordPattern) Kind() PatternKind { return PatRecord }

// WildcardPattern always matches and binds nothing.
type WildcardPattern struct{}

func (WildcardPattern) Kind() PatternKind { return PatWildcard }

// isIrrefutable reports whether p always matches regardless of value
// shape — the "default row" condition from spec.md §4.7.
func isIrrefutable(p MatchPattern) bool {
	switch p.(type) {
	case VarPattern, WildcardPattern:
		return true
	default:
		return false
	}
}
