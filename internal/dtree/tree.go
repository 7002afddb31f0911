package dtree

import "github.com/orilang/oricore/internal/canon"

// TreeKind discriminates a DecisionTree variant.
type TreeKind uint8

const (
	TreeLeaf TreeKind = iota
	TreeGuard
	TreeSwitch
	TreeFail
)

func (k TreeKind) String() string {
	switch k {
	case TreeLeaf:
		return "Leaf"
	case TreeGuard:
		return "Guard"
	case TreeSwitch:
		return "Switch"
	case TreeFail:
		return "Fail"
	default:
		return "Unknown"
	}
}

// DecisionTree is one compiled match: a Leaf/Guard terminal, a Switch that
// tests a sub-value and dispatches, or a Fail marking an arm that
// well-typed, exhaustiveness-checked input should never reach.
type DecisionTree interface {
	Kind() TreeKind
}

// Leaf unconditionally selects ArmIndex, binding Bindings first.
type Leaf struct {
	ArmIndex int
	Bindings []Binding
}

func (Leaf) Kind() TreeKind { return TreeLeaf }

// Guard selects ArmIndex only if GuardExpr evaluates true once Bindings
// are in scope; otherwise control falls through to OnFail, which is
// itself a full subtree (not a flat row list) so a failed guard can
// re-test the scrutinee against later arms exactly as if the guarded arm
// had never matched (spec.md §4.7's Guard.on_fail requirement).
type Guard struct {
	ArmIndex  int
	Bindings  []Binding
	GuardExpr canon.CanId
	OnFail    DecisionTree
}

func (Guard) Kind() TreeKind { return TreeGuard }

// SwitchEdge is one labeled outgoing edge of a Switch: take Subtree when
// the value at the Switch's Path matches Test.
type SwitchEdge struct {
	Test    TestValue
	Subtree DecisionTree
}

// Switch resolves Path against the scrutinee, tests the result against
// each Edge in order (first match wins — edge order is fixed at compile
// time for determinism, see compile.go's selectColumn/buildSwitch), and
// falls through to Default if nothing matches.
type Switch struct {
	Path     Path
	TestKind TestKind
	Edges    []SwitchEdge
	Default  DecisionTree
}

func (Switch) Kind() TreeKind { return TreeSwitch }

// Fail marks a point no well-typed, exhaustive match should ever reach at
// runtime; reaching one is a non-exhaustive-match bug (see diag.MAT001).
type Fail struct{}

func (Fail) Kind() TreeKind { return TreeFail }
