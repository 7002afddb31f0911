package dtree

import (
	"fmt"
	"math"

	"github.com/orilang/oricore/internal/canon"
)

// GuardFunc evaluates a match arm's guard expression with bindings in
// scope, returning whether it passed. The decision-tree evaluator is pure
// with respect to everything except guards, which need an interpreter's
// environment — exactly the shape the Rust original's eval_decision_tree
// takes its eval_guard callback in.
type GuardFunc func(guard canon.CanId, bindings []Binding, values []Value) (bool, error)

// MatchResult is the outcome of EvalDecisionTree: which arm matched and
// what its pattern bound.
type MatchResult struct {
	ArmIndex int
	Bindings []Binding
	Values   []Value
}

// EvalDecisionTree walks tree against scrutinee, resolving bindings at
// Leaf/Guard nodes and dispatching at Switch nodes. Ported near-verbatim
// from the Rust original's eval_decision_tree (ori_eval/src/exec/
// decision_tree.rs): Leaf resolves and returns; Guard resolves, asks
// evalGuard, and on failure recurses into OnFail exactly as if the guarded
// arm were never tried; Switch resolves its Path once and scans Edges in
// their fixed compile-time order, falling back to Default; Fail always
// errors, since reaching one means an earlier exhaustiveness guarantee
// was violated.
func EvalDecisionTree(tree DecisionTree, scrutinee Value, evalGuard GuardFunc) (MatchResult, error) {
	switch node := tree.(type) {
	case Leaf:
		values, err := resolveBindings(scrutinee, node.Bindings)
		if err != nil {
			return MatchResult{}, err
		}
		return MatchResult{ArmIndex: node.ArmIndex, Bindings: node.Bindings, Values: values}, nil

	case Guard:
		values, err := resolveBindings(scrutinee, node.Bindings)
		if err != nil {
			return MatchResult{}, err
		}
		passed, err := evalGuard(node.GuardExpr, node.Bindings, values)
		if err != nil {
			return MatchResult{}, fmt.Errorf("dtree: guard evaluation failed: %w", err)
		}
		if passed {
			return MatchResult{ArmIndex: node.ArmIndex, Bindings: node.Bindings, Values: values}, nil
		}
		return EvalDecisionTree(node.OnFail, scrutinee, evalGuard)

	case Switch:
		sub, err := ResolvePath(scrutinee, node.Path)
		if err != nil {
			return MatchResult{}, err
		}
		for _, edge := range node.Edges {
			if testMatches(sub, edge.Test) {
				return EvalDecisionTree(edge.Subtree, scrutinee, evalGuard)
			}
		}
		if node.Default != nil {
			return EvalDecisionTree(node.Default, scrutinee, evalGuard)
		}
		return MatchResult{}, fmt.Errorf("dtree: non-exhaustive match: no arm matched")

	case Fail:
		return MatchResult{}, fmt.Errorf("dtree: non-exhaustive match: unreachable arm")

	default:
		return MatchResult{}, fmt.Errorf("dtree: unknown DecisionTree node type %T", tree)
	}
}

// ResolvePath navigates from root to the sub-value path addresses,
// stepping one PathInstruction at a time. Exposed standalone (not only
// through EvalDecisionTree) since path resolution has its own correctness
// properties worth testing in isolation (spec.md §8 round-trip laws).
func ResolvePath(root Value, path Path) (Value, error) {
	current := root
	for _, instr := range path {
		next, err := stepPath(current, instr)
		if err != nil {
			return Value{}, err
		}
		current = next
	}
	return current, nil
}

func stepPath(value Value, instr PathInstruction) (Value, error) {
	idx := instr.Index

	switch instr.Kind {
	case TagPayload:
		if value.Kind != VVariant {
			return Value{}, fmt.Errorf("dtree: cannot extract tag payload from value of kind %v", value.Kind)
		}
		if idx < 0 || idx >= len(value.Fields) {
			return Value{}, fmt.Errorf("dtree: variant payload index %d out of bounds (variant has %d fields)", idx, len(value.Fields))
		}
		return value.Fields[idx], nil

	case TupleIndex:
		if value.Kind != VTuple {
			return Value{}, fmt.Errorf("dtree: cannot extract tuple element from value of kind %v", value.Kind)
		}
		if idx < 0 || idx >= len(value.Elements) {
			return Value{}, fmt.Errorf("dtree: tuple index %d out of bounds (tuple has %d elements)", idx, len(value.Elements))
		}
		return value.Elements[idx], nil

	case StructField:
		if value.Kind != VStruct {
			return Value{}, fmt.Errorf("dtree: cannot extract struct field from value of kind %v", value.Kind)
		}
		if idx < 0 || idx >= len(value.Fields) {
			return Value{}, fmt.Errorf("dtree: struct field index %d out of bounds (struct has %d fields)", idx, len(value.Fields))
		}
		return value.Fields[idx], nil

	case ListElement:
		if value.Kind != VList {
			return Value{}, fmt.Errorf("dtree: cannot extract list element from value of kind %v", value.Kind)
		}
		if idx < 0 || idx >= len(value.Elements) {
			return Value{}, fmt.Errorf("dtree: list index %d out of bounds (list has %d elements)", idx, len(value.Elements))
		}
		return value.Elements[idx], nil

	default:
		return Value{}, fmt.Errorf("dtree: unknown PathInstruction kind %v", instr.Kind)
	}
}

func resolveBindings(scrutinee Value, bindings []Binding) ([]Value, error) {
	values := make([]Value, len(bindings))
	for i, b := range bindings {
		v, err := ResolvePath(scrutinee, b.Path)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

// testMatches reports whether value satisfies test, per TestKind.
func testMatches(value Value, test TestValue) bool {
	switch test.Kind {
	case TestTag:
		if value.Kind == VStruct {
			// A RecordPattern column's test (see patternTest): a struct
			// has a single shape, so it always matches.
			return true
		}
		return value.Kind == VVariant && value.TagName == test.TagName

	case TestInt:
		v, ok := value.AsInt()
		return ok && v == test.Int

	case TestStr:
		v, ok := value.AsStr()
		return ok && v == test.Str

	case TestBool:
		v, ok := value.AsBool()
		return ok && v == test.Bool

	case TestFloat:
		v, ok := value.AsFloat()
		return ok && floatBits(v) == test.FloatBits

	case TestIntRange:
		v, ok := value.AsInt()
		return ok && v >= test.Lo && v <= test.Hi

	case TestListLen:
		items, ok := value.AsList()
		if !ok {
			return false
		}
		if test.Exact {
			return len(items) == test.Len
		}
		return len(items) >= test.Len

	default:
		return false
	}
}

func floatBits(v float64) uint64 { return math.Float64bits(v) }
