package dtree

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/orilang/oricore/internal/canon"
	"github.com/orilang/oricore/internal/pool"
)

func TestCompileEmptyMatrixIsFail(t *testing.T) {
	tree := CompileMatchArms(nil)
	require.Equal(t, TreeFail, tree.Kind())
}

func TestCompileSingleWildcardIsLeaf(t *testing.T) {
	tree := CompileMatchArms([]MatchArm{
		{Pattern: WildcardPattern{}, Guard: canon.InvalidCanId},
	})
	leaf, ok := tree.(Leaf)
	require.True(t, ok)
	require.Equal(t, 0, leaf.ArmIndex)
}

func TestCompileSingleVarBindsRoot(t *testing.T) {
	interner := pool.NewInterner()
	x := interner.Intern("x")
	tree := CompileMatchArms([]MatchArm{
		{Pattern: VarPattern{Name: x}, Guard: canon.InvalidCanId},
	})

	r, err := EvalDecisionTree(tree, IntValue(9), noGuard)
	require.NoError(t, err)
	require.Equal(t, 0, r.ArmIndex)
	require.Len(t, r.Values, 1)
	n, ok := r.Values[0].AsInt()
	require.True(t, ok)
	require.EqualValues(t, 9, n)
}

func TestCompileBoolMatch(t *testing.T) {
	arms := []MatchArm{
		{Pattern: LitPattern{LitKind: LitBool, Bool: true}, Guard: canon.InvalidCanId},
		{Pattern: LitPattern{LitKind: LitBool, Bool: false}, Guard: canon.InvalidCanId},
	}
	tree := CompileMatchArms(arms)
	require.Equal(t, TreeSwitch, tree.Kind())

	r1, err := EvalDecisionTree(tree, BoolValue(true), noGuard)
	require.NoError(t, err)
	require.Equal(t, 0, r1.ArmIndex)

	r2, err := EvalDecisionTree(tree, BoolValue(false), noGuard)
	require.NoError(t, err)
	require.Equal(t, 1, r2.ArmIndex)
}

func TestCompileLiteralWithWildcardFallback(t *testing.T) {
	arms := []MatchArm{
		{Pattern: LitPattern{LitKind: LitInt, Int: 1}, Guard: canon.InvalidCanId},
		{Pattern: LitPattern{LitKind: LitInt, Int: 2}, Guard: canon.InvalidCanId},
		{Pattern: WildcardPattern{}, Guard: canon.InvalidCanId},
	}
	tree := CompileMatchArms(arms)

	r1, err := EvalDecisionTree(tree, IntValue(1), noGuard)
	require.NoError(t, err)
	require.Equal(t, 0, r1.ArmIndex)

	r2, err := EvalDecisionTree(tree, IntValue(2), noGuard)
	require.NoError(t, err)
	require.Equal(t, 1, r2.ArmIndex)

	r3, err := EvalDecisionTree(tree, IntValue(77), noGuard)
	require.NoError(t, err)
	require.Equal(t, 2, r3.ArmIndex)
}

func TestCompileOptionMatchBindsPayload(t *testing.T) {
	interner := pool.NewInterner()
	v := interner.Intern("v")
	some := interner.Intern("Some")
	none := interner.Intern("None")

	arms := []MatchArm{
		{
			Pattern: ConstructorPattern{Name: some, Args: []MatchPattern{VarPattern{Name: v}}},
			Guard:   canon.InvalidCanId,
		},
		{Pattern: ConstructorPattern{Name: none}, Guard: canon.InvalidCanId},
	}
	tree := CompileMatchArms(arms)

	r1, err := EvalDecisionTree(tree, SomeValue(some, IntValue(42)), noGuard)
	require.NoError(t, err)
	require.Equal(t, 0, r1.ArmIndex)
	require.Len(t, r1.Values, 1)
	n, ok := r1.Values[0].AsInt()
	require.True(t, ok)
	require.EqualValues(t, 42, n)

	r2, err := EvalDecisionTree(tree, NoneValue(none), noGuard)
	require.NoError(t, err)
	require.Equal(t, 1, r2.ArmIndex)
}

func TestCompileGuardFallsThroughToNextArm(t *testing.T) {
	interner := pool.NewInterner()
	x := interner.Intern("x")
	guardExpr := canon.CanId(5)

	arms := []MatchArm{
		{Pattern: VarPattern{Name: x}, Guard: guardExpr},
		{Pattern: WildcardPattern{}, Guard: canon.InvalidCanId},
	}
	tree := CompileMatchArms(arms)
	require.Equal(t, TreeGuard, tree.Kind())

	passGuard := func(expr canon.CanId, bindings []Binding, values []Value) (bool, error) {
		require.Equal(t, guardExpr, expr)
		n, _ := values[0].AsInt()
		return n > 0, nil
	}

	r1, err := EvalDecisionTree(tree, IntValue(5), passGuard)
	require.NoError(t, err)
	require.Equal(t, 0, r1.ArmIndex)

	r2, err := EvalDecisionTree(tree, IntValue(-1), passGuard)
	require.NoError(t, err)
	require.Equal(t, 1, r2.ArmIndex)
}

func TestCompileListPatternDispatchesOnLength(t *testing.T) {
	interner := pool.NewInterner()
	head := interner.Intern("head")

	arms := []MatchArm{
		{Pattern: ListPattern{Elements: nil}, Guard: canon.InvalidCanId},
		{
			Pattern: ListPattern{Elements: []MatchPattern{VarPattern{Name: head}}},
			Guard:   canon.InvalidCanId,
		},
		{Pattern: WildcardPattern{}, Guard: canon.InvalidCanId},
	}
	tree := CompileMatchArms(arms)

	r1, err := EvalDecisionTree(tree, ListValue(), noGuard)
	require.NoError(t, err)
	require.Equal(t, 0, r1.ArmIndex)

	r2, err := EvalDecisionTree(tree, ListValue(IntValue(1)), noGuard)
	require.NoError(t, err)
	require.Equal(t, 1, r2.ArmIndex)
	n, ok := r2.Values[0].AsInt()
	require.True(t, ok)
	require.EqualValues(t, 1, n)

	r3, err := EvalDecisionTree(tree, ListValue(IntValue(1), IntValue(2)), noGuard)
	require.NoError(t, err)
	require.Equal(t, 2, r3.ArmIndex)
}

func TestCompileRecordPatternBindsFields(t *testing.T) {
	interner := pool.NewInterner()
	fx := interner.Intern("x")
	fy := interner.Intern("y")
	bx := interner.Intern("bx")
	by := interner.Intern("by")

	arms := []MatchArm{
		{
			Pattern: RecordPattern{Fields: map[pool.Name]MatchPattern{
				fx: VarPattern{Name: bx},
				fy: VarPattern{Name: by},
			}},
			Guard: canon.InvalidCanId,
		},
	}
	tree := CompileMatchArms(arms)

	root := StructValue(IntValue(10), IntValue(20))
	r, err := EvalDecisionTree(tree, root, noGuard)
	require.NoError(t, err)
	require.Equal(t, 0, r.ArmIndex)
	require.Len(t, r.Values, 2)
}

func TestCompileNestedConstructorSelectsDeterministicColumn(t *testing.T) {
	interner := pool.NewInterner()
	pair := interner.Intern("Pair")

	// Two columns after specializing Pair's two args; neither row's first
	// sub-column is all-wildcard, so selectColumn must deterministically
	// pick one every time this compiles, regardless of map iteration order
	// inside buildSwitch.
	arms := []MatchArm{
		{
			Pattern: ConstructorPattern{Name: pair, Args: []MatchPattern{
				LitPattern{LitKind: LitInt, Int: 1},
				LitPattern{LitKind: LitInt, Int: 2},
			}},
			Guard: canon.InvalidCanId,
		},
		{
			Pattern: ConstructorPattern{Name: pair, Args: []MatchPattern{
				LitPattern{LitKind: LitInt, Int: 3},
				LitPattern{LitKind: LitInt, Int: 4},
			}},
			Guard: canon.InvalidCanId,
		},
		{Pattern: WildcardPattern{}, Guard: canon.InvalidCanId},
	}

	var trees []DecisionTree
	for i := 0; i < 5; i++ {
		trees = append(trees, CompileMatchArms(arms))
	}
	for i := 1; i < len(trees); i++ {
		if diff := cmp.Diff(trees[0], trees[i]); diff != "" {
			t.Fatalf("compilation is nondeterministic (-first +run%d):\n%s", i, diff)
		}
	}

	r1, err := EvalDecisionTree(trees[0], VariantValue(pair, IntValue(1), IntValue(2)), noGuard)
	require.NoError(t, err)
	require.Equal(t, 0, r1.ArmIndex)

	r2, err := EvalDecisionTree(trees[0], VariantValue(pair, IntValue(3), IntValue(4)), noGuard)
	require.NoError(t, err)
	require.Equal(t, 1, r2.ArmIndex)

	r3, err := EvalDecisionTree(trees[0], VariantValue(pair, IntValue(9), IntValue(9)), noGuard)
	require.NoError(t, err)
	require.Equal(t, 2, r3.ArmIndex)
}

func TestCompileNonExhaustiveReachesFail(t *testing.T) {
	arms := []MatchArm{
		{Pattern: LitPattern{LitKind: LitInt, Int: 1}, Guard: canon.InvalidCanId},
	}
	tree := CompileMatchArms(arms)

	_, err := EvalDecisionTree(tree, IntValue(2), noGuard)
	require.Error(t, err)
}
