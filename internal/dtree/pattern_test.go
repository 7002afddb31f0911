package dtree

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/orilang/oricore/internal/pool"
)

func TestIsIrrefutable(t *testing.T) {
	interner := pool.NewInterner()
	x := interner.Intern("x")

	require.True(t, isIrrefutable(VarPattern{Name: x}))
	require.True(t, isIrrefutable(WildcardPattern{}))
	require.False(t, isIrrefutable(LitPattern{LitKind: LitInt, Int: 1}))
	require.False(t, isIrrefutable(ConstructorPattern{Name: x}))
	require.False(t, isIrrefutable(ListPattern{}))
	require.False(t, isIrrefutable(RecordPattern{}))
}

func TestPatternKindMethods(t *testing.T) {
	require.Equal(t, PatVar, VarPattern{}.Kind())
	require.Equal(t, PatLit, LitPattern{}.Kind())
	require.Equal(t, PatConstructor, ConstructorPattern{}.Kind())
	require.Equal(t, PatList, ListPattern{}.Kind())
	require.Equal(t, PatRecord, RecordPattern{}.Kind())
	require.Equal(t, PatWildcard, WildcardPattern{}.Kind())
}

func TestTreeKindMethods(t *testing.T) {
	require.Equal(t, TreeLeaf, Leaf{}.Kind())
	require.Equal(t, TreeGuard, Guard{}.Kind())
	require.Equal(t, TreeSwitch, Switch{}.Kind())
	require.Equal(t, TreeFail, Fail{}.Kind())
}

func TestTreeKindString(t *testing.T) {
	require.Equal(t, "Leaf", TreeLeaf.String())
	require.Equal(t, "Guard", TreeGuard.String())
	require.Equal(t, "Switch", TreeSwitch.String())
	require.Equal(t, "Fail", TreeFail.String())
}

func TestTestKindString(t *testing.T) {
	require.Equal(t, "Bool", TestBool.String())
	require.Equal(t, "Tag", TestTag.String())
	require.Equal(t, "ListLen", TestListLen.String())
}
