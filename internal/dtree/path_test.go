package dtree

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/orilang/oricore/internal/pool"
)

func TestPathExtendDoesNotMutateReceiver(t *testing.T) {
	base := Path{{Kind: TagPayload, Index: 0}}
	left := base.extend(PathInstruction{Kind: TupleIndex, Index: 1})
	right := base.extend(PathInstruction{Kind: TupleIndex, Index: 2})

	require.Len(t, base, 1)
	require.Equal(t, 1, left[1].Index)
	require.Equal(t, 2, right[1].Index)
	require.NotEqual(t, left, right)
}

func TestResolveEmptyPathReturnsRoot(t *testing.T) {
	root := IntValue(7)
	v, err := ResolvePath(root, nil)
	require.NoError(t, err)
	require.Equal(t, root, v)
}

func TestResolveTupleIndex(t *testing.T) {
	root := TupleValue(IntValue(1), IntValue(2), IntValue(3))
	v, err := ResolvePath(root, Path{{Kind: TupleIndex, Index: 1}})
	require.NoError(t, err)
	n, ok := v.AsInt()
	require.True(t, ok)
	require.EqualValues(t, 2, n)
}

func TestResolveNestedTuple(t *testing.T) {
	inner := TupleValue(IntValue(10), IntValue(20))
	root := TupleValue(inner, IntValue(99))
	v, err := ResolvePath(root, Path{
		{Kind: TupleIndex, Index: 0},
		{Kind: TupleIndex, Index: 1},
	})
	require.NoError(t, err)
	n, ok := v.AsInt()
	require.True(t, ok)
	require.EqualValues(t, 20, n)
}

func TestResolveListElement(t *testing.T) {
	root := ListValue(IntValue(4), IntValue(5), IntValue(6))
	v, err := ResolvePath(root, Path{{Kind: ListElement, Index: 2}})
	require.NoError(t, err)
	n, ok := v.AsInt()
	require.True(t, ok)
	require.EqualValues(t, 6, n)
}

func TestResolveVariantPayload(t *testing.T) {
	interner := pool.NewInterner()
	some := interner.Intern("Some")
	root := SomeValue(some, IntValue(42))
	v, err := ResolvePath(root, Path{{Kind: TagPayload, Index: 0}})
	require.NoError(t, err)
	n, ok := v.AsInt()
	require.True(t, ok)
	require.EqualValues(t, 42, n)
}

func TestResolveStructField(t *testing.T) {
	root := StructValue(IntValue(1), StrValue(0), BoolValue(true))
	v, err := ResolvePath(root, Path{{Kind: StructField, Index: 2}})
	require.NoError(t, err)
	b, ok := v.AsBool()
	require.True(t, ok)
	require.True(t, b)
}

func TestResolveOutOfBoundsErrors(t *testing.T) {
	root := TupleValue(IntValue(1))
	_, err := ResolvePath(root, Path{{Kind: TupleIndex, Index: 5}})
	require.Error(t, err)
}

func TestResolveWrongKindErrors(t *testing.T) {
	root := IntValue(1)
	_, err := ResolvePath(root, Path{{Kind: TupleIndex, Index: 0}})
	require.Error(t, err)
}
