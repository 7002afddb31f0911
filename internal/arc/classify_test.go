package arc

import (
	"testing"

	"github.com/orilang/oricore/internal/pool"
	"github.com/stretchr/testify/require"
)

func TestClassifyScalarKinds(t *testing.T) {
	p := pool.NewPool()
	c := NewClassifier(p)

	require.Equal(t, ClassScalar, c.Classify(p.Int()))
	require.Equal(t, ClassScalar, c.Classify(p.Float()))
	require.Equal(t, ClassScalar, c.Classify(p.Bool()))
	require.Equal(t, ClassScalar, c.Classify(p.Char()))
	require.Equal(t, ClassScalar, c.Classify(p.Unit()))
}

func TestClassifyStrIsDefiniteRef(t *testing.T) {
	p := pool.NewPool()
	c := NewClassifier(p)
	require.Equal(t, ClassDefiniteRef, c.Classify(p.Str()))
}

func TestClassifyListOfScalarIsTrivial(t *testing.T) {
	p := pool.NewPool()
	c := NewClassifier(p)
	require.Equal(t, ClassTrivial, c.Classify(p.List(p.Int())))
}

func TestClassifyListOfStrIsCollection(t *testing.T) {
	p := pool.NewPool()
	c := NewClassifier(p)
	require.Equal(t, ClassCollection, c.Classify(p.List(p.Str())))
}

func TestClassifyMapBothScalarIsTrivial(t *testing.T) {
	p := pool.NewPool()
	c := NewClassifier(p)
	require.Equal(t, ClassTrivial, c.Classify(p.Map(p.Int(), p.Float())))
}

func TestClassifyMapWithRefSideIsMap(t *testing.T) {
	p := pool.NewPool()
	c := NewClassifier(p)
	require.Equal(t, ClassMap, c.Classify(p.Map(p.Str(), p.Int())))
}

func TestClassifyTupleAllScalarIsScalar(t *testing.T) {
	p := pool.NewPool()
	c := NewClassifier(p)
	require.Equal(t, ClassScalar, c.Classify(p.Tuple(p.Int(), p.Float(), p.Bool())))
}

func TestClassifyTupleWithRefElementIsFields(t *testing.T) {
	p := pool.NewPool()
	c := NewClassifier(p)
	require.Equal(t, ClassFields, c.Classify(p.Tuple(p.Int(), p.Str())))
}

func TestClassifyEnumAllUnitIsScalar(t *testing.T) {
	p := pool.NewPool()
	c := NewClassifier(p)
	name := pool.Name(1)
	v1 := pool.Name(2)
	v2 := pool.Name(3)
	e := p.Enum(name, pool.Variant{Name: v1}, pool.Variant{Name: v2})
	require.Equal(t, ClassScalar, c.Classify(e))
}

func TestClassifyEnumWithRefVariantIsEnum(t *testing.T) {
	p := pool.NewPool()
	c := NewClassifier(p)
	name := pool.Name(1)
	e := p.Enum(name,
		pool.Variant{Name: pool.Name(2), Fields: []pool.Field{{Type: p.Int()}}},
		pool.Variant{Name: pool.Name(3), Fields: []pool.Field{{Type: p.Str()}}},
	)
	require.Equal(t, ClassEnum, c.Classify(e))
}

func TestClassifyOptionOfScalarIsScalar(t *testing.T) {
	p := pool.NewPool()
	c := NewClassifier(p)
	require.Equal(t, ClassScalar, c.Classify(p.Option(p.Int())))
}

func TestClassifyOptionOfStrIsEnum(t *testing.T) {
	p := pool.NewPool()
	c := NewClassifier(p)
	require.Equal(t, ClassEnum, c.Classify(p.Option(p.Str())))
}

func TestClassifyResultOfScalarsIsScalar(t *testing.T) {
	p := pool.NewPool()
	c := NewClassifier(p)
	require.Equal(t, ClassScalar, c.Classify(p.Result(p.Int(), p.Float())))
}

func TestClassifyResultWithRefSideIsEnum(t *testing.T) {
	p := pool.NewPool()
	c := NewClassifier(p)
	require.Equal(t, ClassEnum, c.Classify(p.Result(p.Str(), p.Int())))
}

func TestClassifyFunctionAndChannelAreTrivial(t *testing.T) {
	p := pool.NewPool()
	c := NewClassifier(p)
	require.Equal(t, ClassTrivial, c.Classify(p.Function([]pool.TypeIdx{p.Int()}, p.Str())))
	require.Equal(t, ClassTrivial, c.Classify(p.Channel(p.Int())))
}

// Self-referential named type: struct Node { next: Option<Node> }. The
// cycle guard must terminate and the enclosing classification must still
// see the recursive field as non-scalar.
func TestClassifySelfReferentialTypeTerminates(t *testing.T) {
	p := pool.NewPool()
	c := NewClassifier(p)

	nodeName := pool.Name(42)
	named := p.Named(nodeName)
	opt := p.Option(named)
	structIdx := p.Struct(nodeName, pool.Field{Name: pool.Name(43), Type: opt})
	p.SetResolution(named, structIdx)

	require.NotPanics(t, func() {
		class := c.Classify(named)
		require.Equal(t, ClassFields, class)
	})
}

func TestRefBearingFieldsReportsOnlyNonScalar(t *testing.T) {
	p := pool.NewPool()
	c := NewClassifier(p)
	s := p.Struct(pool.Name(1),
		pool.Field{Name: pool.Name(2), Type: p.Int()},
		pool.Field{Name: pool.Name(3), Type: p.Str()},
	)
	require.Equal(t, []int{1}, c.RefBearingFields(s))
}
