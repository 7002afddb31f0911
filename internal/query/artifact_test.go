package query

import (
	"testing"

	"github.com/orilang/oricore/internal/arc"
	"github.com/orilang/oricore/internal/pool"
	"github.com/stretchr/testify/require"
)

func sampleFunction(p *pool.Pool, name pool.Name) arc.ArcFunction {
	return arc.ArcFunction{
		Name:       name,
		Params:     []arc.ArcParam{{Var: 0, Type: p.Str(), Ownership: arc.Borrowed}},
		ReturnType: p.Unit(),
		Blocks: []arc.ArcBlock{{
			ID: 0,
			Body: []arc.ArcInstr{
				arc.RcInc{Var: 0},
				arc.Call{Dst: 1, Callee: name, Args: []arc.ArcVarId{0}, ArgOwned: []arc.Ownership{arc.Owned}},
			},
			Terminator: arc.Return{Value: 1},
		}},
		Entry:    0,
		VarTypes: []pool.TypeIdx{p.Str(), p.Unit()},
	}
}

func TestArcFunctionSerializeRoundTrip(t *testing.T) {
	p := pool.NewPool()
	fn := sampleFunction(p, pool.Name(1))

	data, err := SerializeArcFunction(fn)
	require.NoError(t, err)

	got, err := DeserializeArcFunction(data)
	require.NoError(t, err)
	require.Equal(t, fn, got)
}

func TestArcFunctionSerializeIsDeterministic(t *testing.T) {
	p := pool.NewPool()
	fn := sampleFunction(p, pool.Name(1))

	a, err := SerializeArcFunction(fn)
	require.NoError(t, err)
	b, err := SerializeArcFunction(fn)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestContentKeyStableUnderStructuralEquality(t *testing.T) {
	p1 := pool.NewPool()
	p2 := pool.NewPool()
	fn1 := sampleFunction(p1, pool.Name(1))
	fn2 := sampleFunction(p2, pool.Name(1))

	k1, err := ContentKey(fn1)
	require.NoError(t, err)
	k2, err := ContentKey(fn2)
	require.NoError(t, err)
	require.Equal(t, k1, k2)
}

func TestContentKeyChangesWithContent(t *testing.T) {
	p := pool.NewPool()
	fn1 := sampleFunction(p, pool.Name(1))
	fn2 := sampleFunction(p, pool.Name(2))

	k1, err := ContentKey(fn1)
	require.NoError(t, err)
	k2, err := ContentKey(fn2)
	require.NoError(t, err)
	require.NotEqual(t, k1, k2)
}

func TestArtifactCachePutGetRoundTrip(t *testing.T) {
	cfg := CacheConfig{Dir: t.TempDir()}
	cache, err := OpenArtifactCache(cfg)
	require.NoError(t, err)
	defer cache.Close()

	p := pool.NewPool()
	fn := sampleFunction(p, pool.Name(1))
	key, err := ContentKey(fn)
	require.NoError(t, err)

	_, ok := cache.Get(key)
	require.False(t, ok)

	require.NoError(t, cache.Put(key, fn))

	got, ok := cache.Get(key)
	require.True(t, ok)
	require.Equal(t, fn, got)
}

func TestArtifactCacheGetOrComputeStoresOnMiss(t *testing.T) {
	cfg := CacheConfig{Dir: t.TempDir()}
	cache, err := OpenArtifactCache(cfg)
	require.NoError(t, err)
	defer cache.Close()

	p := pool.NewPool()
	fn := sampleFunction(p, pool.Name(1))

	out, err := cache.GetOrCompute(fn)
	require.NoError(t, err)
	require.Equal(t, fn, out)

	key, err := ContentKey(fn)
	require.NoError(t, err)
	_, ok := cache.Get(key)
	require.True(t, ok)
}

func TestArtifactCacheSessionIsUnique(t *testing.T) {
	cfg1 := CacheConfig{Dir: t.TempDir()}
	cfg2 := CacheConfig{Dir: t.TempDir()}
	c1, err := OpenArtifactCache(cfg1)
	require.NoError(t, err)
	defer c1.Close()
	c2, err := OpenArtifactCache(cfg2)
	require.NoError(t, err)
	defer c2.Close()

	require.NotEqual(t, c1.Session, c2.Session)
}
