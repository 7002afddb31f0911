package query

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type stubParsed struct {
	tokenCount int
}

type stubTyped struct {
	ok           bool
	sawUntracked bool
}

func newStubEngine(parseCalls, typeCalls *int) *Engine[stubParsed, stubTyped] {
	parse := func(toks TokenList) (stubParsed, error) {
		*parseCalls++
		return stubParsed{tokenCount: len(toks)}, nil
	}
	typeCheck := func(p stubParsed, guard CacheGuard) (stubTyped, error) {
		*typeCalls++
		return stubTyped{ok: true, sawUntracked: guard == CacheGuardUntracked()}, nil
	}
	return NewEngine(parse, typeCheck)
}

func TestEngineFirstRunParsesAndTypes(t *testing.T) {
	var parseCalls, typeCalls int
	e := newStubEngine(&parseCalls, &typeCalls)

	changed := e.SetSource("a.ori", "let x = 1")
	require.True(t, changed)

	p, err := e.Parsed("a.ori")
	require.NoError(t, err)
	require.Equal(t, 1, parseCalls)
	require.Greater(t, p.tokenCount, 0)

	ty, err := e.Typed("a.ori")
	require.NoError(t, err)
	require.Equal(t, 1, typeCalls)
	require.True(t, ty.ok)
}

func TestEngineMemoizesParsedAndTyped(t *testing.T) {
	var parseCalls, typeCalls int
	e := newStubEngine(&parseCalls, &typeCalls)
	e.SetSource("a.ori", "let x = 1")

	_, _ = e.Typed("a.ori")
	_, _ = e.Typed("a.ori")
	_, _ = e.Parsed("a.ori")

	require.Equal(t, 1, parseCalls)
	require.Equal(t, 1, typeCalls)
}

func TestEngineWhitespaceOnlyEditIsCutoff(t *testing.T) {
	var parseCalls, typeCalls int
	e := newStubEngine(&parseCalls, &typeCalls)

	require.True(t, e.SetSource("a.ori", "let x = 1"))
	_, _ = e.Typed("a.ori")

	changed := e.SetSource("a.ori", "let   x = 1")
	require.False(t, changed)

	// Memoized results survive the cutoff untouched.
	_, _ = e.Typed("a.ori")
	require.Equal(t, 1, parseCalls)
	require.Equal(t, 1, typeCalls)
}

func TestEngineContentEditInvalidatesAndRetypes(t *testing.T) {
	var parseCalls, typeCalls int
	e := newStubEngine(&parseCalls, &typeCalls)

	e.SetSource("a.ori", "let x = 1")
	_, _ = e.Typed("a.ori")

	changed := e.SetSource("a.ori", "let x = 2")
	require.True(t, changed)

	_, _ = e.Typed("a.ori")
	require.Equal(t, 2, parseCalls)
	require.Equal(t, 2, typeCalls)
}

func TestEngineFirstTypedSeesUntrackedGuard(t *testing.T) {
	var parseCalls, typeCalls int
	e := newStubEngine(&parseCalls, &typeCalls)
	e.SetSource("a.ori", "let x = 1")

	ty, err := e.Typed("a.ori")
	require.NoError(t, err)
	require.True(t, ty.sawUntracked)
}

func TestEngineReTypedAfterEditInvalidatesSideCachesFirst(t *testing.T) {
	var parseCalls, typeCalls int
	e := newStubEngine(&parseCalls, &typeCalls)
	e.SetSource("a.ori", "let x = 1")
	_, _ = e.Typed("a.ori")

	e.Caches.Imports.Set("a.ori", []string{"dep"})
	e.SetSource("a.ori", "let x = 2")

	ty, err := e.Typed("a.ori")
	require.NoError(t, err)
	require.False(t, ty.sawUntracked)

	_, ok := e.Caches.Imports.Get("a.ori")
	require.False(t, ok, "side cache entry should have been invalidated before re-typing")
}

func TestEngineParsedWithoutSourceErrors(t *testing.T) {
	var parseCalls, typeCalls int
	e := newStubEngine(&parseCalls, &typeCalls)
	_, err := e.Parsed("missing.ori")
	require.Error(t, err)
}

func TestEngineForgetClearsMemoizedStages(t *testing.T) {
	var parseCalls, typeCalls int
	e := newStubEngine(&parseCalls, &typeCalls)
	e.SetSource("a.ori", "let x = 1")
	_, _ = e.Typed("a.ori")

	e.Forget("a.ori")
	_, ok := e.Tokens("a.ori")
	require.False(t, ok)

	_, err := e.Parsed("a.ori")
	require.Error(t, err)
}
