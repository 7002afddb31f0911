package query

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCacheGetSetInvalidate(t *testing.T) {
	c := NewCache[string, int]()
	_, ok := c.Get("a")
	require.False(t, ok)

	c.Set("a", 1)
	v, ok := c.Get("a")
	require.True(t, ok)
	require.Equal(t, 1, v)

	c.Invalidate("a")
	_, ok = c.Get("a")
	require.False(t, ok)
}

func TestCacheLen(t *testing.T) {
	c := NewCache[string, int]()
	c.Set("a", 1)
	c.Set("b", 2)
	require.Equal(t, 2, c.Len())
	c.Invalidate("a")
	require.Equal(t, 1, c.Len())
}

func TestCacheGuardUntrackedIsZeroValue(t *testing.T) {
	require.Equal(t, CacheGuard{}, CacheGuardUntracked())
}

func TestSideCachesInvalidateFileCachesClearsAllThree(t *testing.T) {
	s := NewSideCaches()
	s.Pool.Set("f.ori", nil)
	s.Canon.Set("f.ori", nil)
	s.Imports.Set("f.ori", []string{"a"})

	guard := s.invalidateFileCaches("f.ori")
	require.Equal(t, CacheGuard{}, guard)

	_, ok := s.Pool.Get("f.ori")
	require.False(t, ok)
	_, ok = s.Canon.Get("f.ori")
	require.False(t, ok)
	_, ok = s.Imports.Get("f.ori")
	require.False(t, ok)
}

func TestSideCachesInvalidateFileCachesLeavesOtherFilesAlone(t *testing.T) {
	s := NewSideCaches()
	s.Imports.Set("a.ori", []string{"x"})
	s.Imports.Set("b.ori", []string{"y"})

	s.invalidateFileCaches("a.ori")

	_, ok := s.Imports.Get("a.ori")
	require.False(t, ok)
	v, ok := s.Imports.Get("b.ori")
	require.True(t, ok)
	require.Equal(t, []string{"y"}, v)
}
