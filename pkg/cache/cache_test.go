package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSetGet(t *testing.T) {
	c := NewInMemoryCache[string, int](0)
	c.Set("a", 1, 0)

	v, ok := c.Get("a")
	require.True(t, ok)
	require.Equal(t, 1, v)

	_, ok = c.Get("missing")
	require.False(t, ok)
}

func TestExpiry(t *testing.T) {
	c := NewInMemoryCache[string, int](0)
	c.Set("a", 1, 20*time.Millisecond)

	_, ok := c.Get("a")
	require.True(t, ok)

	time.Sleep(40 * time.Millisecond)
	_, ok = c.Get("a")
	require.False(t, ok)
}

func TestDefaultTTL(t *testing.T) {
	c := NewInMemoryCache[string, int](20 * time.Millisecond)
	c.Set("a", 1, 0)

	time.Sleep(40 * time.Millisecond)
	_, ok := c.Get("a")
	require.False(t, ok)
}

func TestZeroTTLNeverExpires(t *testing.T) {
	c := NewInMemoryCache[string, int](0)
	c.Set("a", 1, 0)

	time.Sleep(30 * time.Millisecond)
	v, ok := c.Get("a")
	require.True(t, ok)
	require.Equal(t, 1, v)
}

func TestKeysSkipExpired(t *testing.T) {
	c := NewInMemoryCache[string, int](0)
	c.Set("live", 1, 0)
	c.Set("dead", 2, 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	require.Equal(t, []string{"live"}, c.Keys())
}

func TestDeleteAndClear(t *testing.T) {
	c := NewInMemoryCache[string, int](0)
	c.Set("a", 1, 0)
	c.Set("b", 2, 0)
	require.Equal(t, 2, c.Size())

	c.Delete("a")
	_, ok := c.Get("a")
	require.False(t, ok)

	c.Clear()
	require.Equal(t, 0, c.Size())
}
