package lru

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_Eviction(t *testing.T) {
	c := New[string, int](2)
	c.Set("a", 1)
	c.Set("b", 2)
	_, ok := c.Get("a")
	require.True(t, ok)
	c.Set("c", 3)

	_, ok = c.Get("b")
	assert.False(t, ok, "least recently used entry should be evicted")
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, 2, c.Len())

	c.Purge()
	assert.Equal(t, 0, c.Len())
	_, ok = c.Get("a")
	assert.False(t, ok)
}

func TestCache_GetOrCreate(t *testing.T) {
	c := New[int, string](0)
	calls := 0
	create := func() (string, error) {
		calls++
		return "v", nil
	}
	v, err := c.GetOrCreate(1, create)
	require.NoError(t, err)
	assert.Equal(t, "v", v)
	_, _ = c.GetOrCreate(1, create)
	assert.Equal(t, 1, calls)

	_, err = c.GetOrCreate(2, func() (string, error) { return "", errors.New("boom") })
	require.Error(t, err)
	assert.Equal(t, 1, c.Len())
}
