package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_InsertAndRetrieve(t *testing.T) {
	c := NewCache[string](10)

	require.NoError(t, c.Insert("a", "value-a", 2))
	require.NoError(t, c.Insert("b", "value-b", 3))
	assert.Equal(t, 5, c.GetWeight())
	assert.Equal(t, 10, c.GetBudget())

	actual, ok := c.Retrieve("a")
	require.True(t, ok)
	assert.Equal(t, "value-a", actual)

	_, ok = c.Retrieve("missing")
	assert.False(t, ok)

	assert.Equal(t, ErrExists, c.Insert("a", "other", 1))
	actual, _ = c.Retrieve("a")
	assert.Equal(t, "value-a", actual)
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewCache[int](3)
	c.SetVerbose(true)

	require.NoError(t, c.Insert("a", 1, 1))
	require.NoError(t, c.Insert("b", 2, 1))
	require.NoError(t, c.Insert("c", 3, 1))

	// a becomes the most recently used, leaving b to be evicted
	_, ok := c.Retrieve("a")
	require.True(t, ok)

	require.NoError(t, c.Insert("d", 4, 1))
	assert.Equal(t, 3, c.GetWeight())

	_, ok = c.Retrieve("b")
	assert.False(t, ok)
	for _, key := range []string{"a", "c", "d"} {
		_, ok = c.Retrieve(key)
		assert.True(t, ok, key)
	}

	// A heavy entry evicts everything older
	require.NoError(t, c.Insert("e", 5, 3))
	assert.Equal(t, 3, c.GetWeight())
	for _, key := range []string{"a", "c", "d"} {
		_, ok = c.Retrieve(key)
		assert.False(t, ok, key)
	}
}

func TestCache_Clear(t *testing.T) {
	c := NewCache[int](10)
	require.NoError(t, c.Insert("a", 1, 4))
	c.Clear()

	assert.Equal(t, 0, c.GetWeight())
	_, ok := c.Retrieve("a")
	assert.False(t, ok)
	assert.NoError(t, c.Insert("a", 1, 4))
}

func TestCache_Concurrent(t *testing.T) {
	c := NewCache[int](50)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("%d-%d", worker, j)
				assert.NoError(t, c.Insert(key, j, 1))
				c.Retrieve(key)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, c.GetWeight())
}
