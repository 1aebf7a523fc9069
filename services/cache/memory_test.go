package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryCacheSetGetDelete(t *testing.T) {
	c := NewMemoryCache(100, 10)

	err := c.Set("test_key", []byte("test_value"), time.Minute)
	assert.NoError(t, err)

	value, err := c.Get("test_key")
	assert.NoError(t, err)
	assert.Equal(t, "test_value", string(value))

	err = c.Delete("test_key")
	assert.NoError(t, err)

	_, err = c.Get("test_key")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCacheTTL(t *testing.T) {
	c := NewMemoryCache(100, 10)

	current := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	c.SetClock(func() time.Time { return current })

	assert.NoError(t, c.Set("key", []byte("value"), time.Hour))

	// Within the TTL window the entry is a hit
	current = current.Add(59 * time.Minute)
	value, err := c.Get("key")
	assert.NoError(t, err)
	assert.Equal(t, "value", string(value))

	// After the TTL window the entry is a miss
	current = current.Add(2 * time.Minute)
	_, err = c.Get("key")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCacheEviction(t *testing.T) {
	c := NewMemoryCache(100, 10)

	current := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	c.SetClock(func() time.Time { return current })

	// Insert 101 distinct keys, each one second apart so insertion
	// order is unambiguous
	for i := 0; i < 101; i++ {
		current = current.Add(time.Second)
		assert.NoError(t, c.Set(fmt.Sprintf("key_%03d", i), []byte("v"), time.Hour))
	}

	// The 101st insert pushes past the ceiling and evicts the 10 oldest
	assert.Equal(t, 91, c.Len())

	for i := 0; i < 10; i++ {
		_, err := c.Get(fmt.Sprintf("key_%03d", i))
		assert.ErrorIs(t, err, ErrCacheMiss, "oldest entries should be evicted")
	}
	for i := 10; i < 101; i++ {
		_, err := c.Get(fmt.Sprintf("key_%03d", i))
		assert.NoError(t, err, "newer entries should survive eviction")
	}
}

func TestMemoryCacheConcurrentAccess(t *testing.T) {
	c := NewMemoryCache(1000, 10)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("key_%d", i)
			assert.NoError(t, c.Set(key, []byte("value"), time.Minute))
			_, err := c.Get(key)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, c.Len())
}
