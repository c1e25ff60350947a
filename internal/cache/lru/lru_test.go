package lru

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCache_Set_And_Get(t *testing.T) {
	cache := New(10, time.Hour)

	cache.Set("key", "value")

	val, found := cache.Get("key")
	assert.True(t, found)
	assert.Equal(t, "value", val)
}

func TestCache_Get_NotFound(t *testing.T) {
	cache := New(10, time.Hour)

	val, found := cache.Get("missing")
	assert.False(t, found)
	assert.Nil(t, val)
}

func TestCache_Set_NilValue(t *testing.T) {
	cache := New(10, time.Hour)

	cache.Set("key", nil)

	val, found := cache.Get("key")
	assert.True(t, found)
	assert.Nil(t, val)
}

func TestCache_EvictionBound(t *testing.T) {
	cache := New(3, time.Hour)

	for i := 0; i < 10; i++ {
		cache.Set(fmt.Sprintf("key-%d", i), i)
	}

	assert.LessOrEqual(t, cache.Len(), 3)

	// The most recently inserted keys survive
	for i := 7; i < 10; i++ {
		_, found := cache.Get(fmt.Sprintf("key-%d", i))
		assert.True(t, found)
	}
}

func TestCache_Get_PromotesRecency(t *testing.T) {
	cache := New(2, time.Hour)

	cache.Set("a", 1)
	cache.Set("b", 2)

	// Touch "a" so "b" becomes the eviction candidate
	_, found := cache.Get("a")
	assert.True(t, found)

	cache.Set("c", 3)

	_, found = cache.Get("a")
	assert.True(t, found)
	_, found = cache.Get("b")
	assert.False(t, found)
}

func TestCache_Expiry_LazyOnAccess(t *testing.T) {
	cache := New(10, time.Minute)

	current := time.Now()
	cache.now = func() time.Time { return current }

	cache.Set("key", "value")

	// Still fresh just before the deadline
	current = current.Add(59 * time.Second)
	_, found := cache.Get("key")
	assert.True(t, found)

	// Expired entry is a miss and is removed
	current = current.Add(2 * time.Second)
	_, found = cache.Get("key")
	assert.False(t, found)
	assert.Equal(t, 0, cache.Len())
}

func TestCache_Set_Overwrite_ResetsAge(t *testing.T) {
	cache := New(10, time.Minute)

	current := time.Now()
	cache.now = func() time.Time { return current }

	cache.Set("key", "old")
	current = current.Add(50 * time.Second)
	cache.Set("key", "new")

	current = current.Add(30 * time.Second)
	val, found := cache.Get("key")
	assert.True(t, found)
	assert.Equal(t, "new", val)
}

func TestCache_Resize_Shrink_EvictsToFit(t *testing.T) {
	cache := New(5, time.Hour)

	for i := 0; i < 5; i++ {
		cache.Set(fmt.Sprintf("key-%d", i), i)
	}

	cache.Resize(2, 0)

	assert.Equal(t, 2, cache.Len())
	assert.Equal(t, 2, cache.MaxSize())
	assert.Equal(t, time.Hour, cache.MaxAge())

	// The two most recently used entries survive
	_, found := cache.Get("key-4")
	assert.True(t, found)
	_, found = cache.Get("key-3")
	assert.True(t, found)
}

func TestCache_Resize_Grow_KeepsEntries(t *testing.T) {
	cache := New(2, time.Hour)

	cache.Set("a", 1)
	cache.Set("b", 2)

	cache.Resize(10, 0)

	assert.Equal(t, 2, cache.Len())
	_, found := cache.Get("a")
	assert.True(t, found)
	_, found = cache.Get("b")
	assert.True(t, found)
}

func TestCache_Purge(t *testing.T) {
	cache := New(10, time.Hour)

	cache.Set("a", 1)
	cache.Set("b", 2)
	cache.Purge()

	assert.Equal(t, 0, cache.Len())
	_, found := cache.Get("a")
	assert.False(t, found)
}
