package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"repomd-proxy/internal/interfaces"
)

func TestNewManager_BuiltinNamespaces(t *testing.T) {
	m := NewManager(zap.NewNop())

	stats := m.Stats()
	for _, name := range BuiltinNamespaces {
		ns, ok := stats[name]
		assert.True(t, ok, "namespace %q should exist at start", name)
		assert.Equal(t, 0, ns.Size)
		assert.Equal(t, DefaultMaxSize, ns.MaxSize)
		assert.Equal(t, DefaultMaxAge, ns.MaxAge)
	}
}

func TestManager_NamespaceIsolation(t *testing.T) {
	m := NewManager(zap.NewNop())

	m.Set("key", "v1", "posts")
	m.Set("key", "v2", "media")

	val, found := m.Get("key", "posts")
	assert.True(t, found)
	assert.Equal(t, "v1", val)

	val, found = m.Get("key", "media")
	assert.True(t, found)
	assert.Equal(t, "v2", val)
}

func TestManager_EmptyNamespace_IsDefault(t *testing.T) {
	m := NewManager(zap.NewNop())

	m.Set("key", "value", "")

	val, found := m.Get("key", DefaultNamespace)
	assert.True(t, found)
	assert.Equal(t, "value", val)
}

func TestManager_Set_UnknownNamespace_CreatedLazily(t *testing.T) {
	m := NewManager(zap.NewNop())

	m.Set("key", "value", "custom")

	val, found := m.Get("key", "custom")
	assert.True(t, found)
	assert.Equal(t, "value", val)

	ns, ok := m.Stats()["custom"]
	assert.True(t, ok)
	assert.Equal(t, DefaultMaxSize, ns.MaxSize)
}

func TestManager_Clear_ScopedToNamespace(t *testing.T) {
	m := NewManager(zap.NewNop())

	m.Set("a", 1, "posts")
	m.Set("b", 2, "media")

	m.Clear("posts")

	_, found := m.Get("a", "posts")
	assert.False(t, found)

	val, found := m.Get("b", "media")
	assert.True(t, found)
	assert.Equal(t, 2, val)
}

func TestManager_Clear_UnknownNamespace_NoOp(t *testing.T) {
	m := NewManager(zap.NewNop())

	assert.NotPanics(t, func() {
		m.Clear("does-not-exist")
	})
}

func TestManager_ClearAll(t *testing.T) {
	m := NewManager(zap.NewNop())

	m.Set("a", 1, "posts")
	m.Set("b", 2, "urls")
	m.Set("c", 3, "custom")

	m.ClearAll()

	for name, ns := range m.Stats() {
		assert.Equal(t, 0, ns.Size, "namespace %q should be empty", name)
	}
}

func TestManager_Configure_CreatesNamespace(t *testing.T) {
	m := NewManager(zap.NewNop())

	m.Configure("tiny", interfaces.NamespaceOptions{MaxSize: 2, MaxAge: time.Minute})

	ns, ok := m.Stats()["tiny"]
	assert.True(t, ok)
	assert.Equal(t, 2, ns.MaxSize)
	assert.Equal(t, time.Minute, ns.MaxAge)
}

func TestManager_Configure_Resize_KeepsEntries(t *testing.T) {
	m := NewManager(zap.NewNop())

	m.Set("a", 1, "posts")
	m.Set("b", 2, "posts")

	m.Configure("posts", interfaces.NamespaceOptions{MaxSize: 500})

	val, found := m.Get("a", "posts")
	assert.True(t, found)
	assert.Equal(t, 1, val)
	assert.Equal(t, 500, m.Stats()["posts"].MaxSize)
}

func TestManager_Configure_Shrink_EvictsLRU(t *testing.T) {
	m := NewManager(zap.NewNop())

	for i := 0; i < 5; i++ {
		m.Set(fmt.Sprintf("key-%d", i), i, "posts")
	}

	m.Configure("posts", interfaces.NamespaceOptions{MaxSize: 2})

	assert.Equal(t, 2, m.Stats()["posts"].Size)
	_, found := m.Get("key-4", "posts")
	assert.True(t, found)
	_, found = m.Get("key-0", "posts")
	assert.False(t, found)
}

func TestManager_EvictionBound(t *testing.T) {
	m := NewManager(zap.NewNop())
	m.Configure("bounded", interfaces.NamespaceOptions{MaxSize: 10})

	for i := 0; i < 100; i++ {
		m.Set(fmt.Sprintf("key-%d", i), i, "bounded")
	}

	assert.LessOrEqual(t, m.Stats()["bounded"].Size, 10)
}

func TestDefault_SharedInstance(t *testing.T) {
	defer ClearAllCaches()

	Default().Set("key", "value", "urls")

	val, found := Default().Get("key", "urls")
	assert.True(t, found)
	assert.Equal(t, "value", val)

	ClearAllCaches()
	_, found = Default().Get("key", "urls")
	assert.False(t, found)
}
