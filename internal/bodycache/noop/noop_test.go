package noop

import (
	"testing"
	"time"

	"repomd-proxy/internal/interfaces"
	"repomd-proxy/internal/models"
)

func TestNewNoOpCache(t *testing.T) {
	cache := NewNoOpCache()

	// Verify it implements the ByteCache interface
	var _ interfaces.ByteCache = cache

	if _, ok := cache.(*NoOpCache); !ok {
		t.Errorf("NewNoOpCache() should return a *NoOpCache instance")
	}
}

func TestNoOpCache_Get(t *testing.T) {
	cache := NewNoOpCache()

	entry, found := cache.Get("any-key")

	if entry != nil {
		t.Errorf("Get() entry = %v, want nil", entry)
	}
	if found {
		t.Errorf("Get() found = true, want false")
	}
}

func TestNoOpCache_Set_Then_Get(t *testing.T) {
	cache := NewNoOpCache()

	cache.Set("key", &models.BodyEntry{Data: []byte("x")}, time.Minute)

	if _, found := cache.Get("key"); found {
		t.Errorf("Get() after Set() found = true, want false")
	}
}

func TestNoOpCache_Delete(t *testing.T) {
	cache := NewNoOpCache()

	// Must not panic
	cache.Delete("key")
}
