package noop

import (
	"time"

	"repomd-proxy/internal/interfaces"
	"repomd-proxy/internal/models"
)

// Ensure NoOpCache implements interfaces.ByteCache
var _ interfaces.ByteCache = (*NoOpCache)(nil)

// NoOpCache is a no-operation body cache for when caching is disabled
type NoOpCache struct{}

// NewNoOpCache creates a new no-operation cache instance
func NewNoOpCache() interfaces.ByteCache {
	return &NoOpCache{}
}

// Get always returns a miss
func (n *NoOpCache) Get(key string) (*models.BodyEntry, bool) {
	return nil, false
}

// Set does nothing
func (n *NoOpCache) Set(key string, entry *models.BodyEntry, ttl time.Duration) {
	// No-op
}

// Delete does nothing
func (n *NoOpCache) Delete(key string) {
	// No-op
}
