package multi

import (
	"time"

	"go.uber.org/zap"

	"repomd-proxy/internal/interfaces"
	"repomd-proxy/internal/models"
)

// Ensure MultiCache implements interfaces.ByteCache
var _ interfaces.ByteCache = (*MultiCache)(nil)

// MultiCache is a composite body cache that tries each backend in order.
// Reads return the first hit; writes and deletes go to every backend.
type MultiCache struct {
	caches []interfaces.ByteCache
	logger *zap.Logger
}

// NewMultiCache creates a MultiCache over the provided backends
func NewMultiCache(caches []interfaces.ByteCache, logger *zap.Logger) interfaces.ByteCache {
	return &MultiCache{
		caches: caches,
		logger: logger,
	}
}

// Get retrieves an entry from the first backend that has it
func (mc *MultiCache) Get(key string) (*models.BodyEntry, bool) {
	if len(mc.caches) == 0 {
		mc.logger.Warn("No caches available for get operation", zap.String("key", key))
		return nil, false
	}

	for _, cache := range mc.caches {
		if entry, found := cache.Get(key); found {
			return entry, true
		}
	}
	return nil, false
}

// Set stores an entry in every backend
func (mc *MultiCache) Set(key string, entry *models.BodyEntry, ttl time.Duration) {
	if len(mc.caches) == 0 {
		mc.logger.Warn("No caches available for set operation", zap.String("key", key))
		return
	}

	for _, cache := range mc.caches {
		cache.Set(key, entry, ttl)
	}
}

// Delete removes an entry from every backend
func (mc *MultiCache) Delete(key string) {
	for _, cache := range mc.caches {
		cache.Delete(key)
	}
}

// CacheCount returns the number of backends
func (mc *MultiCache) CacheCount() int {
	return len(mc.caches)
}

// Close closes every backend that holds external resources
func (mc *MultiCache) Close() error {
	var firstErr error
	for _, cache := range mc.caches {
		if closer, ok := cache.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
