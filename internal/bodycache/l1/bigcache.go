package l1

import (
	"context"
	"encoding/json"
	"time"

	"github.com/allegro/bigcache/v3"
	"go.uber.org/zap"

	"repomd-proxy/internal/interfaces"
	"repomd-proxy/internal/metrics"
	"repomd-proxy/internal/models"
)

// Ensure BigCache implements interfaces.ByteCache
var _ interfaces.ByteCache = (*BigCache)(nil)

// BigCache implements the in-process L1 body cache using BigCache
type BigCache struct {
	cache  *bigcache.BigCache
	logger *zap.Logger
}

// NewBigCache creates a new BigCache instance bounded to sizeMB megabytes
func NewBigCache(sizeMB int, logger *zap.Logger) (interfaces.ByteCache, error) {
	config := bigcache.DefaultConfig(10 * time.Minute) // Default eviction time
	config.HardMaxCacheSize = sizeMB
	config.Verbose = false
	config.MaxEntrySize = 1024 * 1024 // 1MB max entry size

	cache, err := bigcache.New(context.Background(), config)
	if err != nil {
		return nil, err
	}

	return &BigCache{
		cache:  cache,
		logger: logger,
	}, nil
}

// Get retrieves a cached body entry, removing it when expired or corrupted
func (bc *BigCache) Get(key string) (*models.BodyEntry, bool) {
	data, err := bc.cache.Get(key)
	if err != nil {
		return nil, false
	}

	var entry models.BodyEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		bc.logger.Warn("Failed to unmarshal L1 body entry", zap.String("key", key), zap.Error(err))
		_ = bc.cache.Delete(key) // Remove corrupted entry
		return nil, false
	}

	if entry.IsExpired() {
		_ = bc.cache.Delete(key)
		return nil, false
	}

	metrics.RecordBodyCacheHit("l1")
	return &entry, true
}

// Set stores a body entry with TTL
func (bc *BigCache) Set(key string, entry *models.BodyEntry, ttl time.Duration) {
	if entry == nil {
		return
	}

	if entry.ExpiresAt == 0 && ttl > 0 {
		entry.ExpiresAt = time.Now().Unix() + int64(ttl.Seconds())
	}

	data, err := json.Marshal(entry)
	if err != nil {
		bc.logger.Error("Failed to marshal body entry", zap.String("key", key), zap.Error(err))
		return
	}

	if err := bc.cache.Set(key, data); err != nil {
		bc.logger.Error("Failed to set body entry", zap.String("key", key), zap.Error(err))
	}
}

// Delete removes an entry from the cache
func (bc *BigCache) Delete(key string) {
	_ = bc.cache.Delete(key)
}

// Close closes the cache
func (bc *BigCache) Close() error {
	return bc.cache.Close()
}
