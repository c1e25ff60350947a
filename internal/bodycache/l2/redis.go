package l2

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"repomd-proxy/internal/interfaces"
	"repomd-proxy/internal/metrics"
	"repomd-proxy/internal/models"
)

// Ensure RedisCache implements interfaces.ByteCache
var _ interfaces.ByteCache = (*RedisCache)(nil)

// RedisCache implements the shared L2 body cache on Redis
type RedisCache struct {
	client       interfaces.RedisClient
	readTimeout  time.Duration
	writeTimeout time.Duration
	logger       *zap.Logger
}

// Options carries the per-operation timeouts for the L2 cache.
type Options struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// NewRedisCache creates a RedisCache with the provided client
func NewRedisCache(client interfaces.RedisClient, opts Options, logger *zap.Logger) interfaces.ByteCache {
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = 2 * time.Second
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 2 * time.Second
	}
	return &RedisCache{
		client:       client,
		readTimeout:  opts.ReadTimeout,
		writeTimeout: opts.WriteTimeout,
		logger:       logger,
	}
}

// Get retrieves a cached body entry
func (rc *RedisCache) Get(key string) (*models.BodyEntry, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), rc.readTimeout)
	defer cancel()

	data, err := rc.client.Get(ctx, key).Result()
	if err != nil {
		return nil, false
	}

	var entry models.BodyEntry
	if err := json.Unmarshal([]byte(data), &entry); err != nil {
		rc.logger.Error("Failed to unmarshal L2 body entry", zap.String("key", key), zap.Error(err))
		rc.client.Del(context.Background(), key)
		return nil, false
	}

	if entry.IsExpired() {
		rc.client.Del(context.Background(), key)
		return nil, false
	}

	metrics.RecordBodyCacheHit("l2")
	return &entry, true
}

// Set stores a body entry with TTL; Redis expires the key itself as a backstop
func (rc *RedisCache) Set(key string, entry *models.BodyEntry, ttl time.Duration) {
	if entry == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), rc.writeTimeout)
	defer cancel()

	if entry.ExpiresAt == 0 && ttl > 0 {
		entry.ExpiresAt = time.Now().Unix() + int64(ttl.Seconds())
	}

	data, err := json.Marshal(entry)
	if err != nil {
		rc.logger.Error("Failed to marshal L2 body entry", zap.String("key", key), zap.Error(err))
		return
	}

	if err := rc.client.Set(ctx, key, data, ttl).Err(); err != nil {
		rc.logger.Error("Failed to set L2 body entry", zap.String("key", key), zap.Error(err))
	}
}

// Delete removes an entry from the cache
func (rc *RedisCache) Delete(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), rc.writeTimeout)
	defer cancel()

	if err := rc.client.Del(ctx, key).Err(); err != nil {
		rc.logger.Error("Failed to delete L2 body entry", zap.String("key", key), zap.Error(err))
	}
}

// Close closes the underlying client
func (rc *RedisCache) Close() error {
	return rc.client.Close()
}
