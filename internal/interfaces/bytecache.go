package interfaces

import (
	"time"

	"repomd-proxy/internal/models"
)

//go:generate mockgen -package=mock -source=bytecache.go -destination=mock/bytecache.go

// ByteCache stores proxied response bodies keyed by the upstream target URL.
type ByteCache interface {
	Get(key string) (*models.BodyEntry, bool)
	Set(key string, entry *models.BodyEntry, ttl time.Duration)
	Delete(key string)
}
