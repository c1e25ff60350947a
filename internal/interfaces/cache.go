package interfaces

import (
	"time"
)

// NamespaceOptions configures one cache namespace. Zero values leave the
// corresponding setting at its current (or default) value.
type NamespaceOptions struct {
	MaxSize int
	MaxAge  time.Duration
}

// NamespaceStats describes the current occupancy of one namespace.
type NamespaceStats struct {
	Size    int           `json:"size"`
	MaxSize int           `json:"max_size"`
	MaxAge  time.Duration `json:"max_age"`
}

// Cache is the process-wide namespaced LRU store. Keys are unique only
// within a namespace; the same key in two namespaces is two entries.
type Cache interface {
	Get(key, namespace string) (any, bool)
	Set(key string, value any, namespace string)
	Clear(namespace string)
	ClearAll()
	Configure(namespace string, opts NamespaceOptions)
	Stats() map[string]NamespaceStats
}
