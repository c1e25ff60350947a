package cache

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"repomd-proxy/internal/cache/lru"
	"repomd-proxy/internal/interfaces"
	"repomd-proxy/internal/metrics"
)

// Ensure Manager implements interfaces.Cache
var _ interfaces.Cache = (*Manager)(nil)

// DefaultNamespace is used when callers pass an empty namespace name.
const DefaultNamespace = "default"

// Shared default policy for built-in and lazily created namespaces.
const (
	DefaultMaxSize = 1000
	DefaultMaxAge  = time.Hour
)

// BuiltinNamespaces exist from process start with the shared default policy.
var BuiltinNamespaces = []string{DefaultNamespace, "posts", "media", "urls", "similarity"}

// Manager is the namespaced LRU cache shared across all concurrent requests
// in one process. Each namespace evicts independently.
type Manager struct {
	mu         sync.Mutex
	namespaces map[string]*lru.Cache
	logger     *zap.Logger
}

// NewManager creates a manager with the built-in namespaces configured.
func NewManager(logger *zap.Logger) *Manager {
	m := &Manager{
		namespaces: make(map[string]*lru.Cache),
		logger:     logger,
	}
	for _, name := range BuiltinNamespaces {
		m.namespaces[name] = lru.New(DefaultMaxSize, DefaultMaxAge)
	}
	return m
}

// Get retrieves a value and marks it recently used. A miss has no side
// effect beyond debug logging and metrics.
func (m *Manager) Get(key, namespace string) (any, bool) {
	namespace = normalize(namespace)

	m.mu.Lock()
	defer m.mu.Unlock()

	ns, ok := m.namespaces[namespace]
	if !ok {
		metrics.RecordCacheMiss(namespace)
		return nil, false
	}

	val, found := ns.Get(key)
	if !found {
		metrics.RecordCacheMiss(namespace)
		m.logger.Debug("Cache miss", zap.String("namespace", namespace), zap.String("key", key))
		return nil, false
	}

	metrics.RecordCacheHit(namespace)
	return val, true
}

// Set inserts or overwrites a value. An unknown namespace is created lazily
// with the shared default policy.
func (m *Manager) Set(key string, value any, namespace string) {
	namespace = normalize(namespace)

	m.mu.Lock()
	defer m.mu.Unlock()

	ns, ok := m.namespaces[namespace]
	if !ok {
		ns = lru.New(DefaultMaxSize, DefaultMaxAge)
		m.namespaces[namespace] = ns
	}
	ns.Set(key, value)
}

// Clear empties one namespace. Unknown names are a no-op, not an error.
func (m *Manager) Clear(namespace string) {
	namespace = normalize(namespace)

	m.mu.Lock()
	defer m.mu.Unlock()

	if ns, ok := m.namespaces[namespace]; ok {
		ns.Purge()
	}
}

// ClearAll empties every namespace.
func (m *Manager) ClearAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, ns := range m.namespaces {
		ns.Purge()
	}
}

// Configure creates the namespace if absent, otherwise resizes it in place.
// Cached entries survive a resize unless the new size is smaller than the
// current occupancy.
func (m *Manager) Configure(namespace string, opts interfaces.NamespaceOptions) {
	namespace = normalize(namespace)

	m.mu.Lock()
	defer m.mu.Unlock()

	if ns, ok := m.namespaces[namespace]; ok {
		ns.Resize(opts.MaxSize, opts.MaxAge)
		return
	}

	maxSize := opts.MaxSize
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	maxAge := opts.MaxAge
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	m.namespaces[namespace] = lru.New(maxSize, maxAge)
}

// Stats returns, per namespace, the current entry count and configured bounds.
func (m *Manager) Stats() map[string]interfaces.NamespaceStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := make(map[string]interfaces.NamespaceStats, len(m.namespaces))
	for name, ns := range m.namespaces {
		stats[name] = interfaces.NamespaceStats{
			Size:    ns.Len(),
			MaxSize: ns.MaxSize(),
			MaxAge:  ns.MaxAge(),
		}
	}
	return stats
}

func normalize(namespace string) string {
	if namespace == "" {
		return DefaultNamespace
	}
	return namespace
}

var (
	defaultManager *Manager
	defaultOnce    sync.Once
)

// Default returns the process-wide manager, created on first use.
func Default() *Manager {
	defaultOnce.Do(func() {
		defaultManager = NewManager(zap.NewNop())
	})
	return defaultManager
}

// ClearAllCaches resets the process-wide manager between test cases.
func ClearAllCaches() {
	Default().ClearAll()
}
