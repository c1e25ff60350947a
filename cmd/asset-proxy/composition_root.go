package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"repomd-proxy/internal/bodycache/l1"
	"repomd-proxy/internal/bodycache/l2"
	"repomd-proxy/internal/bodycache/multi"
	"repomd-proxy/internal/bodycache/noop"
	"repomd-proxy/internal/cache"
	"repomd-proxy/internal/config"
	"repomd-proxy/internal/httpserver"
	"repomd-proxy/internal/interfaces"
	"repomd-proxy/internal/proxy"
	"repomd-proxy/internal/revision"
	"repomd-proxy/internal/urlgen"
)

// CompositionRoot holds all application dependencies and provides a centralized
// place for dependency injection and service initialization.
type CompositionRoot struct {
	// Configuration
	Config *config.Config
	Logger *zap.Logger

	// Cache components
	Caches    interfaces.Cache
	BodyCache interfaces.ByteCache

	// Core services
	Resolver  *revision.Resolver
	URLs      *urlgen.Generator
	Forwarder *proxy.Forwarder

	// HTTP server
	HTTPServer *httpserver.Server
}

// NewCompositionRoot creates and initializes all application dependencies.
//
// Initialization order:
// 1. Logger (needed by all other components)
// 2. Configuration (defines how components should be configured)
// 3. Body cache (L1/L2 for proxied asset bodies)
// 4. Revision resolver and URL generator
// 5. Proxy forwarder
// 6. HTTP server (uses all above components)
func NewCompositionRoot() (*CompositionRoot, error) {
	root := &CompositionRoot{}

	if err := root.initLogger(); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := root.loadConfig(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := root.initBodyCache(); err != nil {
		return nil, fmt.Errorf("failed to initialize body cache: %w", err)
	}

	if err := root.initResolver(); err != nil {
		return nil, fmt.Errorf("failed to initialize revision resolver: %w", err)
	}

	if err := root.initForwarder(); err != nil {
		return nil, fmt.Errorf("failed to initialize forwarder: %w", err)
	}

	root.Caches = cache.NewManager(root.Logger)
	root.HTTPServer = httpserver.NewServer(root.Forwarder, root.Caches, root.URLs, root.Logger)

	return root, nil
}

// initLogger initializes the application logger
func (r *CompositionRoot) initLogger() error {
	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	r.Logger = logger
	return nil
}

// loadConfig loads the application configuration
func (r *CompositionRoot) loadConfig() error {
	configPath := os.Getenv("PROXY_CONFIG_FILE")

	cfg, err := config.LoadConfig(configPath, r.Logger)
	if err != nil {
		return err
	}

	r.Config = cfg
	return nil
}

// initBodyCache initializes the L1/L2 caches for proxied asset bodies
func (r *CompositionRoot) initBodyCache() error {
	var levels []interfaces.ByteCache

	if r.Config.BigCache.Enabled {
		l1Cache, err := l1.NewBigCache(r.Config.BigCache.SizeMB, r.Logger)
		if err != nil {
			return err
		}
		levels = append(levels, l1Cache)
		r.Logger.Info("BigCache (L1) initialized", zap.Int("size_mb", r.Config.BigCache.SizeMB))
	} else {
		r.Logger.Info("BigCache (L1) disabled")
	}

	if r.Config.Redis.Enabled {
		redisURL := GetRedisURL(r.Logger)

		client, err := l2.NewClient(redisURL, l2.ClientOptions{
			ConnectTimeout: time.Duration(r.Config.Redis.ConnectTimeoutMs) * time.Millisecond,
			ReadTimeout:    time.Duration(r.Config.Redis.ReadTimeoutMs) * time.Millisecond,
			WriteTimeout:   time.Duration(r.Config.Redis.WriteTimeoutMs) * time.Millisecond,
			PoolSize:       r.Config.Redis.PoolSize,
		}, r.Logger)
		if err != nil {
			r.Logger.Warn("Failed to connect to Redis, falling back to no L2 cache",
				zap.String("redis_url", redisURL),
				zap.Error(err))
		} else {
			levels = append(levels, l2.NewRedisCache(client, l2.Options{
				ReadTimeout:  time.Duration(r.Config.Redis.ReadTimeoutMs) * time.Millisecond,
				WriteTimeout: time.Duration(r.Config.Redis.WriteTimeoutMs) * time.Millisecond,
			}, r.Logger))
			r.Logger.Info("Redis (L2) initialized", zap.String("redis_url", redisURL))
		}
	} else {
		r.Logger.Info("Redis (L2) disabled")
	}

	switch len(levels) {
	case 0:
		r.BodyCache = noop.NewNoOpCache()
	case 1:
		r.BodyCache = levels[0]
	default:
		r.BodyCache = multi.NewMultiCache(levels, r.Logger)
	}
	return nil
}

// initResolver wires the revision resolver and the URL generator
func (r *CompositionRoot) initResolver() error {
	resolveClient := &http.Client{Timeout: r.Config.ResolveTimeout()}
	resolve := revision.NewHTTPResolveFunc(
		r.Config.Project.APIURL,
		r.Config.Project.ID,
		resolveClient,
		r.Logger,
	)

	opts := []revision.Option{
		revision.WithCacheDuration(r.Config.RevisionCacheDuration()),
		revision.WithLogger(r.Logger),
	}
	if r.Config.Revision.ActiveRev != "" {
		opts = append(opts, revision.WithActiveRev(r.Config.Revision.ActiveRev))
	}

	resolver, err := revision.NewResolver(r.Config.Project.ID, revision.Latest, resolve, opts...)
	if err != nil {
		return err
	}
	r.Resolver = resolver

	urls, err := urlgen.New(r.Config.Project.ID, r.Config.Project.StaticURL, resolver)
	if err != nil {
		return err
	}
	r.URLs = urls
	return nil
}

// initForwarder builds the proxy configuration and the forwarding core
func (r *CompositionRoot) initForwarder() error {
	cfg, err := proxy.NewConfig(proxy.Options{
		ProjectID:   r.Config.Project.ID,
		MediaPrefix: r.Config.Project.MediaPrefix,
		StaticURL:   r.Config.Project.StaticURL,
		CacheMaxAge: r.Config.Project.CacheMaxAge,
		Debug:       r.Config.Project.Debug,
	})
	if err != nil {
		return err
	}

	r.Forwarder = proxy.NewForwarder(cfg, &http.Client{Timeout: 30 * time.Second}, r.BodyCache, r.Logger)
	return nil
}

// Cleanup performs cleanup of all resources
func (r *CompositionRoot) Cleanup() error {
	var errors []error

	// Sync logger
	if r.Logger != nil {
		if err := r.Logger.Sync(); err != nil {
			errors = append(errors, fmt.Errorf("failed to sync logger: %w", err))
		}
	}

	// Close cache levels that hold external resources
	if closer, ok := r.BodyCache.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			errors = append(errors, fmt.Errorf("failed to close body cache: %w", err))
		}
	}

	// Return first error if any
	if len(errors) > 0 {
		return errors[0]
	}

	return nil
}
