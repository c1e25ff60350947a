package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Config represents the main configuration structure
type Config struct {
	Project  ProjectConfig  `yaml:"project"`
	Server   ServerConfig   `yaml:"server"`
	Revision RevisionConfig `yaml:"revision"`
	BigCache BigCacheConfig `yaml:"bigcache"`
	Redis    RedisConfig    `yaml:"redis"`
}

// ProjectConfig identifies the project whose assets are proxied
type ProjectConfig struct {
	ID          string `yaml:"id"`
	MediaPrefix string `yaml:"media_prefix"`
	StaticURL   string `yaml:"static_url"`
	APIURL      string `yaml:"api_url"`
	CacheMaxAge int    `yaml:"cache_max_age"`
	Debug       bool   `yaml:"debug"`
}

// ServerConfig holds the listening endpoint
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// RevisionConfig controls resolver caching
type RevisionConfig struct {
	ActiveRev          string `yaml:"active_rev"`
	CacheDurationMs    int    `yaml:"cache_duration_ms"`
	ResolveTimeoutSecs int    `yaml:"resolve_timeout_secs"`
}

// BigCacheConfig configures the in-process proxied-body cache
type BigCacheConfig struct {
	Enabled bool `yaml:"enabled"`
	SizeMB  int  `yaml:"size_mb"`
}

// RedisConfig configures the shared proxied-body cache
type RedisConfig struct {
	Enabled          bool `yaml:"enabled"`
	ConnectTimeoutMs int  `yaml:"connect_timeout_ms"`
	ReadTimeoutMs    int  `yaml:"read_timeout_ms"`
	WriteTimeoutMs   int  `yaml:"write_timeout_ms"`
	PoolSize         int  `yaml:"pool_size"`
}

// LoadConfig loads configuration from file path. An empty path yields a
// config built from defaults and environment variables alone.
func LoadConfig(configPath string, logger *zap.Logger) (*Config, error) {
	var config Config

	if configPath != "" {
		logger.Info("Loading configuration", zap.String("path", configPath))

		file, err := os.Open(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open config file: %w", err)
		}
		defer func() { _ = file.Close() }()

		decoder := yaml.NewDecoder(file)
		if err := decoder.Decode(&config); err != nil {
			return nil, fmt.Errorf("failed to decode YAML config: %w", err)
		}
	}

	config.applyEnvOverrides()
	config.applyDefaults()
	return &config, nil
}

// applyEnvOverrides lets deployment environments override file settings
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("PROJECT_ID"); v != "" {
		c.Project.ID = v
	}
	if v := os.Getenv("MEDIA_URL_PREFIX"); v != "" {
		c.Project.MediaPrefix = v
	}
	if v := os.Getenv("R2_URL"); v != "" {
		c.Project.StaticURL = v
	}
	if v := os.Getenv("API_URL"); v != "" {
		c.Project.APIURL = v
	}
	if v := os.Getenv("CACHE_MAX_AGE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Project.CacheMaxAge = n
		}
	}
	if v := os.Getenv("DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Project.Debug = b
		}
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		c.Server.ListenAddr = v
	}
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = ":8080"
	}
	if c.Revision.ResolveTimeoutSecs <= 0 {
		c.Revision.ResolveTimeoutSecs = 10
	}
	if c.BigCache.SizeMB <= 0 {
		c.BigCache.SizeMB = 64
	}
	if c.Redis.ConnectTimeoutMs <= 0 {
		c.Redis.ConnectTimeoutMs = 5000
	}
	if c.Redis.ReadTimeoutMs <= 0 {
		c.Redis.ReadTimeoutMs = 2000
	}
	if c.Redis.WriteTimeoutMs <= 0 {
		c.Redis.WriteTimeoutMs = 2000
	}
	if c.Redis.PoolSize <= 0 {
		c.Redis.PoolSize = 10
	}
}

// RevisionCacheDuration converts the configured window into a duration
func (c *Config) RevisionCacheDuration() time.Duration {
	return time.Duration(c.Revision.CacheDurationMs) * time.Millisecond
}

// ResolveTimeout is the per-call budget for latest-revision lookups
func (c *Config) ResolveTimeout() time.Duration {
	return time.Duration(c.Revision.ResolveTimeoutSecs) * time.Second
}
