package proxy

import (
	"errors"
	"fmt"
	"strings"

	"repomd-proxy/internal/urlgen"
)

// Defaults applied when the corresponding option is unset.
const (
	DefaultMediaPrefix      = "/_repo/medias"
	DefaultCacheMaxAge      = 31536000 // one year; content is revision-addressed
	DefaultErrorCacheMaxAge = 60
)

// ErrMissingProjectID is the configuration error for a proxy constructed
// without a project identifier. It fails fast, before any network activity.
var ErrMissingProjectID = errors.New("proxy config: project id is required")

// Options configures a proxy. Only ProjectID is required.
type Options struct {
	ProjectID string

	// MediaPrefix is the inbound path prefix this proxy claims.
	MediaPrefix string

	// OriginURL overrides the upstream asset origin for this project.
	// Defaults to "{static root}/{project id}".
	OriginURL string

	// StaticURL overrides the static root used to derive the origin.
	StaticURL string

	// CacheMaxAge is the success cache duration in seconds.
	CacheMaxAge int

	// ErrorCacheMaxAge is the failure cache duration in seconds.
	ErrorCacheMaxAge int

	Debug bool
}

// Config computes upstream target URLs and cache policies for proxied
// requests. It is immutable after construction and performs no I/O; every
// exporter below is a projection of TargetURL and the two header functions,
// so all host integrations stay behaviorally identical.
type Config struct {
	projectID        string
	mediaPrefix      string
	originURL        string
	cacheMaxAge      int
	errorCacheMaxAge int
	debug            bool
}

// NewConfig validates options and builds an immutable Config.
func NewConfig(opts Options) (*Config, error) {
	if opts.ProjectID == "" {
		return nil, ErrMissingProjectID
	}

	mediaPrefix := opts.MediaPrefix
	if mediaPrefix == "" {
		mediaPrefix = DefaultMediaPrefix
	}
	if !strings.HasPrefix(mediaPrefix, "/") {
		mediaPrefix = "/" + mediaPrefix
	}
	mediaPrefix = strings.TrimSuffix(mediaPrefix, "/")

	originURL := opts.OriginURL
	if originURL == "" {
		staticURL := opts.StaticURL
		if staticURL == "" {
			staticURL = urlgen.DefaultStaticURL
		}
		originURL = fmt.Sprintf("%s/%s", strings.TrimSuffix(staticURL, "/"), opts.ProjectID)
	}
	originURL = strings.TrimSuffix(originURL, "/")

	cacheMaxAge := opts.CacheMaxAge
	if cacheMaxAge <= 0 {
		cacheMaxAge = DefaultCacheMaxAge
	}
	errorCacheMaxAge := opts.ErrorCacheMaxAge
	if errorCacheMaxAge <= 0 {
		errorCacheMaxAge = DefaultErrorCacheMaxAge
	}

	return &Config{
		projectID:        opts.ProjectID,
		mediaPrefix:      mediaPrefix,
		originURL:        originURL,
		cacheMaxAge:      cacheMaxAge,
		errorCacheMaxAge: errorCacheMaxAge,
		debug:            opts.Debug,
	}, nil
}

// ProjectID returns the target project identifier.
func (c *Config) ProjectID() string { return c.projectID }

// MediaPrefix returns the inbound path prefix this proxy claims.
func (c *Config) MediaPrefix() string { return c.mediaPrefix }

// Debug reports whether verbose proxy logging is enabled.
func (c *Config) Debug() bool { return c.debug }

// TargetURL maps an already-stripped proxied path to the absolute upstream
// URL under the project's shared medias folder.
func (c *Config) TargetURL(proxiedPath string) string {
	base := fmt.Sprintf("%s/%s/medias", c.originURL, urlgen.SharedFolder)
	proxiedPath = strings.TrimPrefix(proxiedPath, "/")
	if proxiedPath == "" {
		return base
	}
	return base + "/" + proxiedPath
}

// CacheHeaders returns the outgoing cache policy for successful upstream
// responses. Content is revision-addressed, so long-lived immutable caching
// is safe.
func (c *Config) CacheHeaders() map[string]string {
	return map[string]string{
		"Cache-Control": fmt.Sprintf("public, max-age=%d, immutable", c.cacheMaxAge),
	}
}

// ErrorCacheHeaders returns the outgoing cache policy for failed upstream
// responses, kept short so transient outages are not pinned in CDNs.
func (c *Config) ErrorCacheHeaders() map[string]string {
	return map[string]string{
		"Cache-Control": fmt.Sprintf("public, max-age=%d, must-revalidate", c.errorCacheMaxAge),
	}
}

// Rule is one reverse-proxy table entry, usable by a dev-server proxy.
type Rule struct {
	Prefix       string `json:"prefix"`
	Target       string `json:"target"`
	ChangeOrigin bool   `json:"change_origin"`
}

// Rules exports the proxy as a prefix-to-target rule table. The targets come
// from TargetURL, never from independent logic.
func (c *Config) Rules() []Rule {
	return []Rule{
		{
			Prefix:       c.mediaPrefix,
			Target:       c.TargetURL(""),
			ChangeOrigin: true,
		},
	}
}

// RewriteRule is one declarative rewrite entry with its response headers,
// usable by a server framework's routing config.
type RewriteRule struct {
	Source      string            `json:"source"`
	Destination string            `json:"destination"`
	Headers     map[string]string `json:"headers"`
}

// RewriteRules exports the proxy as a rewrite/header rule list, projected
// from TargetURL and CacheHeaders.
func (c *Config) RewriteRules() []RewriteRule {
	return []RewriteRule{
		{
			Source:      c.mediaPrefix + "/:path*",
			Destination: c.TargetURL(":path*"),
			Headers:     c.CacheHeaders(),
		},
	}
}
