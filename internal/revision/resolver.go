package revision

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"repomd-proxy/internal/metrics"
)

// Latest is the sentinel token meaning "whatever revision is currently
// active". Any other token is a literal immutable revision identifier.
const Latest = "latest"

// ErrEmptyRevision signals that the injected resolver completed but returned
// no revision, so callers can tell a logically missing revision apart from a
// transport failure.
var ErrEmptyRevision = errors.New("resolver returned empty revision")

// ErrMissingProjectID is returned when a resolver is constructed without a
// project identifier.
var ErrMissingProjectID = errors.New("project id is required")

// ResolveFunc looks up the current "latest" revision identifier for a
// project. The resolver treats it as an opaque async collaborator.
type ResolveFunc func(ctx context.Context) (string, error)

// Resolver resolves a revision token to a concrete revision identifier.
// Literal tokens are authoritative forever and never trigger the injected
// function. The "latest" token is resolved on demand, memoized for the
// configured cache duration, and concurrent resolutions collapse into a
// single underlying call.
type Resolver struct {
	projectID     string
	rev           string
	resolve       ResolveFunc
	cacheDuration time.Duration
	logger        *zap.Logger

	mu         sync.Mutex
	resolved   string
	resolvedAt time.Time
	hasValue   bool

	group singleflight.Group

	// now is swapped in tests to control expiry
	now func() time.Time
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithActiveRev seeds the resolver with an already-known resolved revision.
// It is treated as a resolution stamped at construction time and stays
// authoritative until the normal expiry rule invalidates it.
func WithActiveRev(rev string) Option {
	return func(r *Resolver) {
		if rev != "" {
			r.resolved = rev
			r.hasValue = true
		}
	}
}

// WithCacheDuration sets how long a resolved "latest" value is reused.
// Unset (or zero) means no caching: every call re-resolves.
func WithCacheDuration(d time.Duration) Option {
	return func(r *Resolver) {
		r.cacheDuration = d
	}
}

// WithLogger sets the logger used for resolution events.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// NewResolver creates a resolver for one project and one requested token.
func NewResolver(projectID, rev string, resolve ResolveFunc, opts ...Option) (*Resolver, error) {
	if projectID == "" {
		return nil, ErrMissingProjectID
	}
	if rev == "" {
		rev = Latest
	}

	r := &Resolver{
		projectID: projectID,
		rev:       rev,
		resolve:   resolve,
		logger:    zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.resolvedAt = r.now()
	return r, nil
}

// IsLatest reports whether the requested token is the "latest" sentinel.
func (r *Resolver) IsLatest() bool {
	return r.rev == Latest
}

// Resolve returns the concrete revision for the requested token. Literal
// tokens return immediately without ever invoking the injected function.
func (r *Resolver) Resolve(ctx context.Context) (string, error) {
	if !r.IsLatest() {
		return r.rev, nil
	}

	r.mu.Lock()
	if r.hasValue && !r.expiredLocked() {
		rev := r.resolved
		r.mu.Unlock()
		return rev, nil
	}
	r.mu.Unlock()

	// All concurrent callers that arrive while a resolution is in flight
	// share the one call and observe the same value or the same failure.
	// The flight key is dropped on completion, so a failure does not wedge
	// the cache.
	val, err, _ := r.group.Do("latest", func() (any, error) {
		// A flight that completed while this caller was queueing may have
		// already stored a fresh value.
		r.mu.Lock()
		if r.hasValue && !r.expiredLocked() {
			rev := r.resolved
			r.mu.Unlock()
			return rev, nil
		}
		r.mu.Unlock()

		return r.resolveLatest(ctx)
	})
	if err != nil {
		return "", err
	}
	return val.(string), nil
}

func (r *Resolver) resolveLatest(ctx context.Context) (string, error) {
	if r.resolve == nil {
		return "", fmt.Errorf("resolve latest revision for project %s: no resolver configured", r.projectID)
	}

	r.logger.Debug("Resolving latest revision", zap.String("project_id", r.projectID))

	rev, err := r.resolve(ctx)
	if err != nil {
		metrics.RecordRevisionResolution("error")
		return "", fmt.Errorf("resolve latest revision for project %s: %w", r.projectID, err)
	}
	if rev == "" {
		metrics.RecordRevisionResolution("empty")
		return "", fmt.Errorf("resolve latest revision for project %s: %w", r.projectID, ErrEmptyRevision)
	}

	r.mu.Lock()
	r.resolved = rev
	r.resolvedAt = r.now()
	r.hasValue = true
	r.mu.Unlock()

	metrics.RecordRevisionResolution("success")
	r.logger.Debug("Resolved latest revision",
		zap.String("project_id", r.projectID),
		zap.String("revision", rev))

	return rev, nil
}

// ActiveRev returns the currently cached resolved identifier (or the literal
// token) without triggering resolution. The second return is false before
// the first resolution when no value was supplied at construction.
func (r *Resolver) ActiveRev() (string, bool) {
	if !r.IsLatest() {
		return r.rev, true
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.hasValue {
		return "", false
	}
	return r.resolved, true
}

// CacheStats describes the revision cache for diagnostics.
type CacheStats struct {
	Mode          string  `json:"mode"` // "latest" or "literal"
	ExpirySeconds float64 `json:"expiry_seconds"`
	ExpiryMs      int64   `json:"expiry_ms"`
	Value         string  `json:"value"`
	Expired       bool    `json:"expired"`
	// RemainingMs is nil in literal mode, since literals never expire.
	RemainingMs *int64 `json:"remaining_ms"`
}

// CacheStats returns the current state of the revision cache without
// triggering resolution.
func (r *Resolver) CacheStats() CacheStats {
	if !r.IsLatest() {
		return CacheStats{
			Mode:          "literal",
			ExpirySeconds: r.cacheDuration.Seconds(),
			ExpiryMs:      r.cacheDuration.Milliseconds(),
			Value:         r.rev,
			Expired:       false,
			RemainingMs:   nil,
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	remaining := int64(0)
	expired := r.expiredLocked() || !r.hasValue
	if r.hasValue && !expired {
		remaining = (r.cacheDuration - r.now().Sub(r.resolvedAt)).Milliseconds()
		if remaining < 0 {
			remaining = 0
		}
	}

	return CacheStats{
		Mode:          Latest,
		ExpirySeconds: r.cacheDuration.Seconds(),
		ExpiryMs:      r.cacheDuration.Milliseconds(),
		Value:         r.resolved,
		Expired:       expired,
		RemainingMs:   &remaining,
	}
}

// expiredLocked reports whether the cached value is past its window. With no
// cache duration configured every value is immediately expired, which makes
// each call re-resolve.
func (r *Resolver) expiredLocked() bool {
	if r.cacheDuration <= 0 {
		return true
	}
	return r.now().Sub(r.resolvedAt) >= r.cacheDuration
}
