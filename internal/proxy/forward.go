package proxy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"repomd-proxy/internal/bodycache"
	"repomd-proxy/internal/interfaces"
	"repomd-proxy/internal/metrics"
	"repomd-proxy/internal/models"
)

// maxCachedBody bounds how large a response body the forwarder will buffer
// for the body cache; larger responses are streamed through uncached.
const maxCachedBody = 1 << 20

// ParseMediaPath strips the configured prefix from an inbound request path.
// The second return is false when the path is not a proxied request, which
// adapters treat as a routing signal, never an error.
func ParseMediaPath(requestPath, prefix string) (string, bool) {
	prefix = strings.TrimSuffix(prefix, "/")
	if prefix == "" || !strings.HasPrefix(requestPath, prefix) {
		return "", false
	}

	remainder := requestPath[len(prefix):]
	if remainder != "" && !strings.HasPrefix(remainder, "/") {
		// "/prefixextra" is a different route, not a proxied path
		return "", false
	}
	return strings.TrimPrefix(remainder, "/"), true
}

// Fetch performs the outbound request, forwarding method and headers minus
// Host so the upstream sees its own host.
func Fetch(ctx context.Context, client *http.Client, method, url string, header http.Header) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build upstream request: %w", err)
	}

	for key, values := range header {
		if strings.EqualFold(key, "Host") {
			continue
		}
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	done := metrics.TimeUpstreamRequest(method)
	resp, err := client.Do(req)
	done()
	if err != nil {
		return nil, fmt.Errorf("upstream fetch: %w", err)
	}
	return resp, nil
}

// HandleError maps any failure value into a structured 502-class response
// with the supplied fallback cache headers. It accepts arbitrary values so
// recovered panics can be funneled through the same path, and it never fails
// itself.
func HandleError(cause any, fallbackHeaders map[string]string, logger *zap.Logger) models.ErrorResponse {
	var msg string
	switch v := cause.(type) {
	case nil:
		msg = "unknown proxy error"
	case error:
		msg = v.Error()
	case string:
		if v == "" {
			msg = "unknown proxy error"
		} else {
			msg = v
		}
	default:
		msg = fmt.Sprintf("%v", v)
	}

	if logger != nil {
		logger.Error("Proxy request failed", zap.String("cause", msg))
	}

	body, err := json.Marshal(map[string]string{"error": msg})
	if err != nil {
		body = []byte(`{"error":"proxy error"}`)
	}

	header := http.Header{}
	header.Set("Content-Type", "application/json")
	for key, value := range fallbackHeaders {
		header.Set(key, value)
	}

	return models.ErrorResponse{
		Status: http.StatusBadGateway,
		Body:   body,
		Header: header,
	}
}

// MergeHeaders combines upstream headers with the cache policy. Policy
// headers win on conflicting keys.
func MergeHeaders(upstream http.Header, policy map[string]string) http.Header {
	merged := http.Header{}
	for key, values := range upstream {
		for _, v := range values {
			merged.Add(key, v)
		}
	}
	for key, value := range policy {
		merged.Set(key, value)
	}
	return merged
}

// Result is the framework-agnostic response every adapter translates into
// its host's native shape.
type Result struct {
	Status int
	Header http.Header
	Body   io.ReadCloser
}

// Forwarder relays proxied asset requests to the upstream origin. It is
// stateless per request; the config, client and caches are shared across all
// concurrent requests.
type Forwarder struct {
	cfg    *Config
	client *http.Client
	bodies interfaces.ByteCache
	logger *zap.Logger
}

// NewForwarder wires the forwarding core. bodies may be nil to disable body
// caching; logger may be nil.
func NewForwarder(cfg *Config, client *http.Client, bodies interfaces.ByteCache, logger *zap.Logger) *Forwarder {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Forwarder{
		cfg:    cfg,
		client: client,
		bodies: bodies,
		logger: logger,
	}
}

// Config returns the proxy configuration backing this forwarder.
func (f *Forwarder) Config() *Config {
	return f.cfg
}

// Handle serves one proxied request. The second return is false when the
// path does not match the configured prefix; the adapter must then pass
// control to the next handler. A true return always carries a well-formed
// Result: upstream failures are translated, never propagated.
func (f *Forwarder) Handle(ctx context.Context, method, path string, header http.Header) (*Result, bool) {
	rel, ok := ParseMediaPath(path, f.cfg.MediaPrefix())
	if !ok {
		metrics.RecordProxyRequest("pass")
		return nil, false
	}

	target := f.cfg.TargetURL(rel)

	if f.cfg.Debug() {
		f.logger.Debug("Proxying media request",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("target", target))
	}

	if method == http.MethodGet {
		if result, ok := f.fromBodyCache(target); ok {
			metrics.RecordProxyRequest("success")
			return result, true
		}
	}

	resp, err := Fetch(ctx, f.client, method, target, header)
	if err != nil {
		metrics.RecordProxyRequest("error")
		return f.errorResult(err), true
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		metrics.RecordProxyRequest("error")
		return f.errorResult(fmt.Errorf("upstream returned status %d for %s", resp.StatusCode, target)), true
	}

	metrics.RecordProxyRequest("success")
	merged := MergeHeaders(resp.Header, f.cfg.CacheHeaders())

	if method == http.MethodGet && f.bodies != nil {
		return f.cacheAndRelay(target, resp, merged), true
	}

	return &Result{
		Status: resp.StatusCode,
		Header: merged,
		Body:   resp.Body,
	}, true
}

// fromBodyCache serves a previously relayed GET response, if present.
func (f *Forwarder) fromBodyCache(target string) (*Result, bool) {
	if f.bodies == nil {
		return nil, false
	}

	entry, found := f.bodies.Get(bodycache.Key(http.MethodGet, target))
	if !found {
		return nil, false
	}

	header := MergeHeaders(http.Header{}, f.cfg.CacheHeaders())
	if entry.ContentType != "" {
		header.Set("Content-Type", entry.ContentType)
	}

	if f.cfg.Debug() {
		f.logger.Debug("Serving proxied body from cache", zap.String("target", target))
	}

	return &Result{
		Status: http.StatusOK,
		Header: header,
		Body:   io.NopCloser(bytes.NewReader(entry.Data)),
	}, true
}

// cacheAndRelay buffers a success response into the body cache when it is
// small enough, then relays it. Oversized bodies fall back to streaming.
func (f *Forwarder) cacheAndRelay(target string, resp *http.Response, header http.Header) *Result {
	limited := io.LimitReader(resp.Body, maxCachedBody+1)
	buf, err := io.ReadAll(limited)
	if err != nil {
		_ = resp.Body.Close()
		return f.errorResult(fmt.Errorf("read upstream body: %w", err))
	}

	if len(buf) > maxCachedBody {
		// Too large to cache; stitch the buffered part back onto the stream
		return &Result{
			Status: resp.StatusCode,
			Header: header,
			Body:   readCloser{io.MultiReader(bytes.NewReader(buf), resp.Body), resp.Body},
		}
	}

	_ = resp.Body.Close()

	now := time.Now().Unix()
	ttl := time.Duration(f.cfg.cacheMaxAge) * time.Second
	f.bodies.Set(bodycache.Key(http.MethodGet, target), &models.BodyEntry{
		Data:        buf,
		ContentType: resp.Header.Get("Content-Type"),
		CreatedAt:   now,
		ExpiresAt:   now + int64(ttl.Seconds()),
	}, ttl)

	return &Result{
		Status: resp.StatusCode,
		Header: header,
		Body:   io.NopCloser(bytes.NewReader(buf)),
	}
}

func (f *Forwarder) errorResult(err error) *Result {
	var logger *zap.Logger
	if f.cfg.Debug() {
		logger = f.logger
	}
	er := HandleError(err, f.cfg.ErrorCacheHeaders(), logger)
	return &Result{
		Status: er.Status,
		Header: er.Header,
		Body:   io.NopCloser(bytes.NewReader(er.Body)),
	}
}

// readCloser pairs a stitched reader with the original body's closer.
type readCloser struct {
	io.Reader
	closer io.Closer
}

func (rc readCloser) Close() error {
	return rc.closer.Close()
}

// RouteHandler exports the proxy as a single request-handling function for
// hosts that expect one handler per route. Requests outside the prefix get a
// 404 since a route loader has no next handler to fall back to.
func (c *Config) RouteHandler(client *http.Client, bodies interfaces.ByteCache, logger *zap.Logger) http.HandlerFunc {
	f := NewForwarder(c, client, bodies, logger)
	return func(w http.ResponseWriter, r *http.Request) {
		result, ok := f.Handle(r.Context(), r.Method, r.URL.Path, r.Header)
		if !ok {
			http.NotFound(w, r)
			return
		}
		WriteResult(w, result)
	}
}

// WriteResult drains a Result into a net/http response writer.
func WriteResult(w http.ResponseWriter, result *Result) {
	for key, values := range result.Header {
		for _, v := range values {
			w.Header().Add(key, v)
		}
	}
	w.WriteHeader(result.Status)
	if result.Body != nil {
		defer func() { _ = result.Body.Close() }()
		_, err := io.Copy(w, result.Body)
		if err != nil && !errors.Is(err, context.Canceled) {
			return
		}
	}
}
