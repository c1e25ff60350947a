package nethttp

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"repomd-proxy/internal/proxy"
)

func newForwarder(t *testing.T, origin string) *proxy.Forwarder {
	t.Helper()
	cfg, err := proxy.NewConfig(proxy.Options{
		ProjectID:   "P1",
		MediaPrefix: "/assets/medias",
		OriginURL:   origin,
	})
	require.NoError(t, err)
	return proxy.NewForwarder(cfg, http.DefaultClient, nil, zap.NewNop())
}

func TestHandler_ProxiesMatchingPath(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/projects/P1/_shared/medias/logo.png", r.URL.Path)
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("png-bytes"))
	}))
	defer upstream.Close()

	handler := Handler(newForwarder(t, upstream.URL+"/projects/P1"), zap.NewNop())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/medias/logo.png", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Cache-Control"), "immutable")
	assert.Equal(t, "png-bytes", rec.Body.String())
}

func TestHandler_NonMatchingPath404s(t *testing.T) {
	handler := Handler(newForwarder(t, "https://static.example/projects/P1"), zap.NewNop())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/elsewhere", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMiddleware_PassesThroughNonMatching(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("asset"))
	}))
	defer upstream.Close()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "app route")
	})
	wrapped := Middleware(newForwarder(t, upstream.URL+"/projects/P1"), zap.NewNop())(next)

	// Non-matching path reaches the next handler untouched
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/app/page", nil))
	assert.Equal(t, "app route", rec.Body.String())

	// Matching path is claimed by the proxy
	rec = httptest.NewRecorder()
	wrapped.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/medias/a.png", nil))
	assert.Equal(t, "asset", rec.Body.String())
}
