package reverseproxy

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"repomd-proxy/internal/proxy"
)

func newConfig(t *testing.T, origin string) *proxy.Config {
	t.Helper()
	cfg, err := proxy.NewConfig(proxy.Options{
		ProjectID:   "P1",
		MediaPrefix: "/assets/medias",
		OriginURL:   origin,
	})
	require.NoError(t, err)
	return cfg
}

func TestHandler_RewritesToUpstream(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/projects/P1/_shared/medias/a/b.png", r.URL.Path)
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("png-bytes"))
	}))
	defer upstream.Close()

	handler, err := Handler(newConfig(t, upstream.URL+"/projects/P1"), zap.NewNop())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/medias/a/b.png", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Cache-Control"), "immutable")
	assert.Equal(t, "png-bytes", rec.Body.String())
}

func TestHandler_NonMatchingPath404s(t *testing.T) {
	handler, err := Handler(newConfig(t, "https://static.example/projects/P1"), zap.NewNop())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/elsewhere", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_UpstreamErrorUsesFailurePolicy(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	origin := upstream.URL + "/projects/P1"
	upstream.Close()

	handler, err := Handler(newConfig(t, origin), zap.NewNop())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/medias/logo.png", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Header().Get("Cache-Control"), "max-age=60")
	assert.Contains(t, rec.Body.String(), "error")
}

func TestNew_StampsErrorPolicyOnNon2xx(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer upstream.Close()

	handler, err := Handler(newConfig(t, upstream.URL+"/projects/P1"), zap.NewNop())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/medias/missing.png", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Cache-Control"), "must-revalidate")
}
