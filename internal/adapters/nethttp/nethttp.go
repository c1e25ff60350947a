// Package nethttp binds the proxy core to the standard library's handler
// contracts.
package nethttp

import (
	"net/http"

	"go.uber.org/zap"

	"repomd-proxy/internal/proxy"
)

// Handler exposes the forwarder as a standalone http.Handler. With no next
// handler to fall back to, non-matching paths get a 404.
func Handler(f *proxy.Forwarder, logger *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		result, ok := f.Handle(r.Context(), r.Method, r.URL.Path, r.Header)
		if !ok {
			http.NotFound(w, r)
			return
		}
		proxy.WriteResult(w, result)
	})
}

// Middleware wraps a next handler, claiming only requests under the
// configured media prefix and passing everything else through untouched.
func Middleware(f *proxy.Forwarder, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			result, ok := f.Handle(r.Context(), r.Method, r.URL.Path, r.Header)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			proxy.WriteResult(w, result)
		})
	}
}
