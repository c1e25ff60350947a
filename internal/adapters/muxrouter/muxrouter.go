// Package muxrouter binds the proxy core to a gorilla/mux router.
package muxrouter

import (
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"repomd-proxy/internal/adapters/nethttp"
	"repomd-proxy/internal/proxy"
)

// Register mounts the forwarder on the router under its configured media
// prefix. Other routes on the router are untouched.
func Register(router *mux.Router, f *proxy.Forwarder, logger *zap.Logger) {
	prefix := f.Config().MediaPrefix()
	handler := nethttp.Handler(f, logger)

	router.PathPrefix(prefix + "/").Handler(handler)
	router.Path(prefix).Handler(handler)
}
