// Package adapters identifies the hosting framework of an arbitrary target
// and mounts the proxy on it through the matching sub-package.
package adapters

import (
	"net/http"

	"github.com/gofiber/fiber/v3"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"repomd-proxy/internal/adapters/fiberapp"
	"repomd-proxy/internal/adapters/muxrouter"
	"repomd-proxy/internal/adapters/nethttp"
	"repomd-proxy/internal/proxy"
)

// Framework names a supported hosting framework.
type Framework string

const (
	FrameworkMux      Framework = "gorilla-mux"
	FrameworkFiber    Framework = "fiber"
	FrameworkServeMux Framework = "net-http-servemux"
	FrameworkNetHTTP  Framework = "net-http"
	FrameworkUnknown  Framework = "unknown"
)

// Detect is a best-effort identification of the target's framework. It never
// fails; an unrecognized target reports FrameworkUnknown.
func Detect(target any) Framework {
	switch target.(type) {
	case *mux.Router:
		return FrameworkMux
	case *fiber.App:
		return FrameworkFiber
	case *http.ServeMux:
		return FrameworkServeMux
	case http.Handler:
		return FrameworkNetHTTP
	default:
		return FrameworkUnknown
	}
}

// Attach mounts the forwarder on the detected framework. The boolean return
// is false when no adapter exists for the target, mirroring the forwarder's
// own not-a-proxy signal.
func Attach(target any, f *proxy.Forwarder, logger *zap.Logger) (Framework, bool) {
	switch t := target.(type) {
	case *mux.Router:
		muxrouter.Register(t, f, logger)
		return FrameworkMux, true
	case *fiber.App:
		t.Use(fiberapp.Handler(f, logger))
		return FrameworkFiber, true
	case *http.ServeMux:
		prefix := f.Config().MediaPrefix()
		t.Handle(prefix+"/", nethttp.Handler(f, logger))
		return FrameworkServeMux, true
	default:
		return FrameworkUnknown, false
	}
}
