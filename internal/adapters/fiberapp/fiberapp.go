// Package fiberapp binds the proxy core to a Fiber application as a
// middleware handler.
package fiberapp

import (
	"context"
	"io"
	"net/http"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"repomd-proxy/internal/proxy"
)

// Handler returns a Fiber handler that claims requests under the configured
// media prefix and calls c.Next() for everything else, so it can be mounted
// with app.Use alongside the application's own routes.
func Handler(f *proxy.Forwarder, logger *zap.Logger) fiber.Handler {
	return func(c fiber.Ctx) error {
		header := http.Header{}
		c.Request().Header.VisitAll(func(key, value []byte) {
			header.Add(string(key), string(value))
		})

		var ctx context.Context = context.Background()
		if reqCtx := c.Context(); reqCtx != nil {
			ctx = reqCtx
		}

		result, ok := f.Handle(ctx, c.Method(), c.Path(), header)
		if !ok {
			return c.Next()
		}
		defer func() { _ = result.Body.Close() }()

		for key, values := range result.Header {
			for _, v := range values {
				c.Set(key, v)
			}
		}
		c.Status(result.Status)

		_, err := io.Copy(c.Response().BodyWriter(), result.Body)
		return err
	}
}
