// Package reverseproxy builds an httputil.ReverseProxy from the exported
// proxy rule table, for hosts that want the standard library's streaming
// reverse proxy instead of the buffering forwarder.
package reverseproxy

import (
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"repomd-proxy/internal/proxy"
)

// New builds a reverse proxy that rewrites requests under the configured
// media prefix to the upstream origin and stamps the success cache policy on
// responses. Requests outside the prefix are rejected with a 404 before they
// reach the upstream.
func New(cfg *proxy.Config, logger *zap.Logger) (*httputil.ReverseProxy, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	rules := cfg.Rules()
	target, err := url.Parse(rules[0].Target)
	if err != nil {
		return nil, err
	}
	prefix := rules[0].Prefix

	rp := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			rel, ok := proxy.ParseMediaPath(pr.In.URL.Path, prefix)
			if !ok {
				return
			}

			out := *target
			out.Path = strings.TrimSuffix(target.Path, "/") + "/" + rel
			pr.Out.URL = &out
			pr.Out.Host = target.Host
			pr.SetXForwarded()
		},
		ModifyResponse: func(resp *http.Response) error {
			policy := cfg.CacheHeaders()
			if resp.StatusCode < 200 || resp.StatusCode > 299 {
				policy = cfg.ErrorCacheHeaders()
			}
			for key, value := range policy {
				resp.Header.Set(key, value)
			}
			return nil
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			er := proxy.HandleError(err, cfg.ErrorCacheHeaders(), logger)
			for key, values := range er.Header {
				for _, v := range values {
					w.Header().Add(key, v)
				}
			}
			w.WriteHeader(er.Status)
			_, _ = w.Write(er.Body)
		},
	}

	return rp, nil
}

// Handler wraps the reverse proxy with the prefix check so non-matching
// paths never hit the upstream.
func Handler(cfg *proxy.Config, logger *zap.Logger) (http.Handler, error) {
	rp, err := New(cfg, logger)
	if err != nil {
		return nil, err
	}

	prefix := cfg.MediaPrefix()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := proxy.ParseMediaPath(r.URL.Path, prefix); !ok {
			http.NotFound(w, r)
			return
		}
		rp.ServeHTTP(w, r)
	}), nil
}
