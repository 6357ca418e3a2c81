package server

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

// newAPIProxy forwards /api/* to the backend through the authorizing
// transport, so proxied calls get the session token and a 401 logs out.
func (s *Server) newAPIProxy() (*httputil.ReverseProxy, error) {
	target, err := url.Parse(s.api.BaseURL())
	if err != nil {
		return nil, fmt.Errorf("invalid API base URL: %w", err)
	}
	if target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("invalid API base URL %q: scheme and host are required", s.api.BaseURL())
	}

	return &httputil.ReverseProxy{
		Rewrite: func(r *httputil.ProxyRequest) {
			r.Out.URL.Path = strings.TrimPrefix(r.Out.URL.Path, "/api")
			r.Out.URL.RawPath = ""
			r.SetURL(target)
			r.SetXForwarded()

			// Only the session's token reaches the backend
			r.Out.Header.Del("Authorization")
			r.Out.Header.Del("Cookie")
		},
		Transport: s.api.Transport(),
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("API proxy error")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte(`{"error":"Backend unavailable"}`))
		},
	}, nil
}

func (s *Server) proxyAPI(c *gin.Context) {
	s.proxy.ServeHTTP(c.Writer, c.Request)
}
