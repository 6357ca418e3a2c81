package client

import (
	"net/http"

	"github.com/rs/zerolog"
)

const bearerPrefix = "Bearer "

// Session is the part of the session store the transport needs
type Session interface {
	Token() string
	Logout()
}

// authTransport attaches the bearer token to outgoing requests and clears
// the session when the backend answers 401. Responses and errors are
// returned to the caller unchanged.
type authTransport struct {
	base    http.RoundTripper
	session Session
	logger  zerolog.Logger
}

// NewAuthTransport wraps base with bearer injection and 401 handling
func NewAuthTransport(base http.RoundTripper, session Session, logger zerolog.Logger) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return &authTransport{base: base, session: session, logger: logger}
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if token := t.session.Token(); token != "" {
		// RoundTrippers must not modify the caller's request
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", bearerPrefix+token)
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		t.logger.Warn().
			Str("method", req.Method).
			Str("path", req.URL.Path).
			Msg("Backend rejected the session, logging out")
		t.session.Logout()
	}

	return resp, nil
}
