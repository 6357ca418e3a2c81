// Package client is the single gateway to the MindForge REST API.
//
// Every request goes through an http.RoundTripper that attaches the session's
// bearer token and logs the session out when the backend answers 401.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/matheus05dev/mindforge-front-sub001/internal/session"
)

const defaultTimeout = 30 * time.Second

// Client represents an HTTP client for the MindForge API
type Client struct {
	baseURL    string
	httpClient *http.Client
	transport  http.RoundTripper
	validate   *validator.Validate
	logger     zerolog.Logger
}

// Option configures a Client
type Option func(*options)

type options struct {
	base    http.RoundTripper
	timeout time.Duration
	logger  zerolog.Logger
}

// WithBaseTransport sets the transport the authorizing layer wraps
func WithBaseTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.base = rt }
}

// WithTimeout sets the per-request timeout; zero disables it
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithLogger sets the logger
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// New creates a new API client bound to a session
func New(baseURL string, sess Session, opts ...Option) *Client {
	o := options{timeout: defaultTimeout, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger.With().Str("component", "api-client").Logger()
	transport := NewAuthTransport(o.base, sess, logger)

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   o.timeout,
			Transport: transport,
		},
		transport: transport,
		validate:  validator.New(),
		logger:    logger,
	}
}

// BaseURL returns the backend base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Transport returns the authorizing transport, for callers that need raw
// responses (the /api proxy).
func (c *Client) Transport() http.RoundTripper {
	return c.transport
}

// NewRequest builds a request against the API with the default headers set
func (c *Client) NewRequest(ctx context.Context, method, path string, body interface{}) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return req, nil
}

// Do sends req and decodes a JSON response into out (if non-nil).
// Non-2xx responses are returned as *APIError.
func (c *Client) Do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		return newAPIError(resp.StatusCode, body)
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// AuthenticateRequest represents the login request body
type AuthenticateRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse represents the token returned by login and registration
type AuthResponse struct {
	Token string `json:"token"`
}

// Authenticate exchanges credentials for a bearer token
func (c *Client) Authenticate(ctx context.Context, email, password string) (*AuthResponse, error) {
	return c.postAuth(ctx, "/auth/authenticate", AuthenticateRequest{Email: email, Password: password})
}

// Register creates an account and returns its bearer token
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	return c.postAuth(ctx, "/auth/register", req)
}

func (c *Client) postAuth(ctx context.Context, path string, body interface{}) (*AuthResponse, error) {
	req, err := c.NewRequest(ctx, http.MethodPost, path, body)
	if err != nil {
		return nil, err
	}

	var resp AuthResponse
	if err := c.Do(req, &resp); err != nil {
		return nil, err
	}

	if resp.Token == "" {
		return nil, fmt.Errorf("backend returned an empty token")
	}

	return &resp, nil
}

// Me returns the profile of the authenticated user
func (c *Client) Me(ctx context.Context) (*session.User, error) {
	req, err := c.NewRequest(ctx, http.MethodGet, "/auth/me", nil)
	if err != nil {
		return nil, err
	}

	var user session.User
	if err := c.Do(req, &user); err != nil {
		return nil, err
	}

	if err := c.validate.Struct(&user); err != nil {
		return nil, fmt.Errorf("invalid profile payload: %w", err)
	}

	return &user, nil
}

// FetchProfile implements session.ProfileFetcher
func (c *Client) FetchProfile(ctx context.Context) (*session.User, error) {
	return c.Me(ctx)
}
