// Package account implements credential login, registration and logout on top
// of the session store and the API client.
package account

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/matheus05dev/mindforge-front-sub001/internal/client"
	"github.com/matheus05dev/mindforge-front-sub001/internal/notify"
	"github.com/matheus05dev/mindforge-front-sub001/internal/session"
)

// Messages shown to the user
const (
	MsgInvalidCredentials = "Invalid email or password."
	MsgLoginFailed        = "Could not log in. Please try again."
	MsgRegisterFailed     = "Could not create the account. Please try again."
	MsgEmailTaken         = "This email is already registered."
	MsgLoggedOut          = "You have been logged out."
	MsgProfileStale       = "Logged in, but your profile could not be loaded yet."
)

// ErrInvalidInput wraps validation failures raised before any network call
var ErrInvalidInput = errors.New("invalid input")

// API is the subset of the client used by account flows
type API interface {
	Authenticate(ctx context.Context, email, password string) (*client.AuthResponse, error)
	Register(ctx context.Context, req client.RegisterRequest) (*client.AuthResponse, error)
}

// Session is the subset of the session store used by account flows
type Session interface {
	SetAuth(token string, user *session.User)
	Logout()
	FetchUser(ctx context.Context) session.FetchResult
}

// LoginInput is the credential form
type LoginInput struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

// RegisterInput is the registration form
type RegisterInput struct {
	Name     string `form:"name" validate:"required,max=120"`
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,min=6"`
}

// Service runs the account flows
type Service struct {
	api      API
	session  Session
	notifier notify.Notifier
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewService creates a new account service
func NewService(api API, sess Session, notifier notify.Notifier, logger zerolog.Logger) *Service {
	return &Service{
		api:      api,
		session:  sess,
		notifier: notifier,
		validate: validator.New(),
		logger:   logger.With().Str("component", "account").Logger(),
	}
}

// Login authenticates with credentials. On rejection the session is left as is
// and the user is notified; the caller keeps the form open for a retry.
func (s *Service) Login(ctx context.Context, in LoginInput) (session.FetchResult, error) {
	if err := s.validate.Struct(&in); err != nil {
		s.notifier.Error(MsgInvalidCredentials)
		return session.FetchResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	resp, err := s.api.Authenticate(ctx, in.Email, in.Password)
	if err != nil {
		s.logger.Warn().Err(err).Str("email", in.Email).Msg("Login rejected")
		if client.IsUnauthorized(err) || client.StatusCode(err) == http.StatusForbidden {
			s.notifier.Error(MsgInvalidCredentials)
		} else {
			s.notifier.Error(MsgLoginFailed)
		}
		return session.FetchResult{}, fmt.Errorf("login failed: %w", err)
	}

	return s.establish(ctx, resp.Token, in.Email, "Welcome back!"), nil
}

// Register creates an account and logs it in
func (s *Service) Register(ctx context.Context, in RegisterInput) (session.FetchResult, error) {
	if err := s.validate.Struct(&in); err != nil {
		s.notifier.Error("Please fill in name, a valid email and a password of at least 6 characters.")
		return session.FetchResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	resp, err := s.api.Register(ctx, client.RegisterRequest{
		Name:     in.Name,
		Email:    in.Email,
		Password: in.Password,
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("email", in.Email).Msg("Registration rejected")
		if client.StatusCode(err) == http.StatusConflict {
			s.notifier.Error(MsgEmailTaken)
		} else {
			s.notifier.Error(MsgRegisterFailed)
		}
		return session.FetchResult{}, fmt.Errorf("registration failed: %w", err)
	}

	return s.establish(ctx, resp.Token, in.Email, "Account created!"), nil
}

// establish seeds the session with the locally known profile and refreshes it
func (s *Service) establish(ctx context.Context, token, email, welcome string) session.FetchResult {
	s.session.SetAuth(token, &session.User{Email: email})
	s.logger.Info().Str("email", email).Msg("User logged in")

	res := s.session.FetchUser(ctx)
	s.notifier.Success(welcome)
	if res.Stale() {
		s.notifier.Info(MsgProfileStale)
	}
	return res
}

// Logout clears the session
func (s *Service) Logout() {
	s.session.Logout()
	s.notifier.Success(MsgLoggedOut)
	s.logger.Info().Msg("User logged out")
}
