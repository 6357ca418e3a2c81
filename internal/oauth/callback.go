// Package oauth completes a third-party login from the token the backend
// appends to the callback URL.
package oauth

import (
	"context"
	"net/url"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/matheus05dev/mindforge-front-sub001/internal/guard"
	"github.com/matheus05dev/mindforge-front-sub001/internal/notify"
	"github.com/matheus05dev/mindforge-front-sub001/internal/session"
)

// TokenParam is the query parameter carrying the bearer token
const TokenParam = "token"

// Messages shown to the user
const (
	MsgTokenMissing = "Authentication failed: no token received from GitHub."
	MsgLoggedIn     = "Logged in with GitHub."
)

// State of a callback
type State int

const (
	AwaitingToken State = iota
	Seeded
	Complete
	Failed
)

func (s State) String() string {
	switch s {
	case AwaitingToken:
		return "awaiting_token"
	case Seeded:
		return "seeded"
	case Complete:
		return "complete"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Session is the part of the session store the callback drives
type Session interface {
	SetAuth(token string, user *session.User)
	FetchUser(ctx context.Context) session.FetchResult
}

// Outcome is the terminal result of a callback
type Outcome struct {
	State    State
	Redirect string
	Fetch    session.FetchResult
}

// Callback handles one OAuth redirect. It reaches a terminal state once;
// later calls to Handle return the same outcome without side effects.
type Callback struct {
	session  Session
	notifier notify.Notifier
	logger   zerolog.Logger

	// mu is held for the whole protocol run; state is readable meanwhile
	mu      sync.Mutex
	state   atomic.Int32
	outcome *Outcome
}

// NewCallback creates a callback in the AwaitingToken state
func NewCallback(sess Session, notifier notify.Notifier, logger zerolog.Logger) *Callback {
	return &Callback{
		session:  sess,
		notifier: notifier,
		logger:   logger.With().Str("component", "oauth-callback").Logger(),
	}
}

// State returns the current state
func (c *Callback) State() State {
	return State(c.state.Load())
}

func (c *Callback) setState(s State) {
	c.state.Store(int32(s))
}

// Handle runs the callback protocol against the callback URL's query.
//
// With a token the session is seeded with a placeholder profile, the profile
// fetch runs, and the outcome redirects home whether or not the fetch
// succeeded. Without a token nothing is mutated and the outcome redirects to login.
func (c *Callback) Handle(ctx context.Context, query url.Values) Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.outcome != nil {
		return *c.outcome
	}

	token := query.Get(TokenParam)
	if token == "" {
		c.setState(Failed)
		c.logger.Warn().Msg("OAuth callback without token")
		c.notifier.Error(MsgTokenMissing)
		return c.finish(Outcome{State: Failed, Redirect: guard.LoginPath})
	}

	c.session.SetAuth(token, session.PlaceholderUser())
	c.setState(Seeded)
	c.logger.Debug().Msg("Session seeded from OAuth token")

	res := c.session.FetchUser(ctx)
	if res.Stale() {
		c.logger.Warn().Err(res.Err).Msg("Profile fetch failed after OAuth login, keeping placeholder")
	}

	c.setState(Complete)
	c.notifier.Success(MsgLoggedIn)
	return c.finish(Outcome{State: Complete, Redirect: guard.HomePath, Fetch: res})
}

func (c *Callback) finish(o Outcome) Outcome {
	c.outcome = &o
	return o
}
