package session

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
)

// ErrNoFetcher is reported when FetchUser runs before a ProfileFetcher is attached
var ErrNoFetcher = errors.New("no profile fetcher configured")

// ProfileFetcher issues the authorized profile request
type ProfileFetcher interface {
	FetchProfile(ctx context.Context) (*User, error)
}

// Store holds the current session.
//
// Mutations are applied under a lock and listeners are called in mutation order.
// Concurrent writers follow last-write-wins; there is no versioning of mutations.
type Store struct {
	mu        sync.RWMutex
	state     State
	hydrated  bool
	mutations uint64
	fetcher   ProfileFetcher

	// notifyMu serializes listener calls so they observe mutations in order
	notifyMu  sync.Mutex
	listeners map[int]func(State)
	nextID    int

	logger zerolog.Logger
}

// NewStore creates an empty, not yet hydrated session store
func NewStore(logger zerolog.Logger) *Store {
	return &Store{
		listeners: make(map[int]func(State)),
		logger:    logger.With().Str("component", "session").Logger(),
	}
}

// UseFetcher attaches the profile fetcher used by FetchUser
func (s *Store) UseFetcher(f ProfileFetcher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetcher = f
}

// Snapshot returns a copy of the current state
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Token returns the bearer token, or "" when absent
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token
}

// User returns a copy of the current profile, or nil
func (s *Store) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.User.clone()
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.IsAuthenticated
}

func (s *Store) HasHydrated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hydrated
}

// SetAuth overwrites token and user and marks the session authenticated.
// The token format is not validated. An empty token means no credential, so
// the session is cleared instead.
func (s *Store) SetAuth(token string, user *User) {
	if token == "" {
		s.logger.Warn().Msg("SetAuth called without a token, clearing session")
		s.Logout()
		return
	}

	s.mutate(func(st *State) bool {
		st.Token = token
		st.User = user.clone()
		st.IsAuthenticated = true
		return true
	})
	s.logger.Debug().Bool("placeholder", user.IsPlaceholder()).Msg("Session authenticated")
}

// Logout clears the session. On an already empty session it changes nothing
// and does not notify listeners.
func (s *Store) Logout() {
	cleared := s.mutate(func(st *State) bool {
		if st.Token == "" && st.User == nil && !st.IsAuthenticated {
			return false
		}
		*st = State{}
		return true
	})
	if cleared {
		s.logger.Debug().Msg("Session cleared")
	}
}

// SetHasHydrated marks the restore from durable storage as complete
func (s *Store) SetHasHydrated(hydrated bool) {
	s.mu.Lock()
	s.hydrated = hydrated
	s.mu.Unlock()
}

// Subscribe registers fn to receive a snapshot after every mutation.
// The returned function removes the listener. Listeners must not call Subscribe.
func (s *Store) Subscribe(fn func(State)) func() {
	s.notifyMu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.notifyMu.Unlock()

	return func() {
		s.notifyMu.Lock()
		delete(s.listeners, id)
		s.notifyMu.Unlock()
	}
}

// mutate applies a change and notifies listeners. apply returns false to
// leave the state untouched.
func (s *Store) mutate(apply func(*State) bool) bool {
	s.mu.Lock()
	if !apply(&s.state) {
		s.mu.Unlock()
		return false
	}
	s.mutations++
	snapshot := s.state.clone()

	// Take notifyMu before releasing mu so listeners run in mutation order
	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()

	for _, fn := range s.listeners {
		fn(snapshot.clone())
	}
	return true
}

// syncMutated calls fn with the current state if the store has been mutated,
// ordered with listener calls.
func (s *Store) syncMutated(fn func(State)) {
	s.mu.RLock()
	if s.mutations == 0 {
		s.mu.RUnlock()
		return
	}
	snapshot := s.state.clone()

	s.notifyMu.Lock()
	s.mu.RUnlock()
	defer s.notifyMu.Unlock()

	fn(snapshot)
}

// restore replaces the state with a persisted one, unless the store has
// already been mutated since it was created.
func (s *Store) restore(st State) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mutations > 0 {
		return false
	}
	if st.Token == "" {
		st.IsAuthenticated = false
	}
	s.state = st.clone()
	return true
}

// applyProfile sets user if the session still holds the token the profile was fetched with
func (s *Store) applyProfile(token string, user *User) bool {
	return s.mutate(func(st *State) bool {
		if st.Token != token {
			return false
		}
		st.User = user.clone()
		return true
	})
}

// FetchUser refreshes the profile from the backend.
//
// Without a token it returns immediately without a network call. A failed fetch
// is logged and leaves the current profile in place.
func (s *Store) FetchUser(ctx context.Context) FetchResult {
	s.mu.RLock()
	token := s.state.Token
	fetcher := s.fetcher
	s.mu.RUnlock()

	if token == "" {
		return FetchResult{Status: FetchSkipped}
	}
	if fetcher == nil {
		s.logger.Error().Err(ErrNoFetcher).Msg("Failed to fetch user profile")
		return FetchResult{Status: FetchStale, Err: ErrNoFetcher}
	}

	user, err := fetcher.FetchProfile(ctx)
	if err == nil && user == nil {
		err = errors.New("empty profile response")
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to fetch user profile")
		return FetchResult{Status: FetchStale, Err: err}
	}

	if !s.applyProfile(token, user) {
		s.logger.Debug().Msg("Discarding profile fetched for a session that has since changed")
		return FetchResult{Status: FetchDiscarded}
	}

	return FetchResult{Status: FetchUpdated, User: user.clone()}
}
