package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockFetcher records calls and returns a canned profile or error
type mockFetcher struct {
	mu    sync.Mutex
	calls int
	user  *User
	err   error
	// before runs inside FetchProfile, e.g. to race a logout
	before func()
}

func (m *mockFetcher) FetchProfile(ctx context.Context) (*User, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.before != nil {
		m.before()
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.user, nil
}

func (m *mockFetcher) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func newTestStore() *Store {
	return NewStore(zerolog.Nop())
}

func TestStore_SetAuthThenLogout(t *testing.T) {
	users := []*User{
		nil,
		{Email: "ana@mindforge.dev"},
		{Email: "ana@mindforge.dev", Name: "Ana", Role: "ADMIN", AvatarURL: "https://x/a.png", IsGithubConnected: true},
		PlaceholderUser(),
	}

	for _, u := range users {
		store := newTestStore()

		store.SetAuth("tok-1", u)
		assert.True(t, store.IsAuthenticated())
		assert.Equal(t, "tok-1", store.Token())
		assert.Equal(t, u, store.User())

		store.Logout()
		assert.False(t, store.IsAuthenticated())
		assert.Empty(t, store.Token())
		assert.Nil(t, store.User())
	}
}

func TestStore_LogoutIsIdempotent(t *testing.T) {
	store := newTestStore()

	store.Logout()
	store.Logout()

	assert.Equal(t, State{}, store.Snapshot())
}

func TestStore_SetAuthWithoutTokenClearsSession(t *testing.T) {
	store := newTestStore()

	store.SetAuth("", &User{Email: "a@x.dev"})
	assert.Equal(t, State{}, store.Snapshot())

	store.SetAuth("tok", &User{Email: "a@x.dev"})
	store.SetAuth("", &User{Email: "a@x.dev"})
	assert.False(t, store.IsAuthenticated())
	assert.Empty(t, store.Token())
	assert.Nil(t, store.User())
}

func TestStore_SetAuthCopiesUser(t *testing.T) {
	store := newTestStore()
	u := &User{Email: "ana@mindforge.dev"}

	store.SetAuth("tok", u)
	u.Email = "changed@mindforge.dev"

	assert.Equal(t, "ana@mindforge.dev", store.User().Email)
}

func TestStore_FetchUser_NoToken(t *testing.T) {
	store := newTestStore()
	fetcher := &mockFetcher{user: &User{Email: "ana@mindforge.dev"}}
	store.UseFetcher(fetcher)

	before := store.Snapshot()
	res := store.FetchUser(context.Background())

	assert.Equal(t, FetchSkipped, res.Status)
	assert.Zero(t, fetcher.Calls(), "no network call without a token")
	assert.Equal(t, before, store.Snapshot())
}

func TestStore_FetchUser_ReplacesPlaceholder(t *testing.T) {
	store := newTestStore()
	profile := &User{Email: "ana@mindforge.dev", Name: "Ana"}
	store.UseFetcher(&mockFetcher{user: profile})

	store.SetAuth("abc123", PlaceholderUser())
	res := store.FetchUser(context.Background())

	require.Equal(t, FetchUpdated, res.Status)
	assert.Equal(t, profile, res.User)
	assert.Equal(t, profile, store.User())
	assert.True(t, store.IsAuthenticated())
}

func TestStore_FetchUser_FailureKeepsProfile(t *testing.T) {
	store := newTestStore()
	store.UseFetcher(&mockFetcher{err: errors.New("connection refused")})

	store.SetAuth("abc123", PlaceholderUser())
	res := store.FetchUser(context.Background())

	assert.True(t, res.Stale())
	assert.EqualError(t, res.Err, "connection refused")
	assert.True(t, store.User().IsPlaceholder(), "stale profile is preserved")
	assert.Equal(t, "abc123", store.Token())
}

func TestStore_FetchUser_WithoutFetcher(t *testing.T) {
	store := newTestStore()
	store.SetAuth("abc123", nil)

	res := store.FetchUser(context.Background())

	assert.Equal(t, FetchStale, res.Status)
	assert.ErrorIs(t, res.Err, ErrNoFetcher)
}

func TestStore_FetchUser_DiscardedAfterLogout(t *testing.T) {
	store := newTestStore()
	fetcher := &mockFetcher{user: &User{Email: "ana@mindforge.dev"}}
	fetcher.before = store.Logout
	store.UseFetcher(fetcher)

	store.SetAuth("abc123", PlaceholderUser())
	res := store.FetchUser(context.Background())

	assert.Equal(t, FetchDiscarded, res.Status)
	assert.Nil(t, store.User(), "profile must not reappear after logout")
	assert.False(t, store.IsAuthenticated())
}

func TestStore_FetchUser_NotDeduplicated(t *testing.T) {
	store := newTestStore()
	fetcher := &mockFetcher{user: &User{Email: "ana@mindforge.dev"}}
	store.UseFetcher(fetcher)
	store.SetAuth("abc123", nil)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.FetchUser(context.Background())
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, fetcher.Calls())
	assert.Equal(t, "ana@mindforge.dev", store.User().Email)
}

func TestStore_SubscribeSeesMutationsInOrder(t *testing.T) {
	store := newTestStore()

	var seen []State
	unsubscribe := store.Subscribe(func(st State) {
		seen = append(seen, st)
	})

	store.SetAuth("t1", &User{Email: "a@x.dev"})
	store.Logout()
	unsubscribe()
	store.SetAuth("t2", nil)

	require.Len(t, seen, 2)
	assert.Equal(t, "t1", seen[0].Token)
	assert.True(t, seen[0].IsAuthenticated)
	assert.Equal(t, State{}, seen[1])
}

func TestStore_HydrationFlag(t *testing.T) {
	store := newTestStore()
	assert.False(t, store.HasHydrated())

	store.SetHasHydrated(true)
	assert.True(t, store.HasHydrated())
}

func TestStore_LogoutOnEmptySessionDoesNotNotify(t *testing.T) {
	store := newTestStore()

	var calls int
	store.Subscribe(func(State) { calls++ })

	store.Logout()
	assert.Zero(t, calls)

	store.SetAuth("t", nil)
	store.Logout()
	store.Logout()
	assert.Equal(t, 2, calls)
}
