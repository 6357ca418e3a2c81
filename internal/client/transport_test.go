package client

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSession is an in-memory Session for transport tests
type mockSession struct {
	mu      sync.Mutex
	token   string
	logouts int
}

func (m *mockSession) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

func (m *mockSession) Logout() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.logouts++
}

func (m *mockSession) Logouts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.logouts
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestAuthTransport_AttachesBearer(t *testing.T) {
	var gotAuth string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer backend.Close()

	sess := &mockSession{token: "T"}
	rt := NewAuthTransport(nil, sess, zerolog.Nop())

	req, err := http.NewRequest(http.MethodGet, backend.URL+"/kanban", nil)
	require.NoError(t, err)

	resp, err := rt.RoundTrip(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "Bearer T", gotAuth)
	assert.Empty(t, req.Header.Get("Authorization"), "caller's request must not be modified")
}

func TestAuthTransport_NoTokenLeavesRequestAlone(t *testing.T) {
	var hadAuth bool
	rt := NewAuthTransport(roundTripFunc(func(r *http.Request) (*http.Response, error) {
		_, hadAuth = r.Header["Authorization"]
		return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody}, nil
	}), &mockSession{}, zerolog.Nop())

	req, err := http.NewRequest(http.MethodGet, "http://backend.test/", nil)
	require.NoError(t, err)

	_, err = rt.RoundTrip(req)
	require.NoError(t, err)
	assert.False(t, hadAuth)
}

func TestAuthTransport_401LogsOut(t *testing.T) {
	sess := &mockSession{token: "expired"}
	rt := NewAuthTransport(roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return &http.Response{StatusCode: http.StatusUnauthorized, Body: http.NoBody}, nil
	}), sess, zerolog.Nop())

	req, err := http.NewRequest(http.MethodGet, "http://backend.test/estudos", nil)
	require.NoError(t, err)

	resp, err := rt.RoundTrip(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "response is handed back unchanged")
	assert.Equal(t, 1, sess.Logouts())
	assert.Empty(t, sess.Token())
}

func TestAuthTransport_OtherStatusesPassThrough(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusForbidden, http.StatusNotFound, http.StatusInternalServerError} {
		sess := &mockSession{token: "T"}
		rt := NewAuthTransport(roundTripFunc(func(r *http.Request) (*http.Response, error) {
			return &http.Response{StatusCode: status, Body: http.NoBody}, nil
		}), sess, zerolog.Nop())

		req, err := http.NewRequest(http.MethodGet, "http://backend.test/", nil)
		require.NoError(t, err)

		resp, err := rt.RoundTrip(req)
		require.NoError(t, err)
		assert.Equal(t, status, resp.StatusCode)
		assert.Zero(t, sess.Logouts(), "status %d must not log out", status)
	}
}

func TestAuthTransport_NetworkErrorPassesThrough(t *testing.T) {
	boom := errors.New("connection reset")
	sess := &mockSession{token: "T"}
	rt := NewAuthTransport(roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return nil, boom
	}), sess, zerolog.Nop())

	req, err := http.NewRequest(http.MethodGet, "http://backend.test/", nil)
	require.NoError(t, err)

	_, err = rt.RoundTrip(req)
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, sess.Logouts())
}
