package commands

import (
	"bytes"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matheus05dev/mindforge-front-sub001/internal/session"
)

func login(t *testing.T) {
	t.Helper()
	_, err := runCommand(t, NewLoginCmd(), "--email", "ana@mindforge.dev", "--password", "s3cret")
	require.NoError(t, err)
}

func TestWhoami_NotLoggedIn(t *testing.T) {
	api := newMockAPIServer(t, "ana@mindforge.dev", "s3cret")
	setupTestEnvironment(t, api.URL)

	_, err := runCommand(t, NewWhoamiCmd())
	assert.ErrorIs(t, err, errNotLoggedIn)
}

func TestWhoami(t *testing.T) {
	api := newMockAPIServer(t, "ana@mindforge.dev", "s3cret")
	setupTestEnvironment(t, api.URL)
	login(t)

	out, err := runCommand(t, NewWhoamiCmd())
	require.NoError(t, err)
	assert.Contains(t, out, "User: Ana Souza (ana@mindforge.dev)")
}

func TestWhoami_StaleProfileShowsStoredData(t *testing.T) {
	api := newMockAPIServer(t, "ana@mindforge.dev", "s3cret")
	setupTestEnvironment(t, api.URL)
	login(t)

	api.meStatus.Store(http.StatusInternalServerError)

	out, err := runCommand(t, NewWhoamiCmd())
	require.NoError(t, err)
	assert.Contains(t, out, "Could not refresh your profile")
	assert.Contains(t, out, "Ana Souza")
}

func TestWhoami_ExpiredSessionLogsOut(t *testing.T) {
	api := newMockAPIServer(t, "ana@mindforge.dev", "s3cret")
	setupTestEnvironment(t, api.URL)
	login(t)

	api.meStatus.Store(http.StatusUnauthorized)

	_, err := runCommand(t, NewWhoamiCmd())
	assert.ErrorContains(t, err, "session expired")

	// The 401 cleared the persisted session as well
	out, err := runCommand(t, NewStatusCmd())
	require.NoError(t, err)
	assert.Regexp(t, `Authenticated\s+no`, out)
}

func TestLogout(t *testing.T) {
	api := newMockAPIServer(t, "ana@mindforge.dev", "s3cret")
	setupTestEnvironment(t, api.URL)
	login(t)

	out, err := runCommand(t, NewLogoutCmd())
	require.NoError(t, err)
	assert.Contains(t, out, "You have been logged out.")

	out, err = runCommand(t, NewLogoutCmd())
	require.NoError(t, err)
	assert.Contains(t, out, "Not logged in.")

	_, err = runCommand(t, NewWhoamiCmd())
	assert.ErrorIs(t, err, errNotLoggedIn)
}

func TestPrintStatus_TokenExpiry(t *testing.T) {
	api := newMockAPIServer(t, "ana@mindforge.dev", "s3cret")
	setupTestEnvironment(t, api.URL)

	now := time.Now()
	tests := []struct {
		name  string
		token string
		want  string
	}{
		{name: "valid jwt", token: signToken(t, "ana", now.Add(2*time.Hour)), want: "(in 2h0m0s)"},
		{name: "expired jwt", token: signToken(t, "ana", now.Add(-time.Hour)), want: "expired"},
		{name: "opaque token", token: "gh-opaque-token", want: "opaque"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			e, err := newEnv(&out)
			require.NoError(t, err)
			defer e.close()

			e.store.SetAuth(tt.token, &session.User{Email: "ana@mindforge.dev"})
			printStatus(e, now)

			assert.Contains(t, out.String(), tt.want)
		})
	}
}
