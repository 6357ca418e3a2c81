package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/matheus05dev/mindforge-front-sub001/internal/account"
	"github.com/matheus05dev/mindforge-front-sub001/internal/client"
	"github.com/matheus05dev/mindforge-front-sub001/internal/config"
	"github.com/matheus05dev/mindforge-front-sub001/internal/logger"
	"github.com/matheus05dev/mindforge-front-sub001/internal/notify"
	"github.com/matheus05dev/mindforge-front-sub001/internal/session"
	"github.com/matheus05dev/mindforge-front-sub001/internal/storage"
)

// errNotLoggedIn is returned by commands that need a session
var errNotLoggedIn = errors.New("not logged in. Please run 'mindforge login' first")

// env is the session stack shared by one command run
type env struct {
	cfg      *config.Config
	log      zerolog.Logger
	store    *session.Store
	api      *client.Client
	accounts *account.Service
	notifier *notify.Console
	out      io.Writer
	detach   func()
}

// newEnv loads the config, restores the persisted session and wires the
// client and account service around it. Output goes to out.
func newEnv(out io.Writer) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// The CLI stays quiet unless a log level is asked for
	level := cfg.Logging.Level
	if _, ok := os.LookupEnv("LOG_LEVEL"); !ok {
		level = "warn"
	}
	log := logger.Init(level, cfg.Logging.Format)

	backend, err := storage.New(cfg.Session)
	if err != nil {
		return nil, fmt.Errorf("failed to open session storage: %w", err)
	}

	store := session.NewStore(log)
	api := client.New(cfg.API.BaseURL, store,
		client.WithTimeout(cfg.API.RequestTimeout),
		client.WithLogger(log),
	)
	store.UseFetcher(api)

	detach, err := session.Rehydrate(store, backend, log)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to restore persisted session, continuing logged out")
	}

	notifier := notify.NewConsole(out)

	return &env{
		cfg:      cfg,
		log:      log,
		store:    store,
		api:      api,
		accounts: account.NewService(api, store, notifier, log),
		notifier: notifier,
		out:      out,
		detach:   detach,
	}, nil
}

func (e *env) close() {
	if e.detach != nil {
		e.detach()
	}
}

// printUser prints the profile lines shown after login and by whoami
func (e *env) printUser(user *session.User) {
	if user == nil {
		return
	}
	fmt.Fprintf(e.out, "  User: %s (%s)\n", user.DisplayName(), user.Email)
	if user.Role != "" {
		fmt.Fprintf(e.out, "  Role: %s\n", user.Role)
	}
	if user.IsGithubConnected {
		fmt.Fprintln(e.out, "  GitHub: connected")
	}
}
