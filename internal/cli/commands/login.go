package commands

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/matheus05dev/mindforge-front-sub001/internal/account"
	"github.com/matheus05dev/mindforge-front-sub001/internal/oauth"
)

const callbackPath = "/auth/callback"

// NewLoginCmd creates the login command
func NewLoginCmd() *cobra.Command {
	var email, password string
	var github bool
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to MindForge",
		Long: `Log in with email and password, or with GitHub.

With --github the CLI prints the GitHub authorization URL and waits for the
backend to redirect the browser back to the local callback address.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer e.close()

			if github {
				return runGitHubLogin(cmd.Context(), e, timeout)
			}
			return runLogin(cmd.Context(), e, email, password)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (or set MINDFORGE_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set MINDFORGE_PASSWORD, will prompt if not provided)")
	cmd.Flags().BoolVar(&github, "github", false, "Log in with GitHub in the browser")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "How long to wait for the GitHub callback")

	return cmd
}

func runLogin(ctx context.Context, e *env, email, password string) error {
	// Check for environment variables (useful for CI/CD)
	if email == "" {
		email = os.Getenv("MINDFORGE_EMAIL")
	}
	if password == "" {
		password = os.Getenv("MINDFORGE_PASSWORD")
	}

	interactive := term.IsTerminal(int(os.Stdin.Fd()))

	if email == "" {
		if !interactive {
			return fmt.Errorf("email is required (use --email flag or MINDFORGE_EMAIL env var)")
		}
		prompt := promptui.Prompt{
			Label: "Email",
			Validate: func(s string) error {
				if !strings.Contains(s, "@") {
					return errors.New("enter a valid email address")
				}
				return nil
			},
		}
		value, err := prompt.Run()
		if err != nil {
			return fmt.Errorf("failed to read email: %w", err)
		}
		email = strings.TrimSpace(value)
	}

	if password == "" {
		if !interactive {
			return fmt.Errorf("password is required in non-interactive mode (use --password flag or MINDFORGE_PASSWORD env var)")
		}
		fmt.Fprint(e.out, "Password: ")
		bytePassword, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(e.out)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		password = string(bytePassword)
	}

	fmt.Fprintf(e.out, "Logging in to %s...\n", e.api.BaseURL())

	if _, err := e.accounts.Login(ctx, account.LoginInput{Email: email, Password: password}); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	e.printUser(e.store.User())
	return nil
}

func runGitHubLogin(ctx context.Context, e *env, timeout time.Duration) error {
	ln, err := net.Listen("tcp", e.cfg.Server.CallbackAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", e.cfg.Server.CallbackAddress, err)
	}

	fmt.Fprintln(e.out, "Open this URL in your browser to log in with GitHub:")
	fmt.Fprintf(e.out, "  %s\n", e.cfg.API.GitHubAuthURL)
	fmt.Fprintf(e.out, "Waiting for the callback on http://%s%s ...\n", ln.Addr(), callbackPath)

	outcome, err := awaitCallback(ctx, ln, e, timeout)
	if err != nil {
		return err
	}
	if outcome.State != oauth.Complete {
		return errors.New("GitHub login failed")
	}

	e.printUser(e.store.User())
	return nil
}

// awaitCallback serves the OAuth callback on ln until the first callback
// finishes, the timeout passes or ctx is cancelled. ln is closed on return.
func awaitCallback(ctx context.Context, ln net.Listener, e *env, timeout time.Duration) (oauth.Outcome, error) {
	cb := oauth.NewCallback(e.store, e.notifier, e.log)
	done := make(chan oauth.Outcome, 1)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.GET(callbackPath, func(c *gin.Context) {
		outcome := cb.Handle(c.Request.Context(), c.Request.URL.Query())

		if outcome.State == oauth.Complete {
			c.String(http.StatusOK, "Logged in to MindForge. You can close this window.\n")
		} else {
			c.String(http.StatusBadRequest, oauth.MsgTokenMissing+"\n")
		}

		select {
		case done <- outcome:
		default:
		}
	})

	srv := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			e.log.Warn().Err(err).Msg("Failed to stop callback listener")
		}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case outcome := <-done:
		return outcome, nil
	case err := <-errChan:
		return oauth.Outcome{}, fmt.Errorf("callback listener failed: %w", err)
	case <-timer.C:
		return oauth.Outcome{}, fmt.Errorf("timed out after %s waiting for the GitHub callback", timeout)
	case <-ctx.Done():
		return oauth.Outcome{}, ctx.Err()
	}
}
