package commands

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matheus05dev/mindforge-front-sub001/internal/session"
)

var labelStyle = lipgloss.NewStyle().Bold(true).Width(16)

// NewStatusCmd creates the status command
func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the stored session without contacting the backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer e.close()

			printStatus(e, time.Now())
			return nil
		},
	}
}

func printStatus(e *env, now time.Time) {
	st := e.store.Snapshot()

	line := func(label, value string) {
		fmt.Fprintln(e.out, labelStyle.Render(label)+value)
	}

	line("API", e.api.BaseURL())
	line("Storage", e.cfg.Session.Storage)
	line("Hydrated", yesNo(e.store.HasHydrated()))
	line("Authenticated", yesNo(st.IsAuthenticated))

	if !st.IsAuthenticated {
		return
	}
	if st.User != nil {
		line("User", st.User.DisplayName())
		line("Email", st.User.Email)
	}

	expiresAt, ok, err := session.TokenExpiry(st.Token)
	switch {
	case err != nil:
		line("Token", "opaque")
	case !ok:
		line("Token", "no expiry")
	case expiresAt.Before(now):
		line("Token", fmt.Sprintf("expired %s", expiresAt.Local().Format(time.RFC3339)))
	default:
		line("Token", fmt.Sprintf("expires %s (in %s)", expiresAt.Local().Format(time.RFC3339), expiresAt.Sub(now).Round(time.Minute)))
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
