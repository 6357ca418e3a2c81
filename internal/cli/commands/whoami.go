package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matheus05dev/mindforge-front-sub001/internal/client"
	"github.com/matheus05dev/mindforge-front-sub001/internal/session"
)

// NewWhoamiCmd creates the whoami command
func NewWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user",
		Long:  "Refresh the profile from the backend and print it. If the refresh fails the stored profile is shown.",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer e.close()

			if !e.store.IsAuthenticated() {
				return errNotLoggedIn
			}

			res := e.store.FetchUser(cmd.Context())
			switch res.Status {
			case session.FetchStale:
				// A 401 has already cleared the session
				if client.IsUnauthorized(res.Err) {
					return fmt.Errorf("session expired. Please run 'mindforge login' again")
				}
				e.notifier.Info("Could not refresh your profile, showing stored data.")
			case session.FetchDiscarded:
				e.notifier.Info("Session changed while refreshing your profile.")
			}

			user := e.store.User()
			if user == nil {
				return errNotLoggedIn
			}
			e.printUser(user)
			return nil
		},
	}
}
