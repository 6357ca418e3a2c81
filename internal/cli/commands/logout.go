package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewLogoutCmd creates the logout command
func NewLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer e.close()

			if !e.store.IsAuthenticated() {
				fmt.Fprintln(e.out, "Not logged in.")
				return nil
			}

			e.accounts.Logout()
			return nil
		},
	}
}
