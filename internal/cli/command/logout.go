package command

import (
	"github.com/spf13/cobra"
)

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Close the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			app, err := newApp(ctx)
			if err != nil {
				return err
			}
			// Logout всегда успешен и идемпотентен.
			app.mgr.Logout(ctx)
			cmd.Println("Sesión cerrada")
			return nil
		},
	}
}
