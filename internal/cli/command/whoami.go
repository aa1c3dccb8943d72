package command

import (
	"errors"

	"github.com/spf13/cobra"
)

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current user profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			app, err := newApp(ctx)
			if err != nil {
				return err
			}
			st := app.mgr.Snapshot()
			if !st.IsAuthenticated {
				if st.Err != "" {
					return errors.New(st.Err)
				}
				return errors.New("no hay una sesión activa")
			}

			user := st.User
			cmd.Printf("¡Bienvenido, %s!\n", user.DisplayName())
			cmd.Printf("Email: %s\n", user.Email)
			cmd.Printf("Nombre de Usuario: %s\n", user.Username)
			if user.FullName != "" {
				cmd.Printf("Nombre Completo: %s\n", user.FullName)
			}
			if user.RegisteredAt != nil {
				cmd.Printf("Fecha de Registro: %s\n", user.RegisteredAt.Format("02/01/2006"))
			}
			if user.LastSeenAt != nil {
				cmd.Printf("Última Conexión: %s\n", user.LastSeenAt.Format("02/01/2006 15:04:05"))
			}
			return nil
		},
	}
}
