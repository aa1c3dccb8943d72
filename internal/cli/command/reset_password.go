package command

import (
	"bufio"
	"errors"

	"github.com/spf13/cobra"
)

// resetPasswordInput — входные данные команды reset-password.
// Правила совпадают с формой восстановления исходного приложения.
type resetPasswordInput struct {
	ResetToken      string `validate:"required"`
	Password        string `validate:"required,min=6"`
	ConfirmPassword string `validate:"required,eqfield=Password"`
}

func newResetPasswordCmd() *cobra.Command {
	var input resetPasswordInput

	cmd := &cobra.Command{
		Use:   "reset-password <reset-token>",
		Short: "Set a new password using a reset token",
		Long: `Set a new password using the single-use reset token delivered by the
forgot-password flow. The command never signs the caller in.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			input.ResetToken = args[0]
			reader := bufio.NewReader(cmd.InOrStdin())
			var err error
			if input.Password == "" {
				if input.Password, err = promptLine(cmd, reader, "Nueva contraseña: "); err != nil {
					return err
				}
			}
			if input.ConfirmPassword == "" {
				if input.ConfirmPassword, err = promptLine(cmd, reader, "Confirmar nueva contraseña: "); err != nil {
					return err
				}
			}
			if err := checkInput(input); err != nil {
				return err
			}

			app, err := newApp(ctx)
			if err != nil {
				return err
			}
			res := app.mgr.ResetPassword(ctx, input.ResetToken, input.Password)
			if !res.Success {
				return errors.New(res.Message)
			}
			cmd.Println(res.Message)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input.Password, "password", "p", "", "new password, at least 6 characters (prompted when omitted)")
	cmd.Flags().StringVar(&input.ConfirmPassword, "confirm-password", "", "password confirmation (prompted when omitted)")
	return cmd
}
