package command

import (
	"bufio"
	"errors"

	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/session-client/internal/authapi"
)

// registerInput — входные данные команды register. Правила повторяют
// форму регистрации исходного приложения: пароль от 6 символов и
// обязательное подтверждение.
type registerInput struct {
	Username        string `validate:"required,min=3,max=50"`
	FullName        string `validate:"omitempty"`
	Email           string `validate:"required,email"`
	Password        string `validate:"required,min=6"`
	ConfirmPassword string `validate:"required,eqfield=Password"`
}

func newRegisterCmd() *cobra.Command {
	var input registerInput

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account and sign in",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			reader := bufio.NewReader(cmd.InOrStdin())
			var err error
			if input.Password == "" {
				if input.Password, err = promptLine(cmd, reader, "Contraseña: "); err != nil {
					return err
				}
			}
			if input.ConfirmPassword == "" {
				if input.ConfirmPassword, err = promptLine(cmd, reader, "Confirmar contraseña: "); err != nil {
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
			res := app.mgr.Register(ctx, authapi.RegisterRequest{
				Username: input.Username,
				FullName: input.FullName,
				Email:    input.Email,
				Password: input.Password,
			})
			if !res.Success {
				return errors.New(res.Message)
			}

			cmd.Println(res.Message)
			cmd.Printf("¡Bienvenido, %s!\n", app.mgr.Snapshot().User.DisplayName())
			return nil
		},
	}

	cmd.Flags().StringVarP(&input.Username, "username", "u", "", "username (3-50 characters)")
	cmd.Flags().StringVar(&input.FullName, "full-name", "", "full name (optional)")
	cmd.Flags().StringVarP(&input.Email, "email", "e", "", "email address")
	cmd.Flags().StringVarP(&input.Password, "password", "p", "", "password, at least 6 characters (prompted when omitted)")
	cmd.Flags().StringVar(&input.ConfirmPassword, "confirm-password", "", "password confirmation (prompted when omitted)")
	return cmd
}
