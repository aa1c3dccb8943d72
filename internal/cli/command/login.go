package command

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// loginInput — входные данные команды login. Пароль без ограничения длины:
// его проверяет сервис при входе.
type loginInput struct {
	EmailOrUsername string `validate:"required"`
	Password        string `validate:"required"`
}

func newLoginCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login <email-or-username>",
		Short: "Sign in to the authentication service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if password == "" {
				var err error
				password, err = promptLine(cmd, bufio.NewReader(cmd.InOrStdin()), "Contraseña: ")
				if err != nil {
					return err
				}
			}
			input := loginInput{EmailOrUsername: args[0], Password: password}
			if err := checkInput(input); err != nil {
				return err
			}

			app, err := newApp(ctx)
			if err != nil {
				return err
			}
			res := app.mgr.Login(ctx, input.EmailOrUsername, input.Password)
			if !res.Success {
				return errors.New(res.Message)
			}

			cmd.Println(res.Message)
			cmd.Printf("¡Bienvenido, %s!\n", app.mgr.Snapshot().User.DisplayName())
			return nil
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when omitted)")
	return cmd
}

// promptLine печатает приглашение и читает строку со стандартного ввода команды.
func promptLine(cmd *cobra.Command, r *bufio.Reader, prompt string) (string, error) {
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	line, err := r.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
