package command

import (
	"errors"

	"github.com/spf13/cobra"
)

type forgotPasswordInput struct {
	Email string `validate:"required,email"`
}

func newForgotPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "forgot-password <email>",
		Short: "Request a password reset link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			input := forgotPasswordInput{Email: args[0]}
			if err := checkInput(input); err != nil {
				return err
			}

			app, err := newApp(ctx)
			if err != nil {
				return err
			}
			res := app.mgr.ForgotPassword(ctx, input.Email)
			if !res.Success {
				return errors.New(res.Message)
			}
			cmd.Println(res.Message)
			return nil
		},
	}
}
