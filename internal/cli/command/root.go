// Package command реализует команды CLI-клиента сервиса аутентификации.
//
// Каждая команда — аналог страницы исходного приложения: на старте
// загружается конфиг, строится менеджер сессии и выполняется восстановление
// сессии из сохраненного токена, затем команда вызывает свою операцию и
// печатает результат. Валидация ввода живет здесь: ядро сессии ее не делает.
package command

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/session-client/internal/authapi"
	"github.com/magabrotheeeer/session-client/internal/config"
	"github.com/magabrotheeeer/session-client/internal/credstore"
	"github.com/magabrotheeeer/session-client/internal/session"
)

// NewRootCmd собирает корневую команду со всеми подкомандами.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "session-client",
		Short:         "Client for the remote authentication service",
		Long: `session-client authenticates against the remote authentication service,
keeps the bearer credential across invocations and exposes the current
identity. Configuration comes from CONFIG_PATH (YAML) or environment
variables; see internal/config.`,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(
		newLoginCmd(),
		newRegisterCmd(),
		newLogoutCmd(),
		newWhoamiCmd(),
		newForgotPasswordCmd(),
		newResetPasswordCmd(),
	)
	return root
}

// app объединяет зависимости одной команды.
type app struct {
	cfg *config.Config
	log *slog.Logger
	mgr *session.Manager
}

// newApp строит менеджер сессии и выполняет восстановление сессии —
// эквивалент загрузки страницы в исходном приложении.
func newApp(ctx context.Context) (*app, error) {
	const op = "command.newApp"

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	logger := newLogger(cfg.Env)

	store, err := newStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// Клиент читает токен из менеджера; замыкание разрывает цикл создания.
	var mgr *session.Manager
	client := authapi.New(cfg.APIClient, func() string { return mgr.Token() }, logger)
	mgr, err = session.New(ctx, logger, client, store)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	mgr.LoadUser(ctx)

	return &app{cfg: cfg, log: logger, mgr: mgr}, nil
}

func newLogger(env string) *slog.Logger {
	level := slog.LevelWarn
	if env == "local" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func newStore(ctx context.Context, cfg *config.Config) (credstore.Store, error) {
	switch cfg.CredentialStore.Backend {
	case "", "file":
		return credstore.NewFileStore(cfg.CredentialStore.FilePath)
	case "redis":
		return credstore.NewRedisStore(ctx, cfg.RedisConnection)
	default:
		return nil, fmt.Errorf("unknown credential store backend %q", cfg.CredentialStore.Backend)
	}
}
