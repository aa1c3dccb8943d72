// Package session реализует менеджер сессии аутентификации.
//
// Менеджер владеет состоянием сессии, выполняет все обращения к сервису
// аутентификации, синхронизирует токен с долговременным хранилищем и
// уведомляет подписчиков об изменениях состояния. Ожидаемые сбои никогда
// не покидают границу пакета как ошибки: каждая публичная операция
// возвращает структурированный Result.
package session

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/magabrotheeeer/session-client/internal/authapi"
	"github.com/magabrotheeeer/session-client/internal/credstore"
	"github.com/magabrotheeeer/session-client/internal/lib/sl"
	"github.com/magabrotheeeer/session-client/internal/models"
)

// Сообщения по умолчанию, когда сервис не вернул собственное сообщение.
const (
	msgLoginFailed    = "Error al iniciar sesión"
	msgRegisterFailed = "Error al registrarse"
	msgForgotFailed   = "Error al solicitar restablecimiento"
	msgResetFailed    = "Error al restablecer contraseña"
	msgInvalidToken   = "Token inválido"
	msgSessionClosed  = "Sesión cerrada"
)

// API описывает операции сервиса аутентификации, необходимые менеджеру.
type API interface {
	Login(ctx context.Context, emailOrUsername, password string) (*authapi.Credentials, string, error)
	Register(ctx context.Context, data authapi.RegisterRequest) (*authapi.Credentials, string, error)
	Profile(ctx context.Context) (*models.User, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, resetToken, password string) (string, error)
}

// Result представляет структурированный итог операции для слоя представления.
type Result struct {
	Success bool
	Message string
}

// Manager — единственный владелец состояния сессии. Создается один раз
// на старте приложения и передается всем потребителям явно.
type Manager struct {
	log   *slog.Logger
	api   API
	store credstore.Store

	mu    sync.Mutex
	state State
	gen   uint64 // поколение сессии, logout делает устаревшими незавершенные входы
	subs  []func(State)
}

// New создает менеджер, затравливая состояние токеном из хранилища.
// Пока LoadUser не завершит восстановление, Loading == true.
func New(ctx context.Context, log *slog.Logger, api API, store credstore.Store) (*Manager, error) {
	const op = "session.New"
	token, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	log.Debug("session seeded from store", slog.String("op", op), sl.Secret("token", token))
	return &Manager{
		log:   log,
		api:   api,
		store: store,
		state: State{Token: token, Loading: true},
	}, nil
}

// Snapshot возвращает текущее состояние сессии.
func (m *Manager) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Token возвращает текущий токен сессии. Используется клиентом API
// для прикладывания заголовка Authorization к каждому запросу.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Token
}

// Subscribe регистрирует подписчика, вызываемого после каждого перехода.
// Подписчик получает готовый снимок и не должен мутировать состояние.
func (m *Manager) Subscribe(fn func(State)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, fn)
}

// dispatch вычисляет следующее состояние и уведомляет подписчиков.
// Подписчики вызываются вне блокировки, каждый видит целостный снимок.
func (m *Manager) dispatch(ev Event) State {
	m.mu.Lock()
	m.state = reduce(m.state, ev)
	st := m.state
	subs := slices.Clone(m.subs)
	m.mu.Unlock()

	for _, fn := range subs {
		fn(st)
	}
	return st
}

// generation возвращает текущее поколение сессии.
func (m *Manager) generation() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gen
}

// stale сообщает, что операция, начатая в поколении gen, устарела:
// с тех пор случился logout, и ее завершение не должно менять состояние.
func (m *Manager) stale(gen uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gen != gen
}

// persist сохраняет токен в хранилище после применения состояния.
func (m *Manager) persist(ctx context.Context, log *slog.Logger, token string) {
	if err := m.store.Save(ctx, token); err != nil {
		log.Error("failed to persist credential", sl.Err(err))
	}
}

// clearStored удаляет токен из хранилища после применения состояния.
func (m *Manager) clearStored(ctx context.Context, log *slog.Logger) {
	if err := m.store.Clear(ctx); err != nil {
		log.Error("failed to clear stored credential", sl.Err(err))
	}
}

// LoadUser восстанавливает сессию из сохраненного токена. Вызывается один
// раз на старте приложения. Любой сбой детерминированно удаляет токен из
// хранилища, чтобы восстановление не повторялось при каждом запуске.
func (m *Manager) LoadUser(ctx context.Context) {
	const op = "session.LoadUser"
	log := m.log.With(slog.String("op", op))

	if m.Token() == "" {
		m.dispatch(loadingSet{loading: false})
		return
	}

	gen := m.generation()
	user, err := m.api.Profile(ctx)
	if err != nil {
		if m.stale(gen) {
			log.Debug("session restoration superseded by logout")
			return
		}
		log.Warn("session restoration failed", sl.Err(err))
		m.dispatch(authFailed{message: msgInvalidToken})
		m.clearStored(ctx, log)
		return
	}
	if m.stale(gen) {
		log.Debug("session restoration superseded by logout")
		return
	}
	if user == nil {
		log.Warn("profile response missing user")
		m.dispatch(authFailed{message: msgInvalidToken})
		m.clearStored(ctx, log)
		return
	}
	m.dispatch(userLoaded{user: user})
	log.Info("session restored", slog.String("username", user.Username))
}

// Login выполняет вход по email или имени пользователя. При успехе токен
// сохраняется в хранилище, при сбое прежний токен удаляется. Вход,
// завершившийся после Logout, не меняет состояние и считается неуспешным.
func (m *Manager) Login(ctx context.Context, emailOrUsername, password string) Result {
	const op = "session.Login"
	log := m.log.With(slog.String("op", op))

	gen := m.generation()
	m.dispatch(loadingSet{loading: true})
	m.dispatch(errorCleared{})

	creds, msg, err := m.api.Login(ctx, emailOrUsername, password)
	if err != nil {
		message := failureMessage(err, msgLoginFailed)
		if m.stale(gen) {
			log.Debug("login settled after logout, result discarded")
			return Result{Success: false, Message: message}
		}
		log.Warn("login failed", sl.Err(err))
		m.dispatch(authFailed{message: message})
		m.clearStored(ctx, log)
		return Result{Success: false, Message: message}
	}
	if m.stale(gen) {
		// Сессия закрыта во время входа: состояние не трогаем, токен не сохраняем.
		log.Info("login settled after logout, credential not persisted")
		return Result{Success: false, Message: msgSessionClosed}
	}
	if creds == nil || creds.User == nil || creds.Token == "" {
		log.Warn("login response missing user or token")
		m.dispatch(authFailed{message: msgLoginFailed})
		m.clearStored(ctx, log)
		return Result{Success: false, Message: msgLoginFailed}
	}
	m.dispatch(loginSucceeded{user: creds.User, token: creds.Token})
	m.persist(ctx, log, creds.Token)
	log.Info("login succeeded", slog.String("username", creds.User.Username))
	return Result{Success: true, Message: msg}
}

// Register создает учетную запись. Контракт совпадает с Login.
func (m *Manager) Register(ctx context.Context, data authapi.RegisterRequest) Result {
	const op = "session.Register"
	log := m.log.With(slog.String("op", op))

	gen := m.generation()
	m.dispatch(loadingSet{loading: true})
	m.dispatch(errorCleared{})

	creds, msg, err := m.api.Register(ctx, data)
	if err != nil {
		message := failureMessage(err, msgRegisterFailed)
		if m.stale(gen) {
			log.Debug("register settled after logout, result discarded")
			return Result{Success: false, Message: message}
		}
		log.Warn("register failed", sl.Err(err))
		m.dispatch(authFailed{message: message})
		m.clearStored(ctx, log)
		return Result{Success: false, Message: message}
	}
	if m.stale(gen) {
		log.Info("register settled after logout, credential not persisted")
		return Result{Success: false, Message: msgSessionClosed}
	}
	if creds == nil || creds.User == nil || creds.Token == "" {
		log.Warn("register response missing user or token")
		m.dispatch(authFailed{message: msgRegisterFailed})
		m.clearStored(ctx, log)
		return Result{Success: false, Message: msgRegisterFailed}
	}
	m.dispatch(loginSucceeded{user: creds.User, token: creds.Token})
	m.persist(ctx, log, creds.Token)
	log.Info("register succeeded", slog.String("username", creds.User.Username))
	return Result{Success: true, Message: msg}
}

// Logout завершает сессию: очищает состояние и хранилище. Всегда успешен
// и идемпотентен; делает устаревшими все незавершенные входы.
func (m *Manager) Logout(ctx context.Context) {
	const op = "session.Logout"
	log := m.log.With(slog.String("op", op))

	m.mu.Lock()
	m.gen++
	m.mu.Unlock()

	m.dispatch(loggedOut{})
	m.clearStored(ctx, log)
	log.Info("logged out")
}

// ForgotPassword запрашивает отправку ссылки восстановления пароля.
// Не меняет User, Token и IsAuthenticated независимо от исхода.
func (m *Manager) ForgotPassword(ctx context.Context, email string) Result {
	const op = "session.ForgotPassword"
	log := m.log.With(slog.String("op", op))

	m.dispatch(errorCleared{})

	msg, err := m.api.ForgotPassword(ctx, email)
	if err != nil {
		message := failureMessage(err, msgForgotFailed)
		log.Warn("forgot-password failed", sl.Err(err))
		m.dispatch(operationFailed{message: message})
		return Result{Success: false, Message: message}
	}
	return Result{Success: true, Message: msg}
}

// ResetPassword устанавливает новый пароль по одноразовому reset-токену.
// Никогда не аутентифицирует вызывающего как побочный эффект.
func (m *Manager) ResetPassword(ctx context.Context, resetToken, password string) Result {
	const op = "session.ResetPassword"
	log := m.log.With(slog.String("op", op))

	m.dispatch(errorCleared{})

	msg, err := m.api.ResetPassword(ctx, resetToken, password)
	if err != nil {
		message := failureMessage(err, msgResetFailed)
		log.Warn("reset-password failed", sl.Err(err))
		m.dispatch(operationFailed{message: message})
		return Result{Success: false, Message: message}
	}
	return Result{Success: true, Message: msg}
}

// ClearError убирает сообщение об ошибке без обращений к сети.
// Вызов без активной ошибки — no-op.
func (m *Manager) ClearError() {
	m.dispatch(errorCleared{})
}

// failureMessage возвращает сообщение сервиса, если оно есть, иначе fallback.
func failureMessage(err error, fallback string) string {
	var apiErr *authapi.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
