package session

import "github.com/magabrotheeeer/session-client/internal/models"

// State представляет снимок текущей сессии.
// Инвариант: IsAuthenticated == true только при ненулевых User и Token.
type State struct {
	User            *models.User // Профиль пользователя, nil без аутентификации
	Token           string       // Токен, зеркало значения в хранилище
	IsAuthenticated bool         // Установлен ли профиль для текущего токена
	Loading         bool         // Идет ли восстановление сессии или вход
	Err             string       // Сообщение последней ошибки, пусто — ошибки нет
}

// Event описывает событие перехода состояния сессии.
// Конкретные события не экспортируются: снаружи состояние меняется
// только операциями менеджера.
type Event interface {
	isEvent()
}

// loadingSet включает или выключает флаг загрузки.
type loadingSet struct {
	loading bool
}

// loginSucceeded фиксирует успешный вход или регистрацию.
type loginSucceeded struct {
	user  *models.User
	token string
}

// userLoaded фиксирует профиль, полученный при восстановлении сессии.
type userLoaded struct {
	user *models.User
}

// authFailed фиксирует ошибку аутентификации: учетные данные сбрасываются.
type authFailed struct {
	message string
}

// operationFailed фиксирует ошибку операции, не затрагивающей сессию
// (forgot-password, reset-password).
type operationFailed struct {
	message string
}

// loggedOut сбрасывает сессию в неаутентифицированное состояние.
type loggedOut struct{}

// errorCleared убирает сообщение об ошибке.
type errorCleared struct{}

func (loadingSet) isEvent()      {}
func (loginSucceeded) isEvent()  {}
func (userLoaded) isEvent()      {}
func (authFailed) isEvent()      {}
func (operationFailed) isEvent() {}
func (loggedOut) isEvent()       {}
func (errorCleared) isEvent()    {}

// reduce применяет событие к состоянию и возвращает новое состояние.
// Функция чистая: ни сети, ни хранилища, ни логирования. Синхронизацию
// с хранилищем токена выполняет менеджер после вычисления состояния.
func reduce(s State, ev Event) State {
	switch ev := ev.(type) {
	case loadingSet:
		s.Loading = ev.loading
		return s
	case loginSucceeded:
		return State{
			User:            ev.user,
			Token:           ev.token,
			IsAuthenticated: true,
		}
	case userLoaded:
		s.User = ev.user
		s.IsAuthenticated = true
		s.Loading = false
		return s
	case authFailed:
		return State{Err: ev.message}
	case operationFailed:
		s.Err = ev.message
		return s
	case loggedOut:
		return State{}
	case errorCleared:
		s.Err = ""
		return s
	default:
		return s
	}
}
