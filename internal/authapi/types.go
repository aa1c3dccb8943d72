package authapi

import (
	"encoding/json"
	"fmt"

	"github.com/magabrotheeeer/session-client/internal/models"
)

// envelope представляет стандартную обёртку ответов сервиса аутентификации.
// Успешные ответы приходят как {message, data}, ошибки — как {message}.
type envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Credentials представляет полезную нагрузку успешного входа или регистрации.
type Credentials struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// profileData представляет полезную нагрузку ответа /auth/profile.
type profileData struct {
	User *models.User `json:"user"`
}

// LoginRequest представляет тело запроса на вход.
// Сервис сам различает email и имя пользователя.
type LoginRequest struct {
	EmailOrUsername string `json:"emailOrUsername"`
	Password        string `json:"password"`
}

// RegisterRequest представляет тело запроса на регистрацию.
type RegisterRequest struct {
	Username string `json:"nombre_usu"`
	FullName string `json:"nombre_completo,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// forgotPasswordRequest представляет тело запроса на восстановление пароля.
type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// resetPasswordRequest представляет тело запроса на установку нового пароля.
type resetPasswordRequest struct {
	Password string `json:"password"`
}

// APIError описывает ошибку, о которой сообщил сервис аутентификации.
// Message передается потребителю дословно, если сервис его вернул.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("authapi: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("authapi: status %d: %s", e.StatusCode, e.Message)
}
