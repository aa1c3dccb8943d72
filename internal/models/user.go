// Package models содержит доменную модель пользователя, получаемую
// от сервиса аутентификации. Имена JSON-полей повторяют контракт сервиса.
package models

import "time"

// User представляет профиль аутентифицированного пользователя.
// Поля RegisteredAt и LastSeenAt могут быть nil, если сервис их не вернул.
type User struct {
	Username     string     `json:"nombre_usu"`                // Имя пользователя
	FullName     string     `json:"nombre_completo,omitempty"` // Полное имя (опционально)
	Email        string     `json:"email"`                     // Email пользователя
	RegisteredAt *time.Time `json:"fecha_registro,omitempty"`  // Дата регистрации
	LastSeenAt   *time.Time `json:"ultima_conexion,omitempty"` // Последнее подключение
}

// DisplayName возвращает имя для отображения: имя пользователя,
// иначе полное имя, иначе "Usuario".
func (u *User) DisplayName() string {
	switch {
	case u == nil:
		return "Usuario"
	case u.Username != "":
		return u.Username
	case u.FullName != "":
		return u.FullName
	default:
		return "Usuario"
	}
}
