// Package credstore реализует долговременное хранилище токена аутентификации.
// Хранилище содержит ровно один слот: отсутствие значения означает "сессии нет".
// Единственным писателем хранилища является менеджер сессии.
package credstore

import "context"

// Store описывает контракт хранилища токена.
type Store interface {
	// Load возвращает сохранённый токен. Пустая строка — токен отсутствует.
	Load(ctx context.Context) (string, error)

	// Save записывает токен, перезаписывая предыдущее значение.
	Save(ctx context.Context, token string) error

	// Clear удаляет токен. Повторный вызов при отсутствии токена не является ошибкой.
	Clear(ctx context.Context) error
}
