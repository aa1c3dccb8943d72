package credstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileStore хранит токен в одном файле с правами 0600.
type FileStore struct {
	path string
}

// NewFileStore создает хранилище по указанному пути. При пустом пути
// используется файл token в каталоге конфигурации пользователя.
func NewFileStore(path string) (*FileStore, error) {
	const op = "credstore.NewFileStore"
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		path = filepath.Join(home, ".config", "session-client", "token")
	}
	return &FileStore{path: path}, nil
}

// Load возвращает сохранённый токен или пустую строку, если файла нет.
func (f *FileStore) Load(_ context.Context) (string, error) {
	const op = "credstore.FileStore.Load"
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Save записывает токен, создавая каталог при необходимости.
func (f *FileStore) Save(_ context.Context, token string) error {
	const op = "credstore.FileStore.Save"
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := os.WriteFile(f.path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Clear удаляет файл с токеном. Отсутствие файла не считается ошибкой.
func (f *FileStore) Clear(_ context.Context) error {
	const op = "credstore.FileStore.Clear"
	err := os.Remove(f.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
