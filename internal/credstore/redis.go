package credstore

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/magabrotheeeer/session-client/internal/config"
)

// tokenKey фиксированный ключ единственного слота токена в redis.
const tokenKey = "session-client:token"

// RedisStore хранит токен под одним фиксированным ключом в redis.
// Используется, когда сессия должна переживать перезапуски на разных машинах.
type RedisStore struct {
	Db *redis.Client
}

// NewRedisStore подключается к redis и проверяет соединение.
func NewRedisStore(ctx context.Context, cfg config.RedisConnection) (*RedisStore, error) {
	const op = "credstore.NewRedisStore"
	db := redis.NewClient(&redis.Options{
		Addr:         cfg.AddressRedis,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Username:     cfg.User,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.TimeoutRedis,
		WriteTimeout: cfg.TimeoutRedis,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &RedisStore{Db: db}, nil
}

// Load возвращает сохранённый токен или пустую строку, если ключа нет.
func (r *RedisStore) Load(ctx context.Context) (string, error) {
	const op = "credstore.RedisStore.Load"
	val, err := r.Db.Get(ctx, tokenKey).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return val, nil
}

// Save записывает токен без срока жизни: токен живет до logout.
func (r *RedisStore) Save(ctx context.Context, token string) error {
	const op = "credstore.RedisStore.Save"
	if err := r.Db.Set(ctx, tokenKey, token, 0).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Clear удаляет ключ токена. Del по отсутствующему ключу не является ошибкой.
func (r *RedisStore) Clear(ctx context.Context) error {
	const op = "credstore.RedisStore.Clear"
	if err := r.Db.Del(ctx, tokenKey).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
