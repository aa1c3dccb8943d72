// Package config предоставляет структуры и функции для парсинга и загрузки конфига
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек клиента.
type Config struct {
	Env             string `yaml:"env" env:"APP_ENV" env-default:"local"`
	APIClient       `yaml:"api_client"`
	CredentialStore `yaml:"credential_store"`
	RedisConnection `yaml:"redis_connection"`
}

// APIClient структура для настройки клиента сервиса аутентификации.
type APIClient struct {
	BaseURL    string        `yaml:"base_url" env:"API_BASE_URL" env-default:"http://localhost:5000/api"`
	TimeoutAPI time.Duration `yaml:"timeout" env:"API_TIMEOUT" env-default:"10s"`
}

// CredentialStore структура для настройки хранилища токена.
// Backend принимает значения "file" и "redis".
type CredentialStore struct {
	Backend  string `yaml:"backend" env:"CRED_STORE_BACKEND" env-default:"file"`
	FilePath string `yaml:"file_path" env:"CRED_STORE_FILE"` // пусто — путь по умолчанию в каталоге пользователя
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"REDIS_ADDRESS"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user" env:"REDIS_USER"`
	DB           int           `yaml:"db" env:"REDIS_DB"`
	MaxRetries   int           `yaml:"max_retries" env:"REDIS_MAX_RETRIES"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env:"REDIS_DIAL_TIMEOUT" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env:"REDIS_TIMEOUT" env-default:"5s"`
}

// Load загружает конфиг из файла, указанного в CONFIG_PATH, с наложением
// переменных окружения. Если CONFIG_PATH не задан, используются только
// переменные окружения и значения по умолчанию.
func Load() (*Config, error) {
	const op = "config.Load"
	var cfg Config

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return &cfg, nil
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: file %s does not exist", op, configPath)
	}
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

// MustLoad функция для загрузки конфига, завершает процесс при ошибке.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}
