// Package authapi реализует HTTP-клиент удалённого сервиса аутентификации.
//
// Клиент покрывает операции login, register, profile, forgot-password и
// reset-password. Токен прикладывается к каждому запросу явно, через
// переданную функцию TokenSource, а не через глобальные настройки клиента.
package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/session-client/internal/config"
	"github.com/magabrotheeeer/session-client/internal/lib/sl"
	"github.com/magabrotheeeer/session-client/internal/models"
)

// TokenSource возвращает текущий токен сессии. Пустая строка означает,
// что заголовок Authorization не добавляется.
type TokenSource func() string

// Client выполняет запросы к сервису аутентификации.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	tokenSource TokenSource
	log         *slog.Logger
}

// New создаёт клиент сервиса аутентификации.
// tokenSource может быть nil, тогда запросы выполняются без токена.
func New(cfg config.APIClient, tokenSource TokenSource, log *slog.Logger) *Client {
	timeout := cfg.TimeoutAPI
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:     cfg.BaseURL,
		httpClient:  &http.Client{Timeout: timeout},
		tokenSource: tokenSource,
		log:         log,
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if c.tokenSource != nil {
		if token := c.tokenSource(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return req, nil
}

// do выполняет запрос и разбирает стандартную обёртку {message, data}.
// При статусе >= 400 возвращается *APIError с сообщением сервиса.
// Возвращает message из обёртки; data раскладывается в out, если out != nil.
func (c *Client) do(req *http.Request, out any) (string, error) {
	const op = "authapi.do"
	log := c.log.With(
		slog.String("op", op),
		slog.String("method", req.Method),
		slog.String("url", req.URL.String()),
		slog.String("request_id", req.Header.Get("X-Request-Id")),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("request failed", sl.Err(err))
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	var env envelope
	if resp.StatusCode >= http.StatusBadRequest {
		// Сообщение об ошибке декодируется по возможности, тело может быть любым.
		_ = json.NewDecoder(resp.Body).Decode(&env)
		log.Warn("api returned error", slog.Int("status", resp.StatusCode))
		return "", &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}

	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		log.Error("failed to decode response body", sl.Err(err))
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			log.Error("failed to decode response data", sl.Err(err))
			return "", fmt.Errorf("%s: %w", op, err)
		}
	}
	log.Debug("request completed", slog.Int("status", resp.StatusCode))
	return env.Message, nil
}

// Login выполняет вход по email или имени пользователя.
func (c *Client) Login(ctx context.Context, emailOrUsername, password string) (*Credentials, string, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/auth/login", LoginRequest{
		EmailOrUsername: emailOrUsername,
		Password:        password,
	})
	if err != nil {
		return nil, "", err
	}
	var creds Credentials
	msg, err := c.do(req, &creds)
	if err != nil {
		return nil, "", err
	}
	return &creds, msg, nil
}

// Register создаёт новую учётную запись.
func (c *Client) Register(ctx context.Context, data RegisterRequest) (*Credentials, string, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/auth/register", data)
	if err != nil {
		return nil, "", err
	}
	var creds Credentials
	msg, err := c.do(req, &creds)
	if err != nil {
		return nil, "", err
	}
	return &creds, msg, nil
}

// Profile возвращает профиль пользователя по текущему токену.
// Используется при восстановлении сессии на старте.
func (c *Client) Profile(ctx context.Context) (*models.User, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/auth/profile", nil)
	if err != nil {
		return nil, err
	}
	var data profileData
	if _, err := c.do(req, &data); err != nil {
		return nil, err
	}
	return data.User, nil
}

// ForgotPassword запрашивает отправку ссылки для восстановления пароля.
func (c *Client) ForgotPassword(ctx context.Context, email string) (string, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/auth/forgot-password", forgotPasswordRequest{Email: email})
	if err != nil {
		return "", err
	}
	return c.do(req, nil)
}

// ResetPassword устанавливает новый пароль по одноразовому reset-токену.
// Токен передается как сегмент пути.
func (c *Client) ResetPassword(ctx context.Context, resetToken, password string) (string, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/auth/reset-password/"+url.PathEscape(resetToken),
		resetPasswordRequest{Password: password})
	if err != nil {
		return "", err
	}
	return c.do(req, nil)
}
