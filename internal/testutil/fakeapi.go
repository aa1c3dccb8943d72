// Package testutil содержит in-process фейк сервиса аутентификации.
//
// Фейк реализует контракт сервиса полностью: регистрация и вход по
// in-memory таблице пользователей, JWT в качестве bearer-токена для
// /auth/profile и одноразовые reset-токены для восстановления пароля.
// Ответы обёрнуты в стандартный конверт {message, data}.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/session-client/internal/lib/jwt"
	"github.com/magabrotheeeer/session-client/internal/models"
)

// apiResponse — конверт ответов фейка, совпадающий с контрактом сервиса.
type apiResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type fakeUser struct {
	user     models.User
	password string
}

// FakeAPI — HTTP-фейк сервиса аутентификации поверх httptest.Server.
type FakeAPI struct {
	srv   *httptest.Server
	maker *jwt.MakerImpl

	mu          sync.Mutex
	users       map[string]*fakeUser // по имени пользователя
	resetTokens map[string]string    // reset-токен -> имя пользователя
	resetSeq    int
}

// NewFakeAPI запускает фейковый сервис. Закрывать через Close.
func NewFakeAPI() *FakeAPI {
	f := &FakeAPI{
		maker:       jwt.NewJWTMaker("fake-api-secret", 15*time.Minute),
		users:       make(map[string]*fakeUser),
		resetTokens: make(map[string]string),
	}

	r := chi.NewRouter()
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", f.handleRegister)
		r.Post("/login", f.handleLogin)
		r.Get("/profile", f.handleProfile)
		r.Post("/forgot-password", f.handleForgotPassword)
		r.Post("/reset-password/{resetToken}", f.handleResetPassword)
	})

	f.srv = httptest.NewServer(r)
	return f
}

// BaseURL возвращает базовый адрес API, включая префикс /api.
func (f *FakeAPI) BaseURL() string {
	return f.srv.URL + "/api"
}

// Close останавливает фейковый сервис.
func (f *FakeAPI) Close() {
	f.srv.Close()
}

// AddUser заводит пользователя напрямую, минуя регистрацию.
func (f *FakeAPI) AddUser(username, fullName, email, password string) models.User {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := time.Now().UTC().Truncate(time.Second)
	u := models.User{
		Username:     username,
		FullName:     fullName,
		Email:        email,
		RegisteredAt: &now,
		LastSeenAt:   &now,
	}
	f.users[username] = &fakeUser{user: u, password: password}
	return u
}

// IssueToken выдает валидный bearer-токен для пользователя.
// Удобно для затравки хранилища в тестах восстановления сессии.
func (f *FakeAPI) IssueToken(username string) string {
	token, err := f.maker.GenerateToken(username)
	if err != nil {
		panic(err)
	}
	return token
}

// LastResetToken возвращает последний выданный reset-токен.
func (f *FakeAPI) LastResetToken() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fmt.Sprintf("reset-%d", f.resetSeq)
}

func (f *FakeAPI) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"nombre_usu"`
		FullName string `json:"nombre_completo"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, apiResponse{Message: "Datos de registro inválidos"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.users[req.Username]; exists {
		w.WriteHeader(http.StatusConflict)
		render.JSON(w, r, apiResponse{Message: "El usuario ya existe"})
		return
	}
	for _, u := range f.users {
		if u.user.Email == req.Email {
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, apiResponse{Message: "El usuario ya existe"})
			return
		}
	}

	now := time.Now().UTC().Truncate(time.Second)
	user := models.User{
		Username:     req.Username,
		FullName:     req.FullName,
		Email:        req.Email,
		RegisteredAt: &now,
		LastSeenAt:   &now,
	}
	f.users[req.Username] = &fakeUser{user: user, password: req.Password}

	token, _ := f.maker.GenerateToken(req.Username)
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, apiResponse{
		Message: "Usuario registrado exitosamente",
		Data:    map[string]any{"user": user, "token": token},
	})
}

func (f *FakeAPI) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EmailOrUsername string `json:"emailOrUsername"`
		Password        string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, apiResponse{Message: "Datos de acceso inválidos"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	fu := f.findUser(req.EmailOrUsername)
	if fu == nil || fu.password != req.Password {
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, apiResponse{Message: "Credenciales inválidas"})
		return
	}

	now := time.Now().UTC().Truncate(time.Second)
	fu.user.LastSeenAt = &now
	token, _ := f.maker.GenerateToken(fu.user.Username)
	render.JSON(w, r, apiResponse{
		Message: "Inicio de sesión exitoso",
		Data:    map[string]any{"user": fu.user, "token": token},
	})
}

func (f *FakeAPI) handleProfile(w http.ResponseWriter, r *http.Request) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, apiResponse{Message: "Token inválido"})
		return
	}
	claims, err := f.maker.ParseToken(strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, apiResponse{Message: "Token inválido"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	fu, ok := f.users[claims.Username]
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, apiResponse{Message: "Token inválido"})
		return
	}
	render.JSON(w, r, apiResponse{
		Message: "Perfil obtenido",
		Data:    map[string]any{"user": fu.user},
	})
}

func (f *FakeAPI) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, apiResponse{Message: "Email inválido"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	fu := f.findUser(req.Email)
	if fu == nil {
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, apiResponse{Message: "No existe una cuenta con ese email"})
		return
	}

	f.resetSeq++
	f.resetTokens[fmt.Sprintf("reset-%d", f.resetSeq)] = fu.user.Username
	render.JSON(w, r, apiResponse{Message: "Se ha enviado un enlace de restablecimiento a tu email"})
}

func (f *FakeAPI) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	resetToken := chi.URLParam(r, "resetToken")
	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, apiResponse{Message: "Contraseña inválida"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	username, ok := f.resetTokens[resetToken]
	if !ok {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, apiResponse{Message: "Token de restablecimiento inválido o expirado"})
		return
	}
	delete(f.resetTokens, resetToken) // токен одноразовый
	f.users[username].password = req.Password
	render.JSON(w, r, apiResponse{Message: "Contraseña restablecida exitosamente"})
}

// findUser ищет пользователя по имени или email. Вызывается под mu.
func (f *FakeAPI) findUser(emailOrUsername string) *fakeUser {
	if fu, ok := f.users[emailOrUsername]; ok {
		return fu
	}
	for _, fu := range f.users {
		if fu.user.Email == emailOrUsername {
			return fu
		}
	}
	return nil
}
