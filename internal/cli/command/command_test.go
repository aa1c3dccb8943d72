package command

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/session-client/internal/testutil"
)

// runCommand выполняет CLI с окружением, указывающим на фейковый сервис
// и временный файл токена.
func runCommand(t *testing.T, api *testutil.FakeAPI, tokenPath string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("API_BASE_URL", api.BaseURL())
	t.Setenv("CRED_STORE_BACKEND", "file")
	t.Setenv("CRED_STORE_FILE", tokenPath)

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func TestLoginCommand_Success(t *testing.T) {
	api := testutil.NewFakeAPI()
	defer api.Close()
	api.AddUser("alice", "Alice García", "alice@example.com", "secret123")

	tokenPath := filepath.Join(t.TempDir(), "token")

	out, err := runCommand(t, api, tokenPath, "login", "alice@example.com", "--password", "secret123")
	require.NoError(t, err)
	assert.Contains(t, out, "Inicio de sesión exitoso")
	assert.Contains(t, out, "¡Bienvenido, alice!")

	// Сессия пережила "перезапуск": whoami видит пользователя.
	out, err = runCommand(t, api, tokenPath, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "alice@example.com")
	assert.Contains(t, out, "Nombre Completo: Alice García")
}

func TestLoginCommand_BadCredentials(t *testing.T) {
	api := testutil.NewFakeAPI()
	defer api.Close()
	api.AddUser("alice", "", "alice@example.com", "secret123")

	tokenPath := filepath.Join(t.TempDir(), "token")

	_, err := runCommand(t, api, tokenPath, "login", "alice", "--password", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Credenciales inválidas", err.Error())
}

func TestRegisterCommand_PasswordMismatch(t *testing.T) {
	api := testutil.NewFakeAPI()
	defer api.Close()

	tokenPath := filepath.Join(t.TempDir(), "token")

	_, err := runCommand(t, api, tokenPath, "register",
		"--username", "bob",
		"--email", "bob@example.com",
		"--password", "secret123",
		"--confirm-password", "different1",
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Las contraseñas no coinciden")
}

func TestRegisterCommand_ShortPassword(t *testing.T) {
	api := testutil.NewFakeAPI()
	defer api.Close()

	tokenPath := filepath.Join(t.TempDir(), "token")

	_, err := runCommand(t, api, tokenPath, "register",
		"--username", "bob",
		"--email", "bob@example.com",
		"--password", "abc",
		"--confirm-password", "abc",
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "La contraseña debe tener al menos 6 caracteres")
}

func TestRegisterCommand_InvalidEmail(t *testing.T) {
	api := testutil.NewFakeAPI()
	defer api.Close()

	tokenPath := filepath.Join(t.TempDir(), "token")

	_, err := runCommand(t, api, tokenPath, "register",
		"--username", "bob",
		"--email", "not-an-email",
		"--password", "secret123",
		"--confirm-password", "secret123",
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "el email no es válido")
}

func TestLogoutCommand_EndsSession(t *testing.T) {
	api := testutil.NewFakeAPI()
	defer api.Close()
	api.AddUser("alice", "", "alice@example.com", "secret123")

	tokenPath := filepath.Join(t.TempDir(), "token")

	_, err := runCommand(t, api, tokenPath, "login", "alice", "--password", "secret123")
	require.NoError(t, err)

	out, err := runCommand(t, api, tokenPath, "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Sesión cerrada")

	_, err = runCommand(t, api, tokenPath, "whoami")
	require.Error(t, err)
	assert.Equal(t, "no hay una sesión activa", err.Error())
}

func TestForgotAndResetPasswordCommands(t *testing.T) {
	api := testutil.NewFakeAPI()
	defer api.Close()
	api.AddUser("alice", "", "alice@example.com", "oldpass1")

	tokenPath := filepath.Join(t.TempDir(), "token")

	out, err := runCommand(t, api, tokenPath, "forgot-password", "alice@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "Se ha enviado un enlace de restablecimiento a tu email")

	out, err = runCommand(t, api, tokenPath, "reset-password", api.LastResetToken(),
		"--password", "newpass1",
		"--confirm-password", "newpass1",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "Contraseña restablecida exitosamente")

	// Восстановление пароля не создает сессию.
	_, err = runCommand(t, api, tokenPath, "whoami")
	require.Error(t, err)

	out, err = runCommand(t, api, tokenPath, "login", "alice", "--password", "newpass1")
	require.NoError(t, err)
	assert.Contains(t, out, "¡Bienvenido, alice!")
}

func TestWhoamiCommand_InvalidStoredToken(t *testing.T) {
	api := testutil.NewFakeAPI()
	defer api.Close()

	tokenPath := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(tokenPath, []byte("not-a-valid-token"), 0o600))

	_, err := runCommand(t, api, tokenPath, "whoami")
	require.Error(t, err)
	assert.Equal(t, "Token inválido", err.Error())

	// Невалидный токен удален: повторный запуск не видит сессии.
	_, err = runCommand(t, api, tokenPath, "whoami")
	require.Error(t, err)
	assert.Equal(t, "no hay una sesión activa", err.Error())
}
