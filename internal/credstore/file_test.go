package credstore

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFileStore(t *testing.T) *FileStore {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "token"))
	require.NoError(t, err)
	return store
}

func TestFileStore_SaveAndLoad(t *testing.T) {
	store := newTestFileStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "abc123"))

	token, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)
}

func TestFileStore_LoadMissing(t *testing.T) {
	store := newTestFileStore(t)

	token, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestFileStore_SaveOverwrites(t *testing.T) {
	store := newTestFileStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "first"))
	require.NoError(t, store.Save(ctx, "second"))

	token, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", token)
}

func TestFileStore_ClearIsIdempotent(t *testing.T) {
	store := newTestFileStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "abc123"))
	require.NoError(t, store.Clear(ctx))
	require.NoError(t, store.Clear(ctx))

	token, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestFileStore_CreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "token")
	store, err := NewFileStore(path)
	require.NoError(t, err)

	require.NoError(t, store.Save(context.Background(), "abc123"))

	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestFileStore_FilePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file permissions are not enforced on windows")
	}
	store := newTestFileStore(t)

	require.NoError(t, store.Save(context.Background(), "abc123"))

	info, err := os.Stat(store.path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileStore_TrimsWhitespace(t *testing.T) {
	store := newTestFileStore(t)

	require.NoError(t, os.WriteFile(store.path, []byte("abc123\n"), 0o600))

	token, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)
}
