package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ura-xlaw/internal/domain"
)

func demoRecord() Record {
	return Record{
		Token: "mock-jwt-token-1",
		User:  domain.User{ID: 4, StaffID: "demo", FullName: "Người dùng Demo", Role: "Demo User"},
	}
}

func TestStores_RoundTrip(t *testing.T) {
	stores := map[string]Store{
		"file":   NewFileStore(filepath.Join(t.TempDir(), "nested", "session.json")),
		"memory": NewMemoryStore(),
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			_, ok, err := store.Load()
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, store.Save(demoRecord()))

			rec, ok, err := store.Load()
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, "mock-jwt-token-1", rec.Token)
			assert.Equal(t, "Người dùng Demo", rec.User.FullName)
			assert.False(t, rec.SavedAt.IsZero())

			require.NoError(t, store.Clear())
			_, ok, err = store.Load()
			require.NoError(t, err)
			assert.False(t, ok)

			// clearing twice is fine
			require.NoError(t, store.Clear())
		})
	}
}

func TestFileStore_FilePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewFileStore(path)
	require.NoError(t, store.Save(demoRecord()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestFileStore_CorruptedFileIsMovedAside(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	store := NewFileStore(path)
	_, ok, err := store.Load()
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = os.Stat(path + ".backup")
	assert.NoError(t, err)
}

func TestFileStore_IncompleteRecordIsIgnored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"token":"abc"}`), 0600))

	_, ok, err := NewFileStore(path).Load()
	require.NoError(t, err)
	assert.False(t, ok)
}
