package allowlist

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticStoreNormalizes(t *testing.T) {
	store := NewStaticStore([]string{" A@Example.COM ", "b@example.com", "", "  "})
	emails, err := store.AllowedEmails(context.Background())
	require.NoError(t, err)
	assert.Len(t, emails, 2)
	_, ok := emails["a@example.com"]
	assert.True(t, ok)
}

func TestLocalStoreBareArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "allow.json")
	require.NoError(t, os.WriteFile(path, []byte(`["A@example.com", "b@example.com"]`), 0o644))
	emails, err := NewLocalStore(path).AllowedEmails(context.Background())
	require.NoError(t, err)
	assert.Len(t, emails, 2)
}

func TestLocalStoreWrappedObject(t *testing.T) {
	path := filepath.Join(t.TempDir(), "allow.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"emails": ["a@example.com"]}`), 0o644))
	emails, err := NewLocalStore(path).AllowedEmails(context.Background())
	require.NoError(t, err)
	_, ok := emails["a@example.com"]
	assert.True(t, ok)
}

func TestLocalStoreMissingFileIsOpen(t *testing.T) {
	emails, err := NewLocalStore(filepath.Join(t.TempDir(), "nope.json")).AllowedEmails(context.Background())
	require.NoError(t, err)
	assert.Empty(t, emails)
}

func TestLocalStoreGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "allow.json")
	require.NoError(t, os.WriteFile(path, []byte(`{broken`), 0o644))
	_, err := NewLocalStore(path).AllowedEmails(context.Background())
	assert.Error(t, err)
}
