package earnings

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoreAccumulates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "earnings.json")
	store, err := NewLocalStore(path)
	require.NoError(t, err)
	ctx := context.Background()

	st, err := store.Get(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Zero(t, st)

	require.NoError(t, store.ApplyUpdates(ctx, []Update{
		{Email: "a@example.com", Hands: 1, ChipsDelta: 20},
		{Email: "b@example.com", Hands: 1, ChipsDelta: -20, Hands6992: 1, ChipsDelta6992: -20},
	}))
	require.NoError(t, store.ApplyUpdates(ctx, []Update{
		{Email: "A@Example.com ", Hands: 1, ChipsDelta: -5},
	}))

	st, err = store.Get(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, Stats{Hands: 2, ChipsDelta: 15}, st, "emails are case-folded")

	st, err = store.Get(ctx, "b@example.com")
	require.NoError(t, err)
	assert.Equal(t, Stats{Hands: 1, ChipsDelta: -20, Hands6992: 1, ChipsDelta6992: -20}, st)
}

func TestLocalStoreSurvivesCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "earnings.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	store, err := NewLocalStore(path)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.ApplyUpdates(ctx, []Update{{Email: "a@example.com", Hands: 1}}))
	st, err := store.Get(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, 1, st.Hands)
}

func TestLocalStoreSkipsBlankEmails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "earnings.json")
	store, err := NewLocalStore(path)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.ApplyUpdates(ctx, []Update{{Email: "  ", Hands: 1}}))
	doc := store.load()
	assert.Empty(t, doc.Users)
}

func TestNoopStore(t *testing.T) {
	store := NewNoopStore()
	assert.False(t, store.Enabled())
	require.NoError(t, store.ApplyUpdates(context.Background(), []Update{{Email: "x", Hands: 1}}))
	st, err := store.Get(context.Background(), "x")
	require.NoError(t, err)
	assert.Zero(t, st)
}
