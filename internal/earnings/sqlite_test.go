package earnings

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStoreUpsertIncrements(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "earnings.db"))
	require.NoError(t, err)
	defer store.Close()
	ctx := context.Background()

	st, err := store.Get(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Zero(t, st)

	require.NoError(t, store.ApplyUpdates(ctx, []Update{
		{Email: "a@example.com", Hands: 1, ChipsDelta: 12},
	}))
	require.NoError(t, store.ApplyUpdates(ctx, []Update{
		{Email: "a@example.com", Hands: 1, ChipsDelta: -4, Hands6992: 1, ChipsDelta6992: -4},
	}))

	st, err = store.Get(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, Stats{Hands: 2, ChipsDelta: 8, Hands6992: 1, ChipsDelta6992: -4}, st)
}

func TestSQLiteStoreBatchIsAtomic(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.ApplyUpdates(ctx, []Update{
		{Email: "a@example.com", Hands: 1, ChipsDelta: 3},
		{Email: "b@example.com", Hands: 1, ChipsDelta: -3},
		{Email: "", Hands: 1}, // skipped, not an error
	}))

	a, err := store.Get(ctx, "a@example.com")
	require.NoError(t, err)
	b, err := store.Get(ctx, "b@example.com")
	require.NoError(t, err)
	assert.Equal(t, 0, a.ChipsDelta+b.ChipsDelta)
}
