package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreAppendRecent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	base := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

	for i, status := range []string{"ok", "ok", "failed"} {
		require.NoError(t, store.Append(ctx, Record{
			ID:        string(rune('a' + i)),
			StartedAt: base.Add(time.Duration(i) * time.Minute),
			Duration:  1500 * time.Millisecond,
			Status:    status,
			Projects:  10,
			Skipped:   1,
			Warnings:  2,
			Report:    `{"projects":10}`,
		}))
	}

	recent, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)

	// Newest first.
	assert.Equal(t, "c", recent[0].ID)
	assert.Equal(t, "failed", recent[0].Status)
	assert.Equal(t, "b", recent[1].ID)

	assert.Equal(t, base.Add(2*time.Minute), recent[0].StartedAt)
	assert.Equal(t, 1500*time.Millisecond, recent[0].Duration)
	assert.Equal(t, 10, recent[0].Projects)
	assert.Equal(t, `{"projects":10}`, recent[0].Report)
}

func TestStoreReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Append(context.Background(), Record{
		ID: "persisted", StartedAt: time.Now(), Status: "ok", Report: "{}",
	}))
	require.NoError(t, store.Close())

	store, err = Open(path)
	require.NoError(t, err)
	defer store.Close()

	recent, err := store.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "persisted", recent[0].ID)
}
