package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prunekit/prunekit/internal/domain"
)

func newTestStore(t *testing.T) *RunStore {
	t.Helper()
	store, err := NewRunStore(filepath.Join(t.TempDir(), "history.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRunStore_RecordAndRecent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 20, 3, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		err := store.Record(ctx, domain.RunRecord{
			BackupPath: "/backups",
			Mode:       "tiered",
			StartedAt:  base.Add(time.Duration(i) * time.Hour),
			FinishedAt: base.Add(time.Duration(i)*time.Hour + time.Minute),
			Considered: 20 + i,
			Kept:       14,
			Promoted:   2,
			Deleted:    4 + i,
		})
		require.NoError(t, err)
	}

	records, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Newest first.
	assert.Equal(t, 22, records[0].Considered)
	assert.Equal(t, 21, records[1].Considered)
	assert.NotEmpty(t, records[0].ID)
	assert.Equal(t, "tiered", records[0].Mode)
	assert.True(t, records[0].StartedAt.Equal(base.Add(2*time.Hour)))
}

func TestRunStore_RecordDryRun(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.Record(ctx, domain.RunRecord{
		BackupPath: "/backups",
		Mode:       "flat",
		DryRun:     true,
		StartedAt:  time.Now(),
		FinishedAt: time.Now(),
	})
	require.NoError(t, err)

	records, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, records[0].DryRun)
	assert.Equal(t, "flat", records[0].Mode)
}

func TestRunStore_RecentDefaultLimit(t *testing.T) {
	store := newTestStore(t)

	records, err := store.Recent(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, records)
}
