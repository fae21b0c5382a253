package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fiftytwo-go/app/models"
	"fiftytwo-go/app/storage"
)

func TestEmptyStoreReportsNotFound(t *testing.T) {
	store := New()
	ctx := context.Background()

	_, err := store.LoadTasks(ctx)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = store.LoadJoinWeek(ctx)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = store.LoadLastSeenYear(ctx)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = store.LoadCheckinWeek(ctx)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = store.LoadInstalledAt(ctx)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = store.LoadTheme(ctx)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	summaries, err := store.LoadSummaries(ctx)
	require.NoError(t, err)
	assert.Empty(t, summaries)
}

func TestSavedEmptyTaskListIsNotMissing(t *testing.T) {
	store := New()
	ctx := context.Background()

	require.NoError(t, store.SaveTasks(ctx, nil))
	tasks, err := store.LoadTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestLoadedTasksAreIsolatedCopies(t *testing.T) {
	store := New()
	ctx := context.Background()

	now := time.Date(2025, time.March, 4, 9, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveTasks(ctx, []models.Task{{ID: "t1", Title: "original", CreatedAt: now}}))

	first, err := store.LoadTasks(ctx)
	require.NoError(t, err)
	first[0].Title = "mutated"

	second, err := store.LoadTasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, "original", second[0].Title)
}
