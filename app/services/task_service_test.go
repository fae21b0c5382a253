package services

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fiftytwo-go/app/models"
	"fiftytwo-go/app/storage/memory"
)

func newTestTaskService(t *testing.T, now time.Time) (*TaskService, clockwork.FakeClock, *memory.Store) {
	t.Helper()
	store := memory.New()
	clock := clockwork.NewFakeClockAt(now)
	svc := NewTaskService(context.Background(), store, clock, nil)
	return svc, clock, store
}

func TestAddTaskRequiresTitle(t *testing.T) {
	svc, _, _ := newTestTaskService(t, time.Date(2025, time.March, 4, 9, 0, 0, 0, time.UTC))

	_, err := svc.AddTask(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyTitle)

	task, err := svc.AddTask(context.Background(), "  write report  ")
	require.NoError(t, err)
	assert.Equal(t, "write report", task.Title)
	assert.NotEmpty(t, task.ID)
	assert.False(t, task.Completed)
	assert.Nil(t, task.CompletedAt)
}

func TestAddTaskRecordsJoinWeekOncePerYear(t *testing.T) {
	now := time.Date(2025, time.March, 4, 9, 0, 0, 0, time.UTC) // ISO week 10
	svc, clock, _ := newTestTaskService(t, now)

	_, err := svc.AddTask(context.Background(), "first")
	require.NoError(t, err)

	join := svc.JoinWeek()
	require.NotNil(t, join)
	assert.Equal(t, models.JoinWeekSnapshot{Week: 10, Year: 2025}, *join)

	// A later task the same year does not move the snapshot.
	clock.Advance(6 * 7 * 24 * time.Hour)
	_, err = svc.AddTask(context.Background(), "second")
	require.NoError(t, err)
	assert.Equal(t, models.JoinWeekSnapshot{Week: 10, Year: 2025}, *svc.JoinWeek())
}

func TestToggleTaskRoundTrip(t *testing.T) {
	now := time.Date(2025, time.March, 4, 9, 0, 0, 0, time.UTC)
	svc, clock, _ := newTestTaskService(t, now)

	created, err := svc.AddTask(context.Background(), "solo")
	require.NoError(t, err)

	clock.Advance(time.Hour)
	toggled, err := svc.ToggleTask(context.Background(), created.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Completed)
	assert.True(t, toggled.ManuallyCompleted)
	require.NotNil(t, toggled.CompletedAt)
	assert.True(t, toggled.CompletedAt.Equal(now.Add(time.Hour)))

	clock.Advance(time.Hour)
	back, err := svc.ToggleTask(context.Background(), created.ID)
	require.NoError(t, err)

	// Back to the exact prior state except timestamps.
	assert.False(t, back.Completed)
	assert.False(t, back.ManuallyCompleted)
	assert.Nil(t, back.CompletedAt)
	assert.Equal(t, created.Title, back.Title)
	assert.Equal(t, created.ID, back.ID)
}

func TestTaskWithoutSubtasksIsNeverAutoCompleted(t *testing.T) {
	now := time.Date(2025, time.March, 4, 9, 0, 0, 0, time.UTC)
	svc, _, _ := newTestTaskService(t, now)

	created, err := svc.AddTask(context.Background(), "solo")
	require.NoError(t, err)

	// Complete then uncomplete: re-evaluation must not re-complete a
	// task that has no subtasks.
	_, err = svc.ToggleTask(context.Background(), created.ID)
	require.NoError(t, err)
	back, err := svc.ToggleTask(context.Background(), created.ID)
	require.NoError(t, err)
	assert.False(t, back.Completed)
}

func TestSubtaskCompletionPropagation(t *testing.T) {
	now := time.Date(2025, time.March, 4, 9, 0, 0, 0, time.UTC)
	svc, _, _ := newTestTaskService(t, now)
	ctx := context.Background()

	parent, err := svc.AddTask(ctx, "parent")
	require.NoError(t, err)
	withA, err := svc.AddSubtask(ctx, parent.ID, "A")
	require.NoError(t, err)
	withB, err := svc.AddSubtask(ctx, parent.ID, "B")
	require.NoError(t, err)
	subA, subB := withA.Subtasks[0], withB.Subtasks[1]

	// A complete, B incomplete: parent stays open.
	state, err := svc.ToggleSubtask(ctx, parent.ID, subA.ID)
	require.NoError(t, err)
	assert.False(t, state.Completed)

	// Completing B auto-completes the parent without the manual flag.
	state, err = svc.ToggleSubtask(ctx, parent.ID, subB.ID)
	require.NoError(t, err)
	assert.True(t, state.Completed)
	assert.False(t, state.ManuallyCompleted)
	require.NotNil(t, state.CompletedAt)

	// Toggling A back off un-completes an auto-completed parent.
	state, err = svc.ToggleSubtask(ctx, parent.ID, subA.ID)
	require.NoError(t, err)
	assert.False(t, state.Completed)
	assert.Nil(t, state.CompletedAt)
}

func TestManualCompletionSurvivesSubtaskChanges(t *testing.T) {
	now := time.Date(2025, time.March, 4, 9, 0, 0, 0, time.UTC)
	svc, _, _ := newTestTaskService(t, now)
	ctx := context.Background()

	parent, err := svc.AddTask(ctx, "parent")
	require.NoError(t, err)
	withA, err := svc.AddSubtask(ctx, parent.ID, "A")
	require.NoError(t, err)
	subA := withA.Subtasks[0]
	_, err = svc.AddSubtask(ctx, parent.ID, "B")
	require.NoError(t, err)

	// Manually complete the parent, then complete and uncomplete A:
	// the manual flag keeps the parent completed.
	state, err := svc.ToggleTask(ctx, parent.ID)
	require.NoError(t, err)
	require.True(t, state.ManuallyCompleted)

	state, err = svc.ToggleSubtask(ctx, parent.ID, subA.ID)
	require.NoError(t, err)
	assert.True(t, state.Completed)

	state, err = svc.ToggleSubtask(ctx, parent.ID, subA.ID)
	require.NoError(t, err)
	assert.True(t, state.Completed)
	assert.True(t, state.ManuallyCompleted)
}

func TestUncompleteReappliesSubtaskAutoCompletion(t *testing.T) {
	now := time.Date(2025, time.March, 4, 9, 0, 0, 0, time.UTC)
	svc, _, _ := newTestTaskService(t, now)
	ctx := context.Background()

	parent, err := svc.AddTask(ctx, "parent")
	require.NoError(t, err)
	withA, err := svc.AddSubtask(ctx, parent.ID, "A")
	require.NoError(t, err)
	subA := withA.Subtasks[0]

	// Complete the only subtask: parent auto-completes.
	state, err := svc.ToggleSubtask(ctx, parent.ID, subA.ID)
	require.NoError(t, err)
	require.True(t, state.Completed)
	require.False(t, state.ManuallyCompleted)

	// Manually uncompleting re-evaluates and immediately re-completes,
	// still without the manual flag.
	state, err = svc.ToggleTask(ctx, parent.ID)
	require.NoError(t, err)
	assert.True(t, state.Completed)
	assert.False(t, state.ManuallyCompleted)
}

func TestDeleteSubtaskReevaluatesParent(t *testing.T) {
	now := time.Date(2025, time.March, 4, 9, 0, 0, 0, time.UTC)
	svc, _, _ := newTestTaskService(t, now)
	ctx := context.Background()

	parent, err := svc.AddTask(ctx, "parent")
	require.NoError(t, err)
	withA, err := svc.AddSubtask(ctx, parent.ID, "A")
	require.NoError(t, err)
	subA := withA.Subtasks[0]
	withB, err := svc.AddSubtask(ctx, parent.ID, "B")
	require.NoError(t, err)
	subB := withB.Subtasks[1]

	// A complete, B incomplete; deleting B leaves all remaining
	// subtasks complete and auto-completes the parent.
	_, err = svc.ToggleSubtask(ctx, parent.ID, subA.ID)
	require.NoError(t, err)
	state, err := svc.DeleteSubtask(ctx, parent.ID, subB.ID)
	require.NoError(t, err)
	assert.True(t, state.Completed)
	assert.False(t, state.ManuallyCompleted)
}

func TestDeleteTask(t *testing.T) {
	now := time.Date(2025, time.March, 4, 9, 0, 0, 0, time.UTC)
	svc, _, _ := newTestTaskService(t, now)
	ctx := context.Background()

	task, err := svc.AddTask(ctx, "gone soon")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTask(ctx, task.ID))
	assert.Empty(t, svc.Tasks())
	assert.ErrorIs(t, svc.DeleteTask(ctx, task.ID), ErrTaskNotFound)
}

func TestUnknownIDs(t *testing.T) {
	now := time.Date(2025, time.March, 4, 9, 0, 0, 0, time.UTC)
	svc, _, _ := newTestTaskService(t, now)
	ctx := context.Background()

	_, err := svc.ToggleTask(ctx, "missing")
	assert.ErrorIs(t, err, ErrTaskNotFound)

	task, err := svc.AddTask(ctx, "present")
	require.NoError(t, err)
	_, err = svc.ToggleSubtask(ctx, task.ID, "missing")
	assert.ErrorIs(t, err, ErrSubtaskNotFound)
	_, err = svc.DeleteSubtask(ctx, task.ID, "missing")
	assert.ErrorIs(t, err, ErrSubtaskNotFound)
}

func TestReturnedTasksAreDetachedCopies(t *testing.T) {
	now := time.Date(2025, time.March, 4, 9, 0, 0, 0, time.UTC)
	svc, _, _ := newTestTaskService(t, now)
	ctx := context.Background()

	parent, err := svc.AddTask(ctx, "parent")
	require.NoError(t, err)
	withA, err := svc.AddSubtask(ctx, parent.ID, "A")
	require.NoError(t, err)
	require.False(t, withA.Subtasks[0].Completed)

	// A later mutation must not rewrite an already-returned snapshot.
	_, err = svc.ToggleSubtask(ctx, parent.ID, withA.Subtasks[0].ID)
	require.NoError(t, err)
	assert.False(t, withA.Subtasks[0].Completed)
	assert.Nil(t, withA.Subtasks[0].CompletedAt)

	toggled, err := svc.ToggleTask(ctx, parent.ID)
	require.NoError(t, err)
	_, err = svc.DeleteSubtask(ctx, parent.ID, withA.Subtasks[0].ID)
	require.NoError(t, err)
	require.Len(t, toggled.Subtasks, 1)
}

func TestStateSurvivesReload(t *testing.T) {
	now := time.Date(2025, time.March, 4, 9, 0, 0, 0, time.UTC)
	svc, clock, store := newTestTaskService(t, now)
	ctx := context.Background()

	task, err := svc.AddTask(ctx, "persisted")
	require.NoError(t, err)
	_, err = svc.AddSubtask(ctx, task.ID, "step")
	require.NoError(t, err)
	_, err = svc.ToggleTask(ctx, task.ID)
	require.NoError(t, err)

	reloaded := NewTaskService(ctx, store, clock, nil)
	assert.Equal(t, svc.Tasks(), reloaded.Tasks())
	assert.Equal(t, svc.JoinWeek(), reloaded.JoinWeek())
}
