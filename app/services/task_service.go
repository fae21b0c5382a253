package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"fiftytwo-go/app/models"
	"fiftytwo-go/app/storage"
	"fiftytwo-go/app/week"
)

var (
	// ErrEmptyTitle rejects tasks and subtasks with a blank title.
	ErrEmptyTitle = errors.New("title must not be empty")
	// ErrTaskNotFound indicates an unknown task ID.
	ErrTaskNotFound = errors.New("task not found")
	// ErrSubtaskNotFound indicates an unknown subtask ID.
	ErrSubtaskNotFound = errors.New("subtask not found")
)

// TaskService owns the in-memory task collection. Every mutation is a
// synchronous snapshot-replace immediately mirrored to the persistence
// adapter; the mirror is best-effort and never fails a mutation.
type TaskService struct {
	mu    sync.Mutex
	tasks []models.Task
	join  *models.JoinWeekSnapshot

	store  storage.Store
	clock  clockwork.Clock
	logger *zap.Logger
}

// NewTaskService creates a task service and loads persisted state.
// Absent or unparsable storage yields an empty collection. The clock is
// the wall clock used for created/completed timestamps.
func NewTaskService(ctx context.Context, store storage.Store, clock clockwork.Clock, logger *zap.Logger) *TaskService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &TaskService{store: store, clock: clock, logger: logger}

	tasks, err := store.LoadTasks(ctx)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logger.Warn("load tasks failed, starting empty", zap.Error(err))
		}
	} else {
		s.tasks = models.NormalizeTasks(tasks, clock.Now())
	}

	join, err := store.LoadJoinWeek(ctx)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logger.Warn("load join week failed", zap.Error(err))
		}
	} else {
		s.join = &join
	}

	return s
}

// Tasks returns a snapshot copy of the current collection.
func (s *TaskService) Tasks() []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.CloneTasks(s.tasks)
}

// JoinWeek returns the current join-week snapshot, or nil when no task
// has been created yet this cycle.
func (s *TaskService) JoinWeek() *models.JoinWeekSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.join == nil {
		return nil
	}
	j := *s.join
	return &j
}

// AddTask creates a task with a trimmed non-empty title. The first task
// of a calendar year also records the join-week snapshot.
func (s *TaskService) AddTask(ctx context.Context, title string) (models.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return models.Task{}, ErrEmptyTitle
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	task := models.Task{
		ID:        uuid.New().String(),
		Title:     title,
		CreatedAt: now,
		Subtasks:  []models.Subtask{},
	}
	s.tasks = append(s.tasks, task)

	if s.join == nil || s.join.Year != now.Year() {
		s.join = &models.JoinWeekSnapshot{Week: week.ISO(now), Year: now.Year()}
	}

	s.persist(ctx)
	return task, nil
}

// AddSubtask appends a subtask to a parent task. Adding an incomplete
// subtask re-evaluates a previously auto-completed parent.
func (s *TaskService) AddSubtask(ctx context.Context, taskID, title string) (models.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return models.Task{}, ErrEmptyTitle
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	task := s.find(taskID)
	if task == nil {
		return models.Task{}, ErrTaskNotFound
	}

	now := s.clock.Now()
	task.Subtasks = append(task.Subtasks, models.Subtask{
		ID:        uuid.New().String(),
		Title:     title,
		CreatedAt: now,
	})
	reevaluate(task, now)

	s.persist(ctx)
	return task.Clone(), nil
}

// ToggleTask flips a task's completion. Completing sets the manual flag
// so subtask changes cannot silently uncomplete it; uncompleting clears
// all completion state and then re-applies subtask auto-completion.
func (s *TaskService) ToggleTask(ctx context.Context, taskID string) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task := s.find(taskID)
	if task == nil {
		return models.Task{}, ErrTaskNotFound
	}

	now := s.clock.Now()
	if !task.Completed {
		task.Completed = true
		at := now
		task.CompletedAt = &at
		task.ManuallyCompleted = true
	} else {
		task.Completed = false
		task.CompletedAt = nil
		task.ManuallyCompleted = false
		reevaluate(task, now)
	}

	s.persist(ctx)
	return task.Clone(), nil
}

// ToggleSubtask flips a subtask's completion and propagates the result
// to the parent task.
func (s *TaskService) ToggleSubtask(ctx context.Context, taskID, subtaskID string) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task := s.find(taskID)
	if task == nil {
		return models.Task{}, ErrTaskNotFound
	}

	now := s.clock.Now()
	found := false
	for i := range task.Subtasks {
		if task.Subtasks[i].ID != subtaskID {
			continue
		}
		found = true
		if !task.Subtasks[i].Completed {
			task.Subtasks[i].Completed = true
			at := now
			task.Subtasks[i].CompletedAt = &at
		} else {
			task.Subtasks[i].Completed = false
			task.Subtasks[i].CompletedAt = nil
		}
		break
	}
	if !found {
		return models.Task{}, ErrSubtaskNotFound
	}

	reevaluate(task, now)
	s.persist(ctx)
	return task.Clone(), nil
}

// DeleteSubtask removes a subtask and re-evaluates the parent the same
// way a subtask toggle does.
func (s *TaskService) DeleteSubtask(ctx context.Context, taskID, subtaskID string) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task := s.find(taskID)
	if task == nil {
		return models.Task{}, ErrTaskNotFound
	}

	found := false
	for i := range task.Subtasks {
		if task.Subtasks[i].ID == subtaskID {
			task.Subtasks = append(task.Subtasks[:i], task.Subtasks[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return models.Task{}, ErrSubtaskNotFound
	}

	reevaluate(task, s.clock.Now())
	s.persist(ctx)
	return task.Clone(), nil
}

// DeleteTask removes a task entirely.
func (s *TaskService) DeleteTask(ctx context.Context, taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tasks {
		if s.tasks[i].ID == taskID {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			s.persist(ctx)
			return nil
		}
	}
	return ErrTaskNotFound
}

// CarryOver drops completed tasks and keeps unfinished ones, then points
// the join-week snapshot at week 1 of the given year.
func (s *TaskService) CarryOver(ctx context.Context, year int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if !t.Completed {
			kept = append(kept, t)
		}
	}
	s.tasks = kept
	s.join = &models.JoinWeekSnapshot{Week: 1, Year: year}
	s.persist(ctx)
}

// Clear drops every task and points the join-week snapshot at week 1 of
// the given year.
func (s *TaskService) Clear(ctx context.Context, year int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = nil
	s.join = &models.JoinWeekSnapshot{Week: 1, Year: year}
	s.persist(ctx)
}

// find returns a pointer into the owned collection; callers hold the lock.
func (s *TaskService) find(taskID string) *models.Task {
	for i := range s.tasks {
		if s.tasks[i].ID == taskID {
			return &s.tasks[i]
		}
	}
	return nil
}

// reevaluate applies the subtask auto-completion rules. A task with zero
// subtasks is never auto-completed; a manually completed task is never
// auto-uncompleted.
func reevaluate(t *models.Task, now time.Time) {
	if len(t.Subtasks) == 0 {
		return
	}

	all := true
	for _, st := range t.Subtasks {
		if !st.Completed {
			all = false
			break
		}
	}

	switch {
	case all && !t.Completed:
		t.Completed = true
		at := now
		t.CompletedAt = &at
	case !all && t.Completed && !t.ManuallyCompleted:
		t.Completed = false
		t.CompletedAt = nil
	}
}

// persist mirrors the current state to storage. Failures degrade to a
// log line; the in-memory state remains the source of truth.
func (s *TaskService) persist(ctx context.Context) {
	if err := s.store.SaveTasks(ctx, s.tasks); err != nil {
		s.logger.Warn("save tasks failed", zap.Error(err))
	}
	if s.join != nil {
		if err := s.store.SaveJoinWeek(ctx, *s.join); err != nil {
			s.logger.Warn("save join week failed", zap.Error(err))
		}
	}
}
