package models

import "time"

// futureTolerance bounds how far ahead of the load-time clock a stored
// timestamp may sit before it is treated as corrupted and clamped.
const futureTolerance = time.Hour

// Task represents a tracked task with an optional list of subtasks.
type Task struct {
	ID                string     `json:"id"`
	Title             string     `json:"title"`
	Completed         bool       `json:"completed"`
	CreatedAt         time.Time  `json:"createdAt"`
	CompletedAt       *time.Time `json:"completedAt"`
	Subtasks          []Subtask  `json:"subtasks,omitempty"`
	ManuallyCompleted bool       `json:"manuallyCompleted,omitempty"`
}

// Subtask represents a single step under a parent task.
type Subtask struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt"`
}

// JoinWeekSnapshot records the ISO week and year in which the first task
// of that calendar year was created.
type JoinWeekSnapshot struct {
	Week int `json:"week"`
	Year int `json:"year"`
}

// YearSummary is an immutable archival record produced at year rollover.
type YearSummary struct {
	Year               int `json:"year"`
	TasksCompleted     int `json:"tasksCompleted"`
	LongestStreakWeeks int `json:"longestStreakWeeks"`
	TargetWeeks        int `json:"targetWeeks"`
}

// Normalize repairs a task loaded from storage: future timestamps beyond
// the tolerance are clamped to now, and the Completed/CompletedAt
// invariant is restored. Missing optional fields keep their zero values.
func (t *Task) Normalize(now time.Time) {
	t.CreatedAt = clampFuture(t.CreatedAt, now)
	if t.CompletedAt != nil {
		clamped := clampFuture(*t.CompletedAt, now)
		t.CompletedAt = &clamped
	}
	if t.Completed && t.CompletedAt == nil {
		at := t.CreatedAt
		t.CompletedAt = &at
	}
	if !t.Completed {
		t.CompletedAt = nil
	}
	for i := range t.Subtasks {
		t.Subtasks[i].Normalize(now)
	}
}

// Normalize applies the same repairs as Task.Normalize to a subtask.
func (s *Subtask) Normalize(now time.Time) {
	s.CreatedAt = clampFuture(s.CreatedAt, now)
	if s.CompletedAt != nil {
		clamped := clampFuture(*s.CompletedAt, now)
		s.CompletedAt = &clamped
	}
	if s.Completed && s.CompletedAt == nil {
		at := s.CreatedAt
		s.CompletedAt = &at
	}
	if !s.Completed {
		s.CompletedAt = nil
	}
}

// NormalizeTasks repairs every task in a loaded collection in place and
// returns it.
func NormalizeTasks(tasks []Task, now time.Time) []Task {
	for i := range tasks {
		tasks[i].Normalize(now)
	}
	return tasks
}

func clampFuture(t, now time.Time) time.Time {
	if t.After(now.Add(futureTolerance)) {
		return now
	}
	return t
}

// Clone returns a deep copy of the task, detached from any backing
// arrays or shared pointers.
func (t Task) Clone() Task {
	out := t
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		out.CompletedAt = &at
	}
	if t.Subtasks != nil {
		subs := make([]Subtask, len(t.Subtasks))
		for j, s := range t.Subtasks {
			subs[j] = s
			if s.CompletedAt != nil {
				at := *s.CompletedAt
				subs[j].CompletedAt = &at
			}
		}
		out.Subtasks = subs
	}
	return out
}

// CloneTasks returns a deep copy of a task collection so callers can hand
// out snapshots without exposing internal state.
func CloneTasks(tasks []Task) []Task {
	if tasks == nil {
		return nil
	}
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}
