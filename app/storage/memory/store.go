// Package memory provides an in-memory Store. It backs preview mode,
// where nothing may outlive the process, and doubles as the test store.
package memory

import (
	"context"
	"sync"
	"time"

	"fiftytwo-go/app/models"
	"fiftytwo-go/app/storage"
)

// Store keeps every value in process memory.
type Store struct {
	mu sync.Mutex

	tasks     []models.Task
	hasTasks  bool
	joinWeek  models.JoinWeekSnapshot
	hasJoin   bool
	lastYear  int
	hasYear   bool
	summaries []models.YearSummary
	checkin   string
	hasCheck  bool
	installed time.Time
	hasInst   bool
	theme     string
	hasTheme  bool
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{}
}

func (s *Store) LoadTasks(ctx context.Context) ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasTasks {
		return nil, storage.ErrNotFound
	}
	return models.CloneTasks(s.tasks), nil
}

func (s *Store) SaveTasks(ctx context.Context, tasks []models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = models.CloneTasks(tasks)
	s.hasTasks = true
	return nil
}

func (s *Store) LoadJoinWeek(ctx context.Context) (models.JoinWeekSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasJoin {
		return models.JoinWeekSnapshot{}, storage.ErrNotFound
	}
	return s.joinWeek, nil
}

func (s *Store) SaveJoinWeek(ctx context.Context, snapshot models.JoinWeekSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.joinWeek = snapshot
	s.hasJoin = true
	return nil
}

func (s *Store) LoadLastSeenYear(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasYear {
		return 0, storage.ErrNotFound
	}
	return s.lastYear, nil
}

func (s *Store) SaveLastSeenYear(ctx context.Context, year int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastYear = year
	s.hasYear = true
	return nil
}

func (s *Store) LoadSummaries(ctx context.Context) ([]models.YearSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.YearSummary, len(s.summaries))
	copy(out, s.summaries)
	return out, nil
}

func (s *Store) AppendSummary(ctx context.Context, summary models.YearSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summaries = append(s.summaries, summary)
	return nil
}

func (s *Store) LoadCheckinWeek(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasCheck {
		return "", storage.ErrNotFound
	}
	return s.checkin, nil
}

func (s *Store) SaveCheckinWeek(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkin = key
	s.hasCheck = true
	return nil
}

func (s *Store) LoadInstalledAt(ctx context.Context) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasInst {
		return time.Time{}, storage.ErrNotFound
	}
	return s.installed, nil
}

func (s *Store) SaveInstalledAt(ctx context.Context, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.installed = at
	s.hasInst = true
	return nil
}

func (s *Store) LoadTheme(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasTheme {
		return "", storage.ErrNotFound
	}
	return s.theme, nil
}

func (s *Store) SaveTheme(ctx context.Context, theme string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.theme = theme
	s.hasTheme = true
	return nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error {
	return nil
}
