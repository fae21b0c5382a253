// Package storage defines the persistence adapter for the app's
// key-value state: the task collection, the join-week snapshot, and a
// handful of scalar flags. Backends live in subpackages; reads are
// best-effort and callers fall back to defaults on ErrNotFound.
package storage

import (
	"context"
	"errors"
	"time"

	"fiftytwo-go/app/models"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// Store persists the application state. Every value maps to a stable key
// so older persisted shapes can be read back and upgraded.
type Store interface {
	LoadTasks(ctx context.Context) ([]models.Task, error)
	SaveTasks(ctx context.Context, tasks []models.Task) error

	LoadJoinWeek(ctx context.Context) (models.JoinWeekSnapshot, error)
	SaveJoinWeek(ctx context.Context, snapshot models.JoinWeekSnapshot) error

	LoadLastSeenYear(ctx context.Context) (int, error)
	SaveLastSeenYear(ctx context.Context, year int) error

	LoadSummaries(ctx context.Context) ([]models.YearSummary, error)
	AppendSummary(ctx context.Context, summary models.YearSummary) error

	LoadCheckinWeek(ctx context.Context) (string, error)
	SaveCheckinWeek(ctx context.Context, key string) error

	LoadInstalledAt(ctx context.Context) (time.Time, error)
	SaveInstalledAt(ctx context.Context, at time.Time) error

	LoadTheme(ctx context.Context) (string, error)
	SaveTheme(ctx context.Context, theme string) error

	Close() error
}
