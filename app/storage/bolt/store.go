// Package bolt provides a bbolt-backed Store. Every value is a JSON
// payload under a fixed key, mirroring the original key-value shape so
// older data files load and upgrade cleanly.
package bolt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.etcd.io/bbolt"

	"fiftytwo-go/app/models"
	"fiftytwo-go/app/storage"
)

const stateBucket = "state"

const (
	keyTasks       = "tasks"
	keyJoinWeek    = "joinWeek"
	keyLastYear    = "lastSeenYear"
	keySummaries   = "yearSummaries"
	keyCheckinWeek = "lastCheckinWeek"
	keyInstalledAt = "installedAt"
	keyTheme       = "theme"
)

// Store provides a bbolt-backed application state store.
type Store struct {
	db *bbolt.DB
}

// Open opens a bbolt-backed store at the provided path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	db, err := bbolt.Open(filepath.Clean(path), 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open storage db: %w", err)
	}

	store := &Store{db: db}
	if err := store.ensureBuckets(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) LoadTasks(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	if err := s.get(ctx, keyTasks, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *Store) SaveTasks(ctx context.Context, tasks []models.Task) error {
	return s.put(ctx, keyTasks, tasks)
}

func (s *Store) LoadJoinWeek(ctx context.Context) (models.JoinWeekSnapshot, error) {
	var snapshot models.JoinWeekSnapshot
	if err := s.get(ctx, keyJoinWeek, &snapshot); err != nil {
		return models.JoinWeekSnapshot{}, err
	}
	return snapshot, nil
}

func (s *Store) SaveJoinWeek(ctx context.Context, snapshot models.JoinWeekSnapshot) error {
	return s.put(ctx, keyJoinWeek, snapshot)
}

func (s *Store) LoadLastSeenYear(ctx context.Context) (int, error) {
	var year int
	if err := s.get(ctx, keyLastYear, &year); err != nil {
		return 0, err
	}
	return year, nil
}

func (s *Store) SaveLastSeenYear(ctx context.Context, year int) error {
	return s.put(ctx, keyLastYear, year)
}

func (s *Store) LoadSummaries(ctx context.Context) ([]models.YearSummary, error) {
	var summaries []models.YearSummary
	err := s.get(ctx, keySummaries, &summaries)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}
	return summaries, nil
}

func (s *Store) AppendSummary(ctx context.Context, summary models.YearSummary) error {
	summaries, err := s.LoadSummaries(ctx)
	if err != nil {
		return err
	}
	return s.put(ctx, keySummaries, append(summaries, summary))
}

func (s *Store) LoadCheckinWeek(ctx context.Context) (string, error) {
	var key string
	if err := s.get(ctx, keyCheckinWeek, &key); err != nil {
		return "", err
	}
	return key, nil
}

func (s *Store) SaveCheckinWeek(ctx context.Context, key string) error {
	return s.put(ctx, keyCheckinWeek, key)
}

func (s *Store) LoadInstalledAt(ctx context.Context) (time.Time, error) {
	var at time.Time
	if err := s.get(ctx, keyInstalledAt, &at); err != nil {
		return time.Time{}, err
	}
	return at, nil
}

func (s *Store) SaveInstalledAt(ctx context.Context, at time.Time) error {
	return s.put(ctx, keyInstalledAt, at)
}

func (s *Store) LoadTheme(ctx context.Context) (string, error) {
	var theme string
	if err := s.get(ctx, keyTheme, &theme); err != nil {
		return "", err
	}
	return theme, nil
}

func (s *Store) SaveTheme(ctx context.Context, theme string) error {
	return s.put(ctx, keyTheme, theme)
}

func (s *Store) get(ctx context.Context, key string, target any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return fmt.Errorf("storage is not configured")
	}

	return s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(stateBucket))
		if bucket == nil {
			return fmt.Errorf("state bucket is missing")
		}
		payload := bucket.Get([]byte(key))
		if payload == nil {
			return storage.ErrNotFound
		}
		if err := json.Unmarshal(payload, target); err != nil {
			return fmt.Errorf("unmarshal %s: %w", key, err)
		}
		return nil
	})
}

func (s *Store) put(ctx context.Context, key string, value any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return fmt.Errorf("storage is not configured")
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(stateBucket))
		if bucket == nil {
			return fmt.Errorf("state bucket is missing")
		}
		return bucket.Put([]byte(key), payload)
	})
}

func (s *Store) ensureBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(stateBucket))
		if err != nil {
			return fmt.Errorf("create state bucket: %w", err)
		}
		return nil
	})
}
