package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"fiftytwo-go/app/storage"
)

// DefaultTheme is used when no preference has been persisted.
const DefaultTheme = "system"

// SettingsService exposes the small scalar preferences.
type SettingsService struct {
	store  storage.Store
	logger *zap.Logger
}

// NewSettingsService creates a settings service.
func NewSettingsService(store storage.Store, logger *zap.Logger) *SettingsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{store: store, logger: logger}
}

// Theme returns the persisted theme preference, falling back to the
// default on absence or read failure.
func (s *SettingsService) Theme(ctx context.Context) string {
	theme, err := s.store.LoadTheme(ctx)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("load theme failed", zap.Error(err))
		}
		return DefaultTheme
	}
	if theme == "" {
		return DefaultTheme
	}
	return theme
}

// SetTheme persists the theme preference.
func (s *SettingsService) SetTheme(ctx context.Context, theme string) {
	if err := s.store.SaveTheme(ctx, theme); err != nil {
		s.logger.Warn("save theme failed", zap.Error(err))
	}
}
