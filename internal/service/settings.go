package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"radar-backend/internal/model"
	"radar-backend/internal/repository"
)

// SettingsService exposes the global kill switch. The flag is read from
// storage on every attempt, never cached, so flipping it takes effect
// immediately across all instances.
type SettingsService struct {
	settings *repository.SettingRepository
}

// NewSettingsService creates a new SettingsService instance.
func NewSettingsService(settings *repository.SettingRepository) *SettingsService {
	return &SettingsService{settings: settings}
}

// ScansEnabled reports whether scan attempts are globally enabled.
// An absent key counts as enabled.
func (s *SettingsService) ScansEnabled(ctx context.Context) (bool, error) {
	return s.settings.Bool(ctx, model.SettingScansEnabled, true)
}

// SetScansEnabled flips the global kill switch.
func (s *SettingsService) SetScansEnabled(ctx context.Context, enabled bool) error {
	if err := s.settings.Put(ctx, model.SettingScansEnabled, enabled); err != nil {
		return err
	}

	log.Info().Bool("enabled", enabled).Msg("Scan kill switch updated")
	return nil
}
