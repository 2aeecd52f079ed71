package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ManrajK5/Studdy-Buddy/internal/domain/entities"
	"github.com/ManrajK5/Studdy-Buddy/internal/infrastructure/logger"
	"github.com/ManrajK5/Studdy-Buddy/internal/ports"
)

// DefaultReminderMinutes is the reminder applied before the user picks one.
const DefaultReminderMinutes int64 = 1440

// PreferenceService persists the reminder tri-state per user.
type PreferenceService struct {
	prefRepo ports.PreferenceRepository
	logger   *logger.Logger
}

// NewPreferenceService creates a new preference service
func NewPreferenceService(prefRepo ports.PreferenceRepository, appLogger *logger.Logger) *PreferenceService {
	return &PreferenceService{
		prefRepo: prefRepo,
		logger:   appLogger,
	}
}

// GetReminder returns the stored reminder setting. The second return reports
// whether the user has chosen one; when false the caller applies the default
// of one day before.
func (s *PreferenceService) GetReminder(ctx context.Context, userID uuid.UUID) (*entities.ReminderSetting, bool, error) {
	stored, err := s.prefRepo.GetReminder(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	if stored == "" {
		return &entities.ReminderSetting{Minutes: DefaultReminderMinutes}, false, nil
	}

	reminder, err := entities.DecodeReminder(stored)
	if err != nil {
		// A corrupt stored value falls back to the default rather than failing.
		s.logger.Warnw("stored reminder preference unreadable", "user_id", userID, "value", stored)
		return &entities.ReminderSetting{Minutes: DefaultReminderMinutes}, false, nil
	}
	return reminder, true, nil
}

// SetReminder stores a reminder setting, including the explicit states "none"
// and "service default".
func (s *PreferenceService) SetReminder(ctx context.Context, userID uuid.UUID, reminder *entities.ReminderSetting) error {
	if err := s.prefRepo.SetReminder(ctx, userID, entities.EncodeReminder(reminder)); err != nil {
		return fmt.Errorf("save reminder preference: %w", err)
	}
	return nil
}
