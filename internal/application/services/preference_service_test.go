package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/ManrajK5/Studdy-Buddy/internal/domain/entities"
	"github.com/ManrajK5/Studdy-Buddy/internal/infrastructure/logger"
)

type memoryPrefRepo struct {
	values map[uuid.UUID]string
	err    error
}

func (m *memoryPrefRepo) GetReminder(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.values[userID], nil
}

func (m *memoryPrefRepo) SetReminder(ctx context.Context, userID uuid.UUID, value string) error {
	if m.err != nil {
		return m.err
	}
	if m.values == nil {
		m.values = make(map[uuid.UUID]string)
	}
	m.values[userID] = value
	return nil
}

func TestGetReminderDefaultsWhenUnset(t *testing.T) {
	svc := NewPreferenceService(&memoryPrefRepo{}, logger.NewNop())

	reminder, chosen, err := svc.GetReminder(context.Background(), uuid.New())
	if err != nil {
		t.Fatal(err)
	}
	if chosen {
		t.Error("chosen = true for an unset preference")
	}
	if reminder == nil || reminder.Minutes != DefaultReminderMinutes {
		t.Errorf("reminder = %+v, want the one-day default", reminder)
	}
}

func TestGetReminderCorruptValueFallsBack(t *testing.T) {
	userID := uuid.New()
	repo := &memoryPrefRepo{values: map[uuid.UUID]string{userID: "whenever"}}
	svc := NewPreferenceService(repo, logger.NewNop())

	reminder, chosen, err := svc.GetReminder(context.Background(), userID)
	if err != nil {
		t.Fatalf("corrupt value must not fail the read: %v", err)
	}
	if chosen || reminder.Minutes != DefaultReminderMinutes {
		t.Errorf("got %+v chosen=%v, want default fallback", reminder, chosen)
	}
}

func TestReminderTriStateRoundTrips(t *testing.T) {
	repo := &memoryPrefRepo{}
	svc := NewPreferenceService(repo, logger.NewNop())
	ctx := context.Background()
	userID := uuid.New()

	tests := []struct {
		name string
		set  *entities.ReminderSetting
		want *entities.ReminderSetting
	}{
		{"minutes", &entities.ReminderSetting{Minutes: 30}, &entities.ReminderSetting{Minutes: 30}},
		{"explicit none", &entities.ReminderSetting{None: true}, &entities.ReminderSetting{None: true}},
		{"service default", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := svc.SetReminder(ctx, userID, tt.set); err != nil {
				t.Fatal(err)
			}
			got, chosen, err := svc.GetReminder(ctx, userID)
			if err != nil {
				t.Fatal(err)
			}
			if tt.want == nil {
				// "default" stored explicitly still reads back as not chosen.
				if got != nil && got.Minutes != DefaultReminderMinutes {
					t.Errorf("got %+v", got)
				}
				return
			}
			if !chosen || got == nil || *got != *tt.want {
				t.Errorf("got %+v chosen=%v, want %+v", got, chosen, tt.want)
			}
		})
	}
}

func TestGetReminderPropagatesRepoError(t *testing.T) {
	boom := errors.New("connection refused")
	svc := NewPreferenceService(&memoryPrefRepo{err: boom}, logger.NewNop())

	if _, _, err := svc.GetReminder(context.Background(), uuid.New()); !errors.Is(err, boom) {
		t.Errorf("err = %v, want repo error", err)
	}
}
