package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ManrajK5/Studdy-Buddy/internal/ports"
)

// PreferenceRepositoryImpl implements the PreferenceRepository interface
type PreferenceRepositoryImpl struct {
	db *sqlx.DB
}

// NewPreferenceRepository creates a new preference repository
func NewPreferenceRepository(db *sqlx.DB) ports.PreferenceRepository {
	return &PreferenceRepositoryImpl{db: db}
}

func (r *PreferenceRepositoryImpl) GetReminder(ctx context.Context, userID uuid.UUID) (string, error) {
	query := `SELECT reminder FROM user_preferences WHERE user_id = $1`

	var reminder string
	err := r.db.GetContext(ctx, &reminder, query, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("get reminder preference: %w", err)
	}

	return reminder, nil
}

func (r *PreferenceRepositoryImpl) SetReminder(ctx context.Context, userID uuid.UUID, value string) error {
	query := `
		INSERT INTO user_preferences (user_id, reminder)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE
		SET reminder = EXCLUDED.reminder, updated_at = CURRENT_TIMESTAMP`

	if _, err := r.db.ExecContext(ctx, query, userID, value); err != nil {
		return fmt.Errorf("set reminder preference: %w", err)
	}

	return nil
}
