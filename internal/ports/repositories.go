package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ManrajK5/Studdy-Buddy/internal/domain/entities"
)

// TaskRepository defines the interface for task data operations. All operations
// are single-table and scoped to the owning user.
type TaskRepository interface {
	Create(ctx context.Context, task *entities.Task) error
	CreateBatch(ctx context.Context, tasks []*entities.Task) error
	GetByID(ctx context.Context, userID uuid.UUID, id string) (*entities.Task, error)
	ListByUser(ctx context.Context, userID uuid.UUID, filter TaskFilter) ([]entities.Task, error)
	Update(ctx context.Context, task *entities.Task) error
	UpdateStatus(ctx context.Context, userID uuid.UUID, id string, status entities.TaskStatus, completedAt *time.Time) error
	DeleteByIDs(ctx context.Context, userID uuid.UUID, ids []string) error
}

// PreferenceRepository persists per-user settings.
type PreferenceRepository interface {
	GetReminder(ctx context.Context, userID uuid.UUID) (string, error)
	SetReminder(ctx context.Context, userID uuid.UUID, value string) error
}

// TaskFilter narrows and orders ListByUser results.
type TaskFilter struct {
	Category *entities.TaskCategory
	Status   *entities.TaskStatus
	SortBy   string // "due" (default) or "added"
}
