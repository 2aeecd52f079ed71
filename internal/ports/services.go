package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/ManrajK5/Studdy-Buddy/internal/domain/entities"
)

// SyllabusExtractor is the opaque text-to-structured-events collaborator. The
// returned result is already schema-validated.
type SyllabusExtractor interface {
	Extract(ctx context.Context, syllabus string) (*entities.ParsedSyllabus, error)
}

// SyllabusService parses syllabus text and persists the extracted events.
type SyllabusService interface {
	Parse(ctx context.Context, syllabus string) (*entities.ParsedSyllabus, error)
	Save(ctx context.Context, userID uuid.UUID, events []entities.ParsedEvent) (*SaveReport, error)
}

// SyncService pushes a user's open tasks to the external calendar.
type SyncService interface {
	SyncTasks(ctx context.Context, req SyncRequest) (*SyncReport, error)
}

// PreferenceService reads and writes the persisted reminder preference.
type PreferenceService interface {
	GetReminder(ctx context.Context, userID uuid.UUID) (*entities.ReminderSetting, bool, error)
	SetReminder(ctx context.Context, userID uuid.UUID, reminder *entities.ReminderSetting) error
}

// CreateTaskRequest is a manual task creation payload.
type CreateTaskRequest struct {
	Title       string                `json:"title" validate:"required,min=1"`
	Category    entities.TaskCategory `json:"type" validate:"required,oneof=quiz assignment exam lecture"`
	DueDate     string                `json:"due_date"`
	Description string                `json:"description"`
	Subtasks    entities.SubtaskList  `json:"subtasks"`
}

// EditTaskRequest is a full-task edit payload. The title must stay non-empty;
// an empty due date keeps the current one.
type EditTaskRequest struct {
	Title       string                `json:"title" validate:"required,min=1"`
	Category    entities.TaskCategory `json:"type" validate:"required,oneof=quiz assignment exam"`
	DueDate     string                `json:"due_date"`
	Description string                `json:"description"`
}

// SaveReport distinguishes "nothing new" from "save failed": it carries how many
// records were inserted and how many candidates were dropped as duplicates.
type SaveReport struct {
	Saved   int `json:"saved"`
	Skipped int `json:"skipped"`
}

// SyncRequest carries everything a batch sync needs. AccessToken is the caller's
// Google credential; the engine never acquires or refreshes it.
type SyncRequest struct {
	UserID      uuid.UUID
	AccessToken string
	Reminder    *entities.ReminderSetting
}

// SyncItem is the outcome for one task in a batch, addressable by its input index.
type SyncItem struct {
	Index    int    `json:"index"`
	TaskID   string `json:"task_id"`
	Title    string `json:"title"`
	EventID  string `json:"event_id,omitempty"`
	HTMLLink string `json:"html_link,omitempty"`
	Error    string `json:"error,omitempty"`
}

// SyncReport aggregates a batch: per-item outcomes plus counts, so a partial
// failure is reported as such instead of collapsing to one error.
type SyncReport struct {
	Total  int        `json:"total"`
	Synced int        `json:"synced"`
	Failed int        `json:"failed"`
	Items  []SyncItem `json:"items"`
}
