package entities

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrInvalidCategory = errors.New("invalid task category")
	ErrInvalidStatus   = errors.New("invalid task status")
	ErrEmptyTitle      = errors.New("title is required")
	ErrEmptySyllabus   = errors.New("paste your syllabus first")
	ErrNoEvents        = errors.New("no events to sync")
	ErrNoCalendarToken = errors.New("sign in with Google to enable calendar sync")
	ErrUnauthorized    = errors.New("unauthorized")
)

// TaskCategory classifies a graded event. Lecture exists only on the board and is
// never synced under its own name.
type TaskCategory string

const (
	CategoryQuiz       TaskCategory = "quiz"
	CategoryAssignment TaskCategory = "assignment"
	CategoryExam       TaskCategory = "exam"
	CategoryLecture    TaskCategory = "lecture"
)

// IsValid reports whether the category is one of the known values.
func (c TaskCategory) IsValid() bool {
	switch c {
	case CategoryQuiz, CategoryAssignment, CategoryExam, CategoryLecture:
		return true
	default:
		return false
	}
}

// Syncable returns the category used when pushing to the calendar. Lectures are
// represented as assignments there.
func (c TaskCategory) Syncable() TaskCategory {
	if c == CategoryLecture {
		return CategoryAssignment
	}
	return c
}

// TaskStatus is the lifecycle state of a task on the board.
type TaskStatus string

const (
	StatusUpcoming   TaskStatus = "upcoming"
	StatusInProgress TaskStatus = "in-progress"
	StatusCompleted  TaskStatus = "completed"
)

// IsValid reports whether the status is one of the three board columns.
func (s TaskStatus) IsValid() bool {
	switch s {
	case StatusUpcoming, StatusInProgress, StatusCompleted:
		return true
	default:
		return false
	}
}

// Subtask is one derived sub-step of a task with an estimated time.
type Subtask struct {
	Title string `json:"title"`
	ETA   string `json:"eta"`
}

// SubtaskList stores subtasks as a jsonb column.
type SubtaskList []Subtask

// Value implements driver.Valuer.
func (l SubtaskList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return nil, nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner.
func (l *SubtaskList) Scan(src interface{}) error {
	if src == nil {
		*l = nil
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("subtasks: unsupported scan type %T", src)
	}
	return json.Unmarshal(data, l)
}

// Task represents a graded-deadline item owned by a single user.
//
// DueDate holds the raw due value: either a pure calendar date (YYYY-MM-DD) or a
// fully qualified RFC 3339 instant. The two forms are never mixed.
type Task struct {
	ID          string       `json:"id" db:"id"`
	UserID      uuid.UUID    `json:"user_id" db:"user_id"`
	Title       string       `json:"title" db:"title"`
	Category    TaskCategory `json:"type" db:"category"`
	Status      TaskStatus   `json:"status" db:"status"`
	DueDate     string       `json:"due_date" db:"due_date"`
	Description string       `json:"description" db:"description"`
	Subtasks    SubtaskList  `json:"subtasks,omitempty" db:"subtasks"`
	Source      string       `json:"source" db:"source"`
	CompletedAt *time.Time   `json:"completed_at" db:"completed_at"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at" db:"updated_at"`
}

// localIDPrefix marks identifiers assigned client-side before the first durable save.
const localIDPrefix = "tmp-"

// NewLocalID returns a temporary identifier for a task that has not been persisted.
func NewLocalID() string {
	return localIDPrefix + uuid.NewString()
}

// IsLocalID reports whether id was assigned locally rather than by the datastore.
func IsLocalID(id string) bool {
	return strings.HasPrefix(id, localIDPrefix)
}

// SetStatus transitions the task and keeps the completion timestamp consistent:
// it is set exactly when the status is completed and cleared otherwise.
func (t *Task) SetStatus(next TaskStatus, now time.Time) error {
	if !next.IsValid() {
		return ErrInvalidStatus
	}
	t.Status = next
	if next == StatusCompleted {
		ts := now.UTC()
		t.CompletedAt = &ts
	} else {
		t.CompletedAt = nil
	}
	t.UpdatedAt = now.UTC()
	return nil
}

// IsCompleted reports whether the task is in the completed column.
func (t *Task) IsCompleted() bool {
	return t.Status == StatusCompleted
}

// DeriveStatus resolves the effective status of a loaded row. Rows written before
// the status column existed have no stored status; for those the status is derived
// from the completion timestamp and the due date. A completion timestamp always
// wins, an explicitly stored status wins over derivation.
func DeriveStatus(stored TaskStatus, completedAt *time.Time, dueDate, today string) TaskStatus {
	if completedAt != nil {
		return StatusCompleted
	}
	if stored.IsValid() {
		return stored
	}
	if dueDate != "" && DateOnly(dueDate) < today {
		return StatusInProgress
	}
	return StatusUpcoming
}

var dateOnlyRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// IsDateOnly reports whether value is a pure calendar date.
func IsDateOnly(value string) bool {
	return dateOnlyRe.MatchString(value)
}

// DateOnly reduces a due value to its calendar-date part.
func DateOnly(value string) string {
	if i := strings.IndexByte(value, 'T'); i >= 0 {
		return value[:i]
	}
	return value
}

// ParsedEvent is one graded event extracted from syllabus text. The shape is
// validated at the extraction boundary before any of it is used.
type ParsedEvent struct {
	Title       string       `json:"title" validate:"required,min=1"`
	Category    TaskCategory `json:"type" validate:"required,oneof=quiz assignment exam"`
	Date        string       `json:"date" validate:"required,min=1"`
	Description string       `json:"description"`
}

// ParsedSummary carries the per-category counts reported by the extractor.
type ParsedSummary struct {
	Quizzes     int `json:"quizzes" validate:"gte=0"`
	Assignments int `json:"assignments" validate:"gte=0"`
	Exams       int `json:"exams" validate:"gte=0"`
}

// ParsedSyllabus is the structured extraction result.
type ParsedSyllabus struct {
	Summary ParsedSummary `json:"summary"`
	Events  []ParsedEvent `json:"events" validate:"dive"`
}

// ReminderSetting is the explicit "no service default" half of the reminder
// tri-state: either no reminder at all, or a popup N minutes before start.
// The third state, "use the service default", is a nil *ReminderSetting; the
// three must never be collapsed into two.
type ReminderSetting struct {
	None    bool  `json:"-"`
	Minutes int64 `json:"-"`
}

// UnmarshalJSON accepts JSON null (explicitly no reminder) or a non-negative
// number of minutes. An absent field never reaches this method, which is how the
// service-default state is represented.
func (r *ReminderSetting) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = ReminderSetting{None: true}
		return nil
	}
	var minutes int64
	if err := json.Unmarshal(data, &minutes); err != nil {
		return fmt.Errorf("reminder: expected null or minutes: %w", err)
	}
	if minutes < 0 {
		return fmt.Errorf("reminder: minutes must be non-negative, got %d", minutes)
	}
	*r = ReminderSetting{Minutes: minutes}
	return nil
}

// MarshalJSON emits null for an explicit no-reminder and the minute count otherwise.
func (r ReminderSetting) MarshalJSON() ([]byte, error) {
	if r.None {
		return []byte("null"), nil
	}
	return json.Marshal(r.Minutes)
}

// EncodeReminder serializes a tri-state reminder preference for storage.
func EncodeReminder(r *ReminderSetting) string {
	switch {
	case r == nil:
		return "default"
	case r.None:
		return "none"
	default:
		return fmt.Sprintf("%d", r.Minutes)
	}
}

// DecodeReminder is the inverse of EncodeReminder. Unknown values fall back to
// the service default.
func DecodeReminder(value string) (*ReminderSetting, error) {
	switch value {
	case "", "default":
		return nil, nil
	case "none":
		return &ReminderSetting{None: true}, nil
	}
	var minutes int64
	if _, err := fmt.Sscanf(value, "%d", &minutes); err != nil || minutes < 0 {
		return nil, fmt.Errorf("invalid reminder preference %q", value)
	}
	return &ReminderSetting{Minutes: minutes}, nil
}
