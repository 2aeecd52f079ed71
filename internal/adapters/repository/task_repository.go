package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ManrajK5/Studdy-Buddy/internal/domain/entities"
	"github.com/ManrajK5/Studdy-Buddy/internal/ports"
)

// TaskRepositoryImpl implements the TaskRepository interface
type TaskRepositoryImpl struct {
	db *sqlx.DB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *sqlx.DB) ports.TaskRepository {
	return &TaskRepositoryImpl{db: db}
}

// taskRow mirrors the tasks table. Status and due_date are nullable: rows
// written before the status migration have no stored status.
type taskRow struct {
	ID          string               `db:"id"`
	UserID      uuid.UUID            `db:"user_id"`
	Title       string               `db:"title"`
	Category    string               `db:"category"`
	Status      sql.NullString       `db:"status"`
	DueDate     sql.NullString       `db:"due_date"`
	Description sql.NullString       `db:"description"`
	Subtasks    entities.SubtaskList `db:"subtasks"`
	Source      sql.NullString       `db:"source"`
	CompletedAt *time.Time           `db:"completed_at"`
	CreatedAt   time.Time            `db:"created_at"`
	UpdatedAt   time.Time            `db:"updated_at"`
}

func (r taskRow) toEntity() entities.Task {
	return entities.Task{
		ID:          r.ID,
		UserID:      r.UserID,
		Title:       r.Title,
		Category:    entities.TaskCategory(r.Category),
		Status:      entities.TaskStatus(r.Status.String),
		DueDate:     r.DueDate.String,
		Description: r.Description.String,
		Subtasks:    r.Subtasks,
		Source:      r.Source.String,
		CompletedAt: r.CompletedAt,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (r *TaskRepositoryImpl) Create(ctx context.Context, task *entities.Task) error {
	query := `
		INSERT INTO tasks (id, user_id, title, category, status, due_date, description, subtasks, source, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at`

	if task.ID == "" || entities.IsLocalID(task.ID) {
		task.ID = uuid.NewString()
	}

	err := r.db.QueryRowContext(ctx, query,
		task.ID, task.UserID, task.Title, task.Category,
		nullable(string(task.Status)), nullable(task.DueDate), nullable(task.Description),
		task.Subtasks, nullable(task.Source), task.CompletedAt,
	).Scan(&task.CreatedAt, &task.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}

	return nil
}

func (r *TaskRepositoryImpl) CreateBatch(ctx context.Context, tasks []*entities.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create batch: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO tasks (id, user_id, title, category, status, due_date, description, subtasks, source, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at`

	for _, task := range tasks {
		if task.ID == "" || entities.IsLocalID(task.ID) {
			task.ID = uuid.NewString()
		}
		err := tx.QueryRowContext(ctx, query,
			task.ID, task.UserID, task.Title, task.Category,
			nullable(string(task.Status)), nullable(task.DueDate), nullable(task.Description),
			task.Subtasks, nullable(task.Source), task.CompletedAt,
		).Scan(&task.CreatedAt, &task.UpdatedAt)
		if err != nil {
			return fmt.Errorf("create task %q: %w", task.Title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create batch: %w", err)
	}

	return nil
}

func (r *TaskRepositoryImpl) GetByID(ctx context.Context, userID uuid.UUID, id string) (*entities.Task, error) {
	query := `
		SELECT id, user_id, title, category, status, due_date, description, subtasks, source,
			completed_at, created_at, updated_at
		FROM tasks
		WHERE id = $1 AND user_id = $2`

	var row taskRow
	err := r.db.GetContext(ctx, &row, query, id, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrTaskNotFound
		}
		return nil, fmt.Errorf("get task by id: %w", err)
	}

	task := row.toEntity()
	return &task, nil
}

func (r *TaskRepositoryImpl) ListByUser(ctx context.Context, userID uuid.UUID, filter ports.TaskFilter) ([]entities.Task, error) {
	query := `
		SELECT id, user_id, title, category, status, due_date, description, subtasks, source,
			completed_at, created_at, updated_at
		FROM tasks
		WHERE user_id = $1`

	args := []interface{}{userID}

	if filter.Category != nil {
		args = append(args, *filter.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}

	if filter.SortBy == "added" {
		query += " ORDER BY created_at ASC"
	} else {
		query += " ORDER BY due_date ASC NULLS LAST"
	}

	var rows []taskRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	tasks := make([]entities.Task, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, row.toEntity())
	}

	return tasks, nil
}

func (r *TaskRepositoryImpl) Update(ctx context.Context, task *entities.Task) error {
	query := `
		UPDATE tasks
		SET title = $3, category = $4, status = $5, due_date = $6, description = $7,
			subtasks = $8, completed_at = $9, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND user_id = $2
		RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query,
		task.ID, task.UserID, task.Title, task.Category,
		nullable(string(task.Status)), nullable(task.DueDate), nullable(task.Description),
		task.Subtasks, task.CompletedAt,
	).Scan(&task.UpdatedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return entities.ErrTaskNotFound
		}
		return fmt.Errorf("update task: %w", err)
	}

	return nil
}

func (r *TaskRepositoryImpl) UpdateStatus(ctx context.Context, userID uuid.UUID, id string, status entities.TaskStatus, completedAt *time.Time) error {
	query := `
		UPDATE tasks
		SET status = $3, completed_at = $4, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID, status, completedAt)
	if err != nil {
		return fmt.Errorf("update task status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update task status: %w", err)
	}
	if affected == 0 {
		return entities.ErrTaskNotFound
	}

	return nil
}

func (r *TaskRepositoryImpl) DeleteByIDs(ctx context.Context, userID uuid.UUID, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	query := `DELETE FROM tasks WHERE user_id = $1 AND id = ANY($2)`

	if _, err := r.db.ExecContext(ctx, query, userID, pq.Array(ids)); err != nil {
		return fmt.Errorf("delete tasks: %w", err)
	}

	return nil
}
