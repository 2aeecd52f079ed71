// Package board holds the in-memory working copy of a user's tasks and the
// optimistic-update discipline that keeps it consistent with the datastore.
//
// Every mutation follows the same protocol: snapshot the collection, apply the
// change in memory, issue the durable write, and on failure restore the
// snapshot exactly and surface the upstream error. On success the optimistic
// state stays the source of truth; no re-fetch happens.
package board

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ManrajK5/Studdy-Buddy/internal/domain/entities"
	"github.com/ManrajK5/Studdy-Buddy/internal/infrastructure/logger"
	"github.com/ManrajK5/Studdy-Buddy/internal/ports"
)

// Store is one user's working copy. Mutations are serialized by the mutex; the
// original client ran them on a single event loop and the protocol depends on
// snapshot/restore pairs not interleaving.
type Store struct {
	mu     sync.Mutex
	userID uuid.UUID
	repo   ports.TaskRepository
	logger *logger.Logger
	now    func() time.Time

	tasks  []entities.Task
	loaded bool
}

// NewStore creates an empty store for one user. The collection is loaded
// lazily on first use.
func NewStore(userID uuid.UUID, repo ports.TaskRepository, appLogger *logger.Logger) *Store {
	return &Store{
		userID: userID,
		repo:   repo,
		logger: appLogger.WithUserID(userID.String()),
		now:    time.Now,
	}
}

// Invalidate drops the working copy so the next read re-fetches. Called after
// writes that bypass the store, such as a syllabus save.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = false
	s.tasks = nil
}

// Tasks returns a copy of the collection, loading it if needed.
func (s *Store) Tasks(ctx context.Context) ([]entities.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return s.copyTasks(), nil
}

// Columns groups the collection into the three board columns, preserving the
// load order within each.
func (s *Store) Columns(ctx context.Context) (map[entities.TaskStatus][]entities.Task, error) {
	tasks, err := s.Tasks(ctx)
	if err != nil {
		return nil, err
	}

	columns := map[entities.TaskStatus][]entities.Task{
		entities.StatusUpcoming:   {},
		entities.StatusInProgress: {},
		entities.StatusCompleted:  {},
	}
	for _, t := range tasks {
		columns[t.Status] = append(columns[t.Status], t)
	}
	return columns, nil
}

// Create inserts a manually entered task and appends it to the working copy.
func (s *Store) Create(ctx context.Context, req ports.CreateTaskRequest) (*entities.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	task := &entities.Task{
		ID:          entities.NewLocalID(),
		UserID:      s.userID,
		Title:       req.Title,
		Category:    req.Category,
		Status:      entities.StatusUpcoming,
		DueDate:     req.DueDate,
		Description: req.Description,
		Subtasks:    req.Subtasks,
		Source:      "manual",
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, task); err != nil {
		return nil, err
	}

	s.tasks = append(s.tasks, *task)
	s.logger.Infow("task created", "task_id", task.ID, "title", task.Title)

	out := *task
	return &out, nil
}

// UpdateStatus transitions one task optimistically. Moving a card onto its own
// column is a no-op and issues no write.
func (s *Store) UpdateStatus(ctx context.Context, id string, next entities.TaskStatus) error {
	if !next.IsValid() {
		return entities.ErrInvalidStatus
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}

	idx := s.indexOf(id)
	if idx < 0 {
		return entities.ErrTaskNotFound
	}
	if s.tasks[idx].Status == next {
		return nil
	}

	snapshot := s.copyTasks()

	if err := s.tasks[idx].SetStatus(next, s.now()); err != nil {
		return err
	}

	if err := s.repo.UpdateStatus(ctx, s.userID, id, next, s.tasks[idx].CompletedAt); err != nil {
		s.tasks = snapshot
		s.logger.Warnw("status update rolled back", "task_id", id, "error", err)
		return err
	}

	return nil
}

// Edit applies a full-task edit optimistically. An empty due date in the
// request keeps the task's current one.
func (s *Store) Edit(ctx context.Context, id string, req ports.EditTaskRequest) (*entities.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, entities.ErrTaskNotFound
	}

	snapshot := s.copyTasks()

	task := &s.tasks[idx]
	task.Title = req.Title
	task.Category = req.Category
	if req.DueDate != "" {
		task.DueDate = req.DueDate
	}
	task.Description = req.Description
	task.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, task); err != nil {
		s.tasks = snapshot
		s.logger.Warnw("task edit rolled back", "task_id", id, "error", err)
		return nil, err
	}

	out := *task
	return &out, nil
}

// BulkDelete removes the ids from view immediately and deletes them durably.
// There is deliberately no rollback path: a failed durable delete is logged and
// the ids reappear on the next load.
func (s *Store) BulkDelete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}

	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}

	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if !drop[t.ID] {
			kept = append(kept, t)
		}
	}
	s.tasks = kept

	if err := s.repo.DeleteByIDs(ctx, s.userID, ids); err != nil {
		s.logger.Errorw("bulk delete failed durably", "ids", ids, "error", err)
	}

	return nil
}

// ensureLoaded fetches the collection and resolves each row's effective status.
// Callers must hold the mutex.
func (s *Store) ensureLoaded(ctx context.Context) error {
	if s.loaded {
		return nil
	}

	rows, err := s.repo.ListByUser(ctx, s.userID, ports.TaskFilter{})
	if err != nil {
		return err
	}

	today := s.now().UTC().Format("2006-01-02")
	for i := range rows {
		rows[i].Status = entities.DeriveStatus(rows[i].Status, rows[i].CompletedAt, rows[i].DueDate, today)
		if rows[i].DueDate == "" {
			rows[i].DueDate = today
		}
	}

	s.tasks = rows
	s.loaded = true
	return nil
}

func (s *Store) indexOf(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) copyTasks() []entities.Task {
	out := make([]entities.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}
