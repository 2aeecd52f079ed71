package board

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ManrajK5/Studdy-Buddy/internal/domain/entities"
	"github.com/ManrajK5/Studdy-Buddy/internal/infrastructure/logger"
	"github.com/ManrajK5/Studdy-Buddy/internal/ports"
)

var errDatastore = errors.New("datastore unavailable")

// fakeRepo is an in-memory TaskRepository whose writes can be forced to fail.
type fakeRepo struct {
	rows        []entities.Task
	failWrites  bool
	updateCalls int
	deleteCalls int
}

func (f *fakeRepo) Create(ctx context.Context, task *entities.Task) error {
	if f.failWrites {
		return errDatastore
	}
	if entities.IsLocalID(task.ID) {
		task.ID = uuid.NewString()
	}
	f.rows = append(f.rows, *task)
	return nil
}

func (f *fakeRepo) CreateBatch(ctx context.Context, tasks []*entities.Task) error {
	for _, t := range tasks {
		if err := f.Create(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, userID uuid.UUID, id string) (*entities.Task, error) {
	for i := range f.rows {
		if f.rows[i].ID == id {
			t := f.rows[i]
			return &t, nil
		}
	}
	return nil, entities.ErrTaskNotFound
}

func (f *fakeRepo) ListByUser(ctx context.Context, userID uuid.UUID, filter ports.TaskFilter) ([]entities.Task, error) {
	out := make([]entities.Task, len(f.rows))
	copy(out, f.rows)
	return out, nil
}

func (f *fakeRepo) Update(ctx context.Context, task *entities.Task) error {
	f.updateCalls++
	if f.failWrites {
		return errDatastore
	}
	for i := range f.rows {
		if f.rows[i].ID == task.ID {
			f.rows[i] = *task
			return nil
		}
	}
	return entities.ErrTaskNotFound
}

func (f *fakeRepo) UpdateStatus(ctx context.Context, userID uuid.UUID, id string, status entities.TaskStatus, completedAt *time.Time) error {
	f.updateCalls++
	if f.failWrites {
		return errDatastore
	}
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows[i].Status = status
			f.rows[i].CompletedAt = completedAt
			return nil
		}
	}
	return entities.ErrTaskNotFound
}

func (f *fakeRepo) DeleteByIDs(ctx context.Context, userID uuid.UUID, ids []string) error {
	f.deleteCalls++
	if f.failWrites {
		return errDatastore
	}
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := f.rows[:0]
	for _, t := range f.rows {
		if !drop[t.ID] {
			kept = append(kept, t)
		}
	}
	f.rows = kept
	return nil
}

func newTestStore(repo *fakeRepo) *Store {
	s := NewStore(uuid.New(), repo, logger.NewNop())
	s.now = func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) }
	return s
}

func seed(repo *fakeRepo, tasks ...entities.Task) {
	repo.rows = append(repo.rows, tasks...)
}

func TestStoreDerivesStatusOnLoad(t *testing.T) {
	completed := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	repo := &fakeRepo{}
	seed(repo,
		entities.Task{ID: "a", Title: "Done long ago", CompletedAt: &completed, DueDate: "2026-03-20"},
		entities.Task{ID: "b", Title: "Overdue legacy row", DueDate: "2026-03-01"},
		entities.Task{ID: "c", Title: "Future legacy row", DueDate: "2026-03-20"},
		entities.Task{ID: "d", Title: "Stored status wins", Status: entities.StatusInProgress, DueDate: "2026-03-20"},
		entities.Task{ID: "e", Title: "No due date"},
	)

	tasks, err := newTestStore(repo).Tasks(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	want := map[string]entities.TaskStatus{
		"a": entities.StatusCompleted,
		"b": entities.StatusInProgress,
		"c": entities.StatusUpcoming,
		"d": entities.StatusInProgress,
		"e": entities.StatusUpcoming,
	}
	for _, task := range tasks {
		if task.Status != want[task.ID] {
			t.Errorf("task %s status = %q, want %q", task.ID, task.Status, want[task.ID])
		}
	}

	// Missing due dates are defaulted to today so the board can sort them.
	for _, task := range tasks {
		if task.ID == "e" && task.DueDate != "2026-03-10" {
			t.Errorf("task e due date = %q, want today", task.DueDate)
		}
	}
}

func TestUpdateStatusRollsBackOnWriteFailure(t *testing.T) {
	repo := &fakeRepo{}
	seed(repo,
		entities.Task{ID: "a", Title: "First", Status: entities.StatusUpcoming, DueDate: "2026-03-20"},
		entities.Task{ID: "b", Title: "Second", Status: entities.StatusUpcoming, DueDate: "2026-03-21"},
	)
	store := newTestStore(repo)

	before, err := store.Tasks(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	repo.failWrites = true
	err = store.UpdateStatus(context.Background(), "a", entities.StatusCompleted)
	if !errors.Is(err, errDatastore) {
		t.Fatalf("UpdateStatus = %v, want the upstream error", err)
	}

	after, err := store.Tasks(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(before, after) {
		t.Errorf("working copy changed after rollback:\nbefore %+v\nafter  %+v", before, after)
	}
}

func TestUpdateStatusSameColumnIsNoOp(t *testing.T) {
	repo := &fakeRepo{}
	seed(repo, entities.Task{ID: "a", Status: entities.StatusUpcoming, DueDate: "2026-03-20"})
	store := newTestStore(repo)

	if err := store.UpdateStatus(context.Background(), "a", entities.StatusUpcoming); err != nil {
		t.Fatal(err)
	}
	if repo.updateCalls != 0 {
		t.Errorf("updateCalls = %d, want 0 for a same-column move", repo.updateCalls)
	}
}

func TestUpdateStatusSetsAndClearsCompletedAt(t *testing.T) {
	repo := &fakeRepo{}
	seed(repo, entities.Task{ID: "a", Status: entities.StatusUpcoming, DueDate: "2026-03-20"})
	store := newTestStore(repo)
	ctx := context.Background()

	if err := store.UpdateStatus(ctx, "a", entities.StatusCompleted); err != nil {
		t.Fatal(err)
	}
	tasks, _ := store.Tasks(ctx)
	if tasks[0].CompletedAt == nil {
		t.Fatal("CompletedAt not set on completion")
	}

	if err := store.UpdateStatus(ctx, "a", entities.StatusUpcoming); err != nil {
		t.Fatal(err)
	}
	tasks, _ = store.Tasks(ctx)
	if tasks[0].CompletedAt != nil {
		t.Error("CompletedAt not cleared after leaving completed")
	}
	if repo.rows[0].CompletedAt != nil {
		t.Error("durable row kept a stale CompletedAt")
	}
}

func TestUpdateStatusUnknownTask(t *testing.T) {
	store := newTestStore(&fakeRepo{})
	if err := store.UpdateStatus(context.Background(), "nope", entities.StatusCompleted); !errors.Is(err, entities.ErrTaskNotFound) {
		t.Errorf("err = %v, want ErrTaskNotFound", err)
	}
	if err := store.UpdateStatus(context.Background(), "nope", "archived"); !errors.Is(err, entities.ErrInvalidStatus) {
		t.Errorf("err = %v, want ErrInvalidStatus", err)
	}
}

func TestEditKeepsDueDateWhenOmitted(t *testing.T) {
	repo := &fakeRepo{}
	seed(repo, entities.Task{ID: "a", Title: "Old", Category: entities.CategoryQuiz, Status: entities.StatusUpcoming, DueDate: "2026-03-20"})
	store := newTestStore(repo)

	task, err := store.Edit(context.Background(), "a", ports.EditTaskRequest{
		Title:    "New title",
		Category: entities.CategoryExam,
	})
	if err != nil {
		t.Fatal(err)
	}
	if task.Title != "New title" || task.Category != entities.CategoryExam {
		t.Errorf("edit not applied: %+v", task)
	}
	if task.DueDate != "2026-03-20" {
		t.Errorf("DueDate = %q, want the original kept", task.DueDate)
	}
}

func TestEditRollsBackOnWriteFailure(t *testing.T) {
	repo := &fakeRepo{}
	seed(repo, entities.Task{ID: "a", Title: "Original", Category: entities.CategoryQuiz, Status: entities.StatusUpcoming, DueDate: "2026-03-20"})
	store := newTestStore(repo)

	before, _ := store.Tasks(context.Background())

	repo.failWrites = true
	if _, err := store.Edit(context.Background(), "a", ports.EditTaskRequest{Title: "Changed", Category: entities.CategoryExam}); !errors.Is(err, errDatastore) {
		t.Fatalf("Edit = %v, want the upstream error", err)
	}

	after, _ := store.Tasks(context.Background())
	if !reflect.DeepEqual(before, after) {
		t.Error("working copy changed after rollback")
	}
}

func TestBulkDeleteHasNoRollback(t *testing.T) {
	repo := &fakeRepo{}
	seed(repo,
		entities.Task{ID: "a", Status: entities.StatusUpcoming, DueDate: "2026-03-20"},
		entities.Task{ID: "b", Status: entities.StatusUpcoming, DueDate: "2026-03-21"},
		entities.Task{ID: "c", Status: entities.StatusUpcoming, DueDate: "2026-03-22"},
	)
	store := newTestStore(repo)

	// Prime the working copy, then make the durable delete fail.
	if _, err := store.Tasks(context.Background()); err != nil {
		t.Fatal(err)
	}
	repo.failWrites = true

	if err := store.BulkDelete(context.Background(), []string{"a", "c"}); err != nil {
		t.Fatalf("BulkDelete = %v, want nil even when the durable delete fails", err)
	}

	tasks, _ := store.Tasks(context.Background())
	if len(tasks) != 1 || tasks[0].ID != "b" {
		t.Errorf("tasks after delete = %+v, want only b", tasks)
	}
	if repo.deleteCalls != 1 {
		t.Errorf("deleteCalls = %d, want 1", repo.deleteCalls)
	}
}

func TestCreateAppendsManualTask(t *testing.T) {
	repo := &fakeRepo{}
	store := newTestStore(repo)

	task, err := store.Create(context.Background(), ports.CreateTaskRequest{
		Title:    "Office hours prep",
		Category: entities.CategoryAssignment,
		DueDate:  "2026-03-15",
	})
	if err != nil {
		t.Fatal(err)
	}
	if task.Source != "manual" || task.Status != entities.StatusUpcoming {
		t.Errorf("created task = %+v", task)
	}
	if entities.IsLocalID(task.ID) {
		t.Errorf("task kept local id %q after durable save", task.ID)
	}

	tasks, _ := store.Tasks(context.Background())
	if len(tasks) != 1 {
		t.Fatalf("working copy holds %d tasks, want 1", len(tasks))
	}
}

func TestColumnsGroupByStatus(t *testing.T) {
	completed := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	repo := &fakeRepo{}
	seed(repo,
		entities.Task{ID: "a", Status: entities.StatusUpcoming, DueDate: "2026-03-20"},
		entities.Task{ID: "b", Status: entities.StatusInProgress, DueDate: "2026-03-01"},
		entities.Task{ID: "c", CompletedAt: &completed, DueDate: "2026-03-02"},
	)

	columns, err := newTestStore(repo).Columns(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(columns[entities.StatusUpcoming]) != 1 ||
		len(columns[entities.StatusInProgress]) != 1 ||
		len(columns[entities.StatusCompleted]) != 1 {
		t.Errorf("column sizes = %d/%d/%d, want 1/1/1",
			len(columns[entities.StatusUpcoming]),
			len(columns[entities.StatusInProgress]),
			len(columns[entities.StatusCompleted]))
	}
}
