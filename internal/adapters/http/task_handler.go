package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ManrajK5/Studdy-Buddy/internal/application/board"
	"github.com/ManrajK5/Studdy-Buddy/internal/domain/entities"
	"github.com/ManrajK5/Studdy-Buddy/internal/infrastructure/logger"
	"github.com/ManrajK5/Studdy-Buddy/internal/ports"
)

// TaskHandler handles task and board requests
type TaskHandler struct {
	boards *board.Manager
	logger *logger.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(boards *board.Manager, appLogger *logger.Logger) *TaskHandler {
	return &TaskHandler{
		boards: boards,
		logger: appLogger,
	}
}

// UpdateStatusRequest carries a status transition
type UpdateStatusRequest struct {
	Status entities.TaskStatus `json:"status" validate:"required,oneof=upcoming in-progress completed"`
}

// BulkDeleteRequest carries the ids selected for deletion
type BulkDeleteRequest struct {
	IDs []string `json:"ids" validate:"required,min=1"`
}

// listQuery narrows the task list view
type listQuery struct {
	Category string `query:"type"`
	Due      string `query:"due"` // "", "week", "overdue"
	SortBy   string `query:"sort"`
}

// ListTasks handles task listing with filters and sort
func (h *TaskHandler) ListTasks(c echo.Context) error {
	userID := getUserIDFromContext(c)

	var q listQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}

	tasks, err := h.boards.StoreFor(userID).Tasks(c.Request().Context())
	if err != nil {
		h.logger.Error("List tasks failed", "error", err, "user_id", userID)
		return httpError(err)
	}

	return c.JSON(http.StatusOK, filterTasks(tasks, q))
}

// GetBoard handles the grouped three-column board view
func (h *TaskHandler) GetBoard(c echo.Context) error {
	userID := getUserIDFromContext(c)

	columns, err := h.boards.StoreFor(userID).Columns(c.Request().Context())
	if err != nil {
		h.logger.Error("Load board failed", "error", err, "user_id", userID)
		return httpError(err)
	}

	return c.JSON(http.StatusOK, columns)
}

// CreateTask handles manual task creation
func (h *TaskHandler) CreateTask(c echo.Context) error {
	var req ports.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	userID := getUserIDFromContext(c)
	task, err := h.boards.StoreFor(userID).Create(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("Create task failed", "error", err, "user_id", userID)
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, task)
}

// UpdateStatus handles status transitions, including board column moves
func (h *TaskHandler) UpdateStatus(c echo.Context) error {
	var req UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	userID := getUserIDFromContext(c)
	taskID := c.Param("id")

	if err := h.boards.StoreFor(userID).UpdateStatus(c.Request().Context(), taskID, req.Status); err != nil {
		h.logger.Error("Status update failed", "error", err, "task_id", taskID)
		return httpError(err)
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Status updated"})
}

// EditTask handles full-task edits
func (h *TaskHandler) EditTask(c echo.Context) error {
	var req ports.EditTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	userID := getUserIDFromContext(c)
	taskID := c.Param("id")

	task, err := h.boards.StoreFor(userID).Edit(c.Request().Context(), taskID, req)
	if err != nil {
		h.logger.Error("Edit task failed", "error", err, "task_id", taskID)
		return httpError(err)
	}

	return c.JSON(http.StatusOK, task)
}

// BulkDelete handles deletion of a selected id set
func (h *TaskHandler) BulkDelete(c echo.Context) error {
	var req BulkDeleteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	userID := getUserIDFromContext(c)
	if err := h.boards.StoreFor(userID).BulkDelete(c.Request().Context(), req.IDs); err != nil {
		h.logger.Error("Bulk delete failed", "error", err, "user_id", userID)
		return httpError(err)
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Tasks deleted"})
}

// SummaryResponse carries the per-category counts for the dashboard greeting
type SummaryResponse struct {
	Quizzes     int `json:"quizzes"`
	Assignments int `json:"assignments"`
	Exams       int `json:"exams"`
}

// GetSummary handles the dashboard category counts
func (h *TaskHandler) GetSummary(c echo.Context) error {
	userID := getUserIDFromContext(c)

	tasks, err := h.boards.StoreFor(userID).Tasks(c.Request().Context())
	if err != nil {
		h.logger.Error("Load summary failed", "error", err, "user_id", userID)
		return httpError(err)
	}

	var out SummaryResponse
	for _, t := range tasks {
		switch t.Category {
		case entities.CategoryQuiz:
			out.Quizzes++
		case entities.CategoryAssignment:
			out.Assignments++
		case entities.CategoryExam:
			out.Exams++
		}
	}

	return c.JSON(http.StatusOK, out)
}

// filterTasks applies the list view's category and due-window filters in load
// order, then sorts by due date unless insertion order was requested.
func filterTasks(tasks []entities.Task, q listQuery) []entities.Task {
	out := make([]entities.Task, 0, len(tasks))

	today := timeNowUTC().Format("2006-01-02")
	weekFromNow := timeNowUTC().AddDate(0, 0, 7).Format("2006-01-02")

	for _, t := range tasks {
		if q.Category != "" && string(t.Category) != q.Category {
			continue
		}
		due := entities.DateOnly(t.DueDate)
		if q.Due == "overdue" && due >= today {
			continue
		}
		if q.Due == "week" && (due < today || due > weekFromNow) {
			continue
		}
		out = append(out, t)
	}

	if q.SortBy != "added" {
		sortTasksByDue(out)
	}

	return out
}
