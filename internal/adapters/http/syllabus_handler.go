package http

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ManrajK5/Studdy-Buddy/internal/application/board"
	"github.com/ManrajK5/Studdy-Buddy/internal/domain/entities"
	"github.com/ManrajK5/Studdy-Buddy/internal/infrastructure/logger"
	"github.com/ManrajK5/Studdy-Buddy/internal/ports"
)

// SyllabusHandler handles syllabus parsing and saving
type SyllabusHandler struct {
	syllabusService ports.SyllabusService
	boards          *board.Manager
	logger          *logger.Logger
}

// NewSyllabusHandler creates a new syllabus handler
func NewSyllabusHandler(syllabusService ports.SyllabusService, boards *board.Manager, appLogger *logger.Logger) *SyllabusHandler {
	return &SyllabusHandler{
		syllabusService: syllabusService,
		boards:          boards,
		logger:          appLogger,
	}
}

// ParseRequest carries raw syllabus text
type ParseRequest struct {
	Syllabus string `json:"syllabus"`
}

// ParseResponse wraps the extraction result with a human-readable summary line
type ParseResponse struct {
	Summary string                   `json:"summary"`
	Result  *entities.ParsedSyllabus `json:"result"`
}

// SaveRequest carries the confirmed events to persist
type SaveRequest struct {
	Events []entities.ParsedEvent `json:"events" validate:"required,min=1,dive"`
}

// Parse handles extraction of graded events from syllabus text
func (h *SyllabusHandler) Parse(c echo.Context) error {
	var req ParseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	parsed, err := h.syllabusService.Parse(c.Request().Context(), req.Syllabus)
	if err != nil {
		h.logger.Error("Syllabus parse failed", "error", err)
		return httpError(err)
	}

	summary := fmt.Sprintf("You have %d quizzes, %d assignments, %d exams.",
		parsed.Summary.Quizzes, parsed.Summary.Assignments, parsed.Summary.Exams)

	return c.JSON(http.StatusOK, ParseResponse{Summary: summary, Result: parsed})
}

// Save handles persisting extracted events behind the deduplication gate
func (h *SyllabusHandler) Save(c echo.Context) error {
	var req SaveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	userID := getUserIDFromContext(c)
	report, err := h.syllabusService.Save(c.Request().Context(), userID, req.Events)
	if err != nil {
		h.logger.Error("Syllabus save failed", "error", err, "user_id", userID)
		return httpError(err)
	}

	// The board's working copy predates these inserts.
	h.boards.Invalidate(userID)

	return c.JSON(http.StatusCreated, report)
}
