package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ManrajK5/Studdy-Buddy/internal/domain/entities"
	"github.com/ManrajK5/Studdy-Buddy/internal/infrastructure/logger"
	"github.com/ManrajK5/Studdy-Buddy/internal/ports"
)

// SyllabusService parses syllabus text through the extraction collaborator and
// persists the results behind a deduplication gate.
type SyllabusService struct {
	extractor ports.SyllabusExtractor
	taskRepo  ports.TaskRepository
	logger    *logger.Logger
}

// NewSyllabusService creates a new syllabus service
func NewSyllabusService(extractor ports.SyllabusExtractor, taskRepo ports.TaskRepository, appLogger *logger.Logger) *SyllabusService {
	return &SyllabusService{
		extractor: extractor,
		taskRepo:  taskRepo,
		logger:    appLogger,
	}
}

// Parse runs the extraction collaborator on raw syllabus text. Empty input is
// rejected before any network call.
func (s *SyllabusService) Parse(ctx context.Context, syllabus string) (*entities.ParsedSyllabus, error) {
	trimmed := strings.TrimSpace(syllabus)
	if trimmed == "" {
		return nil, entities.ErrEmptySyllabus
	}

	parsed, err := s.extractor.Extract(ctx, trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse syllabus: %w", err)
	}

	return parsed, nil
}

// naturalKey identifies a task record for deduplication purposes.
type naturalKey struct {
	title    string
	due      string
	category entities.TaskCategory
}

func keyOf(title, due string, category entities.TaskCategory) naturalKey {
	return naturalKey{title: title, due: entities.DateOnly(due), category: category}
}

// Save inserts extracted events as task records, dropping any candidate whose
// (title, due date, category) key collides with a record the user already has.
// Re-saving the same extraction result is therefore idempotent. The report
// carries inserted and skipped counts separately so "nothing new" is
// distinguishable from a failed save.
func (s *SyllabusService) Save(ctx context.Context, userID uuid.UUID, events []entities.ParsedEvent) (*ports.SaveReport, error) {
	if len(events) == 0 {
		return nil, entities.ErrNoEvents
	}

	existing, err := s.taskRepo.ListByUser(ctx, userID, ports.TaskFilter{})
	if err != nil {
		return nil, fmt.Errorf("load existing tasks: %w", err)
	}

	seen := make(map[naturalKey]bool, len(existing))
	for _, t := range existing {
		seen[keyOf(t.Title, t.DueDate, t.Category)] = true
	}

	now := time.Now().UTC()
	var fresh []*entities.Task
	skipped := 0

	for _, ev := range events {
		key := keyOf(ev.Title, ev.Date, ev.Category)
		if seen[key] {
			skipped++
			continue
		}
		seen[key] = true

		fresh = append(fresh, &entities.Task{
			UserID:      userID,
			Title:       ev.Title,
			Category:    ev.Category,
			Status:      entities.StatusUpcoming,
			DueDate:     entities.DateOnly(ev.Date),
			Description: ev.Description,
			Source:      "syllabus",
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	if err := s.taskRepo.CreateBatch(ctx, fresh); err != nil {
		return nil, fmt.Errorf("save tasks: %w", err)
	}

	s.logger.Infow("syllabus events saved",
		"user_id", userID,
		"saved", len(fresh),
		"skipped", skipped,
	)

	return &ports.SaveReport{Saved: len(fresh), Skipped: skipped}, nil
}
