package services

import (
	"context"
	"fmt"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/ManrajK5/Studdy-Buddy/internal/adapters/gcal"
	"github.com/ManrajK5/Studdy-Buddy/internal/domain/entities"
	"github.com/ManrajK5/Studdy-Buddy/internal/infrastructure/config"
	"github.com/ManrajK5/Studdy-Buddy/internal/infrastructure/logger"
	"github.com/ManrajK5/Studdy-Buddy/internal/ports"
)

// SyncService pushes a user's open tasks to the external calendar through the
// batch engine. It owns no credentials: the access token arrives with each
// request and is used for exactly one batch.
type SyncService struct {
	taskRepo   ports.TaskRepository
	google     config.GoogleConfig
	sync       config.SyncConfig
	metrics    *gcal.Metrics
	logger     *logger.Logger
	clientOpts []option.ClientOption
}

// NewSyncService creates a new sync service
func NewSyncService(taskRepo ports.TaskRepository, googleCfg config.GoogleConfig, syncCfg config.SyncConfig, appLogger *logger.Logger) *SyncService {
	return &SyncService{
		taskRepo: taskRepo,
		google:   googleCfg,
		sync:     syncCfg,
		logger:   appLogger,
	}
}

// WithMetrics attaches calendar sync counters.
func (s *SyncService) WithMetrics(m *gcal.Metrics) *SyncService {
	s.metrics = m
	return s
}

// WithClientOptions adds calendar client options. Tests use this to point the
// service at a fake endpoint.
func (s *SyncService) WithClientOptions(opts ...option.ClientOption) *SyncService {
	s.clientOpts = append(s.clientOpts, opts...)
	return s
}

// SyncTasks maps every non-completed task to a calendar event and submits the
// batch. The report carries a per-item outcome for each input slot; one item's
// failure never blocks the rest of the batch.
func (s *SyncService) SyncTasks(ctx context.Context, req ports.SyncRequest) (*ports.SyncReport, error) {
	if req.AccessToken == "" {
		return nil, entities.ErrNoCalendarToken
	}

	tasks, err := s.taskRepo.ListByUser(ctx, req.UserID, ports.TaskFilter{})
	if err != nil {
		return nil, fmt.Errorf("load tasks for sync: %w", err)
	}

	var open []entities.Task
	for _, t := range tasks {
		if !t.IsCompleted() {
			open = append(open, t)
		}
	}
	if len(open) == 0 {
		return &ports.SyncReport{Items: []ports.SyncItem{}}, nil
	}

	events := make([]*calendar.Event, len(open))
	for i, t := range open {
		events[i] = gcal.MapEvent(entities.ParsedEvent{
			Title:       t.Title,
			Category:    t.Category.Syncable(),
			Date:        t.DueDate,
			Description: t.Description,
		}, s.google.TimeZone, req.Reminder)
	}

	svc, err := gcal.NewService(ctx, req.AccessToken, s.clientOpts...)
	if err != nil {
		return nil, err
	}

	dispatcher := gcal.NewDispatcher(svc, s.google.CalendarID, s.logger).
		WithRetryPolicy(s.sync.MaxRetries, s.sync.BaseDelay).
		WithMetrics(s.metrics)
	outcomes := gcal.RunBatch(ctx, dispatcher, events, s.sync.Concurrency)

	report := &ports.SyncReport{
		Total: len(open),
		Items: make([]ports.SyncItem, len(open)),
	}
	for i, outcome := range outcomes {
		item := ports.SyncItem{
			Index:  i,
			TaskID: open[i].ID,
			Title:  open[i].Title,
		}
		if outcome.Err != nil {
			item.Error = outcome.Err.Error()
			report.Failed++
		} else {
			item.EventID = outcome.Event.Id
			item.HTMLLink = outcome.Event.HtmlLink
			report.Synced++
		}
		report.Items[i] = item
	}

	s.logger.Infow("calendar sync finished",
		"user_id", req.UserID,
		"total", report.Total,
		"synced", report.Synced,
		"failed", report.Failed,
	)

	return report, nil
}
