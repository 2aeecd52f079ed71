package http

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ManrajK5/Studdy-Buddy/internal/domain/entities"
	"github.com/ManrajK5/Studdy-Buddy/internal/infrastructure/logger"
	"github.com/ManrajK5/Studdy-Buddy/internal/ports"
)

// SyncHandler handles batch calendar sync
type SyncHandler struct {
	syncService ports.SyncService
	prefService ports.PreferenceService
	logger      *logger.Logger
}

// NewSyncHandler creates a new sync handler
func NewSyncHandler(syncService ports.SyncService, prefService ports.PreferenceService, appLogger *logger.Logger) *SyncHandler {
	return &SyncHandler{
		syncService: syncService,
		prefService: prefService,
		logger:      appLogger,
	}
}

// SyncRequestBody distinguishes the reminder tri-state on the wire: an absent
// field means "use the stored preference", an explicit null means no reminder,
// and a number means minutes before start.
type SyncRequestBody struct {
	Reminder json.RawMessage `json:"reminder"`
}

// Sync handles pushing every non-completed task to the calendar
func (h *SyncHandler) Sync(c echo.Context) error {
	var req SyncRequestBody
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	userID := getUserIDFromContext(c)
	ctx := c.Request().Context()

	reminder, err := h.resolveReminder(c, req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	report, err := h.syncService.SyncTasks(ctx, ports.SyncRequest{
		UserID:      userID,
		AccessToken: getProviderToken(c),
		Reminder:    reminder,
	})
	if err != nil {
		h.logger.Error("Calendar sync failed", "error", err, "user_id", userID)
		return httpError(err)
	}

	return c.JSON(http.StatusOK, report)
}

// resolveReminder applies the request's reminder when present and falls back
// to the user's stored preference otherwise.
func (h *SyncHandler) resolveReminder(c echo.Context, req SyncRequestBody) (*entities.ReminderSetting, error) {
	if len(req.Reminder) > 0 {
		var reminder entities.ReminderSetting
		if err := json.Unmarshal(req.Reminder, &reminder); err != nil {
			return nil, err
		}
		return &reminder, nil
	}

	userID := getUserIDFromContext(c)
	reminder, _, err := h.prefService.GetReminder(c.Request().Context(), userID)
	if err != nil {
		h.logger.Warn("Reminder preference unavailable, using default", "error", err)
		return &entities.ReminderSetting{Minutes: 1440}, nil
	}
	return reminder, nil
}
