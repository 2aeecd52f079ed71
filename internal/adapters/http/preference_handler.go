package http

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ManrajK5/Studdy-Buddy/internal/domain/entities"
	"github.com/ManrajK5/Studdy-Buddy/internal/infrastructure/logger"
	"github.com/ManrajK5/Studdy-Buddy/internal/ports"
)

// PreferenceHandler handles per-user settings
type PreferenceHandler struct {
	prefService ports.PreferenceService
	logger      *logger.Logger
}

// NewPreferenceHandler creates a new preference handler
func NewPreferenceHandler(prefService ports.PreferenceService, appLogger *logger.Logger) *PreferenceHandler {
	return &PreferenceHandler{
		prefService: prefService,
		logger:      appLogger,
	}
}

// ReminderResponse reports the stored reminder and whether the user chose it
type ReminderResponse struct {
	Reminder *entities.ReminderSetting `json:"reminder"`
	Chosen   bool                      `json:"chosen"`
}

// GetReminder handles reading the reminder preference
func (h *PreferenceHandler) GetReminder(c echo.Context) error {
	userID := getUserIDFromContext(c)

	reminder, chosen, err := h.prefService.GetReminder(c.Request().Context(), userID)
	if err != nil {
		h.logger.Error("Get reminder failed", "error", err, "user_id", userID)
		return httpError(err)
	}

	return c.JSON(http.StatusOK, ReminderResponse{Reminder: reminder, Chosen: chosen})
}

// SetReminder handles storing the reminder tri-state: an absent field restores
// the service default, null disables reminders, a number sets minutes before.
func (h *PreferenceHandler) SetReminder(c echo.Context) error {
	var body struct {
		Reminder json.RawMessage `json:"reminder"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	var reminder *entities.ReminderSetting
	if len(body.Reminder) > 0 {
		reminder = &entities.ReminderSetting{}
		if err := json.Unmarshal(body.Reminder, reminder); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}

	userID := getUserIDFromContext(c)
	if err := h.prefService.SetReminder(c.Request().Context(), userID, reminder); err != nil {
		h.logger.Error("Set reminder failed", "error", err, "user_id", userID)
		return httpError(err)
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Reminder preference saved"})
}
