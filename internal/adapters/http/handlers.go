package http

import (
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/ManrajK5/Studdy-Buddy/internal/adapters/gcal"
	"github.com/ManrajK5/Studdy-Buddy/internal/domain/entities"
)

// timeNowUTC is stubbed in tests.
var timeNowUTC = func() time.Time { return time.Now().UTC() }

// sortTasksByDue orders tasks chronologically by their raw due value; the ISO
// forms sort correctly as strings.
func sortTasksByDue(tasks []entities.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].DueDate < tasks[j].DueDate
	})
}

// MessageResponse is a simple message payload
type MessageResponse struct {
	Message string `json:"message"`
}

// getUserIDFromContext extracts the authenticated user ID set by the auth middleware
func getUserIDFromContext(c echo.Context) uuid.UUID {
	userIDStr, ok := c.Get("user").(string)
	if !ok {
		return uuid.Nil
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil
	}

	return userID
}

// getProviderToken extracts the Google access token forwarded with the request.
// The hosted auth provider hands this to the client at sign-in; the API only
// relays it.
func getProviderToken(c echo.Context) string {
	return c.Request().Header.Get("X-Provider-Token")
}

// httpError maps the error taxonomy onto HTTP statuses while preserving the
// deepest available message for the client.
func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, entities.ErrTaskNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, entities.ErrNoCalendarToken):
		return echo.NewHTTPError(http.StatusUnauthorized, entities.ErrNoCalendarToken.Error())
	case errors.Is(err, entities.ErrEmptySyllabus),
		errors.Is(err, entities.ErrNoEvents),
		errors.Is(err, entities.ErrInvalidStatus),
		errors.Is(err, entities.ErrInvalidCategory),
		errors.Is(err, entities.ErrEmptyTitle):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var insertErr *gcal.InsertError
	if errors.As(err, &insertErr) {
		// Upstream diagnostic passed through verbatim.
		return echo.NewHTTPError(http.StatusBadGateway, insertErr.Error())
	}

	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
