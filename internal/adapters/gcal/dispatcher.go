package gcal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"net/http"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"

	"github.com/ManrajK5/Studdy-Buddy/internal/infrastructure/logger"
)

// Retry policy for one logical insert. Fixed constants, not user-configurable.
const (
	DefaultMaxRetries = 6
	DefaultBaseDelay  = 500 * time.Millisecond

	jitterFloor = 0.6
	jitterBand  = 0.8
)

// InsertError is a failed create. It embeds the upstream status and response
// body verbatim so callers can show the literal service diagnostic.
type InsertError struct {
	StatusCode int
	Body       string
}

func (e *InsertError) Error() string {
	return fmt.Sprintf("calendar insert failed (%d): %s", e.StatusCode, e.Body)
}

// Dispatcher performs single event creates against the calendar service,
// retrying transient failures with exponential backoff plus jitter.
type Dispatcher struct {
	svc        *calendar.Service
	calendarID string
	maxRetries int
	baseDelay  time.Duration
	sleep      func(time.Duration)
	jitter     func() float64
	metrics    *Metrics
	logger     *logger.Logger
}

// NewDispatcher creates a dispatcher for the named calendar.
func NewDispatcher(svc *calendar.Service, calendarID string, appLogger *logger.Logger) *Dispatcher {
	return &Dispatcher{
		svc:        svc,
		calendarID: calendarID,
		maxRetries: DefaultMaxRetries,
		baseDelay:  DefaultBaseDelay,
		sleep:      time.Sleep,
		jitter:     rand.Float64,
		logger:     appLogger,
	}
}

// WithMetrics attaches sync counters.
func (d *Dispatcher) WithMetrics(m *Metrics) *Dispatcher {
	d.metrics = m
	return d
}

// WithRetryPolicy overrides the default retry budget and base delay.
func (d *Dispatcher) WithRetryPolicy(maxRetries int, baseDelay time.Duration) *Dispatcher {
	if maxRetries >= 0 {
		d.maxRetries = maxRetries
	}
	if baseDelay > 0 {
		d.baseDelay = baseDelay
	}
	return d
}

// Insert creates one event, retrying rate limits and server errors until success
// or an exhausted budget. Fatal upstream errors return immediately. The returned
// error is an *InsertError for any upstream rejection.
func (d *Dispatcher) Insert(ctx context.Context, event *calendar.Event) (*calendar.Event, error) {
	attempt := 0
	for {
		created, err := d.svc.Events.Insert(d.calendarID, event).Context(ctx).Do()
		if err == nil {
			d.metrics.incInserts()
			return created, nil
		}

		var gerr *googleapi.Error
		if !errors.As(err, &gerr) {
			// Transport-level failure, no response to classify.
			d.metrics.incFailures()
			return nil, fmt.Errorf("calendar insert: %w", err)
		}

		if !isRetryable(gerr) || attempt >= d.maxRetries {
			d.metrics.incFailures()
			return nil, &InsertError{StatusCode: gerr.Code, Body: gerr.Body}
		}

		delay := d.backoff(attempt)
		d.logger.Debugw("retrying calendar insert",
			"status", gerr.Code,
			"attempt", attempt,
			"delay_ms", delay.Milliseconds(),
		)
		d.metrics.incRetries()
		d.sleep(delay)
		attempt++
	}
}

// backoff computes base * 2^attempt scaled by a uniform jitter in [0.6, 1.4) to
// keep concurrent workers from resynchronizing on the same rate-limit window.
func (d *Dispatcher) backoff(attempt int) time.Duration {
	factor := math.Pow(2, float64(attempt)) * (jitterFloor + d.jitter()*jitterBand)
	return time.Duration(float64(d.baseDelay) * factor)
}

// isRetryable classifies an upstream failure: 429, any 5xx, and 403s that carry
// a rate-limit reason code are transient; everything else is fatal.
func isRetryable(gerr *googleapi.Error) bool {
	switch {
	case gerr.Code == http.StatusTooManyRequests:
		return true
	case gerr.Code >= 500:
		return true
	case gerr.Code == http.StatusForbidden:
		return hasRateLimitReason(gerr)
	default:
		return false
	}
}

// hasRateLimitReason checks the structured error body for the service's
// rate-limit reason codes. It consults the parsed error items first and falls
// back to decoding the raw body.
func hasRateLimitReason(gerr *googleapi.Error) bool {
	for _, item := range gerr.Errors {
		if isRateLimitCode(item.Reason) {
			return true
		}
	}

	var body struct {
		Error struct {
			Errors []struct {
				Reason string `json:"reason"`
			} `json:"errors"`
		} `json:"error"`
	}
	if err := json.Unmarshal([]byte(gerr.Body), &body); err != nil {
		return false
	}
	for _, item := range body.Error.Errors {
		if isRateLimitCode(item.Reason) {
			return true
		}
	}
	return false
}

func isRateLimitCode(reason string) bool {
	return reason == "rateLimitExceeded" || reason == "userRateLimitExceeded"
}
