package gcal

import (
	"context"
	"sync"
	"sync/atomic"

	"google.golang.org/api/calendar/v3"
)

// DefaultConcurrency bounds in-flight inserts to respect the service's
// per-second quota while staying ahead of fully sequential dispatch.
const DefaultConcurrency = 3

// Outcome is the result slot for one batch item.
type Outcome struct {
	Event *calendar.Event
	Err   error
}

// RunBatch fans events out to the dispatcher through a fixed pool of workers
// pulling from a shared cursor. Result slots are written by original index, so
// result order matches input order regardless of completion order. One item's
// failure never cancels the others; every queued item runs to completion or
// retry exhaustion.
func RunBatch(ctx context.Context, d *Dispatcher, events []*calendar.Event, concurrency int) []Outcome {
	results := make([]Outcome, len(events))
	if len(events) == 0 {
		return results
	}
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if concurrency > len(events) {
		concurrency = len(events)
	}

	var cursor atomic.Int64
	var wg sync.WaitGroup
	wg.Add(concurrency)
	for w := 0; w < concurrency; w++ {
		go func() {
			defer wg.Done()
			for {
				i := int(cursor.Add(1)) - 1
				if i >= len(events) {
					return
				}
				created, err := d.Insert(ctx, events[i])
				results[i] = Outcome{Event: created, Err: err}
			}
		}()
	}
	wg.Wait()

	return results
}
