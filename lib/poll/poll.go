// Package poll waits for a condition that is only observable by asking for it
// repeatedly, such as a tooltip appearing in a page.
package poll

import (
	"context"
	"time"
)

// Probe checks the condition once. found reports whether value is present.
type Probe[T any] func(ctx context.Context) (value T, found bool, err error)

// Until runs probe immediately and then every interval until it finds a
// value, returns an error, or timeout elapses. When the timeout elapses the
// zero value is returned with found == false and a nil error. If ctx is
// cancelled first its error is returned.
func Until[T any](ctx context.Context, timeout, interval time.Duration, probe Probe[T]) (T, bool, error) {
	var zero T
	if interval <= 0 {
		interval = timeout
	}

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(max(interval, time.Millisecond))
	defer ticker.Stop()

	for {
		value, found, err := probe(ctx)
		if err != nil {
			return zero, false, err
		}
		if found {
			return value, true, nil
		}

		select {
		case <-ctx.Done():
			return zero, false, ctx.Err()
		case <-deadline.C:
			// one last look, the condition may have settled exactly at the deadline
			value, found, err = probe(ctx)
			if err != nil || !found {
				return zero, false, err
			}
			return value, true, nil
		case <-ticker.C:
		}
	}
}
