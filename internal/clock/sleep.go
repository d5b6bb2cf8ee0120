// Package clock holds context-aware waiting helpers for background loops.
package clock

import (
	"context"
	"time"
)

// SleepFunc waits for d or until ctx is done. Loops take one so tests can replace real time.
type SleepFunc func(ctx context.Context, d time.Duration) error

// SleepWithContext waits for the duration or returns early if the context is canceled.
func SleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Every calls fn after each interval until sleep fails, and returns that error.
// A nil sleep means SleepWithContext.
func Every(ctx context.Context, interval time.Duration, sleep SleepFunc, fn func(context.Context)) error {
	if sleep == nil {
		sleep = SleepWithContext
	}
	for {
		if err := sleep(ctx, interval); err != nil {
			return err
		}
		fn(ctx)
	}
}
