package sched

import (
	"context"
	"fmt"
	"time"
)

// Every calls fn right away and then once per interval, each call scheduled
// only after the previous one returned. It stops when fn returns false or
// ctx is done; the latter is reported as ctx.Err().
func Every(ctx context.Context, interval time.Duration, fn func(now time.Time) bool) error {
	if interval <= 0 {
		return fmt.Errorf("sched: interval must be positive, got %v", interval)
	}

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-timer.C:
			if !fn(now) {
				return nil
			}
			timer.Reset(interval)
		}
	}
}
