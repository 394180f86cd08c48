package blocks

import (
	"context"
	"time"
)

// RunEvery runs fn immediately and then on every tick of a fixed interval
// until ctx is cancelled. It is the standard loop body for interval-paced
// blocks; event-driven blocks (network monitor) implement Run themselves.
func RunEvery(ctx context.Context, interval time.Duration, fn func(context.Context)) error {
	fn(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			fn(ctx)
		}
	}
}

// RunAligned runs fn immediately and then at every wall-clock boundary of
// the given unit (e.g. time.Minute fires at the top of each minute) until
// ctx is cancelled.
func RunAligned(ctx context.Context, unit time.Duration, fn func(context.Context)) error {
	for {
		fn(ctx)

		next := time.Now().Truncate(unit).Add(unit)
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
