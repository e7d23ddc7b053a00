package probe

import (
	"context"
	"fmt"
	"time"

	"github.com/khanhnv2901/ssltest/internal/shared/constants"
	sharedErrors "github.com/khanhnv2901/ssltest/internal/shared/errors"
)

// Backoff is a linear reconnect backoff. Every transient failure adds
// Increment to the sleep duration; once the sleep duration has reached Max
// the next failure is terminal.
type Backoff struct {
	Current   time.Duration
	Increment time.Duration
	Max       time.Duration

	// Sleep waits for d. Defaults to a context-aware timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

// NewBackoff starts at zero with the default one second increment.
func NewBackoff(limit time.Duration) *Backoff {
	return &Backoff{Increment: constants.BackoffIncrement, Max: limit}
}

// Next sleeps for the next, longer duration, or returns
// ErrConnectionTimeoutExceeded when the maximum has been reached.
func (b *Backoff) Next(ctx context.Context) error {
	if b.Current >= b.Max {
		return sharedErrors.ErrConnectionTimeoutExceeded
	}
	b.Current += b.Increment

	sleep := b.Sleep
	if sleep == nil {
		sleep = sleepContext
	}
	return sleep(ctx, b.Current)
}

// Retry runs op until it succeeds, fails with a non-transient error, or the
// backoff is exhausted. The last transient error is wrapped in the
// ErrConnectionTimeoutExceeded failure.
func Retry(ctx context.Context, b *Backoff, transient func(error) bool, op func() error) error {
	for {
		err := op()
		if err == nil || !transient(err) {
			return err
		}
		if berr := b.Next(ctx); berr != nil {
			return fmt.Errorf("%w after %s: %w", berr, b.Current, err)
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
