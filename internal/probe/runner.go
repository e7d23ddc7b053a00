package probe

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/khanhnv2901/ssltest/internal/shared/constants"
	sharedErrors "github.com/khanhnv2901/ssltest/internal/shared/errors"
)

// CompletionFunc is called from worker goroutines as each probe finishes.
type CompletionFunc func(name string, outcome Outcome)

// Runner executes a selection of probes against one target
type Runner struct {
	MaxWorkers int // Maximum number of concurrent probes
	RateLimit  int // Probes started per second, 0 for no limit
	Logger     *zap.SugaredLogger
	OnComplete CompletionFunc // Optional progress hook
}

type completion struct {
	name    string
	outcome Outcome
}

// RunSelected builds every descriptor's probe against sc, runs them on a
// bounded pool, and returns their outcomes keyed by display name. A failing
// or panicking probe is recorded as a failed Outcome and never stops the
// others. Null descriptors are skipped.
func (r *Runner) RunSelected(ctx context.Context, descriptors []Descriptor, sc ScanContext) map[string]Outcome {
	selected := make([]Descriptor, 0, len(descriptors))
	for _, d := range descriptors {
		if !d.IsNull() {
			selected = append(selected, d)
		}
	}

	output := make(map[string]Outcome, len(selected))
	if len(selected) == 0 {
		return output
	}

	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	logger = logger.With("run_id", uuid.NewString(), "target", sc.Address().String())

	workers := r.MaxWorkers
	if workers <= 0 {
		workers = constants.DefaultMaxWorkers
	}
	if workers > len(selected) {
		workers = len(selected)
	}

	var limiter *rate.Limiter
	if r.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(r.RateLimit), 1)
	}

	logger.Infow("starting vulnerability probes", "probes", len(selected), "workers", workers)

	// Buffered so workers never block on the collector.
	completions := make(chan completion, len(selected))

	var g errgroup.Group
	g.SetLimit(workers)
	go func() {
		for _, d := range selected {
			g.Go(func() error {
				outcome := r.execute(ctx, limiter, d, sc, logger)
				if r.OnComplete != nil {
					r.OnComplete(d.Name, outcome)
				}
				completions <- completion{name: d.Name, outcome: outcome}
				return nil
			})
		}
		_ = g.Wait()
		close(completions)
	}()

	for c := range completions {
		output[c.name] = c.outcome
	}

	logger.Infow("vulnerability probes finished", "probes", len(output))
	return output
}

func (r *Runner) execute(ctx context.Context, limiter *rate.Limiter, d Descriptor, sc ScanContext, logger *zap.SugaredLogger) (outcome Outcome) {
	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			outcome = Outcome{Err: fmt.Errorf("%w: %s: panic: %v", sharedErrors.ErrProbeExecutionFailed, d.Name, rec)}
		}
		outcome.Duration = time.Since(start)
		if outcome.Err != nil {
			logger.Warnw("probe failed", "probe", d.Name, "duration", outcome.Duration, "error", outcome.Err)
		} else {
			logger.Debugw("probe completed", "probe", d.Name, "duration", outcome.Duration)
		}
	}()

	if limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			return Outcome{Err: fmt.Errorf("%w: %s: %w", sharedErrors.ErrProbeExecutionFailed, d.Name, err)}
		}
	}

	p := d.New(sc)
	if p == nil {
		return Outcome{Err: fmt.Errorf("%w: %s: factory returned no probe", sharedErrors.ErrProbeExecutionFailed, d.Name)}
	}

	result, err := p.Scan(ctx)
	if err != nil {
		return Outcome{Err: fmt.Errorf("%w: %s: %w", sharedErrors.ErrProbeExecutionFailed, d.Name, err)}
	}
	return Outcome{Result: result}
}
