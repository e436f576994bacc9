package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Func fetches, transforms and commits one range, returning the accepted row count.
type Func func(ctx context.Context, r Range) (int, error)

// Result sums the ranges of one Run.
type Result struct {
	Accepted int
	Failures []*RangeError
}

// Controller runs ranges with a bounded number in flight.
type Controller struct {
	concurrency int
	limiter     *rate.Limiter
	logger      *slog.Logger
}

// NewController returns a controller running at most concurrency ranges at
// once. limiter, when not nil, throttles the start of each range.
func NewController(concurrency int, limiter *rate.Limiter, logger *slog.Logger) *Controller {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Controller{concurrency: concurrency, limiter: limiter, logger: logger}
}

// Run processes ranges and returns the summed accepted counts. A range whose
// throttle wait or fn fails is logged, counted as zero and recorded in Result.Failures without
// stopping its siblings. Cancellation of ctx stops the whole run and is
// returned as ctx's error together with the partial result.
func (c *Controller) Run(ctx context.Context, ranges []Range, fn Func) (Result, error) {
	var (
		mu  sync.Mutex
		res Result
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for _, r := range ranges {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fail := func(err error) error {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				c.logger.Error("batch range failed", "range_start", r.Start, "range_end", r.End, "error", err)
				mu.Lock()
				res.Failures = append(res.Failures, &RangeError{Range: r, Err: err})
				mu.Unlock()
				return nil
			}

			if c.limiter != nil {
				if err := c.limiter.Wait(gctx); err != nil {
					return fail(fmt.Errorf("throttle: %w", err))
				}
			}

			n, err := c.runRange(gctx, r, fn)
			if err != nil {
				return fail(err)
			}

			mu.Lock()
			res.Accepted += n
			mu.Unlock()
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	return res, err
}

func (c *Controller) runRange(ctx context.Context, r Range, fn Func) (n int, err error) {
	defer func() {
		if p := recover(); p != nil {
			n, err = 0, fmt.Errorf("panic: %v", p)
		}
	}()
	n, err = fn(ctx, r)
	if err != nil && errors.Is(err, context.Canceled) && ctx.Err() == nil {
		// A collaborator gave up on its own; treat it as an ordinary failure.
		err = fmt.Errorf("range aborted: %w", err)
	}
	return n, err
}
