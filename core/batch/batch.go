// Package batch computes profit for many actions in parallel. One slow
// or failing item degrades to an unavailable entry instead of aborting
// the batch, and a stale batch token discards the whole run.
package batch

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"idle-profit/core/profit"
	"idle-profit/core/types"
	"idle-profit/internal/errors"
	"idle-profit/internal/logging"
)

// ErrStale reports that the runner moved on to a newer token while the
// batch was in flight.
var ErrStale = errors.New(errors.TypeState, "batch token is stale")

// Options tunes the batch runner
type Options struct {
	// Concurrency bounds the in-flight calculations
	Concurrency int

	// ItemTimeout bounds one item's calculation; on expiry the entry
	// degrades to unavailable
	ItemTimeout time.Duration
}

// Entry is one positional batch output
type Entry struct {
	// ActionHrid identifies the computed action, when known
	ActionHrid types.ActionHrid `json:"action_hrid,omitempty"`

	// Result is nil when the entry is unavailable
	Result *profit.Result `json:"result,omitempty"`

	// Unavailable is set when the item timed out or failed
	Unavailable bool `json:"unavailable,omitempty"`

	// Err carries the failure cause for logging; nil on timeout
	Err error `json:"-"`
}

// Runner fans profit calculations out over a bounded worker group.
// Tokens are monotonically increasing; starting a new batch invalidates
// every older in-flight one.
type Runner struct {
	calc  *profit.Calculator
	opts  Options
	token atomic.Int64
}

// NewRunner creates a batch runner. Zero options get defaults.
func NewRunner(calc *profit.Calculator, opts Options) *Runner {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 8
	}
	if opts.ItemTimeout <= 0 {
		opts.ItemTimeout = 2 * time.Second
	}
	return &Runner{calc: calc, opts: opts}
}

// Begin claims a new batch token, invalidating in-flight batches
func (r *Runner) Begin() int64 {
	return r.token.Add(1)
}

// current reports whether the token still owns the runner
func (r *Runner) current(token int64) bool {
	return r.token.Load() == token
}

// Run computes every request under the given token. Entries are
// positional with the requests. Individual failures and timeouts
// degrade to unavailable entries; only a stale token or a cancelled
// context fails the batch.
func (r *Runner) Run(ctx context.Context, token int64, requests []profit.Request) ([]Entry, error) {
	entries := make([]Entry, len(requests))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Concurrency)

	for i, req := range requests {
		i, req := i, req
		g.Go(func() error {
			if !r.current(token) {
				return ErrStale
			}
			entries[i] = r.runOne(ctx, req)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if !r.current(token) {
		// The character context changed mid-batch; the results no
		// longer describe it.
		logging.Debug("discarding stale batch results", zap.Int64("token", token))
		return nil, ErrStale
	}
	return entries, nil
}

// runOne races one calculation against the item timeout
func (r *Runner) runOne(ctx context.Context, req profit.Request) Entry {
	ctx, cancel := context.WithTimeout(ctx, r.opts.ItemTimeout)
	defer cancel()

	type outcome struct {
		result *profit.Result
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		result, err := r.calc.Calculate(req)
		done <- outcome{result, err}
	}()

	var hrid types.ActionHrid
	if req.Action != nil {
		hrid = req.Action.Hrid
	}

	select {
	case out := <-done:
		if out.err != nil {
			logging.Warn("calculation failed", zap.String("action", string(hrid)), zap.Error(out.err))
			return Entry{ActionHrid: hrid, Unavailable: true, Err: out.err}
		}
		return Entry{ActionHrid: hrid, Result: out.result}
	case <-ctx.Done():
		logging.Warn("calculation timed out", zap.String("action", string(hrid)))
		return Entry{ActionHrid: hrid, Unavailable: true}
	}
}
