// Package background runs detached tasks that outlive the request that
// started them. Failures are logged and counted; they never reach the caller.
package background

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/light-bringer/advert-catalog/internal/pkg/metrics"
)

// Task is a unit of detached work.
type Task func(ctx context.Context) error

// Runner tracks detached tasks so shutdown can drain them.
type Runner struct {
	wg      sync.WaitGroup
	logger  *zap.Logger
	metrics *metrics.MetricsManager
	timeout time.Duration
}

// NewRunner creates a Runner. Each task gets its own context bounded by timeout
// (no bound when timeout <= 0). m may be nil.
func NewRunner(logger *zap.Logger, m *metrics.MetricsManager, timeout time.Duration) *Runner {
	return &Runner{
		logger:  logger,
		metrics: m,
		timeout: timeout,
	}
}

// Go starts task in its own goroutine. The task context is not derived from
// any request context, so cancelling the request does not cancel the task.
func (r *Runner) Go(name string, task Task, fields ...zap.Field) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		ctx := context.Background()
		if r.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, r.timeout)
			defer cancel()
		}

		err := r.run(ctx, task)
		logFields := append([]zap.Field{zap.String("task", name)}, fields...)
		if err != nil {
			r.logger.Error("Background task failed", append(logFields, zap.Error(err))...)
			r.count(name, "failure")
			return
		}
		r.logger.Debug("Background task completed", logFields...)
		r.count(name, "success")
	}()
}

// Wait blocks until every started task has returned or ctx is done.
func (r *Runner) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("background tasks still running: %w", ctx.Err())
	}
}

func (r *Runner) run(ctx context.Context, task Task) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return task(ctx)
}

func (r *Runner) count(name, outcome string) {
	if r.metrics == nil {
		return
	}
	r.metrics.BackgroundTasksTotal.WithLabelValues(name, outcome).Inc()
}
