package task

import (
	"context"
	"errors"
	"fmt"
	"time"

	"panelkeeper/internal/logger"
)

// ErrTimeout marks a step that exceeded its deadline, so callers can tell a
// hung network operation apart from a genuine command failure.
var ErrTimeout = errors.New("task timed out")

/**
 * Run a provisioning step with a bounded wait
 * @param {string} name - Step name for logging
 * @param {time.Duration} timeout - Hard deadline; 0 means no deadline
 * @param {func} fn - The step body, receives the derived context
 * @returns {error} fn's error, or ErrTimeout (wrapped with the step name)
 * @description
 * - Long-running network/build operations (clone, npm install) run through
 *   this so a hang no longer blocks the installer indefinitely
 * - The parent still waits for completion; no work overlaps
 */
func Run(ctx context.Context, name string, timeout time.Duration, fn func(context.Context) error) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	done := make(chan error, 1)
	start := time.Now()
	go func() {
		done <- fn(ctx)
	}()

	select {
	case err := <-done:
		logger.Debugf("step %s finished in %s", name, time.Since(start).Round(time.Millisecond))
		return err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("step %s: %w after %s", name, ErrTimeout, timeout)
		}
		return ctx.Err()
	}
}
