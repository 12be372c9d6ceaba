package async

import (
	"context"
	"time"

	"github.com/sourcegraph/conc/panics"
	"go.uber.org/zap"
)

// DefaultTimeout bounds how long a background task may run after the
// triggering request has already returned.
const DefaultTimeout = 30 * time.Second

// Runner launches best-effort background tasks. The caller never waits:
// panics are recovered and failures only ever reach the log.
type Runner struct {
	timeout time.Duration
	logger  *zap.Logger
}

// NewRunner creates a new background task runner.
func NewRunner(logger *zap.Logger) *Runner {
	return &Runner{
		timeout: DefaultTimeout,
		logger:  logger.Named("async"),
	}
}

// Go runs fn in the background with its own timeout-bounded context.
// The task must do its own error logging; Go only handles panics.
func (r *Runner) Go(name string, fn func(ctx context.Context)) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		var catcher panics.Catcher
		catcher.Try(func() { fn(ctx) })

		if recovered := catcher.Recovered(); recovered != nil {
			r.logger.Error("Background task panicked",
				zap.String("task", name),
				zap.String("panic", recovered.String()))
		}
	}()
}
