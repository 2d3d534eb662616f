package steprunner

import (
	"context"
	"errors"
	"time"

	"github.com/arnavsurve/sidrastep/pkg/types"
)

// errValueMismatch is returned by the fill runner when the read-back value
// differs from the one written.
var errValueMismatch = errors.New("value mismatch")

// classify maps an action error onto the step failure taxonomy.
func classify(err error) types.Reason {
	switch {
	case errors.Is(err, types.ErrOptionNotAvailable):
		return types.ReasonOptionNotAvailable
	case errors.Is(err, errValueMismatch):
		return types.ReasonValueMismatch
	default:
		return types.ReasonActionFailed
	}
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// stepLogger scopes logger to a single step.
func stepLogger(logger types.Logger, step types.Step) types.Logger {
	return logger.With().Str("step", step.Name).Logger()
}
