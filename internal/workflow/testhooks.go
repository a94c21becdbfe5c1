package workflow

import (
	"context"
	"time"
)

// SetSleepFunc overrides the pacing sleep between rating calls. Tests use it
// to observe pacing without waiting.
func (r *Runner) SetSleepFunc(sleep func(ctx context.Context, d time.Duration) error) {
	if sleep != nil {
		r.sleep = sleep
	}
}
