package workflow

import (
	"context"

	"curator/internal/content"
	"curator/internal/logging"
)

// DigestOptions bounds one digest pass.
type DigestOptions struct {
	// WindowDays is the trailing selection window; zero uses the configured
	// window.
	WindowDays int
}

// DigestPass assembles and publishes one digest. A nil digest with a nil
// error means the selection was empty and nothing was published.
func (r *Runner) DigestPass(ctx context.Context, opts DigestOptions) (*content.Digest, error) {
	ctx, logger := r.newRunContext(ctx, "digest")

	windowDays := opts.WindowDays
	if windowDays <= 0 {
		windowDays = r.cfg.Digest.WindowDays
	}

	published, err := r.assembler.Publish(ctx, windowDays)
	if err != nil {
		return nil, err
	}
	if published == nil {
		return nil, nil
	}

	if err := r.notifier.NotifyDigestPublished(ctx, published); err != nil {
		logger.Warn("digest notification failed", logging.Error(err))
	}
	return published, nil
}
