package workflow

import (
	"context"
	"time"

	"curator/internal/logging"
	"curator/internal/rating"
	"curator/internal/services"
	"curator/internal/services/fabric"
)

// RateOptions bounds one rating pass.
type RateOptions struct {
	// Limit caps the number of items rated; zero uses the configured batch
	// size.
	Limit int
}

// RateSummary reports the outcome of one rating pass.
type RateSummary struct {
	Attempted int
	Rated     int
	Failed    int
	Skipped   int
}

// RatePass sends unrated items through the rating collaborator one at a
// time, pacing consecutive calls by the configured delay (skipped after the
// last item). A transport or parse failure leaves the item unrated for a
// later invocation; only context cancellation stops the pass early.
func (r *Runner) RatePass(ctx context.Context, opts RateOptions) (RateSummary, error) {
	ctx, logger := r.newRunContext(ctx, "rate")

	limit := opts.Limit
	if limit <= 0 {
		limit = r.cfg.Rating.BatchSize
	}

	items, err := r.store.UnratedItems(ctx, limit)
	if err != nil {
		return RateSummary{}, err
	}
	if len(items) == 0 {
		logger.Info("no unrated items")
		return RateSummary{}, nil
	}

	delay := time.Duration(r.cfg.Rating.DelaySeconds * float64(time.Second))

	var summary RateSummary
	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		summary.Attempted++
		itemCtx := services.WithItemID(ctx, item.ID)
		itemLogger := logging.WithContext(itemCtx, logger)

		raw, err := r.rater.Rate(itemCtx, fabric.ComposeInput(item))
		if err != nil {
			summary.Failed++
			if services.IsTimeout(err) {
				itemLogger.Warn("rating timed out", logging.Error(err))
			} else {
				itemLogger.Warn("rating failed", logging.Error(err))
			}
		} else if result, err := rating.Extract(raw); err != nil {
			summary.Failed++
			itemLogger.Warn("rating output unparseable", logging.Error(err))
		} else {
			applied, err := r.store.ApplyRating(itemCtx, item.ID, result, time.Now().UTC())
			switch {
			case err != nil:
				summary.Failed++
				itemLogger.Warn("apply rating failed", logging.Error(err))
			case !applied:
				summary.Skipped++
				itemLogger.Debug("item already rated")
			default:
				summary.Rated++
				itemLogger.Info("rated item",
					logging.String("rating", string(result.Rating)),
					logging.String("title", item.Title))
			}
		}

		if i < len(items)-1 {
			if err := r.sleep(ctx, delay); err != nil {
				return summary, err
			}
		}
	}

	logger.Info("rate pass finished",
		logging.Int("attempted", summary.Attempted),
		logging.Int("rated", summary.Rated),
		logging.Int("failed", summary.Failed),
		logging.Int("skipped", summary.Skipped))
	return summary, nil
}
