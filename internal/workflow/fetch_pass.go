package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"curator/internal/content"
	"curator/internal/fetch"
	"curator/internal/logging"
	"curator/internal/services"
)

// FetchOptions bounds one fetch pass.
type FetchOptions struct {
	// SourceName limits the pass to one source; empty fetches every enabled
	// source.
	SourceName   string
	LookbackDays int
	MaxItems     int
}

// FetchSummary reports the outcome of one fetch pass.
type FetchSummary struct {
	Sources  int
	NewItems int
	Skipped  int
	Failures int
}

// FetchPass fetches candidates for the selected sources and ingests them.
// A source whose fetch or ingestion fails is logged and recorded in its
// fetch log; the pass continues with the next source.
func (r *Runner) FetchPass(ctx context.Context, opts FetchOptions) (FetchSummary, error) {
	ctx, logger := r.newRunContext(ctx, "fetch")

	sources, err := r.selectSources(ctx, opts.SourceName)
	if err != nil {
		return FetchSummary{}, err
	}
	if len(sources) == 0 {
		logger.Info("no enabled sources to fetch")
		return FetchSummary{}, nil
	}

	lookback := opts.LookbackDays
	if lookback <= 0 {
		lookback = r.cfg.Fetch.LookbackDays
	}

	var summary FetchSummary
	for _, source := range sources {
		summary.Sources++
		if err := r.fetchOne(ctx, logger, source, lookback, opts.MaxItems, &summary); err != nil {
			summary.Failures++
		}
	}

	logger.Info("fetch pass finished",
		logging.Int("sources", summary.Sources),
		logging.Int("new", summary.NewItems),
		logging.Int("skipped", summary.Skipped),
		logging.Int("failures", summary.Failures))

	if summary.Failures > 0 {
		if err := r.notifier.NotifyFetchCompleted(ctx, summary.Sources, summary.NewItems, summary.Failures); err != nil {
			logger.Warn("fetch notification failed", logging.Error(err))
		}
	}
	return summary, nil
}

func (r *Runner) fetchOne(ctx context.Context, logger *slog.Logger, source *content.Source, lookback, maxItems int, summary *FetchSummary) error {
	ctx = services.WithSource(ctx, source.Name)
	sourceLogger := logging.WithContext(ctx, logger)
	startedAt := time.Now().UTC()

	fetcher, err := r.registry.For(source.Type)
	if err != nil {
		sourceLogger.Warn("source skipped", logging.Error(err))
		r.gate.RecordFailure(ctx, source, startedAt, err)
		return err
	}

	candidates, err := fetcher.Fetch(ctx, source, fetch.Request{LookbackDays: lookback, MaxItems: maxItems})
	if err != nil {
		if services.IsTimeout(err) {
			sourceLogger.Warn("fetch timed out", logging.Error(err))
		} else {
			sourceLogger.Warn("fetch failed", logging.Error(err))
		}
		r.gate.RecordFailure(ctx, source, startedAt, err)
		return err
	}

	result, err := r.gate.IngestBatch(ctx, source, candidates)
	summary.NewItems += result.New
	summary.Skipped += result.Skipped
	if err != nil {
		sourceLogger.Warn("ingestion failed", logging.Error(err))
		return err
	}
	return nil
}

func (r *Runner) selectSources(ctx context.Context, name string) ([]*content.Source, error) {
	if name == "" {
		return r.store.ListSources(ctx, true)
	}

	source, err := r.store.SourceByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if source == nil {
		return nil, services.Wrap(services.ErrNotFound, "fetch", "select source",
			fmt.Sprintf("source %q not found", name), nil)
	}
	if !source.Enabled {
		return nil, errors.New("source " + name + " is disabled")
	}
	return []*content.Source{source}, nil
}
