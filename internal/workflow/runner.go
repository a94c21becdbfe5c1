package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"curator/internal/config"
	"curator/internal/digest"
	"curator/internal/fetch"
	"curator/internal/ingest"
	"curator/internal/logging"
	"curator/internal/notifications"
	"curator/internal/services"
	"curator/internal/services/fabric"
	"curator/internal/store"
	"curator/internal/vault"
)

// Runner drives batch invocations of the pipeline.
type Runner struct {
	cfg       *config.Config
	store     *store.Store
	logger    *slog.Logger
	registry  *fetch.Registry
	gate      *ingest.Gate
	rater     fabric.Rater
	assembler *digest.Assembler
	notifier  notifications.Service
	sleep     func(ctx context.Context, d time.Duration) error
}

// Option overrides a collaborator, primarily for tests.
type Option func(*Runner)

// WithRegistry replaces the fetcher registry.
func WithRegistry(registry *fetch.Registry) Option {
	return func(r *Runner) {
		if registry != nil {
			r.registry = registry
		}
	}
}

// WithRater replaces the rating collaborator.
func WithRater(rater fabric.Rater) Option {
	return func(r *Runner) {
		if rater != nil {
			r.rater = rater
		}
	}
}

// WithNotifier replaces the notification service.
func WithNotifier(notifier notifications.Service) Option {
	return func(r *Runner) {
		if notifier != nil {
			r.notifier = notifier
		}
	}
}

// WithAssembler replaces the digest assembler.
func WithAssembler(assembler *digest.Assembler) Option {
	return func(r *Runner) {
		if assembler != nil {
			r.assembler = assembler
		}
	}
}

// New wires a runner with the default collaborators: yt-dlp and feed
// fetchers, the fabric rating client, the markdown digest assembler, and
// ntfy notifications when configured.
func New(cfg *config.Config, st *store.Store, logger *slog.Logger, opts ...Option) (*Runner, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	registry, err := fetch.NewRegistry(cfg, logger)
	if err != nil {
		return nil, err
	}
	rater, err := fabric.New(cfg.Rating)
	if err != nil {
		return nil, fmt.Errorf("build fabric client: %w", err)
	}
	writer, err := vault.NewWriter(cfg.Paths.VaultDir)
	if err != nil {
		return nil, fmt.Errorf("build vault writer: %w", err)
	}

	runner := &Runner{
		cfg:       cfg,
		store:     st,
		logger:    logger,
		registry:  registry,
		gate:      ingest.New(st, logger),
		rater:     rater,
		assembler: digest.NewAssembler(st, nil, writer, cfg.Digest.FilenamePrefix, logger),
		notifier:  notifications.NewService(cfg),
		sleep:     sleepContext,
	}
	for _, opt := range opts {
		opt(runner)
	}
	return runner, nil
}

// newRunContext decorates the context with a fresh run id and the pass name
// so every log line of the invocation correlates.
func (r *Runner) newRunContext(ctx context.Context, pass string) (context.Context, *slog.Logger) {
	ctx = services.WithRunID(ctx, uuid.NewString())
	ctx = services.WithPass(ctx, pass)
	return ctx, logging.WithContext(ctx, r.logger)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
