package fetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"curator/internal/config"
	"curator/internal/content"
	"curator/internal/logging"
	"curator/internal/services/ytdlp"
)

// ErrUnsupported reports a source type with no registered fetcher.
var ErrUnsupported = errors.New("source type not supported")

// Request bounds one fetch attempt against a source.
type Request struct {
	LookbackDays int
	MaxItems     int
}

// Fetcher produces candidate items for one source. An empty result is not an
// error by itself; transports distinguish "nothing new" from failure.
type Fetcher interface {
	Fetch(ctx context.Context, source *content.Source, req Request) ([]content.Candidate, error)
}

// Registry dispatches sources to the fetcher registered for their type.
type Registry struct {
	fetchers map[content.SourceType]Fetcher
}

// NewRegistry builds the default registry: video channels are backed by
// yt-dlp, feeds by an HTTP feed parser. Podcasts have no transport yet and
// stay unregistered.
func NewRegistry(cfg *config.Config, logger *slog.Logger) (*Registry, error) {
	lister, err := ytdlp.New(cfg.Fetch)
	if err != nil {
		return nil, fmt.Errorf("build yt-dlp client: %w", err)
	}

	registry := &Registry{fetchers: make(map[content.SourceType]Fetcher)}
	registry.Register(content.SourceTypeVideoChannel, NewVideoFetcher(lister, cfg, logger))
	registry.Register(content.SourceTypeFeed, NewFeedFetcher(cfg, logger))
	return registry, nil
}

// Register binds a fetcher to a source type, replacing any previous binding.
// The zero Registry is valid and starts empty.
func (r *Registry) Register(st content.SourceType, fetcher Fetcher) {
	if fetcher == nil {
		return
	}
	if r.fetchers == nil {
		r.fetchers = make(map[content.SourceType]Fetcher)
	}
	r.fetchers[st] = fetcher
}

// For returns the fetcher registered for a source type.
func (r *Registry) For(st content.SourceType) (Fetcher, error) {
	fetcher, ok := r.fetchers[st]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, st)
	}
	return fetcher, nil
}

func componentLogger(logger *slog.Logger, name string) *slog.Logger {
	if logger == nil {
		return logging.NewNop()
	}
	return logging.NewComponentLogger(logger, name)
}
