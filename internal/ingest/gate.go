package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"curator/internal/content"
	"curator/internal/logging"
	"curator/internal/services"
	"curator/internal/store"
)

// Result summarizes one ingestion pass over one source.
type Result struct {
	New     int
	Skipped int
}

// Gate writes candidates into the store exactly once per URL.
type Gate struct {
	store       *store.Store
	logger      *slog.Logger
	now         func() time.Time
	afterLookup func()
}

// New constructs an ingestion gate.
func New(st *store.Store, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Gate{
		store:  st,
		logger: logging.NewComponentLogger(logger, "ingest"),
		now:    time.Now,
	}
}

// IngestBatch persists the new candidates of one source. Each candidate is
// checked by canonical URL first; a hit is counted as skipped with no further
// action. A unique-constraint violation on the insert itself is the race
// outcome of a concurrent write and counts as skipped too. After the batch
// the source's last-fetch timestamp is stamped and one fetch-log row is
// appended with the counts.
func (g *Gate) IngestBatch(ctx context.Context, source *content.Source, candidates []content.Candidate) (Result, error) {
	startedAt := g.now().UTC()
	var result Result

	for _, candidate := range candidates {
		inserted, err := g.ingestOne(ctx, source, candidate)
		if err != nil {
			completed := g.now().UTC()
			_, logErr := g.store.AppendFetchLog(ctx, &content.FetchLog{
				SourceID:     source.ID,
				ItemsFetched: result.New,
				Success:      false,
				ErrorMessage: err.Error(),
				StartedAt:    startedAt,
				CompletedAt:  &completed,
			})
			if logErr != nil {
				g.logger.Warn("append fetch log failed", logging.Error(logErr))
			}
			return result, err
		}
		if inserted {
			result.New++
		} else {
			result.Skipped++
		}
	}

	if err := g.store.TouchSourceFetched(ctx, source.ID, g.now().UTC()); err != nil {
		return result, fmt.Errorf("stamp source fetch time: %w", err)
	}

	completed := g.now().UTC()
	if _, err := g.store.AppendFetchLog(ctx, &content.FetchLog{
		SourceID:     source.ID,
		ItemsFetched: result.New,
		Success:      true,
		StartedAt:    startedAt,
		CompletedAt:  &completed,
	}); err != nil {
		return result, fmt.Errorf("append fetch log: %w", err)
	}

	g.logger.Info("ingested source",
		logging.String(logging.FieldSource, source.Name),
		logging.Int("new", result.New),
		logging.Int("skipped", result.Skipped))
	return result, nil
}

// RecordFailure appends a failed fetch-log row for a source whose fetch never
// produced candidates, so the attempt is visible to the next invocation.
func (g *Gate) RecordFailure(ctx context.Context, source *content.Source, startedAt time.Time, cause error) {
	message := "fetch failed"
	if cause != nil {
		message = cause.Error()
	}
	completed := g.now().UTC()
	if _, err := g.store.AppendFetchLog(ctx, &content.FetchLog{
		SourceID:     source.ID,
		Success:      false,
		ErrorMessage: message,
		StartedAt:    startedAt.UTC(),
		CompletedAt:  &completed,
	}); err != nil {
		g.logger.Warn("append fetch log failed", logging.Error(err))
	}
}

func (g *Gate) ingestOne(ctx context.Context, source *content.Source, candidate content.Candidate) (bool, error) {
	url := strings.TrimSpace(candidate.URL)
	if url == "" {
		return false, nil
	}

	existing, err := g.store.ItemByURL(ctx, url)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}
	if g.afterLookup != nil {
		g.afterLookup()
	}

	item := &content.Item{
		SourceID:        source.ID,
		Title:           candidate.Title,
		URL:             url,
		Description:     candidate.Description,
		Transcript:      candidate.Transcript,
		PublishedDate:   candidate.PublishedDate,
		DurationMinutes: candidate.DurationMinutes(),
		FetchedAt:       g.now().UTC(),
	}
	if _, err := g.store.InsertItem(ctx, item); err != nil {
		if services.IsIntegrity(err) {
			g.logger.Debug("insert lost race, counted duplicate", logging.String("url", url))
			return false, nil
		}
		return false, err
	}
	return true, nil
}
