package digest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"curator/internal/content"
	"curator/internal/logging"
	"curator/internal/store"
	"curator/internal/vault"
)

// Assembler runs the digest pass: select, render, write, publish.
type Assembler struct {
	store    *store.Store
	renderer Renderer
	writer   *vault.Writer
	prefix   string
	logger   *slog.Logger
	now      func() time.Time
}

// NewAssembler constructs a digest assembler. The filename prefix shapes
// artifact names as "<prefix> YYYY-MM-DD.md".
func NewAssembler(st *store.Store, renderer Renderer, writer *vault.Writer, prefix string, logger *slog.Logger) *Assembler {
	if renderer == nil {
		renderer = NewMarkdownRenderer()
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Assembler{
		store:    st,
		renderer: renderer,
		writer:   writer,
		prefix:   prefix,
		logger:   logging.NewComponentLogger(logger, "digest"),
		now:      time.Now,
	}
}

// Publish selects unpublished S and A tier items fetched within the trailing
// windowDays-day window (boundary inclusive: an item fetched exactly
// windowDays ago is selected), writes the rendered artifact, and commits the
// digest record together with the items' published flags in one transaction.
// An empty selection publishes nothing and returns a nil digest.
func (a *Assembler) Publish(ctx context.Context, windowDays int) (*content.Digest, error) {
	if windowDays <= 0 {
		return nil, fmt.Errorf("publish digest: window days must be positive, got %d", windowDays)
	}

	now := a.now().UTC()
	cutoff := now.AddDate(0, 0, -windowDays)

	items, err := a.store.UnpublishedTopTier(ctx, cutoff)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		a.logger.Info("no top-tier items in window, skipping digest",
			logging.Int("window_days", windowDays))
		return nil, nil
	}

	var sCount, aCount int
	itemIDs := make([]int64, 0, len(items))
	for _, item := range items {
		itemIDs = append(itemIDs, item.ID)
		switch item.Rating {
		case content.RatingS:
			sCount++
		case content.RatingA:
			aCount++
		}
	}

	body := a.renderer.Render(cutoff, now, items)
	filename := fmt.Sprintf("%s %s.md", a.prefix, now.Format("2006-01-02"))
	path, err := a.writer.Write(filename, body)
	if err != nil {
		return nil, fmt.Errorf("write digest artifact: %w", err)
	}

	digest, err := a.store.PublishDigest(ctx, &content.Digest{
		WeekStart:  cutoff,
		WeekEnd:    now,
		ItemCount:  len(items),
		STierCount: sCount,
		ATierCount: aCount,
		VaultPath:  path,
	}, itemIDs)
	if err != nil {
		return nil, err
	}

	a.logger.Info("published digest",
		logging.Int64("digest_id", digest.ID),
		logging.Int("items", digest.ItemCount),
		logging.Int("s_tier", digest.STierCount),
		logging.Int("a_tier", digest.ATierCount),
		logging.String("path", path))
	return digest, nil
}
