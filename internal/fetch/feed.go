package fetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"curator/internal/config"
	"curator/internal/content"
	"curator/internal/logging"
	"curator/internal/services"
)

// FeedFetcher pulls entries from RSS and Atom feeds. Feed entries carry no
// captions, so candidates from this fetcher never have transcripts.
type FeedFetcher struct {
	parser         *gofeed.Parser
	timeout        time.Duration
	defaultMaxItem int
	logger         *slog.Logger
	now            func() time.Time
}

// NewFeedFetcher wires a feed fetcher with its own bounded HTTP client.
func NewFeedFetcher(cfg *config.Config, logger *slog.Logger) *FeedFetcher {
	timeout := time.Duration(cfg.Fetch.FeedTimeoutSeconds) * time.Second
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: timeout}

	return &FeedFetcher{
		parser:         parser,
		timeout:        timeout,
		defaultMaxItem: cfg.Fetch.MaxItemsPerSource,
		logger:         componentLogger(logger, "fetch-feed"),
		now:            time.Now,
	}
}

// Fetch parses the source's feed and keeps entries published inside the
// lookback window, newest first, capped at the per-source item limit.
// Undated entries are kept; the ingestion gate deduplicates re-seen URLs.
func (f *FeedFetcher) Fetch(ctx context.Context, source *content.Source, req Request) ([]content.Candidate, error) {
	runCtx := ctx
	if f.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	feed, err := f.parser.ParseURLWithContext(source.URL, runCtx)
	if err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return nil, services.Wrap(services.ErrTimeout, "fetch", "parse feed",
				fmt.Sprintf("feed %s exceeded %s", source.URL, f.timeout), err)
		}
		return nil, services.Wrap(services.ErrExternalTool, "fetch", "parse feed",
			fmt.Sprintf("feed %s unreadable", source.URL), err)
	}

	lookback := req.LookbackDays
	if lookback <= 0 {
		lookback = 1
	}
	cutoff := f.now().AddDate(0, 0, -lookback)

	maxItems := req.MaxItems
	if maxItems <= 0 {
		maxItems = f.defaultMaxItem
	}

	var candidates []content.Candidate
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		url := strings.TrimSpace(item.Link)
		if url == "" {
			continue
		}
		if item.PublishedParsed != nil && item.PublishedParsed.Before(cutoff) {
			continue
		}

		title := strings.TrimSpace(item.Title)
		if title == "" {
			title = deriveTitle(url)
		}

		candidates = append(candidates, content.Candidate{
			Title:         title,
			URL:           url,
			Description:   stripHTML(item.Description),
			PublishedDate: item.PublishedParsed,
		})
		if len(candidates) >= maxItems {
			break
		}
	}

	f.logger.Debug("parsed feed",
		logging.String(logging.FieldSource, source.Name),
		logging.Int("entries", len(feed.Items)),
		logging.Int("candidates", len(candidates)))
	return candidates, nil
}

// stripHTML reduces a feed entry's HTML description to its visible text.
func stripHTML(markup string) string {
	markup = strings.TrimSpace(markup)
	if markup == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return markup
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

var _ Fetcher = (*FeedFetcher)(nil)
