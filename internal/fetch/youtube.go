package fetch

import (
	"context"
	"log/slog"
	"strings"

	"curator/internal/config"
	"curator/internal/content"
	"curator/internal/logging"
	"curator/internal/services/ytdlp"
	"curator/internal/transcript"
)

// VideoFetcher enumerates recent channel uploads through yt-dlp and
// normalizes any captured captions into transcripts.
type VideoFetcher struct {
	lister         ytdlp.Lister
	subtitleLang   string
	transcriptCap  int
	defaultMaxItem int
	logger         *slog.Logger
}

// NewVideoFetcher wires a video-channel fetcher over a yt-dlp lister.
func NewVideoFetcher(lister ytdlp.Lister, cfg *config.Config, logger *slog.Logger) *VideoFetcher {
	return &VideoFetcher{
		lister:         lister,
		subtitleLang:   cfg.Fetch.SubtitleLanguage,
		transcriptCap:  cfg.Rating.TranscriptMaxChars,
		defaultMaxItem: cfg.Fetch.MaxItemsPerSource,
		logger:         componentLogger(logger, "fetch-video"),
	}
}

// Fetch lists uploads within the lookback window and converts each entry
// into a candidate. Captions are normalized here so downstream stages only
// ever see clean bounded transcript text.
func (f *VideoFetcher) Fetch(ctx context.Context, source *content.Source, req Request) ([]content.Candidate, error) {
	maxItems := req.MaxItems
	if maxItems <= 0 {
		maxItems = f.defaultMaxItem
	}

	entries, err := f.lister.List(ctx, source.URL, ytdlp.Request{
		LookbackDays: req.LookbackDays,
		MaxItems:     maxItems,
		SubtitleLang: f.subtitleLang,
	})
	if err != nil {
		return nil, err
	}

	candidates := make([]content.Candidate, 0, len(entries))
	for _, entry := range entries {
		url := strings.TrimSpace(entry.URL)
		if url == "" {
			continue
		}

		title := strings.TrimSpace(entry.Title)
		if title == "" {
			title = deriveTitle(url)
		}

		candidate := content.Candidate{
			Title:           title,
			URL:             url,
			Description:     entry.Description,
			PublishedDate:   entry.UploadDate,
			DurationSeconds: entry.DurationSeconds,
		}
		if entry.Captions != "" {
			candidate.Transcript = transcript.Normalize(entry.Captions, f.transcriptCap)
		}
		candidates = append(candidates, candidate)
	}

	f.logger.Debug("listed channel uploads",
		logging.String(logging.FieldSource, source.Name),
		logging.Int("entries", len(entries)),
		logging.Int("candidates", len(candidates)))
	return candidates, nil
}

var _ Fetcher = (*VideoFetcher)(nil)
