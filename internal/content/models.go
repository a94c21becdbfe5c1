package content

import (
	"strings"
	"time"
)

// SourceType identifies the kind of origin a source fetches from.
type SourceType string

const (
	SourceTypeVideoChannel SourceType = "video_channel"
	SourceTypePodcast      SourceType = "podcast"
	SourceTypeFeed         SourceType = "feed"
)

var allSourceTypes = []SourceType{
	SourceTypeVideoChannel,
	SourceTypePodcast,
	SourceTypeFeed,
}

var sourceTypeSet = func() map[SourceType]struct{} {
	set := make(map[SourceType]struct{}, len(allSourceTypes))
	for _, st := range allSourceTypes {
		set[st] = struct{}{}
	}
	return set
}()

// AllSourceTypes returns the ordered list of known source types.
func AllSourceTypes() []SourceType {
	cp := make([]SourceType, len(allSourceTypes))
	copy(cp, allSourceTypes)
	return cp
}

// ParseSourceType converts a string into a known SourceType. Hyphens are
// accepted in place of underscores so CLI input like "video-channel" works.
func ParseSourceType(value string) (SourceType, bool) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(value)), "-", "_")
	if normalized == "" {
		return "", false
	}
	st := SourceType(normalized)
	_, ok := sourceTypeSet[st]
	return st, ok
}

// Rating is an ordinal curation tier. S ranks highest, D lowest.
type Rating string

const (
	RatingS Rating = "S"
	RatingA Rating = "A"
	RatingB Rating = "B"
	RatingC Rating = "C"
	RatingD Rating = "D"
)

var allRatings = []Rating{RatingS, RatingA, RatingB, RatingC, RatingD}

var ratingSet = func() map[Rating]struct{} {
	set := make(map[Rating]struct{}, len(allRatings))
	for _, r := range allRatings {
		set[r] = struct{}{}
	}
	return set
}()

// AllRatings returns the ordered list of ratings, best first.
func AllRatings() []Rating {
	cp := make([]Rating, len(allRatings))
	copy(cp, allRatings)
	return cp
}

// ParseRating converts a string into a known Rating.
func ParseRating(value string) (Rating, bool) {
	normalized := Rating(strings.ToUpper(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := ratingSet[normalized]
	return normalized, ok
}

// Rank returns the ordinal position of the rating, 0 for S through 4 for D.
// Unknown ratings rank after all known ones.
func (r Rating) Rank() int {
	for i, known := range allRatings {
		if r == known {
			return i
		}
	}
	return len(allRatings)
}

// IsTopTier reports whether the rating qualifies an item for digest selection.
func (r Rating) IsTopTier() bool {
	return r == RatingS || r == RatingA
}

// State is the derived lifecycle position of a content item. It is computed
// from the rating and publication fields; the store carries no state column.
type State string

const (
	StateUnrated   State = "unrated"
	StateRated     State = "rated"
	StatePublished State = "published"
)

// Source is a configured origin the pipeline fetches candidate items from.
type Source struct {
	ID          int64
	Name        string
	Type        SourceType
	URL         string
	Enabled     bool
	LastFetchAt *time.Time
}

// Item is one piece of content tracked through the Unrated, Rated, and
// Published lifecycle. URL is globally unique across all sources.
type Item struct {
	ID              int64
	SourceID        int64
	Title           string
	URL             string
	Description     string
	Transcript      string
	PublishedDate   *time.Time
	DurationMinutes int
	Rating          Rating
	RatingReasoning string
	RatedAt         *time.Time
	Published       bool
	DigestID        *int64
	FetchedAt       time.Time
}

// State derives the lifecycle position from the item's fields.
func (i Item) State() State {
	switch {
	case i.Published:
		return StatePublished
	case i.Rating != "":
		return StateRated
	default:
		return StateUnrated
	}
}

// IsRated reports whether a rating has been applied.
func (i Item) IsRated() bool {
	return i.Rating != ""
}

// ApplyRating sets the three rating fields together. The fields are never
// set individually; an item either carries a complete rating or none.
func (i *Item) ApplyRating(result RatingResult, at time.Time) {
	i.Rating = result.Rating
	i.RatingReasoning = result.Reasoning
	ratedAt := at.UTC()
	i.RatedAt = &ratedAt
}

// RatingResult is the structured outcome extracted from one rating-tool
// response. It is transient; applying it to an item persists it.
type RatingResult struct {
	Rating    Rating
	Reasoning string
}

// Candidate is a fetched item prior to deduplication and persistence.
// Transcript, when present, is already normalized caption text.
type Candidate struct {
	Title           string
	URL             string
	Description     string
	Transcript      string
	PublishedDate   *time.Time
	DurationSeconds int
}

// DurationMinutes converts the fetched duration to whole minutes for
// storage. Durations under a minute round up to one so a known duration is
// never stored as absent.
func (c Candidate) DurationMinutes() int {
	if c.DurationSeconds <= 0 {
		return 0
	}
	minutes := c.DurationSeconds / 60
	if minutes == 0 {
		return 1
	}
	return minutes
}

// Digest is one published batch of top-tier items rendered to a single
// vault artifact.
type Digest struct {
	ID         int64
	WeekStart  time.Time
	WeekEnd    time.Time
	ItemCount  int
	STierCount int
	ATierCount int
	VaultPath  string
	CreatedAt  time.Time
}

// FetchLog records the outcome of one fetch pass over one source.
type FetchLog struct {
	ID           int64
	SourceID     int64
	ItemsFetched int
	Success      bool
	ErrorMessage string
	StartedAt    time.Time
	CompletedAt  *time.Time
}
