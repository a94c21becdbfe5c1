package store

import (
	"database/sql"
	"errors"
	"time"

	"curator/internal/content"
)

const sourceColumns = "id, name, type, url, enabled, last_fetch_at"

const itemColumns = "id, source_id, title, url, description, transcript, published_date, duration_minutes, rating, rating_reasoning, rated_at, published_to_obsidian, digest_id, fetched_at"

const digestColumns = "id, week_start_date, week_end_date, item_count, s_tier_count, a_tier_count, obsidian_path, created_at"

const fetchLogColumns = "id, source_id, items_fetched, success, error_message, started_at, completed_at"

const dateFormat = "2006-01-02"

func scanSource(scanner interface{ Scan(dest ...any) error }) (*content.Source, error) {
	var (
		id           int64
		name         string
		sourceType   string
		url          string
		enabled      sql.NullInt64
		lastFetchRaw sql.NullString
	)

	if err := scanner.Scan(&id, &name, &sourceType, &url, &enabled, &lastFetchRaw); err != nil {
		return nil, err
	}

	source := &content.Source{
		ID:   id,
		Name: name,
		Type: content.SourceType(sourceType),
		URL:  url,
	}
	if enabled.Valid {
		source.Enabled = enabled.Int64 != 0
	}
	if lastFetchRaw.Valid {
		if fetched, err := parseTimeString(lastFetchRaw.String); err == nil {
			source.LastFetchAt = &fetched
		}
	}
	return source, nil
}

func scanItem(scanner interface{ Scan(dest ...any) error }) (*content.Item, error) {
	var (
		id           int64
		sourceID     int64
		title        string
		url          string
		description  sql.NullString
		transcript   sql.NullString
		publishedRaw sql.NullString
		durationMin  sql.NullInt64
		rating       sql.NullString
		reasoning    sql.NullString
		ratedRaw     sql.NullString
		published    sql.NullInt64
		digestID     sql.NullInt64
		fetchedRaw   sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&sourceID,
		&title,
		&url,
		&description,
		&transcript,
		&publishedRaw,
		&durationMin,
		&rating,
		&reasoning,
		&ratedRaw,
		&published,
		&digestID,
		&fetchedRaw,
	); err != nil {
		return nil, err
	}

	item := &content.Item{
		ID:              id,
		SourceID:        sourceID,
		Title:           title,
		URL:             url,
		Description:     description.String,
		Transcript:      transcript.String,
		DurationMinutes: int(durationMin.Int64),
		RatingReasoning: reasoning.String,
	}
	if rating.Valid {
		item.Rating = content.Rating(rating.String)
	}
	if published.Valid {
		item.Published = published.Int64 != 0
	}
	if digestID.Valid {
		value := digestID.Int64
		item.DigestID = &value
	}
	if publishedRaw.Valid {
		if date, err := parseTimeString(publishedRaw.String); err == nil {
			item.PublishedDate = &date
		}
	}
	if ratedRaw.Valid {
		if rated, err := parseTimeString(ratedRaw.String); err == nil {
			item.RatedAt = &rated
		}
	}
	if fetched, err := parseTimeString(fetchedRaw.String); err == nil {
		item.FetchedAt = fetched
	}
	return item, nil
}

func scanDigest(scanner interface{ Scan(dest ...any) error }) (*content.Digest, error) {
	var (
		id         int64
		weekStart  string
		weekEnd    string
		itemCount  int64
		sTierCount int64
		aTierCount int64
		vaultPath  sql.NullString
		createdRaw sql.NullString
	)

	if err := scanner.Scan(&id, &weekStart, &weekEnd, &itemCount, &sTierCount, &aTierCount, &vaultPath, &createdRaw); err != nil {
		return nil, err
	}

	digest := &content.Digest{
		ID:         id,
		ItemCount:  int(itemCount),
		STierCount: int(sTierCount),
		ATierCount: int(aTierCount),
		VaultPath:  vaultPath.String,
	}
	if start, err := parseDateString(weekStart); err == nil {
		digest.WeekStart = start
	}
	if end, err := parseDateString(weekEnd); err == nil {
		digest.WeekEnd = end
	}
	if createdRaw.Valid {
		if created, err := parseTimeString(createdRaw.String); err == nil {
			digest.CreatedAt = created
		}
	}
	return digest, nil
}

func scanFetchLog(scanner interface{ Scan(dest ...any) error }) (*content.FetchLog, error) {
	var (
		id           int64
		sourceID     int64
		itemsFetched int64
		success      sql.NullInt64
		errorMessage sql.NullString
		startedRaw   sql.NullString
		completedRaw sql.NullString
	)

	if err := scanner.Scan(&id, &sourceID, &itemsFetched, &success, &errorMessage, &startedRaw, &completedRaw); err != nil {
		return nil, err
	}

	entry := &content.FetchLog{
		ID:           id,
		SourceID:     sourceID,
		ItemsFetched: int(itemsFetched),
		ErrorMessage: errorMessage.String,
	}
	if success.Valid {
		entry.Success = success.Int64 != 0
	}
	if started, err := parseTimeString(startedRaw.String); err == nil {
		entry.StartedAt = started
	}
	if completedRaw.Valid {
		if completed, err := parseTimeString(completedRaw.String); err == nil {
			entry.CompletedAt = &completed
		}
	}
	return entry, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return formatTime(*value)
}

func nullableInt(value int) any {
	if value == 0 {
		return nil
	}
	return value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

// formatTime stores timestamps as second-precision RFC3339 in UTC. The fixed
// width keeps lexicographic comparison in SQL consistent with time order.
func formatTime(value time.Time) string {
	return value.UTC().Format(time.RFC3339)
}

func formatDate(value time.Time) string {
	return value.UTC().Format(dateFormat)
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func parseDateString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	return time.Parse(dateFormat, value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
