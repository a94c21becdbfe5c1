package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"curator/internal/content"
	"curator/internal/services"
)

// InsertItem persists a newly fetched content item. FetchedAt is stamped when
// unset. A URL that is already stored yields an integrity error so callers can
// treat the race between an existence check and the insert as a duplicate.
func (s *Store) InsertItem(ctx context.Context, item *content.Item) (*content.Item, error) {
	ctx = ensureContext(ctx)

	fetchedAt := item.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now().UTC()
	}

	res, err := s.execWithRetry(ctx, `
        INSERT INTO content_items (
            source_id, title, url, description, transcript,
            published_date, duration_minutes, rating, rating_reasoning, rated_at,
            published_to_obsidian, digest_id, fetched_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.SourceID,
		item.Title,
		item.URL,
		nullableString(item.Description),
		nullableString(item.Transcript),
		nullableTime(item.PublishedDate),
		nullableInt(item.DurationMinutes),
		nullableString(string(item.Rating)),
		nullableString(item.RatingReasoning),
		nullableTime(item.RatedAt),
		boolToInt(item.Published),
		item.DigestID,
		formatTime(fetchedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, services.Wrap(services.ErrIntegrity, "", "insert item", fmt.Sprintf("url %q already stored", item.URL), err)
		}
		return nil, fmt.Errorf("insert item: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("item id: %w", err)
	}

	stored := *item
	stored.ID = id
	stored.FetchedAt = fetchedAt.UTC().Truncate(time.Second)
	return &stored, nil
}

// ItemByURL returns the item with the given url, or nil when absent.
func (s *Store) ItemByURL(ctx context.Context, url string) (*content.Item, error) {
	ctx = ensureContext(ctx)

	row := s.db.QueryRowContext(ctx, "SELECT "+itemColumns+" FROM content_items WHERE url = ?", url)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item by url: %w", err)
	}
	return item, nil
}

// ItemByID returns the item with the given id, or nil when absent.
func (s *Store) ItemByID(ctx context.Context, id int64) (*content.Item, error) {
	ctx = ensureContext(ctx)

	row := s.db.QueryRowContext(ctx, "SELECT "+itemColumns+" FROM content_items WHERE id = ?", id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item by id: %w", err)
	}
	return item, nil
}

// UnratedItems returns items awaiting a rating, newest fetch first.
func (s *Store) UnratedItems(ctx context.Context, limit int) ([]*content.Item, error) {
	ctx = ensureContext(ctx)

	rows, err := s.db.QueryContext(ctx, `
        SELECT `+itemColumns+` FROM content_items
        WHERE rating IS NULL
        ORDER BY fetched_at DESC, id DESC
        LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list unrated items: %w", err)
	}
	defer rows.Close()

	return collectItems(rows)
}

// ApplyRating records a rating outcome for an item. The guard on rating IS
// NULL keeps a concurrent double-rating from overwriting the first result;
// the return value reports whether this call won.
func (s *Store) ApplyRating(ctx context.Context, id int64, result content.RatingResult, at time.Time) (bool, error) {
	ctx = ensureContext(ctx)

	res, err := s.execWithRetry(ctx, `
        UPDATE content_items
        SET rating = ?, rating_reasoning = ?, rated_at = ?
        WHERE id = ? AND rating IS NULL`,
		string(result.Rating), result.Reasoning, formatTime(at), id,
	)
	if err != nil {
		return false, fmt.Errorf("apply rating: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("apply rating rows affected: %w", err)
	}
	return affected > 0, nil
}

// UnpublishedTopTier returns S and A tier items not yet claimed by a digest
// whose fetch time falls on or after cutoff. S tier sorts before A tier;
// within a tier, newer publication dates come first and undated items last.
func (s *Store) UnpublishedTopTier(ctx context.Context, cutoff time.Time) ([]*content.Item, error) {
	ctx = ensureContext(ctx)

	rows, err := s.db.QueryContext(ctx, `
        SELECT `+itemColumns+` FROM content_items
        WHERE rating IN ('S', 'A')
          AND published_to_obsidian = 0
          AND fetched_at >= ?
        ORDER BY
            CASE rating WHEN 'S' THEN 0 ELSE 1 END,
            published_date DESC,
            id`, formatTime(cutoff))
	if err != nil {
		return nil, fmt.Errorf("list unpublished top tier: %w", err)
	}
	defer rows.Close()

	return collectItems(rows)
}

// ItemsByDigest returns the items claimed by a digest in digest order.
func (s *Store) ItemsByDigest(ctx context.Context, digestID int64) ([]*content.Item, error) {
	ctx = ensureContext(ctx)

	rows, err := s.db.QueryContext(ctx, `
        SELECT `+itemColumns+` FROM content_items
        WHERE digest_id = ?
        ORDER BY
            CASE rating WHEN 'S' THEN 0 ELSE 1 END,
            published_date DESC,
            id`, digestID)
	if err != nil {
		return nil, fmt.Errorf("list digest items: %w", err)
	}
	defer rows.Close()

	return collectItems(rows)
}

func collectItems(rows *sql.Rows) ([]*content.Item, error) {
	var items []*content.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return items, nil
}
