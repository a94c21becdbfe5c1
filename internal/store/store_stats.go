package store

import (
	"context"
	"fmt"

	"curator/internal/content"
)

// Stats aggregates pipeline state for diagnostic output.
type Stats struct {
	TotalItems         int
	RatedItems         int
	PublishedItems     int
	ByRating           map[content.Rating]int
	BySource           []SourceItemCount
	UnpublishedTopTier int
	Sources            int
	EnabledSources     int
	Digests            int
}

// SourceItemCount pairs a source name with its stored item count.
type SourceItemCount struct {
	Name  string
	Items int
}

// Stats returns counts describing how far items have moved through the
// pipeline.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	ctx = ensureContext(ctx)
	stats := Stats{ByRating: make(map[content.Rating]int)}

	row := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM content_items")
	if err := row.Scan(&stats.TotalItems); err != nil {
		return Stats{}, fmt.Errorf("count items: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
        SELECT rating, COUNT(1) FROM content_items
        WHERE rating IS NOT NULL
        GROUP BY rating`)
	if err != nil {
		return Stats{}, fmt.Errorf("count ratings: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var rating string
		var count int
		if err := rows.Scan(&rating, &count); err != nil {
			return Stats{}, fmt.Errorf("scan rating count: %w", err)
		}
		stats.ByRating[content.Rating(rating)] = count
		stats.RatedItems += count
	}
	if err := rows.Err(); err != nil {
		return Stats{}, fmt.Errorf("iterate rating counts: %w", err)
	}

	row = s.db.QueryRowContext(ctx, `
        SELECT COUNT(1) FROM content_items WHERE published_to_obsidian = 1`)
	if err := row.Scan(&stats.PublishedItems); err != nil {
		return Stats{}, fmt.Errorf("count published items: %w", err)
	}

	row = s.db.QueryRowContext(ctx, `
        SELECT COUNT(1) FROM content_items
        WHERE rating IN ('S', 'A') AND published_to_obsidian = 0`)
	if err := row.Scan(&stats.UnpublishedTopTier); err != nil {
		return Stats{}, fmt.Errorf("count unpublished top tier: %w", err)
	}

	sourceRows, err := s.db.QueryContext(ctx, `
        SELECT s.name, COUNT(ci.id)
        FROM sources s
        LEFT JOIN content_items ci ON ci.source_id = s.id
        GROUP BY s.id
        ORDER BY s.name`)
	if err != nil {
		return Stats{}, fmt.Errorf("count items per source: %w", err)
	}
	defer sourceRows.Close()
	for sourceRows.Next() {
		var entry SourceItemCount
		if err := sourceRows.Scan(&entry.Name, &entry.Items); err != nil {
			return Stats{}, fmt.Errorf("scan source count: %w", err)
		}
		stats.BySource = append(stats.BySource, entry)
	}
	if err := sourceRows.Err(); err != nil {
		return Stats{}, fmt.Errorf("iterate source counts: %w", err)
	}

	row = s.db.QueryRowContext(ctx, "SELECT COUNT(1), COALESCE(SUM(enabled), 0) FROM sources")
	if err := row.Scan(&stats.Sources, &stats.EnabledSources); err != nil {
		return Stats{}, fmt.Errorf("count sources: %w", err)
	}

	row = s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM digests")
	if err := row.Scan(&stats.Digests); err != nil {
		return Stats{}, fmt.Errorf("count digests: %w", err)
	}

	return stats, nil
}
