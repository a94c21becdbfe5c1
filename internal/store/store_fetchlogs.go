package store

import (
	"context"
	"fmt"
	"time"

	"curator/internal/content"
)

// AppendFetchLog records the outcome of one fetch attempt against a source.
func (s *Store) AppendFetchLog(ctx context.Context, entry *content.FetchLog) (*content.FetchLog, error) {
	ctx = ensureContext(ctx)

	startedAt := entry.StartedAt
	if startedAt.IsZero() {
		startedAt = time.Now().UTC()
	}

	res, err := s.execWithRetry(ctx, `
        INSERT INTO fetch_logs (
            source_id, items_fetched, success, error_message, started_at, completed_at
        ) VALUES (?, ?, ?, ?, ?, ?)`,
		entry.SourceID,
		entry.ItemsFetched,
		boolToInt(entry.Success),
		nullableString(entry.ErrorMessage),
		formatTime(startedAt),
		nullableTime(entry.CompletedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("insert fetch log: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("fetch log id: %w", err)
	}

	stored := *entry
	stored.ID = id
	stored.StartedAt = startedAt.UTC().Truncate(time.Second)
	return &stored, nil
}

// RecentFetchLogs returns the latest fetch attempts, newest first.
func (s *Store) RecentFetchLogs(ctx context.Context, limit int) ([]*content.FetchLog, error) {
	ctx = ensureContext(ctx)

	rows, err := s.db.QueryContext(ctx, `
        SELECT `+fetchLogColumns+` FROM fetch_logs
        ORDER BY started_at DESC, id DESC
        LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list fetch logs: %w", err)
	}
	defer rows.Close()

	var entries []*content.FetchLog
	for rows.Next() {
		entry, err := scanFetchLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan fetch log: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fetch logs: %w", err)
	}
	return entries, nil
}
