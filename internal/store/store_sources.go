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

// AddSource registers a new content source. A source whose name is already
// taken yields an integrity error.
func (s *Store) AddSource(ctx context.Context, name string, sourceType content.SourceType, url string) (*content.Source, error) {
	ctx = ensureContext(ctx)

	res, err := s.execWithRetry(ctx,
		"INSERT INTO sources (name, type, url, enabled) VALUES (?, ?, ?, 1)",
		name, string(sourceType), url,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, services.Wrap(services.ErrIntegrity, "", "add source", fmt.Sprintf("source %q already exists", name), err)
		}
		return nil, fmt.Errorf("insert source: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("source id: %w", err)
	}
	return &content.Source{ID: id, Name: name, Type: sourceType, URL: url, Enabled: true}, nil
}

// SourceByName returns the source with the given name, or nil when absent.
func (s *Store) SourceByName(ctx context.Context, name string) (*content.Source, error) {
	ctx = ensureContext(ctx)

	row := s.db.QueryRowContext(ctx, "SELECT "+sourceColumns+" FROM sources WHERE name = ?", name)
	source, err := scanSource(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get source by name: %w", err)
	}
	return source, nil
}

// SourceByID returns the source with the given id, or nil when absent.
func (s *Store) SourceByID(ctx context.Context, id int64) (*content.Source, error) {
	ctx = ensureContext(ctx)

	row := s.db.QueryRowContext(ctx, "SELECT "+sourceColumns+" FROM sources WHERE id = ?", id)
	source, err := scanSource(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get source by id: %w", err)
	}
	return source, nil
}

// ListSources returns sources ordered by name. With enabledOnly set, disabled
// sources are filtered out.
func (s *Store) ListSources(ctx context.Context, enabledOnly bool) ([]*content.Source, error) {
	ctx = ensureContext(ctx)

	query := "SELECT " + sourceColumns + " FROM sources"
	if enabledOnly {
		query += " WHERE enabled = 1"
	}
	query += " ORDER BY name"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	defer rows.Close()

	var sources []*content.Source
	for rows.Next() {
		source, err := scanSource(rows)
		if err != nil {
			return nil, fmt.Errorf("scan source: %w", err)
		}
		sources = append(sources, source)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sources: %w", err)
	}
	return sources, nil
}

// SetSourceEnabled flips the enabled flag for a named source and reports
// whether a row was updated.
func (s *Store) SetSourceEnabled(ctx context.Context, name string, enabled bool) (bool, error) {
	ctx = ensureContext(ctx)

	res, err := s.execWithRetry(ctx,
		"UPDATE sources SET enabled = ? WHERE name = ?",
		boolToInt(enabled), name,
	)
	if err != nil {
		return false, fmt.Errorf("update source enabled: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("source enabled rows affected: %w", err)
	}
	return affected > 0, nil
}

// TouchSourceFetched stamps the source with the time of its latest fetch.
func (s *Store) TouchSourceFetched(ctx context.Context, id int64, at time.Time) error {
	ctx = ensureContext(ctx)

	if err := s.execWithoutResultRetry(ctx,
		"UPDATE sources SET last_fetch_at = ? WHERE id = ?",
		formatTime(at), id,
	); err != nil {
		return fmt.Errorf("touch source fetched: %w", err)
	}
	return nil
}
