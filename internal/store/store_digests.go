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

// PublishDigest records a digest and marks its items as published in a single
// transaction. When any item cannot be claimed, because it disappeared or was
// claimed by a concurrent digest, the whole publication rolls back and no
// record is kept.
func (s *Store) PublishDigest(ctx context.Context, digest *content.Digest, itemIDs []int64) (*content.Digest, error) {
	ctx = ensureContext(ctx)
	if len(itemIDs) == 0 {
		return nil, errors.New("publish digest: no items")
	}

	createdAt := digest.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin publish tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	res, err := tx.ExecContext(ctx, `
        INSERT INTO digests (
            week_start_date, week_end_date, item_count,
            s_tier_count, a_tier_count, obsidian_path, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		formatDate(digest.WeekStart),
		formatDate(digest.WeekEnd),
		digest.ItemCount,
		digest.STierCount,
		digest.ATierCount,
		nullableString(digest.VaultPath),
		formatTime(createdAt),
	)
	if err != nil {
		return nil, fmt.Errorf("insert digest: %w", err)
	}
	digestID, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("digest id: %w", err)
	}

	args := make([]any, 0, len(itemIDs)+1)
	args = append(args, digestID)
	for _, id := range itemIDs {
		args = append(args, id)
	}
	res, err = tx.ExecContext(ctx, fmt.Sprintf(`
        UPDATE content_items
        SET published_to_obsidian = 1, digest_id = ?
        WHERE id IN (%s) AND published_to_obsidian = 0`, makePlaceholders(len(itemIDs))),
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("mark items published: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("publish rows affected: %w", err)
	}
	if affected != int64(len(itemIDs)) {
		return nil, services.Wrap(services.ErrIntegrity, "", "publish digest",
			fmt.Sprintf("marked %d of %d items", affected, len(itemIDs)), nil)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit publish: %w", err)
	}

	stored := *digest
	stored.ID = digestID
	stored.CreatedAt = createdAt.UTC().Truncate(time.Second)
	return &stored, nil
}

// SetDigestPath records where a digest was written after publication.
func (s *Store) SetDigestPath(ctx context.Context, id int64, path string) error {
	ctx = ensureContext(ctx)

	if err := s.execWithoutResultRetry(ctx,
		"UPDATE digests SET obsidian_path = ? WHERE id = ?",
		nullableString(path), id,
	); err != nil {
		return fmt.Errorf("set digest path: %w", err)
	}
	return nil
}

// DigestByID returns the digest with the given id, or nil when absent.
func (s *Store) DigestByID(ctx context.Context, id int64) (*content.Digest, error) {
	ctx = ensureContext(ctx)

	row := s.db.QueryRowContext(ctx, "SELECT "+digestColumns+" FROM digests WHERE id = ?", id)
	digest, err := scanDigest(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get digest: %w", err)
	}
	return digest, nil
}

// ListDigests returns digests newest first.
func (s *Store) ListDigests(ctx context.Context) ([]*content.Digest, error) {
	ctx = ensureContext(ctx)

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+digestColumns+" FROM digests ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("list digests: %w", err)
	}
	defer rows.Close()

	var digests []*content.Digest
	for rows.Next() {
		digest, err := scanDigest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan digest: %w", err)
		}
		digests = append(digests, digest)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate digests: %w", err)
	}
	return digests, nil
}
