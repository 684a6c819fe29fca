package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/catmatch/internal/core/domain"
	"github.com/custodia-labs/catmatch/internal/core/ports/driven"
)

// lookupChunk bounds the number of bound parameters per query.
const lookupChunk = 500

// embeddingCache implements driven.EmbeddingCache.
type embeddingCache struct {
	store *Store
	now   func() time.Time
}

var _ driven.EmbeddingCache = (*embeddingCache)(nil)

func (c *embeddingCache) timeNow() time.Time {
	if c.now != nil {
		return c.now()
	}
	return time.Now()
}

// GetMany returns cached vectors for the digests under model.
// Rows whose blob does not match the recorded dimension count are skipped.
func (c *embeddingCache) GetMany(ctx context.Context, model string, digests []string) (map[string][]float32, error) {
	found := make(map[string][]float32, len(digests))

	for start := 0; start < len(digests); start += lookupChunk {
		chunk := digests[start:min(start+lookupChunk, len(digests))]

		args := make([]any, 0, len(chunk)+1)
		args = append(args, model)
		for _, d := range chunk {
			args = append(args, d)
		}
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(chunk)), ",")

		rows, err := c.store.db.QueryContext(ctx,
			`SELECT digest, dims, vector FROM embeddings WHERE model = ? AND digest IN (`+placeholders+`)`,
			args...)
		if err != nil {
			return nil, fmt.Errorf("querying embeddings: %w", err)
		}
		if err := scanVectors(rows, found); err != nil {
			return nil, err
		}
	}

	return found, nil
}

func scanVectors(rows *sql.Rows, into map[string][]float32) error {
	defer rows.Close()
	for rows.Next() {
		var (
			digest string
			dims   int
			blob   []byte
		)
		if err := rows.Scan(&digest, &dims, &blob); err != nil {
			return fmt.Errorf("scanning embedding: %w", err)
		}
		if dims <= 0 || len(blob) != dims*4 {
			continue
		}
		into[digest] = bytesToFloat32Slice(blob)
	}
	return rows.Err()
}

// PutMany upserts the vectors in a single transaction.
func (c *embeddingCache) PutMany(ctx context.Context, model string, vectors map[string][]float32) error {
	if len(vectors) == 0 {
		return nil
	}

	tx, err := c.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO embeddings (model, digest, dims, vector, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(model, digest) DO UPDATE SET
			dims = excluded.dims,
			vector = excluded.vector,
			created_at = excluded.created_at
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	now := c.timeNow().Unix()
	for digest, vec := range vectors {
		if len(vec) == 0 {
			continue
		}
		if _, err := stmt.ExecContext(ctx, model, digest, len(vec), float32SliceToBytes(vec), now); err != nil {
			return fmt.Errorf("storing embedding: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit embeddings: %w", err)
	}
	return nil
}

// Stats summarises the cache contents.
func (c *embeddingCache) Stats(ctx context.Context) (domain.CacheStats, error) {
	var (
		stats  domain.CacheStats
		oldest sql.NullInt64
	)

	row := c.store.db.QueryRowContext(ctx, `SELECT COUNT(*), MIN(created_at) FROM embeddings`)
	if err := row.Scan(&stats.Entries, &oldest); err != nil {
		return domain.CacheStats{}, fmt.Errorf("counting embeddings: %w", err)
	}
	if oldest.Valid {
		stats.OldestAt = time.Unix(oldest.Int64, 0)
	}

	rows, err := c.store.db.QueryContext(ctx, `SELECT DISTINCT model FROM embeddings ORDER BY model`)
	if err != nil {
		return domain.CacheStats{}, fmt.Errorf("listing models: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var model string
		if err := rows.Scan(&model); err != nil {
			return domain.CacheStats{}, fmt.Errorf("scanning model: %w", err)
		}
		stats.Models = append(stats.Models, model)
	}
	if err := rows.Err(); err != nil {
		return domain.CacheStats{}, fmt.Errorf("listing models: %w", err)
	}

	return stats, nil
}

// Clear removes every entry.
func (c *embeddingCache) Clear(ctx context.Context) error {
	if _, err := c.store.db.ExecContext(ctx, `DELETE FROM embeddings`); err != nil {
		return fmt.Errorf("clearing embeddings: %w", err)
	}
	return nil
}

// Close closes the underlying store.
func (c *embeddingCache) Close() error {
	return c.store.Close()
}
