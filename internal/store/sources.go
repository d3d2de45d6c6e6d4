package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/franmoretti/pricewatch/internal/models"
)

// InsertSource stores a new tracked source, assigning its ID when the
// caller left it empty.
func (db *DB) InsertSource(ctx context.Context, s *models.Source) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}

	query := `
		INSERT INTO sources (id, url, type, name, product_id)
		VALUES ($1, $2, $3, $4, NULLIF($5, '')::uuid)
		RETURNING created_at, updated_at`

	err := db.pool.QueryRow(ctx, query,
		s.ID, s.URL, s.Type, s.Name, s.ProductID,
	).Scan(&s.CreatedAt, &s.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to insert source: %w", err)
	}

	return nil
}

// UpdateSource rewrites a source's mutable fields.
func (db *DB) UpdateSource(ctx context.Context, s *models.Source) error {
	query := `
		UPDATE sources SET
			url = $2,
			type = $3,
			name = $4,
			product_id = NULLIF($5, '')::uuid,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1`

	tag, err := db.pool.Exec(ctx, query, s.ID, s.URL, s.Type, s.Name, s.ProductID)
	if err != nil {
		return fmt.Errorf("failed to update source: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("source %s not found", s.ID)
	}

	return nil
}

// DeleteSource removes a source. Historic records keep a null source
// reference rather than disappearing.
func (db *DB) DeleteSource(ctx context.Context, id string) error {
	tag, err := db.pool.Exec(ctx, `DELETE FROM sources WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete source: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("source %s not found", id)
	}
	return nil
}

// GetSource retrieves a single source by ID, nil when absent.
func (db *DB) GetSource(ctx context.Context, id string) (*models.Source, error) {
	query := `
		SELECT id, url, type, name, COALESCE(product_id::text, ''), created_at, updated_at
		FROM sources
		WHERE id = $1`

	s := &models.Source{}
	err := db.pool.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.URL, &s.Type, &s.Name, &s.ProductID, &s.CreatedAt, &s.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get source: %w", err)
	}

	return s, nil
}

// ListSources returns every tracked source, oldest first.
func (db *DB) ListSources(ctx context.Context) ([]*models.Source, error) {
	query := `
		SELECT id, url, type, name, COALESCE(product_id::text, ''), created_at, updated_at
		FROM sources
		ORDER BY created_at ASC`

	rows, err := db.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query sources: %w", err)
	}
	defer rows.Close()

	var sources []*models.Source
	for rows.Next() {
		s := &models.Source{}
		err := rows.Scan(&s.ID, &s.URL, &s.Type, &s.Name, &s.ProductID, &s.CreatedAt, &s.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan source: %w", err)
		}
		sources = append(sources, s)
	}

	return sources, rows.Err()
}
