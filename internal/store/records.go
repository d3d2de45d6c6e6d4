package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/franmoretti/pricewatch/internal/models"
)

// SaveRecord appends one scrape observation. Records are never
// updated in place.
func (db *DB) SaveRecord(ctx context.Context, r *models.ScrapedRecord) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}

	query := `
		INSERT INTO data (id, product_id, source_id, name, price, image, url, scraped_at)
		VALUES ($1, NULLIF($2, '')::uuid, NULLIF($3, '')::uuid, $4, $5, $6, $7, $8)`

	_, err := db.pool.Exec(ctx, query,
		r.ID, r.ProductID, r.SourceID, r.Name, r.Price, r.Image, r.URL, r.ScrapedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save record: %w", err)
	}

	return nil
}

// ListRecords returns the newest records first, bounded by limit.
// A zero limit defaults to 100.
func (db *DB) ListRecords(ctx context.Context, limit int) ([]*models.ScrapedRecord, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, COALESCE(product_id::text, ''), COALESCE(source_id::text, ''),
			   name, price, COALESCE(image, ''), url, scraped_at
		FROM data
		ORDER BY scraped_at DESC
		LIMIT $1`

	rows, err := db.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// ListRecordsBySource returns a source's history, newest first.
func (db *DB) ListRecordsBySource(ctx context.Context, sourceID string, limit int) ([]*models.ScrapedRecord, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, COALESCE(product_id::text, ''), COALESCE(source_id::text, ''),
			   name, price, COALESCE(image, ''), url, scraped_at
		FROM data
		WHERE source_id = $1
		ORDER BY scraped_at DESC
		LIMIT $2`

	rows, err := db.pool.Query(ctx, query, sourceID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query records by source: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// ListRecordsByProduct returns a catalog product's history across all
// of its sources, newest first.
func (db *DB) ListRecordsByProduct(ctx context.Context, productID string, limit int) ([]*models.ScrapedRecord, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, COALESCE(product_id::text, ''), COALESCE(source_id::text, ''),
			   name, price, COALESCE(image, ''), url, scraped_at
		FROM data
		WHERE product_id = $1
		ORDER BY scraped_at DESC
		LIMIT $2`

	rows, err := db.pool.Query(ctx, query, productID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query records by product: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// DeleteRecord removes one observation.
func (db *DB) DeleteRecord(ctx context.Context, id string) error {
	tag, err := db.pool.Exec(ctx, `DELETE FROM data WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("record %s not found", id)
	}
	return nil
}

// DeleteRecordsByName bulk-removes every observation that carries the
// given product name, returning how many went away.
func (db *DB) DeleteRecordsByName(ctx context.Context, name string) (int64, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM data WHERE name = $1`, name)
	if err != nil {
		return 0, fmt.Errorf("failed to delete records by name: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanRecords(rows pgx.Rows) ([]*models.ScrapedRecord, error) {
	var records []*models.ScrapedRecord
	for rows.Next() {
		r := &models.ScrapedRecord{}
		err := rows.Scan(
			&r.ID, &r.ProductID, &r.SourceID,
			&r.Name, &r.Price, &r.Image, &r.URL, &r.ScrapedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, r)
	}

	return records, rows.Err()
}
