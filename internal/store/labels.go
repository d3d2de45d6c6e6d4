package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/franmoretti/pricewatch/internal/models"
)

// InsertLabel stores a label, returning the existing one when the name
// is already taken.
func (db *DB) InsertLabel(ctx context.Context, l *models.Label) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}

	query := `
		INSERT INTO labels (id, name, color)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET color = EXCLUDED.color
		RETURNING id`

	if err := db.pool.QueryRow(ctx, query, l.ID, l.Name, l.Color).Scan(&l.ID); err != nil {
		return fmt.Errorf("failed to insert label: %w", err)
	}

	return nil
}

// DeleteLabel removes a label and detaches it from every product.
func (db *DB) DeleteLabel(ctx context.Context, id string) error {
	tag, err := db.pool.Exec(ctx, `DELETE FROM labels WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete label: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("label %s not found", id)
	}
	return nil
}

// ListLabels returns every label alphabetically.
func (db *DB) ListLabels(ctx context.Context) ([]*models.Label, error) {
	rows, err := db.pool.Query(ctx, `SELECT id, name, color FROM labels ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query labels: %w", err)
	}
	defer rows.Close()

	var labels []*models.Label
	for rows.Next() {
		l := &models.Label{}
		if err := rows.Scan(&l.ID, &l.Name, &l.Color); err != nil {
			return nil, fmt.Errorf("failed to scan label: %w", err)
		}
		labels = append(labels, l)
	}

	return labels, rows.Err()
}

// AttachLabel links a label to a catalog product, idempotently.
func (db *DB) AttachLabel(ctx context.Context, productID, labelID string) error {
	query := `
		INSERT INTO product_labels (product_id, label_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`

	if _, err := db.pool.Exec(ctx, query, productID, labelID); err != nil {
		return fmt.Errorf("failed to attach label: %w", err)
	}
	return nil
}

// DetachLabel unlinks a label from a catalog product.
func (db *DB) DetachLabel(ctx context.Context, productID, labelID string) error {
	query := `DELETE FROM product_labels WHERE product_id = $1 AND label_id = $2`
	if _, err := db.pool.Exec(ctx, query, productID, labelID); err != nil {
		return fmt.Errorf("failed to detach label: %w", err)
	}
	return nil
}

func (db *DB) labelsForProduct(ctx context.Context, productID string) ([]models.Label, error) {
	query := `
		SELECT l.id, l.name, l.color
		FROM labels l
		JOIN product_labels pl ON pl.label_id = l.id
		WHERE pl.product_id = $1
		ORDER BY l.name ASC`

	rows, err := db.pool.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to query product labels: %w", err)
	}
	defer rows.Close()

	var labels []models.Label
	for rows.Next() {
		var l models.Label
		if err := rows.Scan(&l.ID, &l.Name, &l.Color); err != nil {
			return nil, fmt.Errorf("failed to scan label: %w", err)
		}
		labels = append(labels, l)
	}

	return labels, rows.Err()
}
