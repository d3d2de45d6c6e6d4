package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/franmoretti/pricewatch/internal/models"
)

// InsertProduct stores a new catalog product.
func (db *DB) InsertProduct(ctx context.Context, p *models.CatalogProduct) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}

	query := `
		INSERT INTO product_catalog (id, name)
		VALUES ($1, $2)
		RETURNING created_at, updated_at`

	err := db.pool.QueryRow(ctx, query, p.ID, p.Name).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}

	return nil
}

// UpdateProduct renames a catalog product.
func (db *DB) UpdateProduct(ctx context.Context, p *models.CatalogProduct) error {
	query := `
		UPDATE product_catalog SET
			name = $2,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1`

	tag, err := db.pool.Exec(ctx, query, p.ID, p.Name)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product %s not found", p.ID)
	}

	return nil
}

// DeleteProduct removes a catalog product and its label links.
func (db *DB) DeleteProduct(ctx context.Context, id string) error {
	tag, err := db.pool.Exec(ctx, `DELETE FROM product_catalog WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product %s not found", id)
	}
	return nil
}

// GetProduct retrieves one catalog product with its labels, nil when
// absent.
func (db *DB) GetProduct(ctx context.Context, id string) (*models.CatalogProduct, error) {
	query := `
		SELECT id, name, created_at, updated_at
		FROM product_catalog
		WHERE id = $1`

	p := &models.CatalogProduct{}
	err := db.pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &p.CreatedAt, &p.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	labels, err := db.labelsForProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Labels = labels

	return p, nil
}

// ListProducts returns the catalog with labels attached, oldest first.
func (db *DB) ListProducts(ctx context.Context) ([]*models.CatalogProduct, error) {
	query := `
		SELECT id, name, created_at, updated_at
		FROM product_catalog
		ORDER BY created_at ASC`

	rows, err := db.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []*models.CatalogProduct
	for rows.Next() {
		p := &models.CatalogProduct{}
		if err := rows.Scan(&p.ID, &p.Name, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, p := range products {
		labels, err := db.labelsForProduct(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		p.Labels = labels
	}

	return products, nil
}
