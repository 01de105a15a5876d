package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"github.com/redmonkez12/jeogi-market/internal/database"
)

var ErrNotFound = errors.New("product not found")

// Repository handles product persistence
type Repository struct {
	db bun.IDB
}

func NewRepository(db bun.IDB) *Repository {
	return &Repository{db: db}
}

// Create inserts a product and returns the id assigned by the database
func (r *Repository) Create(ctx context.Context, p *Product) (int64, error) {
	row := &database.Product{
		OwnerID:      p.OwnerID,
		ProductName:  p.ProductName,
		Description:  p.Description,
		Price:        p.Price,
		PurchaseLink: p.PurchaseLink,
		ImageURLs:    p.ImageURLs,
		Status:       p.Status,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}

	_, err := r.db.NewInsert().
		Model(row).
		Returning("id").
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to insert product: %w", err)
	}

	return row.ID, nil
}

// GetByID retrieves a product by ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*Product, error) {
	row := new(database.Product)
	err := r.db.NewSelect().
		Model(row).
		Where("id = ?", id).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return mapDBProductToModel(row), nil
}

// List returns the newest products first
func (r *Repository) List(ctx context.Context, limit int) ([]*Product, error) {
	var rows []database.Product
	err := r.db.NewSelect().
		Model(&rows).
		Order("created_at DESC", "id DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return mapDBProducts(rows), nil
}

// ListByOwner returns every product of one account, newest first
func (r *Repository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Product, error) {
	var rows []database.Product
	err := r.db.NewSelect().
		Model(&rows).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC", "id DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products by owner: %w", err)
	}

	return mapDBProducts(rows), nil
}

// Update applies patch to the product if ownerID still owns it
func (r *Repository) Update(ctx context.Context, id int64, ownerID uuid.UUID, patch Patch, now time.Time) error {
	q := r.db.NewUpdate().
		Model((*database.Product)(nil)).
		Set("updated_at = ?", now)

	if patch.ProductName != nil {
		q = q.Set("product_name = ?", *patch.ProductName)
	}
	if patch.Description != nil {
		q = q.Set("description = ?", *patch.Description)
	}
	if patch.Price != nil {
		q = q.Set("price = ?", *patch.Price)
	}
	if patch.PurchaseLink != nil {
		q = q.Set("purchase_link = ?", *patch.PurchaseLink)
	}
	if patch.ImageURLs != nil {
		q = q.Set("image_urls = ?", pgdialect.Array(patch.ImageURLs))
	}
	if patch.Status != nil {
		q = q.Set("status = ?", *patch.Status)
	}

	res, err := q.
		Where("id = ?", id).
		Where("owner_id = ?", ownerID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	return requireAffected(res)
}

// Delete removes the product if ownerID still owns it
func (r *Repository) Delete(ctx context.Context, id int64, ownerID uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*database.Product)(nil)).
		Where("id = ?", id).
		Where("owner_id = ?", ownerID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func mapDBProducts(rows []database.Product) []*Product {
	out := make([]*Product, 0, len(rows))
	for i := range rows {
		out = append(out, mapDBProductToModel(&rows[i]))
	}
	return out
}

// mapDBProductToModel converts database model to domain model
func mapDBProductToModel(row *database.Product) *Product {
	urls := row.ImageURLs
	if urls == nil {
		urls = []string{}
	}
	return &Product{
		ID:           row.ID,
		OwnerID:      row.OwnerID,
		ProductName:  row.ProductName,
		Description:  row.Description,
		Price:        row.Price,
		PurchaseLink: row.PurchaseLink,
		ImageURLs:    urls,
		Status:       row.Status,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}
