package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tuanvumaihuynh/shelflife/internal/model"
	"github.com/tuanvumaihuynh/shelflife/internal/storage/db"
)

const selectProductWithRule = `
	SELECT
		p.id,
		p.user_id,
		p.sku,
		p.name,
		p.category_id,
		p.removal_buffer,
		p.created_at,
		p.updated_at,
		c.name AS category_name,
		c.rule
	FROM products AS p
	LEFT JOIN categories AS c ON c.id = p.category_id
`

type EnsureProductsParams struct {
	UserID uuid.UUID
	Skus   []string
	Now    time.Time
}

type UpdateProductParams struct {
	UserID        uuid.UUID
	Sku           string
	Name          *string
	RemovalBuffer *int
	CategoryID    *uuid.UUID
	ClearCategory bool
	UpdatedAt     time.Time
}

type ProductRepository interface {
	WithDB(db db.DB) ProductRepository
	CreateProduct(ctx context.Context, product model.Product) error
	EnsureProducts(ctx context.Context, params EnsureProductsParams) (map[string]uuid.UUID, error)
	GetProductBySku(ctx context.Context, userID uuid.UUID, sku string) (model.ProductWithRule, error)
	ListProducts(ctx context.Context, userID uuid.UUID) ([]model.ProductWithRule, error)
	UpdateProduct(ctx context.Context, params UpdateProductParams) error
	DeleteProduct(ctx context.Context, userID uuid.UUID, sku string) error
}

type productRepository struct {
	db db.DB
}

func NewProductRepository(db db.DB) ProductRepository {
	return &productRepository{
		db: db,
	}
}

func (r productRepository) WithDB(db db.DB) ProductRepository {
	return &productRepository{
		db: db,
	}
}

func (r productRepository) CreateProduct(ctx context.Context, product model.Product) error {
	if _, err := r.db.Exec(ctx, `
		INSERT INTO products (id, user_id, sku, name, category_id, removal_buffer, created_at, updated_at)
		VALUES (@id, @user_id, @sku, @name, @category_id, @removal_buffer, @created_at, @updated_at)
	`, pgx.NamedArgs{
		"id":             product.ID,
		"user_id":        product.UserID,
		"sku":            product.Sku,
		"name":           product.Name,
		"category_id":    product.CategoryID,
		"removal_buffer": product.RemovalBuffer,
		"created_at":     product.CreatedAt,
		"updated_at":     product.UpdatedAt,
	}); err != nil {
		return fmt.Errorf("create product: %w", err)
	}

	return nil
}

// EnsureProducts returns the product id of every sku, creating products named
// after their sku for the ones that do not exist yet.
func (r productRepository) EnsureProducts(ctx context.Context, params EnsureProductsParams) (map[string]uuid.UUID, error) {
	batch := &pgx.Batch{}
	for _, sku := range params.Skus {
		id, err := uuid.NewV7()
		if err != nil {
			return nil, fmt.Errorf("generate uuid v7: %w", err)
		}

		batch.Queue(`
			INSERT INTO products (id, user_id, sku, name, removal_buffer, created_at, updated_at)
			VALUES (@id, @user_id, @sku, @sku, 0, @now, @now)
			ON CONFLICT (user_id, sku) DO UPDATE SET sku = EXCLUDED.sku
			RETURNING id
		`, pgx.NamedArgs{
			"id":      id,
			"user_id": params.UserID,
			"sku":     sku,
			"now":     params.Now,
		})
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	ids := make(map[string]uuid.UUID, len(params.Skus))
	for _, sku := range params.Skus {
		var id uuid.UUID
		if err := results.QueryRow().Scan(&id); err != nil {
			return nil, fmt.Errorf("ensure product %s: %w", sku, err)
		}
		ids[sku] = id
	}

	return ids, nil
}

func (r productRepository) GetProductBySku(ctx context.Context, userID uuid.UUID, sku string) (model.ProductWithRule, error) {
	rows, err := r.db.Query(ctx, selectProductWithRule+`
		WHERE p.user_id = @user_id AND p.sku = @sku
	`, pgx.NamedArgs{
		"user_id": userID,
		"sku":     sku,
	})
	if err != nil {
		return model.ProductWithRule{}, fmt.Errorf("get product by sku: %w", err)
	}

	product, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.ProductWithRule])
	if err != nil {
		return model.ProductWithRule{}, fmt.Errorf("collect product: %w", err)
	}

	return product, nil
}

func (r productRepository) ListProducts(ctx context.Context, userID uuid.UUID) ([]model.ProductWithRule, error) {
	rows, err := r.db.Query(ctx, selectProductWithRule+`
		WHERE p.user_id = @user_id
		ORDER BY p.sku
	`, pgx.NamedArgs{
		"user_id": userID,
	})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	products, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.ProductWithRule])
	if err != nil {
		return nil, fmt.Errorf("collect products: %w", err)
	}

	return products, nil
}

func (r productRepository) UpdateProduct(ctx context.Context, params UpdateProductParams) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE products
		SET
			name           = COALESCE(@name::text, name),
			removal_buffer = COALESCE(@removal_buffer::integer, removal_buffer),
			category_id    = CASE
				WHEN @clear_category::boolean THEN NULL
				ELSE COALESCE(@category_id::uuid, category_id)
			END,
			updated_at     = @updated_at
		WHERE user_id = @user_id AND sku = @sku
	`, pgx.NamedArgs{
		"user_id":        params.UserID,
		"sku":            params.Sku,
		"name":           params.Name,
		"removal_buffer": params.RemovalBuffer,
		"category_id":    params.CategoryID,
		"clear_category": params.ClearCategory,
		"updated_at":     params.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	return requireAffected(tag)
}

func (r productRepository) DeleteProduct(ctx context.Context, userID uuid.UUID, sku string) error {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM products WHERE user_id = @user_id AND sku = @sku
	`, pgx.NamedArgs{
		"user_id": userID,
		"sku":     sku,
	})
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	return requireAffected(tag)
}
