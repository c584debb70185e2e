package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nasiyabro/nasiya-backend/internal/domain"
)

type productRepository struct {
	db *sqlx.DB
}

func NewProductRepository(db *sqlx.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `
		SELECT id, name, model, price, count, manager_id, created_at, updated_at
		FROM products
		WHERE id = $1
	`

	var product domain.Product
	if err := r.db.GetContext(ctx, &product, query, id); err != nil {
		return nil, err
	}

	return &product, nil
}

func (r *productRepository) DecrementStock(ctx context.Context, q sqlx.ExtContext, id uuid.UUID) (bool, error) {
	// Check and decrement in one statement; the WHERE clause is what keeps
	// count from ever going negative under concurrent creations.
	query := `
		UPDATE products
		SET count = count - 1, updated_at = now()
		WHERE id = $1 AND count > 0
	`

	res, err := q.ExecContext(ctx, query, id)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return n == 1, nil
}
