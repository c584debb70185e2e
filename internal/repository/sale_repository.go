package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/nasiyabro/nasiya-backend/internal/domain"
)

type saleRepository struct {
	db *sqlx.DB
}

func NewSaleRepository(db *sqlx.DB) SaleRepository {
	return &saleRepository{db: db}
}

func (r *saleRepository) Create(ctx context.Context, q sqlx.ExtContext, sale *domain.Sale) error {
	query := `
		INSERT INTO sales (id, product_id, seller_id, magazine_id, sale_price, imei, sale_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := q.ExecContext(ctx, query,
		sale.ID,
		sale.ProductID,
		sale.SellerID,
		sale.MagazineID,
		sale.SalePrice,
		sale.IMEI,
		sale.SaleDate,
		sale.CreatedAt,
	)

	return err
}

func (r *saleRepository) ListViews(ctx context.Context, scope Scope, filter domain.SaleFilter) ([]*domain.SaleView, error) {
	var args []interface{}
	query := `
		SELECT s.id, s.product_id, s.seller_id, s.magazine_id, s.sale_price, s.imei,
			s.sale_date, s.created_at,
			p.name AS product_name, p.model AS product_model,
			u.name AS seller_name
		FROM sales s
		JOIN products p ON p.id = s.product_id
		JOIN users u ON u.id = s.seller_id
		WHERE 1 = 1
	` + scope.filter("s", &args)

	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		query += fmt.Sprintf(" AND s.sale_date >= $%d", len(args))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		query += fmt.Sprintf(" AND s.sale_date <= $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		query += fmt.Sprintf(" AND (p.name ILIKE $%d OR p.model ILIKE $%d OR u.name ILIKE $%d)", n, n, n)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY s.created_at DESC LIMIT $%d", len(args))
	args = append(args, filter.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	views := []*domain.SaleView{}
	if err := r.db.SelectContext(ctx, &views, query, args...); err != nil {
		return nil, err
	}

	return views, nil
}
