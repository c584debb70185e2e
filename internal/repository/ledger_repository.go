package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/nasiyabro/nasiya-backend/internal/domain"
)

type ledgerRepository struct {
	db *sqlx.DB
}

func NewLedgerRepository(db *sqlx.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) Create(ctx context.Context, q sqlx.ExtContext, entry *domain.LedgerEntry) error {
	query := `
		INSERT INTO ledger_entries (id, type, amount, description, sale_id, loan_id,
			installment_id, product_id, client_id, seller_id, magazine_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := q.ExecContext(ctx, query,
		entry.ID,
		entry.Type,
		entry.Amount,
		entry.Description,
		entry.SaleID,
		entry.LoanID,
		entry.InstallmentID,
		entry.ProductID,
		entry.ClientID,
		entry.SellerID,
		entry.MagazineID,
		entry.CreatedAt,
	)

	return err
}

func (r *ledgerRepository) ListRecent(ctx context.Context, scope Scope, limit int) ([]*domain.LedgerEntryView, error) {
	if limit <= 0 {
		limit = 10
	}

	var args []interface{}
	query := `
		SELECT le.id, le.type, le.amount, le.description, le.sale_id, le.loan_id,
			le.installment_id, le.product_id, le.client_id, le.seller_id, le.magazine_id,
			le.created_at, u.name AS seller_name
		FROM ledger_entries le
		JOIN users u ON u.id = le.seller_id
		WHERE 1 = 1
	` + scope.filter("le", &args)

	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY le.created_at DESC LIMIT $%d", len(args))

	views := []*domain.LedgerEntryView{}
	if err := r.db.SelectContext(ctx, &views, query, args...); err != nil {
		return nil, err
	}

	return views, nil
}
