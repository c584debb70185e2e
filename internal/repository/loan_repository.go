package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/nasiyabro/nasiya-backend/internal/domain"
)

type loanRepository struct {
	db *sqlx.DB
}

func NewLoanRepository(db *sqlx.DB) LoanRepository {
	return &loanRepository{db: db}
}

const loanColumns = `id, product_id, client_id, seller_id, magazine_id, loan_price,
	initial_payment, remaining_amount, loan_months, interest_rate, monthly_payment,
	loan_start_date, is_completed, created_at, updated_at`

func (r *loanRepository) Create(ctx context.Context, q sqlx.ExtContext, loan *domain.Loan) error {
	query := `
		INSERT INTO loans (id, product_id, client_id, seller_id, magazine_id, loan_price,
			initial_payment, remaining_amount, loan_months, interest_rate, monthly_payment,
			loan_start_date, is_completed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := q.ExecContext(ctx, query,
		loan.ID,
		loan.ProductID,
		loan.ClientID,
		loan.SellerID,
		loan.MagazineID,
		loan.LoanPrice,
		loan.InitialPayment,
		loan.RemainingAmount,
		loan.LoanMonths,
		loan.InterestRate,
		loan.MonthlyPayment,
		loan.LoanStartDate,
		loan.IsCompleted,
		loan.CreatedAt,
		loan.UpdatedAt,
	)

	return err
}

func (r *loanRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	query := fmt.Sprintf(`SELECT %s FROM loans WHERE id = $1`, loanColumns)

	var loan domain.Loan
	if err := r.db.GetContext(ctx, &loan, query, id); err != nil {
		return nil, err
	}

	return &loan, nil
}

func (r *loanRepository) GetByIDForUpdate(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*domain.Loan, error) {
	query := fmt.Sprintf(`SELECT %s FROM loans WHERE id = $1 FOR UPDATE`, loanColumns)

	var loan domain.Loan
	if err := tx.GetContext(ctx, &loan, query, id); err != nil {
		return nil, err
	}

	return &loan, nil
}

func (r *loanRepository) UpdateBalance(ctx context.Context, q sqlx.ExtContext, id uuid.UUID, remaining decimal.Decimal, completed bool) error {
	query := `
		UPDATE loans
		SET remaining_amount = $2, is_completed = $3, updated_at = $4
		WHERE id = $1
	`

	_, err := q.ExecContext(ctx, query, id, remaining, completed, time.Now())
	return err
}

const loanViewSelect = `
	SELECT l.id, l.product_id, l.client_id, l.seller_id, l.magazine_id, l.loan_price,
		l.initial_payment, l.remaining_amount, l.loan_months, l.interest_rate,
		l.monthly_payment, l.loan_start_date, l.is_completed, l.created_at, l.updated_at,
		p.name AS product_name, p.model AS product_model,
		c.name AS client_name, c.phone AS client_phone,
		u.name AS seller_name
	FROM loans l
	JOIN products p ON p.id = l.product_id
	JOIN clients c ON c.id = l.client_id
	JOIN users u ON u.id = l.seller_id
`

func (r *loanRepository) GetView(ctx context.Context, scope Scope, id uuid.UUID) (*domain.LoanView, error) {
	args := []interface{}{id}
	query := loanViewSelect + ` WHERE l.id = $1` + scope.filter("l", &args)

	var view domain.LoanView
	if err := r.db.GetContext(ctx, &view, query, args...); err != nil {
		return nil, err
	}

	return &view, nil
}

func (r *loanRepository) ListViews(ctx context.Context, scope Scope, limit, offset int) ([]*domain.LoanView, error) {
	var args []interface{}
	query := loanViewSelect + ` WHERE 1 = 1` + scope.filter("l", &args)

	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY l.created_at DESC LIMIT $%d", len(args))
	args = append(args, offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	views := []*domain.LoanView{}
	if err := r.db.SelectContext(ctx, &views, query, args...); err != nil {
		return nil, err
	}

	return views, nil
}

func (r *loanRepository) CreateAttachments(ctx context.Context, q sqlx.ExtContext, attachments []*domain.LoanAttachment) error {
	query := `
		INSERT INTO loan_attachments (id, loan_id, kind, path, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	for _, a := range attachments {
		if _, err := q.ExecContext(ctx, query, a.ID, a.LoanID, a.Kind, a.Path, a.CreatedAt); err != nil {
			return err
		}
	}

	return nil
}

func (r *loanRepository) ListAttachments(ctx context.Context, loanID uuid.UUID) ([]*domain.LoanAttachment, error) {
	query := `
		SELECT id, loan_id, kind, path, created_at
		FROM loan_attachments
		WHERE loan_id = $1
		ORDER BY created_at
	`

	attachments := []*domain.LoanAttachment{}
	if err := r.db.SelectContext(ctx, &attachments, query, loanID); err != nil {
		// A broken attachment read must never fail the loan itself.
		return []*domain.LoanAttachment{}, nil
	}

	return attachments, nil
}
