package repository

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/nasiyabro/nasiya-backend/internal/domain"
)

type installmentRepository struct {
	db *sqlx.DB
}

func NewInstallmentRepository(db *sqlx.DB) InstallmentRepository {
	return &installmentRepository{db: db}
}

// lower(status) normalizes legacy mixed-case rows at the storage boundary.
const installmentColumns = `id, loan_id, amount, due_date, payment_date,
	lower(status) AS status, is_late, is_full_payment, notes, created_at`

func (r *installmentRepository) BulkCreate(ctx context.Context, q sqlx.ExtContext, installments []*domain.Installment) error {
	query := `
		INSERT INTO loan_payments (id, loan_id, amount, due_date, payment_date, status,
			is_late, is_full_payment, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	for _, inst := range installments {
		_, err := q.ExecContext(ctx, query,
			inst.ID,
			inst.LoanID,
			inst.Amount,
			inst.DueDate,
			inst.PaymentDate,
			inst.Status,
			inst.IsLate,
			inst.IsFullPayment,
			inst.Notes,
			inst.CreatedAt,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

func (r *installmentRepository) Create(ctx context.Context, q sqlx.ExtContext, installment *domain.Installment) error {
	return r.BulkCreate(ctx, q, []*domain.Installment{installment})
}

func (r *installmentRepository) ListByLoan(ctx context.Context, loanID uuid.UUID) ([]*domain.Installment, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM loan_payments
		WHERE loan_id = $1
		ORDER BY due_date
	`, installmentColumns)

	installments := []*domain.Installment{}
	if err := r.db.SelectContext(ctx, &installments, query, loanID); err != nil {
		return nil, err
	}

	return installments, nil
}

func (r *installmentRepository) GetByIDForUpdate(ctx context.Context, tx *sqlx.Tx, id, loanID uuid.UUID) (*domain.Installment, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM loan_payments
		WHERE id = $1 AND loan_id = $2
		FOR UPDATE
	`, installmentColumns)

	var inst domain.Installment
	if err := tx.GetContext(ctx, &inst, query, id, loanID); err != nil {
		return nil, err
	}

	return &inst, nil
}

func (r *installmentRepository) MarkPaid(ctx context.Context, q sqlx.ExtContext, id uuid.UUID, amount decimal.Decimal, paymentDate time.Time) error {
	query := `
		UPDATE loan_payments
		SET amount = $2, payment_date = $3, status = $4
		WHERE id = $1
	`

	_, err := q.ExecContext(ctx, query, id, amount, paymentDate, domain.InstallmentStatusPaid)
	return err
}

func (r *installmentRepository) DeleteOpenByLoan(ctx context.Context, tx *sqlx.Tx, loanID uuid.UUID) (int, error) {
	query := `
		DELETE FROM loan_payments
		WHERE loan_id = $1 AND lower(status) IN ($2, $3)
	`

	res, err := tx.ExecContext(ctx, query, loanID,
		domain.InstallmentStatusPending, domain.InstallmentStatusOverdue)
	if err != nil {
		return 0, err
	}

	n, err := res.RowsAffected()
	return int(n), err
}

func (r *installmentRepository) MarkOverdueDue(ctx context.Context, scope Scope, now time.Time) (int, error) {
	args := []interface{}{domain.InstallmentStatusPending, now}
	query := `
		UPDATE loan_payments lp
		SET status = 'overdue', is_late = TRUE
		FROM loans l
		WHERE l.id = lp.loan_id
		  AND lower(lp.status) = $1
		  AND lp.due_date < $2
		  AND l.is_completed = FALSE
	` + scope.filter("l", &args)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}

	n, err := res.RowsAffected()
	return int(n), err
}

const paymentContextJoin = `
	FROM loan_payments lp
	JOIN loans l ON l.id = lp.loan_id
	JOIN clients c ON c.id = l.client_id
	JOIN products p ON p.id = l.product_id
`

func (r *installmentRepository) ListOverdue(ctx context.Context, scope Scope, now time.Time) ([]*domain.OverduePaymentView, error) {
	args := []interface{}{domain.InstallmentStatusOverdue, now}
	query := `
		SELECT lp.id AS payment_id, lp.loan_id, c.name AS client_name,
			c.phone AS client_phone, p.name AS product_name, lp.amount,
			lp.due_date, l.remaining_amount AS remaining_balance
	` + paymentContextJoin + `
		WHERE lower(lp.status) = $1
		  AND lp.due_date < $2
		  AND l.is_completed = FALSE
	` + scope.filter("l", &args) + `
		ORDER BY lp.due_date
	`

	views := []*domain.OverduePaymentView{}
	if err := r.db.SelectContext(ctx, &views, query, args...); err != nil {
		return nil, err
	}

	for _, v := range views {
		v.DaysOverdue = int(now.Sub(v.DueDate).Hours() / 24)
	}

	return views, nil
}

func (r *installmentRepository) ListUpcoming(ctx context.Context, scope Scope, from, to time.Time) ([]*domain.UpcomingPaymentView, error) {
	args := []interface{}{domain.InstallmentStatusPending, from, to}
	query := `
		SELECT lp.id AS payment_id, lp.loan_id, c.name AS client_name,
			c.phone AS client_phone, p.name AS product_name, lp.amount,
			lp.due_date, l.remaining_amount AS remaining_balance
	` + paymentContextJoin + `
		WHERE lower(lp.status) = $1
		  AND lp.due_date >= $2
		  AND lp.due_date <= $3
		  AND l.is_completed = FALSE
	` + scope.filter("l", &args) + `
		ORDER BY lp.due_date
	`

	views := []*domain.UpcomingPaymentView{}
	if err := r.db.SelectContext(ctx, &views, query, args...); err != nil {
		return nil, err
	}

	for _, v := range views {
		v.DaysUntilDue = int(v.DueDate.Sub(from).Hours() / 24)
	}

	return views, nil
}

func (r *installmentRepository) ListActive(ctx context.Context, scope Scope) ([]*domain.ActiveLoanView, error) {
	// One row per loan: its earliest open installment.
	args := []interface{}{domain.InstallmentStatusPending, domain.InstallmentStatusOverdue}
	query := `
		SELECT DISTINCT ON (lp.loan_id)
			lp.loan_id, c.name AS client_name, c.phone AS client_phone,
			p.name AS product_name, lp.amount AS next_payment_amount,
			lp.due_date AS next_payment_date,
			l.remaining_amount AS total_remaining
	` + paymentContextJoin + `
		WHERE lower(lp.status) IN ($1, $2)
		  AND l.is_completed = FALSE
	` + scope.filter("l", &args) + `
		ORDER BY lp.loan_id, lp.due_date
	`

	views := []*domain.ActiveLoanView{}
	if err := r.db.SelectContext(ctx, &views, query, args...); err != nil {
		return nil, err
	}

	today := time.Now()
	for _, v := range views {
		days := int(v.NextPaymentDate.Sub(today).Hours() / 24)
		v.IsOverdue = days < 0
		if v.IsOverdue {
			days = -days
		}
		v.DaysUntilDue = days
	}

	// Overdue loans first, then by urgency.
	sort.SliceStable(views, func(i, j int) bool {
		if views[i].IsOverdue != views[j].IsOverdue {
			return views[i].IsOverdue
		}
		return views[i].DaysUntilDue < views[j].DaysUntilDue
	})

	return views, nil
}
