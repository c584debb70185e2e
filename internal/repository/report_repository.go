package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/nasiyabro/nasiya-backend/internal/domain"
)

// ReportRepository computes the dashboard aggregates.
type ReportRepository interface {
	Dashboard(ctx context.Context, scope Scope) (*domain.DashboardReport, error)
}

type reportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) ReportRepository {
	return &reportRepository{db: db}
}

// Dashboard fills the report with three scoped aggregate queries; each scan
// targets the subset of report columns its query returns.
func (r *reportRepository) Dashboard(ctx context.Context, scope Scope) (*domain.DashboardReport, error) {
	var report domain.DashboardReport

	var args []interface{}
	salesQuery := `
		SELECT COUNT(*) AS sales_count,
			COALESCE(SUM(s.sale_price), 0) AS sales_total
		FROM sales s
		WHERE 1 = 1` + scope.filter("s", &args)
	if err := r.db.GetContext(ctx, &report, salesQuery, args...); err != nil {
		return nil, err
	}

	args = nil
	loansQuery := `
		SELECT COUNT(*) FILTER (WHERE NOT l.is_completed) AS active_loans_count,
			COUNT(*) FILTER (WHERE l.is_completed) AS completed_loans,
			COALESCE(SUM(l.loan_price), 0) AS loans_total,
			COALESCE(SUM(l.remaining_amount) FILTER (WHERE NOT l.is_completed), 0) AS outstanding_total
		FROM loans l
		WHERE 1 = 1` + scope.filter("l", &args)
	if err := r.db.GetContext(ctx, &report, loansQuery, args...); err != nil {
		return nil, err
	}

	args = []interface{}{domain.InstallmentStatusPaid, domain.InstallmentStatusOverdue}
	paymentsQuery := `
		SELECT COUNT(*) FILTER (WHERE lower(lp.status) = $1) AS payments_count,
			COALESCE(SUM(lp.amount) FILTER (WHERE lower(lp.status) = $1), 0) AS payments_total,
			COUNT(*) FILTER (WHERE lower(lp.status) = $2) AS overdue_count
		FROM loan_payments lp
		JOIN loans l ON l.id = lp.loan_id
		WHERE 1 = 1` + scope.filter("l", &args)
	if err := r.db.GetContext(ctx, &report, paymentsQuery, args...); err != nil {
		return nil, err
	}

	return &report, nil
}
