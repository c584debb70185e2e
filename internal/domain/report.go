package domain

import "github.com/shopspring/decimal"

// DashboardReport holds the aggregate sums shown on the dashboard, computed
// within the actor's scope.
type DashboardReport struct {
	SalesCount        int             `json:"sales_count" db:"sales_count"`
	SalesTotal        decimal.Decimal `json:"sales_total" db:"sales_total"`
	ActiveLoansCount  int             `json:"active_loans_count" db:"active_loans_count"`
	LoansTotal        decimal.Decimal `json:"loans_total" db:"loans_total"`
	OutstandingTotal  decimal.Decimal `json:"outstanding_total" db:"outstanding_total"`
	PaymentsCount     int             `json:"payments_count" db:"payments_count"`
	PaymentsTotal     decimal.Decimal `json:"payments_total" db:"payments_total"`
	OverdueCount      int             `json:"overdue_count" db:"overdue_count"`
	CompletedLoans    int             `json:"completed_loans" db:"completed_loans"`
}
