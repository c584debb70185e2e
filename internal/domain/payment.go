package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Installment statuses. Stored lowercase; the repository normalizes any
// legacy casing on read.
const (
	InstallmentStatusPending = "pending"
	InstallmentStatusPaid    = "paid"
	InstallmentStatusOverdue = "overdue"
)

// Installment is one scheduled (or synthetic payoff) payment unit of a loan.
// Status only moves forward: pending -> paid/overdue, overdue -> paid.
type Installment struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	LoanID        uuid.UUID       `json:"loan_id" db:"loan_id"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	DueDate       time.Time       `json:"due_date" db:"due_date"`
	PaymentDate   *time.Time      `json:"payment_date" db:"payment_date"`
	Status        string          `json:"status" db:"status"`
	IsLate        bool            `json:"is_late" db:"is_late"`
	IsFullPayment bool            `json:"is_full_payment" db:"is_full_payment"`
	Notes         string          `json:"notes,omitempty" db:"notes"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}

type RecordPaymentRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate *time.Time      `json:"payment_date,omitempty"`
}

type PayFullRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate *time.Time      `json:"payment_date,omitempty"`
}

// OverduePaymentView is the sweep/list projection with loan and client context.
type OverduePaymentView struct {
	PaymentID        uuid.UUID       `json:"payment_id" db:"payment_id"`
	LoanID           uuid.UUID       `json:"loan_id" db:"loan_id"`
	ClientName       string          `json:"client_name" db:"client_name"`
	ClientPhone      string          `json:"client_phone" db:"client_phone"`
	ProductName      string          `json:"product_name" db:"product_name"`
	Amount           decimal.Decimal `json:"amount" db:"amount"`
	DueDate          time.Time       `json:"due_date" db:"due_date"`
	DaysOverdue      int             `json:"days_overdue" db:"-"`
	RemainingBalance decimal.Decimal `json:"remaining_balance" db:"remaining_balance"`
}

// UpcomingPaymentView lists payments due within a window.
type UpcomingPaymentView struct {
	PaymentID        uuid.UUID       `json:"payment_id" db:"payment_id"`
	LoanID           uuid.UUID       `json:"loan_id" db:"loan_id"`
	ClientName       string          `json:"client_name" db:"client_name"`
	ClientPhone      string          `json:"client_phone" db:"client_phone"`
	ProductName      string          `json:"product_name" db:"product_name"`
	Amount           decimal.Decimal `json:"amount" db:"amount"`
	DueDate          time.Time       `json:"due_date" db:"due_date"`
	DaysUntilDue     int             `json:"days_until_due" db:"-"`
	RemainingBalance decimal.Decimal `json:"remaining_balance" db:"remaining_balance"`
}

// ActiveLoanView is the homepage projection: each active loan with its next
// unpaid installment, overdue loans first.
type ActiveLoanView struct {
	LoanID            uuid.UUID       `json:"loan_id" db:"loan_id"`
	ClientName        string          `json:"client_name" db:"client_name"`
	ClientPhone       string          `json:"client_phone" db:"client_phone"`
	ProductName       string          `json:"product_name" db:"product_name"`
	NextPaymentAmount decimal.Decimal `json:"next_payment_amount" db:"next_payment_amount"`
	NextPaymentDate   time.Time       `json:"next_payment_date" db:"next_payment_date"`
	DaysUntilDue      int             `json:"days_until_due" db:"-"`
	IsOverdue         bool            `json:"is_overdue" db:"-"`
	TotalRemaining    decimal.Decimal `json:"total_remaining" db:"total_remaining"`
}
