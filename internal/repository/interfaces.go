package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/nasiyabro/nasiya-backend/internal/domain"
)

// TxRunner executes a function inside one database transaction. Methods that
// take a sqlx.ExtContext participate in whatever transaction the caller is
// running; passing the bare DB runs them standalone.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error
}

// LoanRepository defines the interface for loan data operations
type LoanRepository interface {
	Create(ctx context.Context, q sqlx.ExtContext, loan *domain.Loan) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error)

	// GetByIDForUpdate locks the loan row for the duration of the transaction.
	GetByIDForUpdate(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*domain.Loan, error)

	// UpdateBalance persists a new remaining amount and completion flag.
	UpdateBalance(ctx context.Context, q sqlx.ExtContext, id uuid.UUID, remaining decimal.Decimal, completed bool) error

	GetView(ctx context.Context, scope Scope, id uuid.UUID) (*domain.LoanView, error)
	ListViews(ctx context.Context, scope Scope, limit, offset int) ([]*domain.LoanView, error)

	CreateAttachments(ctx context.Context, q sqlx.ExtContext, attachments []*domain.LoanAttachment) error
	ListAttachments(ctx context.Context, loanID uuid.UUID) ([]*domain.LoanAttachment, error)
}

// InstallmentRepository defines the interface for payment installment operations
type InstallmentRepository interface {
	BulkCreate(ctx context.Context, q sqlx.ExtContext, installments []*domain.Installment) error
	Create(ctx context.Context, q sqlx.ExtContext, installment *domain.Installment) error
	ListByLoan(ctx context.Context, loanID uuid.UUID) ([]*domain.Installment, error)

	// GetByIDForUpdate locks the installment row; status checks must happen
	// after this lock is held, not before.
	GetByIDForUpdate(ctx context.Context, tx *sqlx.Tx, id, loanID uuid.UUID) (*domain.Installment, error)

	MarkPaid(ctx context.Context, q sqlx.ExtContext, id uuid.UUID, amount decimal.Decimal, paymentDate time.Time) error

	// DeleteOpenByLoan removes every pending/overdue installment of a loan
	// and returns how many rows went away.
	DeleteOpenByLoan(ctx context.Context, tx *sqlx.Tx, loanID uuid.UUID) (int, error)

	// MarkOverdueDue flips pending installments past due to overdue for
	// uncompleted loans within scope. Single statement, idempotent.
	MarkOverdueDue(ctx context.Context, scope Scope, now time.Time) (int, error)

	ListOverdue(ctx context.Context, scope Scope, now time.Time) ([]*domain.OverduePaymentView, error)
	ListUpcoming(ctx context.Context, scope Scope, from, to time.Time) ([]*domain.UpcomingPaymentView, error)
	ListActive(ctx context.Context, scope Scope) ([]*domain.ActiveLoanView, error)
}

// ProductRepository defines the interface for inventory operations
type ProductRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)

	// DecrementStock conditionally takes one unit off the shelf. Returns
	// false when no stock was available; the decrement and the check are a
	// single statement so concurrent buyers cannot drive count negative.
	DecrementStock(ctx context.Context, q sqlx.ExtContext, id uuid.UUID) (bool, error)
}

// ClientRepository defines the interface for client lookups
type ClientRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error)
}

// SaleRepository defines the interface for direct sales
type SaleRepository interface {
	Create(ctx context.Context, q sqlx.ExtContext, sale *domain.Sale) error
	ListViews(ctx context.Context, scope Scope, filter domain.SaleFilter) ([]*domain.SaleView, error)
}

// LedgerRepository records audit entries for every money movement
type LedgerRepository interface {
	Create(ctx context.Context, q sqlx.ExtContext, entry *domain.LedgerEntry) error
	ListRecent(ctx context.Context, scope Scope, limit int) ([]*domain.LedgerEntryView, error)
}

// UserRepository covers the tenancy data the core needs: actors, magazines
// and the subscription sweeps.
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetMagazine(ctx context.Context, id uuid.UUID) (*domain.Magazine, error)
	DeactivateExpiredUsers(ctx context.Context, now time.Time) (int, error)
	DeactivateExpiredMagazines(ctx context.Context, now time.Time) (int, error)
}
