package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/nasiyabro/nasiya-backend/internal/domain"
	"github.com/nasiyabro/nasiya-backend/internal/repository"
)

// stubTxRunner runs the closure without a real transaction; the mocks below
// ignore their executor argument.
type stubTxRunner struct{}

func (stubTxRunner) WithinTx(_ context.Context, fn func(tx *sqlx.Tx) error) error {
	return fn(nil)
}

type mockLoanRepo struct{ mock.Mock }

func (m *mockLoanRepo) Create(ctx context.Context, q sqlx.ExtContext, loan *domain.Loan) error {
	return m.Called(ctx, q, loan).Error(0)
}

func (m *mockLoanRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *mockLoanRepo) GetByIDForUpdate(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*domain.Loan, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *mockLoanRepo) UpdateBalance(ctx context.Context, q sqlx.ExtContext, id uuid.UUID, remaining decimal.Decimal, completed bool) error {
	return m.Called(ctx, q, id, remaining, completed).Error(0)
}

func (m *mockLoanRepo) GetView(ctx context.Context, scope repository.Scope, id uuid.UUID) (*domain.LoanView, error) {
	args := m.Called(ctx, scope, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanView), args.Error(1)
}

func (m *mockLoanRepo) ListViews(ctx context.Context, scope repository.Scope, limit, offset int) ([]*domain.LoanView, error) {
	args := m.Called(ctx, scope, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.LoanView), args.Error(1)
}

func (m *mockLoanRepo) CreateAttachments(ctx context.Context, q sqlx.ExtContext, attachments []*domain.LoanAttachment) error {
	return m.Called(ctx, q, attachments).Error(0)
}

func (m *mockLoanRepo) ListAttachments(ctx context.Context, loanID uuid.UUID) ([]*domain.LoanAttachment, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.LoanAttachment), args.Error(1)
}

type mockInstallmentRepo struct{ mock.Mock }

func (m *mockInstallmentRepo) BulkCreate(ctx context.Context, q sqlx.ExtContext, installments []*domain.Installment) error {
	return m.Called(ctx, q, installments).Error(0)
}

func (m *mockInstallmentRepo) Create(ctx context.Context, q sqlx.ExtContext, installment *domain.Installment) error {
	return m.Called(ctx, q, installment).Error(0)
}

func (m *mockInstallmentRepo) ListByLoan(ctx context.Context, loanID uuid.UUID) ([]*domain.Installment, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Installment), args.Error(1)
}

func (m *mockInstallmentRepo) GetByIDForUpdate(ctx context.Context, tx *sqlx.Tx, id, loanID uuid.UUID) (*domain.Installment, error) {
	args := m.Called(ctx, tx, id, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Installment), args.Error(1)
}

func (m *mockInstallmentRepo) MarkPaid(ctx context.Context, q sqlx.ExtContext, id uuid.UUID, amount decimal.Decimal, paymentDate time.Time) error {
	return m.Called(ctx, q, id, amount, paymentDate).Error(0)
}

func (m *mockInstallmentRepo) DeleteOpenByLoan(ctx context.Context, tx *sqlx.Tx, loanID uuid.UUID) (int, error) {
	args := m.Called(ctx, tx, loanID)
	return args.Int(0), args.Error(1)
}

func (m *mockInstallmentRepo) MarkOverdueDue(ctx context.Context, scope repository.Scope, now time.Time) (int, error) {
	args := m.Called(ctx, scope, now)
	return args.Int(0), args.Error(1)
}

func (m *mockInstallmentRepo) ListOverdue(ctx context.Context, scope repository.Scope, now time.Time) ([]*domain.OverduePaymentView, error) {
	args := m.Called(ctx, scope, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.OverduePaymentView), args.Error(1)
}

func (m *mockInstallmentRepo) ListUpcoming(ctx context.Context, scope repository.Scope, from, to time.Time) ([]*domain.UpcomingPaymentView, error) {
	args := m.Called(ctx, scope, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.UpcomingPaymentView), args.Error(1)
}

func (m *mockInstallmentRepo) ListActive(ctx context.Context, scope repository.Scope) ([]*domain.ActiveLoanView, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ActiveLoanView), args.Error(1)
}

type mockProductRepo struct{ mock.Mock }

func (m *mockProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductRepo) DecrementStock(ctx context.Context, q sqlx.ExtContext, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, q, id)
	return args.Bool(0), args.Error(1)
}

type mockClientRepo struct{ mock.Mock }

func (m *mockClientRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

type mockSaleRepo struct{ mock.Mock }

func (m *mockSaleRepo) Create(ctx context.Context, q sqlx.ExtContext, sale *domain.Sale) error {
	return m.Called(ctx, q, sale).Error(0)
}

func (m *mockSaleRepo) ListViews(ctx context.Context, scope repository.Scope, filter domain.SaleFilter) ([]*domain.SaleView, error) {
	args := m.Called(ctx, scope, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.SaleView), args.Error(1)
}

type mockLedgerRepo struct{ mock.Mock }

func (m *mockLedgerRepo) Create(ctx context.Context, q sqlx.ExtContext, entry *domain.LedgerEntry) error {
	return m.Called(ctx, q, entry).Error(0)
}

func (m *mockLedgerRepo) ListRecent(ctx context.Context, scope repository.Scope, limit int) ([]*domain.LedgerEntryView, error) {
	args := m.Called(ctx, scope, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.LedgerEntryView), args.Error(1)
}

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetMagazine(ctx context.Context, id uuid.UUID) (*domain.Magazine, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Magazine), args.Error(1)
}

func (m *mockUserRepo) DeactivateExpiredUsers(ctx context.Context, now time.Time) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}

func (m *mockUserRepo) DeactivateExpiredMagazines(ctx context.Context, now time.Time) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}
