package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/nasiyabro/nasiya-backend/internal/domain"
	"github.com/nasiyabro/nasiya-backend/internal/repository"
	"github.com/nasiyabro/nasiya-backend/pkg/calculator"
	customError "github.com/nasiyabro/nasiya-backend/pkg/errors"
)

var payoffTolerance = decimal.NewFromFloat(0.01)

// LoanService orchestrates the installment-loan lifecycle: creation with
// schedule generation and stock decrement, payment recording, full payoff
// and overdue sweeping. Every mutation runs in one transaction.
type LoanService struct {
	loans        repository.LoanRepository
	installments repository.InstallmentRepository
	products     repository.ProductRepository
	clients      repository.ClientRepository
	ledger       repository.LedgerRepository
	users        repository.UserRepository
	tx           repository.TxRunner
	log          *logrus.Logger
}

func NewLoanService(
	loans repository.LoanRepository,
	installments repository.InstallmentRepository,
	products repository.ProductRepository,
	clients repository.ClientRepository,
	ledger repository.LedgerRepository,
	users repository.UserRepository,
	tx repository.TxRunner,
	log *logrus.Logger,
) *LoanService {
	return &LoanService{
		loans:        loans,
		installments: installments,
		products:     products,
		clients:      clients,
		ledger:       ledger,
		users:        users,
		tx:           tx,
		log:          log,
	}
}

// scopeFor resolves the actor's visibility scope, consulting the magazine's
// business mode for non-admin actors.
func (s *LoanService) scopeFor(ctx context.Context, actor domain.Actor) (repository.Scope, error) {
	if actor.IsAdmin() {
		return repository.ScopeFor(actor, ""), nil
	}

	magazine, err := s.users.GetMagazine(ctx, actor.MagazineID)
	if err != nil {
		return repository.Scope{}, customError.WrapPersistence(err)
	}

	return repository.ScopeFor(actor, magazine.BusinessMode), nil
}

// CalculateSchedule quotes a schedule without persisting anything.
func (s *LoanService) CalculateSchedule(price, initialPayment decimal.Decimal, months int, rate decimal.Decimal) (*calculator.Quote, error) {
	return calculator.Calculate(price, initialPayment, months, rate)
}

// Create validates the request, generates the schedule and writes the loan,
// its installments, the stock decrement and the ledger entry atomically.
func (s *LoanService) Create(ctx context.Context, actor domain.Actor, request *domain.CreateLoanRequest) (*domain.CreateLoanResponse, error) {
	if actor.MagazineID == uuid.Nil {
		return nil, customError.WrapValidation("user must be assigned to a magazine to create loans")
	}

	product, err := s.products.GetByID(ctx, request.ProductID)
	if err != nil {
		return nil, notFoundOr(err, "product", request.ProductID)
	}

	// Sellers may only originate loans against their manager's warehouse,
	// managers against their own.
	if !actor.IsAdmin() && product.ManagerID != actor.WarehouseOwner() {
		return nil, customError.WrapForbidden("you can only create loans for products from your warehouse")
	}

	if product.Count <= 0 {
		return nil, customError.WrapOutOfStock(product.ID.String())
	}

	client, err := s.clients.GetByID(ctx, request.ClientID)
	if err != nil {
		return nil, notFoundOr(err, "client", request.ClientID)
	}

	quote, err := calculator.Calculate(request.LoanPrice, request.InitialPayment, request.LoanMonths, request.InterestRate)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	startDate := request.LoanStartDate
	if startDate.IsZero() {
		startDate = now
	}

	loan := &domain.Loan{
		ID:              uuid.New(),
		ProductID:       product.ID,
		ClientID:        client.ID,
		SellerID:        actor.UserID,
		MagazineID:      actor.MagazineID,
		LoanPrice:       request.LoanPrice,
		InitialPayment:  request.InitialPayment,
		RemainingAmount: quote.RemainingPrincipal,
		LoanMonths:      request.LoanMonths,
		InterestRate:    request.InterestRate,
		MonthlyPayment:  quote.MonthlyPayment,
		LoanStartDate:   startDate,
		IsCompleted:     false,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	// One installment per month, the same rounded amount each; due dates
	// advance by calendar months from the start date.
	schedule := make([]*domain.Installment, 0, request.LoanMonths)
	for k := 1; k <= request.LoanMonths; k++ {
		schedule = append(schedule, &domain.Installment{
			ID:        uuid.New(),
			LoanID:    loan.ID,
			Amount:    quote.MonthlyPayment,
			DueDate:   calculator.DueDate(startDate, k),
			Status:    domain.InstallmentStatusPending,
			CreatedAt: now,
		})
	}

	attachments := buildAttachments(loan.ID, request.VideoURL, request.AgreementImages, now)

	err = s.tx.WithinTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.loans.Create(ctx, tx, loan); err != nil {
			return customError.WrapPersistence(err)
		}

		if err := s.installments.BulkCreate(ctx, tx, schedule); err != nil {
			return customError.WrapPersistence(err)
		}

		ok, err := s.products.DecrementStock(ctx, tx, product.ID)
		if err != nil {
			return customError.WrapPersistence(err)
		}
		if !ok {
			// Someone else took the last unit since the pre-check.
			return customError.WrapOutOfStock(product.ID.String())
		}

		if len(attachments) > 0 {
			if err := s.loans.CreateAttachments(ctx, tx, attachments); err != nil {
				return customError.WrapPersistence(err)
			}
		}

		entry := &domain.LedgerEntry{
			ID:          uuid.New(),
			Type:        domain.LedgerTypeLoan,
			Amount:      loan.LoanPrice,
			Description: fmt.Sprintf("Loan created for %s - %s %s", client.Name, product.Name, product.Model),
			LoanID:      &loan.ID,
			ProductID:   &product.ID,
			ClientID:    &client.ID,
			SellerID:    actor.UserID,
			MagazineID:  actor.MagazineID,
			CreatedAt:   now,
		}
		if err := s.ledger.Create(ctx, tx, entry); err != nil {
			return customError.WrapPersistence(err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"loan_id":   loan.ID,
		"client_id": client.ID,
		"months":    loan.LoanMonths,
	}).Info("loan created")

	return &domain.CreateLoanResponse{Loan: loan, Schedule: schedule}, nil
}

// RecordPayment marks one installment as paid with the actual amount
// received, shrinks the loan balance and completes the loan when the
// balance reaches zero.
func (s *LoanService) RecordPayment(ctx context.Context, actor domain.Actor, loanID, installmentID uuid.UUID, request *domain.RecordPaymentRequest) (*domain.Installment, error) {
	if request.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, customError.WrapValidation("payment amount must be greater than 0")
	}

	paymentDate := time.Now()
	if request.PaymentDate != nil {
		paymentDate = *request.PaymentDate
	}

	var paid *domain.Installment
	err := s.tx.WithinTx(ctx, func(tx *sqlx.Tx) error {
		loan, err := s.loans.GetByIDForUpdate(ctx, tx, loanID)
		if err != nil {
			return notFoundOr(err, "loan", loanID)
		}

		if err := s.checkAccess(actor, loan.MagazineID); err != nil {
			return err
		}

		installment, err := s.installments.GetByIDForUpdate(ctx, tx, installmentID, loanID)
		if err != nil {
			return notFoundOr(err, "installment", installmentID)
		}

		// Re-checked under the row lock; a concurrent writer that won the
		// race has already flipped the status by the time we see it.
		if installment.Status == domain.InstallmentStatusPaid {
			return customError.WrapAlreadyPaid(installment.ID.String())
		}

		if err := s.installments.MarkPaid(ctx, tx, installment.ID, request.Amount, paymentDate); err != nil {
			return customError.WrapPersistence(err)
		}

		remaining := loan.RemainingAmount.Sub(request.Amount)
		if remaining.LessThanOrEqual(decimal.Zero) {
			remaining = decimal.Zero
		}
		completed := remaining.IsZero()

		if err := s.loans.UpdateBalance(ctx, tx, loan.ID, remaining, completed); err != nil {
			return customError.WrapPersistence(err)
		}

		entry := &domain.LedgerEntry{
			ID:            uuid.New(),
			Type:          domain.LedgerTypeLoanPayment,
			Amount:        request.Amount,
			Description:   fmt.Sprintf("Payment received for loan %s", loan.ID),
			LoanID:        &loan.ID,
			InstallmentID: &installment.ID,
			ClientID:      &loan.ClientID,
			SellerID:      actor.UserID,
			MagazineID:    loan.MagazineID,
			CreatedAt:     time.Now(),
		}
		if err := s.ledger.Create(ctx, tx, entry); err != nil {
			return customError.WrapPersistence(err)
		}

		installment.Amount = request.Amount
		installment.PaymentDate = &paymentDate
		installment.Status = domain.InstallmentStatusPaid
		paid = installment

		if completed {
			s.log.WithField("loan_id", loan.ID).Info("loan completed")
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return paid, nil
}

// PayFull settles the whole remaining balance in one payment: the open
// schedule is deleted and replaced with a single synthetic paid
// installment. The ledger entry written here is the only surviving summary
// of the deleted rows.
func (s *LoanService) PayFull(ctx context.Context, actor domain.Actor, loanID uuid.UUID, request *domain.PayFullRequest) (*domain.PayFullResponse, error) {
	if request.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, customError.WrapValidation("payment amount must be greater than 0")
	}

	paymentDate := time.Now()
	if request.PaymentDate != nil {
		paymentDate = *request.PaymentDate
	}

	var result *domain.PayFullResponse
	err := s.tx.WithinTx(ctx, func(tx *sqlx.Tx) error {
		loan, err := s.loans.GetByIDForUpdate(ctx, tx, loanID)
		if err != nil {
			return notFoundOr(err, "loan", loanID)
		}

		if err := s.checkAccess(actor, loan.MagazineID); err != nil {
			return err
		}

		if loan.IsCompleted {
			return customError.WrapLoanCompleted(loan.ID.String())
		}

		if request.Amount.Sub(loan.RemainingAmount).Abs().GreaterThan(payoffTolerance) {
			return customError.WrapConflict(fmt.Sprintf(
				"payment amount (%s) must match remaining balance (%s)",
				request.Amount, loan.RemainingAmount))
		}

		settled, err := s.installments.DeleteOpenByLoan(ctx, tx, loan.ID)
		if err != nil {
			return customError.WrapPersistence(err)
		}

		settlement := &domain.Installment{
			ID:            uuid.New(),
			LoanID:        loan.ID,
			Amount:        request.Amount,
			DueDate:       paymentDate,
			PaymentDate:   &paymentDate,
			Status:        domain.InstallmentStatusPaid,
			IsFullPayment: true,
			Notes:         "Full loan payment - loan completed in one payment",
			CreatedAt:     time.Now(),
		}
		if err := s.installments.Create(ctx, tx, settlement); err != nil {
			return customError.WrapPersistence(err)
		}

		if err := s.loans.UpdateBalance(ctx, tx, loan.ID, decimal.Zero, true); err != nil {
			return customError.WrapPersistence(err)
		}

		entry := &domain.LedgerEntry{
			ID:            uuid.New(),
			Type:          domain.LedgerTypeLoanPayment,
			Amount:        request.Amount,
			Description:   fmt.Sprintf("Full loan payment for loan %s (loan completed)", loan.ID),
			LoanID:        &loan.ID,
			InstallmentID: &settlement.ID,
			ClientID:      &loan.ClientID,
			SellerID:      actor.UserID,
			MagazineID:    loan.MagazineID,
			CreatedAt:     time.Now(),
		}
		if err := s.ledger.Create(ctx, tx, entry); err != nil {
			return customError.WrapPersistence(err)
		}

		result = &domain.PayFullResponse{
			LoanID:            loan.ID,
			AmountPaid:        request.Amount,
			PaymentsSettled:   settled,
			LoanCompleted:     true,
			SettlementPayment: settlement,
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"loan_id":          result.LoanID,
		"payments_settled": result.PaymentsSettled,
	}).Info("loan paid in full")

	return result, nil
}

// SweepOverdue flips due pending installments to overdue within the actor's
// scope. Safe to run repeatedly.
func (s *LoanService) SweepOverdue(ctx context.Context, actor domain.Actor) (int, error) {
	scope, err := s.scopeFor(ctx, actor)
	if err != nil {
		return 0, err
	}

	n, err := s.installments.MarkOverdueDue(ctx, scope, time.Now())
	if err != nil {
		return 0, customError.WrapPersistence(err)
	}

	if n > 0 {
		s.log.WithField("count", n).Info("installments marked overdue")
	}

	return n, nil
}

// ListOverdue sweeps lazily and returns the overdue installments with loan
// and client context.
func (s *LoanService) ListOverdue(ctx context.Context, actor domain.Actor) ([]*domain.OverduePaymentView, error) {
	if _, err := s.SweepOverdue(ctx, actor); err != nil {
		return nil, err
	}

	scope, err := s.scopeFor(ctx, actor)
	if err != nil {
		return nil, err
	}

	views, err := s.installments.ListOverdue(ctx, scope, time.Now())
	if err != nil {
		return nil, customError.WrapPersistence(err)
	}

	return views, nil
}

// ListUpcoming returns payments due within the next days.
func (s *LoanService) ListUpcoming(ctx context.Context, actor domain.Actor, days int) ([]*domain.UpcomingPaymentView, error) {
	if days <= 0 {
		days = 7
	}

	scope, err := s.scopeFor(ctx, actor)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	views, err := s.installments.ListUpcoming(ctx, scope, now, now.AddDate(0, 0, days))
	if err != nil {
		return nil, customError.WrapPersistence(err)
	}

	return views, nil
}

// ActiveLoans returns each uncompleted loan with its next open installment,
// overdue first.
func (s *LoanService) ActiveLoans(ctx context.Context, actor domain.Actor) ([]*domain.ActiveLoanView, error) {
	scope, err := s.scopeFor(ctx, actor)
	if err != nil {
		return nil, err
	}

	views, err := s.installments.ListActive(ctx, scope)
	if err != nil {
		return nil, customError.WrapPersistence(err)
	}

	return views, nil
}

// Get returns the joined loan detail with attachments.
func (s *LoanService) Get(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.LoanView, error) {
	scope, err := s.scopeFor(ctx, actor)
	if err != nil {
		return nil, err
	}

	view, err := s.loans.GetView(ctx, scope, id)
	if err != nil {
		return nil, notFoundOr(err, "loan", id)
	}

	attachments, err := s.loans.ListAttachments(ctx, id)
	if err == nil {
		for _, a := range attachments {
			switch a.Kind {
			case domain.AttachmentKindVideo:
				view.VideoURL = a.Path
			case domain.AttachmentKindAgreement:
				view.AgreementImages = append(view.AgreementImages, a.Path)
			}
		}
	}

	return view, nil
}

// List returns the scope-filtered loan listing.
func (s *LoanService) List(ctx context.Context, actor domain.Actor, page, limit int) ([]*domain.LoanView, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	scope, err := s.scopeFor(ctx, actor)
	if err != nil {
		return nil, err
	}

	views, err := s.loans.ListViews(ctx, scope, limit, (page-1)*limit)
	if err != nil {
		return nil, customError.WrapPersistence(err)
	}

	return views, nil
}

// Schedule returns the full installment schedule of a loan.
func (s *LoanService) Schedule(ctx context.Context, actor domain.Actor, loanID uuid.UUID) ([]*domain.Installment, error) {
	loan, err := s.loans.GetByID(ctx, loanID)
	if err != nil {
		return nil, notFoundOr(err, "loan", loanID)
	}

	if err := s.checkAccess(actor, loan.MagazineID); err != nil {
		return nil, err
	}

	installments, err := s.installments.ListByLoan(ctx, loanID)
	if err != nil {
		return nil, customError.WrapPersistence(err)
	}

	return installments, nil
}

func (s *LoanService) checkAccess(actor domain.Actor, magazineID uuid.UUID) error {
	if actor.IsAdmin() || actor.MagazineID == magazineID {
		return nil
	}
	return customError.WrapForbidden("you can only access loans from your magazine")
}

func buildAttachments(loanID uuid.UUID, videoURL string, agreementImages []string, now time.Time) []*domain.LoanAttachment {
	var attachments []*domain.LoanAttachment
	if videoURL != "" {
		attachments = append(attachments, &domain.LoanAttachment{
			ID:        uuid.New(),
			LoanID:    loanID,
			Kind:      domain.AttachmentKindVideo,
			Path:      videoURL,
			CreatedAt: now,
		})
	}
	for _, img := range agreementImages {
		if img == "" {
			continue
		}
		attachments = append(attachments, &domain.LoanAttachment{
			ID:        uuid.New(),
			LoanID:    loanID,
			Kind:      domain.AttachmentKindAgreement,
			Path:      img,
			CreatedAt: now,
		})
	}
	return attachments
}

func notFoundOr(err error, entity string, id uuid.UUID) error {
	if errors.Is(err, sql.ErrNoRows) {
		return customError.WrapNotFound(entity, id.String())
	}
	return customError.WrapPersistence(err)
}
