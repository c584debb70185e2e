package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nasiyabro/nasiya-backend/internal/domain"
	"github.com/nasiyabro/nasiya-backend/internal/middleware"
	"github.com/nasiyabro/nasiya-backend/pkg/calculator"
	customError "github.com/nasiyabro/nasiya-backend/pkg/errors"
)

type mockLoanService struct{ mock.Mock }

func (m *mockLoanService) CalculateSchedule(price, initialPayment decimal.Decimal, months int, rate decimal.Decimal) (*calculator.Quote, error) {
	args := m.Called(price, initialPayment, months, rate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*calculator.Quote), args.Error(1)
}

func (m *mockLoanService) Create(ctx context.Context, actor domain.Actor, request *domain.CreateLoanRequest) (*domain.CreateLoanResponse, error) {
	args := m.Called(ctx, actor, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CreateLoanResponse), args.Error(1)
}

func (m *mockLoanService) Get(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.LoanView, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanView), args.Error(1)
}

func (m *mockLoanService) List(ctx context.Context, actor domain.Actor, page, limit int) ([]*domain.LoanView, error) {
	args := m.Called(ctx, actor, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.LoanView), args.Error(1)
}

func (m *mockLoanService) Schedule(ctx context.Context, actor domain.Actor, loanID uuid.UUID) ([]*domain.Installment, error) {
	args := m.Called(ctx, actor, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Installment), args.Error(1)
}

func (m *mockLoanService) RecordPayment(ctx context.Context, actor domain.Actor, loanID, installmentID uuid.UUID, request *domain.RecordPaymentRequest) (*domain.Installment, error) {
	args := m.Called(ctx, actor, loanID, installmentID, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Installment), args.Error(1)
}

func (m *mockLoanService) PayFull(ctx context.Context, actor domain.Actor, loanID uuid.UUID, request *domain.PayFullRequest) (*domain.PayFullResponse, error) {
	args := m.Called(ctx, actor, loanID, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PayFullResponse), args.Error(1)
}

func (m *mockLoanService) ListOverdue(ctx context.Context, actor domain.Actor) ([]*domain.OverduePaymentView, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.OverduePaymentView), args.Error(1)
}

func (m *mockLoanService) ListUpcoming(ctx context.Context, actor domain.Actor, days int) ([]*domain.UpcomingPaymentView, error) {
	args := m.Called(ctx, actor, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.UpcomingPaymentView), args.Error(1)
}

func (m *mockLoanService) ActiveLoans(ctx context.Context, actor domain.Actor) ([]*domain.ActiveLoanView, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ActiveLoanView), args.Error(1)
}

type noopInvalidator struct{ calls int }

func (n *noopInvalidator) Invalidate(_ context.Context, _ uuid.UUID) { n.calls++ }

func testActor() domain.Actor {
	id := uuid.New()
	return domain.Actor{UserID: id, Role: domain.RoleManager, MagazineID: uuid.New(), ManagerID: id}
}

func doRequest(h http.HandlerFunc, method, target string, body []byte, actor *domain.Actor, vars map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if actor != nil {
		req = req.WithContext(middleware.WithActor(req.Context(), *actor))
	}
	if vars != nil {
		req = mux.SetURLVars(req, vars)
	}
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestLoanHandler_Calculate(t *testing.T) {
	service := &mockLoanService{}
	h := NewLoanHandler(service, &noopInvalidator{})

	quote := &calculator.Quote{
		RemainingPrincipal: decimal.NewFromInt(800),
		MonthlyPayment:     decimal.NewFromInt(80),
		TotalInterest:      decimal.Zero,
		TotalAmount:        decimal.NewFromInt(800),
	}
	service.On("CalculateSchedule", mock.Anything, mock.Anything, 10, mock.Anything).Return(quote, nil)

	body, _ := json.Marshal(map[string]interface{}{
		"loan_price":      "1000",
		"initial_payment": "200",
		"loan_months":     10,
		"interest_rate":   "0",
	})
	rec := doRequest(h.Calculate, http.MethodPost, "/api/v1/loans/calculate", body, nil, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	service.AssertExpectations(t)
}

func TestLoanHandler_Create(t *testing.T) {
	service := &mockLoanService{}
	cache := &noopInvalidator{}
	h := NewLoanHandler(service, cache)
	actor := testActor()

	productID := uuid.New()
	clientID := uuid.New()
	service.On("Create", mock.Anything, actor, mock.MatchedBy(func(req *domain.CreateLoanRequest) bool {
		return req.ProductID == productID && req.LoanMonths == 12
	})).Return(&domain.CreateLoanResponse{
		Loan:     &domain.Loan{ID: uuid.New()},
		Schedule: []*domain.Installment{},
	}, nil)

	body, _ := json.Marshal(map[string]interface{}{
		"product_id":      productID,
		"client_id":       clientID,
		"loan_price":      "12000",
		"initial_payment": "2000",
		"loan_months":     12,
		"interest_rate":   "12",
	})
	rec := doRequest(h.Create, http.MethodPost, "/api/v1/loans", body, &actor, nil)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, cache.calls)
	service.AssertExpectations(t)
}

func TestLoanHandler_Create_Unauthenticated(t *testing.T) {
	h := NewLoanHandler(&mockLoanService{}, &noopInvalidator{})

	rec := doRequest(h.Create, http.MethodPost, "/api/v1/loans", []byte(`{}`), nil, nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoanHandler_Create_MissingFields(t *testing.T) {
	h := NewLoanHandler(&mockLoanService{}, &noopInvalidator{})
	actor := testActor()

	rec := doRequest(h.Create, http.MethodPost, "/api/v1/loans", []byte(`{}`), &actor, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoanHandler_Get_NotFound(t *testing.T) {
	service := &mockLoanService{}
	h := NewLoanHandler(service, &noopInvalidator{})
	actor := testActor()

	loanID := uuid.New()
	service.On("Get", mock.Anything, actor, loanID).Return(nil, customError.WrapNotFound("loan", loanID.String()))

	rec := doRequest(h.Get, http.MethodGet, "/api/v1/loans/"+loanID.String(), nil, &actor, map[string]string{"loanId": loanID.String()})

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var resp struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, customError.ErrCodeNotFound, resp.Code)
}

func TestLoanHandler_Get_BadID(t *testing.T) {
	h := NewLoanHandler(&mockLoanService{}, &noopInvalidator{})
	actor := testActor()

	rec := doRequest(h.Get, http.MethodGet, "/api/v1/loans/not-a-uuid", nil, &actor, map[string]string{"loanId": "not-a-uuid"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoanHandler_RecordPayment_AlreadyPaid(t *testing.T) {
	service := &mockLoanService{}
	cache := &noopInvalidator{}
	h := NewLoanHandler(service, cache)
	actor := testActor()

	loanID := uuid.New()
	paymentID := uuid.New()
	service.On("RecordPayment", mock.Anything, actor, loanID, paymentID, mock.Anything).
		Return(nil, customError.WrapAlreadyPaid(paymentID.String()))

	body, _ := json.Marshal(map[string]interface{}{"amount": "80"})
	rec := doRequest(h.RecordPayment, http.MethodPost,
		"/api/v1/loans/"+loanID.String()+"/payments/"+paymentID.String(),
		body, &actor, map[string]string{"loanId": loanID.String(), "paymentId": paymentID.String()})

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, 0, cache.calls)
}

func TestLoanHandler_PayFull(t *testing.T) {
	service := &mockLoanService{}
	cache := &noopInvalidator{}
	h := NewLoanHandler(service, cache)
	actor := testActor()

	loanID := uuid.New()
	service.On("PayFull", mock.Anything, actor, loanID, mock.Anything).Return(&domain.PayFullResponse{
		LoanID:          loanID,
		AmountPaid:      decimal.NewFromInt(240),
		PaymentsSettled: 3,
		LoanCompleted:   true,
	}, nil)

	body, _ := json.Marshal(map[string]interface{}{"amount": "240"})
	rec := doRequest(h.PayFull, http.MethodPost, "/api/v1/loans/"+loanID.String()+"/pay-full",
		body, &actor, map[string]string{"loanId": loanID.String()})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, cache.calls)
	service.AssertExpectations(t)
}

func TestLoanHandler_ListUpcoming_DaysParam(t *testing.T) {
	service := &mockLoanService{}
	h := NewLoanHandler(service, &noopInvalidator{})
	actor := testActor()

	service.On("ListUpcoming", mock.Anything, actor, 14).Return([]*domain.UpcomingPaymentView{}, nil)

	rec := doRequest(h.ListUpcoming, http.MethodGet, "/api/v1/payments/upcoming?days=14", nil, &actor, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	service.AssertExpectations(t)
}
