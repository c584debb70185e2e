package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/nasiyabro/nasiya-backend/internal/domain"
	"github.com/nasiyabro/nasiya-backend/internal/middleware"
	"github.com/nasiyabro/nasiya-backend/pkg/calculator"
	"github.com/nasiyabro/nasiya-backend/pkg/response"
)

// LoanService is the slice of the loan lifecycle the HTTP layer needs.
type LoanService interface {
	CalculateSchedule(price, initialPayment decimal.Decimal, months int, rate decimal.Decimal) (*calculator.Quote, error)
	Create(ctx context.Context, actor domain.Actor, request *domain.CreateLoanRequest) (*domain.CreateLoanResponse, error)
	Get(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.LoanView, error)
	List(ctx context.Context, actor domain.Actor, page, limit int) ([]*domain.LoanView, error)
	Schedule(ctx context.Context, actor domain.Actor, loanID uuid.UUID) ([]*domain.Installment, error)
	RecordPayment(ctx context.Context, actor domain.Actor, loanID, installmentID uuid.UUID, request *domain.RecordPaymentRequest) (*domain.Installment, error)
	PayFull(ctx context.Context, actor domain.Actor, loanID uuid.UUID, request *domain.PayFullRequest) (*domain.PayFullResponse, error)
	ListOverdue(ctx context.Context, actor domain.Actor) ([]*domain.OverduePaymentView, error)
	ListUpcoming(ctx context.Context, actor domain.Actor, days int) ([]*domain.UpcomingPaymentView, error)
	ActiveLoans(ctx context.Context, actor domain.Actor) ([]*domain.ActiveLoanView, error)
}

// CacheInvalidator drops cached aggregates after a write.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, magazineID uuid.UUID)
}

type LoanHandler struct {
	service   LoanService
	cache     CacheInvalidator
	validator *validator.Validate
}

func NewLoanHandler(service LoanService, cache CacheInvalidator) *LoanHandler {
	return &LoanHandler{
		service:   service,
		cache:     cache,
		validator: validator.New(),
	}
}

type calculateRequest struct {
	LoanPrice      decimal.Decimal `json:"loan_price"`
	InitialPayment decimal.Decimal `json:"initial_payment"`
	LoanMonths     int             `json:"loan_months"`
	InterestRate   decimal.Decimal `json:"interest_rate"`
}

// Calculate quotes a schedule without creating anything.
func (h *LoanHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req calculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	quote, err := h.service.CalculateSchedule(req.LoanPrice, req.InitialPayment, req.LoanMonths, req.InterestRate)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, quote)
}

func (h *LoanHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	var req domain.CreateLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "invalid loan request", err)
		return
	}

	result, err := h.service.Create(r.Context(), actor, &req)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	h.cache.Invalidate(r.Context(), actor.MagazineID)
	response.Created(w, result)
}

func (h *LoanHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["loanId"])
	if err != nil {
		response.BadRequest(w, "invalid loan id", err)
		return
	}

	view, err := h.service.Get(r.Context(), actor, id)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, view)
}

func (h *LoanHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 10)

	views, err := h.service.List(r.Context(), actor, page, limit)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, views)
}

func (h *LoanHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["loanId"])
	if err != nil {
		response.BadRequest(w, "invalid loan id", err)
		return
	}

	installments, err := h.service.Schedule(r.Context(), actor, id)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, installments)
}

func (h *LoanHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	vars := mux.Vars(r)
	loanID, err := uuid.Parse(vars["loanId"])
	if err != nil {
		response.BadRequest(w, "invalid loan id", err)
		return
	}
	installmentID, err := uuid.Parse(vars["paymentId"])
	if err != nil {
		response.BadRequest(w, "invalid payment id", err)
		return
	}

	var req domain.RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	installment, err := h.service.RecordPayment(r.Context(), actor, loanID, installmentID, &req)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	h.cache.Invalidate(r.Context(), actor.MagazineID)
	response.Success(w, installment)
}

func (h *LoanHandler) PayFull(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	loanID, err := uuid.Parse(mux.Vars(r)["loanId"])
	if err != nil {
		response.BadRequest(w, "invalid loan id", err)
		return
	}

	var req domain.PayFullRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	result, err := h.service.PayFull(r.Context(), actor, loanID, &req)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	h.cache.Invalidate(r.Context(), actor.MagazineID)
	response.Success(w, result)
}

func (h *LoanHandler) ListOverdue(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	views, err := h.service.ListOverdue(r.Context(), actor)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, views)
}

func (h *LoanHandler) ListUpcoming(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	views, err := h.service.ListUpcoming(r.Context(), actor, queryInt(r, "days", 7))
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, views)
}

func (h *LoanHandler) ActiveLoans(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	views, err := h.service.ActiveLoans(r.Context(), actor)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, views)
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
