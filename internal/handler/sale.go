package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/nasiyabro/nasiya-backend/internal/domain"
	"github.com/nasiyabro/nasiya-backend/internal/middleware"
	"github.com/nasiyabro/nasiya-backend/pkg/response"
)

type SaleService interface {
	Create(ctx context.Context, actor domain.Actor, request *domain.CreateSaleRequest) (*domain.Sale, error)
	List(ctx context.Context, actor domain.Actor, filter domain.SaleFilter) ([]*domain.SaleView, error)
	RecentActivity(ctx context.Context, actor domain.Actor, limit int) ([]*domain.LedgerEntryView, error)
}

type SaleHandler struct {
	service   SaleService
	cache     CacheInvalidator
	validator *validator.Validate
}

func NewSaleHandler(service SaleService, cache CacheInvalidator) *SaleHandler {
	return &SaleHandler{
		service:   service,
		cache:     cache,
		validator: validator.New(),
	}
}

func (h *SaleHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	var req domain.CreateSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "invalid sale request", err)
		return
	}

	sale, err := h.service.Create(r.Context(), actor, &req)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	h.cache.Invalidate(r.Context(), actor.MagazineID)
	response.Created(w, sale)
}

func (h *SaleHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	filter := domain.SaleFilter{
		Search: r.URL.Query().Get("search"),
		Limit:  queryInt(r, "limit", 20),
		Offset: queryInt(r, "offset", 0),
	}
	if from := r.URL.Query().Get("date_from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			response.BadRequest(w, "invalid date_from, expected YYYY-MM-DD", err)
			return
		}
		filter.DateFrom = &t
	}
	if to := r.URL.Query().Get("date_to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			response.BadRequest(w, "invalid date_to, expected YYYY-MM-DD", err)
			return
		}
		filter.DateTo = &t
	}

	sales, err := h.service.List(r.Context(), actor, filter)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, sales)
}

func (h *SaleHandler) RecentActivity(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	entries, err := h.service.RecentActivity(r.Context(), actor, queryInt(r, "limit", 20))
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, entries)
}
