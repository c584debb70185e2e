package handler

import (
	"context"
	"net/http"

	"github.com/nasiyabro/nasiya-backend/internal/domain"
	"github.com/nasiyabro/nasiya-backend/internal/middleware"
	"github.com/nasiyabro/nasiya-backend/pkg/response"
)

type ReportService interface {
	Dashboard(ctx context.Context, actor domain.Actor) (*domain.DashboardReport, error)
}

type ReportHandler struct {
	service ReportService
}

func NewReportHandler(service ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

func (h *ReportHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	report, err := h.service.Dashboard(r.Context(), actor)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, report)
}
