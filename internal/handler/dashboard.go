package handler

import (
	"log/slog"
	"net/http"

	"github.com/facturafacil/facturafacil/internal/auth"
	"github.com/facturafacil/facturafacil/internal/handler/dto"
	"github.com/facturafacil/facturafacil/internal/service"
)

// DashboardHandler serves the per-user summary.
type DashboardHandler struct {
	svc    *service.DashboardService
	logger *slog.Logger
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(svc *service.DashboardService, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{svc: svc, logger: logger}
}

// Summary handles GET /api/v1/dashboard.
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.Summary(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ToDashboardResponse(summary))
}
