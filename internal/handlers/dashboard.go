package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/reefdive/apiserver/internal/services"
	"github.com/reefdive/apiserver/internal/store"
	"go.uber.org/zap"
)

type DashboardHandler struct {
	dashboardService *services.DashboardService
	logger           *zap.Logger
}

// NewDashboardHandler creates a DashboardHandler.
func NewDashboardHandler(dashboardService *services.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService, logger: logger}
}

// DashboardRouter registers the dashboard routes on the given router.
func DashboardRouter(r chi.Router, h *DashboardHandler, authn *Authenticator) {
	r.With(authn.RequireAuth).Get("/dashboard/stats", h.Stats)
}

// Stats returns the caller's own figures, or school-wide figures for staff.
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	claim, ok := ClaimFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	dashboard, err := h.dashboardService.Get(r.Context(), claim)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		writeInternal(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}
