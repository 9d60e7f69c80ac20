package handlers

import (
	"net/http"

	"github.com/oficinapro/workshop/internal/httpx"
	"github.com/oficinapro/workshop/internal/services"
)

type DashboardHandler struct {
	Stats *services.StatsService
}

func NewDashboardHandler(stats *services.StatsService) *DashboardHandler {
	return &DashboardHandler{Stats: stats}
}

func (h *DashboardHandler) Show(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Stats.Dashboard(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_compute_stats", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, stats)
}
