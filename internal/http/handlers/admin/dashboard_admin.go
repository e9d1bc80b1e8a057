package admin

import (
	"github.com/stagelight/boxoffice/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetDashboardStats returns the overview counters.
func (h *Handler) GetDashboardStats(c *gin.Context) {
	stats, err := h.DashboardService.GetStats()
	if err != nil {
		respondError(c, response.CodeInternal, "dashboard fetch failed", err)
		return
	}
	response.Success(c, stats)
}
