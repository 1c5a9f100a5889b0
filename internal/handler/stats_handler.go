package handler

import (
	"github.com/gin-gonic/gin"

	"taxpoint/internal/service"
)

// StatsHandler handles aggregate statistics endpoints.
type StatsHandler struct {
	statsService service.StatsService
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(statsService service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// GetStats handles GET /api/v1/stats
// @Summary Get order statistics
// @Description Aggregate counts and sums across all orders
// @Tags stats
// @Produce json
// @Success 200 {object} Response{data=domain.Stats} "Statistics"
// @Router /stats [get]
func (h *StatsHandler) GetStats(c *gin.Context) {
	stats, err := h.statsService.GetStats(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, stats)
}
