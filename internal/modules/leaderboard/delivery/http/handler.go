package http

import (
	"net/http"

	leaderboardDto "anoa.com/vxrank/internal/modules/leaderboard/dto"
	leaderboardService "anoa.com/vxrank/internal/modules/leaderboard/service"
	"anoa.com/vxrank/pkg/response"
	"anoa.com/vxrank/pkg/validator"
	"github.com/gin-gonic/gin"
)

type LeaderboardHandler struct {
	service leaderboardService.LeaderboardService
}

func NewLeaderboardHandler(service leaderboardService.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{service: service}
}

// GetLeaderboard serves ?sport=&metric=&limit=. The challenge board is the
// default metric.
func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	var query leaderboardDto.LeaderboardQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}
	if query.Metric == "" {
		query.Metric = leaderboardDto.MetricTrickPoints
	}

	leaderboard, err := h.service.GetLeaderboard(c.Request.Context(), query)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": leaderboard, "metric": query.Metric})
}
