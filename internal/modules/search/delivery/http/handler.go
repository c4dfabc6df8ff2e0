package handler

import (
	"net/http"

	search "anoa.com/vxrank/internal/modules/search/service"
	"anoa.com/vxrank/pkg/response"
	"github.com/gin-gonic/gin"
)

type SearchQuery struct {
	Q     string `form:"q" binding:"max=80"`
	Sport string `form:"sport"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=50"`
}

type SearchHandler struct {
	service search.TrickSearchService
}

func NewSearchHandler(service search.TrickSearchService) *SearchHandler {
	return &SearchHandler{service: service}
}

func (h *SearchHandler) SearchTricks(c *gin.Context) {
	var query SearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hits, err := h.service.SearchTricks(c.Request.Context(), query.Q, query.Sport, query.Limit)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": hits, "total": len(hits)})
}
