package handler

import (
	"net/http"

	"anoa.com/vxrank/internal/entity"
	catalogService "anoa.com/vxrank/internal/modules/catalog/service"
	progressionDto "anoa.com/vxrank/internal/modules/progression/dto"
	progression "anoa.com/vxrank/internal/modules/progression/service"
	"anoa.com/vxrank/pkg/apperror"
	"anoa.com/vxrank/pkg/response"
	"anoa.com/vxrank/pkg/validator"
	"github.com/gin-gonic/gin"
)

type ProgressionHandler struct {
	service progression.ProgressionService
	catalog *catalogService.Catalog
}

func NewProgressionHandler(service progression.ProgressionService, catalog *catalogService.Catalog) *ProgressionHandler {
	return &ProgressionHandler{
		service: service,
		catalog: catalog,
	}
}

// ListTricks is public: the catalog for one sport, ladder order.
func (h *ProgressionHandler) ListTricks(c *gin.Context) {
	var query progressionDto.SportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.ResponseError(c, err)
		return
	}

	sport := entity.Sport(query.Sport)
	if !sport.Valid() {
		response.ResponseError(c, apperror.Invalid("sport query must be one of the supported sports"))
		return
	}

	tricks := h.catalog.Tricks(sport)
	c.JSON(http.StatusOK, gin.H{"sport": sport, "tricks": tricks, "total": len(tricks)})
}

func (h *ProgressionHandler) GetProgress(c *gin.Context) {
	username, err := response.GetUsername(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var query progressionDto.SportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.ResponseError(c, err)
		return
	}

	progress, err := h.service.GetProgress(c.Request.Context(), username, query.Sport)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, progress)
}

func (h *ProgressionHandler) LogManualTrick(c *gin.Context) {
	username, err := response.GetUsername(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var input progressionDto.LogTrickInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	result, err := h.service.LogManualTrick(c.Request.Context(), username, input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

func (h *ProgressionHandler) PromoteRank(c *gin.Context) {
	username, err := response.GetUsername(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var input progressionDto.PromoteRankInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	profile, err := h.service.PromoteRank(c.Request.Context(), username, input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *ProgressionHandler) CompleteSession(c *gin.Context) {
	username, err := response.GetUsername(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var input progressionDto.SessionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	profile, err := h.service.CompleteSession(c.Request.Context(), username, input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, profile)
}

func (h *ProgressionHandler) ResetProgress(c *gin.Context) {
	username, err := response.GetUsername(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var query progressionDto.SportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.ResponseError(c, err)
		return
	}

	profile, err := h.service.ResetProgress(c.Request.Context(), username, query.Sport)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *ProgressionHandler) DailyChallengeStatus(c *gin.Context) {
	username, err := response.GetUsername(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	status, err := h.service.DailyChallengeStatus(c.Request.Context(), username)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}
