package handler

import (
	"net/http"

	challengeDto "anoa.com/vxrank/internal/modules/challenge/dto"
	challenge "anoa.com/vxrank/internal/modules/challenge/service"
	verificationHandler "anoa.com/vxrank/internal/modules/verification/delivery/http"
	"anoa.com/vxrank/pkg/response"
	"anoa.com/vxrank/pkg/validator"
	"github.com/gin-gonic/gin"
)

type ChallengeHandler struct {
	service challenge.ChallengeService
}

func NewChallengeHandler(service challenge.ChallengeService) *ChallengeHandler {
	return &ChallengeHandler{service: service}
}

func (h *ChallengeHandler) GenerateChallenges(c *gin.Context) {
	username, err := response.GetUsername(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var input challengeDto.GenerateChallengesInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	res, err := h.service.GenerateChallenges(c.Request.Context(), username, input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *ChallengeHandler) CompleteChallenge(c *gin.Context) {
	username, err := response.GetUsername(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var input challengeDto.CompleteChallengeInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	video, closeFn, ok := verificationHandler.VideoFromForm(c)
	if !ok {
		return
	}
	defer closeFn()

	res, err := h.service.CompleteChallenge(c.Request.Context(), username, input, video)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}
