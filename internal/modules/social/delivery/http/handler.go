package handler

import (
	"net/http"

	social "anoa.com/vxrank/internal/modules/social/service"
	"anoa.com/vxrank/pkg/response"
	"github.com/gin-gonic/gin"
)

type SocialHandler struct {
	service social.SocialService
}

func NewSocialHandler(service social.SocialService) *SocialHandler {
	return &SocialHandler{service: service}
}

func (h *SocialHandler) ToggleFollow(c *gin.Context) {
	username, err := response.GetUsername(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	target := c.Param("username")
	if target == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username is required"})
		return
	}

	result, err := h.service.ToggleFollow(c.Request.Context(), username, target)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
