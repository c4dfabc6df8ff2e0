package handler

import (
	"net/http"

	clip "anoa.com/vxrank/internal/modules/clip/service"
	view "anoa.com/vxrank/internal/modules/view/service"
	"anoa.com/vxrank/pkg/response"
	"github.com/gin-gonic/gin"
)

type ClipHandler struct {
	service clip.ClipService
	views   view.ViewService
}

func NewClipHandler(service clip.ClipService, views view.ViewService) *ClipHandler {
	return &ClipHandler{service: service, views: views}
}

// ListClips returns the caller's clips, or only posted ones with ?posted=true.
func (h *ClipHandler) ListClips(c *gin.Context) {
	username, err := response.GetUsername(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	clips, err := h.service.ListClips(c.Request.Context(), username, c.Query("posted") == "true")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": clips, "total": len(clips)})
}

// ListRiderClips returns another rider's posted clips.
func (h *ClipHandler) ListRiderClips(c *gin.Context) {
	clips, err := h.service.ListClips(c.Request.Context(), c.Param("username"), true)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": clips, "total": len(clips)})
}

func (h *ClipHandler) PostClip(c *gin.Context) {
	username, err := response.GetUsername(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	posted, err := h.service.PostClip(c.Request.Context(), username, c.Param("id"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, posted)
}

// ViewClip records that the caller watched another rider's posted clip.
func (h *ClipHandler) ViewClip(c *gin.Context) {
	username, err := response.GetUsername(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.views.RecordView(c.Request.Context(), c.Param("username"), c.Param("id"), username); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
