package handler

import (
	"net/http"

	verificationDto "anoa.com/vxrank/internal/modules/verification/dto"
	verification "anoa.com/vxrank/internal/modules/verification/service"
	commonDto "anoa.com/vxrank/pkg/dto"
	"anoa.com/vxrank/pkg/response"
	"anoa.com/vxrank/pkg/validator"
	"github.com/gin-gonic/gin"
)

type VerificationHandler struct {
	service verification.VerificationService
}

func NewVerificationHandler(service verification.VerificationService) *VerificationHandler {
	return &VerificationHandler{service: service}
}

func (h *VerificationHandler) VerifyTrick(c *gin.Context) {
	username, err := response.GetUsername(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var input verificationDto.VerifyTrickInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	video, closeFn, ok := VideoFromForm(c)
	if !ok {
		return
	}
	defer closeFn()

	res, err := h.service.VerifyTrick(c.Request.Context(), username, input, video)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *VerificationHandler) ConfirmTrick(c *gin.Context) {
	username, err := response.GetUsername(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var input verificationDto.ConfirmTrickInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	res, err := h.service.ConfirmTrick(c.Request.Context(), username, input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

// VideoFromForm opens the "video" multipart file. On failure it has already
// written the response.
func VideoFromForm(c *gin.Context) (commonDto.UploadFile, func(), bool) {
	fileHeader, err := c.FormFile("video")
	if err != nil || fileHeader == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "video is required"})
		return commonDto.UploadFile{}, nil, false
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read video"})
		return commonDto.UploadFile{}, nil, false
	}

	return commonDto.UploadFile{
		Reader:      file,
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
	}, func() { file.Close() }, true
}
