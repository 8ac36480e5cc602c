package controllers

import (
	"handmade-store/models"
	"handmade-store/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type UploadController struct {
	uploads *services.UploadService
}

func NewUploadController(uploads *services.UploadService) *UploadController {
	return &UploadController{uploads: uploads}
}

// @Summary Upload product images
// @Description Upload one or more images to the media host and get their permanent URLs (Admin)
// @Tags Admin - Upload
// @Accept multipart/form-data
// @Produce json
// @Param images formData file true "Image files (repeat the field for several)"
// @Success 200 {object} models.UploadResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /upload [post]
func (ctrl *UploadController) UploadImages(c *gin.Context) {
	if !ctrl.uploads.Configured() {
		respondServiceError(c, services.ErrMediaNotConfigured, "Upload failed")
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		respondError(c, http.StatusBadRequest, "No files uploaded")
		return
	}
	defer form.RemoveAll()

	urls, err := ctrl.uploads.UploadImages(c.Request.Context(), form.File["images"])
	if err != nil {
		respondServiceError(c, err, "Upload failed")
		return
	}

	c.JSON(http.StatusOK, models.UploadResponse{URLs: urls})
}
