package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"corpsite/internal/service"
	"corpsite/pkg/cloudinary"
)

const maxUploadBytes = 10 << 20

type UploadHandler struct {
	svc *service.UploadService
}

func NewUploadHandler(svc *service.UploadService) *UploadHandler {
	return &UploadHandler{svc: svc}
}

// UploadImage handles POST /admin/uploads/image (multipart: file, folder,
// optional x, y, width, height crop).
func (h *UploadHandler) UploadImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
	file, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("file exceeds %d MB", maxUploadBytes>>20)})
			return
		}
		badRequest(c, "file required")
		return
	}
	var crop *cloudinary.Crop
	if c.PostForm("width") != "" || c.PostForm("height") != "" {
		crop = &cloudinary.Crop{}
		if err := c.ShouldBind(crop); err != nil {
			respondError(c, &service.ValidationError{Fields: map[string]string{"crop": "is invalid"}})
			return
		}
	}

	f, err := file.Open()
	if err != nil {
		badRequest(c, "could not read file")
		return
	}
	defer f.Close()

	res, err := h.svc.UploadImage(c.Request.Context(), f, c.PostForm("folder"), crop)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// DeleteImage handles DELETE /admin/uploads/image with {"url": ...}.
func (h *UploadHandler) DeleteImage(c *gin.Context) {
	var req struct {
		URL string `json:"url"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if err := h.svc.DeleteImage(c.Request.Context(), req.URL); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
