package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"corpsite/internal/models"
	"corpsite/internal/service"
)

type MediaHandler struct {
	*ContentHandler[models.YoutubeMedia, service.MediaInput]
	svc *service.MediaService
}

func NewMediaHandler(svc *service.MediaService) *MediaHandler {
	return &MediaHandler{ContentHandler: NewContentHandler[models.YoutubeMedia, service.MediaInput](svc), svc: svc}
}

// Preview handles GET /admin/media/preview?url=.
func (h *MediaHandler) Preview(c *gin.Context) {
	v, err := h.svc.Preview(c.Request.Context(), c.Query("url"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *MediaHandler) Register(g gin.IRoutes) {
	g.GET("/preview", h.Preview)
	h.ContentHandler.Register(g)
}
