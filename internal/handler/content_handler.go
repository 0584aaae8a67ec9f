package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"corpsite/internal/service"
)

// ContentService is the admin surface every translatable entity offers.
type ContentService[M, I any] interface {
	Create(ctx context.Context, in I) (*M, error)
	Update(ctx context.Context, id uint, in I) (*M, error)
	Delete(ctx context.Context, id uint) error
	Get(ctx context.Context, id uint) (*M, error)
	List(ctx context.Context, p service.ListParams) (service.Page[M], error)
	Reorder(ctx context.Context, ids []uint) error
}

// ContentHandler exposes CRUD and reorder for one entity under /admin.
type ContentHandler[M, I any] struct {
	svc ContentService[M, I]
}

func NewContentHandler[M, I any](svc ContentService[M, I]) *ContentHandler[M, I] {
	return &ContentHandler[M, I]{svc: svc}
}

func (h *ContentHandler[M, I]) List(c *gin.Context) {
	page, limit := parsePagination(c)
	res, err := h.svc.List(c.Request.Context(), service.ListParams{
		Search: c.Query("search"),
		Active: parseBool(c, "active"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *ContentHandler[M, I]) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	m, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *ContentHandler[M, I]) Create(c *gin.Context) {
	var in I
	if !bindJSON(c, &in) {
		return
	}
	m, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (h *ContentHandler[M, I]) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var in I
	if !bindJSON(c, &in) {
		return
	}
	m, err := h.svc.Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *ContentHandler[M, I]) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Reorder takes the ids in their new display order.
func (h *ContentHandler[M, I]) Reorder(c *gin.Context) {
	var req struct {
		IDs []uint `json:"ids"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if len(req.IDs) == 0 {
		badRequest(c, "ids required")
		return
	}
	if err := h.svc.Reorder(c.Request.Context(), req.IDs); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Register mounts the routes on g.
func (h *ContentHandler[M, I]) Register(g gin.IRoutes) {
	g.GET("", h.List)
	g.POST("", h.Create)
	g.PUT("/reorder", h.Reorder)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}
