package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"corpsite/internal/middleware"
	"corpsite/internal/service"
)

type ContactHandler struct {
	svc *service.ContactService
}

func NewContactHandler(svc *service.ContactService) *ContactHandler {
	return &ContactHandler{svc: svc}
}

// Submit handles POST /api/v1/:locale/contact.
func (h *ContactHandler) Submit(c *gin.Context) {
	var in service.ContactInput
	if !bindJSON(c, &in) {
		return
	}
	m, err := h.svc.Submit(c.Request.Context(), middleware.GetLocale(c), in, visitor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": m.ID, "email_sent": m.EmailSent})
}

// List handles GET /admin/contact-messages.
func (h *ContactHandler) List(c *gin.Context) {
	page, limit := parsePagination(c)
	res, err := h.svc.List(c.Request.Context(), service.ContactListParams{
		Status: c.Query("status"),
		Search: c.Query("search"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *ContactHandler) Get(c *gin.Context) {
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

func (h *ContactHandler) SetStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if !bindJSON(c, &req) {
		return
	}
	m, err := h.svc.SetStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *ContactHandler) Delete(c *gin.Context) {
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
