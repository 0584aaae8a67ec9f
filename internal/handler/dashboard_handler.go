package handler

import (
	"net/http"
	"slices"
	"strconv"

	"github.com/gin-gonic/gin"

	"corpsite/internal/domain"
	"corpsite/internal/service"
)

type DashboardHandler struct {
	svc *service.DashboardService
	pub *service.Publisher
}

func NewDashboardHandler(svc *service.DashboardService, pub *service.Publisher) *DashboardHandler {
	return &DashboardHandler{svc: svc, pub: pub}
}

// Stats handles GET /admin/dashboard.
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Analytics handles GET /admin/dashboard/analytics?days=30.
func (h *DashboardHandler) Analytics(c *gin.Context) {
	days, _ := strconv.Atoi(c.Query("days"))
	a, err := h.svc.Analytics(c.Request.Context(), days)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// AuditLog handles GET /admin/audit-logs.
func (h *DashboardHandler) AuditLog(c *gin.Context) {
	page, limit := parsePagination(c)
	userID, _ := strconv.ParseUint(c.Query("user_id"), 10, 64)
	res, err := h.svc.AuditLog(c.Request.Context(), service.AuditParams{
		Resource: c.Query("resource"),
		UserID:   uint(userID),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Revalidate handles POST /admin/revalidate; no tags drops every page.
func (h *DashboardHandler) Revalidate(c *gin.Context) {
	var req struct {
		Tags []string `json:"tags"`
	}
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}
	if len(req.Tags) == 0 {
		req.Tags = []string{domain.TagAll}
	}
	for _, t := range req.Tags {
		if !slices.Contains(domain.CacheTags, t) {
			respondError(c, &service.ValidationError{Fields: map[string]string{"tags": "unknown tag " + t}})
			return
		}
	}
	h.pub.Changed(c.Request.Context(), "cache", "revalidate", 0, req.Tags...)
	c.JSON(http.StatusOK, gin.H{"revalidated": req.Tags})
}
