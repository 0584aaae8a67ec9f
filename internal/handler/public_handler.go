package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"corpsite/internal/domain"
	"corpsite/internal/middleware"
	"corpsite/internal/service"
)

// PublicHandler serves the localized public site under /api/v1/:locale.
type PublicHandler struct {
	svc      *service.PublicService
	settings *service.SettingsService
	cache    *PageCache
}

func NewPublicHandler(svc *service.PublicService, settings *service.SettingsService, pc *PageCache) *PublicHandler {
	return &PublicHandler{svc: svc, settings: settings, cache: pc}
}

func (h *PublicHandler) Home(c *gin.Context) {
	loc := middleware.GetLocale(c)
	h.cache.serve(c, func() (any, error) {
		return h.svc.Home(c.Request.Context(), loc)
	}, domain.TagHome, domain.TagSliders, domain.TagServices, domain.TagStatistics, domain.TagTestimonials,
		domain.TagBlogs, domain.TagEmployees, domain.TagMedia, domain.TagBranches, domain.TagSettings)
}

func (h *PublicHandler) Blogs(c *gin.Context) {
	loc := middleware.GetLocale(c)
	page, limit := parsePagination(c)
	h.cache.serve(c, func() (any, error) {
		return h.svc.Blogs(c.Request.Context(), loc, page, limit)
	}, domain.TagBlogs)
}

// Blog is not cached: every fetch counts a view.
func (h *PublicHandler) Blog(c *gin.Context) {
	v := visitor(c)
	d, err := h.svc.Blog(c.Request.Context(), middleware.GetLocale(c), c.Param("slug"), &v)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *PublicHandler) RelatedBlogs(c *gin.Context) {
	loc, slug := middleware.GetLocale(c), c.Param("slug")
	h.cache.serve(c, func() (any, error) {
		return h.svc.RelatedBlogs(c.Request.Context(), loc, slug)
	}, domain.TagBlogs)
}

func (h *PublicHandler) RecordView(c *gin.Context) {
	res, err := h.svc.RecordView(c.Request.Context(), middleware.GetLocale(c), c.Param("slug"), visitor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *PublicHandler) Services(c *gin.Context) {
	loc := middleware.GetLocale(c)
	h.cache.serve(c, func() (any, error) {
		return h.svc.Services(c.Request.Context(), loc)
	}, domain.TagServices)
}

func (h *PublicHandler) Service(c *gin.Context) {
	loc, slug := middleware.GetLocale(c), c.Param("slug")
	h.cache.serve(c, func() (any, error) {
		return h.svc.Service(c.Request.Context(), loc, slug)
	}, domain.TagServices)
}

func (h *PublicHandler) Employees(c *gin.Context) {
	loc := middleware.GetLocale(c)
	h.cache.serve(c, func() (any, error) {
		return h.svc.Employees(c.Request.Context(), loc)
	}, domain.TagEmployees)
}

func (h *PublicHandler) Testimonials(c *gin.Context) {
	loc := middleware.GetLocale(c)
	h.cache.serve(c, func() (any, error) {
		return h.svc.Testimonials(c.Request.Context(), loc)
	}, domain.TagTestimonials)
}

func (h *PublicHandler) Branches(c *gin.Context) {
	loc := middleware.GetLocale(c)
	h.cache.serve(c, func() (any, error) {
		return h.svc.Branches(c.Request.Context(), loc)
	}, domain.TagBranches)
}

func (h *PublicHandler) Sliders(c *gin.Context) {
	loc := middleware.GetLocale(c)
	h.cache.serve(c, func() (any, error) {
		return h.svc.Sliders(c.Request.Context(), loc)
	}, domain.TagSliders)
}

func (h *PublicHandler) Statistics(c *gin.Context) {
	loc := middleware.GetLocale(c)
	h.cache.serve(c, func() (any, error) {
		return h.svc.Statistics(c.Request.Context(), loc)
	}, domain.TagStatistics)
}

func (h *PublicHandler) Media(c *gin.Context) {
	loc := middleware.GetLocale(c)
	h.cache.serve(c, func() (any, error) {
		return h.svc.Media(c.Request.Context(), loc)
	}, domain.TagMedia)
}

func (h *PublicHandler) Settings(c *gin.Context) {
	h.cache.serve(c, func() (any, error) {
		return h.settings.Public(c.Request.Context())
	}, domain.TagSettings)
}
