package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"corpsite/internal/middleware"
	"corpsite/internal/service"
)

const resourceAuth = "auth"

type AuthHandler struct {
	svc *service.AuthService
	pub *service.Publisher
}

func NewAuthHandler(svc *service.AuthService, pub *service.Publisher) *AuthHandler {
	return &AuthHandler{svc: svc, pub: pub}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "email and password required")
		return
	}
	s, err := h.svc.Login(req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	h.auditLogin(c, s, "login")
	c.JSON(http.StatusOK, s)
}

// auditLogin records a sign-in; the request carries no actor yet.
func (h *AuthHandler) auditLogin(c *gin.Context, s *service.Session, action string) {
	ctx := service.WithActor(c.Request.Context(), service.Actor{
		UserID:    s.User.ID,
		Email:     s.User.Email,
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	h.pub.Changed(ctx, resourceAuth, action, s.User.ID)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "refresh_token required")
		return
	}
	pair, err := h.svc.RefreshToken(req.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pair)
}

func (h *AuthHandler) Me(c *gin.Context) {
	u, err := h.svc.Me(middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if err := h.svc.ChangePassword(middleware.GetUserID(c), req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	h.pub.Changed(c.Request.Context(), resourceAuth, "change_password", middleware.GetUserID(c))
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// SetFCMToken handles PUT /admin/me/fcm-token; an empty token unregisters.
func (h *AuthHandler) SetFCMToken(c *gin.Context) {
	var req struct {
		Token string `json:"token"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if err := h.svc.SetFCMToken(middleware.GetUserID(c), req.Token); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
