package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"corpsite/config"
	"corpsite/internal/auth"
	"corpsite/internal/domain"
)

// MaintenanceChecker reports whether the public site is switched off.
type MaintenanceChecker interface {
	Maintenance(ctx context.Context) bool
}

// Maintenance answers 503 on public routes while maintenance mode is on.
// Requests carrying a valid staff token pass through so admins can preview.
func Maintenance(checker MaintenanceChecker, cfg *config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !checker.Maintenance(c.Request.Context()) || isStaff(cfg, c) {
			c.Next()
			return
		}
		c.Header("Retry-After", "300")
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"maintenance": true})
	}
}

func isStaff(cfg *config.JWTConfig, c *gin.Context) bool {
	tok, ok := bearerToken(c.GetHeader("Authorization"))
	if !ok {
		return false
	}
	claims, err := auth.ParseAccessToken(cfg, tok)
	if err != nil {
		return false
	}
	return claims.Role == domain.RoleAdmin || claims.Role == domain.RoleEditor
}
