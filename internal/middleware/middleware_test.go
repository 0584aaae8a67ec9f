package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"corpsite/config"
	"corpsite/internal/auth"
	"corpsite/internal/domain"
	"corpsite/internal/service"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

var jwtCfg = &config.JWTConfig{
	AccessSecret:  "access-secret",
	RefreshSecret: "refresh-secret",
	AccessExpiry:  time.Minute,
	RefreshExpiry: time.Hour,
	Issuer:        "test",
}

func token(t *testing.T, role string) string {
	t.Helper()
	tok, err := auth.GenerateAccessToken(jwtCfg, 4, "staff@example.com", role)
	require.NoError(t, err)
	return tok
}

func do(r http.Handler, method, path string, h map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range h {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequired(t *testing.T) {
	r := gin.New()
	r.GET("/me", AuthRequired(jwtCfg), func(c *gin.Context) {
		a := service.ActorFrom(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"id": GetUserID(c), "role": GetRole(c), "actor": a.Email})
	})

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/me", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/me", map[string]string{"Authorization": "Token x"}).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/me", map[string]string{"Authorization": "Bearer nope"}).Code)

	w := do(r, http.MethodGet, "/me", map[string]string{"Authorization": "Bearer " + token(t, domain.RoleEditor)})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":4,"role":"EDITOR","actor":"staff@example.com"}`, w.Body.String())
}

func TestRequireRole(t *testing.T) {
	r := gin.New()
	r.GET("/users", AuthRequired(jwtCfg), RequireRole(domain.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	w := do(r, http.MethodGet, "/users", map[string]string{"Authorization": "Bearer " + token(t, domain.RoleEditor)})
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = do(r, http.MethodGet, "/users", map[string]string{"Authorization": "Bearer " + token(t, domain.RoleAdmin)})
	assert.Equal(t, http.StatusNoContent, w.Code)

	bare := gin.New()
	bare.GET("/x", RequireRole(domain.RoleAdmin), func(c *gin.Context) {})
	assert.Equal(t, http.StatusUnauthorized, do(bare, http.MethodGet, "/x", nil).Code)
}

func TestRateLimiter(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewPerHourLimiter(3)
	l.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("1.2.3.4"), "request %d", i)
	}
	assert.False(t, l.Allow("1.2.3.4"))
	assert.True(t, l.Allow("5.6.7.8"), "buckets are per key")

	now = now.Add(21 * time.Minute)
	assert.True(t, l.Allow("1.2.3.4"), "one token refills every 20 minutes")
	assert.False(t, l.Allow("1.2.3.4"))
}

func TestRateLimitMiddleware(t *testing.T) {
	r := gin.New()
	r.POST("/contact", RateLimit(NewRateLimiter(1, 2)), func(c *gin.Context) { c.Status(http.StatusCreated) })

	assert.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/contact", nil).Code)
	assert.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/contact", nil).Code)
	w := do(r, http.MethodPost, "/contact", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
}

func TestNegotiateLocale(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"", "az"},
		{"en-US,en;q=0.9", "en"},
		{"ru-RU", "ru"},
		{"de-DE,ru;q=0.5", "ru"},
		{"fr", "az"},
		{"az-Latn-AZ", "az"},
		{"garbage;;;", "az"},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, NegotiateLocale(tt.header))
		})
	}
}

func localeRouter() *gin.Engine {
	r := gin.New()
	g := r.Group("/api/v1/:locale", Locale())
	g.GET("/blogs", func(c *gin.Context) { c.String(http.StatusOK, GetLocale(c)) })
	g.GET("/blogs/:slug", func(c *gin.Context) { c.String(http.StatusOK, GetLocale(c)+":"+c.Param("slug")) })
	r.NoRoute(LocaleFallback())
	return r
}

func TestLocale(t *testing.T) {
	r := localeRouter()

	w := do(r, http.MethodGet, "/api/v1/en/blogs", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "en", w.Body.String())

	tests := []struct {
		name   string
		path   string
		accept string
		want   string
	}{
		{"unsupported locale replaced", "/api/v1/de/blogs?page=2", "", "/api/v1/az/blogs?page=2"},
		{"negotiated", "/api/v1/fr/blogs/x", "ru,en;q=0.8", "/api/v1/ru/blogs/x"},
		{"missing locale prefixed", "/api/v1/blogs", "en", "/api/v1/en/blogs"},
		{"missing locale on nested path", "/api/v1/blogs/hello", "", "/api/v1/az/blogs/hello"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodGet, tt.path, map[string]string{"Accept-Language": tt.accept})
			assert.Equal(t, http.StatusPermanentRedirect, w.Code)
			assert.Equal(t, tt.want, w.Header().Get("Location"))
		})
	}

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/v1/az/nothing", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/v1/admin/nothing", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/other", nil).Code)
}

type switchChecker struct{ on bool }

func (s *switchChecker) Maintenance(context.Context) bool { return s.on }

func TestMaintenance(t *testing.T) {
	chk := &switchChecker{}
	r := gin.New()
	r.GET("/home", Maintenance(chk, jwtCfg), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/home", nil).Code)

	chk.on = true
	w := do(r, http.MethodGet, "/home", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"maintenance":true}`, w.Body.String())

	w = do(r, http.MethodGet, "/home", map[string]string{"Authorization": "Bearer " + token(t, domain.RoleAdmin)})
	assert.Equal(t, http.StatusOK, w.Code)
	w = do(r, http.MethodGet, "/home", map[string]string{"Authorization": "Bearer forged"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRequestLoggerAndRecovery(t *testing.T) {
	var buf syncBuffer
	l := zerolog.New(&buf)
	r := gin.New()
	r.Use(RequestLogger(l), Recovery())
	r.GET("/boom", func(c *gin.Context) { panic("boom") })
	r.GET("/ok", func(c *gin.Context) {
		zerolog.Ctx(c.Request.Context()).Info().Msg("inside")
		c.Status(http.StatusOK)
	})

	w := do(r, http.MethodGet, "/ok", map[string]string{headerRequestID: "abc"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "abc", w.Header().Get(headerRequestID))
	assert.Contains(t, buf.String(), `"request_id":"abc","message":"inside"`)
	assert.Contains(t, buf.String(), `"route":"/ok"`)

	w = do(r, http.MethodGet, "/boom", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotEmpty(t, w.Header().Get(headerRequestID))
	assert.Contains(t, buf.String(), "panic recovered")
	assert.Contains(t, buf.String(), `"status":500`)
}
