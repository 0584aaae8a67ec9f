package handler

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/idtoken"
	"google.golang.org/api/option"

	"corpsite/config"
	"corpsite/internal/service"
)

const stateCookie = "oauth_state"

// googleIdentity is what a verified Google sign-in tells us.
type googleIdentity struct {
	ID      string
	Email   string
	Picture string
}

// GoogleOAuthHandler signs existing panel users in with Google, either via
// the browser redirect flow or an ID token from Google Identity Services.
type GoogleOAuthHandler struct {
	cfg     *config.OAuthConfig
	authSvc *service.AuthService
	auth    *AuthHandler

	// verifyIDToken is replaced in tests.
	verifyIDToken func(ctx context.Context, token, audience string) (*googleIdentity, error)
}

func NewGoogleOAuthHandler(cfg *config.OAuthConfig, authSvc *service.AuthService, auth *AuthHandler) *GoogleOAuthHandler {
	return &GoogleOAuthHandler{cfg: cfg, authSvc: authSvc, auth: auth, verifyIDToken: verifyGoogleIDToken}
}

func (h *GoogleOAuthHandler) OAuth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.cfg.GoogleClientID,
		ClientSecret: h.cfg.GoogleClientSecret,
		RedirectURL:  h.cfg.GoogleRedirectURL,
		Scopes:       []string{oauth2api.UserinfoEmailScope, oauth2api.UserinfoProfileScope},
		Endpoint:     google.Endpoint,
	}
}

func (h *GoogleOAuthHandler) enabled(c *gin.Context) bool {
	if h.cfg.GoogleClientID == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Google OAuth not configured"})
		return false
	}
	return true
}

// Redirect sends the browser to the Google consent screen.
func (h *GoogleOAuthHandler) Redirect(c *gin.Context) {
	if !h.enabled(c) {
		return
	}
	state := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookie, state, 600, "/", "", c.Request.TLS != nil, true)
	c.Redirect(http.StatusFound, h.OAuth2Config().AuthCodeURL(state))
}

// Callback exchanges the code, reads the Google profile and returns a session.
func (h *GoogleOAuthHandler) Callback(c *gin.Context) {
	if !h.enabled(c) {
		return
	}
	state, _ := c.Cookie(stateCookie)
	if state == "" || subtle.ConstantTimeCompare([]byte(state), []byte(c.Query("state"))) != 1 {
		badRequest(c, "invalid state")
		return
	}
	c.SetCookie(stateCookie, "", -1, "/", "", c.Request.TLS != nil, true)
	code := c.Query("code")
	if code == "" {
		badRequest(c, "missing code")
		return
	}
	ctx := c.Request.Context()
	conf := h.OAuth2Config()
	tok, err := conf.Exchange(ctx, code)
	if err != nil {
		badRequest(c, "exchange failed")
		return
	}
	api, err := oauth2api.NewService(ctx, option.WithTokenSource(conf.TokenSource(ctx, tok)))
	if err != nil {
		respondError(c, err)
		return
	}
	info, err := api.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		respondError(c, err)
		return
	}
	if info.VerifiedEmail != nil && !*info.VerifiedEmail {
		c.JSON(http.StatusForbidden, gin.H{"error": "email not verified"})
		return
	}
	h.login(c, &googleIdentity{ID: info.Id, Email: info.Email, Picture: info.Picture})
}

// Token accepts a Google ID token from the admin panel's sign-in button.
func (h *GoogleOAuthHandler) Token(c *gin.Context) {
	if !h.enabled(c) {
		return
	}
	var req struct {
		IDToken string `json:"id_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "id_token required")
		return
	}
	id, err := h.verifyIDToken(c.Request.Context(), req.IDToken, h.cfg.GoogleClientID)
	if err != nil || id.ID == "" || id.Email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid id_token"})
		return
	}
	h.login(c, id)
}

func (h *GoogleOAuthHandler) login(c *gin.Context, id *googleIdentity) {
	s, err := h.authSvc.LoginWithGoogle(id.ID, id.Email, id.Picture)
	if err != nil {
		respondError(c, err)
		return
	}
	h.auth.auditLogin(c, s, "google_login")
	c.JSON(http.StatusOK, s)
}

func verifyGoogleIDToken(ctx context.Context, token, audience string) (*googleIdentity, error) {
	p, err := idtoken.Validate(ctx, token, audience)
	if err != nil {
		return nil, err
	}
	id := &googleIdentity{ID: p.Subject}
	id.Email, _ = p.Claims["email"].(string)
	id.Picture, _ = p.Claims["picture"].(string)
	if verified, ok := p.Claims["email_verified"].(bool); ok && !verified {
		id.Email = ""
	}
	return id, nil
}
