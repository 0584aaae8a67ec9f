package middleware

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"

	"corpsite/internal/domain"
)

const (
	apiPrefix = "/api/v1/"
	ctxLocale = "locale"
)

var (
	// order matches domain.Locales; the first entry is the fallback
	supportedTags = []language.Tag{language.Azerbaijani, language.English, language.Russian}
	localeMatcher = language.NewMatcher(supportedTags)

	// a first segment shaped like a language tag is replaced, anything else
	// gets a locale prefixed
	localeShaped = regexp.MustCompile(`^[A-Za-z]{2}([-_][A-Za-z0-9]{2,8})?$`)
)

// NegotiateLocale picks the best supported locale for an Accept-Language
// header, falling back to the default locale.
func NegotiateLocale(acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return domain.DefaultLocale
	}
	_, idx, conf := localeMatcher.Match(tags...)
	if conf == language.No || idx < 0 || idx >= len(domain.Locales) {
		return domain.DefaultLocale
	}
	return domain.Locales[idx]
}

// Locale guards routes under /api/v1/:locale. Unsupported locales redirect
// with 308 to the same path under the negotiated locale.
func Locale() gin.HandlerFunc {
	return func(c *gin.Context) {
		loc := c.Param("locale")
		if !domain.IsLocale(loc) {
			redirectLocale(c)
			return
		}
		c.Set(ctxLocale, loc)
		c.Next()
	}
}

// LocaleFallback is meant for NoRoute: public API paths without a supported
// locale are redirected, everything else is a plain 404.
func LocaleFallback() gin.HandlerFunc {
	return func(c *gin.Context) {
		p := c.Request.URL.Path
		if !strings.HasPrefix(p, apiPrefix) || strings.HasPrefix(p, apiPrefix+"admin") {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		first, _, _ := strings.Cut(strings.TrimPrefix(p, apiPrefix), "/")
		if domain.IsLocale(first) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		redirectLocale(c)
	}
}

func redirectLocale(c *gin.Context) {
	loc := NegotiateLocale(c.GetHeader("Accept-Language"))
	rest := strings.TrimPrefix(c.Request.URL.Path, apiPrefix)
	first, tail, _ := strings.Cut(rest, "/")
	if localeShaped.MatchString(first) {
		rest = tail
	}
	target := apiPrefix + loc
	if rest != "" {
		target += "/" + rest
	}
	if q := c.Request.URL.RawQuery; q != "" {
		target += "?" + q
	}
	c.Header("Vary", "Accept-Language")
	c.Redirect(http.StatusPermanentRedirect, target)
	c.Abort()
}

// GetLocale returns the locale validated by Locale.
func GetLocale(c *gin.Context) string {
	if v := c.GetString(ctxLocale); v != "" {
		return v
	}
	return domain.DefaultLocale
}
