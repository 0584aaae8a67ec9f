package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"corpsite/internal/cache"
	"corpsite/internal/middleware"
)

const headerCache = "X-Cache"

// PageCache serves public GET responses from the tagged store.
type PageCache struct {
	store cache.Store
	ttl   time.Duration
}

func NewPageCache(store cache.Store, ttl time.Duration) *PageCache {
	if store == nil {
		store = cache.NopStore{}
	}
	return &PageCache{store: store, ttl: ttl}
}

// serve answers from cache under the request's locale and URI, or runs load
// and stores its result under tags. Errors are never cached.
func (p *PageCache) serve(c *gin.Context, load func() (any, error), tags ...string) {
	ctx := c.Request.Context()
	key := cache.PageKey(middleware.GetLocale(c), c.Request.URL.RequestURI())

	var raw json.RawMessage
	hit, err := p.store.Get(ctx, key, &raw)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("page cache read failed")
	}
	if hit && err == nil {
		c.Header(headerCache, "HIT")
		c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
		return
	}

	v, err := load()
	if err != nil {
		respondError(c, err)
		return
	}
	if err := p.store.Set(ctx, key, v, p.ttl, tags...); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("page cache write failed")
	}
	c.Header(headerCache, "MISS")
	c.JSON(http.StatusOK, v)
}
