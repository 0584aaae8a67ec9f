package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"corpsite/internal/domain"
)

func newStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = c.Close() })
	return NewRedisStore(c), mr
}

type page struct {
	Title string `json:"title"`
}

func TestRedisStore_GetSet(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	var got page
	ok, err := s.Get(ctx, PageKey("az", "/blogs"), &got)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, PageKey("az", "/blogs"), page{Title: "Bloq"}, time.Minute, domain.TagBlogs))
	ok, err = s.Get(ctx, PageKey("az", "/blogs"), &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Bloq", got.Title)
}

func TestRedisStore_RevalidateByTag(t *testing.T) {
	ctx := context.Background()
	s, mr := newStore(t)

	require.NoError(t, s.Set(ctx, "page:az:/blogs", page{}, time.Minute, domain.TagBlogs))
	require.NoError(t, s.Set(ctx, "page:en:/home", page{}, time.Minute, domain.TagBlogs, domain.TagHome))
	require.NoError(t, s.Set(ctx, "page:az:/services", page{}, time.Minute, domain.TagServices))

	require.NoError(t, s.Revalidate(ctx, domain.TagBlogs))
	assert.False(t, mr.Exists("page:az:/blogs"))
	assert.False(t, mr.Exists("page:en:/home"))
	assert.True(t, mr.Exists("page:az:/services"))

	require.NoError(t, s.Revalidate(ctx, domain.TagAll))
	assert.False(t, mr.Exists("page:az:/services"))
}

func TestRedisStore_TTL(t *testing.T) {
	ctx := context.Background()
	s, mr := newStore(t)
	require.NoError(t, s.Set(ctx, "page:az:/x", page{}, time.Minute))
	mr.FastForward(2 * time.Minute)
	var got page
	ok, err := s.Get(ctx, "page:az:/x", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNopStore(t *testing.T) {
	var s Store = NopStore{}
	ok, err := s.Get(context.Background(), "k", &page{})
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, s.Set(context.Background(), "k", page{}, time.Second))
	assert.NoError(t, s.Revalidate(context.Background(), domain.TagAll))
}
