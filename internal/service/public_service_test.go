package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"corpsite/internal/domain"
	"corpsite/internal/repository"
)

func TestPublicService_Home(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	_, err := NewSliderService(repository.NewSliderRepository(env.db), env.pub).Create(ctx, SliderInput{
		ImageURL:     "https://cdn.example.com/s.jpg",
		Translations: map[string]SliderTranslationInput{"az": {Title: "Slayd"}, "en": {Title: "Slide"}},
	})
	require.NoError(t, err)
	_, err = NewStatisticService(repository.NewStatisticRepository(env.db), env.pub).Create(ctx, StatisticInput{
		Value:        decimal.NewFromInt(250),
		Suffix:       "+",
		Translations: map[string]StatisticTranslationInput{"az": {Label: "Layihe"}},
	})
	require.NoError(t, err)
	_, err = env.services().Create(ctx, ServiceInput{
		IsActive:     ptr(false),
		Translations: map[string]ServiceTranslationInput{"az": {Title: "Hidden"}},
	})
	require.NoError(t, err)
	_, err = env.blogs().Create(ctx, blogInput(map[string]string{"az": "Visible"}))
	require.NoError(t, err)
	draft := blogInput(map[string]string{"az": "Draft"})
	draft.IsPublished = ptr(false)
	_, err = env.blogs().Create(ctx, draft)
	require.NoError(t, err)
	require.NoError(t, repository.NewSettingRepository(env.db).Set(ctx, domain.SettingSiteName, "Acme"))
	require.NoError(t, repository.NewSettingRepository(env.db).Set(ctx, domain.SettingContactRecipient, "ops@example.com"))

	h, err := env.public().Home(ctx, "en")
	require.NoError(t, err)

	require.Len(t, h.Sliders, 1)
	assert.Equal(t, "Slide", h.Sliders[0].Title)
	require.Len(t, h.Statistics, 1)
	assert.Equal(t, "Layihe", h.Statistics[0].Label, "falls back to the default locale")
	assert.True(t, decimal.NewFromInt(250).Equal(h.Statistics[0].Value))
	assert.Empty(t, h.Services)
	require.Len(t, h.Blogs, 1)
	assert.Equal(t, "Visible", h.Blogs[0].Title)
	assert.NotNil(t, h.Employees)
	assert.Equal(t, "Acme", h.Settings[domain.SettingSiteName])
	assert.NotContains(t, h.Settings, domain.SettingContactRecipient)
}

func TestPublicService_HomeFailsWhenAnySectionFails(t *testing.T) {
	env := newEnv(t)
	require.NoError(t, env.db.Migrator().DropTable("branches"))

	_, err := env.public().Home(context.Background(), "az")
	require.Error(t, err)
}

func TestPublicService_BlogSlugRouting(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	pub := env.public()

	_, err := env.blogs().Create(ctx, blogInput(map[string]string{"az": "Yenilik", "en": "Innovation"}))
	require.NoError(t, err)
	_, err = env.blogs().Create(ctx, blogInput(map[string]string{"az": "Yalniz Azerbaycan"}))
	require.NoError(t, err)

	d, err := pub.Blog(ctx, "en", "innovation", nil)
	require.NoError(t, err)
	assert.Equal(t, "Innovation", d.Title)
	assert.ElementsMatch(t, []Alternate{{"az", "yenilik"}, {"en", "innovation"}}, d.Alternates)
	assert.Equal(t, "Innovation", d.Seo.MetaTitle)

	_, err = pub.Blog(ctx, "en", "yenilik", nil)
	var re *RedirectError
	require.True(t, errors.As(err, &re), "got %v", err)
	assert.Equal(t, RedirectError{Locale: "en", Slug: "innovation"}, *re)

	// No English translation: the Azerbaijani one is served.
	d, err = pub.Blog(ctx, "en", "yalniz-azerbaycan", nil)
	require.NoError(t, err)
	assert.Equal(t, "az", d.Locale)

	_, err = pub.Blog(ctx, "en", "missing", nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPublicService_HidesUnpublishedPosts(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	future := time.Now().Add(time.Hour)
	in := blogInput(map[string]string{"az": "Soon"})
	in.PublishedAt = &future
	_, err := env.blogs().Create(ctx, in)
	require.NoError(t, err)

	_, err = env.public().Blog(ctx, "az", "soon", nil)
	assert.ErrorIs(t, err, ErrNotFound)

	page, err := env.public().Blogs(ctx, "az", 1, 10)
	require.NoError(t, err)
	assert.Zero(t, page.Total)
	assert.NotNil(t, page.Items)
}

func TestPublicService_RecordView(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	pub := env.public()
	_, err := env.blogs().Create(ctx, blogInput(map[string]string{"az": "Read Me", "en": "Read Me EN"}))
	require.NoError(t, err)

	res, err := pub.RecordView(ctx, "az", "read-me", Visitor{IP: "1.1.1.1"})
	require.NoError(t, err)
	assert.Equal(t, ViewResult{Counted: true, ViewCount: 1}, *res)

	res, err = pub.RecordView(ctx, "az", "read-me", Visitor{IP: "1.1.1.1"})
	require.NoError(t, err)
	assert.Equal(t, ViewResult{Counted: false, ViewCount: 1}, *res)

	// A slug of another locale still identifies the post.
	res, err = pub.RecordView(ctx, "az", "read-me-en", Visitor{IP: "2.2.2.2"})
	require.NoError(t, err)
	assert.Equal(t, ViewResult{Counted: true, ViewCount: 2}, *res)

	d, err := pub.Blog(ctx, "az", "read-me", &Visitor{IP: "3.3.3.3"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), d.ViewCount)

	_, err = pub.RecordView(ctx, "az", "read-me", Visitor{})
	assert.Contains(t, fields(t, err), "ip")
}

func TestPublicService_ServiceRedirect(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	_, err := env.services().Create(ctx, ServiceInput{Translations: map[string]ServiceTranslationInput{
		"az": {Title: "Audit", Slug: "audit-az"},
		"ru": {Title: "Audit", Slug: "audit-ru"},
	}})
	require.NoError(t, err)

	_, err = env.public().Service(ctx, "ru", "audit-az")
	var re *RedirectError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "audit-ru", re.Slug)

	d, err := env.public().Service(ctx, "ru", "audit-ru")
	require.NoError(t, err)
	assert.Equal(t, "ru", d.Locale)
}
