package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"corpsite/internal/domain"
	"corpsite/internal/models"
)

func blogInput(titles map[string]string) BlogInput {
	in := BlogInput{Translations: map[string]BlogTranslationInput{}}
	for loc, title := range titles {
		in.Translations[loc] = BlogTranslationInput{Title: title, Content: "<p>Body</p>"}
	}
	return in
}

func TestBlogService_Create(t *testing.T) {
	env := newEnv(t)
	s := env.blogs()
	editor := env.user(t, "editor@example.com", domain.RoleEditor)
	ctx := WithActor(context.Background(), Actor{UserID: editor.ID, IP: "10.0.0.1"})

	in := blogInput(map[string]string{"az": "Hello World", "en": "Hello World EN"})
	in.Translations["az"] = BlogTranslationInput{
		Title:   "Hello World",
		Content: `<p onclick="x()">Hi</p><script>alert(1)</script>`,
		Seo:     &SeoInput{MetaTitle: "Meta"},
	}
	b, err := s.Create(ctx, in)
	require.NoError(t, err)

	assert.True(t, b.IsPublished)
	require.NotNil(t, b.PublishedAt)
	require.Len(t, b.Translations, 2)
	tr, _ := models.PickTranslation(b.Translations, "az")
	assert.Equal(t, "hello-world", tr.Slug)
	assert.Equal(t, "<p>Hi</p>", tr.Content)
	require.Len(t, b.Seo, 1)
	assert.Equal(t, "Meta", b.Seo[0].MetaTitle)

	assert.ElementsMatch(t, []string{domain.TagBlogs, domain.TagHome}, env.store.revalidated())
	assert.Equal(t, []string{"content.create"}, env.feed.types())

	var logs []models.AuditLog
	require.NoError(t, env.db.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, "blog", logs[0].Resource)
	require.NotNil(t, logs[0].UserID)
	assert.Equal(t, editor.ID, *logs[0].UserID)
}

func TestBlogService_CreateValidation(t *testing.T) {
	s := newEnv(t).blogs()
	ctx := context.Background()

	tests := []struct {
		name  string
		in    BlogInput
		field string
	}{
		{"default locale missing", blogInput(map[string]string{"en": "Only English"}), "translations.az"},
		{"unsupported locale", blogInput(map[string]string{"az": "Title", "de": "Titel"}), "translations.de"},
		{"title required", blogInput(map[string]string{"az": ""}), "translations.az.title"},
		{"slug not derivable", blogInput(map[string]string{"az": "!!!"}), "translations.az.slug"},
		{"bad image url", func() BlogInput {
			in := blogInput(map[string]string{"az": "Title"})
			in.ImageURL = "not a url"
			return in
		}(), "image_url"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Create(ctx, tt.in)
			require.Error(t, err)
			assert.Contains(t, fields(t, err), tt.field)
		})
	}
}

func TestBlogService_SlugCollision(t *testing.T) {
	s := newEnv(t).blogs()
	ctx := context.Background()

	first, err := s.Create(ctx, blogInput(map[string]string{"az": "Same Title"}))
	require.NoError(t, err)

	_, err = s.Create(ctx, blogInput(map[string]string{"az": "Same Title"}))
	require.Error(t, err)
	assert.Equal(t, "is already used", fields(t, err)["translations.az.slug"])

	// Same slug in another locale is fine.
	_, err = s.Create(ctx, blogInput(map[string]string{"az": "Other", "en": "Same Title"}))
	require.NoError(t, err)

	// Updating a post with its own slug does not collide with itself.
	_, err = s.Update(ctx, first.ID, blogInput(map[string]string{"az": "Same Title"}))
	require.NoError(t, err)

	// Deleting frees the slug.
	require.NoError(t, s.Delete(ctx, first.ID))
	_, err = s.Create(ctx, blogInput(map[string]string{"az": "Same Title"}))
	require.NoError(t, err)
}

func TestBlogService_UpdateAndDelete(t *testing.T) {
	s := newEnv(t).blogs()
	ctx := context.Background()

	_, err := s.Update(ctx, 404, blogInput(map[string]string{"az": "Title"}))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, 404), ErrNotFound)

	b, err := s.Create(ctx, blogInput(map[string]string{"az": "Draft"}))
	require.NoError(t, err)

	// Update may add a locale without resending the default one.
	in := blogInput(map[string]string{"ru": "Chernovik"})
	in.IsPublished = ptr(false)
	got, err := s.Update(ctx, b.ID, in)
	require.NoError(t, err)
	assert.False(t, got.IsPublished)
	assert.Len(t, got.Translations, 2)

	require.NoError(t, s.Delete(ctx, b.ID))
	_, err = s.Get(ctx, b.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBlogService_ScheduledPostKeepsDate(t *testing.T) {
	s := newEnv(t).blogs()
	at := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)
	in := blogInput(map[string]string{"az": "Later"})
	in.PublishedAt = &at

	b, err := s.Create(context.Background(), in)
	require.NoError(t, err)
	require.NotNil(t, b.PublishedAt)
	assert.WithinDuration(t, at, *b.PublishedAt, time.Second)
}

func TestBlogService_Reorder(t *testing.T) {
	s := newEnv(t).blogs()
	ctx := context.Background()

	a, err := s.Create(ctx, blogInput(map[string]string{"az": "A"}))
	require.NoError(t, err)
	b, err := s.Create(ctx, blogInput(map[string]string{"az": "B"}))
	require.NoError(t, err)

	assert.Contains(t, fields(t, s.Reorder(ctx, nil)), "ids")
	assert.Contains(t, fields(t, s.Reorder(ctx, []uint{a.ID, a.ID})), "ids")

	require.NoError(t, s.Reorder(ctx, []uint{b.ID, a.ID}))
	got, err := s.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.SortOrder)
}
