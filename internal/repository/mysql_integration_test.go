//go:build integration

package repository_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"corpsite/config"
	"corpsite/internal/database"
	"corpsite/internal/domain"
	"corpsite/internal/models"
	"corpsite/internal/repository"
)

// mysqlDB starts a throwaway MySQL container and returns a migrated handle.
func mysqlDB(t *testing.T) *gorm.DB {
	t.Helper()
	pool, err := dockertest.NewPool("")
	require.NoError(t, err, "dockertest")

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env:        []string{"MYSQL_ROOT_PASSWORD=root", "MYSQL_DATABASE=corpsite"},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err, "run mysql")
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/corpsite?charset=utf8mb4&parseTime=True&loc=UTC", resource.GetPort("3306/tcp"))
	var db *gorm.DB
	require.NoError(t, pool.Retry(func() error {
		var err error
		db, err = database.NewDB(&config.DatabaseConfig{Driver: "mysql", DSN: dsn, MaxOpenConns: 5})
		return err
	}), "connect mysql")
	t.Cleanup(func() { _ = database.Close(db) })

	require.NoError(t, database.AutoMigrate(db))
	require.NoError(t, database.SeedSettings(db))
	return db
}

func TestMySQL_BlogTranslationsAndViews(t *testing.T) {
	ctx := context.Background()
	db := mysqlDB(t)
	blogs := repository.NewBlogRepository(db)
	views := repository.NewBlogViewRepository(db)

	b := &models.Blog{IsPublished: true}
	require.NoError(t, blogs.Create(ctx, b, []models.BlogTranslation{
		{Locale: domain.LocaleAZ, Slug: "xeber", Title: "Xəbər"},
		{Locale: domain.LocaleEN, Slug: "news", Title: "News"},
	}, nil))

	require.NoError(t, blogs.Update(ctx, &models.Blog{ID: b.ID, IsPublished: true}, []models.BlogTranslation{
		{Locale: domain.LocaleEN, Slug: "news-2", Title: "News, again"},
		{Locale: domain.LocaleRU, Slug: "novosti", Title: "Новости"},
	}, nil))

	got, err := blogs.GetByID(ctx, b.ID)
	require.NoError(t, err)
	want := []models.BlogTranslation{
		{Locale: domain.LocaleAZ, Slug: "xeber", Title: "Xəbər"},
		{Locale: domain.LocaleEN, Slug: "news-2", Title: "News, again"},
		{Locale: domain.LocaleRU, Slug: "novosti", Title: "Новости"},
	}
	opts := cmp.Options{
		cmpopts.IgnoreFields(models.BlogTranslation{}, "ID", "BlogID", "CreatedAt", "UpdatedAt"),
		cmpopts.SortSlices(func(a, b models.BlogTranslation) bool { return a.Locale < b.Locale }),
	}
	if diff := cmp.Diff(want, got.Translations, opts); diff != "" {
		t.Errorf("translations mismatch (-want +got):\n%s", diff)
	}

	found, locale, err := blogs.FindBySlug(ctx, domain.LocaleAZ, "novosti")
	require.NoError(t, err)
	assert.Equal(t, b.ID, found.ID)
	assert.Equal(t, domain.LocaleRU, locale)

	taken, err := blogs.SlugTaken(ctx, domain.LocaleEN, "news-2", 0)
	require.NoError(t, err)
	assert.True(t, taken)

	counted, n, err := views.Record(ctx, b.ID, "198.51.100.1", "test")
	require.NoError(t, err)
	assert.True(t, counted)
	assert.EqualValues(t, 1, n)

	counted, n, err = views.Record(ctx, b.ID, "198.51.100.1", "test")
	require.NoError(t, err)
	assert.False(t, counted, "same ip twice")
	assert.EqualValues(t, 1, n)

	counted, n, err = views.Record(ctx, b.ID, "198.51.100.2", "test")
	require.NoError(t, err)
	assert.True(t, counted)
	assert.EqualValues(t, 2, n)
}

func TestMySQL_UpdateSlugClashIsDuplicate(t *testing.T) {
	ctx := context.Background()
	db := mysqlDB(t)
	blogs := repository.NewBlogRepository(db)

	owner := &models.Blog{IsPublished: true}
	require.NoError(t, blogs.Create(ctx, owner, []models.BlogTranslation{
		{Locale: domain.LocaleEN, Slug: "taken", Title: "Owner"},
	}, nil))
	other := &models.Blog{IsPublished: true}
	require.NoError(t, blogs.Create(ctx, other, []models.BlogTranslation{
		{Locale: domain.LocaleEN, Slug: "other", Title: "Other"},
	}, nil))

	// Re-saving unchanged values is not a miss.
	require.NoError(t, blogs.Update(ctx, &models.Blog{ID: other.ID, IsPublished: true}, []models.BlogTranslation{
		{Locale: domain.LocaleEN, Slug: "other", Title: "Other"},
	}, nil))

	err := blogs.Update(ctx, &models.Blog{ID: other.ID, IsPublished: true}, []models.BlogTranslation{
		{Locale: domain.LocaleEN, Slug: "taken", Title: "Hijack"},
	}, nil)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	got, err := blogs.GetByID(ctx, owner.ID)
	require.NoError(t, err)
	want := []models.BlogTranslation{{Locale: domain.LocaleEN, Slug: "taken", Title: "Owner"}}
	opts := cmpopts.IgnoreFields(models.BlogTranslation{}, "ID", "BlogID", "CreatedAt", "UpdatedAt")
	if diff := cmp.Diff(want, got.Translations, opts); diff != "" {
		t.Errorf("owner translations changed (-want +got):\n%s", diff)
	}
}

func TestMySQL_SeedSettingsIsIdempotent(t *testing.T) {
	db := mysqlDB(t)
	require.NoError(t, database.SeedSettings(db))

	settings := repository.NewSettingRepository(db)
	got, err := settings.GetMany(context.Background(), domain.PublicSettingKeys)
	require.NoError(t, err)
	want := map[string]string{}
	for _, k := range domain.PublicSettingKeys {
		if v, ok := domain.DefaultSettings[k]; ok {
			want[k] = v
		}
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("public settings mismatch (-want +got):\n%s", diff)
	}
}
