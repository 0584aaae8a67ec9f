package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"corpsite/internal/models"
)

const blogOwnerType = "blogs"

var blogTranslationColumns = []string{"slug", "title", "summary", "content"}

type BlogRepository struct {
	db *gorm.DB
}

func NewBlogRepository(db *gorm.DB) *BlogRepository {
	return &BlogRepository{db: db}
}

func visibleBlogs(q *gorm.DB, now time.Time) *gorm.DB {
	return q.Where("is_published = ? AND (published_at IS NULL OR published_at <= ?)", true, now)
}

func (r *BlogRepository) withChildren(q *gorm.DB) *gorm.DB {
	return q.Preload("Translations").Preload("Seo")
}

// Create inserts the post with its translations and SEO rows.
func (r *BlogRepository) Create(ctx context.Context, b *models.Blog, trs []models.BlogTranslation, seo []models.SeoMeta) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(b).Error; err != nil {
			return err
		}
		for i := range trs {
			trs[i].BlogID = b.ID
		}
		if err := upsertTranslations(tx, "blog_id", b.ID, trs, blogTranslationColumns...); err != nil {
			return err
		}
		return upsertSeo(tx, blogOwnerType, b.ID, seo)
	})
}

// Update writes the parent columns and upserts the supplied locales.
// view_count is owned by the view counter and never overwritten here.
func (r *BlogRepository) Update(ctx context.Context, b *models.Blog, trs []models.BlogTranslation, seo []models.SeoMeta) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := *b
		row.Translations = nil
		row.Seo = nil
		res := tx.Model(&models.Blog{ID: b.ID}).
			Select("image_url", "is_published", "published_at", "sort_order", "updated_at").
			Updates(&row)
		if err := updated(res); err != nil {
			return err
		}
		for i := range trs {
			trs[i].BlogID = b.ID
		}
		if err := upsertTranslations(tx, "blog_id", b.ID, trs, blogTranslationColumns...); err != nil {
			return err
		}
		return upsertSeo(tx, blogOwnerType, b.ID, seo)
	})
}

func (r *BlogRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteSeo(tx, blogOwnerType, id); err != nil {
			return err
		}
		return deleteTranslatable(tx, &models.Blog{}, &models.BlogTranslation{}, "blog_id", id)
	})
}

func (r *BlogRepository) GetByID(ctx context.Context, id uint) (*models.Blog, error) {
	var b models.Blog
	if err := r.withChildren(r.db.WithContext(ctx)).First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// List returns posts for the admin panel, newest first. Active filters on is_published.
func (r *BlogRepository) List(ctx context.Context, f ListFilter) ([]models.Blog, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Blog{})
	q = searchTranslations(q, "blog_translations", "blog_id", "title", f.Search)
	if f.Active != nil {
		q = q.Where("is_published = ?", *f.Active)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []models.Blog
	err := f.apply(r.withChildren(q)).Order("created_at DESC, id DESC").Find(&list).Error
	return list, total, err
}

// ListPublished returns visible posts, most recently published first.
func (r *BlogRepository) ListPublished(ctx context.Context, now time.Time, page, limit int) ([]models.Blog, int64, error) {
	q := visibleBlogs(r.db.WithContext(ctx).Model(&models.Blog{}), now)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []models.Blog
	err := ListFilter{Page: page, Limit: limit}.apply(q.Preload("Translations")).
		Order("COALESCE(published_at, created_at) DESC, id DESC").
		Find(&list).Error
	return list, total, err
}

// Latest returns up to n visible posts.
func (r *BlogRepository) Latest(ctx context.Context, now time.Time, n int) ([]models.Blog, error) {
	var list []models.Blog
	err := visibleBlogs(r.db.WithContext(ctx), now).Preload("Translations").
		Order("COALESCE(published_at, created_at) DESC, id DESC").
		Limit(n).Find(&list).Error
	return list, err
}

// Related returns up to n other visible posts.
func (r *BlogRepository) Related(ctx context.Context, now time.Time, excludeID uint, n int) ([]models.Blog, error) {
	var list []models.Blog
	err := visibleBlogs(r.db.WithContext(ctx), now).Where("id <> ?", excludeID).Preload("Translations").
		Order("COALESCE(published_at, created_at) DESC, id DESC").
		Limit(n).Find(&list).Error
	return list, err
}

// FindBySlug returns the post owning slug together with the locale the slug
// belongs to. A match in the requested locale wins over other locales.
func (r *BlogRepository) FindBySlug(ctx context.Context, locale, slug string) (*models.Blog, string, error) {
	var trs []models.BlogTranslation
	err := r.db.WithContext(ctx).
		Where("slug = ? AND blog_id IN (?)", slug, r.db.Model(&models.Blog{}).Select("id")).
		Find(&trs).Error
	if err != nil {
		return nil, "", err
	}
	tr, ok := slugMatch(trs, locale)
	if !ok {
		return nil, "", gorm.ErrRecordNotFound
	}
	b, err := r.GetByID(ctx, tr.BlogID)
	if err != nil {
		return nil, "", err
	}
	return b, tr.Locale, nil
}

func (r *BlogRepository) SlugTaken(ctx context.Context, locale, slug string, excludeID uint) (bool, error) {
	return slugTaken(ctx, r.db, &models.BlogTranslation{}, "blog_id", locale, slug, excludeID)
}

func (r *BlogRepository) Reorder(ctx context.Context, ids []uint) error {
	return reorder(ctx, r.db, &models.Blog{}, ids)
}

func (r *BlogRepository) Count(ctx context.Context) (total, published int64, err error) {
	if err = r.db.WithContext(ctx).Model(&models.Blog{}).Count(&total).Error; err != nil {
		return
	}
	err = r.db.WithContext(ctx).Model(&models.Blog{}).Where("is_published = ?", true).Count(&published).Error
	return
}

// TopViewed returns the n most viewed posts.
func (r *BlogRepository) TopViewed(ctx context.Context, n int) ([]models.Blog, error) {
	var list []models.Blog
	err := r.db.WithContext(ctx).Preload("Translations").Order("view_count DESC, id ASC").Limit(n).Find(&list).Error
	return list, err
}

type BlogViewRepository struct {
	db *gorm.DB
}

func NewBlogViewRepository(db *gorm.DB) *BlogViewRepository {
	return &BlogViewRepository{db: db}
}

// Record inserts a (blog, ip) view unless it exists and bumps the post's
// counter only when a row was inserted. It returns whether the view counted
// and the resulting view count.
func (r *BlogViewRepository) Record(ctx context.Context, blogID uint, ip, userAgent string) (bool, int64, error) {
	var counted bool
	var b models.Blog
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.BlogView{BlogID: blogID, IP: ip, UserAgent: truncate(userAgent, 512)})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			counted = true
			if err := tx.Model(&models.Blog{}).Where("id = ?", blogID).
				UpdateColumn("view_count", gorm.Expr("view_count + ?", 1)).Error; err != nil {
				return err
			}
		}
		return tx.Select("id", "view_count").First(&b, blogID).Error
	})
	if err != nil {
		return false, 0, err
	}
	return counted, b.ViewCount, nil
}

// ViewsByDay returns counted views per day for the last days days.
func (r *BlogViewRepository) ViewsByDay(ctx context.Context, days int) ([]TimeSeriesPoint, error) {
	return countByDay(r.db.WithContext(ctx).Model(&models.BlogView{}), days)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
