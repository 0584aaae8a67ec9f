package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"corpsite/internal/models"
)

type TestimonialRepository struct {
	db *gorm.DB
}

func NewTestimonialRepository(db *gorm.DB) *TestimonialRepository {
	return &TestimonialRepository{db: db}
}

func (r *TestimonialRepository) Create(ctx context.Context, t *models.Testimonial, trs []models.TestimonialTranslation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(t).Error; err != nil {
			return err
		}
		for i := range trs {
			trs[i].TestimonialID = t.ID
		}
		return upsertTranslations(tx, "testimonial_id", t.ID, trs, "author_name", "author_title", "content")
	})
}

func (r *TestimonialRepository) Update(ctx context.Context, t *models.Testimonial, trs []models.TestimonialTranslation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := *t
		row.Translations = nil
		res := tx.Model(&models.Testimonial{ID: t.ID}).
			Select("image_url", "rating", "is_active", "sort_order", "updated_at").
			Updates(&row)
		if err := updated(res); err != nil {
			return err
		}
		for i := range trs {
			trs[i].TestimonialID = t.ID
		}
		return upsertTranslations(tx, "testimonial_id", t.ID, trs, "author_name", "author_title", "content")
	})
}

func (r *TestimonialRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteTranslatable(tx, &models.Testimonial{}, &models.TestimonialTranslation{}, "testimonial_id", id)
	})
}

func (r *TestimonialRepository) GetByID(ctx context.Context, id uint) (*models.Testimonial, error) {
	var t models.Testimonial
	if err := r.db.WithContext(ctx).Preload("Translations").First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TestimonialRepository) List(ctx context.Context, f ListFilter) ([]models.Testimonial, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Testimonial{})
	q = searchTranslations(q, "testimonial_translations", "testimonial_id", "author_name", f.Search)
	if f.Active != nil {
		q = q.Where("is_active = ?", *f.Active)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []models.Testimonial
	err := f.apply(q.Preload("Translations")).Order("sort_order ASC, id ASC").Find(&list).Error
	return list, total, err
}

func (r *TestimonialRepository) ListActive(ctx context.Context) ([]models.Testimonial, error) {
	var list []models.Testimonial
	err := activeOrdered(r.db.WithContext(ctx)).Preload("Translations").Find(&list).Error
	return list, err
}

func (r *TestimonialRepository) Reorder(ctx context.Context, ids []uint) error {
	return reorder(ctx, r.db, &models.Testimonial{}, ids)
}

func (r *TestimonialRepository) Count(ctx context.Context) (int64, error) {
	var c int64
	err := r.db.WithContext(ctx).Model(&models.Testimonial{}).Count(&c).Error
	return c, err
}
