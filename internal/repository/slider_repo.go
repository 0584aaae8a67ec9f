package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"corpsite/internal/models"
)

type SliderRepository struct {
	db *gorm.DB
}

func NewSliderRepository(db *gorm.DB) *SliderRepository {
	return &SliderRepository{db: db}
}

func (r *SliderRepository) Create(ctx context.Context, s *models.Slider, trs []models.SliderTranslation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(s).Error; err != nil {
			return err
		}
		for i := range trs {
			trs[i].SliderID = s.ID
		}
		return upsertTranslations(tx, "slider_id", s.ID, trs, "title", "subtitle", "button_text")
	})
}

func (r *SliderRepository) Update(ctx context.Context, s *models.Slider, trs []models.SliderTranslation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := *s
		row.Translations = nil
		res := tx.Model(&models.Slider{ID: s.ID}).
			Select("image_url", "link_url", "is_active", "sort_order", "updated_at").
			Updates(&row)
		if err := updated(res); err != nil {
			return err
		}
		for i := range trs {
			trs[i].SliderID = s.ID
		}
		return upsertTranslations(tx, "slider_id", s.ID, trs, "title", "subtitle", "button_text")
	})
}

func (r *SliderRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteTranslatable(tx, &models.Slider{}, &models.SliderTranslation{}, "slider_id", id)
	})
}

func (r *SliderRepository) GetByID(ctx context.Context, id uint) (*models.Slider, error) {
	var s models.Slider
	if err := r.db.WithContext(ctx).Preload("Translations").First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SliderRepository) List(ctx context.Context, f ListFilter) ([]models.Slider, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Slider{})
	q = searchTranslations(q, "slider_translations", "slider_id", "title", f.Search)
	if f.Active != nil {
		q = q.Where("is_active = ?", *f.Active)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []models.Slider
	err := f.apply(q.Preload("Translations")).Order("sort_order ASC, id ASC").Find(&list).Error
	return list, total, err
}

func (r *SliderRepository) ListActive(ctx context.Context) ([]models.Slider, error) {
	var list []models.Slider
	err := activeOrdered(r.db.WithContext(ctx)).Preload("Translations").Find(&list).Error
	return list, err
}

func (r *SliderRepository) Reorder(ctx context.Context, ids []uint) error {
	return reorder(ctx, r.db, &models.Slider{}, ids)
}

func (r *SliderRepository) Count(ctx context.Context) (int64, error) {
	var c int64
	err := r.db.WithContext(ctx).Model(&models.Slider{}).Count(&c).Error
	return c, err
}
