package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"corpsite/internal/models"
)

type StatisticRepository struct {
	db *gorm.DB
}

func NewStatisticRepository(db *gorm.DB) *StatisticRepository {
	return &StatisticRepository{db: db}
}

func (r *StatisticRepository) Create(ctx context.Context, s *models.Statistic, trs []models.StatisticTranslation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(s).Error; err != nil {
			return err
		}
		for i := range trs {
			trs[i].StatisticID = s.ID
		}
		return upsertTranslations(tx, "statistic_id", s.ID, trs, "label")
	})
}

func (r *StatisticRepository) Update(ctx context.Context, s *models.Statistic, trs []models.StatisticTranslation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := *s
		row.Translations = nil
		res := tx.Model(&models.Statistic{ID: s.ID}).
			Select("value", "suffix", "icon", "is_active", "sort_order", "updated_at").
			Updates(&row)
		if err := updated(res); err != nil {
			return err
		}
		for i := range trs {
			trs[i].StatisticID = s.ID
		}
		return upsertTranslations(tx, "statistic_id", s.ID, trs, "label")
	})
}

func (r *StatisticRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteTranslatable(tx, &models.Statistic{}, &models.StatisticTranslation{}, "statistic_id", id)
	})
}

func (r *StatisticRepository) GetByID(ctx context.Context, id uint) (*models.Statistic, error) {
	var s models.Statistic
	if err := r.db.WithContext(ctx).Preload("Translations").First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *StatisticRepository) List(ctx context.Context, f ListFilter) ([]models.Statistic, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Statistic{})
	q = searchTranslations(q, "statistic_translations", "statistic_id", "label", f.Search)
	if f.Active != nil {
		q = q.Where("is_active = ?", *f.Active)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []models.Statistic
	err := f.apply(q.Preload("Translations")).Order("sort_order ASC, id ASC").Find(&list).Error
	return list, total, err
}

func (r *StatisticRepository) ListActive(ctx context.Context) ([]models.Statistic, error) {
	var list []models.Statistic
	err := activeOrdered(r.db.WithContext(ctx)).Preload("Translations").Find(&list).Error
	return list, err
}

func (r *StatisticRepository) Reorder(ctx context.Context, ids []uint) error {
	return reorder(ctx, r.db, &models.Statistic{}, ids)
}

func (r *StatisticRepository) Count(ctx context.Context) (int64, error) {
	var c int64
	err := r.db.WithContext(ctx).Model(&models.Statistic{}).Count(&c).Error
	return c, err
}
