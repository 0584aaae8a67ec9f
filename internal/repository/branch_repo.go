package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"corpsite/internal/models"
)

type BranchRepository struct {
	db *gorm.DB
}

func NewBranchRepository(db *gorm.DB) *BranchRepository {
	return &BranchRepository{db: db}
}

func (r *BranchRepository) Create(ctx context.Context, b *models.Branch, trs []models.BranchTranslation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(b).Error; err != nil {
			return err
		}
		for i := range trs {
			trs[i].BranchID = b.ID
		}
		return upsertTranslations(tx, "branch_id", b.ID, trs, "name", "address", "working_hours")
	})
}

func (r *BranchRepository) Update(ctx context.Context, b *models.Branch, trs []models.BranchTranslation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := *b
		row.Translations = nil
		res := tx.Model(&models.Branch{ID: b.ID}).
			Select("phone", "email", "map_url", "latitude", "longitude", "is_head_office", "is_active", "sort_order", "updated_at").
			Updates(&row)
		if err := updated(res); err != nil {
			return err
		}
		for i := range trs {
			trs[i].BranchID = b.ID
		}
		return upsertTranslations(tx, "branch_id", b.ID, trs, "name", "address", "working_hours")
	})
}

func (r *BranchRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteTranslatable(tx, &models.Branch{}, &models.BranchTranslation{}, "branch_id", id)
	})
}

func (r *BranchRepository) GetByID(ctx context.Context, id uint) (*models.Branch, error) {
	var b models.Branch
	if err := r.db.WithContext(ctx).Preload("Translations").First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BranchRepository) List(ctx context.Context, f ListFilter) ([]models.Branch, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Branch{})
	q = searchTranslations(q, "branch_translations", "branch_id", "name", f.Search)
	if f.Active != nil {
		q = q.Where("is_active = ?", *f.Active)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []models.Branch
	err := f.apply(q.Preload("Translations")).Order("sort_order ASC, id ASC").Find(&list).Error
	return list, total, err
}

func (r *BranchRepository) ListActive(ctx context.Context) ([]models.Branch, error) {
	var list []models.Branch
	err := r.db.WithContext(ctx).Where("is_active = ?", true).
		Order("is_head_office DESC, sort_order ASC, id ASC").
		Preload("Translations").Find(&list).Error
	return list, err
}

func (r *BranchRepository) Reorder(ctx context.Context, ids []uint) error {
	return reorder(ctx, r.db, &models.Branch{}, ids)
}

func (r *BranchRepository) Count(ctx context.Context) (int64, error) {
	var c int64
	err := r.db.WithContext(ctx).Model(&models.Branch{}).Count(&c).Error
	return c, err
}
