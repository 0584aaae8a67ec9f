package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"corpsite/internal/models"
)

type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) Create(ctx context.Context, e *models.Employee, trs []models.EmployeeTranslation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(e).Error; err != nil {
			return err
		}
		for i := range trs {
			trs[i].EmployeeID = e.ID
		}
		return upsertTranslations(tx, "employee_id", e.ID, trs, "full_name", "position", "bio")
	})
}

func (r *EmployeeRepository) Update(ctx context.Context, e *models.Employee, trs []models.EmployeeTranslation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := *e
		row.Translations = nil
		res := tx.Model(&models.Employee{ID: e.ID}).
			Select("image_url", "email", "phone", "linkedin_url", "is_active", "sort_order", "updated_at").
			Updates(&row)
		if err := updated(res); err != nil {
			return err
		}
		for i := range trs {
			trs[i].EmployeeID = e.ID
		}
		return upsertTranslations(tx, "employee_id", e.ID, trs, "full_name", "position", "bio")
	})
}

func (r *EmployeeRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteTranslatable(tx, &models.Employee{}, &models.EmployeeTranslation{}, "employee_id", id)
	})
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id uint) (*models.Employee, error) {
	var e models.Employee
	if err := r.db.WithContext(ctx).Preload("Translations").First(&e, id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EmployeeRepository) List(ctx context.Context, f ListFilter) ([]models.Employee, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Employee{})
	q = searchTranslations(q, "employee_translations", "employee_id", "full_name", f.Search)
	if f.Active != nil {
		q = q.Where("is_active = ?", *f.Active)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []models.Employee
	err := f.apply(q.Preload("Translations")).Order("sort_order ASC, id ASC").Find(&list).Error
	return list, total, err
}

func (r *EmployeeRepository) ListActive(ctx context.Context) ([]models.Employee, error) {
	var list []models.Employee
	err := activeOrdered(r.db.WithContext(ctx)).Preload("Translations").Find(&list).Error
	return list, err
}

func (r *EmployeeRepository) Reorder(ctx context.Context, ids []uint) error {
	return reorder(ctx, r.db, &models.Employee{}, ids)
}

func (r *EmployeeRepository) Count(ctx context.Context) (int64, error) {
	var c int64
	err := r.db.WithContext(ctx).Model(&models.Employee{}).Count(&c).Error
	return c, err
}
