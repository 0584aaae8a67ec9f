package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"corpsite/internal/models"
)

const serviceOwnerType = "services"

var serviceTranslationColumns = []string{"slug", "title", "summary", "content"}

type ServiceRepository struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

func (r *ServiceRepository) Create(ctx context.Context, s *models.Service, trs []models.ServiceTranslation, seo []models.SeoMeta) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(s).Error; err != nil {
			return err
		}
		for i := range trs {
			trs[i].ServiceID = s.ID
		}
		if err := upsertTranslations(tx, "service_id", s.ID, trs, serviceTranslationColumns...); err != nil {
			return err
		}
		return upsertSeo(tx, serviceOwnerType, s.ID, seo)
	})
}

func (r *ServiceRepository) Update(ctx context.Context, s *models.Service, trs []models.ServiceTranslation, seo []models.SeoMeta) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := *s
		row.Translations = nil
		row.Seo = nil
		res := tx.Model(&models.Service{ID: s.ID}).
			Select("image_url", "icon_url", "is_active", "sort_order", "updated_at").
			Updates(&row)
		if err := updated(res); err != nil {
			return err
		}
		for i := range trs {
			trs[i].ServiceID = s.ID
		}
		if err := upsertTranslations(tx, "service_id", s.ID, trs, serviceTranslationColumns...); err != nil {
			return err
		}
		return upsertSeo(tx, serviceOwnerType, s.ID, seo)
	})
}

func (r *ServiceRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteSeo(tx, serviceOwnerType, id); err != nil {
			return err
		}
		return deleteTranslatable(tx, &models.Service{}, &models.ServiceTranslation{}, "service_id", id)
	})
}

func (r *ServiceRepository) GetByID(ctx context.Context, id uint) (*models.Service, error) {
	var s models.Service
	if err := r.db.WithContext(ctx).Preload("Translations").Preload("Seo").First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// Exists reports whether a non-deleted service with id exists.
func (r *ServiceRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var c int64
	err := r.db.WithContext(ctx).Model(&models.Service{}).Where("id = ?", id).Count(&c).Error
	return c > 0, err
}

func (r *ServiceRepository) List(ctx context.Context, f ListFilter) ([]models.Service, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Service{})
	q = searchTranslations(q, "service_translations", "service_id", "title", f.Search)
	if f.Active != nil {
		q = q.Where("is_active = ?", *f.Active)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []models.Service
	err := f.apply(q.Preload("Translations").Preload("Seo")).Order("sort_order ASC, id ASC").Find(&list).Error
	return list, total, err
}

func (r *ServiceRepository) ListActive(ctx context.Context) ([]models.Service, error) {
	var list []models.Service
	err := activeOrdered(r.db.WithContext(ctx)).Preload("Translations").Find(&list).Error
	return list, err
}

// FindBySlug returns the active service owning slug and the locale of the matched slug.
func (r *ServiceRepository) FindBySlug(ctx context.Context, locale, slug string) (*models.Service, string, error) {
	var trs []models.ServiceTranslation
	err := r.db.WithContext(ctx).
		Where("slug = ? AND service_id IN (?)", slug, r.db.Model(&models.Service{}).Select("id").Where("is_active = ?", true)).
		Find(&trs).Error
	if err != nil {
		return nil, "", err
	}
	tr, ok := slugMatch(trs, locale)
	if !ok {
		return nil, "", gorm.ErrRecordNotFound
	}
	s, err := r.GetByID(ctx, tr.ServiceID)
	if err != nil {
		return nil, "", err
	}
	return s, tr.Locale, nil
}

func (r *ServiceRepository) SlugTaken(ctx context.Context, locale, slug string, excludeID uint) (bool, error) {
	return slugTaken(ctx, r.db, &models.ServiceTranslation{}, "service_id", locale, slug, excludeID)
}

func (r *ServiceRepository) Reorder(ctx context.Context, ids []uint) error {
	return reorder(ctx, r.db, &models.Service{}, ids)
}

func (r *ServiceRepository) Count(ctx context.Context) (int64, error) {
	var c int64
	err := r.db.WithContext(ctx).Model(&models.Service{}).Count(&c).Error
	return c, err
}
