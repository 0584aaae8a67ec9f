package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"corpsite/internal/models"
)

type YoutubeMediaRepository struct {
	db *gorm.DB
}

func NewYoutubeMediaRepository(db *gorm.DB) *YoutubeMediaRepository {
	return &YoutubeMediaRepository{db: db}
}

// Create inserts the video. A soft-deleted row holding the same video id is
// purged first so the unique index does not block re-adding it.
func (r *YoutubeMediaRepository) Create(ctx context.Context, m *models.YoutubeMedia, trs []models.YoutubeMediaTranslation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("video_id = ? AND deleted_at IS NOT NULL", m.VideoID).Delete(&models.YoutubeMedia{}).Error; err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(m).Error; err != nil {
			return err
		}
		for i := range trs {
			trs[i].YoutubeMediaID = m.ID
		}
		return upsertTranslations(tx, "youtube_media_id", m.ID, trs, "title", "description")
	})
}

func (r *YoutubeMediaRepository) Update(ctx context.Context, m *models.YoutubeMedia, trs []models.YoutubeMediaTranslation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("video_id = ? AND deleted_at IS NOT NULL", m.VideoID).Delete(&models.YoutubeMedia{}).Error; err != nil {
			return err
		}
		row := *m
		row.Translations = nil
		res := tx.Model(&models.YoutubeMedia{ID: m.ID}).
			Select("video_id", "url", "thumbnail_url", "duration", "channel_title", "is_active", "sort_order", "updated_at").
			Updates(&row)
		if err := updated(res); err != nil {
			return err
		}
		for i := range trs {
			trs[i].YoutubeMediaID = m.ID
		}
		return upsertTranslations(tx, "youtube_media_id", m.ID, trs, "title", "description")
	})
}

func (r *YoutubeMediaRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteTranslatable(tx, &models.YoutubeMedia{}, &models.YoutubeMediaTranslation{}, "youtube_media_id", id)
	})
}

func (r *YoutubeMediaRepository) GetByID(ctx context.Context, id uint) (*models.YoutubeMedia, error) {
	var m models.YoutubeMedia
	if err := r.db.WithContext(ctx).Preload("Translations").First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// VideoTaken reports whether another live row already embeds videoID.
func (r *YoutubeMediaRepository) VideoTaken(ctx context.Context, videoID string, excludeID uint) (bool, error) {
	q := r.db.WithContext(ctx).Model(&models.YoutubeMedia{}).Where("video_id = ?", videoID)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var c int64
	err := q.Count(&c).Error
	return c > 0, err
}

func (r *YoutubeMediaRepository) List(ctx context.Context, f ListFilter) ([]models.YoutubeMedia, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.YoutubeMedia{})
	q = searchTranslations(q, "youtube_media_translations", "youtube_media_id", "title", f.Search)
	if f.Active != nil {
		q = q.Where("is_active = ?", *f.Active)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []models.YoutubeMedia
	err := f.apply(q.Preload("Translations")).Order("sort_order ASC, id ASC").Find(&list).Error
	return list, total, err
}

func (r *YoutubeMediaRepository) ListActive(ctx context.Context) ([]models.YoutubeMedia, error) {
	var list []models.YoutubeMedia
	err := activeOrdered(r.db.WithContext(ctx)).Preload("Translations").Find(&list).Error
	return list, err
}

func (r *YoutubeMediaRepository) Reorder(ctx context.Context, ids []uint) error {
	return reorder(ctx, r.db, &models.YoutubeMedia{}, ids)
}

func (r *YoutubeMediaRepository) Count(ctx context.Context) (int64, error) {
	var c int64
	err := r.db.WithContext(ctx).Model(&models.YoutubeMedia{}).Count(&c).Error
	return c, err
}
