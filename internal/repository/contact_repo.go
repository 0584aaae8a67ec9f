package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"corpsite/internal/domain"
	"corpsite/internal/models"
)

type ContactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) Create(ctx context.Context, m *models.ContactMessage) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *ContactRepository) GetByID(ctx context.Context, id uint) (*models.ContactMessage, error) {
	var m models.ContactMessage
	if err := r.db.WithContext(ctx).Preload("Service.Translations").First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

type ContactFilter struct {
	Status string
	Search string
	Page   int
	Limit  int
}

func (r *ContactRepository) List(ctx context.Context, f ContactFilter) ([]models.ContactMessage, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.ContactMessage{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Search != "" {
		p := likePattern(f.Search)
		q = q.Where("full_name LIKE ? OR email LIKE ? OR subject LIKE ?", p, p, p)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []models.ContactMessage
	err := ListFilter{Page: f.Page, Limit: f.Limit}.apply(q).Order("created_at DESC, id DESC").Find(&list).Error
	return list, total, err
}

// SetStatus changes the status; READ also stamps read_at once.
func (r *ContactRepository) SetStatus(ctx context.Context, id uint, status string) error {
	updates := map[string]any{"status": status}
	q := r.db.WithContext(ctx).Model(&models.ContactMessage{}).Where("id = ?", id)
	if status == domain.ContactStatusRead {
		updates["read_at"] = gorm.Expr("COALESCE(read_at, ?)", time.Now())
	}
	return updated(q.Updates(updates))
}

// MarkRead moves a NEW message to READ; other statuses are left alone.
func (r *ContactRepository) MarkRead(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.ContactMessage{}).
		Where("id = ? AND status = ?", id, domain.ContactStatusNew).
		Updates(map[string]any{"status": domain.ContactStatusRead, "read_at": time.Now()}).Error
}

func (r *ContactRepository) SetEmailSent(ctx context.Context, id uint, sent bool) error {
	return r.db.WithContext(ctx).Model(&models.ContactMessage{}).Where("id = ?", id).UpdateColumn("email_sent", sent).Error
}

func (r *ContactRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.ContactMessage{}, id)
	return updated(res)
}

func (r *ContactRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var c int64
	err := r.db.WithContext(ctx).Model(&models.ContactMessage{}).Where("status = ?", status).Count(&c).Error
	return c, err
}

func (r *ContactRepository) MessagesByDay(ctx context.Context, days int) ([]TimeSeriesPoint, error) {
	return countByDay(r.db.WithContext(ctx).Model(&models.ContactMessage{}), days)
}
