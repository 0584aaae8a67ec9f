package repository

import (
	"context"

	"gorm.io/gorm"

	"corpsite/internal/models"
)

type AuditLogRepository struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

func (r *AuditLogRepository) Create(ctx context.Context, log *models.AuditLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

type AuditFilter struct {
	Resource string
	UserID   uint
	Page     int
	Limit    int
}

// List returns audit entries newest first.
func (r *AuditLogRepository) List(ctx context.Context, f AuditFilter) ([]models.AuditLog, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.AuditLog{})
	if f.Resource != "" {
		q = q.Where("resource = ?", f.Resource)
	}
	if f.UserID != 0 {
		q = q.Where("user_id = ?", f.UserID)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []models.AuditLog
	err := ListFilter{Page: f.Page, Limit: f.Limit}.apply(q.Preload("User")).
		Order("created_at DESC, id DESC").Find(&list).Error
	return list, total, err
}
