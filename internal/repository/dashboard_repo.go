package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"corpsite/internal/domain"
	"corpsite/internal/models"
)

type DashboardStats struct {
	TotalBlogs        int64 `json:"total_blogs"`
	PublishedBlogs    int64 `json:"published_blogs"`
	TotalViews        int64 `json:"total_views"`
	TotalServices     int64 `json:"total_services"`
	TotalEmployees    int64 `json:"total_employees"`
	TotalTestimonials int64 `json:"total_testimonials"`
	TotalBranches     int64 `json:"total_branches"`
	TotalSliders      int64 `json:"total_sliders"`
	TotalMedia        int64 `json:"total_media"`
	TotalMessages     int64 `json:"total_messages"`
	NewMessages       int64 `json:"new_messages"`
	TotalUsers        int64 `json:"total_users"`
}

type TimeSeriesPoint struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type DashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

func (r *DashboardRepository) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	db := r.db.WithContext(ctx)
	var s DashboardStats
	counts := []struct {
		q   *gorm.DB
		dst *int64
	}{
		{db.Model(&models.Blog{}), &s.TotalBlogs},
		{db.Model(&models.Blog{}).Where("is_published = ?", true), &s.PublishedBlogs},
		{db.Model(&models.Service{}), &s.TotalServices},
		{db.Model(&models.Employee{}), &s.TotalEmployees},
		{db.Model(&models.Testimonial{}), &s.TotalTestimonials},
		{db.Model(&models.Branch{}), &s.TotalBranches},
		{db.Model(&models.Slider{}), &s.TotalSliders},
		{db.Model(&models.YoutubeMedia{}), &s.TotalMedia},
		{db.Model(&models.ContactMessage{}), &s.TotalMessages},
		{db.Model(&models.ContactMessage{}).Where("status = ?", domain.ContactStatusNew), &s.NewMessages},
		{db.Model(&models.User{}), &s.TotalUsers},
	}
	for _, c := range counts {
		if err := c.q.Count(c.dst).Error; err != nil {
			return nil, err
		}
	}

	var views struct{ Total int64 }
	if err := db.Model(&models.Blog{}).Select("COALESCE(SUM(view_count), 0) as total").Scan(&views).Error; err != nil {
		return nil, err
	}
	s.TotalViews = views.Total
	return &s, nil
}

// countByDay returns daily row counts over created_at for the last days days,
// oldest first. Days without rows are absent.
func countByDay(q *gorm.DB, days int) ([]TimeSeriesPoint, error) {
	if days < 1 {
		days = 30
	}
	since := time.Now().AddDate(0, 0, -days)
	var points []TimeSeriesPoint
	err := q.Select("DATE(created_at) as date, COUNT(*) as count").
		Where("created_at >= ?", since).
		Group("DATE(created_at)").
		Order("date ASC").
		Scan(&points).Error
	for i := range points {
		// drivers that parse DATE return a full timestamp
		if len(points[i].Date) > 10 {
			points[i].Date = points[i].Date[:10]
		}
	}
	return points, err
}
