package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"corpsite/internal/models"
	"corpsite/internal/repository"
)

const (
	defaultAnalyticsDays = 30
	maxAnalyticsDays     = 365
	topPostCount         = 5
)

type Analytics struct {
	Days          int                          `json:"days"`
	ViewsByDay    []repository.TimeSeriesPoint `json:"views_by_day"`
	MessagesByDay []repository.TimeSeriesPoint `json:"messages_by_day"`
	TopPosts      []BlogCard                   `json:"top_posts"`
}

type DashboardService struct {
	dash     *repository.DashboardRepository
	views    *repository.BlogViewRepository
	contacts *repository.ContactRepository
	blogs    *repository.BlogRepository
	audit    *repository.AuditLogRepository
}

func NewDashboardService(dash *repository.DashboardRepository, views *repository.BlogViewRepository, contacts *repository.ContactRepository, blogs *repository.BlogRepository, audit *repository.AuditLogRepository) *DashboardService {
	return &DashboardService{dash: dash, views: views, contacts: contacts, blogs: blogs, audit: audit}
}

func (s *DashboardService) Stats(ctx context.Context) (*repository.DashboardStats, error) {
	return s.dash.GetDashboardStats(ctx)
}

// Analytics returns daily series for the last days days plus the most read posts.
func (s *DashboardService) Analytics(ctx context.Context, days int) (*Analytics, error) {
	if days <= 0 {
		days = defaultAnalyticsDays
	}
	days = min(days, maxAnalyticsDays)
	a := &Analytics{Days: days}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		a.ViewsByDay, err = s.views.ViewsByDay(ctx, days)
		return err
	})
	g.Go(func() error {
		var err error
		a.MessagesByDay, err = s.contacts.MessagesByDay(ctx, days)
		return err
	})
	g.Go(func() error {
		list, err := s.blogs.TopViewed(ctx, topPostCount)
		a.TopPosts = mapViews(list, "", blogCard)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return a, nil
}

type AuditParams struct {
	Resource string
	UserID   uint
	Page     int
	Limit    int
}

func (s *DashboardService) AuditLog(ctx context.Context, p AuditParams) (Page[models.AuditLog], error) {
	f := repository.ListFilter{Page: p.Page, Limit: p.Limit}.Normalized()
	list, total, err := s.audit.List(ctx, repository.AuditFilter{Resource: p.Resource, UserID: p.UserID, Page: f.Page, Limit: f.Limit})
	if err != nil {
		return Page[models.AuditLog]{}, err
	}
	return newPage(list, total, f.Page, f.Limit), nil
}
