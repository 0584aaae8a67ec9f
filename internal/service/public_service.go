package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"corpsite/internal/domain"
	"corpsite/internal/models"
	"corpsite/internal/observability"
	"corpsite/internal/repository"
)

const (
	homeBlogCount    = 3
	relatedBlogCount = 3
)

// RedirectError reports that a slug belongs to another locale's translation
// of an entity that also exists in the requested locale.
type RedirectError struct {
	Locale string
	Slug   string
}

func (e *RedirectError) Error() string {
	return fmt.Sprintf("moved to /%s/%s", e.Locale, e.Slug)
}

// Visitor identifies a reader for view counting.
type Visitor struct {
	IP        string
	UserAgent string
}

type ViewResult struct {
	Counted   bool  `json:"counted"`
	ViewCount int64 `json:"view_count"`
}

// PublicRepos groups the read side of every content repository.
type PublicRepos struct {
	Blogs        *repository.BlogRepository
	Views        *repository.BlogViewRepository
	Services     *repository.ServiceRepository
	Employees    *repository.EmployeeRepository
	Testimonials *repository.TestimonialRepository
	Branches     *repository.BranchRepository
	Sliders      *repository.SliderRepository
	Statistics   *repository.StatisticRepository
	Media        *repository.YoutubeMediaRepository
	Settings     *repository.SettingRepository
}

// PublicService serves the public site in one locale at a time.
type PublicService struct {
	r   PublicRepos
	now func() time.Time
}

func NewPublicService(r PublicRepos) *PublicService {
	return &PublicService{r: r, now: time.Now}
}

// Home loads every landing page section concurrently. Any failing section
// fails the whole page.
func (s *PublicService) Home(ctx context.Context, locale string) (*HomeData, error) {
	var h HomeData
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		list, err := s.r.Sliders.ListActive(ctx)
		h.Sliders = mapViews(list, locale, sliderView)
		return wrap("sliders", err)
	})
	g.Go(func() error {
		list, err := s.r.Services.ListActive(ctx)
		h.Services = mapViews(list, locale, serviceCard)
		return wrap("services", err)
	})
	g.Go(func() error {
		list, err := s.r.Statistics.ListActive(ctx)
		h.Statistics = mapViews(list, locale, statisticView)
		return wrap("statistics", err)
	})
	g.Go(func() error {
		list, err := s.r.Testimonials.ListActive(ctx)
		h.Testimonials = mapViews(list, locale, testimonialView)
		return wrap("testimonials", err)
	})
	g.Go(func() error {
		list, err := s.r.Blogs.Latest(ctx, s.now(), homeBlogCount)
		h.Blogs = mapViews(list, locale, blogCard)
		return wrap("blogs", err)
	})
	g.Go(func() error {
		list, err := s.r.Employees.ListActive(ctx)
		h.Employees = mapViews(list, locale, employeeView)
		return wrap("employees", err)
	})
	g.Go(func() error {
		list, err := s.r.Media.ListActive(ctx)
		h.Media = mapViews(list, locale, mediaView)
		return wrap("media", err)
	})
	g.Go(func() error {
		list, err := s.r.Branches.ListActive(ctx)
		h.Branches = mapViews(list, locale, branchView)
		return wrap("branches", err)
	})
	g.Go(func() error {
		m, err := s.r.Settings.GetMany(ctx, domain.PublicSettingKeys)
		h.Settings = m
		return wrap("settings", err)
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &h, nil
}

func wrap(section string, err error) error {
	if err != nil {
		return fmt.Errorf("load %s: %w", section, err)
	}
	return nil
}

func (s *PublicService) Blogs(ctx context.Context, locale string, page, limit int) (Page[BlogCard], error) {
	f := repository.ListFilter{Page: page, Limit: limit}.Normalized()
	list, total, err := s.r.Blogs.ListPublished(ctx, s.now(), f.Page, f.Limit)
	if err != nil {
		return Page[BlogCard]{}, err
	}
	return newPage(mapViews(list, locale, blogCard), total, f.Page, f.Limit), nil
}

// findBlog resolves slug to a visible post. A slug of another locale redirects
// when the post has a translation in locale; otherwise that translation is
// served as a fallback.
func (s *PublicService) findBlog(ctx context.Context, locale, slug string) (*models.Blog, error) {
	b, slugLocale, err := s.r.Blogs.FindBySlug(ctx, locale, slug)
	if err != nil {
		return nil, storeErr(err)
	}
	if !b.Visible(s.now()) {
		return nil, ErrNotFound
	}
	if slugLocale != locale {
		for _, t := range b.Translations {
			if t.Locale == locale {
				return nil, &RedirectError{Locale: locale, Slug: t.Slug}
			}
		}
	}
	return b, nil
}

// Blog returns a post by slug and, when v is set, counts the visit.
func (s *PublicService) Blog(ctx context.Context, locale, slug string, v *Visitor) (*BlogDetail, error) {
	b, err := s.findBlog(ctx, locale, slug)
	if err != nil {
		return nil, err
	}
	d := blogDetail(b, locale)
	if v != nil {
		res, err := s.recordView(ctx, b.ID, v)
		if err != nil {
			log.Ctx(ctx).Warn().Err(err).Uint("blog_id", b.ID).Msg("record blog view failed")
		} else {
			d.ViewCount = res.ViewCount
		}
	}
	return d, nil
}

func (s *PublicService) RelatedBlogs(ctx context.Context, locale, slug string) ([]BlogCard, error) {
	b, err := s.findBlog(ctx, locale, slug)
	if err != nil {
		return nil, err
	}
	list, err := s.r.Blogs.Related(ctx, s.now(), b.ID, relatedBlogCount)
	if err != nil {
		return nil, err
	}
	return mapViews(list, locale, blogCard), nil
}

// RecordView counts one view of the post per client IP.
func (s *PublicService) RecordView(ctx context.Context, locale, slug string, v Visitor) (*ViewResult, error) {
	b, err := s.findBlog(ctx, locale, slug)
	var re *RedirectError
	if errors.As(err, &re) {
		// the slug still identifies the post
		b, _, err = s.r.Blogs.FindBySlug(ctx, locale, slug)
		err = storeErr(err)
	}
	if err != nil {
		return nil, err
	}
	return s.recordView(ctx, b.ID, &v)
}

func (s *PublicService) recordView(ctx context.Context, id uint, v *Visitor) (*ViewResult, error) {
	if v.IP == "" {
		return nil, fieldError("ip", "is required")
	}
	counted, n, err := s.r.Views.Record(ctx, id, v.IP, v.UserAgent)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	observability.ObserveBlogView(counted)
	return &ViewResult{Counted: counted, ViewCount: n}, nil
}

func (s *PublicService) Services(ctx context.Context, locale string) ([]ServiceCard, error) {
	list, err := s.r.Services.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return mapViews(list, locale, serviceCard), nil
}

func (s *PublicService) Service(ctx context.Context, locale, slug string) (*ServiceDetail, error) {
	svc, slugLocale, err := s.r.Services.FindBySlug(ctx, locale, slug)
	if err != nil {
		return nil, storeErr(err)
	}
	if slugLocale != locale {
		for _, t := range svc.Translations {
			if t.Locale == locale {
				return nil, &RedirectError{Locale: locale, Slug: t.Slug}
			}
		}
	}
	return serviceDetail(svc, locale), nil
}

func (s *PublicService) Employees(ctx context.Context, locale string) ([]EmployeeView, error) {
	list, err := s.r.Employees.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return mapViews(list, locale, employeeView), nil
}

func (s *PublicService) Testimonials(ctx context.Context, locale string) ([]TestimonialView, error) {
	list, err := s.r.Testimonials.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return mapViews(list, locale, testimonialView), nil
}

func (s *PublicService) Branches(ctx context.Context, locale string) ([]BranchView, error) {
	list, err := s.r.Branches.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return mapViews(list, locale, branchView), nil
}

func (s *PublicService) Sliders(ctx context.Context, locale string) ([]SliderView, error) {
	list, err := s.r.Sliders.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return mapViews(list, locale, sliderView), nil
}

func (s *PublicService) Statistics(ctx context.Context, locale string) ([]StatisticView, error) {
	list, err := s.r.Statistics.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return mapViews(list, locale, statisticView), nil
}

func (s *PublicService) Media(ctx context.Context, locale string) ([]MediaView, error) {
	list, err := s.r.Media.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return mapViews(list, locale, mediaView), nil
}
