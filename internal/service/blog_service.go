package service

import (
	"context"
	"strings"
	"time"

	"corpsite/internal/domain"
	"corpsite/internal/models"
	"corpsite/internal/repository"
	"corpsite/pkg/richtext"
)

const resourceBlog = "blog"

type BlogTranslationInput struct {
	Title   string    `json:"title" validate:"required,max=255"`
	Slug    string    `json:"slug" validate:"max=191"`
	Summary string    `json:"summary" validate:"max=2000"`
	Content string    `json:"content" validate:"max=1000000"`
	Seo     *SeoInput `json:"seo"`
}

type BlogInput struct {
	ImageURL     string                          `json:"image_url" validate:"omitempty,url,max=512"`
	IsPublished  *bool                           `json:"is_published"`
	PublishedAt  *time.Time                      `json:"published_at"`
	SortOrder    int                             `json:"sort_order" validate:"min=0"`
	Translations map[string]BlogTranslationInput `json:"translations" validate:"dive,keys,locale,endkeys"`
}

type BlogService struct {
	repo *repository.BlogRepository
	pub  *Publisher
}

func NewBlogService(repo *repository.BlogRepository, pub *Publisher) *BlogService {
	return &BlogService{repo: repo, pub: pub}
}

func (s *BlogService) prepare(ctx context.Context, in *BlogInput, id uint, creating bool) ([]models.BlogTranslation, []models.SeoMeta, error) {
	ve := validateStruct(in)
	if creating {
		requireDefaultLocale(ve, in.Translations)
	}
	if err := ve.Err(); err != nil {
		return nil, nil, err
	}
	var trs []models.BlogTranslation
	var seo []models.SeoMeta
	slugs := map[string]string{}
	for _, loc := range orderedLocales(in.Translations) {
		t := in.Translations[loc]
		slug := normalizeSlug(t.Slug, t.Title)
		slugs[loc] = slug
		trs = append(trs, models.BlogTranslation{
			Locale:  loc,
			Slug:    slug,
			Title:   strings.TrimSpace(t.Title),
			Summary: strings.TrimSpace(t.Summary),
			Content: richtext.Sanitize(t.Content),
		})
		if t.Seo != nil {
			seo = append(seo, t.Seo.model(loc))
		}
	}
	if err := checkSlugs(ctx, ve, s.repo.SlugTaken, slugs, id); err != nil {
		return nil, nil, err
	}
	return trs, seo, ve.Err()
}

func (s *BlogService) Create(ctx context.Context, in BlogInput) (*models.Blog, error) {
	trs, seo, err := s.prepare(ctx, &in, 0, true)
	if err != nil {
		return nil, err
	}
	b := &models.Blog{
		ImageURL:    strings.TrimSpace(in.ImageURL),
		IsPublished: boolOr(in.IsPublished, true),
		PublishedAt: in.PublishedAt,
		SortOrder:   in.SortOrder,
	}
	if b.IsPublished && b.PublishedAt == nil {
		now := time.Now()
		b.PublishedAt = &now
	}
	if err := s.repo.Create(ctx, b, trs, seo); err != nil {
		return nil, storeErr(err)
	}
	s.pub.Changed(ctx, resourceBlog, ActionCreate, b.ID, domain.TagBlogs, domain.TagHome)
	return s.Get(ctx, b.ID)
}

func (s *BlogService) Update(ctx context.Context, id uint, in BlogInput) (*models.Blog, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err)
	}
	trs, seo, err := s.prepare(ctx, &in, id, false)
	if err != nil {
		return nil, err
	}
	b.ImageURL = strings.TrimSpace(in.ImageURL)
	b.SortOrder = in.SortOrder
	b.IsPublished = boolOr(in.IsPublished, b.IsPublished)
	if in.PublishedAt != nil {
		b.PublishedAt = in.PublishedAt
	}
	if b.IsPublished && b.PublishedAt == nil {
		now := time.Now()
		b.PublishedAt = &now
	}
	if err := s.repo.Update(ctx, b, trs, seo); err != nil {
		return nil, storeErr(err)
	}
	s.pub.Changed(ctx, resourceBlog, ActionUpdate, id, domain.TagBlogs, domain.TagHome)
	return s.Get(ctx, id)
}

func (s *BlogService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeErr(err)
	}
	s.pub.Changed(ctx, resourceBlog, ActionDelete, id, domain.TagBlogs, domain.TagHome)
	return nil
}

func (s *BlogService) Get(ctx context.Context, id uint) (*models.Blog, error) {
	b, err := s.repo.GetByID(ctx, id)
	return b, storeErr(err)
}

func (s *BlogService) List(ctx context.Context, p ListParams) (Page[models.Blog], error) {
	f := p.filter()
	list, total, err := s.repo.List(ctx, f)
	if err != nil {
		return Page[models.Blog]{}, err
	}
	return newPage(list, total, f.Page, f.Limit), nil
}

func (s *BlogService) Reorder(ctx context.Context, ids []uint) error {
	if err := validateIDs(ids); err != nil {
		return err
	}
	if err := s.repo.Reorder(ctx, ids); err != nil {
		return storeErr(err)
	}
	s.pub.Changed(ctx, resourceBlog, ActionReorder, 0, domain.TagBlogs, domain.TagHome)
	return nil
}
