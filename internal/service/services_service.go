package service

import (
	"context"
	"strings"

	"corpsite/internal/domain"
	"corpsite/internal/models"
	"corpsite/internal/repository"
	"corpsite/pkg/richtext"
)

const resourceService = "service"

type ServiceTranslationInput struct {
	Title   string    `json:"title" validate:"required,max=255"`
	Slug    string    `json:"slug" validate:"max=191"`
	Summary string    `json:"summary" validate:"max=2000"`
	Content string    `json:"content" validate:"max=1000000"`
	Seo     *SeoInput `json:"seo"`
}

type ServiceInput struct {
	ImageURL     string                             `json:"image_url" validate:"omitempty,url,max=512"`
	IconURL      string                             `json:"icon_url" validate:"omitempty,url,max=512"`
	IsActive     *bool                              `json:"is_active"`
	SortOrder    int                                `json:"sort_order" validate:"min=0"`
	Translations map[string]ServiceTranslationInput `json:"translations" validate:"dive,keys,locale,endkeys"`
}

// ServicesService manages the company's service pages.
type ServicesService struct {
	repo *repository.ServiceRepository
	pub  *Publisher
}

func NewServicesService(repo *repository.ServiceRepository, pub *Publisher) *ServicesService {
	return &ServicesService{repo: repo, pub: pub}
}

func (s *ServicesService) prepare(ctx context.Context, in *ServiceInput, id uint, creating bool) ([]models.ServiceTranslation, []models.SeoMeta, error) {
	ve := validateStruct(in)
	if creating {
		requireDefaultLocale(ve, in.Translations)
	}
	if err := ve.Err(); err != nil {
		return nil, nil, err
	}
	var trs []models.ServiceTranslation
	var seo []models.SeoMeta
	slugs := map[string]string{}
	for _, loc := range orderedLocales(in.Translations) {
		t := in.Translations[loc]
		slug := normalizeSlug(t.Slug, t.Title)
		slugs[loc] = slug
		trs = append(trs, models.ServiceTranslation{
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

func (s *ServicesService) Create(ctx context.Context, in ServiceInput) (*models.Service, error) {
	trs, seo, err := s.prepare(ctx, &in, 0, true)
	if err != nil {
		return nil, err
	}
	m := &models.Service{
		ImageURL:  strings.TrimSpace(in.ImageURL),
		IconURL:   strings.TrimSpace(in.IconURL),
		IsActive:  boolOr(in.IsActive, true),
		SortOrder: in.SortOrder,
	}
	if err := s.repo.Create(ctx, m, trs, seo); err != nil {
		return nil, storeErr(err)
	}
	s.pub.Changed(ctx, resourceService, ActionCreate, m.ID, domain.TagServices, domain.TagHome)
	return s.Get(ctx, m.ID)
}

func (s *ServicesService) Update(ctx context.Context, id uint, in ServiceInput) (*models.Service, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err)
	}
	trs, seo, err := s.prepare(ctx, &in, id, false)
	if err != nil {
		return nil, err
	}
	m.ImageURL = strings.TrimSpace(in.ImageURL)
	m.IconURL = strings.TrimSpace(in.IconURL)
	m.IsActive = boolOr(in.IsActive, m.IsActive)
	m.SortOrder = in.SortOrder
	if err := s.repo.Update(ctx, m, trs, seo); err != nil {
		return nil, storeErr(err)
	}
	s.pub.Changed(ctx, resourceService, ActionUpdate, id, domain.TagServices, domain.TagHome)
	return s.Get(ctx, id)
}

func (s *ServicesService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeErr(err)
	}
	s.pub.Changed(ctx, resourceService, ActionDelete, id, domain.TagServices, domain.TagHome)
	return nil
}

func (s *ServicesService) Get(ctx context.Context, id uint) (*models.Service, error) {
	m, err := s.repo.GetByID(ctx, id)
	return m, storeErr(err)
}

func (s *ServicesService) List(ctx context.Context, p ListParams) (Page[models.Service], error) {
	f := p.filter()
	list, total, err := s.repo.List(ctx, f)
	if err != nil {
		return Page[models.Service]{}, err
	}
	return newPage(list, total, f.Page, f.Limit), nil
}

func (s *ServicesService) Reorder(ctx context.Context, ids []uint) error {
	if err := validateIDs(ids); err != nil {
		return err
	}
	if err := s.repo.Reorder(ctx, ids); err != nil {
		return storeErr(err)
	}
	s.pub.Changed(ctx, resourceService, ActionReorder, 0, domain.TagServices, domain.TagHome)
	return nil
}
