package service

import (
	"context"
	"strings"

	"corpsite/internal/domain"
	"corpsite/internal/models"
	"corpsite/internal/repository"
)

const resourceTestimonial = "testimonial"

type TestimonialTranslationInput struct {
	AuthorName  string `json:"author_name" validate:"required,max=255"`
	AuthorTitle string `json:"author_title" validate:"max=255"`
	Content     string `json:"content" validate:"required,max=5000"`
}

type TestimonialInput struct {
	ImageURL     string                                 `json:"image_url" validate:"omitempty,url,max=512"`
	Rating       int                                    `json:"rating" validate:"min=1,max=5"`
	IsActive     *bool                                  `json:"is_active"`
	SortOrder    int                                    `json:"sort_order" validate:"min=0"`
	Translations map[string]TestimonialTranslationInput `json:"translations" validate:"dive,keys,locale,endkeys"`
}

type TestimonialService struct {
	repo *repository.TestimonialRepository
	pub  *Publisher
}

func NewTestimonialService(repo *repository.TestimonialRepository, pub *Publisher) *TestimonialService {
	return &TestimonialService{repo: repo, pub: pub}
}

func (s *TestimonialService) prepare(in *TestimonialInput, creating bool) ([]models.TestimonialTranslation, error) {
	ve := validateStruct(in)
	if creating {
		requireDefaultLocale(ve, in.Translations)
	}
	if err := ve.Err(); err != nil {
		return nil, err
	}
	var trs []models.TestimonialTranslation
	for _, loc := range orderedLocales(in.Translations) {
		t := in.Translations[loc]
		trs = append(trs, models.TestimonialTranslation{
			Locale:      loc,
			AuthorName:  strings.TrimSpace(t.AuthorName),
			AuthorTitle: strings.TrimSpace(t.AuthorTitle),
			Content:     strings.TrimSpace(t.Content),
		})
	}
	return trs, nil
}

func (s *TestimonialService) apply(m *models.Testimonial, in *TestimonialInput) {
	m.ImageURL = strings.TrimSpace(in.ImageURL)
	m.Rating = in.Rating
	m.IsActive = boolOr(in.IsActive, m.IsActive || m.ID == 0)
	m.SortOrder = in.SortOrder
}

func (s *TestimonialService) Create(ctx context.Context, in TestimonialInput) (*models.Testimonial, error) {
	trs, err := s.prepare(&in, true)
	if err != nil {
		return nil, err
	}
	m := &models.Testimonial{}
	s.apply(m, &in)
	if err := s.repo.Create(ctx, m, trs); err != nil {
		return nil, storeErr(err)
	}
	s.pub.Changed(ctx, resourceTestimonial, ActionCreate, m.ID, domain.TagTestimonials, domain.TagHome)
	return s.Get(ctx, m.ID)
}

func (s *TestimonialService) Update(ctx context.Context, id uint, in TestimonialInput) (*models.Testimonial, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err)
	}
	trs, err := s.prepare(&in, false)
	if err != nil {
		return nil, err
	}
	s.apply(m, &in)
	if err := s.repo.Update(ctx, m, trs); err != nil {
		return nil, storeErr(err)
	}
	s.pub.Changed(ctx, resourceTestimonial, ActionUpdate, id, domain.TagTestimonials, domain.TagHome)
	return s.Get(ctx, id)
}

func (s *TestimonialService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeErr(err)
	}
	s.pub.Changed(ctx, resourceTestimonial, ActionDelete, id, domain.TagTestimonials, domain.TagHome)
	return nil
}

func (s *TestimonialService) Get(ctx context.Context, id uint) (*models.Testimonial, error) {
	m, err := s.repo.GetByID(ctx, id)
	return m, storeErr(err)
}

func (s *TestimonialService) List(ctx context.Context, p ListParams) (Page[models.Testimonial], error) {
	f := p.filter()
	list, total, err := s.repo.List(ctx, f)
	if err != nil {
		return Page[models.Testimonial]{}, err
	}
	return newPage(list, total, f.Page, f.Limit), nil
}

func (s *TestimonialService) Reorder(ctx context.Context, ids []uint) error {
	if err := validateIDs(ids); err != nil {
		return err
	}
	if err := s.repo.Reorder(ctx, ids); err != nil {
		return storeErr(err)
	}
	s.pub.Changed(ctx, resourceTestimonial, ActionReorder, 0, domain.TagTestimonials, domain.TagHome)
	return nil
}
