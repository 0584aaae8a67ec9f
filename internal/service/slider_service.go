package service

import (
	"context"
	"strings"

	"corpsite/internal/domain"
	"corpsite/internal/models"
	"corpsite/internal/repository"
)

const resourceSlider = "slider"

type SliderTranslationInput struct {
	Title      string `json:"title" validate:"required,max=255"`
	Subtitle   string `json:"subtitle" validate:"max=512"`
	ButtonText string `json:"button_text" validate:"max=64"`
}

type SliderInput struct {
	ImageURL     string                            `json:"image_url" validate:"required,url,max=512"`
	LinkURL      string                            `json:"link_url" validate:"omitempty,max=512"`
	IsActive     *bool                             `json:"is_active"`
	SortOrder    int                               `json:"sort_order" validate:"min=0"`
	Translations map[string]SliderTranslationInput `json:"translations" validate:"dive,keys,locale,endkeys"`
}

type SliderService struct {
	repo *repository.SliderRepository
	pub  *Publisher
}

func NewSliderService(repo *repository.SliderRepository, pub *Publisher) *SliderService {
	return &SliderService{repo: repo, pub: pub}
}

func (s *SliderService) prepare(in *SliderInput, creating bool) ([]models.SliderTranslation, error) {
	ve := validateStruct(in)
	if creating {
		requireDefaultLocale(ve, in.Translations)
	}
	if err := ve.Err(); err != nil {
		return nil, err
	}
	var trs []models.SliderTranslation
	for _, loc := range orderedLocales(in.Translations) {
		t := in.Translations[loc]
		trs = append(trs, models.SliderTranslation{
			Locale:     loc,
			Title:      strings.TrimSpace(t.Title),
			Subtitle:   strings.TrimSpace(t.Subtitle),
			ButtonText: strings.TrimSpace(t.ButtonText),
		})
	}
	return trs, nil
}

func (s *SliderService) apply(m *models.Slider, in *SliderInput) {
	m.ImageURL = strings.TrimSpace(in.ImageURL)
	m.LinkURL = strings.TrimSpace(in.LinkURL)
	m.IsActive = boolOr(in.IsActive, m.IsActive || m.ID == 0)
	m.SortOrder = in.SortOrder
}

func (s *SliderService) Create(ctx context.Context, in SliderInput) (*models.Slider, error) {
	trs, err := s.prepare(&in, true)
	if err != nil {
		return nil, err
	}
	m := &models.Slider{}
	s.apply(m, &in)
	if err := s.repo.Create(ctx, m, trs); err != nil {
		return nil, storeErr(err)
	}
	s.pub.Changed(ctx, resourceSlider, ActionCreate, m.ID, domain.TagSliders, domain.TagHome)
	return s.Get(ctx, m.ID)
}

func (s *SliderService) Update(ctx context.Context, id uint, in SliderInput) (*models.Slider, error) {
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
	s.pub.Changed(ctx, resourceSlider, ActionUpdate, id, domain.TagSliders, domain.TagHome)
	return s.Get(ctx, id)
}

func (s *SliderService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeErr(err)
	}
	s.pub.Changed(ctx, resourceSlider, ActionDelete, id, domain.TagSliders, domain.TagHome)
	return nil
}

func (s *SliderService) Get(ctx context.Context, id uint) (*models.Slider, error) {
	m, err := s.repo.GetByID(ctx, id)
	return m, storeErr(err)
}

func (s *SliderService) List(ctx context.Context, p ListParams) (Page[models.Slider], error) {
	f := p.filter()
	list, total, err := s.repo.List(ctx, f)
	if err != nil {
		return Page[models.Slider]{}, err
	}
	return newPage(list, total, f.Page, f.Limit), nil
}

func (s *SliderService) Reorder(ctx context.Context, ids []uint) error {
	if err := validateIDs(ids); err != nil {
		return err
	}
	if err := s.repo.Reorder(ctx, ids); err != nil {
		return storeErr(err)
	}
	s.pub.Changed(ctx, resourceSlider, ActionReorder, 0, domain.TagSliders, domain.TagHome)
	return nil
}
