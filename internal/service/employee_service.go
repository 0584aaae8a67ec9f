package service

import (
	"context"
	"strings"

	"corpsite/internal/domain"
	"corpsite/internal/models"
	"corpsite/internal/repository"
)

const resourceEmployee = "employee"

type EmployeeTranslationInput struct {
	FullName string `json:"full_name" validate:"required,max=255"`
	Position string `json:"position" validate:"required,max=255"`
	Bio      string `json:"bio" validate:"max=5000"`
}

type EmployeeInput struct {
	ImageURL     string                              `json:"image_url" validate:"omitempty,url,max=512"`
	Email        string                              `json:"email" validate:"omitempty,email,max=255"`
	Phone        string                              `json:"phone" validate:"omitempty,phone"`
	LinkedInURL  string                              `json:"linkedin_url" validate:"omitempty,url,max=512"`
	IsActive     *bool                               `json:"is_active"`
	SortOrder    int                                 `json:"sort_order" validate:"min=0"`
	Translations map[string]EmployeeTranslationInput `json:"translations" validate:"dive,keys,locale,endkeys"`
}

type EmployeeService struct {
	repo *repository.EmployeeRepository
	pub  *Publisher
}

func NewEmployeeService(repo *repository.EmployeeRepository, pub *Publisher) *EmployeeService {
	return &EmployeeService{repo: repo, pub: pub}
}

func (s *EmployeeService) prepare(in *EmployeeInput, creating bool) ([]models.EmployeeTranslation, error) {
	ve := validateStruct(in)
	if creating {
		requireDefaultLocale(ve, in.Translations)
	}
	if err := ve.Err(); err != nil {
		return nil, err
	}
	var trs []models.EmployeeTranslation
	for _, loc := range orderedLocales(in.Translations) {
		t := in.Translations[loc]
		trs = append(trs, models.EmployeeTranslation{
			Locale:   loc,
			FullName: strings.TrimSpace(t.FullName),
			Position: strings.TrimSpace(t.Position),
			Bio:      strings.TrimSpace(t.Bio),
		})
	}
	return trs, nil
}

func (s *EmployeeService) apply(m *models.Employee, in *EmployeeInput) {
	m.ImageURL = strings.TrimSpace(in.ImageURL)
	m.Email = strings.TrimSpace(in.Email)
	m.Phone = strings.TrimSpace(in.Phone)
	m.LinkedInURL = strings.TrimSpace(in.LinkedInURL)
	m.IsActive = boolOr(in.IsActive, m.IsActive || m.ID == 0)
	m.SortOrder = in.SortOrder
}

func (s *EmployeeService) Create(ctx context.Context, in EmployeeInput) (*models.Employee, error) {
	trs, err := s.prepare(&in, true)
	if err != nil {
		return nil, err
	}
	m := &models.Employee{}
	s.apply(m, &in)
	if err := s.repo.Create(ctx, m, trs); err != nil {
		return nil, storeErr(err)
	}
	s.pub.Changed(ctx, resourceEmployee, ActionCreate, m.ID, domain.TagEmployees, domain.TagHome)
	return s.Get(ctx, m.ID)
}

func (s *EmployeeService) Update(ctx context.Context, id uint, in EmployeeInput) (*models.Employee, error) {
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
	s.pub.Changed(ctx, resourceEmployee, ActionUpdate, id, domain.TagEmployees, domain.TagHome)
	return s.Get(ctx, id)
}

func (s *EmployeeService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeErr(err)
	}
	s.pub.Changed(ctx, resourceEmployee, ActionDelete, id, domain.TagEmployees, domain.TagHome)
	return nil
}

func (s *EmployeeService) Get(ctx context.Context, id uint) (*models.Employee, error) {
	m, err := s.repo.GetByID(ctx, id)
	return m, storeErr(err)
}

func (s *EmployeeService) List(ctx context.Context, p ListParams) (Page[models.Employee], error) {
	f := p.filter()
	list, total, err := s.repo.List(ctx, f)
	if err != nil {
		return Page[models.Employee]{}, err
	}
	return newPage(list, total, f.Page, f.Limit), nil
}

func (s *EmployeeService) Reorder(ctx context.Context, ids []uint) error {
	if err := validateIDs(ids); err != nil {
		return err
	}
	if err := s.repo.Reorder(ctx, ids); err != nil {
		return storeErr(err)
	}
	s.pub.Changed(ctx, resourceEmployee, ActionReorder, 0, domain.TagEmployees, domain.TagHome)
	return nil
}
