package service

import (
	"context"
	"strings"

	"corpsite/internal/domain"
	"corpsite/internal/models"
	"corpsite/internal/repository"
)

const resourceBranch = "branch"

type BranchTranslationInput struct {
	Name         string `json:"name" validate:"required,max=255"`
	Address      string `json:"address" validate:"required,max=512"`
	WorkingHours string `json:"working_hours" validate:"max=255"`
}

type BranchInput struct {
	Phone        string                            `json:"phone" validate:"omitempty,phone"`
	Email        string                            `json:"email" validate:"omitempty,email,max=255"`
	MapURL       string                            `json:"map_url" validate:"omitempty,url,max=1024"`
	Latitude     *float64                          `json:"latitude" validate:"omitempty,latitude"`
	Longitude    *float64                          `json:"longitude" validate:"omitempty,longitude"`
	IsHeadOffice bool                              `json:"is_head_office"`
	IsActive     *bool                             `json:"is_active"`
	SortOrder    int                               `json:"sort_order" validate:"min=0"`
	Translations map[string]BranchTranslationInput `json:"translations" validate:"dive,keys,locale,endkeys"`
}

type BranchService struct {
	repo *repository.BranchRepository
	pub  *Publisher
}

func NewBranchService(repo *repository.BranchRepository, pub *Publisher) *BranchService {
	return &BranchService{repo: repo, pub: pub}
}

func (s *BranchService) prepare(in *BranchInput, creating bool) ([]models.BranchTranslation, error) {
	ve := validateStruct(in)
	if creating {
		requireDefaultLocale(ve, in.Translations)
	}
	if (in.Latitude == nil) != (in.Longitude == nil) {
		ve.Add("latitude", "latitude and longitude must be set together")
	}
	if err := ve.Err(); err != nil {
		return nil, err
	}
	var trs []models.BranchTranslation
	for _, loc := range orderedLocales(in.Translations) {
		t := in.Translations[loc]
		trs = append(trs, models.BranchTranslation{
			Locale:       loc,
			Name:         strings.TrimSpace(t.Name),
			Address:      strings.TrimSpace(t.Address),
			WorkingHours: strings.TrimSpace(t.WorkingHours),
		})
	}
	return trs, nil
}

func (s *BranchService) apply(m *models.Branch, in *BranchInput) {
	m.Phone = strings.TrimSpace(in.Phone)
	m.Email = strings.TrimSpace(in.Email)
	m.MapURL = strings.TrimSpace(in.MapURL)
	m.Latitude = in.Latitude
	m.Longitude = in.Longitude
	m.IsHeadOffice = in.IsHeadOffice
	m.IsActive = boolOr(in.IsActive, m.IsActive || m.ID == 0)
	m.SortOrder = in.SortOrder
}

func (s *BranchService) Create(ctx context.Context, in BranchInput) (*models.Branch, error) {
	trs, err := s.prepare(&in, true)
	if err != nil {
		return nil, err
	}
	m := &models.Branch{}
	s.apply(m, &in)
	if err := s.repo.Create(ctx, m, trs); err != nil {
		return nil, storeErr(err)
	}
	s.pub.Changed(ctx, resourceBranch, ActionCreate, m.ID, domain.TagBranches, domain.TagHome)
	return s.Get(ctx, m.ID)
}

func (s *BranchService) Update(ctx context.Context, id uint, in BranchInput) (*models.Branch, error) {
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
	s.pub.Changed(ctx, resourceBranch, ActionUpdate, id, domain.TagBranches, domain.TagHome)
	return s.Get(ctx, id)
}

func (s *BranchService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeErr(err)
	}
	s.pub.Changed(ctx, resourceBranch, ActionDelete, id, domain.TagBranches, domain.TagHome)
	return nil
}

func (s *BranchService) Get(ctx context.Context, id uint) (*models.Branch, error) {
	m, err := s.repo.GetByID(ctx, id)
	return m, storeErr(err)
}

func (s *BranchService) List(ctx context.Context, p ListParams) (Page[models.Branch], error) {
	f := p.filter()
	list, total, err := s.repo.List(ctx, f)
	if err != nil {
		return Page[models.Branch]{}, err
	}
	return newPage(list, total, f.Page, f.Limit), nil
}

func (s *BranchService) Reorder(ctx context.Context, ids []uint) error {
	if err := validateIDs(ids); err != nil {
		return err
	}
	if err := s.repo.Reorder(ctx, ids); err != nil {
		return storeErr(err)
	}
	s.pub.Changed(ctx, resourceBranch, ActionReorder, 0, domain.TagBranches, domain.TagHome)
	return nil
}
