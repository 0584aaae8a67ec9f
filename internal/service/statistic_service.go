package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"corpsite/internal/domain"
	"corpsite/internal/models"
	"corpsite/internal/repository"
)

const resourceStatistic = "statistic"

// maxStatistic is the exclusive bound of a decimal(14,2) column.
var maxStatistic = decimal.New(1, 12)

type StatisticTranslationInput struct {
	Label string `json:"label" validate:"required,max=255"`
}

type StatisticInput struct {
	Value        decimal.Decimal                      `json:"value"`
	Suffix       string                               `json:"suffix" validate:"max=16"`
	Icon         string                               `json:"icon" validate:"max=255"`
	IsActive     *bool                                `json:"is_active"`
	SortOrder    int                                  `json:"sort_order" validate:"min=0"`
	Translations map[string]StatisticTranslationInput `json:"translations" validate:"dive,keys,locale,endkeys"`
}

type StatisticService struct {
	repo *repository.StatisticRepository
	pub  *Publisher
}

func NewStatisticService(repo *repository.StatisticRepository, pub *Publisher) *StatisticService {
	return &StatisticService{repo: repo, pub: pub}
}

func (s *StatisticService) prepare(in *StatisticInput, creating bool) ([]models.StatisticTranslation, error) {
	ve := validateStruct(in)
	if creating {
		requireDefaultLocale(ve, in.Translations)
	}
	if in.Value.IsNegative() {
		ve.Add("value", "must not be negative")
	} else if in.Value.GreaterThanOrEqual(maxStatistic) {
		ve.Add("value", "is out of range")
	}
	if err := ve.Err(); err != nil {
		return nil, err
	}
	var trs []models.StatisticTranslation
	for _, loc := range orderedLocales(in.Translations) {
		t := in.Translations[loc]
		trs = append(trs, models.StatisticTranslation{
			Locale: loc,
			Label:  strings.TrimSpace(t.Label),
		})
	}
	return trs, nil
}

func (s *StatisticService) apply(m *models.Statistic, in *StatisticInput) {
	m.Value = in.Value.Round(2)
	m.Suffix = strings.TrimSpace(in.Suffix)
	m.Icon = strings.TrimSpace(in.Icon)
	m.IsActive = boolOr(in.IsActive, m.IsActive || m.ID == 0)
	m.SortOrder = in.SortOrder
}

func (s *StatisticService) Create(ctx context.Context, in StatisticInput) (*models.Statistic, error) {
	trs, err := s.prepare(&in, true)
	if err != nil {
		return nil, err
	}
	m := &models.Statistic{}
	s.apply(m, &in)
	if err := s.repo.Create(ctx, m, trs); err != nil {
		return nil, storeErr(err)
	}
	s.pub.Changed(ctx, resourceStatistic, ActionCreate, m.ID, domain.TagStatistics, domain.TagHome)
	return s.Get(ctx, m.ID)
}

func (s *StatisticService) Update(ctx context.Context, id uint, in StatisticInput) (*models.Statistic, error) {
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
	s.pub.Changed(ctx, resourceStatistic, ActionUpdate, id, domain.TagStatistics, domain.TagHome)
	return s.Get(ctx, id)
}

func (s *StatisticService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeErr(err)
	}
	s.pub.Changed(ctx, resourceStatistic, ActionDelete, id, domain.TagStatistics, domain.TagHome)
	return nil
}

func (s *StatisticService) Get(ctx context.Context, id uint) (*models.Statistic, error) {
	m, err := s.repo.GetByID(ctx, id)
	return m, storeErr(err)
}

func (s *StatisticService) List(ctx context.Context, p ListParams) (Page[models.Statistic], error) {
	f := p.filter()
	list, total, err := s.repo.List(ctx, f)
	if err != nil {
		return Page[models.Statistic]{}, err
	}
	return newPage(list, total, f.Page, f.Limit), nil
}

func (s *StatisticService) Reorder(ctx context.Context, ids []uint) error {
	if err := validateIDs(ids); err != nil {
		return err
	}
	if err := s.repo.Reorder(ctx, ids); err != nil {
		return storeErr(err)
	}
	s.pub.Changed(ctx, resourceStatistic, ActionReorder, 0, domain.TagStatistics, domain.TagHome)
	return nil
}
