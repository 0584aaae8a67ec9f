package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"corpsite/internal/models"
	"corpsite/internal/repository"
)

// contentCase drives one translatable section through its service using a
// single text field per locale.
type contentCase struct {
	name    string
	create  func(ctx context.Context, texts map[string]string) (uint, error)
	update  func(ctx context.Context, id uint, texts map[string]string) error
	delete  func(ctx context.Context, id uint) error
	reorder func(ctx context.Context, ids []uint) error
	texts   func(ctx context.Context, id uint) (map[string]string, error)
}

func textsOf[T models.Localized](rows []T, text func(T) string) map[string]string {
	out := make(map[string]string, len(rows))
	for _, r := range rows {
		out[r.LocaleCode()] = text(r)
	}
	return out
}

func contentCases(env *testEnv) []contentCase {
	services := env.services()
	employees := NewEmployeeService(repository.NewEmployeeRepository(env.db), env.pub)
	testimonials := NewTestimonialService(repository.NewTestimonialRepository(env.db), env.pub)
	branches := NewBranchService(repository.NewBranchRepository(env.db), env.pub)
	sliders := NewSliderService(repository.NewSliderRepository(env.db), env.pub)
	statistics := NewStatisticService(repository.NewStatisticRepository(env.db), env.pub)

	serviceIn := func(texts map[string]string) ServiceInput {
		in := ServiceInput{Translations: map[string]ServiceTranslationInput{}}
		for loc, s := range texts {
			in.Translations[loc] = ServiceTranslationInput{Title: s}
		}
		return in
	}
	employeeIn := func(texts map[string]string) EmployeeInput {
		in := EmployeeInput{Translations: map[string]EmployeeTranslationInput{}}
		for loc, s := range texts {
			in.Translations[loc] = EmployeeTranslationInput{FullName: s, Position: "Engineer"}
		}
		return in
	}
	testimonialIn := func(texts map[string]string) TestimonialInput {
		in := TestimonialInput{Rating: 5, Translations: map[string]TestimonialTranslationInput{}}
		for loc, s := range texts {
			in.Translations[loc] = TestimonialTranslationInput{AuthorName: s, Content: "Great work"}
		}
		return in
	}
	branchIn := func(texts map[string]string) BranchInput {
		in := BranchInput{Translations: map[string]BranchTranslationInput{}}
		for loc, s := range texts {
			in.Translations[loc] = BranchTranslationInput{Name: s, Address: "Main street 1"}
		}
		return in
	}
	sliderIn := func(texts map[string]string) SliderInput {
		in := SliderInput{ImageURL: "https://example.com/slide.jpg", Translations: map[string]SliderTranslationInput{}}
		for loc, s := range texts {
			in.Translations[loc] = SliderTranslationInput{Title: s}
		}
		return in
	}
	statisticIn := func(texts map[string]string) StatisticInput {
		in := StatisticInput{Value: decimal.NewFromInt(120), Translations: map[string]StatisticTranslationInput{}}
		for loc, s := range texts {
			in.Translations[loc] = StatisticTranslationInput{Label: s}
		}
		return in
	}

	return []contentCase{
		{
			name: "service",
			create: func(ctx context.Context, texts map[string]string) (uint, error) {
				m, err := services.Create(ctx, serviceIn(texts))
				if err != nil {
					return 0, err
				}
				return m.ID, nil
			},
			update: func(ctx context.Context, id uint, texts map[string]string) error {
				_, err := services.Update(ctx, id, serviceIn(texts))
				return err
			},
			delete:  services.Delete,
			reorder: services.Reorder,
			texts: func(ctx context.Context, id uint) (map[string]string, error) {
				m, err := services.Get(ctx, id)
				if err != nil {
					return nil, err
				}
				return textsOf(m.Translations, func(t models.ServiceTranslation) string { return t.Title }), nil
			},
		},
		{
			name: "employee",
			create: func(ctx context.Context, texts map[string]string) (uint, error) {
				m, err := employees.Create(ctx, employeeIn(texts))
				if err != nil {
					return 0, err
				}
				return m.ID, nil
			},
			update: func(ctx context.Context, id uint, texts map[string]string) error {
				_, err := employees.Update(ctx, id, employeeIn(texts))
				return err
			},
			delete:  employees.Delete,
			reorder: employees.Reorder,
			texts: func(ctx context.Context, id uint) (map[string]string, error) {
				m, err := employees.Get(ctx, id)
				if err != nil {
					return nil, err
				}
				return textsOf(m.Translations, func(t models.EmployeeTranslation) string { return t.FullName }), nil
			},
		},
		{
			name: "testimonial",
			create: func(ctx context.Context, texts map[string]string) (uint, error) {
				m, err := testimonials.Create(ctx, testimonialIn(texts))
				if err != nil {
					return 0, err
				}
				return m.ID, nil
			},
			update: func(ctx context.Context, id uint, texts map[string]string) error {
				_, err := testimonials.Update(ctx, id, testimonialIn(texts))
				return err
			},
			delete:  testimonials.Delete,
			reorder: testimonials.Reorder,
			texts: func(ctx context.Context, id uint) (map[string]string, error) {
				m, err := testimonials.Get(ctx, id)
				if err != nil {
					return nil, err
				}
				return textsOf(m.Translations, func(t models.TestimonialTranslation) string { return t.AuthorName }), nil
			},
		},
		{
			name: "branch",
			create: func(ctx context.Context, texts map[string]string) (uint, error) {
				m, err := branches.Create(ctx, branchIn(texts))
				if err != nil {
					return 0, err
				}
				return m.ID, nil
			},
			update: func(ctx context.Context, id uint, texts map[string]string) error {
				_, err := branches.Update(ctx, id, branchIn(texts))
				return err
			},
			delete:  branches.Delete,
			reorder: branches.Reorder,
			texts: func(ctx context.Context, id uint) (map[string]string, error) {
				m, err := branches.Get(ctx, id)
				if err != nil {
					return nil, err
				}
				return textsOf(m.Translations, func(t models.BranchTranslation) string { return t.Name }), nil
			},
		},
		{
			name: "slider",
			create: func(ctx context.Context, texts map[string]string) (uint, error) {
				m, err := sliders.Create(ctx, sliderIn(texts))
				if err != nil {
					return 0, err
				}
				return m.ID, nil
			},
			update: func(ctx context.Context, id uint, texts map[string]string) error {
				_, err := sliders.Update(ctx, id, sliderIn(texts))
				return err
			},
			delete:  sliders.Delete,
			reorder: sliders.Reorder,
			texts: func(ctx context.Context, id uint) (map[string]string, error) {
				m, err := sliders.Get(ctx, id)
				if err != nil {
					return nil, err
				}
				return textsOf(m.Translations, func(t models.SliderTranslation) string { return t.Title }), nil
			},
		},
		{
			name: "statistic",
			create: func(ctx context.Context, texts map[string]string) (uint, error) {
				m, err := statistics.Create(ctx, statisticIn(texts))
				if err != nil {
					return 0, err
				}
				return m.ID, nil
			},
			update: func(ctx context.Context, id uint, texts map[string]string) error {
				_, err := statistics.Update(ctx, id, statisticIn(texts))
				return err
			},
			delete:  statistics.Delete,
			reorder: statistics.Reorder,
			texts: func(ctx context.Context, id uint) (map[string]string, error) {
				m, err := statistics.Get(ctx, id)
				if err != nil {
					return nil, err
				}
				return textsOf(m.Translations, func(t models.StatisticTranslation) string { return t.Label }), nil
			},
		},
	}
}

func TestContentServices_UpdateKeepsUnsuppliedLocales(t *testing.T) {
	ctx := context.Background()
	for _, tc := range contentCases(newEnv(t)) {
		t.Run(tc.name, func(t *testing.T) {
			id, err := tc.create(ctx, map[string]string{"az": "Bir " + tc.name, "en": "One " + tc.name})
			require.NoError(t, err)

			require.NoError(t, tc.update(ctx, id, map[string]string{"en": "One more " + tc.name, "ru": "Odin " + tc.name}))

			got, err := tc.texts(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, map[string]string{
				"az": "Bir " + tc.name,
				"en": "One more " + tc.name,
				"ru": "Odin " + tc.name,
			}, got)
		})
	}
}

func TestContentServices_MissingIDs(t *testing.T) {
	ctx := context.Background()
	for _, tc := range contentCases(newEnv(t)) {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.update(ctx, 404, map[string]string{"az": "Title"}), ErrNotFound)
			assert.ErrorIs(t, tc.delete(ctx, 404), ErrNotFound)
			assert.ErrorIs(t, tc.reorder(ctx, []uint{999, 1000}), ErrNotFound)
			_, err := tc.texts(ctx, 404)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestContentServices_Validation(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		run   func() error
		field string
		msg   string
	}{
		{"testimonial rating zero", func() error {
			_, err := NewTestimonialService(repository.NewTestimonialRepository(env.db), env.pub).Create(ctx, TestimonialInput{
				Translations: map[string]TestimonialTranslationInput{"az": {AuthorName: "Ali", Content: "Good"}},
			})
			return err
		}, "rating", "must be at least 1"},
		{"testimonial rating above five", func() error {
			_, err := NewTestimonialService(repository.NewTestimonialRepository(env.db), env.pub).Create(ctx, TestimonialInput{
				Rating:       6,
				Translations: map[string]TestimonialTranslationInput{"az": {AuthorName: "Ali", Content: "Good"}},
			})
			return err
		}, "rating", "must be at most 5"},
		{"branch latitude alone", func() error {
			_, err := NewBranchService(repository.NewBranchRepository(env.db), env.pub).Create(ctx, BranchInput{
				Latitude:     ptr(40.4093),
				Translations: map[string]BranchTranslationInput{"az": {Name: "Baku", Address: "Nizami 1"}},
			})
			return err
		}, "latitude", "latitude and longitude must be set together"},
		{"statistic negative", func() error {
			_, err := NewStatisticService(repository.NewStatisticRepository(env.db), env.pub).Create(ctx, StatisticInput{
				Value:        decimal.NewFromInt(-1),
				Translations: map[string]StatisticTranslationInput{"az": {Label: "Clients"}},
			})
			return err
		}, "value", "must not be negative"},
		{"statistic beyond column range", func() error {
			_, err := NewStatisticService(repository.NewStatisticRepository(env.db), env.pub).Create(ctx, StatisticInput{
				Value:        decimal.New(1, 12),
				Translations: map[string]StatisticTranslationInput{"az": {Label: "Clients"}},
			})
			return err
		}, "value", "is out of range"},
		{"employee phone", func() error {
			_, err := NewEmployeeService(repository.NewEmployeeRepository(env.db), env.pub).Create(ctx, EmployeeInput{
				Phone:        "call me",
				Translations: map[string]EmployeeTranslationInput{"az": {FullName: "Aysel", Position: "CTO"}},
			})
			return err
		}, "phone", "must be a valid phone number"},
		{"slider image required", func() error {
			_, err := NewSliderService(repository.NewSliderRepository(env.db), env.pub).Create(ctx, SliderInput{
				Translations: map[string]SliderTranslationInput{"az": {Title: "Welcome"}},
			})
			return err
		}, "image_url", "is required"},
		{"service default locale", func() error {
			_, err := env.services().Create(ctx, ServiceInput{
				Translations: map[string]ServiceTranslationInput{"en": {Title: "Audit"}},
			})
			return err
		}, "translations.az", "is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			require.Error(t, err)
			assert.Equal(t, tt.msg, fields(t, err)[tt.field])
		})
	}
}

func TestStatisticService_RoundsValue(t *testing.T) {
	env := newEnv(t)
	s := NewStatisticService(repository.NewStatisticRepository(env.db), env.pub)
	m, err := s.Create(context.Background(), StatisticInput{
		Value:        decimal.RequireFromString("1234.499"),
		Suffix:       "+",
		Translations: map[string]StatisticTranslationInput{"az": {Label: "Layihə"}},
	})
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("1234.5").Equal(m.Value), m.Value.String())
}

func TestServicesService_SlugCollision(t *testing.T) {
	env := newEnv(t)
	s := env.services()
	ctx := context.Background()

	first, err := s.Create(ctx, ServiceInput{Translations: map[string]ServiceTranslationInput{
		"az": {Title: "Audit"},
		"en": {Title: "Audit"},
	}})
	require.NoError(t, err)

	in := ServiceInput{Translations: map[string]ServiceTranslationInput{
		"az": {Title: "Təftiş"},
		"en": {Title: "Other", Slug: "audit"},
	}}
	_, err = s.Create(ctx, in)
	require.Error(t, err)
	f := fields(t, err)
	assert.Equal(t, "is already used", f["translations.en.slug"])
	assert.NotContains(t, f, "translations.az.slug")

	// Updating with its own slugs does not collide with itself.
	_, err = s.Update(ctx, first.ID, ServiceInput{Translations: map[string]ServiceTranslationInput{"en": {Title: "Audit"}}})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, first.ID))
	second, err := s.Create(ctx, in)
	require.NoError(t, err)
	tr, ok := models.PickTranslation(second.Translations, "en")
	require.True(t, ok)
	assert.Equal(t, "audit", tr.Slug)
}
