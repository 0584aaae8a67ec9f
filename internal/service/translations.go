package service

import (
	"context"
	"strings"

	"corpsite/internal/domain"
	"corpsite/internal/models"
	"corpsite/internal/repository"
	"corpsite/pkg/slugify"
)

// SeoInput is the per-locale SEO block of blogs and services.
type SeoInput struct {
	MetaTitle       string `json:"meta_title" validate:"max=255"`
	MetaDescription string `json:"meta_description" validate:"max=500"`
	MetaKeywords    string `json:"meta_keywords" validate:"max=500"`
	OgImageURL      string `json:"og_image_url" validate:"omitempty,url,max=512"`
	NoIndex         bool   `json:"no_index"`
}

func (s *SeoInput) model(locale string) models.SeoMeta {
	return models.SeoMeta{
		Locale:          locale,
		MetaTitle:       strings.TrimSpace(s.MetaTitle),
		MetaDescription: strings.TrimSpace(s.MetaDescription),
		MetaKeywords:    strings.TrimSpace(s.MetaKeywords),
		OgImageURL:      strings.TrimSpace(s.OgImageURL),
		NoIndex:         s.NoIndex,
	}
}

// ListParams is the admin list query.
type ListParams struct {
	Search string
	Active *bool
	Page   int
	Limit  int
}

// Page is a paginated admin or public list.
type Page[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

func newPage[T any](items []T, total int64, page, limit int) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Total: total, Page: page, Limit: limit}
}

// orderedLocales returns the supported keys of m, default locale first.
func orderedLocales[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for _, l := range domain.Locales {
		if _, ok := m[l]; ok {
			out = append(out, l)
		}
	}
	return out
}

func requireDefaultLocale[V any](ve *ValidationError, m map[string]V) {
	if _, ok := m[domain.DefaultLocale]; !ok {
		ve.Add("translations."+domain.DefaultLocale, "is required")
	}
}

type slugLookup func(ctx context.Context, locale, slug string, excludeID uint) (bool, error)

// normalizeSlug slugifies the given slug or derives one from title.
func normalizeSlug(slug, title string) string {
	return slugify.Normalize(slug, title)
}

// checkSlugs adds a field error for every locale whose slug is empty or
// already used by another entity in that locale.
func checkSlugs(ctx context.Context, ve *ValidationError, taken slugLookup, slugs map[string]string, excludeID uint) error {
	for _, loc := range orderedLocales(slugs) {
		field := "translations." + loc + ".slug"
		slug := slugs[loc]
		if slug == "" {
			ve.Add(field, "could not be derived from the title")
			continue
		}
		used, err := taken(ctx, loc, slug, excludeID)
		if err != nil {
			return err
		}
		if used {
			ve.Add(field, "is already used")
		}
	}
	return nil
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

// validateIDs checks a reorder payload.
func validateIDs(ids []uint) error {
	if len(ids) == 0 {
		return fieldError("ids", "is required")
	}
	seen := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if id == 0 {
			return fieldError("ids", "must be positive")
		}
		if _, dup := seen[id]; dup {
			return fieldError("ids", "must be unique")
		}
		seen[id] = struct{}{}
	}
	return nil
}

func (p ListParams) filter() repository.ListFilter {
	return repository.ListFilter{
		Search: strings.TrimSpace(p.Search),
		Active: p.Active,
		Page:   p.Page,
		Limit:  p.Limit,
	}.Normalized()
}
