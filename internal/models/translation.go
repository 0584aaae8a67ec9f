package models

import (
	"time"

	"corpsite/internal/domain"
)

// Localized is implemented by every per-locale translation row.
type Localized interface {
	LocaleCode() string
}

// PickTranslation returns the row for locale, falling back to the default
// locale and then to the first row. ok is false only when rows is empty.
func PickTranslation[T Localized](rows []T, locale string) (tr T, ok bool) {
	if len(rows) == 0 {
		return tr, false
	}
	for _, r := range rows {
		if r.LocaleCode() == locale {
			return r, true
		}
	}
	for _, r := range rows {
		if r.LocaleCode() == domain.DefaultLocale {
			return r, true
		}
	}
	return rows[0], true
}

// HasLocale reports whether rows contain an exact match for locale.
func HasLocale[T Localized](rows []T, locale string) bool {
	for _, r := range rows {
		if r.LocaleCode() == locale {
			return true
		}
	}
	return false
}

// SeoMeta holds per-locale search metadata for a polymorphic owner (blogs, services).
type SeoMeta struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	OwnerType       string    `gorm:"size:32;not null;uniqueIndex:idx_seo_owner_locale" json:"-"`
	OwnerID         uint      `gorm:"not null;uniqueIndex:idx_seo_owner_locale" json:"-"`
	Locale          string    `gorm:"size:5;not null;uniqueIndex:idx_seo_owner_locale" json:"locale"`
	MetaTitle       string    `gorm:"size:255" json:"meta_title"`
	MetaDescription string    `gorm:"size:500" json:"meta_description"`
	MetaKeywords    string    `gorm:"size:500" json:"meta_keywords"`
	OgImageURL      string    `gorm:"size:512" json:"og_image_url"`
	NoIndex         bool      `gorm:"default:false" json:"no_index"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (SeoMeta) TableName() string { return "seo_meta" }

func (s SeoMeta) LocaleCode() string { return s.Locale }
