package models

import (
	"time"

	"gorm.io/gorm"
)

// Service is a company offering shown on the services pages.
type Service struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	ImageURL  string         `gorm:"size:512" json:"image_url"`
	IconURL   string         `gorm:"size:512" json:"icon_url"`
	IsActive  bool           `gorm:"not null;index" json:"is_active"`
	SortOrder int            `gorm:"default:0;index" json:"sort_order"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Translations []ServiceTranslation `gorm:"foreignKey:ServiceID" json:"translations,omitempty"`
	Seo          []SeoMeta            `gorm:"polymorphic:Owner;polymorphicValue:services" json:"seo,omitempty"`
}

func (Service) TableName() string { return "services" }

type ServiceTranslation struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	ServiceID uint      `gorm:"not null;uniqueIndex:idx_service_tr_locale" json:"-"`
	Locale    string    `gorm:"size:5;not null;uniqueIndex:idx_service_tr_locale;uniqueIndex:idx_service_tr_slug" json:"locale"`
	Slug      string    `gorm:"size:191;not null;uniqueIndex:idx_service_tr_slug" json:"slug"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Summary   string    `gorm:"type:text" json:"summary"`
	Content   string    `gorm:"size:16777216" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ServiceTranslation) TableName() string { return "service_translations" }

func (t ServiceTranslation) LocaleCode() string { return t.Locale }
