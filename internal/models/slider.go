package models

import (
	"time"

	"gorm.io/gorm"
)

// Slider is one slide of the home page hero carousel.
type Slider struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	ImageURL  string         `gorm:"size:512;not null" json:"image_url"`
	LinkURL   string         `gorm:"size:512" json:"link_url"`
	IsActive  bool           `gorm:"not null;index" json:"is_active"`
	SortOrder int            `gorm:"default:0;index" json:"sort_order"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Translations []SliderTranslation `gorm:"foreignKey:SliderID" json:"translations,omitempty"`
}

func (Slider) TableName() string { return "sliders" }

type SliderTranslation struct {
	ID         uint      `gorm:"primaryKey" json:"-"`
	SliderID   uint      `gorm:"not null;uniqueIndex:idx_slider_tr_locale" json:"-"`
	Locale     string    `gorm:"size:5;not null;uniqueIndex:idx_slider_tr_locale" json:"locale"`
	Title      string    `gorm:"size:255;not null" json:"title"`
	Subtitle   string    `gorm:"size:512" json:"subtitle"`
	ButtonText string    `gorm:"size:64" json:"button_text"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (SliderTranslation) TableName() string { return "slider_translations" }

func (t SliderTranslation) LocaleCode() string { return t.Locale }
