package models

import (
	"time"

	"gorm.io/gorm"
)

type Testimonial struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	ImageURL  string         `gorm:"size:512" json:"image_url"`
	Rating    int            `gorm:"not null;default:5" json:"rating"`
	IsActive  bool           `gorm:"not null;index" json:"is_active"`
	SortOrder int            `gorm:"default:0;index" json:"sort_order"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Translations []TestimonialTranslation `gorm:"foreignKey:TestimonialID" json:"translations,omitempty"`
}

func (Testimonial) TableName() string { return "testimonials" }

type TestimonialTranslation struct {
	ID            uint      `gorm:"primaryKey" json:"-"`
	TestimonialID uint      `gorm:"not null;uniqueIndex:idx_testimonial_tr_locale" json:"-"`
	Locale        string    `gorm:"size:5;not null;uniqueIndex:idx_testimonial_tr_locale" json:"locale"`
	AuthorName    string    `gorm:"size:255;not null" json:"author_name"`
	AuthorTitle   string    `gorm:"size:255" json:"author_title"`
	Content       string    `gorm:"type:text;not null" json:"content"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (TestimonialTranslation) TableName() string { return "testimonial_translations" }

func (t TestimonialTranslation) LocaleCode() string { return t.Locale }
