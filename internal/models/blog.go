package models

import (
	"time"

	"gorm.io/gorm"
)

type Blog struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	ImageURL    string         `gorm:"size:512" json:"image_url"`
	IsPublished bool           `gorm:"not null;index" json:"is_published"`
	PublishedAt *time.Time     `gorm:"index" json:"published_at"`
	ViewCount   int64          `gorm:"not null;default:0" json:"view_count"`
	SortOrder   int            `gorm:"default:0;index" json:"sort_order"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Translations []BlogTranslation `gorm:"foreignKey:BlogID" json:"translations,omitempty"`
	Seo          []SeoMeta         `gorm:"polymorphic:Owner;polymorphicValue:blogs" json:"seo,omitempty"`
}

func (Blog) TableName() string { return "blogs" }

// Visible reports whether the post may be shown on the public site at t.
func (b *Blog) Visible(t time.Time) bool {
	return b.IsPublished && (b.PublishedAt == nil || !b.PublishedAt.After(t))
}

type BlogTranslation struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	BlogID    uint      `gorm:"not null;uniqueIndex:idx_blog_tr_locale" json:"-"`
	Locale    string    `gorm:"size:5;not null;uniqueIndex:idx_blog_tr_locale;uniqueIndex:idx_blog_tr_slug" json:"locale"`
	Slug      string    `gorm:"size:191;not null;uniqueIndex:idx_blog_tr_slug" json:"slug"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Summary   string    `gorm:"type:text" json:"summary"`
	Content   string    `gorm:"size:16777216" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (BlogTranslation) TableName() string { return "blog_translations" }

func (t BlogTranslation) LocaleCode() string { return t.Locale }

// BlogView is one counted visit; (BlogID, IP) is unique.
type BlogView struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BlogID    uint      `gorm:"not null;uniqueIndex:idx_blog_view_ip" json:"blog_id"`
	IP        string    `gorm:"size:45;not null;uniqueIndex:idx_blog_view_ip" json:"ip"`
	UserAgent string    `gorm:"size:512" json:"user_agent"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (BlogView) TableName() string { return "blog_views" }
