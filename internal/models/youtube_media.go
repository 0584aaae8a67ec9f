package models

import (
	"time"

	"gorm.io/gorm"
)

// YoutubeMedia is an embedded video; metadata is looked up from YouTube on save.
type YoutubeMedia struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	VideoID      string         `gorm:"size:32;not null;uniqueIndex" json:"video_id"`
	URL          string         `gorm:"size:512;not null" json:"url"`
	ThumbnailURL string         `gorm:"size:512" json:"thumbnail_url"`
	Duration     string         `gorm:"size:32" json:"duration"`
	ChannelTitle string         `gorm:"size:255" json:"channel_title"`
	IsActive     bool           `gorm:"not null;index" json:"is_active"`
	SortOrder    int            `gorm:"default:0;index" json:"sort_order"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Translations []YoutubeMediaTranslation `gorm:"foreignKey:YoutubeMediaID" json:"translations,omitempty"`
}

func (YoutubeMedia) TableName() string { return "youtube_media" }

type YoutubeMediaTranslation struct {
	ID             uint      `gorm:"primaryKey" json:"-"`
	YoutubeMediaID uint      `gorm:"not null;uniqueIndex:idx_youtube_tr_locale" json:"-"`
	Locale         string    `gorm:"size:5;not null;uniqueIndex:idx_youtube_tr_locale" json:"locale"`
	Title          string    `gorm:"size:255;not null" json:"title"`
	Description    string    `gorm:"type:text" json:"description"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (YoutubeMediaTranslation) TableName() string { return "youtube_media_translations" }

func (t YoutubeMediaTranslation) LocaleCode() string { return t.Locale }
