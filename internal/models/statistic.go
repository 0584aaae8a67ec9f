package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Statistic is a headline number on the home page ("250+ projects").
type Statistic struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Value     decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"value"`
	Suffix    string          `gorm:"size:16" json:"suffix"`
	Icon      string          `gorm:"size:255" json:"icon"`
	IsActive  bool            `gorm:"not null;index" json:"is_active"`
	SortOrder int             `gorm:"default:0;index" json:"sort_order"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"-"`

	Translations []StatisticTranslation `gorm:"foreignKey:StatisticID" json:"translations,omitempty"`
}

func (Statistic) TableName() string { return "statistics" }

type StatisticTranslation struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	StatisticID uint      `gorm:"not null;uniqueIndex:idx_statistic_tr_locale" json:"-"`
	Locale      string    `gorm:"size:5;not null;uniqueIndex:idx_statistic_tr_locale" json:"locale"`
	Label       string    `gorm:"size:255;not null" json:"label"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (StatisticTranslation) TableName() string { return "statistic_translations" }

func (t StatisticTranslation) LocaleCode() string { return t.Locale }
