package models

import (
	"time"

	"gorm.io/gorm"
)

// Branch is an office location.
type Branch struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Phone        string         `gorm:"size:32" json:"phone"`
	Email        string         `gorm:"size:255" json:"email"`
	MapURL       string         `gorm:"size:1024" json:"map_url"`
	Latitude     *float64       `json:"latitude"`
	Longitude    *float64       `json:"longitude"`
	IsHeadOffice bool           `gorm:"default:false" json:"is_head_office"`
	IsActive     bool           `gorm:"not null;index" json:"is_active"`
	SortOrder    int            `gorm:"default:0;index" json:"sort_order"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Translations []BranchTranslation `gorm:"foreignKey:BranchID" json:"translations,omitempty"`
}

func (Branch) TableName() string { return "branches" }

type BranchTranslation struct {
	ID           uint      `gorm:"primaryKey" json:"-"`
	BranchID     uint      `gorm:"not null;uniqueIndex:idx_branch_tr_locale" json:"-"`
	Locale       string    `gorm:"size:5;not null;uniqueIndex:idx_branch_tr_locale" json:"locale"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Address      string    `gorm:"size:512;not null" json:"address"`
	WorkingHours string    `gorm:"size:255" json:"working_hours"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (BranchTranslation) TableName() string { return "branch_translations" }

func (t BranchTranslation) LocaleCode() string { return t.Locale }
