package models

import (
	"time"

	"gorm.io/gorm"
)

type Employee struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	ImageURL    string         `gorm:"size:512" json:"image_url"`
	Email       string         `gorm:"size:255" json:"email"`
	Phone       string         `gorm:"size:32" json:"phone"`
	LinkedInURL string         `gorm:"column:linkedin_url;size:512" json:"linkedin_url"`
	IsActive    bool           `gorm:"not null;index" json:"is_active"`
	SortOrder   int            `gorm:"default:0;index" json:"sort_order"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Translations []EmployeeTranslation `gorm:"foreignKey:EmployeeID" json:"translations,omitempty"`
}

func (Employee) TableName() string { return "employees" }

type EmployeeTranslation struct {
	ID         uint      `gorm:"primaryKey" json:"-"`
	EmployeeID uint      `gorm:"not null;uniqueIndex:idx_employee_tr_locale" json:"-"`
	Locale     string    `gorm:"size:5;not null;uniqueIndex:idx_employee_tr_locale" json:"locale"`
	FullName   string    `gorm:"size:255;not null" json:"full_name"`
	Position   string    `gorm:"size:255;not null" json:"position"`
	Bio        string    `gorm:"type:text" json:"bio"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (EmployeeTranslation) TableName() string { return "employee_translations" }

func (t EmployeeTranslation) LocaleCode() string { return t.Locale }
