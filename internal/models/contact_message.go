package models

import (
	"time"

	"gorm.io/gorm"
)

type ContactMessage struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	FullName  string         `gorm:"size:255;not null" json:"full_name"`
	Email     string         `gorm:"size:255;not null;index" json:"email"`
	Phone     string         `gorm:"size:32" json:"phone"`
	Subject   string         `gorm:"size:255" json:"subject"`
	Message   string         `gorm:"type:text;not null" json:"message"`
	ServiceID *uint          `gorm:"index" json:"service_id"`
	Locale    string         `gorm:"size:5;not null" json:"locale"`
	IP        string         `gorm:"size:45" json:"ip"`
	UserAgent string         `gorm:"size:512" json:"user_agent"`
	Status    string         `gorm:"size:16;not null;default:'NEW';index" json:"status"` // NEW | READ | ARCHIVED
	EmailSent bool           `gorm:"default:false" json:"email_sent"`
	ReadAt    *time.Time     `json:"read_at"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Service *Service `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
}

func (ContactMessage) TableName() string { return "contact_messages" }
