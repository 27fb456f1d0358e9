package models

import (
	"time"
)

// AboutSection is a single-row table holding the organization profile.
type AboutSection struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Sejarah      string    `gorm:"type:text" json:"sejarah"`
	Visi         string    `gorm:"type:text" json:"visi"`
	Misi         string    `gorm:"type:text" json:"misi"`
	FilosofiLogo string    `gorm:"type:text" json:"filosofi_logo"`
	LogoURL      string    `gorm:"type:text" json:"logo_url"`
	UpdatedBy    *uint     `json:"updated_by"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Founder struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Nama        string    `gorm:"size:255;not null" json:"nama"`
	Title       string    `gorm:"size:255" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	PhotoURL    string    `gorm:"type:text" json:"photo_url"`
	Order       int       `gorm:"column:display_order;not null;default:0" json:"order"`
	IsActive    bool      `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
