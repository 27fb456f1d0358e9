package models

import (
	"time"
)

type Product struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Nama      string    `gorm:"size:255;not null" json:"nama"`
	Kategori  string    `gorm:"size:100;not null;index" json:"kategori"`
	Harga     int       `gorm:"not null" json:"harga"`
	Deskripsi string    `gorm:"type:text" json:"deskripsi"`
	ImageURL  string    `gorm:"type:text;not null" json:"image_url"`
	IsNew     bool      `gorm:"not null;default:false" json:"is_new"`
	IsActive  bool      `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
