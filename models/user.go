package models

import (
	"time"
)

// Role values carried in the JWT and checked by the authorize middleware.
const (
	RoleAdmin   = "admin"
	RoleUser    = "user"
	RoleAnggota = "anggota"
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Nama      string    `gorm:"size:255;not null" json:"nama"`
	Email     string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	Role      string    `gorm:"size:20;not null;default:user;index" json:"role"` // admin, user, anggota
	Alamat    string    `gorm:"type:text" json:"alamat"`
	NoHP      string    `gorm:"column:no_hp;size:30" json:"no_hp"`
	Foto      string    `gorm:"size:255" json:"foto"`
	FotoURL   string    `gorm:"type:text" json:"foto_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleUser, RoleAnggota:
		return true
	}
	return false
}
