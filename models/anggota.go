package models

import (
	"time"
)

// AnggotaSilat is the member registry entry behind a user account.
// Deactivation flips StatusAktif instead of deleting the row.
type AnggotaSilat struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	UserID           uint       `gorm:"not null;uniqueIndex" json:"user_id"`
	NomorAnggota     string     `gorm:"size:50;uniqueIndex" json:"nomor_anggota"`
	TempatLahir      string     `gorm:"size:100" json:"tempat_lahir"`
	TanggalLahir     *time.Time `json:"tanggal_lahir"`
	JenisKelamin     string     `gorm:"size:20" json:"jenis_kelamin"` // laki-laki, perempuan
	StatusPerguruan  string     `gorm:"size:100" json:"status_perguruan"`
	TingkatanSabuk   string     `gorm:"size:50" json:"tingkatan_sabuk"`
	TanggalBergabung time.Time  `json:"tanggal_bergabung"`
	StatusAktif      bool       `gorm:"not null;default:true;index" json:"status_aktif"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (AnggotaSilat) TableName() string {
	return "anggota_silat"
}
