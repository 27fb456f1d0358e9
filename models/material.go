package models

import (
	"time"
)

const (
	MaterialAccessAnggotaOnly = "anggota_only"
	MaterialAccessAdminOnly   = "admin_only"
)

// LearningMaterial references its file by URL; there is no upload pipeline.
type LearningMaterial struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Title         string    `gorm:"size:255;not null" json:"title"`
	Description   string    `gorm:"type:text" json:"description"`
	Type          string    `gorm:"size:20;not null" json:"type"`                           // video, document, pdf
	Category      string    `gorm:"size:20;not null;default:lainnya;index" json:"category"` // teknik_dasar, jurus, sejarah, teori, peraturan, lainnya
	Level         string    `gorm:"size:20;not null;default:all" json:"level"`              // beginner, intermediate, advanced, all
	FileURL       string    `gorm:"type:text;not null" json:"file_url"`
	ThumbnailURL  string    `gorm:"type:text" json:"thumbnail_url"`
	FileSize      int       `json:"file_size"`
	Duration      int       `json:"duration"`
	UploadedBy    uint      `gorm:"not null;index" json:"uploaded_by"`
	AccessLevel   string    `gorm:"size:20;not null;default:anggota_only" json:"access_level"`
	ViewCount     int       `gorm:"not null;default:0" json:"view_count"`
	DownloadCount int       `gorm:"not null;default:0" json:"download_count"`
	IsActive      bool      `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Uploader *User `gorm:"foreignKey:UploadedBy" json:"uploader,omitempty"`
}

func ValidMaterialType(t string) bool {
	switch t {
	case "video", "document", "pdf":
		return true
	}
	return false
}

func ValidMaterialCategory(cat string) bool {
	switch cat {
	case "teknik_dasar", "jurus", "sejarah", "teori", "peraturan", "lainnya":
		return true
	}
	return false
}

func ValidMaterialLevel(l string) bool {
	switch l {
	case "beginner", "intermediate", "advanced", "all":
		return true
	}
	return false
}
