package models

import (
	"time"
)

type GalleryPhoto struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Title        string     `gorm:"size:255;not null" json:"title"`
	Description  string     `gorm:"type:text" json:"description"`
	Category     string     `gorm:"size:20;not null;default:other;index" json:"category"` // event, training, competition, ceremony, other
	PhotoURL     string     `gorm:"type:text;not null" json:"photo_url"`
	ThumbnailURL string     `gorm:"type:text" json:"thumbnail_url"`
	UploadedBy   uint       `gorm:"not null;index" json:"uploaded_by"`
	EventID      *uint      `gorm:"index" json:"event_id"`
	TakenAt      *time.Time `json:"taken_at"`
	IsActive     bool       `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	Uploader *User  `gorm:"foreignKey:UploadedBy" json:"uploader,omitempty"`
	Event    *Event `gorm:"foreignKey:EventID" json:"event,omitempty"`
}

func ValidGalleryCategory(cat string) bool {
	switch cat {
	case "event", "training", "competition", "ceremony", "other":
		return true
	}
	return false
}
