package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventStatusDraft     = "draft"
	EventStatusPublished = "published"
	EventStatusOngoing   = "ongoing"
	EventStatusCompleted = "completed"
	EventStatusCancelled = "cancelled"
)

// Event.RegisteredCount is only ever mutated by the registration handlers,
// under a row lock on the event, so it always equals the number of
// non-cancelled registrations and never exceeds Capacity.
type Event struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	Title           string          `gorm:"size:255;not null" json:"title"`
	Description     string          `gorm:"type:text" json:"description"`
	EventType       string          `gorm:"size:20;not null;default:seminar;index" json:"event_type"` // seminar, workshop, conference, webinar
	EventDate       time.Time       `gorm:"not null;index" json:"event_date"`
	EndDate         *time.Time      `json:"end_date"`
	Location        string          `gorm:"size:255" json:"location"`
	Capacity        int             `gorm:"not null;default:0" json:"capacity"`
	RegisteredCount int             `gorm:"not null;default:0" json:"registered_count"`
	IsFree          bool            `gorm:"not null;default:true" json:"is_free"`
	Price           decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"price"`
	Status          string          `gorm:"size:20;not null;default:draft;index" json:"status"`
	ImageURL        string          `gorm:"size:255" json:"image_url"`
	OrganizerID     uint            `gorm:"not null;index" json:"organizer_id"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	Organizer *User `gorm:"foreignKey:OrganizerID" json:"organizer,omitempty"`
}

func ValidEventType(t string) bool {
	switch t {
	case "seminar", "workshop", "conference", "webinar":
		return true
	}
	return false
}

func ValidEventStatus(s string) bool {
	switch s {
	case EventStatusDraft, EventStatusPublished, EventStatusOngoing, EventStatusCompleted, EventStatusCancelled:
		return true
	}
	return false
}
