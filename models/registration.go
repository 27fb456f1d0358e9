package models

import (
	"time"
)

const (
	RegistrationStatusPending   = "pending"
	RegistrationStatusConfirmed = "confirmed"
	RegistrationStatusCancelled = "cancelled"
	RegistrationStatusAttended  = "attended"
)

// EventRegistration links a user to an event, optionally through a payment.
// The composite unique index backstops the duplicate check done under the
// event row lock.
type EventRegistration struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	EventID          uint      `gorm:"not null;uniqueIndex:idx_event_user" json:"event_id"`
	UserID           uint      `gorm:"not null;uniqueIndex:idx_event_user" json:"user_id"`
	RegistrationDate time.Time `gorm:"not null" json:"registration_date"`
	Status           string    `gorm:"size:20;not null;default:pending;index" json:"status"` // pending, confirmed, cancelled, attended
	PaymentID        *uint     `json:"payment_id"`
	Notes            string    `gorm:"type:text" json:"notes"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	Event   *Event   `gorm:"foreignKey:EventID" json:"event,omitempty"`
	User    *User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Payment *Payment `gorm:"foreignKey:PaymentID" json:"payment,omitempty"`
}

// ActiveRegistrationStatuses are the statuses counted against event capacity.
var ActiveRegistrationStatuses = []string{
	RegistrationStatusPending,
	RegistrationStatusConfirmed,
	RegistrationStatusAttended,
}

func ValidRegistrationStatus(s string) bool {
	switch s {
	case RegistrationStatusPending, RegistrationStatusConfirmed, RegistrationStatusCancelled, RegistrationStatusAttended:
		return true
	}
	return false
}
