package models

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	CampaignStatusDraft     = "draft"
	CampaignStatusActive    = "active"
	CampaignStatusCompleted = "completed"
	CampaignStatusCancelled = "cancelled"
)

// DonationCampaign.CurrentAmount is mutated only by the settlement
// reconciler, in the same transaction as the donation status update, so it
// always equals the sum of settled donation amounts.
type DonationCampaign struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Title         string          `gorm:"size:255;not null" json:"title"`
	Description   string          `gorm:"type:text" json:"description"`
	Category      string          `gorm:"size:20;not null;default:umum;index" json:"category"` // pendidikan, kesehatan, bencana, infrastruktur, umum
	TargetAmount  decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"target_amount"`
	CurrentAmount decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"current_amount"`
	StartDate     time.Time       `gorm:"not null" json:"start_date"`
	EndDate       *time.Time      `json:"end_date"`
	Status        string          `gorm:"size:20;not null;default:draft;index" json:"status"`
	ImageURL      string          `gorm:"type:text" json:"image_url"`
	OrganizerID   uint            `gorm:"not null;index" json:"organizer_id"`
	IsUrgent      bool            `gorm:"not null;default:false" json:"is_urgent"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	PercentageReached int  `gorm:"-" json:"percentage_reached"`
	DaysLeft          *int `gorm:"-" json:"days_left"`

	Organizer *User `gorm:"foreignKey:OrganizerID" json:"organizer,omitempty"`
}

// AfterFind fills the derived progress fields on every read.
func (c *DonationCampaign) AfterFind(tx *gorm.DB) error {
	if c.TargetAmount.IsPositive() {
		pct := c.CurrentAmount.Div(c.TargetAmount).Mul(decimal.NewFromInt(100)).IntPart()
		if pct > 100 {
			pct = 100
		}
		c.PercentageReached = int(pct)
	}
	if c.EndDate != nil {
		days := int(math.Ceil(time.Until(*c.EndDate).Hours() / 24))
		c.DaysLeft = &days
	}
	return nil
}

func ValidCampaignCategory(cat string) bool {
	switch cat {
	case "pendidikan", "kesehatan", "bencana", "infrastruktur", "umum":
		return true
	}
	return false
}

func ValidCampaignStatus(s string) bool {
	switch s {
	case CampaignStatusDraft, CampaignStatusActive, CampaignStatusCompleted, CampaignStatusCancelled:
		return true
	}
	return false
}
