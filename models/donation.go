package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Donation statuses: pending -> settlement | cancel | expire (terminal).
// failure exists for admin override parity only.
const (
	DonationStatusPending    = "pending"
	DonationStatusSettlement = "settlement"
	DonationStatusCancel     = "cancel"
	DonationStatusExpire     = "expire"
	DonationStatusFailure    = "failure"
)

type Donation struct {
	ID                    uint            `gorm:"primaryKey" json:"id"`
	CampaignID            *uint           `gorm:"index" json:"campaign_id"`
	UserID                *uint           `gorm:"index" json:"user_id"` // nil for anonymous donors
	DonorName             string          `gorm:"size:255;not null" json:"donor_name"`
	DonorEmail            string          `gorm:"size:255" json:"donor_email"`
	DonorPhone            string          `gorm:"size:30" json:"donor_phone"`
	Amount                decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Message               string          `gorm:"type:text" json:"message"`
	IsAnonymous           bool            `gorm:"not null;default:false" json:"is_anonymous"`
	PaymentMethod         string          `gorm:"size:20;not null" json:"payment_method"`
	PaymentStatus         string          `gorm:"size:20;not null;default:pending;index" json:"payment_status"`
	TransactionID         string          `gorm:"size:100" json:"transaction_id"`
	MidtransOrderID       string          `gorm:"size:100;uniqueIndex" json:"midtrans_order_id"`
	MidtransTransactionID string          `gorm:"size:100" json:"midtrans_transaction_id"`
	PaidAt                *time.Time      `json:"paid_at"`
	CreatedAt             time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`

	Campaign *DonationCampaign `gorm:"foreignKey:CampaignID" json:"campaign,omitempty"`
	Donor    *User             `gorm:"foreignKey:UserID" json:"donor,omitempty"`
}

// MinDonationAmount is Rp 1.000.
var MinDonationAmount = decimal.NewFromInt(1000)

func TerminalDonationStatus(s string) bool {
	switch s {
	case DonationStatusSettlement, DonationStatusCancel, DonationStatusExpire, DonationStatusFailure:
		return true
	}
	return false
}
