package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment status values follow the gateway's vocabulary. The webhook only
// moves a payment forward through:
//
//	pending -> capture -> settlement
//	pending -> settlement
//	pending -> deny | cancel | expire
//	capture -> settlement | deny
//
// failure and refund exist for the admin override endpoint only.
const (
	PaymentStatusPending    = "pending"
	PaymentStatusSettlement = "settlement"
	PaymentStatusCapture    = "capture"
	PaymentStatusDeny       = "deny"
	PaymentStatusCancel     = "cancel"
	PaymentStatusExpire     = "expire"
	PaymentStatusFailure    = "failure"
	PaymentStatusRefund     = "refund"
)

type Payment struct {
	ID                    uint            `gorm:"primaryKey" json:"id"`
	EventID               uint            `gorm:"not null;index" json:"event_id"`
	UserID                uint            `gorm:"not null;index" json:"user_id"`
	Amount                decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	PaymentMethod         string          `gorm:"size:20;not null" json:"payment_method"` // bank_transfer, credit_card, gopay, shopeepay, qris, other
	PaymentStatus         string          `gorm:"size:20;not null;default:pending;index" json:"payment_status"`
	TransactionID         string          `gorm:"size:100" json:"transaction_id"`
	PaymentDate           *time.Time      `json:"payment_date"`
	PaymentProof          string          `gorm:"size:255" json:"payment_proof"`
	MidtransOrderID       string          `gorm:"size:100;uniqueIndex" json:"midtrans_order_id"`
	MidtransTransactionID string          `gorm:"size:100" json:"midtrans_transaction_id"`
	Notes                 string          `gorm:"type:text" json:"notes"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`

	Event *Event `gorm:"foreignKey:EventID" json:"event,omitempty"`
	User  *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func ValidPaymentMethod(m string) bool {
	switch m {
	case "bank_transfer", "credit_card", "gopay", "shopeepay", "qris", "other":
		return true
	}
	return false
}

func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentStatusPending, PaymentStatusSettlement, PaymentStatusCapture,
		PaymentStatusDeny, PaymentStatusCancel, PaymentStatusExpire,
		PaymentStatusFailure, PaymentStatusRefund:
		return true
	}
	return false
}

// TerminalPaymentStatus reports whether s ends the payment lifecycle.
// capture is intermediate: it still awaits settlement or deny.
func TerminalPaymentStatus(s string) bool {
	switch s {
	case PaymentStatusSettlement, PaymentStatusDeny, PaymentStatusCancel,
		PaymentStatusExpire, PaymentStatusFailure, PaymentStatusRefund:
		return true
	}
	return false
}
