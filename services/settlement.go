package services

import (
	"errors"
	"time"

	"github.com/rizkirifandi7/web-silat-be-v2/models"
	"github.com/rizkirifandi7/web-silat-be-v2/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MapPaymentStatus translates a gateway (transaction_status, fraud_status)
// pair into the internal payment status. A card capture stays in the
// intermediate capture state until the gateway settles or denies it.
func MapPaymentStatus(transactionStatus, fraudStatus string) string {
	switch transactionStatus {
	case "capture":
		if fraudStatus == "accept" {
			return models.PaymentStatusCapture
		}
		return models.PaymentStatusPending
	case "settlement":
		return models.PaymentStatusSettlement
	case "cancel":
		return models.PaymentStatusCancel
	case "deny":
		return models.PaymentStatusDeny
	case "expire":
		return models.PaymentStatusExpire
	default:
		return models.PaymentStatusPending
	}
}

// MapDonationStatus is the donation variant: an accepted capture settles
// immediately, there is no post-capture review state for donations.
func MapDonationStatus(transactionStatus, fraudStatus string) string {
	switch transactionStatus {
	case "capture":
		if fraudStatus == "accept" {
			return models.DonationStatusSettlement
		}
		return models.DonationStatusPending
	case "settlement":
		return models.DonationStatusSettlement
	case "cancel", "deny":
		return models.DonationStatusCancel
	case "expire":
		return models.DonationStatusExpire
	default:
		return models.DonationStatusPending
	}
}

// Reconciler applies webhook notifications to the ledger. Each apply locks
// the transaction row, so notifications for the same order id are
// serialized and duplicates cannot re-run a terminal state's side effect.
type Reconciler struct {
	logger *zap.Logger

	// onDonationSettled fires after a donation settlement commits.
	onDonationSettled func(models.Donation)
}

func NewReconciler(logger *zap.Logger, onDonationSettled func(models.Donation)) *Reconciler {
	return &Reconciler{
		logger:            logger,
		onDonationSettled: onDonationSettled,
	}
}

// ApplyPaymentNotification moves an event payment through its state
// machine. Re-delivered notifications for a state already applied, or for
// a payment already terminal, are acknowledged without changes.
func (r *Reconciler) ApplyPaymentNotification(n GatewayNotification) (*models.Payment, error) {
	var payment models.Payment

	err := utils.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("midtrans_order_id = ?", n.OrderID).
			First(&payment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		target := MapPaymentStatus(n.TransactionStatus, n.FraudStatus)

		if payment.PaymentStatus == target {
			return nil
		}
		if models.TerminalPaymentStatus(payment.PaymentStatus) {
			r.logger.Info("ignoring notification for terminal payment",
				zap.String("order_id", n.OrderID),
				zap.String("status", payment.PaymentStatus),
				zap.String("gateway_status", n.TransactionStatus))
			return nil
		}
		if target == models.PaymentStatusPending {
			return nil
		}
		// capture can only settle or be denied.
		if payment.PaymentStatus == models.PaymentStatusCapture &&
			target != models.PaymentStatusSettlement && target != models.PaymentStatusDeny {
			return nil
		}

		updates := map[string]interface{}{
			"payment_status":          target,
			"transaction_id":          n.TransactionID,
			"midtrans_transaction_id": n.TransactionID,
		}
		if target == models.PaymentStatusSettlement {
			now := time.Now()
			updates["payment_date"] = now
			payment.PaymentDate = &now
		}
		if err := tx.Model(&payment).Updates(updates).Error; err != nil {
			return err
		}

		payment.PaymentStatus = target
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &payment, nil
}

// ApplyDonationNotification moves a donation through its state machine.
// On the first transition into settlement the campaign's current amount is
// incremented by the donation amount in the same database transaction as
// the status update, so the aggregate and the status can never diverge.
func (r *Reconciler) ApplyDonationNotification(n GatewayNotification) (*models.Donation, error) {
	var donation models.Donation
	settled := false

	err := utils.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("midtrans_order_id = ?", n.OrderID).
			First(&donation).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		target := MapDonationStatus(n.TransactionStatus, n.FraudStatus)

		if donation.PaymentStatus == target {
			return nil
		}
		if models.TerminalDonationStatus(donation.PaymentStatus) {
			r.logger.Info("ignoring notification for terminal donation",
				zap.String("order_id", n.OrderID),
				zap.String("status", donation.PaymentStatus),
				zap.String("gateway_status", n.TransactionStatus))
			return nil
		}
		if target == models.DonationStatusPending {
			return nil
		}

		updates := map[string]interface{}{
			"payment_status":          target,
			"transaction_id":          n.TransactionID,
			"midtrans_transaction_id": n.TransactionID,
		}
		if target == models.DonationStatusSettlement {
			now := time.Now()
			updates["paid_at"] = now
			donation.PaidAt = &now
		}
		if err := tx.Model(&donation).Updates(updates).Error; err != nil {
			return err
		}

		if target == models.DonationStatusSettlement && donation.CampaignID != nil {
			if err := tx.Model(&models.DonationCampaign{}).
				Where("id = ?", *donation.CampaignID).
				UpdateColumn("current_amount", gorm.Expr("current_amount + ?", donation.Amount)).Error; err != nil {
				return err
			}
		}

		donation.PaymentStatus = target
		settled = target == models.DonationStatusSettlement
		return nil
	})
	if err != nil {
		return nil, err
	}

	if settled {
		r.logger.Info("donation settled",
			zap.String("order_id", donation.MidtransOrderID),
			zap.String("amount", donation.Amount.String()))
		if r.onDonationSettled != nil {
			r.onDonationSettled(donation)
		}
	}

	return &donation, nil
}
