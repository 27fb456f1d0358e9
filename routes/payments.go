package routes

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rizkirifandi7/web-silat-be-v2/middleware"
	"github.com/rizkirifandi7/web-silat-be-v2/models"
	"github.com/rizkirifandi7/web-silat-be-v2/services"
	"github.com/rizkirifandi7/web-silat-be-v2/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type createPaymentRequest struct {
	EventID       uint   `json:"event_id" binding:"required"`
	PaymentMethod string `json:"payment_method" binding:"required"`
}

// CreatePayment opens a standalone checkout for a paid event, without
// reserving a slot. The slot is claimed later via the registration
// endpoint with the settled payment id.
func (ar *APIRoutes) CreatePayment(c *gin.Context) {
	claims, _ := middleware.CurrentUser(c)

	var req createPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "event_id and payment_method are required")
		return
	}
	if !models.ValidPaymentMethod(req.PaymentMethod) {
		utils.RespondError(c, http.StatusBadRequest, "Invalid payment method")
		return
	}

	var event models.Event
	if err := utils.DB.First(&event, req.EventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, "Event not found")
		} else {
			utils.RespondError(c, http.StatusInternalServerError, "Error fetching event")
		}
		return
	}
	if event.IsFree {
		utils.RespondError(c, http.StatusBadRequest, "This event is free, no payment needed")
		return
	}
	if event.Status != models.EventStatusPublished {
		utils.RespondError(c, http.StatusBadRequest, "Event is not available for registration")
		return
	}

	var user models.User
	if err := utils.DB.First(&user, claims.UserID).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error loading user")
		return
	}

	payment := models.Payment{
		EventID:         req.EventID,
		UserID:          claims.UserID,
		Amount:          event.Price,
		PaymentMethod:   req.PaymentMethod,
		PaymentStatus:   models.PaymentStatusPending,
		MidtransOrderID: services.NewEventOrderID(req.EventID, claims.UserID),
	}
	if err := utils.DB.Create(&payment).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error creating payment")
		return
	}

	snap, err := ar.gateway.CreateTransaction(c.Request.Context(),
		payment.MidtransOrderID,
		payment.Amount.IntPart(),
		services.SnapCustomer{FirstName: user.Nama, Email: user.Email, Phone: user.NoHP},
		[]services.SnapItem{{
			ID:       payment.MidtransOrderID,
			Price:    payment.Amount.IntPart(),
			Quantity: 1,
			Name:     event.Title,
		}})
	if err != nil {
		ar.logger.Error("gateway checkout failed",
			zap.String("order_id", payment.MidtransOrderID), zap.Error(err))
		utils.RespondError(c, http.StatusBadGateway, "Payment gateway unavailable. Please try again.")
		return
	}

	utils.RespondCreated(c, "Payment created", gin.H{
		"payment":      payment,
		"snap_token":   snap.Token,
		"redirect_url": snap.RedirectURL,
	})
}

// HandlePaymentNotification is the gateway webhook. Unsigned or badly
// signed notifications are rejected before any lookup.
func (ar *APIRoutes) HandlePaymentNotification(c *gin.Context) {
	var n services.GatewayNotification
	if err := c.ShouldBindJSON(&n); err != nil || n.OrderID == "" {
		utils.RespondError(c, http.StatusBadRequest, "Invalid notification body")
		return
	}

	if err := ar.gateway.VerifySignature(n); err != nil {
		ar.logger.Warn("payment notification rejected", zap.String("order_id", n.OrderID), zap.Error(err))
		utils.RespondError(c, http.StatusForbidden, "Invalid signature")
		return
	}

	payment, err := ar.reconciler.ApplyPaymentNotification(n)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.RespondError(c, http.StatusNotFound, "Payment not found")
		} else {
			ar.logger.Error("payment notification failed", zap.String("order_id", n.OrderID), zap.Error(err))
			utils.RespondError(c, http.StatusInternalServerError, "Error processing notification")
		}
		return
	}

	if err := ar.syncRegistrationForPayment(payment); err != nil {
		ar.logger.Error("registration sync failed",
			zap.String("order_id", payment.MidtransOrderID), zap.Error(err))
	}

	utils.RespondOK(c, "Notification processed", gin.H{
		"order_id": payment.MidtransOrderID,
		"status":   payment.PaymentStatus,
	})
}

// syncRegistrationForPayment keeps the registration attached to a payment
// in step with the payment outcome. Both branches are idempotent, so
// re-delivered notifications are harmless.
func (ar *APIRoutes) syncRegistrationForPayment(payment *models.Payment) error {
	switch payment.PaymentStatus {
	case models.PaymentStatusSettlement:
		return utils.DB.Model(&models.EventRegistration{}).
			Where("payment_id = ? AND status = ?", payment.ID, models.RegistrationStatusPending).
			Update("status", models.RegistrationStatusConfirmed).Error

	case models.PaymentStatusDeny, models.PaymentStatusCancel,
		models.PaymentStatusExpire, models.PaymentStatusFailure:
		return utils.DB.Transaction(func(tx *gorm.DB) error {
			var registration models.EventRegistration
			err := tx.Where("payment_id = ?", payment.ID).First(&registration).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			if err != nil {
				return err
			}

			// Event before registration, same lock order as the admission path.
			var event models.Event
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&event, registration.EventID).Error; err != nil {
				return err
			}
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&registration, registration.ID).Error; err != nil {
				return err
			}
			if registration.Status == models.RegistrationStatusCancelled {
				return nil
			}

			if err := tx.Model(&registration).
				Update("status", models.RegistrationStatusCancelled).Error; err != nil {
				return err
			}
			if event.RegisteredCount > 0 {
				return tx.Model(&event).
					UpdateColumn("registered_count", gorm.Expr("registered_count - ?", 1)).Error
			}
			return nil
		})
	}
	return nil
}

func (ar *APIRoutes) CheckPaymentStatus(c *gin.Context) {
	claims, _ := middleware.CurrentUser(c)
	orderID := c.Param("orderId")

	var payment models.Payment
	if err := utils.DB.Where("midtrans_order_id = ?", orderID).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, "Payment not found")
		} else {
			utils.RespondError(c, http.StatusInternalServerError, "Error fetching payment")
		}
		return
	}
	if claims.Role != models.RoleAdmin && payment.UserID != claims.UserID {
		utils.RespondError(c, http.StatusForbidden, "Access denied")
		return
	}

	utils.RespondData(c, gin.H{
		"order_id":       payment.MidtransOrderID,
		"payment_status": payment.PaymentStatus,
		"amount":         payment.Amount,
		"payment_date":   payment.PaymentDate,
	})
}

// PaymentQRCode renders a settled payment's order id as a PNG for event
// check-in.
func (ar *APIRoutes) PaymentQRCode(c *gin.Context) {
	orderID := c.Param("orderId")

	var payment models.Payment
	if err := utils.DB.Where("midtrans_order_id = ?", orderID).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, "Payment not found")
		} else {
			utils.RespondError(c, http.StatusInternalServerError, "Error fetching payment")
		}
		return
	}
	if payment.PaymentStatus != models.PaymentStatusSettlement {
		utils.RespondError(c, http.StatusBadRequest, "Payment is not settled")
		return
	}

	png, err := utils.GenerateQRCode(payment.MidtransOrderID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error generating QR code")
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

func (ar *APIRoutes) PaymentsByUser(c *gin.Context) {
	claims, _ := middleware.CurrentUser(c)
	userID, err := utils.ParamUint(c, "userId")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid user id")
		return
	}
	if claims.Role != models.RoleAdmin && claims.UserID != userID {
		utils.RespondError(c, http.StatusForbidden, "Access denied")
		return
	}

	var payments []models.Payment
	if err := utils.DB.Preload("Event").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&payments).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error fetching payments")
		return
	}
	utils.RespondData(c, payments)
}

func (ar *APIRoutes) GetPayment(c *gin.Context) {
	claims, _ := middleware.CurrentUser(c)
	id, err := utils.ParamUint(c, "id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid payment id")
		return
	}

	var payment models.Payment
	if err := utils.DB.Preload("Event").Preload("User").First(&payment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, "Payment not found")
		} else {
			utils.RespondError(c, http.StatusInternalServerError, "Error fetching payment")
		}
		return
	}
	if claims.Role != models.RoleAdmin && payment.UserID != claims.UserID {
		utils.RespondError(c, http.StatusForbidden, "Access denied")
		return
	}
	utils.RespondData(c, payment)
}

type adminPaymentStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes"`
}

// AdminUpdatePaymentStatus is the manual override for reconciliation
// mismatches, refunds and stuck transactions.
func (ar *APIRoutes) AdminUpdatePaymentStatus(c *gin.Context) {
	id, err := utils.ParamUint(c, "id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid payment id")
		return
	}

	var req adminPaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || !models.ValidPaymentStatus(req.Status) {
		utils.RespondError(c, http.StatusBadRequest, "Invalid payment status")
		return
	}

	var payment models.Payment
	if err := utils.DB.First(&payment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, "Payment not found")
		} else {
			utils.RespondError(c, http.StatusInternalServerError, "Error fetching payment")
		}
		return
	}

	updates := map[string]interface{}{"payment_status": req.Status}
	if req.Notes != "" {
		updates["notes"] = req.Notes
	}
	if err := utils.DB.Model(&payment).Updates(updates).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error updating payment")
		return
	}
	payment.PaymentStatus = req.Status

	claims, _ := middleware.CurrentUser(c)
	ar.logger.Info("payment status overridden",
		zap.Uint("payment_id", payment.ID),
		zap.String("status", req.Status),
		zap.Uint("admin_id", claims.UserID))

	if err := ar.syncRegistrationForPayment(&payment); err != nil {
		ar.logger.Error("registration sync failed", zap.Uint("payment_id", payment.ID), zap.Error(err))
	}

	utils.RespondOK(c, "Payment status updated", payment)
}
