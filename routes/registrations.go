package routes

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rizkirifandi7/web-silat-be-v2/middleware"
	"github.com/rizkirifandi7/web-silat-be-v2/models"
	"github.com/rizkirifandi7/web-silat-be-v2/services"
	"github.com/rizkirifandi7/web-silat-be-v2/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var errNotOwner = errors.New("caller does not own this resource")

// lockEventForRegistration loads the event under FOR UPDATE and runs the
// admission checks. Everything that mutates RegisteredCount goes through
// this path so the counter can never drift past Capacity.
func lockEventForRegistration(tx *gorm.DB, eventID, userID uint) (*models.Event, error) {
	var event models.Event
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&event, eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, services.ErrNotFound
		}
		return nil, err
	}

	if event.Status != models.EventStatusPublished {
		return nil, services.ErrEventNotOpen
	}

	// Any prior row blocks re-registration, cancelled ones included; the
	// composite unique index would reject the insert anyway.
	var existing int64
	if err := tx.Model(&models.EventRegistration{}).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, services.ErrAlreadyRegistered
	}

	if event.Capacity > 0 && event.RegisteredCount >= event.Capacity {
		return nil, services.ErrCapacityFull
	}

	return &event, nil
}

func registrationErrorResponse(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.RespondError(c, http.StatusNotFound, "Event not found")
	case errors.Is(err, services.ErrEventNotOpen):
		utils.RespondError(c, http.StatusBadRequest, "Event is not available for registration")
	case errors.Is(err, services.ErrAlreadyRegistered):
		utils.RespondError(c, http.StatusConflict, "You are already registered for this event")
	case errors.Is(err, services.ErrCapacityFull):
		utils.RespondError(c, http.StatusConflict, "Event is full")
	case errors.Is(err, services.ErrPaymentRequired):
		utils.RespondError(c, http.StatusPaymentRequired, "This event requires payment. Use registration with payment.")
	case errors.Is(err, services.ErrPaymentNotSettled):
		utils.RespondError(c, http.StatusBadRequest, "Payment not found or not completed")
	default:
		utils.RespondError(c, http.StatusInternalServerError, "Error processing registration")
	}
}

type registrationRequest struct {
	EventID   uint   `json:"event_id" binding:"required"`
	PaymentID *uint  `json:"payment_id"`
	Notes     string `json:"notes"`
}

// RegisterToEvent admits the caller to a free event, or to a paid event
// when a settled payment of theirs is supplied.
func (ar *APIRoutes) RegisterToEvent(c *gin.Context) {
	claims, _ := middleware.CurrentUser(c)

	var req registrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "event_id is required")
		return
	}

	var registration models.EventRegistration
	err := utils.DB.Transaction(func(tx *gorm.DB) error {
		event, err := lockEventForRegistration(tx, req.EventID, claims.UserID)
		if err != nil {
			return err
		}

		if !event.IsFree {
			if req.PaymentID == nil {
				return services.ErrPaymentRequired
			}
			var payment models.Payment
			if err := tx.Where("id = ? AND user_id = ? AND event_id = ?", *req.PaymentID, claims.UserID, req.EventID).
				First(&payment).Error; err != nil {
				return services.ErrPaymentNotSettled
			}
			if payment.PaymentStatus != models.PaymentStatusSettlement {
				return services.ErrPaymentNotSettled
			}
		}

		registration = models.EventRegistration{
			EventID:          req.EventID,
			UserID:           claims.UserID,
			RegistrationDate: time.Now(),
			Status:           models.RegistrationStatusConfirmed,
			PaymentID:        req.PaymentID,
			Notes:            req.Notes,
		}
		if err := tx.Create(&registration).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return services.ErrAlreadyRegistered
			}
			return err
		}

		return tx.Model(event).
			UpdateColumn("registered_count", gorm.Expr("registered_count + ?", 1)).Error
	})
	if err != nil {
		registrationErrorResponse(c, err)
		return
	}

	utils.RespondCreated(c, "Registration successful", registration)
}

type registerWithPaymentRequest struct {
	EventID       uint   `json:"event_id" binding:"required"`
	PaymentMethod string `json:"payment_method" binding:"required"`
	Notes         string `json:"notes"`
}

// RegisterWithPayment reserves a slot and opens a gateway checkout in one
// step. The registration stays pending until the payment webhook settles.
func (ar *APIRoutes) RegisterWithPayment(c *gin.Context) {
	claims, _ := middleware.CurrentUser(c)

	var req registerWithPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "event_id and payment_method are required")
		return
	}
	if !models.ValidPaymentMethod(req.PaymentMethod) {
		utils.RespondError(c, http.StatusBadRequest, "Invalid payment method")
		return
	}

	var (
		registration models.EventRegistration
		payment      models.Payment
		event        *models.Event
	)
	err := utils.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		event, err = lockEventForRegistration(tx, req.EventID, claims.UserID)
		if err != nil {
			return err
		}
		if event.IsFree {
			return services.ErrEventNotOpen
		}

		payment = models.Payment{
			EventID:         req.EventID,
			UserID:          claims.UserID,
			Amount:          event.Price,
			PaymentMethod:   req.PaymentMethod,
			PaymentStatus:   models.PaymentStatusPending,
			MidtransOrderID: services.NewEventOrderID(req.EventID, claims.UserID),
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		registration = models.EventRegistration{
			EventID:          req.EventID,
			UserID:           claims.UserID,
			RegistrationDate: time.Now(),
			Status:           models.RegistrationStatusPending,
			PaymentID:        &payment.ID,
			Notes:            req.Notes,
		}
		if err := tx.Create(&registration).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return services.ErrAlreadyRegistered
			}
			return err
		}

		return tx.Model(event).
			UpdateColumn("registered_count", gorm.Expr("registered_count + ?", 1)).Error
	})
	if err != nil {
		registrationErrorResponse(c, err)
		return
	}

	var user models.User
	if err := utils.DB.First(&user, claims.UserID).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error loading user")
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
		// The slot is held and the payment stays pending; the caller can
		// retry checkout or an admin can cancel it.
		ar.logger.Error("gateway checkout failed",
			zap.String("order_id", payment.MidtransOrderID), zap.Error(err))
		utils.RespondError(c, http.StatusBadGateway, "Payment gateway unavailable. Please try again.")
		return
	}

	utils.RespondCreated(c, "Registration created, waiting for payment", gin.H{
		"registration": registration,
		"payment":      payment,
		"snap_token":   snap.Token,
		"redirect_url": snap.RedirectURL,
	})
}

func (ar *APIRoutes) RegistrationsByUser(c *gin.Context) {
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

	var registrations []models.EventRegistration
	if err := utils.DB.Preload("Event").Preload("Payment").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&registrations).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error fetching registrations")
		return
	}
	utils.RespondData(c, registrations)
}

func (ar *APIRoutes) RegistrationsByEvent(c *gin.Context) {
	eventID, err := utils.ParamUint(c, "eventId")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid event id")
		return
	}

	var registrations []models.EventRegistration
	if err := utils.DB.Preload("User").Preload("Payment").
		Where("event_id = ?", eventID).
		Order("created_at ASC").
		Find(&registrations).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error fetching registrations")
		return
	}
	utils.RespondData(c, registrations)
}

func (ar *APIRoutes) CheckRegistration(c *gin.Context) {
	claims, _ := middleware.CurrentUser(c)
	eventID, err := utils.ParamUint(c, "eventId")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid event id")
		return
	}
	userID, err := utils.ParamUint(c, "userId")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid user id")
		return
	}
	if claims.Role != models.RoleAdmin && claims.UserID != userID {
		utils.RespondError(c, http.StatusForbidden, "Access denied")
		return
	}

	var registration models.EventRegistration
	err = utils.DB.Where("event_id = ? AND user_id = ? AND status IN ?",
		eventID, userID, models.ActiveRegistrationStatuses).
		First(&registration).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondData(c, gin.H{"registered": false})
		return
	}
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error checking registration")
		return
	}

	utils.RespondData(c, gin.H{"registered": true, "registration": registration})
}

type registrationStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateRegistrationStatus is the admin override. Moving into or out of
// cancelled adjusts the event counter under the event row lock.
func (ar *APIRoutes) UpdateRegistrationStatus(c *gin.Context) {
	id, err := utils.ParamUint(c, "id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid registration id")
		return
	}

	var req registrationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || !models.ValidRegistrationStatus(req.Status) {
		utils.RespondError(c, http.StatusBadRequest, "Invalid registration status")
		return
	}

	var registration models.EventRegistration
	err = utils.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&registration, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return services.ErrNotFound
			}
			return err
		}

		// Event before registration, same lock order as the admission path.
		var event models.Event
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&event, registration.EventID).Error; err != nil {
			return err
		}
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&registration, id).Error; err != nil {
			return err
		}
		if registration.Status == req.Status {
			return nil
		}

		wasActive := registration.Status != models.RegistrationStatusCancelled
		willBeActive := req.Status != models.RegistrationStatusCancelled

		var delta int
		switch {
		case wasActive && !willBeActive:
			delta = -1
		case !wasActive && willBeActive:
			delta = 1
		}
		if delta > 0 && event.Capacity > 0 && event.RegisteredCount >= event.Capacity {
			return services.ErrCapacityFull
		}

		if err := tx.Model(&registration).Update("status", req.Status).Error; err != nil {
			return err
		}
		if delta != 0 {
			if err := tx.Model(&event).
				UpdateColumn("registered_count", gorm.Expr("registered_count + ?", delta)).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.RespondError(c, http.StatusNotFound, "Registration not found")
		} else if errors.Is(err, services.ErrCapacityFull) {
			utils.RespondError(c, http.StatusConflict, "Event is full")
		} else {
			utils.RespondError(c, http.StatusInternalServerError, "Error updating registration")
		}
		return
	}

	utils.RespondOK(c, "Registration status updated", registration)
}

// CancelRegistration frees the caller's slot. Admins may cancel any
// registration.
func (ar *APIRoutes) CancelRegistration(c *gin.Context) {
	claims, _ := middleware.CurrentUser(c)
	id, err := utils.ParamUint(c, "id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid registration id")
		return
	}

	err = utils.DB.Transaction(func(tx *gorm.DB) error {
		var registration models.EventRegistration
		if err := tx.First(&registration, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return services.ErrNotFound
			}
			return err
		}
		if claims.Role != models.RoleAdmin && registration.UserID != claims.UserID {
			return errNotOwner
		}

		var event models.Event
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&event, registration.EventID).Error; err != nil {
			return err
		}
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&registration, id).Error; err != nil {
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
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.RespondError(c, http.StatusNotFound, "Registration not found")
		} else if errors.Is(err, errNotOwner) {
			utils.RespondError(c, http.StatusForbidden, "You can only cancel your own registration")
		} else {
			utils.RespondError(c, http.StatusInternalServerError, "Error cancelling registration")
		}
		return
	}

	utils.RespondOK(c, "Registration cancelled", nil)
}
