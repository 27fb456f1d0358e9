package routes

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rizkirifandi7/web-silat-be-v2/middleware"
	"github.com/rizkirifandi7/web-silat-be-v2/models"
	"github.com/rizkirifandi7/web-silat-be-v2/services"
	"github.com/rizkirifandi7/web-silat-be-v2/utils"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// campaignAcceptsDonations gates checkout on campaign existence and status.
func campaignAcceptsDonations(id uint) error {
	var campaign models.DonationCampaign
	if err := utils.DB.First(&campaign, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return services.ErrNotFound
		}
		return err
	}
	if campaign.Status != models.CampaignStatusActive {
		return services.ErrCampaignInactive
	}
	return nil
}

type createDonationRequest struct {
	CampaignID    *uint           `json:"campaign_id"`
	DonorName     string          `json:"donor_name"`
	DonorEmail    string          `json:"donor_email"`
	DonorPhone    string          `json:"donor_phone"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Message       string          `json:"message"`
	IsAnonymous   bool            `json:"is_anonymous"`
	PaymentMethod string          `json:"payment_method" binding:"required"`
}

// CreateDonation accepts both anonymous and logged-in donors. The donation
// is recorded pending before the gateway is called; only the webhook moves
// it to settlement.
func (ar *APIRoutes) CreateDonation(c *gin.Context) {
	var req createDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "amount and payment_method are required")
		return
	}
	if req.Amount.LessThan(models.MinDonationAmount) {
		utils.RespondError(c, http.StatusBadRequest, "Minimum donation is Rp 1.000")
		return
	}
	if !models.ValidPaymentMethod(req.PaymentMethod) {
		utils.RespondError(c, http.StatusBadRequest, "Invalid payment method")
		return
	}

	donorName := req.DonorName
	donorEmail := req.DonorEmail
	var userID *uint
	if claims, ok := middleware.CurrentUser(c); ok {
		userID = &claims.UserID
		if donorName == "" {
			var user models.User
			if err := utils.DB.First(&user, claims.UserID).Error; err == nil {
				donorName = user.Nama
				if donorEmail == "" {
					donorEmail = user.Email
				}
			}
		}
	}
	if donorName == "" {
		if req.IsAnonymous {
			donorName = "Hamba Allah"
		} else {
			utils.RespondError(c, http.StatusBadRequest, "donor_name is required for guest donations")
			return
		}
	}

	if req.CampaignID != nil {
		switch err := campaignAcceptsDonations(*req.CampaignID); {
		case errors.Is(err, services.ErrNotFound):
			utils.RespondError(c, http.StatusNotFound, "Campaign not found")
			return
		case errors.Is(err, services.ErrCampaignInactive):
			utils.RespondError(c, http.StatusBadRequest, "Campaign is not accepting donations")
			return
		case err != nil:
			utils.RespondError(c, http.StatusInternalServerError, "Error fetching campaign")
			return
		}
	}

	donation := models.Donation{
		CampaignID:      req.CampaignID,
		UserID:          userID,
		DonorName:       donorName,
		DonorEmail:      donorEmail,
		DonorPhone:      req.DonorPhone,
		Amount:          req.Amount,
		Message:         req.Message,
		IsAnonymous:     req.IsAnonymous,
		PaymentMethod:   req.PaymentMethod,
		PaymentStatus:   models.DonationStatusPending,
		MidtransOrderID: services.NewDonationOrderID(),
	}
	if err := utils.DB.Create(&donation).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error creating donation")
		return
	}

	snap, err := ar.gateway.CreateTransaction(c.Request.Context(),
		donation.MidtransOrderID,
		donation.Amount.IntPart(),
		services.SnapCustomer{FirstName: donorName, Email: donorEmail, Phone: req.DonorPhone},
		[]services.SnapItem{{
			ID:       donation.MidtransOrderID,
			Price:    donation.Amount.IntPart(),
			Quantity: 1,
			Name:     "Donasi",
		}})
	if err != nil {
		ar.logger.Error("gateway checkout failed",
			zap.String("order_id", donation.MidtransOrderID), zap.Error(err))
		utils.RespondError(c, http.StatusBadGateway, "Payment gateway unavailable. Please try again.")
		return
	}

	utils.RespondCreated(c, "Donation created, waiting for payment", gin.H{
		"donation":     donation,
		"snap_token":   snap.Token,
		"redirect_url": snap.RedirectURL,
	})
}

func (ar *APIRoutes) HandleDonationNotification(c *gin.Context) {
	var n services.GatewayNotification
	if err := c.ShouldBindJSON(&n); err != nil || n.OrderID == "" {
		utils.RespondError(c, http.StatusBadRequest, "Invalid notification body")
		return
	}

	if err := ar.gateway.VerifySignature(n); err != nil {
		ar.logger.Warn("donation notification rejected", zap.String("order_id", n.OrderID), zap.Error(err))
		utils.RespondError(c, http.StatusForbidden, "Invalid signature")
		return
	}

	donation, err := ar.reconciler.ApplyDonationNotification(n)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.RespondError(c, http.StatusNotFound, "Donation not found")
		} else {
			ar.logger.Error("donation notification failed", zap.String("order_id", n.OrderID), zap.Error(err))
			utils.RespondError(c, http.StatusInternalServerError, "Error processing notification")
		}
		return
	}

	utils.RespondOK(c, "Notification processed", gin.H{
		"order_id": donation.MidtransOrderID,
		"status":   donation.PaymentStatus,
	})
}

func (ar *APIRoutes) ListDonations(c *gin.Context) {
	page, limit := utils.PageParams(c, 10)

	query := utils.DB.Model(&models.Donation{})
	if status := c.Query("status"); status != "" {
		query = query.Where("payment_status = ?", status)
	}
	if campaignID := c.Query("campaign_id"); campaignID != "" {
		query = query.Where("campaign_id = ?", campaignID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error counting donations")
		return
	}

	var donations []models.Donation
	if err := query.Preload("Campaign").
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&donations).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error fetching donations")
		return
	}

	utils.RespondList(c, donations, utils.NewPagination(total, page, limit))
}

// DonationStats aggregates settled donations only; pending money is not
// counted anywhere.
func (ar *APIRoutes) DonationStats(c *gin.Context) {
	var stats struct {
		TotalAmount decimal.Decimal `json:"total_amount"`
		TotalCount  int64           `json:"total_count"`
		DonorCount  int64           `json:"donor_count"`
	}

	row := utils.DB.Model(&models.Donation{}).
		Where("payment_status = ?", models.DonationStatusSettlement).
		Select("COALESCE(SUM(amount), 0) AS total_amount, COUNT(*) AS total_count, COUNT(DISTINCT donor_email) AS donor_count")
	if err := row.Scan(&stats).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error computing stats")
		return
	}

	var activeCampaigns int64
	if err := utils.DB.Model(&models.DonationCampaign{}).
		Where("status = ?", models.CampaignStatusActive).
		Count(&activeCampaigns).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error computing stats")
		return
	}

	utils.RespondData(c, gin.H{
		"total_amount":     stats.TotalAmount,
		"total_donations":  stats.TotalCount,
		"total_donors":     stats.DonorCount,
		"active_campaigns": activeCampaigns,
	})
}

func (ar *APIRoutes) DonationsByUser(c *gin.Context) {
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

	var donations []models.Donation
	if err := utils.DB.Preload("Campaign").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&donations).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error fetching donations")
		return
	}
	utils.RespondData(c, donations)
}

func (ar *APIRoutes) GetDonation(c *gin.Context) {
	id, err := utils.ParamUint(c, "id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid donation id")
		return
	}

	var donation models.Donation
	if err := utils.DB.Preload("Campaign").Preload("Donor").First(&donation, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, "Donation not found")
		} else {
			utils.RespondError(c, http.StatusInternalServerError, "Error fetching donation")
		}
		return
	}
	utils.RespondData(c, donation)
}
