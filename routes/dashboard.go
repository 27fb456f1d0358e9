package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rizkirifandi7/web-silat-be-v2/models"
	"github.com/rizkirifandi7/web-silat-be-v2/utils"
	"github.com/shopspring/decimal"
)

// DashboardStats is the admin landing-page aggregate. Money figures count
// settled transactions only.
func (ar *APIRoutes) DashboardStats(c *gin.Context) {
	var (
		totalUsers    int64
		activeAnggota int64
		upcomingCount int64
	)
	if err := utils.DB.Model(&models.User{}).Count(&totalUsers).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error computing stats")
		return
	}
	if err := utils.DB.Model(&models.AnggotaSilat{}).
		Where("status_aktif = ?", true).Count(&activeAnggota).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error computing stats")
		return
	}
	if err := utils.DB.Model(&models.Event{}).
		Where("status = ? AND event_date > ?", models.EventStatusPublished, time.Now()).
		Count(&upcomingCount).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error computing stats")
		return
	}

	var paymentTotals struct {
		Total decimal.Decimal
		Count int64
	}
	if err := utils.DB.Model(&models.Payment{}).
		Where("payment_status = ?", models.PaymentStatusSettlement).
		Select("COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Scan(&paymentTotals).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error computing stats")
		return
	}

	var donationTotals struct {
		Total decimal.Decimal
		Count int64
	}
	if err := utils.DB.Model(&models.Donation{}).
		Where("payment_status = ?", models.DonationStatusSettlement).
		Select("COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Scan(&donationTotals).Error; err != nil {
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
		"total_users":      totalUsers,
		"active_anggota":   activeAnggota,
		"upcoming_events":  upcomingCount,
		"payment_revenue":  paymentTotals.Total,
		"payment_count":    paymentTotals.Count,
		"donation_total":   donationTotals.Total,
		"donation_count":   donationTotals.Count,
		"active_campaigns": activeCampaigns,
	})
}
