package routes

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rizkirifandi7/web-silat-be-v2/middleware"
	"github.com/rizkirifandi7/web-silat-be-v2/models"
	"github.com/rizkirifandi7/web-silat-be-v2/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// campaignOwner backs the ownership middleware on campaign mutations.
func campaignOwner(id uint) (uint, error) {
	var campaign models.DonationCampaign
	if err := utils.DB.Select("organizer_id").First(&campaign, id).Error; err != nil {
		return 0, err
	}
	return campaign.OrganizerID, nil
}

var _ middleware.OwnerLookup = campaignOwner

func (ar *APIRoutes) ListCampaigns(c *gin.Context) {
	page, limit := utils.PageParams(c, 10)

	query := utils.DB.Model(&models.DonationCampaign{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	} else {
		query = query.Where("status <> ?", models.CampaignStatusDraft)
	}
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if c.Query("urgent") == "true" {
		query = query.Where("is_urgent = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error counting campaigns")
		return
	}

	var campaigns []models.DonationCampaign
	if err := query.Preload("Organizer").
		Order("is_urgent DESC, created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&campaigns).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error fetching campaigns")
		return
	}

	utils.RespondList(c, campaigns, utils.NewPagination(total, page, limit))
}

func (ar *APIRoutes) GetCampaign(c *gin.Context) {
	id, err := utils.ParamUint(c, "id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid campaign id")
		return
	}

	var campaign models.DonationCampaign
	if err := utils.DB.Preload("Organizer").First(&campaign, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, "Campaign not found")
		} else {
			utils.RespondError(c, http.StatusInternalServerError, "Error fetching campaign")
		}
		return
	}
	utils.RespondData(c, campaign)
}

// CampaignDonors lists settled donations for the campaign page. Anonymous
// donors are masked here, not at write time, so the ledger stays complete.
func (ar *APIRoutes) CampaignDonors(c *gin.Context) {
	id, err := utils.ParamUint(c, "id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid campaign id")
		return
	}
	page, limit := utils.PageParams(c, 20)

	query := utils.DB.Model(&models.Donation{}).
		Where("campaign_id = ? AND payment_status = ?", id, models.DonationStatusSettlement)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error counting donors")
		return
	}

	var donations []models.Donation
	if err := query.Order("paid_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&donations).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error fetching donors")
		return
	}

	type donorEntry struct {
		DonorName string          `json:"donor_name"`
		Amount    decimal.Decimal `json:"amount"`
		Message   string          `json:"message"`
		PaidAt    *time.Time      `json:"paid_at"`
	}
	donors := make([]donorEntry, 0, len(donations))
	for _, d := range donations {
		name := d.DonorName
		if d.IsAnonymous {
			name = "Hamba Allah"
		}
		donors = append(donors, donorEntry{
			DonorName: name,
			Amount:    d.Amount,
			Message:   d.Message,
			PaidAt:    d.PaidAt,
		})
	}

	utils.RespondList(c, donors, utils.NewPagination(total, page, limit))
}

type campaignRequest struct {
	Title        string          `json:"title" binding:"required"`
	Description  string          `json:"description"`
	Category     string          `json:"category" binding:"required"`
	TargetAmount decimal.Decimal `json:"target_amount" binding:"required"`
	StartDate    time.Time       `json:"start_date" binding:"required"`
	EndDate      *time.Time      `json:"end_date"`
	Status       string          `json:"status"`
	ImageURL     string          `json:"image_url"`
	IsUrgent     bool            `json:"is_urgent"`
}

func (ar *APIRoutes) CreateCampaign(c *gin.Context) {
	claims, _ := middleware.CurrentUser(c)

	var req campaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "title, category, target_amount and start_date are required")
		return
	}
	if !models.ValidCampaignCategory(req.Category) {
		utils.RespondError(c, http.StatusBadRequest, "Invalid campaign category")
		return
	}
	if !req.TargetAmount.IsPositive() {
		utils.RespondError(c, http.StatusBadRequest, "Target amount must be positive")
		return
	}
	if req.Status != "" && !models.ValidCampaignStatus(req.Status) {
		utils.RespondError(c, http.StatusBadRequest, "Invalid campaign status")
		return
	}
	if req.EndDate != nil && req.EndDate.Before(req.StartDate) {
		utils.RespondError(c, http.StatusBadRequest, "End date must be after start date")
		return
	}

	status := req.Status
	if status == "" {
		status = models.CampaignStatusDraft
	}

	campaign := models.DonationCampaign{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		TargetAmount: req.TargetAmount,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Status:       status,
		ImageURL:     req.ImageURL,
		OrganizerID:  claims.UserID,
		IsUrgent:     req.IsUrgent,
	}
	if err := utils.DB.Create(&campaign).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error creating campaign")
		return
	}

	utils.RespondCreated(c, "Campaign created", campaign)
}

func (ar *APIRoutes) UpdateCampaign(c *gin.Context) {
	id, err := utils.ParamUint(c, "id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid campaign id")
		return
	}

	var campaign models.DonationCampaign
	if err := utils.DB.First(&campaign, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, "Campaign not found")
		} else {
			utils.RespondError(c, http.StatusInternalServerError, "Error fetching campaign")
		}
		return
	}

	var req map[string]interface{}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if status, ok := req["status"].(string); ok && !models.ValidCampaignStatus(status) {
		utils.RespondError(c, http.StatusBadRequest, "Invalid campaign status")
		return
	}
	if category, ok := req["category"].(string); ok && !models.ValidCampaignCategory(category) {
		utils.RespondError(c, http.StatusBadRequest, "Invalid campaign category")
		return
	}

	// The aggregate moves only through the settlement path.
	delete(req, "current_amount")
	delete(req, "organizer_id")
	delete(req, "id")

	if err := utils.DB.Model(&campaign).Updates(req).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error updating campaign")
		return
	}

	utils.RespondOK(c, "Campaign updated", campaign)
}

// DeleteCampaign cancels rather than deletes, so donation rows keep their
// foreign keys.
func (ar *APIRoutes) DeleteCampaign(c *gin.Context) {
	id, err := utils.ParamUint(c, "id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid campaign id")
		return
	}

	result := utils.DB.Model(&models.DonationCampaign{}).
		Where("id = ?", id).
		Update("status", models.CampaignStatusCancelled)
	if result.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error cancelling campaign")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, "Campaign not found")
		return
	}

	utils.RespondOK(c, "Campaign cancelled", nil)
}
