package routes

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rizkirifandi7/web-silat-be-v2/middleware"
	"github.com/rizkirifandi7/web-silat-be-v2/models"
	"github.com/rizkirifandi7/web-silat-be-v2/utils"
	"gorm.io/gorm"
)

// GetAbout returns the single organization profile row, creating an empty
// one on first read.
func (ar *APIRoutes) GetAbout(c *gin.Context) {
	var about models.AboutSection
	err := utils.DB.First(&about).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := utils.DB.Create(&about).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, "Error initializing profile")
			return
		}
	} else if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error fetching profile")
		return
	}
	utils.RespondData(c, about)
}

type aboutRequest struct {
	Sejarah      string `json:"sejarah"`
	Visi         string `json:"visi"`
	Misi         string `json:"misi"`
	FilosofiLogo string `json:"filosofi_logo"`
	LogoURL      string `json:"logo_url"`
}

func (ar *APIRoutes) UpdateAbout(c *gin.Context) {
	claims, _ := middleware.CurrentUser(c)

	var req aboutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	var about models.AboutSection
	err := utils.DB.First(&about).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		about = models.AboutSection{}
		if err := utils.DB.Create(&about).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, "Error initializing profile")
			return
		}
	} else if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error fetching profile")
		return
	}

	updates := map[string]interface{}{
		"sejarah":       req.Sejarah,
		"visi":          req.Visi,
		"misi":          req.Misi,
		"filosofi_logo": req.FilosofiLogo,
		"logo_url":      req.LogoURL,
		"updated_by":    claims.UserID,
	}
	if err := utils.DB.Model(&about).Updates(updates).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error updating profile")
		return
	}

	utils.RespondOK(c, "Profile updated", about)
}

func (ar *APIRoutes) ListFounders(c *gin.Context) {
	var founders []models.Founder
	if err := utils.DB.Where("is_active = ?", true).
		Order("display_order ASC").
		Find(&founders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error fetching founders")
		return
	}
	utils.RespondData(c, founders)
}

type founderRequest struct {
	Nama        string `json:"nama" binding:"required"`
	Title       string `json:"title"`
	Description string `json:"description"`
	PhotoURL    string `json:"photo_url"`
	Order       int    `json:"order"`
}

func (ar *APIRoutes) CreateFounder(c *gin.Context) {
	var req founderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "nama is required")
		return
	}

	founder := models.Founder{
		Nama:        req.Nama,
		Title:       req.Title,
		Description: req.Description,
		PhotoURL:    req.PhotoURL,
		Order:       req.Order,
		IsActive:    true,
	}
	if err := utils.DB.Create(&founder).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error creating founder")
		return
	}

	utils.RespondCreated(c, "Founder added", founder)
}

func (ar *APIRoutes) UpdateFounder(c *gin.Context) {
	id, err := utils.ParamUint(c, "id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid founder id")
		return
	}

	var founder models.Founder
	if err := utils.DB.First(&founder, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, "Founder not found")
		} else {
			utils.RespondError(c, http.StatusInternalServerError, "Error fetching founder")
		}
		return
	}

	var req map[string]interface{}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	delete(req, "id")
	if order, ok := req["order"]; ok {
		req["display_order"] = order
		delete(req, "order")
	}

	if err := utils.DB.Model(&founder).Updates(req).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error updating founder")
		return
	}

	utils.RespondOK(c, "Founder updated", founder)
}

func (ar *APIRoutes) DeactivateFounder(c *gin.Context) {
	id, err := utils.ParamUint(c, "id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid founder id")
		return
	}

	result := utils.DB.Model(&models.Founder{}).
		Where("id = ?", id).
		Update("is_active", false)
	if result.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error removing founder")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, "Founder not found")
		return
	}

	utils.RespondOK(c, "Founder removed", nil)
}
