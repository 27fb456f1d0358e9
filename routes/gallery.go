package routes

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rizkirifandi7/web-silat-be-v2/middleware"
	"github.com/rizkirifandi7/web-silat-be-v2/models"
	"github.com/rizkirifandi7/web-silat-be-v2/utils"
	"gorm.io/gorm"
)

func (ar *APIRoutes) ListPhotos(c *gin.Context) {
	page, limit := utils.PageParams(c, 12)

	query := utils.DB.Model(&models.GalleryPhoto{}).Where("is_active = ?", true)
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if eventID := c.Query("event_id"); eventID != "" {
		query = query.Where("event_id = ?", eventID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error counting photos")
		return
	}

	var photos []models.GalleryPhoto
	if err := query.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&photos).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error fetching photos")
		return
	}

	utils.RespondList(c, photos, utils.NewPagination(total, page, limit))
}

func (ar *APIRoutes) GetPhoto(c *gin.Context) {
	id, err := utils.ParamUint(c, "id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid photo id")
		return
	}

	var photo models.GalleryPhoto
	if err := utils.DB.Preload("Event").
		Where("is_active = ?", true).
		First(&photo, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, "Photo not found")
		} else {
			utils.RespondError(c, http.StatusInternalServerError, "Error fetching photo")
		}
		return
	}
	utils.RespondData(c, photo)
}

type photoRequest struct {
	Title        string     `json:"title" binding:"required"`
	Description  string     `json:"description"`
	Category     string     `json:"category" binding:"required"`
	PhotoURL     string     `json:"photo_url" binding:"required"`
	ThumbnailURL string     `json:"thumbnail_url"`
	EventID      *uint      `json:"event_id"`
	TakenAt      *time.Time `json:"taken_at"`
}

func (ar *APIRoutes) CreatePhoto(c *gin.Context) {
	claims, _ := middleware.CurrentUser(c)

	var req photoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "title, category and photo_url are required")
		return
	}
	if !models.ValidGalleryCategory(req.Category) {
		utils.RespondError(c, http.StatusBadRequest, "Invalid gallery category")
		return
	}

	photo := models.GalleryPhoto{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		PhotoURL:     req.PhotoURL,
		ThumbnailURL: req.ThumbnailURL,
		UploadedBy:   claims.UserID,
		EventID:      req.EventID,
		TakenAt:      req.TakenAt,
		IsActive:     true,
	}
	if err := utils.DB.Create(&photo).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error creating photo")
		return
	}

	utils.RespondCreated(c, "Photo added", photo)
}

func (ar *APIRoutes) UpdatePhoto(c *gin.Context) {
	id, err := utils.ParamUint(c, "id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid photo id")
		return
	}

	var photo models.GalleryPhoto
	if err := utils.DB.First(&photo, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, "Photo not found")
		} else {
			utils.RespondError(c, http.StatusInternalServerError, "Error fetching photo")
		}
		return
	}

	var req map[string]interface{}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if category, ok := req["category"].(string); ok && !models.ValidGalleryCategory(category) {
		utils.RespondError(c, http.StatusBadRequest, "Invalid gallery category")
		return
	}

	delete(req, "id")
	delete(req, "uploaded_by")

	if err := utils.DB.Model(&photo).Updates(req).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error updating photo")
		return
	}

	utils.RespondOK(c, "Photo updated", photo)
}

func (ar *APIRoutes) DeactivatePhoto(c *gin.Context) {
	id, err := utils.ParamUint(c, "id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid photo id")
		return
	}

	result := utils.DB.Model(&models.GalleryPhoto{}).
		Where("id = ?", id).
		Update("is_active", false)
	if result.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error removing photo")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, "Photo not found")
		return
	}

	utils.RespondOK(c, "Photo removed", nil)
}
