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

// materialVisible hides admin-only materials from regular members.
func materialVisible(material *models.LearningMaterial, role string) bool {
	if material.AccessLevel == models.MaterialAccessAdminOnly {
		return role == models.RoleAdmin
	}
	return true
}

func (ar *APIRoutes) ListMaterials(c *gin.Context) {
	claims, _ := middleware.CurrentUser(c)
	page, limit := utils.PageParams(c, 10)

	query := utils.DB.Model(&models.LearningMaterial{}).Where("is_active = ?", true)
	if claims.Role != models.RoleAdmin {
		query = query.Where("access_level = ?", models.MaterialAccessAnggotaOnly)
	}
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if level := c.Query("level"); level != "" {
		query = query.Where("level = ?", level)
	}
	if materialType := c.Query("type"); materialType != "" {
		query = query.Where("type = ?", materialType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error counting materials")
		return
	}

	var materials []models.LearningMaterial
	if err := query.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&materials).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error fetching materials")
		return
	}

	utils.RespondList(c, materials, utils.NewPagination(total, page, limit))
}

func (ar *APIRoutes) GetMaterial(c *gin.Context) {
	claims, _ := middleware.CurrentUser(c)
	id, err := utils.ParamUint(c, "id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid material id")
		return
	}

	var material models.LearningMaterial
	if err := utils.DB.Where("is_active = ?", true).First(&material, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, "Material not found")
		} else {
			utils.RespondError(c, http.StatusInternalServerError, "Error fetching material")
		}
		return
	}
	if !materialVisible(&material, claims.Role) {
		utils.RespondError(c, http.StatusForbidden, "Access denied")
		return
	}
	utils.RespondData(c, material)
}

// MaterialViewed bumps the view counter. The increment runs in SQL so
// concurrent views cannot lose updates.
func (ar *APIRoutes) MaterialViewed(c *gin.Context) {
	ar.bumpMaterialCounter(c, "view_count")
}

func (ar *APIRoutes) MaterialDownloaded(c *gin.Context) {
	ar.bumpMaterialCounter(c, "download_count")
}

func (ar *APIRoutes) bumpMaterialCounter(c *gin.Context, column string) {
	claims, _ := middleware.CurrentUser(c)
	id, err := utils.ParamUint(c, "id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid material id")
		return
	}

	var material models.LearningMaterial
	if err := utils.DB.Where("is_active = ?", true).First(&material, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, "Material not found")
		} else {
			utils.RespondError(c, http.StatusInternalServerError, "Error fetching material")
		}
		return
	}
	if !materialVisible(&material, claims.Role) {
		utils.RespondError(c, http.StatusForbidden, "Access denied")
		return
	}

	if err := utils.DB.Model(&material).
		UpdateColumn(column, gorm.Expr(column+" + ?", 1)).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error updating counter")
		return
	}

	utils.RespondOK(c, "Recorded", nil)
}

type materialRequest struct {
	Title        string `json:"title" binding:"required"`
	Description  string `json:"description"`
	Type         string `json:"type" binding:"required"`
	Category     string `json:"category" binding:"required"`
	Level        string `json:"level"`
	FileURL      string `json:"file_url" binding:"required"`
	ThumbnailURL string `json:"thumbnail_url"`
	FileSize     int    `json:"file_size"`
	Duration     int    `json:"duration"`
	AccessLevel  string `json:"access_level"`
}

func (ar *APIRoutes) CreateMaterial(c *gin.Context) {
	claims, _ := middleware.CurrentUser(c)

	var req materialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "title, type, category and file_url are required")
		return
	}
	if !models.ValidMaterialType(req.Type) {
		utils.RespondError(c, http.StatusBadRequest, "Invalid material type")
		return
	}
	if !models.ValidMaterialCategory(req.Category) {
		utils.RespondError(c, http.StatusBadRequest, "Invalid material category")
		return
	}
	level := req.Level
	if level == "" {
		level = "all"
	}
	if !models.ValidMaterialLevel(level) {
		utils.RespondError(c, http.StatusBadRequest, "Invalid material level")
		return
	}
	accessLevel := req.AccessLevel
	if accessLevel == "" {
		accessLevel = models.MaterialAccessAnggotaOnly
	}
	if accessLevel != models.MaterialAccessAnggotaOnly && accessLevel != models.MaterialAccessAdminOnly {
		utils.RespondError(c, http.StatusBadRequest, "Invalid access level")
		return
	}

	material := models.LearningMaterial{
		Title:        req.Title,
		Description:  req.Description,
		Type:         req.Type,
		Category:     req.Category,
		Level:        level,
		FileURL:      req.FileURL,
		ThumbnailURL: req.ThumbnailURL,
		FileSize:     req.FileSize,
		Duration:     req.Duration,
		UploadedBy:   claims.UserID,
		AccessLevel:  accessLevel,
		IsActive:     true,
	}
	if err := utils.DB.Create(&material).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error creating material")
		return
	}

	utils.RespondCreated(c, "Material created", material)
}

func (ar *APIRoutes) UpdateMaterial(c *gin.Context) {
	id, err := utils.ParamUint(c, "id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid material id")
		return
	}

	var material models.LearningMaterial
	if err := utils.DB.First(&material, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, "Material not found")
		} else {
			utils.RespondError(c, http.StatusInternalServerError, "Error fetching material")
		}
		return
	}

	var req map[string]interface{}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if materialType, ok := req["type"].(string); ok && !models.ValidMaterialType(materialType) {
		utils.RespondError(c, http.StatusBadRequest, "Invalid material type")
		return
	}
	if category, ok := req["category"].(string); ok && !models.ValidMaterialCategory(category) {
		utils.RespondError(c, http.StatusBadRequest, "Invalid material category")
		return
	}
	if level, ok := req["level"].(string); ok && !models.ValidMaterialLevel(level) {
		utils.RespondError(c, http.StatusBadRequest, "Invalid material level")
		return
	}

	delete(req, "id")
	delete(req, "uploaded_by")
	delete(req, "view_count")
	delete(req, "download_count")

	if err := utils.DB.Model(&material).Updates(req).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error updating material")
		return
	}

	utils.RespondOK(c, "Material updated", material)
}

func (ar *APIRoutes) DeactivateMaterial(c *gin.Context) {
	id, err := utils.ParamUint(c, "id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid material id")
		return
	}

	result := utils.DB.Model(&models.LearningMaterial{}).
		Where("id = ?", id).
		Update("is_active", false)
	if result.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error removing material")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, "Material not found")
		return
	}

	utils.RespondOK(c, "Material removed", nil)
}
