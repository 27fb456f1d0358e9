package routes

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rizkirifandi7/web-silat-be-v2/models"
	"github.com/rizkirifandi7/web-silat-be-v2/utils"
	"gorm.io/gorm"
)

func (ar *APIRoutes) ListProducts(c *gin.Context) {
	page, limit := utils.PageParams(c, 12)

	query := utils.DB.Model(&models.Product{}).Where("is_active = ?", true)
	if kategori := c.Query("kategori"); kategori != "" {
		query = query.Where("kategori = ?", kategori)
	}
	if c.Query("new") == "true" {
		query = query.Where("is_new = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error counting products")
		return
	}

	var products []models.Product
	if err := query.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&products).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error fetching products")
		return
	}

	utils.RespondList(c, products, utils.NewPagination(total, page, limit))
}

func (ar *APIRoutes) GetProduct(c *gin.Context) {
	id, err := utils.ParamUint(c, "id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid product id")
		return
	}

	var product models.Product
	if err := utils.DB.Where("is_active = ?", true).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, "Product not found")
		} else {
			utils.RespondError(c, http.StatusInternalServerError, "Error fetching product")
		}
		return
	}
	utils.RespondData(c, product)
}

type productRequest struct {
	Nama      string `json:"nama" binding:"required"`
	Kategori  string `json:"kategori" binding:"required"`
	Harga     int    `json:"harga" binding:"required"`
	Deskripsi string `json:"deskripsi"`
	ImageURL  string `json:"image_url" binding:"required"`
	IsNew     bool   `json:"is_new"`
}

func (ar *APIRoutes) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "nama, kategori, harga and image_url are required")
		return
	}
	if req.Harga < 0 {
		utils.RespondError(c, http.StatusBadRequest, "Price cannot be negative")
		return
	}

	product := models.Product{
		Nama:      req.Nama,
		Kategori:  req.Kategori,
		Harga:     req.Harga,
		Deskripsi: req.Deskripsi,
		ImageURL:  req.ImageURL,
		IsNew:     req.IsNew,
		IsActive:  true,
	}
	if err := utils.DB.Create(&product).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error creating product")
		return
	}

	utils.RespondCreated(c, "Product created", product)
}

func (ar *APIRoutes) UpdateProduct(c *gin.Context) {
	id, err := utils.ParamUint(c, "id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid product id")
		return
	}

	var product models.Product
	if err := utils.DB.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, "Product not found")
		} else {
			utils.RespondError(c, http.StatusInternalServerError, "Error fetching product")
		}
		return
	}

	var req map[string]interface{}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if harga, ok := req["harga"].(float64); ok && harga < 0 {
		utils.RespondError(c, http.StatusBadRequest, "Price cannot be negative")
		return
	}

	delete(req, "id")

	if err := utils.DB.Model(&product).Updates(req).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error updating product")
		return
	}

	utils.RespondOK(c, "Product updated", product)
}

func (ar *APIRoutes) DeactivateProduct(c *gin.Context) {
	id, err := utils.ParamUint(c, "id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid product id")
		return
	}

	result := utils.DB.Model(&models.Product{}).
		Where("id = ?", id).
		Update("is_active", false)
	if result.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error removing product")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, "Product not found")
		return
	}

	utils.RespondOK(c, "Product removed", nil)
}
