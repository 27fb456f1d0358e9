package routes

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rizkirifandi7/web-silat-be-v2/models"
	"github.com/rizkirifandi7/web-silat-be-v2/services"
	"github.com/rizkirifandi7/web-silat-be-v2/utils"
	"gorm.io/gorm"
)

func (ar *APIRoutes) ListUsers(c *gin.Context) {
	page, limit := utils.PageParams(c, 10)

	query := utils.DB.Model(&models.User{})
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("nama LIKE ? OR email LIKE ?", "%"+search+"%", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error counting users")
		return
	}

	var users []models.User
	if err := query.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&users).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error fetching users")
		return
	}

	utils.RespondList(c, users, utils.NewPagination(total, page, limit))
}

func (ar *APIRoutes) GetUser(c *gin.Context) {
	id, err := utils.ParamUint(c, "id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid user id")
		return
	}

	var user models.User
	if err := utils.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, "User not found")
		} else {
			utils.RespondError(c, http.StatusInternalServerError, "Error fetching user")
		}
		return
	}
	utils.RespondData(c, user)
}

type createUserRequest struct {
	Nama     string `json:"nama" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role"`
	Alamat   string `json:"alamat"`
	NoHP     string `json:"no_hp"`
}

func (ar *APIRoutes) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "nama, email and password (min 6 chars) are required")
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	if !models.ValidRole(role) {
		utils.RespondError(c, http.StatusBadRequest, "Invalid role")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	var count int64
	if err := utils.DB.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error checking email")
		return
	}
	if count > 0 {
		utils.RespondError(c, http.StatusConflict, "Email already registered")
		return
	}

	hashed, err := services.HashPassword(req.Password)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error processing password")
		return
	}

	user := models.User{
		Nama:     req.Nama,
		Email:    email,
		Password: hashed,
		Role:     role,
		Alamat:   req.Alamat,
		NoHP:     req.NoHP,
	}
	if err := utils.DB.Create(&user).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error creating user")
		return
	}

	utils.RespondCreated(c, "User created", user)
}

func (ar *APIRoutes) UpdateUser(c *gin.Context) {
	id, err := utils.ParamUint(c, "id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid user id")
		return
	}

	var user models.User
	if err := utils.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, "User not found")
		} else {
			utils.RespondError(c, http.StatusInternalServerError, "Error fetching user")
		}
		return
	}

	var req map[string]interface{}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if role, ok := req["role"].(string); ok && !models.ValidRole(role) {
		utils.RespondError(c, http.StatusBadRequest, "Invalid role")
		return
	}
	if password, ok := req["password"].(string); ok {
		if len(password) < 6 {
			utils.RespondError(c, http.StatusBadRequest, "Password must be at least 6 characters")
			return
		}
		hashed, err := services.HashPassword(password)
		if err != nil {
			utils.RespondError(c, http.StatusInternalServerError, "Error processing password")
			return
		}
		req["password"] = hashed
	}

	delete(req, "id")

	if err := utils.DB.Model(&user).Updates(req).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error updating user")
		return
	}

	utils.RespondOK(c, "User updated", user)
}

func (ar *APIRoutes) DeleteUser(c *gin.Context) {
	id, err := utils.ParamUint(c, "id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid user id")
		return
	}

	result := utils.DB.Delete(&models.User{}, id)
	if result.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error deleting user")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, "User not found")
		return
	}

	utils.RespondOK(c, "User deleted", nil)
}
