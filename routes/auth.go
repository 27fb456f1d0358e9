package routes

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rizkirifandi7/web-silat-be-v2/middleware"
	"github.com/rizkirifandi7/web-silat-be-v2/models"
	"github.com/rizkirifandi7/web-silat-be-v2/services"
	"github.com/rizkirifandi7/web-silat-be-v2/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type registerRequest struct {
	Nama     string `json:"nama" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Alamat   string `json:"alamat"`
	NoHP     string `json:"no_hp"`
}

func (ar *APIRoutes) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Nama, email and password (min 6 chars) are required")
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
		Role:     models.RoleUser,
		Alamat:   req.Alamat,
		NoHP:     req.NoHP,
	}
	if err := utils.DB.Create(&user).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error creating account")
		return
	}

	token, err := middleware.GenerateToken(&user)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error generating token")
		return
	}

	utils.RespondCreated(c, "Registration successful", gin.H{"user": user, "token": token})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login checks the attempt counter before touching credentials, so a
// locked-out caller learns nothing about whether the account exists.
func (ar *APIRoutes) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	allowed, retryAfter, err := ar.limiter.Allow(c.Request.Context(), email)
	if err != nil {
		// Limiter outage must not take logins down with it.
		ar.logger.Error("login limiter unavailable", zap.Error(err))
		allowed = true
	}
	if !allowed {
		minutes := int(retryAfter.Minutes()) + 1
		utils.RespondError(c, http.StatusTooManyRequests,
			fmt.Sprintf("Too many login attempts. Try again in %d minutes.", minutes))
		return
	}

	var user models.User
	if err := utils.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusUnauthorized, "Invalid email or password")
		} else {
			utils.RespondError(c, http.StatusInternalServerError, "Error during login")
		}
		return
	}

	if !services.CheckPassword(user.Password, req.Password) {
		utils.RespondError(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	if err := ar.limiter.Reset(c.Request.Context(), email); err != nil {
		ar.logger.Warn("failed to reset login attempts", zap.String("email", email), zap.Error(err))
	}

	token, err := middleware.GenerateToken(&user)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error generating token")
		return
	}

	c.SetCookie("token", token, 7*24*3600, "/", "", false, true)
	utils.RespondOK(c, "Login successful", gin.H{"user": user, "token": token})
}

func (ar *APIRoutes) Logout(c *gin.Context) {
	c.SetCookie("token", "", -1, "/", "", false, true)
	utils.RespondOK(c, "Logout successful", nil)
}

func (ar *APIRoutes) VerifyToken(c *gin.Context) {
	claims, _ := middleware.CurrentUser(c)
	utils.RespondData(c, gin.H{
		"user_id": claims.UserID,
		"email":   claims.Email,
		"role":    claims.Role,
	})
}

func (ar *APIRoutes) GetProfile(c *gin.Context) {
	claims, _ := middleware.CurrentUser(c)

	var user models.User
	if err := utils.DB.First(&user, claims.UserID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, "User not found")
		return
	}
	utils.RespondData(c, user)
}

type updateProfileRequest struct {
	Nama    string `json:"nama"`
	Alamat  string `json:"alamat"`
	NoHP    string `json:"no_hp"`
	FotoURL string `json:"foto_url"`
}

func (ar *APIRoutes) UpdateProfile(c *gin.Context) {
	claims, _ := middleware.CurrentUser(c)

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	var user models.User
	if err := utils.DB.First(&user, claims.UserID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, "User not found")
		return
	}

	updates := map[string]interface{}{}
	if req.Nama != "" {
		updates["nama"] = req.Nama
	}
	if req.Alamat != "" {
		updates["alamat"] = req.Alamat
	}
	if req.NoHP != "" {
		updates["no_hp"] = req.NoHP
	}
	if req.FotoURL != "" {
		updates["foto_url"] = req.FotoURL
	}
	if len(updates) > 0 {
		if err := utils.DB.Model(&user).Updates(updates).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, "Error updating profile")
			return
		}
	}

	utils.RespondOK(c, "Profile updated", user)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
}

func (ar *APIRoutes) ChangePassword(c *gin.Context) {
	claims, _ := middleware.CurrentUser(c)

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Current and new password (min 6 chars) are required")
		return
	}

	var user models.User
	if err := utils.DB.First(&user, claims.UserID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, "User not found")
		return
	}

	if !services.CheckPassword(user.Password, req.CurrentPassword) {
		utils.RespondError(c, http.StatusUnauthorized, "Current password is incorrect")
		return
	}

	hashed, err := services.HashPassword(req.NewPassword)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error processing password")
		return
	}
	if err := utils.DB.Model(&user).Update("password", hashed).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error updating password")
		return
	}

	utils.RespondOK(c, "Password changed", nil)
}
