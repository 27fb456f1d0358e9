package routes

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rizkirifandi7/web-silat-be-v2/middleware"
	"github.com/rizkirifandi7/web-silat-be-v2/models"
	"github.com/rizkirifandi7/web-silat-be-v2/utils"
	"gorm.io/gorm"
)

type anggotaRequest struct {
	UserID          uint       `json:"user_id" binding:"required"`
	TempatLahir     string     `json:"tempat_lahir"`
	TanggalLahir    *time.Time `json:"tanggal_lahir"`
	JenisKelamin    string     `json:"jenis_kelamin"`
	StatusPerguruan string     `json:"status_perguruan"`
	TingkatanSabuk  string     `json:"tingkatan_sabuk"`
}

// CreateAnggota promotes a user account into the member registry. The
// member number is issued here and the account role flips to anggota.
func (ar *APIRoutes) CreateAnggota(c *gin.Context) {
	var req anggotaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "user_id is required")
		return
	}

	var user models.User
	if err := utils.DB.First(&user, req.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, "User not found")
		} else {
			utils.RespondError(c, http.StatusInternalServerError, "Error fetching user")
		}
		return
	}

	var count int64
	if err := utils.DB.Model(&models.AnggotaSilat{}).
		Where("user_id = ?", req.UserID).Count(&count).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error checking membership")
		return
	}
	if count > 0 {
		utils.RespondError(c, http.StatusConflict, "User is already a registered member")
		return
	}

	var anggota models.AnggotaSilat
	err := utils.DB.Transaction(func(tx *gorm.DB) error {
		var seq int64
		if err := tx.Model(&models.AnggotaSilat{}).Count(&seq).Error; err != nil {
			return err
		}

		anggota = models.AnggotaSilat{
			UserID:           req.UserID,
			NomorAnggota:     fmt.Sprintf("PSN-%d-%04d", time.Now().Year(), seq+1),
			TempatLahir:      req.TempatLahir,
			TanggalLahir:     req.TanggalLahir,
			JenisKelamin:     req.JenisKelamin,
			StatusPerguruan:  req.StatusPerguruan,
			TingkatanSabuk:   req.TingkatanSabuk,
			TanggalBergabung: time.Now(),
			StatusAktif:      true,
		}
		if err := tx.Create(&anggota).Error; err != nil {
			return err
		}

		if user.Role == models.RoleUser {
			return tx.Model(&user).Update("role", models.RoleAnggota).Error
		}
		return nil
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error creating member")
		return
	}

	utils.RespondCreated(c, "Member registered", anggota)
}

func (ar *APIRoutes) ListAnggota(c *gin.Context) {
	page, limit := utils.PageParams(c, 10)

	query := utils.DB.Model(&models.AnggotaSilat{})
	switch c.Query("status") {
	case "inactive":
		query = query.Where("status_aktif = ?", false)
	case "all":
	default:
		query = query.Where("status_aktif = ?", true)
	}
	if sabuk := c.Query("tingkatan_sabuk"); sabuk != "" {
		query = query.Where("tingkatan_sabuk = ?", sabuk)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error counting members")
		return
	}

	var anggota []models.AnggotaSilat
	if err := query.Preload("User").
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&anggota).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error fetching members")
		return
	}

	utils.RespondList(c, anggota, utils.NewPagination(total, page, limit))
}

func (ar *APIRoutes) AnggotaStats(c *gin.Context) {
	var active, inactive int64
	if err := utils.DB.Model(&models.AnggotaSilat{}).
		Where("status_aktif = ?", true).Count(&active).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error computing stats")
		return
	}
	if err := utils.DB.Model(&models.AnggotaSilat{}).
		Where("status_aktif = ?", false).Count(&inactive).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error computing stats")
		return
	}

	type sabukCount struct {
		TingkatanSabuk string `json:"tingkatan_sabuk"`
		Count          int64  `json:"count"`
	}
	var bySabuk []sabukCount
	if err := utils.DB.Model(&models.AnggotaSilat{}).
		Select("tingkatan_sabuk, COUNT(*) AS count").
		Where("status_aktif = ?", true).
		Group("tingkatan_sabuk").
		Scan(&bySabuk).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error computing stats")
		return
	}

	utils.RespondData(c, gin.H{
		"active":   active,
		"inactive": inactive,
		"total":    active + inactive,
		"by_belt":  bySabuk,
	})
}

func (ar *APIRoutes) AnggotaByUser(c *gin.Context) {
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

	var anggota models.AnggotaSilat
	if err := utils.DB.Preload("User").Where("user_id = ?", userID).First(&anggota).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, "Member record not found")
		} else {
			utils.RespondError(c, http.StatusInternalServerError, "Error fetching member")
		}
		return
	}
	utils.RespondData(c, anggota)
}

func (ar *APIRoutes) GetAnggota(c *gin.Context) {
	claims, _ := middleware.CurrentUser(c)
	id, err := utils.ParamUint(c, "id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid member id")
		return
	}

	var anggota models.AnggotaSilat
	if err := utils.DB.Preload("User").First(&anggota, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, "Member not found")
		} else {
			utils.RespondError(c, http.StatusInternalServerError, "Error fetching member")
		}
		return
	}
	if claims.Role != models.RoleAdmin && anggota.UserID != claims.UserID {
		utils.RespondError(c, http.StatusForbidden, "Access denied")
		return
	}
	utils.RespondData(c, anggota)
}

func (ar *APIRoutes) UpdateAnggota(c *gin.Context) {
	id, err := utils.ParamUint(c, "id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid member id")
		return
	}

	var anggota models.AnggotaSilat
	if err := utils.DB.First(&anggota, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, "Member not found")
		} else {
			utils.RespondError(c, http.StatusInternalServerError, "Error fetching member")
		}
		return
	}

	var req map[string]interface{}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	delete(req, "id")
	delete(req, "user_id")
	delete(req, "nomor_anggota")

	if err := utils.DB.Model(&anggota).Updates(req).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error updating member")
		return
	}

	utils.RespondOK(c, "Member updated", anggota)
}

// VerifyAnggota reactivates a member and restores the anggota role on the
// linked account.
func (ar *APIRoutes) VerifyAnggota(c *gin.Context) {
	id, err := utils.ParamUint(c, "id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid member id")
		return
	}

	var anggota models.AnggotaSilat
	if err := utils.DB.First(&anggota, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, "Member not found")
		} else {
			utils.RespondError(c, http.StatusInternalServerError, "Error fetching member")
		}
		return
	}

	err = utils.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&anggota).Update("status_aktif", true).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).
			Where("id = ? AND role = ?", anggota.UserID, models.RoleUser).
			Update("role", models.RoleAnggota).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error verifying member")
		return
	}

	utils.RespondOK(c, "Member verified", anggota)
}

// DeactivateAnggota flips the active flag and demotes the account role,
// keeping the registry row for history.
func (ar *APIRoutes) DeactivateAnggota(c *gin.Context) {
	id, err := utils.ParamUint(c, "id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid member id")
		return
	}

	var anggota models.AnggotaSilat
	if err := utils.DB.First(&anggota, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, "Member not found")
		} else {
			utils.RespondError(c, http.StatusInternalServerError, "Error fetching member")
		}
		return
	}

	err = utils.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&anggota).Update("status_aktif", false).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).
			Where("id = ? AND role = ?", anggota.UserID, models.RoleAnggota).
			Update("role", models.RoleUser).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error deactivating member")
		return
	}

	utils.RespondOK(c, "Member deactivated", nil)
}
