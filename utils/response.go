package utils

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ParamUint parses a numeric route parameter.
func ParamUint(c *gin.Context, name string) (uint, error) {
	value, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(value), nil
}

// PageParams reads page/limit query values with sane bounds.
func PageParams(c *gin.Context, defaultLimit int) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if limit < 1 || limit > 100 {
		limit = defaultLimit
	}
	return page, limit
}

// Pagination is the list-endpoint metadata block.
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

func NewPagination(total int64, page, limit int) Pagination {
	return Pagination{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
	}
}

func RespondOK(c *gin.Context, message string, data interface{}) {
	c.JSON(200, gin.H{"success": true, "message": message, "data": data})
}

func RespondData(c *gin.Context, data interface{}) {
	c.JSON(200, gin.H{"success": true, "data": data})
}

func RespondCreated(c *gin.Context, message string, data interface{}) {
	c.JSON(201, gin.H{"success": true, "message": message, "data": data})
}

func RespondList(c *gin.Context, data interface{}, p Pagination) {
	c.JSON(200, gin.H{"success": true, "data": data, "pagination": p})
}

func RespondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}
