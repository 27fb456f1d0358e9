package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rizkirifandi7/web-silat-be-v2/models"
	"github.com/rizkirifandi7/web-silat-be-v2/utils"
	"gorm.io/gorm"
)

var (
	jwtSecret []byte
	tokenTTL  = 7 * 24 * time.Hour
)

// InitAuth must be called once at startup before any token is issued or
// verified.
func InitAuth(secret string, ttl time.Duration) {
	jwtSecret = []byte(secret)
	if ttl > 0 {
		tokenTTL = ttl
	}
}

type AuthClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

const claimsKey = "auth_claims"

func GenerateToken(user *models.User) (string, error) {
	claims := AuthClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret)
}

func ParseToken(tokenString string) (*AuthClaims, error) {
	claims := &AuthClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func tokenFromRequest(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	// Browser clients carry the token in an httpOnly cookie instead.
	if cookie, err := c.Cookie("token"); err == nil {
		return cookie
	}
	return ""
}

// Authenticate rejects requests without a valid bearer token and attaches
// the claims to the context. The user row must still exist.
func Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := tokenFromRequest(c)
		if tokenString == "" {
			utils.RespondError(c, http.StatusUnauthorized, "No token provided. Please login to access this resource.")
			c.Abort()
			return
		}

		claims, err := ParseToken(tokenString)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				utils.RespondError(c, http.StatusUnauthorized, "Token expired. Please login again.")
			} else {
				utils.RespondError(c, http.StatusUnauthorized, "Invalid token")
			}
			c.Abort()
			return
		}

		var count int64
		if err := utils.DB.Model(&models.User{}).Where("id = ?", claims.UserID).Count(&count).Error; err != nil || count == 0 {
			utils.RespondError(c, http.StatusUnauthorized, "User no longer exists")
			c.Abort()
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// OptionalAuth attaches claims when a valid token is present but never
// rejects the request.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString := tokenFromRequest(c); tokenString != "" {
			if claims, err := ParseToken(tokenString); err == nil {
				c.Set(claimsKey, claims)
			}
		}
		c.Next()
	}
}

// Authorize gates a route on the caller's role. Must run after
// Authenticate.
func Authorize(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := CurrentUser(c)
		if !ok {
			utils.RespondError(c, http.StatusUnauthorized, "Authentication required")
			c.Abort()
			return
		}
		for _, role := range allowedRoles {
			if claims.Role == role {
				c.Next()
				return
			}
		}
		utils.RespondError(c, http.StatusForbidden, "Access denied. Required role: "+strings.Join(allowedRoles, " or "))
		c.Abort()
	}
}

// OwnerLookup resolves the owning user id for the resource named by the
// :id route parameter.
type OwnerLookup func(id uint) (uint, error)

// RequireOwner passes admins through and otherwise compares the resource
// owner with the caller.
func RequireOwner(lookup OwnerLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := CurrentUser(c)
		if !ok {
			utils.RespondError(c, http.StatusUnauthorized, "Authentication required")
			c.Abort()
			return
		}
		if claims.Role == models.RoleAdmin {
			c.Next()
			return
		}

		id, err := utils.ParamUint(c, "id")
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, "Invalid id")
			c.Abort()
			return
		}

		ownerID, err := lookup(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondError(c, http.StatusNotFound, "Resource not found")
			} else {
				utils.RespondError(c, http.StatusInternalServerError, "Error checking ownership")
			}
			c.Abort()
			return
		}

		if ownerID != claims.UserID {
			utils.RespondError(c, http.StatusForbidden, "Access denied. You do not own this resource.")
			c.Abort()
			return
		}
		c.Next()
	}
}

func CurrentUser(c *gin.Context) (*AuthClaims, bool) {
	value, exists := c.Get(claimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*AuthClaims)
	return claims, ok
}
