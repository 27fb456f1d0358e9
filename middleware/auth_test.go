package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rizkirifandi7/web-silat-be-v2/models"
)

func init() {
	gin.SetMode(gin.TestMode)
	InitAuth("test-secret", time.Hour)
}

func TestTokenRoundTrip(t *testing.T) {
	user := &models.User{ID: 42, Email: "budi@example.com", Role: models.RoleAnggota}

	token, err := GenerateToken(user)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UserID != 42 || claims.Email != "budi@example.com" || claims.Role != models.RoleAnggota {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestParseTokenRejectsTampering(t *testing.T) {
	token, err := GenerateToken(&models.User{ID: 1, Email: "a@b.c", Role: models.RoleUser})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := ParseToken(token + "x"); err == nil {
		t.Fatal("tampered token accepted")
	}
	if _, err := ParseToken("not-a-token"); err == nil {
		t.Fatal("garbage token accepted")
	}
}

func withClaims(claims *AuthClaims) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(claimsKey, claims)
	}
}

func TestAuthorizeAllowsMatchingRole(t *testing.T) {
	router := gin.New()
	router.GET("/admin",
		withClaims(&AuthClaims{UserID: 1, Role: models.RoleAdmin}),
		Authorize(models.RoleAdmin),
		func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestAuthorizeRejectsOtherRoles(t *testing.T) {
	router := gin.New()
	router.GET("/admin",
		withClaims(&AuthClaims{UserID: 1, Role: models.RoleUser}),
		Authorize(models.RoleAdmin),
		func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
}

func TestRequireOwnerAdminBypass(t *testing.T) {
	lookup := func(id uint) (uint, error) {
		t.Fatal("lookup must not run for admins")
		return 0, nil
	}

	router := gin.New()
	router.GET("/resource/:id",
		withClaims(&AuthClaims{UserID: 99, Role: models.RoleAdmin}),
		RequireOwner(lookup),
		func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/resource/5", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestRequireOwnerMatchesCaller(t *testing.T) {
	lookup := func(id uint) (uint, error) { return 7, nil }

	router := gin.New()
	router.GET("/resource/:id",
		withClaims(&AuthClaims{UserID: 7, Role: models.RoleUser}),
		RequireOwner(lookup),
		func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/resource/5", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestRequireOwnerRejectsOthers(t *testing.T) {
	lookup := func(id uint) (uint, error) { return 7, nil }

	router := gin.New()
	router.GET("/resource/:id",
		withClaims(&AuthClaims{UserID: 8, Role: models.RoleUser}),
		RequireOwner(lookup),
		func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/resource/5", nil))
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
}
