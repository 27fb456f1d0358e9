package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/rizkirifandi7/web-silat-be-v2/services"
)

func loginRouter(ar *APIRoutes) *gin.Engine {
	router := gin.New()
	router.POST("/api/auth/login", ar.Login)
	return router
}

func TestLoginLockedOut(t *testing.T) {
	newMockDB(t) // no queries expected: the limiter blocks before any lookup

	limiter := &fakeLimiter{blocked: true, retryAfter: 10 * time.Minute}
	ar := newTestRoutes(t, limiter)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"budi@example.com","password":"whatever1"}`))
	req.Header.Set("Content-Type", "application/json")
	loginRouter(ar).ServeHTTP(w, req)

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}

	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Success {
		t.Fatal("success must be false")
	}
	if !strings.Contains(body.Message, "Too many login attempts") {
		t.Fatalf("unexpected message: %q", body.Message)
	}
}

func TestLoginSuccessResetsCounter(t *testing.T) {
	mock := newMockDB(t)

	hash, err := services.HashPassword("rahasia123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	mock.ExpectQuery("SELECT (.+) FROM `users` WHERE email").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "nama", "email", "password", "role"}).
			AddRow(7, "Budi", "budi@example.com", hash, "anggota"))

	limiter := &fakeLimiter{}
	ar := newTestRoutes(t, limiter)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"budi@example.com","password":"rahasia123"}`))
	req.Header.Set("Content-Type", "application/json")
	loginRouter(ar).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", w.Code, w.Body.String())
	}
	if limiter.resetCalls != 1 {
		t.Fatalf("reset calls = %d, want 1", limiter.resetCalls)
	}

	var body struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Data.Token == "" {
		t.Fatal("missing token in response")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	mock := newMockDB(t)

	hash, err := services.HashPassword("rahasia123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	mock.ExpectQuery("SELECT (.+) FROM `users` WHERE email").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "nama", "email", "password", "role"}).
			AddRow(7, "Budi", "budi@example.com", hash, "anggota"))

	limiter := &fakeLimiter{}
	ar := newTestRoutes(t, limiter)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"budi@example.com","password":"salah12345"}`))
	req.Header.Set("Content-Type", "application/json")
	loginRouter(ar).ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if limiter.resetCalls != 0 {
		t.Fatal("failed login must not reset the counter")
	}
}
