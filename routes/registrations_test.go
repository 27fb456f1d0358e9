package routes

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/go-sql-driver/mysql"
	"github.com/rizkirifandi7/web-silat-be-v2/middleware"
	"github.com/rizkirifandi7/web-silat-be-v2/models"
)

func registrationRouter(ar *APIRoutes) *gin.Engine {
	router := gin.New()
	router.POST("/api/registrations", middleware.Authenticate(), ar.RegisterToEvent)
	return router
}

func newRegistrationRequest(t *testing.T, token string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/registrations",
		strings.NewReader(`{"event_id":3}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func eventRows(capacity, registered int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "title", "event_type", "event_date", "capacity",
		"registered_count", "is_free", "price", "status", "organizer_id",
	}).AddRow(3, "Latihan Bersama", "seminar", time.Now().Add(48*time.Hour),
		capacity, registered, true, "0", "published", 1)
}

func expectAuthLookup(mock sqlmock.Sqlmock) {
	mock.ExpectQuery("SELECT count(.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
}

func TestRegisterToFreeEvent(t *testing.T) {
	mock := newMockDB(t)
	expectAuthLookup(mock)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `events` WHERE").
		WillReturnRows(eventRows(10, 5))
	mock.ExpectQuery("SELECT count(.+) FROM `event_registrations`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec("INSERT INTO `event_registrations`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE `events` SET `registered_count`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	ar := newTestRoutes(t, &fakeLimiter{})
	token, err := middleware.GenerateToken(&models.User{ID: 8, Email: "budi@example.com", Role: models.RoleUser})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	w := httptest.NewRecorder()
	registrationRouter(ar).ServeHTTP(w, newRegistrationRequest(t, token))

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body: %s", w.Code, w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRegisterEventFull(t *testing.T) {
	mock := newMockDB(t)
	expectAuthLookup(mock)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `events` WHERE").
		WillReturnRows(eventRows(10, 10))
	mock.ExpectQuery("SELECT count(.+) FROM `event_registrations`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectRollback()

	ar := newTestRoutes(t, &fakeLimiter{})
	token, err := middleware.GenerateToken(&models.User{ID: 8, Email: "budi@example.com", Role: models.RoleUser})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	w := httptest.NewRecorder()
	registrationRouter(ar).ServeHTTP(w, newRegistrationRequest(t, token))

	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409, body: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "full") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	mock := newMockDB(t)
	expectAuthLookup(mock)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `events` WHERE").
		WillReturnRows(eventRows(10, 5))
	mock.ExpectQuery("SELECT count(.+) FROM `event_registrations`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	ar := newTestRoutes(t, &fakeLimiter{})
	token, err := middleware.GenerateToken(&models.User{ID: 8, Email: "budi@example.com", Role: models.RoleUser})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	w := httptest.NewRecorder()
	registrationRouter(ar).ServeHTTP(w, newRegistrationRequest(t, token))

	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409, body: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "already registered") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

// A racing insert can slip past the duplicate check; the unique index on
// (event_id, user_id) answers with 1062 and the caller gets a conflict,
// not a server error.
func TestRegisterDuplicateInsertConflict(t *testing.T) {
	mock := newMockDB(t)
	expectAuthLookup(mock)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `events` WHERE").
		WillReturnRows(eventRows(10, 5))
	mock.ExpectQuery("SELECT count(.+) FROM `event_registrations`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec("INSERT INTO `event_registrations`").
		WillReturnError(&mysql.MySQLError{
			Number:  1062,
			Message: "Duplicate entry '3-8' for key 'idx_event_user'",
		})
	mock.ExpectRollback()

	ar := newTestRoutes(t, &fakeLimiter{})
	token, err := middleware.GenerateToken(&models.User{ID: 8, Email: "budi@example.com", Role: models.RoleUser})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	w := httptest.NewRecorder()
	registrationRouter(ar).ServeHTTP(w, newRegistrationRequest(t, token))

	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409, body: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "already registered") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

// The admin status override must take the event lock before re-locking the
// registration, matching the admission path. The ordered expectations fail
// if the locks are ever taken the other way around.
func TestStatusUpdateLocksEventFirst(t *testing.T) {
	mock := newMockDB(t)
	expectAuthLookup(mock)

	registrationColumns := []string{"id", "event_id", "user_id", "status"}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `event_registrations` WHERE").
		WillReturnRows(sqlmock.NewRows(registrationColumns).AddRow(7, 3, 8, "confirmed"))
	mock.ExpectQuery("SELECT (.+) FROM `events` WHERE (.+)FOR UPDATE").
		WillReturnRows(eventRows(10, 5))
	mock.ExpectQuery("SELECT (.+) FROM `event_registrations` WHERE (.+)FOR UPDATE").
		WillReturnRows(sqlmock.NewRows(registrationColumns).AddRow(7, 3, 8, "confirmed"))
	mock.ExpectExec("UPDATE `event_registrations` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `events` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	ar := newTestRoutes(t, &fakeLimiter{})
	token, err := middleware.GenerateToken(&models.User{ID: 1, Email: "admin@example.com", Role: models.RoleAdmin})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	router := gin.New()
	router.PUT("/api/registrations/:id/status",
		middleware.Authenticate(), middleware.Authorize(models.RoleAdmin), ar.UpdateRegistrationStatus)

	req := httptest.NewRequest(http.MethodPut, "/api/registrations/7/status",
		strings.NewReader(`{"status":"cancelled"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", w.Code, w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRegisterUnpublishedEvent(t *testing.T) {
	mock := newMockDB(t)
	expectAuthLookup(mock)

	rows := sqlmock.NewRows([]string{
		"id", "title", "event_type", "event_date", "capacity",
		"registered_count", "is_free", "price", "status", "organizer_id",
	}).AddRow(3, "Latihan Bersama", "seminar", time.Now().Add(48*time.Hour),
		10, 0, true, "0", "draft", 1)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `events` WHERE").WillReturnRows(rows)
	mock.ExpectRollback()

	ar := newTestRoutes(t, &fakeLimiter{})
	token, err := middleware.GenerateToken(&models.User{ID: 8, Email: "budi@example.com", Role: models.RoleUser})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	w := httptest.NewRecorder()
	registrationRouter(ar).ServeHTTP(w, newRegistrationRequest(t, token))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body: %s", w.Code, w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
