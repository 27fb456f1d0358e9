package routes

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/rizkirifandi7/web-silat-be-v2/middleware"
	"github.com/rizkirifandi7/web-silat-be-v2/services"
	"github.com/rizkirifandi7/web-silat-be-v2/utils"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.InitAuth("test-secret", time.Hour)
}

// newMockDB swaps the shared connection for a sqlmock-backed one.
func newMockDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}

	previous := utils.DB
	utils.DB = gormDB
	t.Cleanup(func() {
		utils.DB = previous
		db.Close()
	})

	return mock
}

// fakeLimiter is an in-memory stand-in for the redis-backed login limiter.
type fakeLimiter struct {
	blocked    bool
	retryAfter time.Duration
	resetCalls int
}

func (f *fakeLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	if f.blocked {
		return false, f.retryAfter, nil
	}
	return true, 0, nil
}

func (f *fakeLimiter) Reset(ctx context.Context, key string) error {
	f.resetCalls++
	return nil
}

func newTestRoutes(t *testing.T, limiter services.AttemptLimiter) *APIRoutes {
	t.Helper()
	gateway := services.NewMidtransClient(services.MidtransConfig{
		ServerKey: "test-key",
		APIURL:    "http://127.0.0.1:0",
	}, zaptest.NewLogger(t))
	return NewAPIRoutes(gateway, limiter, zaptest.NewLogger(t))
}
