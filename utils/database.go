package utils

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/rizkirifandi7/web-silat-be-v2/models"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func InitDatabase(host, user, password, dbname string, port int) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, password, host, port, dbname)

	// Production only logs errors, everything else is query noise.
	logLevel := logger.Info
	if os.Getenv("GO_ENV") == "production" {
		logLevel = logger.Error
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			LogLevel: logLevel,
		},
	)

	var err error
	DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:         newLogger,
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("connect database %s:%d/%s: %w", host, port, dbname, err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}

	sqlDB.SetMaxIdleConns(15)
	sqlDB.SetMaxOpenConns(120)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(30 * time.Minute)

	return nil
}

// MigrateDatabase creates or updates all tables.
func MigrateDatabase() error {
	return DB.AutoMigrate(
		&models.User{},
		&models.AnggotaSilat{},
		&models.Event{},
		&models.EventRegistration{},
		&models.Payment{},
		&models.DonationCampaign{},
		&models.Donation{},
		&models.GalleryPhoto{},
		&models.LearningMaterial{},
		&models.AboutSection{},
		&models.Founder{},
		&models.Product{},
	)
}
