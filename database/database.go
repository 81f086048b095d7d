package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"quickfix-server/config"
	"quickfix-server/models"
)

var DB *gorm.DB

// Initialize sets up the database connection and runs migrations.
// DB_URL takes precedence; otherwise the connection string is assembled from
// the individual DB_* settings.
func Initialize() error {
	connString := os.Getenv("DB_URL")
	if connString == "" {
		db := config.AppConfig.Database
		connString = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
			db.Host, db.Port, db.User, db.Password, db.Name, db.SSLMode)
	}

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	var err error
	DB, err = gorm.Open(postgres.Open(connString), &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying SQL database: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("✅ Successfully connected to database")

	if err := runMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("✅ Database migrations completed successfully")

	return nil
}

// runMigrations creates or updates database tables
func runMigrations() error {
	return DB.AutoMigrate(
		&models.User{},
		&models.ServiceCategory{},
		&models.WorkerProfile{},
		&models.Booking{},
		&models.Review{},
		&models.Coupon{},
	)
}

func GetDB() *gorm.DB {
	return DB
}
