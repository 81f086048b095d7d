package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/lib/pq"
)

// seedCoupon mirrors the coupons table columns needed for inserts.
type seedCoupon struct {
	Code         string
	Discount     int
	DiscountType string
	MaxDiscount  *int
	MinOrder     int
	ValidDays    int
}

// seedCoupons inserts the launch promo codes straight over database/sql so it
// can run before GORM is wired up (e.g. from a one-off migration container).
func seedCoupons() error {
	dbHost := envOr("DB_HOST", "localhost")
	dbPort := envOr("DB_PORT", "5432")
	dbUser := envOr("DB_USER", "postgres")
	dbPassword := envOr("DB_PASSWORD", "")
	dbName := envOr("DB_NAME", "quickfix_db")
	dbSSLMode := envOr("DB_SSL_MODE", "disable")

	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		dbHost, dbPort, dbUser, dbPassword, dbName, dbSSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM coupons").Scan(&count); err != nil {
		return fmt.Errorf("failed to check coupons count: %w", err)
	}
	if count > 0 {
		log.Printf("⏭️  Coupons already exist (%d found). Skipping insertion.", count)
		return nil
	}

	maxFirst50 := 200
	maxWelcome20 := 150
	coupons := []seedCoupon{
		{Code: "FIRST50", Discount: 50, DiscountType: "percentage", MaxDiscount: &maxFirst50, MinOrder: 299, ValidDays: 90},
		{Code: "SAVE100", Discount: 100, DiscountType: "flat", MinOrder: 500, ValidDays: 60},
		{Code: "WELCOME20", Discount: 20, DiscountType: "percentage", MaxDiscount: &maxWelcome20, MinOrder: 199, ValidDays: 90},
	}

	stmt := `INSERT INTO coupons (code, discount, discount_type, max_discount, min_order, valid_until, is_active, created_at, updated_at)
	         VALUES ($1, $2, $3, $4, $5, $6, true, NOW(), NOW())`

	for _, c := range coupons {
		validUntil := time.Now().AddDate(0, 0, c.ValidDays)
		if _, err := db.Exec(stmt, c.Code, c.Discount, c.DiscountType, c.MaxDiscount, c.MinOrder, validUntil); err != nil {
			return fmt.Errorf("failed to insert coupon %s: %w", c.Code, err)
		}
		log.Printf("✅ Created coupon: %s", c.Code)
	}

	return nil
}

func envOr(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
