package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"quickfix-server/config"
	"quickfix-server/database"
	"quickfix-server/jobs"
	"quickfix-server/matching"
	"quickfix-server/middleware"
	"quickfix-server/routes"
	"quickfix-server/store"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load configuration
	config.Load()

	// Initialize database (runs migrations)
	if err := database.Initialize(); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}

	if err := seedServiceCategories(); err != nil {
		log.Printf("⚠️  Category seed failed: %v", err)
	}
	if os.Getenv("SEED_COUPONS") == "true" {
		if err := seedCoupons(); err != nil {
			log.Printf("⚠️  Coupon seed failed: %v", err)
		}
	}

	// Set Gin mode
	if config.AppConfig.Server.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.RedirectTrailingSlash = false
	router.RedirectFixedPath = false

	// Security headers (must be first)
	router.Use(middleware.SecurityHeadersMiddleware())

	// Request body limit
	router.Use(middleware.RequestSizeMiddleware(10 << 20))

	// Rate limiting
	router.Use(middleware.RateLimitMiddleware())

	// CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "QuickFix server is running",
			"time":    time.Now().UTC(),
		})
	})

	stores := store.NewGormStores(database.GetDB())
	api := routes.NewAPI(stores, matchingWeights())
	routes.Register(router, api)

	// Start background jobs
	expiryJob := jobs.NewCouponExpiryJob(stores.Coupons)
	expiryJob.Start()
	defer expiryJob.Stop()

	port := config.AppConfig.Server.Port
	log.Printf("Server starting on port %s", port)
	if err := router.Run("0.0.0.0:" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func matchingWeights() matching.Weights {
	m := config.AppConfig.Matching
	return matching.Weights{
		Availability: m.WeightAvailability,
		Distance:     m.WeightDistance,
		Rating:       m.WeightRating,
		Price:        m.WeightPrice,
		RadiusKm:     m.RadiusKm,
		PriceNorm:    m.PriceNorm,
	}
}
