package routes

import (
	"github.com/gin-gonic/gin"

	"quickfix-server/lifecycle"
	"quickfix-server/matching"
	"quickfix-server/middleware"
	"quickfix-server/models"
	"quickfix-server/pricing"
	"quickfix-server/store"
)

// API bundles the stores and engines the handlers work against. Everything
// is injected so tests can run against memory stores.
type API struct {
	Stores    *store.Stores
	Lifecycle *lifecycle.Manager
	Pricing   *pricing.Engine
	Weights   matching.Weights
}

// NewAPI wires the handler layer over the given stores.
func NewAPI(stores *store.Stores, weights matching.Weights) *API {
	return &API{
		Stores:    stores,
		Lifecycle: lifecycle.NewManager(stores.Bookings),
		Pricing:   pricing.NewEngine(stores.Coupons),
		Weights:   weights,
	}
}

// Register registers all API routes under /api/v1.
func Register(router *gin.Engine, api *API) {
	apiV1 := router.Group("/api/v1")

	auth := apiV1.Group("/auth")
	{
		auth.POST("/signup", api.signUp)
		auth.POST("/signup/worker", api.signUpWorker)
		auth.POST("/signin", api.signIn)
		auth.GET("/me", middleware.AuthMiddleware(api.Stores.Users), api.getCurrentUser)
	}

	// Public catalog
	apiV1.GET("/categories", api.getCategories)
	apiV1.GET("/workers", api.searchWorkers)
	apiV1.GET("/workers/:id", api.getWorker)
	apiV1.GET("/workers/:id/reviews", api.getWorkerReviews)

	protected := apiV1.Group("/")
	protected.Use(middleware.AuthMiddleware(api.Stores.Users))
	{
		protected.PUT("/profile", api.updateProfile)
		protected.GET("/favorites", api.getFavorites)
		protected.POST("/favorites/:workerId", api.addFavorite)
		protected.DELETE("/favorites/:workerId", api.removeFavorite)

		protected.POST("/coupons/validate", api.validateCoupon)

		bookings := protected.Group("/bookings")
		{
			bookings.POST("", middleware.RequireRole(models.RoleCustomer), api.createBooking)
			bookings.GET("", api.listMyBookings)
			bookings.GET("/:id", api.getBooking)
			bookings.POST("/:id/accept", middleware.RequireRole(models.RoleWorker), api.acceptBooking)
			bookings.POST("/:id/reject", middleware.RequireRole(models.RoleWorker), api.rejectBooking)
			bookings.POST("/:id/start", middleware.RequireRole(models.RoleWorker), api.startBooking)
			bookings.POST("/:id/complete", middleware.RequireRole(models.RoleWorker), api.completeBooking)
			bookings.POST("/:id/cancel", middleware.RequireRole(models.RoleCustomer, models.RoleAdmin), api.cancelBooking)
		}

		protected.POST("/reviews", middleware.RequireRole(models.RoleCustomer), api.createReview)

		worker := protected.Group("/worker")
		worker.Use(middleware.RequireRole(models.RoleWorker))
		{
			worker.GET("/profile", api.getMyWorkerProfile)
			worker.PUT("/profile", api.updateMyWorkerProfile)
			worker.POST("/availability", api.updateAvailability)
			worker.POST("/profile/photos", api.uploadWorkerPhotos)
		}

		admin := protected.Group("/admin")
		admin.Use(middleware.RequireRole(models.RoleAdmin))
		{
			admin.GET("/stats", api.getAdminStats)
			admin.GET("/users", api.listUsers)
			admin.GET("/workers", api.listWorkers)
			admin.GET("/workers/pending", api.listPendingWorkers)
			admin.POST("/workers/:id/approve", api.approveWorker)
			admin.POST("/workers/:id/suspend", api.suspendWorker)
			admin.POST("/workers/:id/activate", api.activateWorker)
			admin.GET("/bookings", api.listAllBookings)
		}
	}
}
