package routes

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"quickfix-server/lifecycle"
	"quickfix-server/middleware"
	"quickfix-server/models"
	"quickfix-server/pricing"
	"quickfix-server/store"
)

// ===== BOOKING HANDLERS =====

type createBookingRequest struct {
	WorkerID      uint      `json:"worker_id" binding:"required"`
	ServiceType   string    `json:"service_type" binding:"required"`
	Description   string    `json:"description"`
	Address       string    `json:"address" binding:"required"`
	ScheduledDate time.Time `json:"scheduled_date" binding:"required"`
	Amount        *int      `json:"amount"`
	CouponCode    string    `json:"coupon_code"`
}

func (api *API) createBooking(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid booking data", "details": err.Error()})
		return
	}

	userID := c.GetUint("user_id")
	ctx := c.Request.Context()

	worker, err := api.Stores.Workers.Get(ctx, req.WorkerID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Worker not found"})
		return
	}
	if !worker.IsBookable() {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Worker is not available for booking"})
		return
	}

	amount := req.Amount
	var couponResult *pricing.Result
	if req.CouponCode != "" && amount != nil {
		result, err := api.Pricing.Apply(ctx, req.CouponCode, *amount)
		if err != nil {
			log.Printf("Error validating coupon: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to validate coupon"})
			return
		}
		if !result.Valid {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": result.Message})
			return
		}
		discounted := pricing.FinalPrice(*amount, result.Discount)
		amount = &discounted
		couponResult = &result
	}

	booking, err := api.Lifecycle.Create(ctx, lifecycle.CreateInput{
		UserID:        userID,
		WorkerID:      req.WorkerID,
		ServiceType:   req.ServiceType,
		Description:   req.Description,
		Address:       req.Address,
		ScheduledDate: req.ScheduledDate,
		Amount:        amount,
	})
	if err != nil {
		if errors.Is(err, lifecycle.ErrPriceRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Amount must be positive"})
			return
		}
		log.Printf("Error creating booking: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create booking"})
		return
	}

	response := gin.H{"success": true, "booking": booking}
	if couponResult != nil {
		response["coupon"] = couponResult
	}
	c.JSON(http.StatusCreated, response)
}

// listMyBookings returns the caller's bookings: the customer view or the
// worker's job list depending on role.
func (api *API) listMyBookings(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Authentication required"})
		return
	}
	ctx := c.Request.Context()

	filter := store.BookingFilter{Status: models.BookingStatus(c.Query("status"))}
	switch {
	case user.IsWorker():
		worker, err := api.Stores.Workers.GetByUserID(ctx, user.ID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Worker profile not found"})
			return
		}
		filter.WorkerID = worker.ID
	default:
		filter.UserID = user.ID
	}

	bookings, err := api.Stores.Bookings.List(ctx, filter)
	if err != nil {
		log.Printf("Error fetching bookings: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch bookings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "bookings": bookings, "count": len(bookings)})
}

func (api *API) getBooking(c *gin.Context) {
	booking, ok := api.loadBookingForCaller(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "booking": booking})
}

func (api *API) acceptBooking(c *gin.Context) {
	api.transitionBooking(c, func(id uint) (*models.Booking, error) {
		return api.Lifecycle.Accept(c.Request.Context(), id, models.RoleWorker)
	})
}

func (api *API) rejectBooking(c *gin.Context) {
	api.transitionBooking(c, func(id uint) (*models.Booking, error) {
		return api.Lifecycle.Reject(c.Request.Context(), id, models.RoleWorker)
	})
}

func (api *API) startBooking(c *gin.Context) {
	api.transitionBooking(c, func(id uint) (*models.Booking, error) {
		return api.Lifecycle.Start(c.Request.Context(), id, models.RoleWorker)
	})
}

func (api *API) completeBooking(c *gin.Context) {
	var req struct {
		Price int `json:"price"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request", "details": err.Error()})
		return
	}

	api.transitionBooking(c, func(id uint) (*models.Booking, error) {
		booking, err := api.Lifecycle.Complete(c.Request.Context(), id, models.RoleWorker, req.Price)
		if err != nil {
			return nil, err
		}
		api.bumpCompletedJobs(c, booking.WorkerID)
		return booking, nil
	})
}

func (api *API) cancelBooking(c *gin.Context) {
	var req struct {
		Reason string `json:"reason"`
	}
	// Body is optional for cancellation.
	_ = c.ShouldBindJSON(&req)

	role := models.RoleCustomer
	if user, ok := middleware.CurrentUser(c); ok && user.IsAdmin() {
		role = models.RoleAdmin
	}

	api.transitionBooking(c, func(id uint) (*models.Booking, error) {
		return api.Lifecycle.Cancel(c.Request.Context(), id, role, req.Reason)
	})
}

// transitionBooking loads the booking, checks the caller is a party to it
// and maps lifecycle errors onto HTTP statuses.
func (api *API) transitionBooking(c *gin.Context, transition func(id uint) (*models.Booking, error)) {
	booking, ok := api.loadBookingForCaller(c)
	if !ok {
		return
	}

	updated, err := transition(booking.ID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Booking not found"})
		case errors.Is(err, lifecycle.ErrTerminalState):
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Booking is already closed"})
		case errors.Is(err, lifecycle.ErrPriceRequired):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "A positive price is required to complete the job"})
		case errors.Is(err, lifecycle.ErrNotAllowed):
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "You are not allowed to perform this action"})
		case errors.Is(err, store.ErrConflict):
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Booking was modified concurrently, please retry"})
		case lifecycle.IsInvalidTransition(err):
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": err.Error()})
		default:
			log.Printf("Error transitioning booking %d: %v", booking.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update booking"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "booking": updated})
}

// loadBookingForCaller fetches the booking from the path id and verifies the
// caller is its customer, its worker, or an admin. Writes the error response
// itself on failure.
func (api *API) loadBookingForCaller(c *gin.Context) (*models.Booking, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid booking ID"})
		return nil, false
	}

	booking, err := api.Stores.Bookings.Get(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Booking not found"})
			return nil, false
		}
		log.Printf("Error fetching booking: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch booking"})
		return nil, false
	}

	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Authentication required"})
		return nil, false
	}

	if user.IsAdmin() || booking.UserID == user.ID {
		return booking, true
	}
	if user.IsWorker() {
		worker, err := api.Stores.Workers.GetByUserID(c.Request.Context(), user.ID)
		if err == nil && booking.WorkerID == worker.ID {
			return booking, true
		}
	}

	c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "You are not a party to this booking"})
	return nil, false
}

func (api *API) bumpCompletedJobs(c *gin.Context, workerID uint) {
	worker, err := api.Stores.Workers.Get(c.Request.Context(), workerID)
	if err != nil {
		log.Printf("Error loading worker %d for job count: %v", workerID, err)
		return
	}
	worker.CompletedJobs++
	if err := api.Stores.Workers.Update(c.Request.Context(), worker); err != nil {
		log.Printf("Error updating completed jobs for worker %d: %v", workerID, err)
	}
}
