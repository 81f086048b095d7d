package routes

import (
	"errors"
	"log"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"quickfix-server/middleware"
	"quickfix-server/models"
	"quickfix-server/store"
)

// ===== REVIEWS =====

func (api *API) createReview(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Authentication required"})
		return
	}

	var req models.ReviewCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid review data", "details": err.Error()})
		return
	}

	ctx := c.Request.Context()

	booking, err := api.Stores.Bookings.Get(ctx, req.BookingID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Booking not found"})
		return
	}
	if booking.UserID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "You can only review your own bookings"})
		return
	}
	if booking.Status != models.BookingStatusCompleted {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Only completed bookings can be reviewed"})
		return
	}

	if _, err := api.Stores.Reviews.GetByBookingID(ctx, req.BookingID); err == nil {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Booking already reviewed"})
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		log.Printf("Error checking existing review: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create review"})
		return
	}

	review := models.Review{
		BookingID: req.BookingID,
		UserID:    user.ID,
		WorkerID:  booking.WorkerID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := api.Stores.Reviews.Insert(ctx, &review); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Booking already reviewed"})
			return
		}
		log.Printf("Error inserting review: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create review"})
		return
	}

	api.refreshWorkerRating(c, booking.WorkerID)

	c.JSON(http.StatusCreated, gin.H{"success": true, "review": review})
}

// refreshWorkerRating recomputes the aggregate from the full review list so
// the stored average never drifts.
func (api *API) refreshWorkerRating(c *gin.Context, workerID uint) {
	ctx := c.Request.Context()

	reviews, err := api.Stores.Reviews.ListByWorkerID(ctx, workerID)
	if err != nil {
		log.Printf("Error loading reviews for worker %d: %v", workerID, err)
		return
	}
	worker, err := api.Stores.Workers.Get(ctx, workerID)
	if err != nil {
		log.Printf("Error loading worker %d for rating refresh: %v", workerID, err)
		return
	}

	total := 0
	for _, r := range reviews {
		total += r.Rating
	}
	worker.TotalReviews = len(reviews)
	if len(reviews) > 0 {
		worker.Rating = math.Round(float64(total)/float64(len(reviews))*10) / 10
	} else {
		worker.Rating = 0
	}

	if err := api.Stores.Workers.Update(ctx, worker); err != nil {
		log.Printf("Error updating rating for worker %d: %v", workerID, err)
	}
}

func (api *API) getWorkerReviews(c *gin.Context) {
	workerID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid worker ID"})
		return
	}

	reviews, err := api.Stores.Reviews.ListByWorkerID(c.Request.Context(), uint(workerID))
	if err != nil {
		log.Printf("Error listing reviews for worker %d: %v", workerID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to load reviews"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "reviews": reviews, "count": len(reviews)})
}
