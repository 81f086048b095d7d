package routes

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"quickfix-server/matching"
	"quickfix-server/middleware"
	"quickfix-server/models"
	"quickfix-server/store"
)

// ===== WORKER HANDLERS =====

// searchWorkers runs the matching engine over all visible workers at the
// requester's location. Eligibility (approved && active) is enforced by the
// engine itself regardless of query parameters.
func (api *API) searchWorkers(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.DefaultQuery("lat", "28.6139"), 64)
	lng, errLng := strconv.ParseFloat(c.DefaultQuery("lng", "77.2090"), 64)
	if errLat != nil || errLng != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid coordinates"})
		return
	}

	filter := matching.Filter{
		Category:      c.Query("category"),
		Query:         c.Query("q"),
		SortBy:        c.DefaultQuery("sort", matching.SortRecommended),
		AvailableOnly: c.Query("available_only") == "true",
	}
	if v := c.Query("min_price"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.PriceMin = n
		}
	}
	if v := c.Query("max_price"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.PriceMax = n
		}
	}
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			filter.Limit = n
		}
	}

	workers, err := api.Stores.Workers.List(c.Request.Context(), store.WorkerFilter{})
	if err != nil {
		log.Printf("Error fetching workers: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch workers"})
		return
	}

	matches, err := api.Weights.Rank(workers, lat, lng, filter)
	if err != nil {
		if errors.Is(err, matching.ErrInvalidCoordinates) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid coordinates"})
			return
		}
		log.Printf("Error ranking workers: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to rank workers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"workers": matches,
		"count":   len(matches),
	})
}

func (api *API) getWorker(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid worker ID"})
		return
	}

	worker, err := api.Stores.Workers.Get(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Worker not found"})
			return
		}
		log.Printf("Error fetching worker profile: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch worker profile"})
		return
	}

	// Unapproved or suspended profiles are only visible to admins.
	if !worker.IsVisible() {
		if user, ok := middleware.CurrentUser(c); !ok || !user.IsAdmin() {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Worker not found"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "worker": worker})
}

func (api *API) getMyWorkerProfile(c *gin.Context) {
	userID := c.GetUint("user_id")

	worker, err := api.Stores.Workers.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Worker profile not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "worker": worker})
}

func (api *API) updateMyWorkerProfile(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req models.WorkerProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid profile data", "details": err.Error()})
		return
	}

	worker, err := api.Stores.Workers.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Worker profile not found"})
		return
	}

	worker.Skill = req.Skill
	worker.Skills = req.Skills
	worker.Experience = req.Experience
	worker.MinCharge = req.MinCharge
	worker.PriceMin = req.PriceMin
	worker.PriceMax = req.PriceMax
	worker.Area = req.Area
	worker.Lat = req.Lat
	worker.Lng = req.Lng

	if err := api.Stores.Workers.Update(c.Request.Context(), worker); err != nil {
		log.Printf("Error updating worker profile: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update worker profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "worker": worker})
}

// updateAvailability is the worker's own online/offline toggle. It does not
// touch the admin-owned approved/active flags.
func (api *API) updateAvailability(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req struct {
		IsAvailable bool `json:"is_available"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	worker, err := api.Stores.Workers.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Worker profile not found"})
		return
	}

	worker.IsAvailable = req.IsAvailable
	if err := api.Stores.Workers.Update(c.Request.Context(), worker); err != nil {
		log.Printf("Error updating availability: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update availability"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"is_available": worker.IsAvailable,
	})
}
