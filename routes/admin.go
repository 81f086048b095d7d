package routes

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"quickfix-server/models"
	"quickfix-server/store"
)

// ===== ADMIN =====

func (api *API) getAdminStats(c *gin.Context) {
	ctx := c.Request.Context()

	users, err := api.Stores.Users.List(ctx, store.UserFilter{})
	if err != nil {
		log.Printf("Error loading users for stats: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to load stats"})
		return
	}
	workers, err := api.Stores.Workers.List(ctx, store.WorkerFilter{})
	if err != nil {
		log.Printf("Error loading workers for stats: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to load stats"})
		return
	}
	bookings, err := api.Stores.Bookings.List(ctx, store.BookingFilter{})
	if err != nil {
		log.Printf("Error loading bookings for stats: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to load stats"})
		return
	}

	pendingApprovals := 0
	for _, w := range workers {
		if !w.IsApproved {
			pendingApprovals++
		}
	}

	byStatus := map[models.BookingStatus]int{}
	revenue := 0
	for _, b := range bookings {
		byStatus[b.Status]++
		if b.Status == models.BookingStatusCompleted && b.Amount != nil {
			revenue += *b.Amount
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats": gin.H{
			"total_users":       len(users),
			"total_workers":     len(workers),
			"pending_approvals": pendingApprovals,
			"total_bookings":    len(bookings),
			"bookings_by_status": byStatus,
			"completed_revenue": revenue,
		},
	})
}

func (api *API) listUsers(c *gin.Context) {
	filter := store.UserFilter{
		Role:   models.UserRole(c.Query("role")),
		Limit:  parseIntQuery(c, "limit", 0),
		Offset: parseIntQuery(c, "offset", 0),
	}

	users, err := api.Stores.Users.List(c.Request.Context(), filter)
	if err != nil {
		log.Printf("Error listing users: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to list users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "users": users, "count": len(users)})
}

func (api *API) listWorkers(c *gin.Context) {
	filter := store.WorkerFilter{
		Limit:  parseIntQuery(c, "limit", 0),
		Offset: parseIntQuery(c, "offset", 0),
	}
	if v := c.Query("approved"); v != "" {
		approved := v == "true"
		filter.Approved = &approved
	}

	workers, err := api.Stores.Workers.List(c.Request.Context(), filter)
	if err != nil {
		log.Printf("Error listing workers: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to list workers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "workers": workers, "count": len(workers)})
}

func (api *API) listPendingWorkers(c *gin.Context) {
	approved := false
	workers, err := api.Stores.Workers.List(c.Request.Context(), store.WorkerFilter{Approved: &approved})
	if err != nil {
		log.Printf("Error listing pending workers: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to list workers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "workers": workers, "count": len(workers)})
}

func (api *API) approveWorker(c *gin.Context) {
	api.setWorkerFlags(c, func(w *models.WorkerProfile) string {
		w.IsApproved = true
		w.IsActive = true
		return "Worker approved"
	})
}

func (api *API) suspendWorker(c *gin.Context) {
	api.setWorkerFlags(c, func(w *models.WorkerProfile) string {
		w.IsActive = false
		return "Worker suspended"
	})
}

func (api *API) activateWorker(c *gin.Context) {
	api.setWorkerFlags(c, func(w *models.WorkerProfile) string {
		w.IsActive = true
		return "Worker activated"
	})
}

func (api *API) setWorkerFlags(c *gin.Context, apply func(*models.WorkerProfile) string) {
	workerID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid worker ID"})
		return
	}

	worker, err := api.Stores.Workers.Get(c.Request.Context(), uint(workerID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Worker not found"})
		return
	}

	message := apply(worker)
	if err := api.Stores.Workers.Update(c.Request.Context(), worker); err != nil {
		log.Printf("Error updating worker %d: %v", worker.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update worker"})
		return
	}

	log.Printf("✅ %s: worker %d", message, worker.ID)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message, "worker": worker})
}

func (api *API) listAllBookings(c *gin.Context) {
	filter := store.BookingFilter{
		Status: models.BookingStatus(c.Query("status")),
		Limit:  parseIntQuery(c, "limit", 0),
		Offset: parseIntQuery(c, "offset", 0),
	}

	bookings, err := api.Stores.Bookings.List(c.Request.Context(), filter)
	if err != nil {
		log.Printf("Error listing bookings: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to list bookings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "bookings": bookings, "count": len(bookings)})
}

func parseIntQuery(c *gin.Context, key string, fallback int) int {
	v := c.Query(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
