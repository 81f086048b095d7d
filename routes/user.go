package routes

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"quickfix-server/middleware"
	"quickfix-server/models"
)

// ===== USER PROFILE & FAVORITES =====

type updateProfileRequest struct {
	Name    string   `json:"name"`
	Phone   string   `json:"phone"`
	Address string   `json:"address"`
	Lat     *float64 `json:"lat"`
	Lng     *float64 `json:"lng"`
}

func (api *API) updateProfile(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Authentication required"})
		return
	}

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid profile data", "details": err.Error()})
		return
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if req.Address != "" {
		user.Address = req.Address
	}
	if req.Lat != nil {
		user.Lat = *req.Lat
	}
	if req.Lng != nil {
		user.Lng = *req.Lng
	}

	if err := api.Stores.Users.Update(c.Request.Context(), &user); err != nil {
		log.Printf("Error updating profile: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

func (api *API) getFavorites(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Authentication required"})
		return
	}

	workers := make([]models.WorkerProfile, 0, len(user.Favorites))
	for _, workerID := range user.Favorites {
		worker, err := api.Stores.Workers.Get(c.Request.Context(), workerID)
		if err != nil {
			// Favorite may point at a removed profile; skip it.
			continue
		}
		workers = append(workers, *worker)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "favorites": workers})
}

func (api *API) addFavorite(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Authentication required"})
		return
	}

	workerID, err := strconv.ParseUint(c.Param("workerId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid worker ID"})
		return
	}

	if _, err := api.Stores.Workers.Get(c.Request.Context(), uint(workerID)); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Worker not found"})
		return
	}

	if !user.HasFavorite(uint(workerID)) {
		user.Favorites = append(user.Favorites, uint(workerID))
		if err := api.Stores.Users.Update(c.Request.Context(), &user); err != nil {
			log.Printf("Error adding favorite: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update favorites"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "favorites": user.Favorites})
}

func (api *API) removeFavorite(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Authentication required"})
		return
	}

	workerID, err := strconv.ParseUint(c.Param("workerId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid worker ID"})
		return
	}

	filtered := make([]uint, 0, len(user.Favorites))
	for _, id := range user.Favorites {
		if id != uint(workerID) {
			filtered = append(filtered, id)
		}
	}
	user.Favorites = filtered

	if err := api.Stores.Users.Update(c.Request.Context(), &user); err != nil {
		log.Printf("Error removing favorite: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update favorites"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "favorites": user.Favorites})
}
