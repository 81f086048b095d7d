package routes

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ===== CATEGORIES =====

func (api *API) getCategories(c *gin.Context) {
	categories, err := api.Stores.Categories.List(c.Request.Context())
	if err != nil {
		log.Printf("Error listing categories: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to load categories"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "categories": categories})
}
