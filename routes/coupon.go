package routes

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"quickfix-server/pricing"
)

// ===== COUPONS =====

type validateCouponRequest struct {
	Code   string `json:"code" binding:"required"`
	Amount int    `json:"amount" binding:"required,min=1"`
}

func (api *API) validateCoupon(c *gin.Context) {
	var req validateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Coupon code and amount are required"})
		return
	}

	result, err := api.Pricing.Apply(c.Request.Context(), req.Code, req.Amount)
	if err != nil {
		log.Printf("Error validating coupon %q: %v", req.Code, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to validate coupon"})
		return
	}

	if !result.Valid {
		c.JSON(http.StatusOK, gin.H{"success": false, "valid": false, "message": result.Message})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"valid":       true,
		"message":     result.Message,
		"discount":    result.Discount,
		"final_price": pricing.FinalPrice(req.Amount, result.Discount),
	})
}
