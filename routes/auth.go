package routes

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"quickfix-server/middleware"
	"quickfix-server/models"
	"quickfix-server/store"
	"quickfix-server/utils"
)

// ===== AUTH HANDLERS =====

type signUpRequest struct {
	Name     string  `json:"name" binding:"required"`
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=6"`
	Phone    string  `json:"phone"`
	Address  string  `json:"address"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
}

type workerSignUpRequest struct {
	signUpRequest
	Profile models.WorkerProfileRequest `json:"profile" binding:"required"`
}

type signInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (api *API) signUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid signup data", "details": err.Error()})
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create account"})
		return
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Phone:        req.Phone,
		Address:      req.Address,
		Lat:          req.Lat,
		Lng:          req.Lng,
		Role:         models.RoleCustomer,
		IsActive:     true,
	}
	if err := api.Stores.Users.Insert(c.Request.Context(), user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "An account with this email already exists"})
			return
		}
		log.Printf("Error creating user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create account"})
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		log.Printf("Error generating token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"token":   token,
		"user":    user,
	})
}

// signUpWorker creates a worker account plus its profile. The profile starts
// unapproved; an admin has to approve it before the worker shows up in
// search.
func (api *API) signUpWorker(c *gin.Context) {
	var req workerSignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid signup data", "details": err.Error()})
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create account"})
		return
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Phone:        req.Phone,
		Address:      req.Address,
		Role:         models.RoleWorker,
		IsActive:     true,
	}
	if err := api.Stores.Users.Insert(c.Request.Context(), user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "An account with this email already exists"})
			return
		}
		log.Printf("Error creating worker user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create account"})
		return
	}

	worker := &models.WorkerProfile{
		UserID:      user.ID,
		Skill:       req.Profile.Skill,
		Skills:      req.Profile.Skills,
		Experience:  req.Profile.Experience,
		MinCharge:   req.Profile.MinCharge,
		PriceMin:    req.Profile.PriceMin,
		PriceMax:    req.Profile.PriceMax,
		Area:        req.Profile.Area,
		Lat:         req.Profile.Lat,
		Lng:         req.Profile.Lng,
		IsApproved:  false,
		IsActive:    true,
		IsAvailable: false,
	}
	if err := api.Stores.Workers.Insert(c.Request.Context(), worker); err != nil {
		log.Printf("Error creating worker profile: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create worker profile"})
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		log.Printf("Error generating token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"token":   token,
		"user":    user,
		"worker":  worker,
	})
}

func (api *API) signIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid credentials", "details": err.Error()})
		return
	}

	user, err := api.Stores.Users.GetByEmail(c.Request.Context(), req.Email)
	if err != nil || !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		// Same response for unknown email and wrong password.
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid email or password"})
		return
	}

	if !user.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User account is deactivated"})
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		log.Printf("Error generating token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
		"user":    user,
	})
}

func (api *API) getCurrentUser(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Authentication required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}
