package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quickfix-server/config"
	"quickfix-server/matching"
	"quickfix-server/models"
	"quickfix-server/store"
	"quickfix-server/utils"
)

func newTestRouter(t *testing.T) (*gin.Engine, *API) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.Load()

	stores := store.NewMemoryStores()
	api := NewAPI(stores, matching.DefaultWeights())
	router := gin.New()
	Register(router, api)
	return router, api
}

func seedUser(t *testing.T, api *API, email string, role models.UserRole) (models.User, string) {
	t.Helper()
	hash, err := utils.HashPassword("secret123")
	require.NoError(t, err)

	user := models.User{
		Name:         "Test " + string(role),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
		Lat:          28.6139,
		Lng:          77.2090,
	}
	require.NoError(t, api.Stores.Users.Insert(context.Background(), &user))

	token, err := utils.GenerateToken(user.ID, user.Role)
	require.NoError(t, err)
	return user, token
}

func seedWorker(t *testing.T, api *API, userID uint, approved bool) models.WorkerProfile {
	t.Helper()
	worker := models.WorkerProfile{
		UserID:      userID,
		Skill:       "Electrician",
		Rating:      4.5,
		MinCharge:   300,
		Area:        "Karol Bagh",
		Lat:         28.6139,
		Lng:         77.2090,
		IsApproved:  approved,
		IsActive:    true,
		IsAvailable: true,
	}
	require.NoError(t, api.Stores.Workers.Insert(context.Background(), &worker))
	return worker
}

func seedActiveCoupon(t *testing.T, api *API) {
	t.Helper()
	maxDiscount := 200
	require.NoError(t, api.Stores.Coupons.Insert(context.Background(), &models.Coupon{
		Code:         "FIRST50",
		Discount:     50,
		DiscountType: models.DiscountPercentage,
		MaxDiscount:  &maxDiscount,
		MinOrder:     299,
		ValidUntil:   time.Now().Add(30 * 24 * time.Hour),
		IsActive:     true,
	}))
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestSignUpSignInFlow(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/signup", "", gin.H{
		"name":     "Asha",
		"email":    "asha@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.NotEmpty(t, body["token"])

	// Duplicate email is rejected.
	rec = doJSON(t, router, http.MethodPost, "/api/v1/auth/signup", "", gin.H{
		"name":     "Asha Again",
		"email":    "ASHA@example.com",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/auth/signin", "", gin.H{
		"email":    "asha@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/auth/signin", "", gin.H{
		"email":    "asha@example.com",
		"password": "wrongpass",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRequiredOnProtectedRoutes(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/bookings", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/bookings", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSearchWorkersHidesUnapproved(t *testing.T) {
	router, api := newTestRouter(t)

	approvedUser, _ := seedUser(t, api, "pro@example.com", models.RoleWorker)
	seedWorker(t, api, approvedUser.ID, true)
	pendingUser, _ := seedUser(t, api, "pending@example.com", models.RoleWorker)
	seedWorker(t, api, pendingUser.ID, false)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/workers?lat=28.6139&lng=77.2090", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	workers := body["workers"].([]any)
	assert.Len(t, workers, 1)
}

func TestValidateCouponEndpoint(t *testing.T) {
	router, api := newTestRouter(t)
	seedActiveCoupon(t, api)
	_, token := seedUser(t, api, "buyer@example.com", models.RoleCustomer)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/coupons/validate", token, gin.H{
		"code":   "first50",
		"amount": 500,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["valid"])
	assert.Equal(t, "₹200 discount applied!", body["message"])
	assert.Equal(t, float64(300), body["final_price"])

	rec = doJSON(t, router, http.MethodPost, "/api/v1/coupons/validate", token, gin.H{
		"code":   "NOPE",
		"amount": 500,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.Equal(t, false, body["valid"])
	assert.Equal(t, "Invalid coupon code", body["message"])
}

func TestBookingLifecycleOverHTTP(t *testing.T) {
	router, api := newTestRouter(t)
	seedActiveCoupon(t, api)

	_, customerToken := seedUser(t, api, "customer@example.com", models.RoleCustomer)
	workerUser, workerToken := seedUser(t, api, "worker@example.com", models.RoleWorker)
	seedWorker(t, api, workerUser.ID, true)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/bookings", customerToken, gin.H{
		"worker_id":      1,
		"service_type":   "Electrician",
		"address":        "221B Baker Street",
		"scheduled_date": time.Now().Add(24 * time.Hour).Format(time.RFC3339),
		"amount":         500,
		"coupon_code":    "FIRST50",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	booking := body["booking"].(map[string]any)
	bookingID := int(booking["id"].(float64))
	assert.Equal(t, "pending", booking["status"])
	assert.Equal(t, float64(300), booking["amount"])

	// Customers cannot accept their own booking.
	rec = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/bookings/%d/accept", bookingID), customerToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/bookings/%d/accept", bookingID), workerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/bookings/%d/start", bookingID), workerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/bookings/%d/complete", bookingID), workerToken, gin.H{
		"price": 450,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	booking = body["booking"].(map[string]any)
	assert.Equal(t, "completed", booking["status"])
	assert.Equal(t, float64(450), booking["amount"])
	assert.NotNil(t, booking["completed_at"])

	// Closed bookings reject further transitions.
	rec = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/bookings/%d/cancel", bookingID), customerToken, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestBookingSkipAcceptIsRejected(t *testing.T) {
	router, api := newTestRouter(t)

	_, customerToken := seedUser(t, api, "customer@example.com", models.RoleCustomer)
	workerUser, workerToken := seedUser(t, api, "worker@example.com", models.RoleWorker)
	seedWorker(t, api, workerUser.ID, true)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/bookings", customerToken, gin.H{
		"worker_id":      1,
		"service_type":   "Electrician",
		"address":        "Connaught Place",
		"scheduled_date": time.Now().Add(24 * time.Hour).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	booking := decodeBody(t, rec)["booking"].(map[string]any)
	bookingID := int(booking["id"].(float64))

	rec = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/bookings/%d/start", bookingID), workerToken, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestBookingAccessLimitedToParties(t *testing.T) {
	router, api := newTestRouter(t)

	_, customerToken := seedUser(t, api, "customer@example.com", models.RoleCustomer)
	workerUser, _ := seedUser(t, api, "worker@example.com", models.RoleWorker)
	seedWorker(t, api, workerUser.ID, true)
	_, strangerToken := seedUser(t, api, "stranger@example.com", models.RoleCustomer)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/bookings", customerToken, gin.H{
		"worker_id":      1,
		"service_type":   "Plumber",
		"address":        "Hauz Khas",
		"scheduled_date": time.Now().Add(24 * time.Hour).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	booking := decodeBody(t, rec)["booking"].(map[string]any)
	bookingID := int(booking["id"].(float64))

	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/bookings/%d", bookingID), strangerToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/bookings/%d", bookingID), customerToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminWorkerApproval(t *testing.T) {
	router, api := newTestRouter(t)

	_, adminToken := seedUser(t, api, "admin@example.com", models.RoleAdmin)
	_, customerToken := seedUser(t, api, "customer@example.com", models.RoleCustomer)
	workerUser, _ := seedUser(t, api, "worker@example.com", models.RoleWorker)
	worker := seedWorker(t, api, workerUser.ID, false)

	// Only admins reach the admin group.
	rec := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/admin/workers/%d/approve", worker.ID), customerToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/admin/workers/pending", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), decodeBody(t, rec)["count"])

	rec = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/admin/workers/%d/approve", worker.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	updated, err := api.Stores.Workers.Get(context.Background(), worker.ID)
	require.NoError(t, err)
	assert.True(t, updated.IsApproved)
	assert.True(t, updated.IsActive)
}

func TestFavorites(t *testing.T) {
	router, api := newTestRouter(t)

	customer, customerToken := seedUser(t, api, "customer@example.com", models.RoleCustomer)
	workerUser, _ := seedUser(t, api, "worker@example.com", models.RoleWorker)
	worker := seedWorker(t, api, workerUser.ID, true)
	otherUser, _ := seedUser(t, api, "worker2@example.com", models.RoleWorker)
	other := seedWorker(t, api, otherUser.ID, true)

	rec := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/favorites/%d", worker.ID), customerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Adding twice keeps a single entry.
	rec = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/favorites/%d", worker.ID), customerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/favorites/%d", other.ID), customerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/favorites", customerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	favorites := decodeBody(t, rec)["favorites"].([]any)
	assert.Len(t, favorites, 2)

	rec = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/v1/favorites/%d", worker.ID), customerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// The untouched favorite survives the removal.
	stored, err := api.Stores.Users.Get(context.Background(), customer.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{other.ID}, stored.Favorites)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/favorites", customerToken, nil)
	favorites = decodeBody(t, rec)["favorites"].([]any)
	assert.Len(t, favorites, 1)
}

func TestAdminStatsCountsCompletedRevenue(t *testing.T) {
	router, api := newTestRouter(t)

	_, adminToken := seedUser(t, api, "admin@example.com", models.RoleAdmin)
	_, customerToken := seedUser(t, api, "customer@example.com", models.RoleCustomer)
	workerUser, workerToken := seedUser(t, api, "worker@example.com", models.RoleWorker)
	seedWorker(t, api, workerUser.ID, true)

	createBooking := func() int {
		rec := doJSON(t, router, http.MethodPost, "/api/v1/bookings", customerToken, gin.H{
			"worker_id":      1,
			"service_type":   "Plumber",
			"address":        "Lajpat Nagar",
			"scheduled_date": time.Now().Add(24 * time.Hour).Format(time.RFC3339),
		})
		require.Equal(t, http.StatusCreated, rec.Code)
		booking := decodeBody(t, rec)["booking"].(map[string]any)
		return int(booking["id"].(float64))
	}

	completed := createBooking()
	for _, step := range []string{"accept", "start"} {
		rec := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/bookings/%d/%s", completed, step), workerToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/bookings/%d/complete", completed), workerToken, gin.H{"price": 700})
	require.Equal(t, http.StatusOK, rec.Code)

	// A booking cancelled before completion must not count as revenue.
	cancelled := createBooking()
	rec = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/bookings/%d/cancel", cancelled), customerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/admin/stats", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decodeBody(t, rec)["stats"].(map[string]any)
	assert.Equal(t, float64(700), stats["completed_revenue"])
	assert.Equal(t, float64(2), stats["total_bookings"])

	byStatus := stats["bookings_by_status"].(map[string]any)
	assert.Equal(t, float64(1), byStatus["completed"])
	assert.Equal(t, float64(1), byStatus["cancelled"])
}

func TestCreateReviewUpdatesWorkerRating(t *testing.T) {
	router, api := newTestRouter(t)

	_, customerToken := seedUser(t, api, "customer@example.com", models.RoleCustomer)
	workerUser, workerToken := seedUser(t, api, "worker@example.com", models.RoleWorker)
	worker := seedWorker(t, api, workerUser.ID, true)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/bookings", customerToken, gin.H{
		"worker_id":      worker.ID,
		"service_type":   "Electrician",
		"address":        "Saket",
		"scheduled_date": time.Now().Add(24 * time.Hour).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	booking := decodeBody(t, rec)["booking"].(map[string]any)
	bookingID := int(booking["id"].(float64))

	// A pending booking cannot be reviewed.
	rec = doJSON(t, router, http.MethodPost, "/api/v1/reviews", customerToken, gin.H{
		"booking_id": bookingID,
		"rating":     5,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	for _, step := range []string{"accept", "start"} {
		rec = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/bookings/%d/%s", bookingID, step), workerToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/bookings/%d/complete", bookingID), workerToken, gin.H{"price": 600})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/reviews", customerToken, gin.H{
		"booking_id": bookingID,
		"rating":     3,
		"comment":    "Okay work",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	updated, err := api.Stores.Workers.Get(context.Background(), worker.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.TotalReviews)
	assert.Equal(t, 3.0, updated.Rating)
	assert.Equal(t, 1, updated.CompletedJobs)

	// Second review for the same booking is rejected.
	rec = doJSON(t, router, http.MethodPost, "/api/v1/reviews", customerToken, gin.H{
		"booking_id": bookingID,
		"rating":     5,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/workers/%d/reviews", worker.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), decodeBody(t, rec)["count"])
}
