package pricing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quickfix-server/models"
	"quickfix-server/store"
)

func intPtr(v int) *int { return &v }

func seedCoupons(t *testing.T) store.CouponStore {
	t.Helper()
	coupons := store.NewMemoryStores().Coupons
	future := time.Now().Add(30 * 24 * time.Hour)

	require.NoError(t, coupons.Insert(context.Background(), &models.Coupon{
		Code: "FIRST50", Discount: 50, DiscountType: models.DiscountPercentage,
		MaxDiscount: intPtr(200), MinOrder: 299, ValidUntil: future, IsActive: true,
	}))
	require.NoError(t, coupons.Insert(context.Background(), &models.Coupon{
		Code: "SAVE100", Discount: 100, DiscountType: models.DiscountFlat,
		MinOrder: 500, ValidUntil: future, IsActive: true,
	}))
	require.NoError(t, coupons.Insert(context.Background(), &models.Coupon{
		Code: "WELCOME20", Discount: 20, DiscountType: models.DiscountPercentage,
		MaxDiscount: intPtr(150), MinOrder: 199, ValidUntil: future, IsActive: true,
	}))
	require.NoError(t, coupons.Insert(context.Background(), &models.Coupon{
		Code: "EXPIRED10", Discount: 10, DiscountType: models.DiscountPercentage,
		MinOrder: 0, ValidUntil: time.Now().Add(-24 * time.Hour), IsActive: true,
	}))
	require.NoError(t, coupons.Insert(context.Background(), &models.Coupon{
		Code: "DISABLED", Discount: 10, DiscountType: models.DiscountFlat,
		MinOrder: 0, ValidUntil: future, IsActive: false,
	}))
	return coupons
}

func TestApplyPercentageWithClamp(t *testing.T) {
	engine := NewEngine(seedCoupons(t))

	// 50% of 500 is 250, clamped to the 200 cap.
	result, err := engine.Apply(context.Background(), "FIRST50", 500)
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, 200.0, result.Discount)
	assert.Equal(t, "₹200 discount applied!", result.Message)
	assert.Equal(t, 300, FinalPrice(500, result.Discount))
}

func TestApplyCodeCaseInsensitive(t *testing.T) {
	engine := NewEngine(seedCoupons(t))

	for _, code := range []string{"first50", "First50", "FIRST50"} {
		result, err := engine.Apply(context.Background(), code, 500)
		require.NoError(t, err)
		assert.True(t, result.Valid, "code %q", code)
	}
}

func TestApplyFlatDiscount(t *testing.T) {
	engine := NewEngine(seedCoupons(t))

	result, err := engine.Apply(context.Background(), "SAVE100", 600)
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, 100.0, result.Discount)
	assert.Equal(t, 500, FinalPrice(600, result.Discount))
}

func TestApplyMinimumOrderRejection(t *testing.T) {
	engine := NewEngine(seedCoupons(t))

	result, err := engine.Apply(context.Background(), "SAVE100", 300)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, 0.0, result.Discount)
	assert.Equal(t, "Minimum order amount is ₹500", result.Message)
}

func TestApplyUnknownCode(t *testing.T) {
	engine := NewEngine(seedCoupons(t))

	result, err := engine.Apply(context.Background(), "NOPE", 1000)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, "Invalid coupon code", result.Message)
}

func TestApplyInactiveCoupon(t *testing.T) {
	engine := NewEngine(seedCoupons(t))

	result, err := engine.Apply(context.Background(), "DISABLED", 1000)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, "Invalid coupon code", result.Message)
}

func TestApplyExpiredCoupon(t *testing.T) {
	engine := NewEngine(seedCoupons(t))

	// Expiry wins regardless of order amount.
	for _, amount := range []int{1, 500, 100000} {
		result, err := engine.Apply(context.Background(), "EXPIRED10", amount)
		require.NoError(t, err)
		assert.False(t, result.Valid)
		assert.Equal(t, "Coupon has expired", result.Message)
	}
}

func TestEvaluatePercentageBelowCap(t *testing.T) {
	coupon := &models.Coupon{
		Code: "WELCOME20", Discount: 20, DiscountType: models.DiscountPercentage,
		MaxDiscount: intPtr(150), MinOrder: 199,
		ValidUntil: time.Now().Add(time.Hour), IsActive: true,
	}

	result := Evaluate(coupon, 500, time.Now())
	assert.True(t, result.Valid)
	assert.Equal(t, 100.0, result.Discount)
	assert.Equal(t, "₹100 discount applied!", result.Message)
}

func TestEvaluateFractionalDiscountMessage(t *testing.T) {
	coupon := &models.Coupon{
		Code: "ODD", Discount: 15, DiscountType: models.DiscountPercentage,
		ValidUntil: time.Now().Add(time.Hour), IsActive: true,
	}

	// 15% of 333 is 49.95; the message renders the exact value.
	result := Evaluate(coupon, 333, time.Now())
	assert.True(t, result.Valid)
	assert.InDelta(t, 49.95, result.Discount, 1e-9)
	assert.Equal(t, "₹49.95 discount applied!", result.Message)
}

func TestFinalPriceNeverNegative(t *testing.T) {
	assert.Equal(t, 0, FinalPrice(100, 150))
	assert.Equal(t, 0, FinalPrice(100, 100))
	assert.Equal(t, 50, FinalPrice(100, 50))
}

func TestEvaluateFlatClampWhenCapSet(t *testing.T) {
	// No fixture sets a cap on a flat coupon, but when one is set the clamp
	// applies the same way it does in the original validation path.
	coupon := &models.Coupon{
		Code: "BIGFLAT", Discount: 500, DiscountType: models.DiscountFlat,
		MaxDiscount: intPtr(300),
		ValidUntil:  time.Now().Add(time.Hour), IsActive: true,
	}

	result := Evaluate(coupon, 1000, time.Now())
	assert.True(t, result.Valid)
	assert.Equal(t, 300.0, result.Discount)
}
