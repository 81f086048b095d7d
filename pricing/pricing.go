// Package pricing validates coupon codes against an order amount and
// computes the resulting discount.
package pricing

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"quickfix-server/models"
	"quickfix-server/store"
)

// Result is the outcome of a coupon validation. Invalid coupons are a normal
// negative result, not an error; callers branch on Valid. The messages are
// user-facing contracts.
type Result struct {
	Valid    bool    `json:"valid"`
	Discount float64 `json:"discount"`
	Message  string  `json:"message"`
}

// Engine resolves coupon codes through the store and evaluates them.
type Engine struct {
	coupons store.CouponStore
	now     func() time.Time
}

// NewEngine creates a pricing engine over the given coupon catalog.
func NewEngine(coupons store.CouponStore) *Engine {
	return &Engine{coupons: coupons, now: time.Now}
}

// Apply looks up code case-insensitively and validates it against
// orderAmount. A missing coupon and an inactive one yield the same message.
func (e *Engine) Apply(ctx context.Context, code string, orderAmount int) (Result, error) {
	coupon, err := e.coupons.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Result{Message: "Invalid coupon code"}, nil
		}
		return Result{}, err
	}
	return Evaluate(coupon, orderAmount, e.now()), nil
}

// Evaluate checks a coupon against an order amount at time now, in order,
// short-circuiting at the first failure: active flag, expiry, minimum order,
// then discount computation with the max-discount clamp.
func Evaluate(coupon *models.Coupon, orderAmount int, now time.Time) Result {
	if coupon == nil || !coupon.IsActive {
		return Result{Message: "Invalid coupon code"}
	}
	if coupon.IsExpired(now) {
		return Result{Message: "Coupon has expired"}
	}
	if orderAmount < coupon.MinOrder {
		return Result{Message: fmt.Sprintf("Minimum order amount is ₹%d", coupon.MinOrder)}
	}

	var discount float64
	if coupon.DiscountType == models.DiscountPercentage {
		discount = float64(orderAmount) * float64(coupon.Discount) / 100
	} else {
		discount = float64(coupon.Discount)
	}

	if coupon.MaxDiscount != nil && discount > float64(*coupon.MaxDiscount) {
		discount = float64(*coupon.MaxDiscount)
	}

	return Result{
		Valid:    true,
		Discount: discount,
		Message:  fmt.Sprintf("₹%s discount applied!", formatAmount(discount)),
	}
}

// FinalPrice applies a discount to an order amount, never going negative.
func FinalPrice(orderAmount int, discount float64) int {
	final := float64(orderAmount) - discount
	if final < 0 {
		return 0
	}
	return int(final)
}

// formatAmount renders a discount without a trailing ".0" for whole values,
// matching the message wording customers already see.
func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}
