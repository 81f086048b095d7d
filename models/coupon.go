package models

import (
	"time"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFlat       DiscountType = "flat"
)

// Coupon is a discount rule. Codes are matched case-insensitively.
type Coupon struct {
	ID           uint         `json:"id" gorm:"primaryKey"`
	Code         string       `json:"code" gorm:"size:50;uniqueIndex;not null"`
	Discount     int          `json:"discount" gorm:"not null"`
	DiscountType DiscountType `json:"discount_type" gorm:"type:varchar(20);not null;check:discount_type IN ('percentage','flat')"`

	// MaxDiscount caps the computed discount when set. The fixture data only
	// sets it on percentage coupons.
	MaxDiscount *int      `json:"max_discount"`
	MinOrder    int       `json:"min_order" gorm:"default:0"`
	ValidUntil  time.Time `json:"valid_until" gorm:"not null"`
	IsActive    bool      `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for the Coupon model
func (Coupon) TableName() string {
	return "coupons"
}

// IsExpired reports whether the coupon's validity window has passed at t.
func (c *Coupon) IsExpired(t time.Time) bool {
	return t.After(c.ValidUntil)
}
