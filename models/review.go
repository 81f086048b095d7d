package models

import (
	"time"
)

// Review is customer feedback tied to a completed booking.
// One review per booking, immutable after creation.
type Review struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	BookingID uint      `json:"booking_id" gorm:"uniqueIndex;not null"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	WorkerID  uint      `json:"worker_id" gorm:"not null;index"`
	Rating    int       `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Comment   string    `json:"comment" gorm:"size:1000"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for the Review model
func (Review) TableName() string {
	return "reviews"
}

// ReviewCreate represents the request structure for creating a review
type ReviewCreate struct {
	BookingID uint   `json:"booking_id" binding:"required"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Comment   string `json:"comment"`
}
