package models

import (
	"time"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusAccepted  BookingStatus = "accepted"
	BookingStatusOngoing   BookingStatus = "ongoing"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusRejected  BookingStatus = "rejected"
)

// IsTerminal reports whether no further transition is permitted from s.
func (s BookingStatus) IsTerminal() bool {
	switch s {
	case BookingStatusCompleted, BookingStatusCancelled, BookingStatusRejected:
		return true
	default:
		return false
	}
}

// TimelineEvent is a single entry of a booking's append-only audit log.
type TimelineEvent struct {
	Status BookingStatus `json:"status"`
	Time   time.Time     `json:"time"`
	Note   string        `json:"note"`
}

type Booking struct {
	ID          uint          `json:"id" gorm:"primaryKey"`
	UserID      uint          `json:"user_id" gorm:"not null;index"`
	WorkerID    uint          `json:"worker_id" gorm:"not null;index"`
	ServiceType string        `json:"service_type" gorm:"size:100;not null"`
	Description string        `json:"description" gorm:"size:1000"`
	Status      BookingStatus `json:"status" gorm:"type:varchar(20);default:'pending';check:status IN ('pending','accepted','ongoing','completed','cancelled','rejected')"`

	// Amount stays nil until the worker sets the final price at completion,
	// unless a price was agreed at creation time.
	Amount        *int            `json:"amount"`
	Address       string          `json:"address" gorm:"size:500;not null"`
	ScheduledDate time.Time       `json:"scheduled_date" gorm:"not null"`
	CompletedAt   *time.Time      `json:"completed_at"`
	Timeline      []TimelineEvent `json:"timeline" gorm:"serializer:json"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	User   User           `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Worker *WorkerProfile `json:"worker,omitempty" gorm:"foreignKey:WorkerID"`
}

// TableName specifies the table name for the Booking model
func (Booking) TableName() string {
	return "bookings"
}

// CurrentTimelineStatus returns the status of the last timeline entry.
// It must always equal Booking.Status.
func (b *Booking) CurrentTimelineStatus() BookingStatus {
	if len(b.Timeline) == 0 {
		return ""
	}
	return b.Timeline[len(b.Timeline)-1].Status
}
