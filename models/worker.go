package models

import (
	"time"

	"gorm.io/gorm"
)

// WorkerProfile represents a service provider's professional profile.
//
// Visibility rules: a worker shows up in customer-facing search only when
// IsApproved && IsActive, and is bookable only when additionally IsAvailable.
type WorkerProfile struct {
	ID            uint     `json:"id" gorm:"primaryKey"`
	UserID        uint     `json:"user_id" gorm:"uniqueIndex;not null"`
	Skill         string   `json:"skill" gorm:"size:100;not null"`
	Skills        []string `json:"skills" gorm:"serializer:json"`
	Experience    string   `json:"experience" gorm:"size:100"`
	Rating        float64  `json:"rating" gorm:"type:decimal(3,2);default:0"`
	TotalReviews  int      `json:"total_reviews" gorm:"default:0"`
	CompletedJobs int      `json:"completed_jobs" gorm:"default:0"`
	MinCharge     int      `json:"min_charge" gorm:"not null"`
	PriceMin      int      `json:"price_min"`
	PriceMax      int      `json:"price_max"`
	Area          string   `json:"area" gorm:"size:255"`
	Lat           float64  `json:"lat" gorm:"type:decimal(10,8)"`
	Lng           float64  `json:"lng" gorm:"type:decimal(11,8)"`

	// Admin gate, soft suspend, online toggle and trust badge are independent flags.
	IsApproved  bool `json:"is_approved" gorm:"default:false"`
	IsActive    bool `json:"is_active" gorm:"default:true"`
	IsAvailable bool `json:"is_available" gorm:"default:false"`
	IsVerified  bool `json:"is_verified" gorm:"default:false"`

	ProfilePicture *string  `json:"profile_picture" gorm:"size:500"`
	Portfolio      []string `json:"portfolio" gorm:"serializer:json"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// TableName specifies the table name for the WorkerProfile model
func (WorkerProfile) TableName() string {
	return "worker_profiles"
}

// IsVisible reports whether the worker may appear in customer-facing listings.
func (w *WorkerProfile) IsVisible() bool {
	return w.IsApproved && w.IsActive
}

// IsBookable reports whether a customer may book this worker right now.
func (w *WorkerProfile) IsBookable() bool {
	return w.IsVisible() && w.IsAvailable
}

// WorkerProfileRequest represents the request structure for worker registration
type WorkerProfileRequest struct {
	Skill      string   `json:"skill" binding:"required"`
	Skills     []string `json:"skills"`
	Experience string   `json:"experience"`
	MinCharge  int      `json:"min_charge" binding:"required,gt=0"`
	PriceMin   int      `json:"price_min"`
	PriceMax   int      `json:"price_max"`
	Area       string   `json:"area"`
	Lat        float64  `json:"lat"`
	Lng        float64  `json:"lng"`
}
