package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleWorker   UserRole = "worker"
	RoleAdmin    UserRole = "admin"
)

type User struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	Name              string    `json:"name" gorm:"size:255;not null"`
	Email             string    `json:"email" gorm:"size:255;uniqueIndex;not null"`
	PasswordHash      string    `json:"-" gorm:"size:255;not null"` // Hidden from JSON
	Phone             string    `json:"phone" gorm:"size:20"`
	Role              UserRole  `json:"role" gorm:"type:varchar(20);not null;default:'customer';check:role IN ('customer','worker','admin')"`
	Address           string    `json:"address" gorm:"size:500"`
	Lat               float64   `json:"lat" gorm:"type:decimal(10,8)"`
	Lng               float64   `json:"lng" gorm:"type:decimal(11,8)"`
	Favorites         []uint    `json:"favorites" gorm:"serializer:json"`
	ProfilePictureURL *string   `json:"profile_picture_url" gorm:"size:500"`
	IsActive          bool      `json:"is_active" gorm:"default:true"`
	CreatedAt         time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt         time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Bookings []Booking `json:"bookings,omitempty" gorm:"foreignKey:UserID"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// BeforeCreate is a GORM hook that runs before creating a user
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.Role == "" {
		u.Role = RoleCustomer
	}
	return nil
}

// IsValidRole checks if the user role is valid
func (u *User) IsValidRole() bool {
	switch u.Role {
	case RoleCustomer, RoleWorker, RoleAdmin:
		return true
	default:
		return false
	}
}

// IsWorker checks if the user is a worker
func (u *User) IsWorker() bool {
	return u.Role == RoleWorker
}

// IsAdmin checks if the user is an admin
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsCustomer checks if the user is a customer
func (u *User) IsCustomer() bool {
	return u.Role == RoleCustomer
}

// HasFavorite reports whether the given worker is in the user's favorites.
func (u *User) HasFavorite(workerID uint) bool {
	for _, id := range u.Favorites {
		if id == workerID {
			return true
		}
	}
	return false
}
