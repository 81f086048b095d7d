package store

import (
	"context"
	"errors"

	"quickfix-server/models"
)

var (
	// ErrNotFound is returned when the referenced entity id does not exist.
	ErrNotFound = errors.New("entity not found")
	// ErrDuplicate is returned when an insert collides with an existing id or
	// unique key.
	ErrDuplicate = errors.New("entity already exists")
	// ErrConflict is returned when an optimistic update lost the race against
	// a concurrent writer. Callers should re-read and retry deliberately.
	ErrConflict = errors.New("concurrent update conflict")
)

// UserStore is the authoritative table of customer/worker/admin accounts.
type UserStore interface {
	Get(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, filter UserFilter) ([]models.User, error)
	Insert(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
}

// UserFilter narrows List results. Zero value matches everything.
type UserFilter struct {
	Role   models.UserRole
	Limit  int
	Offset int
}

// WorkerStore holds worker profiles.
type WorkerStore interface {
	Get(ctx context.Context, id uint) (*models.WorkerProfile, error)
	GetByUserID(ctx context.Context, userID uint) (*models.WorkerProfile, error)
	List(ctx context.Context, filter WorkerFilter) ([]models.WorkerProfile, error)
	Insert(ctx context.Context, worker *models.WorkerProfile) error
	Update(ctx context.Context, worker *models.WorkerProfile) error
}

// WorkerFilter narrows List results. Nil booleans mean "don't care".
type WorkerFilter struct {
	Approved *bool
	Active   *bool
	Limit    int
	Offset   int
}

// BookingStore holds bookings. Update performs an optimistic concurrency
// check on updated_at so two concurrent status transitions cannot silently
// drop a timeline entry; the loser gets ErrConflict.
type BookingStore interface {
	Get(ctx context.Context, id uint) (*models.Booking, error)
	List(ctx context.Context, filter BookingFilter) ([]models.Booking, error)
	Insert(ctx context.Context, booking *models.Booking) error
	Update(ctx context.Context, booking *models.Booking) error
}

// BookingFilter narrows List results.
type BookingFilter struct {
	UserID   uint
	WorkerID uint
	Status   models.BookingStatus
	Limit    int
	Offset   int
}

// CouponStore holds discount rules, looked up case-insensitively by code.
type CouponStore interface {
	GetByCode(ctx context.Context, code string) (*models.Coupon, error)
	List(ctx context.Context) ([]models.Coupon, error)
	Insert(ctx context.Context, coupon *models.Coupon) error
	Update(ctx context.Context, coupon *models.Coupon) error
}

// ReviewStore holds booking reviews.
type ReviewStore interface {
	GetByBookingID(ctx context.Context, bookingID uint) (*models.Review, error)
	ListByWorkerID(ctx context.Context, workerID uint) ([]models.Review, error)
	Insert(ctx context.Context, review *models.Review) error
}

// CategoryStore holds the static service catalog.
type CategoryStore interface {
	List(ctx context.Context) ([]models.ServiceCategory, error)
	Insert(ctx context.Context, category *models.ServiceCategory) error
}
