package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"quickfix-server/models"
)

// Stores bundles the per-entity repositories handed to the HTTP layer and
// the lifecycle manager. The core never reaches for a global DB handle.
type Stores struct {
	Users      UserStore
	Workers    WorkerStore
	Bookings   BookingStore
	Coupons    CouponStore
	Reviews    ReviewStore
	Categories CategoryStore
}

// NewGormStores wires GORM-backed repositories over db.
func NewGormStores(db *gorm.DB) *Stores {
	return &Stores{
		Users:      &GormUserStore{db: db},
		Workers:    &GormWorkerStore{db: db},
		Bookings:   &GormBookingStore{db: db},
		Coupons:    &GormCouponStore{db: db},
		Reviews:    &GormReviewStore{db: db},
		Categories: &GormCategoryStore{db: db},
	}
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

// ===== USERS =====

type GormUserStore struct {
	db *gorm.DB
}

func (s *GormUserStore) Get(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *GormUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("LOWER(email) = LOWER(?)", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *GormUserStore) List(ctx context.Context, filter UserFilter) ([]models.User, error) {
	query := s.db.WithContext(ctx).Model(&models.User{}).Order("id")
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *GormUserStore) Insert(ctx context.Context, user *models.User) error {
	return translate(s.db.WithContext(ctx).Create(user).Error)
}

func (s *GormUserStore) Update(ctx context.Context, user *models.User) error {
	res := s.db.WithContext(ctx).Save(user)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ===== WORKERS =====

type GormWorkerStore struct {
	db *gorm.DB
}

func (s *GormWorkerStore) Get(ctx context.Context, id uint) (*models.WorkerProfile, error) {
	var worker models.WorkerProfile
	if err := s.db.WithContext(ctx).Preload("User").First(&worker, id).Error; err != nil {
		return nil, translate(err)
	}
	return &worker, nil
}

func (s *GormWorkerStore) GetByUserID(ctx context.Context, userID uint) (*models.WorkerProfile, error) {
	var worker models.WorkerProfile
	if err := s.db.WithContext(ctx).Preload("User").Where("user_id = ?", userID).First(&worker).Error; err != nil {
		return nil, translate(err)
	}
	return &worker, nil
}

func (s *GormWorkerStore) List(ctx context.Context, filter WorkerFilter) ([]models.WorkerProfile, error) {
	query := s.db.WithContext(ctx).Model(&models.WorkerProfile{}).Preload("User").Order("id")
	if filter.Approved != nil {
		query = query.Where("is_approved = ?", *filter.Approved)
	}
	if filter.Active != nil {
		query = query.Where("is_active = ?", *filter.Active)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	var workers []models.WorkerProfile
	if err := query.Find(&workers).Error; err != nil {
		return nil, err
	}
	return workers, nil
}

func (s *GormWorkerStore) Insert(ctx context.Context, worker *models.WorkerProfile) error {
	return translate(s.db.WithContext(ctx).Create(worker).Error)
}

func (s *GormWorkerStore) Update(ctx context.Context, worker *models.WorkerProfile) error {
	res := s.db.WithContext(ctx).Omit("User").Save(worker)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ===== BOOKINGS =====

type GormBookingStore struct {
	db *gorm.DB
}

func (s *GormBookingStore) Get(ctx context.Context, id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := s.db.WithContext(ctx).First(&booking, id).Error; err != nil {
		return nil, translate(err)
	}
	return &booking, nil
}

func (s *GormBookingStore) List(ctx context.Context, filter BookingFilter) ([]models.Booking, error) {
	query := s.db.WithContext(ctx).Model(&models.Booking{}).Order("created_at DESC")
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.WorkerID != 0 {
		query = query.Where("worker_id = ?", filter.WorkerID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	var bookings []models.Booking
	if err := query.Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (s *GormBookingStore) Insert(ctx context.Context, booking *models.Booking) error {
	if booking.UpdatedAt.IsZero() {
		booking.UpdatedAt = time.Now()
	}
	return translate(s.db.WithContext(ctx).Create(booking).Error)
}

// Update writes the booking back guarded by the updated_at value read at
// load time. A concurrent writer that got there first makes this a no-op
// returning ErrConflict, so no transition is ever lost silently.
func (s *GormBookingStore) Update(ctx context.Context, booking *models.Booking) error {
	prev := booking.UpdatedAt
	booking.UpdatedAt = time.Now()

	res := s.db.WithContext(ctx).Model(&models.Booking{}).
		Where("id = ? AND updated_at = ?", booking.ID, prev).
		Select("status", "amount", "completed_at", "timeline", "description", "address", "scheduled_date", "updated_at").
		Updates(booking)
	if res.Error != nil {
		booking.UpdatedAt = prev
		return res.Error
	}
	if res.RowsAffected == 0 {
		booking.UpdatedAt = prev
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Booking{}).Where("id = ?", booking.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		return ErrConflict
	}
	return nil
}

// ===== COUPONS =====

type GormCouponStore struct {
	db *gorm.DB
}

func (s *GormCouponStore) GetByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := s.db.WithContext(ctx).Where("LOWER(code) = LOWER(?)", code).First(&coupon).Error; err != nil {
		return nil, translate(err)
	}
	return &coupon, nil
}

func (s *GormCouponStore) List(ctx context.Context) ([]models.Coupon, error) {
	var coupons []models.Coupon
	if err := s.db.WithContext(ctx).Order("id").Find(&coupons).Error; err != nil {
		return nil, err
	}
	return coupons, nil
}

func (s *GormCouponStore) Insert(ctx context.Context, coupon *models.Coupon) error {
	return translate(s.db.WithContext(ctx).Create(coupon).Error)
}

func (s *GormCouponStore) Update(ctx context.Context, coupon *models.Coupon) error {
	res := s.db.WithContext(ctx).Save(coupon)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ===== REVIEWS =====

type GormReviewStore struct {
	db *gorm.DB
}

func (s *GormReviewStore) GetByBookingID(ctx context.Context, bookingID uint) (*models.Review, error) {
	var review models.Review
	if err := s.db.WithContext(ctx).Where("booking_id = ?", bookingID).First(&review).Error; err != nil {
		return nil, translate(err)
	}
	return &review, nil
}

func (s *GormReviewStore) ListByWorkerID(ctx context.Context, workerID uint) ([]models.Review, error) {
	var reviews []models.Review
	if err := s.db.WithContext(ctx).Where("worker_id = ?", workerID).Order("created_at DESC").Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

func (s *GormReviewStore) Insert(ctx context.Context, review *models.Review) error {
	return translate(s.db.WithContext(ctx).Create(review).Error)
}

// ===== CATEGORIES =====

type GormCategoryStore struct {
	db *gorm.DB
}

func (s *GormCategoryStore) List(ctx context.Context) ([]models.ServiceCategory, error) {
	var categories []models.ServiceCategory
	if err := s.db.WithContext(ctx).Where("is_active = ?", true).Order("sort_order").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *GormCategoryStore) Insert(ctx context.Context, category *models.ServiceCategory) error {
	return translate(s.db.WithContext(ctx).Create(category).Error)
}
