package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"quickfix-server/models"
)

// NewMemoryStores builds map-backed repositories with the same semantics as
// the GORM ones. Used by unit tests and the demo mode; insertion order is
// preserved for List so sort-stability assertions stay deterministic.
func NewMemoryStores() *Stores {
	return &Stores{
		Users:      &MemoryUserStore{byID: map[uint]*models.User{}},
		Workers:    &MemoryWorkerStore{byID: map[uint]*models.WorkerProfile{}},
		Bookings:   &MemoryBookingStore{byID: map[uint]*models.Booking{}},
		Coupons:    &MemoryCouponStore{byCode: map[string]*models.Coupon{}},
		Reviews:    &MemoryReviewStore{byBooking: map[uint]*models.Review{}},
		Categories: &MemoryCategoryStore{},
	}
}

// ===== USERS =====

type MemoryUserStore struct {
	mu     sync.RWMutex
	nextID uint
	order  []uint
	byID   map[uint]*models.User
}

func (s *MemoryUserStore) Get(ctx context.Context, id uint) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *MemoryUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.order {
		if strings.EqualFold(s.byID[id].Email, email) {
			copied := *s.byID[id]
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryUserStore) List(ctx context.Context, filter UserFilter) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var users []models.User
	for _, id := range s.order {
		user := s.byID[id]
		if filter.Role != "" && user.Role != filter.Role {
			continue
		}
		users = append(users, *user)
	}
	return paginate(users, filter.Limit, filter.Offset), nil
}

func (s *MemoryUserStore) Insert(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[user.ID]; exists {
		return ErrDuplicate
	}
	for _, id := range s.order {
		if strings.EqualFold(s.byID[id].Email, user.Email) {
			return ErrDuplicate
		}
	}
	if user.ID == 0 {
		s.nextID++
		user.ID = s.nextID
	} else if user.ID > s.nextID {
		s.nextID = user.ID
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	copied := *user
	s.byID[user.ID] = &copied
	s.order = append(s.order, user.ID)
	return nil
}

func (s *MemoryUserStore) Update(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[user.ID]; !ok {
		return ErrNotFound
	}
	user.UpdatedAt = time.Now()
	copied := *user
	s.byID[user.ID] = &copied
	return nil
}

// ===== WORKERS =====

type MemoryWorkerStore struct {
	mu     sync.RWMutex
	nextID uint
	order  []uint
	byID   map[uint]*models.WorkerProfile
}

func (s *MemoryWorkerStore) Get(ctx context.Context, id uint) (*models.WorkerProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	worker, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *worker
	return &copied, nil
}

func (s *MemoryWorkerStore) GetByUserID(ctx context.Context, userID uint) (*models.WorkerProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.order {
		if s.byID[id].UserID == userID {
			copied := *s.byID[id]
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryWorkerStore) List(ctx context.Context, filter WorkerFilter) ([]models.WorkerProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var workers []models.WorkerProfile
	for _, id := range s.order {
		worker := s.byID[id]
		if filter.Approved != nil && worker.IsApproved != *filter.Approved {
			continue
		}
		if filter.Active != nil && worker.IsActive != *filter.Active {
			continue
		}
		workers = append(workers, *worker)
	}
	return paginate(workers, filter.Limit, filter.Offset), nil
}

func (s *MemoryWorkerStore) Insert(ctx context.Context, worker *models.WorkerProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[worker.ID]; exists {
		return ErrDuplicate
	}
	if worker.ID == 0 {
		s.nextID++
		worker.ID = s.nextID
	} else if worker.ID > s.nextID {
		s.nextID = worker.ID
	}
	now := time.Now()
	worker.CreatedAt = now
	worker.UpdatedAt = now
	copied := *worker
	s.byID[worker.ID] = &copied
	s.order = append(s.order, worker.ID)
	return nil
}

func (s *MemoryWorkerStore) Update(ctx context.Context, worker *models.WorkerProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[worker.ID]; !ok {
		return ErrNotFound
	}
	worker.UpdatedAt = time.Now()
	copied := *worker
	s.byID[worker.ID] = &copied
	return nil
}

// ===== BOOKINGS =====

type MemoryBookingStore struct {
	mu     sync.Mutex
	nextID uint
	order  []uint
	byID   map[uint]*models.Booking
}

func (s *MemoryBookingStore) Get(ctx context.Context, id uint) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	booking, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneBooking(booking), nil
}

func (s *MemoryBookingStore) List(ctx context.Context, filter BookingFilter) ([]models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var bookings []models.Booking
	for _, id := range s.order {
		booking := s.byID[id]
		if filter.UserID != 0 && booking.UserID != filter.UserID {
			continue
		}
		if filter.WorkerID != 0 && booking.WorkerID != filter.WorkerID {
			continue
		}
		if filter.Status != "" && booking.Status != filter.Status {
			continue
		}
		bookings = append(bookings, *cloneBooking(booking))
	}
	return paginate(bookings, filter.Limit, filter.Offset), nil
}

func (s *MemoryBookingStore) Insert(ctx context.Context, booking *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[booking.ID]; exists {
		return ErrDuplicate
	}
	if booking.ID == 0 {
		s.nextID++
		booking.ID = s.nextID
	} else if booking.ID > s.nextID {
		s.nextID = booking.ID
	}
	now := time.Now()
	booking.CreatedAt = now
	booking.UpdatedAt = now
	s.byID[booking.ID] = cloneBooking(booking)
	s.order = append(s.order, booking.ID)
	return nil
}

// Update mirrors the GORM store's optimistic check: the caller's UpdatedAt
// must match the stored one or ErrConflict is returned.
func (s *MemoryBookingStore) Update(ctx context.Context, booking *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.byID[booking.ID]
	if !ok {
		return ErrNotFound
	}
	if !current.UpdatedAt.Equal(booking.UpdatedAt) {
		return ErrConflict
	}
	booking.UpdatedAt = time.Now()
	s.byID[booking.ID] = cloneBooking(booking)
	return nil
}

func cloneBooking(b *models.Booking) *models.Booking {
	copied := *b
	copied.Timeline = append([]models.TimelineEvent(nil), b.Timeline...)
	if b.Amount != nil {
		amount := *b.Amount
		copied.Amount = &amount
	}
	if b.CompletedAt != nil {
		completed := *b.CompletedAt
		copied.CompletedAt = &completed
	}
	return &copied
}

// ===== COUPONS =====

type MemoryCouponStore struct {
	mu     sync.RWMutex
	nextID uint
	order  []string
	byCode map[string]*models.Coupon
}

func (s *MemoryCouponStore) GetByCode(ctx context.Context, code string) (*models.Coupon, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	coupon, ok := s.byCode[strings.ToUpper(code)]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *coupon
	return &copied, nil
}

func (s *MemoryCouponStore) List(ctx context.Context) ([]models.Coupon, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var coupons []models.Coupon
	for _, code := range s.order {
		coupons = append(coupons, *s.byCode[code])
	}
	return coupons, nil
}

func (s *MemoryCouponStore) Insert(ctx context.Context, coupon *models.Coupon) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToUpper(coupon.Code)
	if _, exists := s.byCode[key]; exists {
		return ErrDuplicate
	}
	s.nextID++
	if coupon.ID == 0 {
		coupon.ID = s.nextID
	}
	copied := *coupon
	s.byCode[key] = &copied
	s.order = append(s.order, key)
	return nil
}

func (s *MemoryCouponStore) Update(ctx context.Context, coupon *models.Coupon) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToUpper(coupon.Code)
	if _, ok := s.byCode[key]; !ok {
		return ErrNotFound
	}
	copied := *coupon
	s.byCode[key] = &copied
	return nil
}

// ===== REVIEWS =====

type MemoryReviewStore struct {
	mu        sync.RWMutex
	nextID    uint
	order     []uint
	byBooking map[uint]*models.Review
}

func (s *MemoryReviewStore) GetByBookingID(ctx context.Context, bookingID uint) (*models.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	review, ok := s.byBooking[bookingID]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *review
	return &copied, nil
}

func (s *MemoryReviewStore) ListByWorkerID(ctx context.Context, workerID uint) ([]models.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var reviews []models.Review
	for _, bookingID := range s.order {
		if s.byBooking[bookingID].WorkerID == workerID {
			reviews = append(reviews, *s.byBooking[bookingID])
		}
	}
	return reviews, nil
}

func (s *MemoryReviewStore) Insert(ctx context.Context, review *models.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byBooking[review.BookingID]; exists {
		return ErrDuplicate
	}
	s.nextID++
	if review.ID == 0 {
		review.ID = s.nextID
	}
	review.CreatedAt = time.Now()
	copied := *review
	s.byBooking[review.BookingID] = &copied
	s.order = append(s.order, review.BookingID)
	return nil
}

// ===== CATEGORIES =====

type MemoryCategoryStore struct {
	mu         sync.RWMutex
	nextID     uint
	categories []models.ServiceCategory
}

func (s *MemoryCategoryStore) List(ctx context.Context) ([]models.ServiceCategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var active []models.ServiceCategory
	for _, category := range s.categories {
		if category.IsActive {
			active = append(active, category)
		}
	}
	return active, nil
}

func (s *MemoryCategoryStore) Insert(ctx context.Context, category *models.ServiceCategory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.categories {
		if strings.EqualFold(existing.Name, category.Name) {
			return ErrDuplicate
		}
	}
	s.nextID++
	if category.ID == 0 {
		category.ID = s.nextID
	}
	s.categories = append(s.categories, *category)
	return nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return nil
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
