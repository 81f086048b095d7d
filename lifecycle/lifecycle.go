// Package lifecycle is the sole mutation path for a booking's status. It
// owns the state machine, the role legality checks and the append-only
// timeline, and writes back through the injected booking store.
package lifecycle

import (
	"context"
	"fmt"
	"sync"
	"time"

	"quickfix-server/models"
	"quickfix-server/store"
)

// transitions is the explicit from-state → allowed to-states table. Terminal
// states have no entries, so any attempt out of them fails.
var transitions = map[models.BookingStatus][]models.BookingStatus{
	models.BookingStatusPending: {
		models.BookingStatusAccepted,
		models.BookingStatusRejected,
		models.BookingStatusCancelled,
	},
	models.BookingStatusAccepted: {
		models.BookingStatusOngoing,
		models.BookingStatusCancelled,
	},
	models.BookingStatusOngoing: {
		models.BookingStatusCompleted,
		models.BookingStatusCancelled,
	},
}

// Timeline notes recorded per transition.
const (
	noteCreated   = "Booking created"
	noteAccepted  = "Worker accepted the job"
	noteRejected  = "Worker rejected the job"
	noteStarted   = "Work started"
	noteCompleted = "Work completed successfully"
)

// Manager governs booking status transitions. Per-booking mutexes serialize
// writers in-process; the store's optimistic update covers writers in other
// processes.
type Manager struct {
	bookings store.BookingStore
	now      func() time.Time

	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

// NewManager creates a lifecycle manager over the given booking store.
func NewManager(bookings store.BookingStore) *Manager {
	return &Manager{
		bookings: bookings,
		now:      time.Now,
		locks:    make(map[uint]*sync.Mutex),
	}
}

// CreateInput carries the customer-supplied fields for a new booking.
type CreateInput struct {
	UserID        uint
	WorkerID      uint
	ServiceType   string
	Description   string
	Address       string
	ScheduledDate time.Time
	// Amount is optional at creation; the worker sets the final price at
	// completion.
	Amount *int
}

// Create inserts a new booking in pending status with the initial timeline
// entry.
func (m *Manager) Create(ctx context.Context, input CreateInput) (*models.Booking, error) {
	if input.UserID == 0 || input.WorkerID == 0 {
		return nil, fmt.Errorf("user and worker are required")
	}
	if input.Amount != nil && *input.Amount <= 0 {
		return nil, ErrPriceRequired
	}

	now := m.now()
	booking := &models.Booking{
		UserID:        input.UserID,
		WorkerID:      input.WorkerID,
		ServiceType:   input.ServiceType,
		Description:   input.Description,
		Address:       input.Address,
		ScheduledDate: input.ScheduledDate,
		Amount:        input.Amount,
		Status:        models.BookingStatusPending,
		Timeline: []models.TimelineEvent{
			{Status: models.BookingStatusPending, Time: now, Note: noteCreated},
		},
	}
	if err := m.bookings.Insert(ctx, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

// Accept moves a pending booking to accepted. Worker only.
func (m *Manager) Accept(ctx context.Context, id uint, actor models.UserRole) (*models.Booking, error) {
	if actor != models.RoleWorker {
		return nil, ErrNotAllowed
	}
	return m.transition(ctx, id, models.BookingStatusAccepted, noteAccepted, nil)
}

// Reject moves a pending booking to rejected. Worker only; no price is set.
func (m *Manager) Reject(ctx context.Context, id uint, actor models.UserRole) (*models.Booking, error) {
	if actor != models.RoleWorker {
		return nil, ErrNotAllowed
	}
	return m.transition(ctx, id, models.BookingStatusRejected, noteRejected, nil)
}

// Start moves an accepted booking to ongoing. Worker only.
func (m *Manager) Start(ctx context.Context, id uint, actor models.UserRole) (*models.Booking, error) {
	if actor != models.RoleWorker {
		return nil, ErrNotAllowed
	}
	return m.transition(ctx, id, models.BookingStatusOngoing, noteStarted, nil)
}

// Complete moves an ongoing booking to completed. Worker only, and the only
// transition where the actor supplies the final negotiated price.
func (m *Manager) Complete(ctx context.Context, id uint, actor models.UserRole, price int) (*models.Booking, error) {
	if actor != models.RoleWorker {
		return nil, ErrNotAllowed
	}
	if price <= 0 {
		return nil, ErrPriceRequired
	}
	return m.transition(ctx, id, models.BookingStatusCompleted, noteCompleted, func(b *models.Booking, now time.Time) {
		b.Amount = &price
		b.CompletedAt = &now
	})
}

// Cancel moves a non-terminal booking to cancelled. Customer or admin.
func (m *Manager) Cancel(ctx context.Context, id uint, actor models.UserRole, reason string) (*models.Booking, error) {
	if actor != models.RoleCustomer && actor != models.RoleAdmin {
		return nil, ErrNotAllowed
	}
	note := "Booking cancelled"
	if reason != "" {
		note = reason
	}
	return m.transition(ctx, id, models.BookingStatusCancelled, note, nil)
}

// transition performs a single guarded status change: load, check the table,
// apply side effects, append exactly one timeline entry and write back. The
// booking is left untouched on any failure.
func (m *Manager) transition(ctx context.Context, id uint, to models.BookingStatus, note string, sideEffect func(*models.Booking, time.Time)) (*models.Booking, error) {
	lock := m.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	booking, err := m.bookings.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if booking.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: %s", ErrTerminalState, booking.Status)
	}
	if !allowed(booking.Status, to) {
		return nil, &TransitionError{From: booking.Status, To: to}
	}

	now := m.now()
	booking.Status = to
	if sideEffect != nil {
		sideEffect(booking, now)
	}
	booking.Timeline = append(booking.Timeline, models.TimelineEvent{
		Status: to,
		Time:   now,
		Note:   note,
	})

	if err := m.bookings.Update(ctx, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

func allowed(from, to models.BookingStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (m *Manager) lockFor(id uint) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	lock, ok := m.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[id] = lock
	}
	return lock
}
