package lifecycle

import (
	"errors"
	"fmt"

	"quickfix-server/models"
)

var (
	// ErrTerminalState is returned when a transition is attempted on a
	// booking that already reached completed, cancelled or rejected.
	ErrTerminalState = errors.New("booking is in a terminal state")
	// ErrNotAllowed is returned when the acting role may not perform the
	// requested transition.
	ErrNotAllowed = errors.New("actor not allowed to perform this transition")
	// ErrPriceRequired is returned when completing a booking without a
	// positive final price.
	ErrPriceRequired = errors.New("a positive final price is required to complete a booking")
)

// TransitionError reports an illegal status change with both states for
// diagnostics. Callers must not retry automatically.
type TransitionError struct {
	From models.BookingStatus
	To   models.BookingStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid booking transition from %q to %q", e.From, e.To)
}

// IsInvalidTransition reports whether err is a TransitionError.
func IsInvalidTransition(err error) bool {
	var te *TransitionError
	return errors.As(err, &te)
}
