package booking

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrSessionInactive      = errors.New("session is not open for booking")
	ErrDuplicateSeat        = errors.New("seat listed more than once")
	ErrUnknownSeat          = errors.New("seat does not exist in this room")
	ErrInvalidTicketType    = errors.New("invalid ticket type")
	ErrSeatConflict         = errors.New("seat already occupied")
	ErrHalfPriceUnconfirmed = errors.New("half-price eligibility not confirmed")
	ErrInvalidPayment       = errors.New("invalid payment details")
	ErrPaymentDeclined      = errors.New("payment declined")
	ErrOrderNotFound        = errors.New("order not found")
)

// SeatConflictError lists the seats that were sold between selection and
// commit.  It matches ErrSeatConflict with errors.Is.
type SeatConflictError struct {
	SessionID string
	Seats     []string
}

func (e *SeatConflictError) Error() string {
	return fmt.Sprintf("session %s: seats already occupied: %s", e.SessionID, strings.Join(e.Seats, ", "))
}

func (e *SeatConflictError) Is(target error) bool { return target == ErrSeatConflict }
