package booking

import (
	"errors"
	"time"
)

// Status is a member's standing for one class on one day.
type Status string

const (
	StatusAvailable Status = "available"
	StatusBooked    Status = "booked"
	StatusFull      Status = "full"
)

// Booking reserves a place in a class on a calendar day (00:00 UTC of the civil date).
type Booking struct {
	ID        int       `db:"id" json:"id"`
	UserID    int       `db:"user_id" json:"user_id"`
	ClassID   int       `db:"class_id" json:"class_id"`
	Date      time.Time `db:"date" json:"date"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

var (
	ErrNotToday       = errors.New("bookings can only be made for today")
	ErrNotAvailable   = errors.New("class is not available for booking")
	ErrClassFull      = errors.New("class is full")
	ErrAlreadyBooked  = errors.New("already booked")
	ErrClassNotFound  = errors.New("class not found")
	ErrNoSubscription = errors.New("an active subscription is required to book")
)

// NotAvailableError carries the status that blocked a booking.
type NotAvailableError struct {
	Status Status
}

func (e *NotAvailableError) Error() string {
	switch e.Status {
	case StatusFull:
		return ErrClassFull.Error()
	case StatusBooked:
		return ErrAlreadyBooked.Error()
	}
	return ErrNotAvailable.Error()
}

func (e *NotAvailableError) Is(target error) bool {
	switch target {
	case ErrNotAvailable:
		return true
	case ErrClassFull:
		return e.Status == StatusFull
	case ErrAlreadyBooked:
		return e.Status == StatusBooked
	}
	return false
}
