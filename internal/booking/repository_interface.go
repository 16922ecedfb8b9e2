package booking

import (
	"context"
	"time"
)

type Repository interface {
	Count(ctx context.Context, classID int, date time.Time) (int, error)
	Exists(ctx context.Context, userID, classID int, date time.Time) (bool, error)
	// Create inserts the booking only if the member has none for that class and
	// day and fewer than capacity places are taken, as one atomic step.
	// It returns ErrAlreadyBooked or ErrClassFull otherwise.
	Create(ctx context.Context, b Booking, capacity int) (*Booking, error)
	// Delete reports whether a booking was removed.
	Delete(ctx context.Context, userID, classID int, date time.Time) (bool, error)
	ListByUser(ctx context.Context, userID int) ([]Booking, error)
	ListUpcomingByUser(ctx context.Context, userID int, from time.Time) ([]Booking, error)
	ListAll(ctx context.Context) ([]Booking, error)
	ListForClass(ctx context.Context, classID int, date time.Time) ([]Booking, error)
	CountByClass(ctx context.Context, from, to time.Time) (map[int]int, error)
	DeleteByUser(ctx context.Context, userID int) error
	DeleteByClass(ctx context.Context, classID int) error
}
