package booking

import (
	"context"
	"errors"
	"time"

	"formfitness/internal/catalog"
	"formfitness/internal/clock"
)

// Ledger answers capacity and status questions and books or cancels places.
// All dates are normalized to calendar days.
type Ledger interface {
	Count(ctx context.Context, classID int, day time.Time) (int, error)
	StatusFor(ctx context.Context, classID int, day time.Time, userID int) (Status, error)
	// Book reserves a place for today only, and only while the status is available.
	Book(ctx context.Context, userID, classID int, day time.Time) (*Booking, error)
	// Cancel removes the booking if present. Cancelling nothing is not an error.
	Cancel(ctx context.Context, userID, classID int, day time.Time) (bool, error)
	ListByUser(ctx context.Context, userID int) ([]Booking, error)
	ListUpcomingByUser(ctx context.Context, userID int) ([]Booking, error)
	ListAll(ctx context.Context) ([]Booking, error)
	ListForClass(ctx context.Context, classID int, day time.Time) ([]Booking, error)
	CountByClass(ctx context.Context, from, to time.Time) (map[int]int, error)
	DeleteByUser(ctx context.Context, userID int) error
	DeleteByClass(ctx context.Context, classID int) error
}

type ledger struct {
	repo    Repository
	classes catalog.Repository
	clock   clock.Clock
}

func NewLedger(repo Repository, classes catalog.Repository, clk clock.Clock) Ledger {
	return &ledger{repo: repo, classes: classes, clock: clk}
}

func (l *ledger) class(ctx context.Context, classID int) (*catalog.Class, error) {
	c, err := l.classes.Get(ctx, classID)
	if err != nil {
		if errors.Is(err, catalog.ErrClassNotFound) {
			return nil, ErrClassNotFound
		}
		return nil, err
	}
	return c, nil
}

func (l *ledger) Count(ctx context.Context, classID int, day time.Time) (int, error) {
	return l.repo.Count(ctx, classID, clock.DateOf(day))
}

func (l *ledger) statusFor(ctx context.Context, c *catalog.Class, day time.Time, userID int) (Status, error) {
	booked, err := l.repo.Exists(ctx, userID, c.ID, day)
	if err != nil {
		return "", err
	}
	if booked {
		return StatusBooked, nil
	}

	count, err := l.repo.Count(ctx, c.ID, day)
	if err != nil {
		return "", err
	}
	if count >= c.Capacity {
		return StatusFull, nil
	}
	return StatusAvailable, nil
}

func (l *ledger) StatusFor(ctx context.Context, classID int, day time.Time, userID int) (Status, error) {
	c, err := l.class(ctx, classID)
	if err != nil {
		return "", err
	}
	return l.statusFor(ctx, c, clock.DateOf(day), userID)
}

func (l *ledger) Book(ctx context.Context, userID, classID int, day time.Time) (*Booking, error) {
	day = clock.DateOf(day)
	if !day.Equal(clock.Today(l.clock)) {
		return nil, ErrNotToday
	}

	c, err := l.class(ctx, classID)
	if err != nil {
		return nil, err
	}

	status, err := l.statusFor(ctx, c, day, userID)
	if err != nil {
		return nil, err
	}
	if status != StatusAvailable {
		return nil, &NotAvailableError{Status: status}
	}

	b, err := l.repo.Create(ctx, Booking{UserID: userID, ClassID: classID, Date: day}, c.Capacity)
	switch {
	case errors.Is(err, ErrClassFull):
		return nil, &NotAvailableError{Status: StatusFull}
	case errors.Is(err, ErrAlreadyBooked):
		return nil, &NotAvailableError{Status: StatusBooked}
	case err != nil:
		return nil, err
	}
	return b, nil
}

func (l *ledger) Cancel(ctx context.Context, userID, classID int, day time.Time) (bool, error) {
	return l.repo.Delete(ctx, userID, classID, clock.DateOf(day))
}

func (l *ledger) ListByUser(ctx context.Context, userID int) ([]Booking, error) {
	return l.repo.ListByUser(ctx, userID)
}

func (l *ledger) ListUpcomingByUser(ctx context.Context, userID int) ([]Booking, error) {
	return l.repo.ListUpcomingByUser(ctx, userID, clock.Today(l.clock))
}

func (l *ledger) ListAll(ctx context.Context) ([]Booking, error) {
	return l.repo.ListAll(ctx)
}

func (l *ledger) ListForClass(ctx context.Context, classID int, day time.Time) ([]Booking, error) {
	return l.repo.ListForClass(ctx, classID, clock.DateOf(day))
}

func (l *ledger) CountByClass(ctx context.Context, from, to time.Time) (map[int]int, error) {
	return l.repo.CountByClass(ctx, clock.DateOf(from), clock.DateOf(to))
}

func (l *ledger) DeleteByUser(ctx context.Context, userID int) error {
	return l.repo.DeleteByUser(ctx, userID)
}

func (l *ledger) DeleteByClass(ctx context.Context, classID int) error {
	return l.repo.DeleteByClass(ctx, classID)
}
