package engine

import (
	"context"
	"errors"
	"time"

	"formfitness/internal/booking"
	"formfitness/internal/catalog"
	"formfitness/internal/events"
	"formfitness/internal/logger"
	"formfitness/internal/metrics"
	"formfitness/internal/session"
	"formfitness/internal/subscription"
)

// MemberDesk is what a club member can see and do.
type MemberDesk struct {
	e    *Engine
	sess *session.Session
}

func (d *MemberDesk) Session() *session.Session { return d.sess }
func (d *MemberDesk) desk()                     {}

func (d *MemberDesk) userID() int { return d.sess.UserID }

// Dashboard shows today's classes with the member's status, the active
// subscription and the member's bookings from today on.
func (d *MemberDesk) Dashboard(ctx context.Context) (*MemberDashboard, error) {
	u, err := d.e.users.GetByID(ctx, d.userID())
	if err != nil {
		return nil, Classify(err)
	}

	slots, err := d.e.todaysSlots(ctx, d.userID())
	if err != nil {
		return nil, Classify(err)
	}

	status, err := d.e.subs.Status(ctx, d.userID())
	if err != nil {
		return nil, Classify(err)
	}

	bookings, err := d.Bookings(ctx)
	if err != nil {
		return nil, err
	}

	return &MemberDashboard{
		User:         *u,
		Today:        d.e.today(),
		Classes:      slots,
		Subscription: *status,
		Bookings:     bookings,
	}, nil
}

func (d *MemberDesk) Schedule(ctx context.Context) ([]catalog.Class, error) {
	classes, err := d.e.catalog.List(ctx)
	return classes, Classify(err)
}

func (d *MemberDesk) Status(ctx context.Context, classID int, day time.Time) (booking.Status, error) {
	s, err := d.e.bookings.StatusFor(ctx, classID, day, d.userID())
	return s, Classify(err)
}

func (d *MemberDesk) Book(ctx context.Context, classID int, day time.Time) (*booking.Booking, error) {
	if d.e.requireSubscription {
		if err := d.checkSubscription(ctx); err != nil {
			metrics.RecordBooking("subscription_required")
			return nil, Classify(err)
		}
	}

	b, err := d.e.bookings.Book(ctx, d.userID(), classID, day)
	if err != nil {
		metrics.RecordBooking(bookingResult(err))
		return nil, Classify(err)
	}
	metrics.RecordBooking("booked")

	if c, err := d.e.catalog.Get(ctx, classID); err == nil {
		d.e.publish(ctx, bookingEvent(events.BookingCreated, d.userID(), c, b.Date))
	}

	logger.Info("Class booked", "user_id", d.userID(), "class_id", classID, "date", b.Date.Format(time.DateOnly))
	return b, nil
}

func (d *MemberDesk) checkSubscription(ctx context.Context) error {
	sub, err := d.e.subs.GetActive(ctx, d.userID())
	if errors.Is(err, subscription.ErrNoActiveSubscription) {
		return booking.ErrNoSubscription
	}
	if err != nil {
		return err
	}
	if !sub.CountedActive(d.e.clock.Now()) {
		return booking.ErrNoSubscription
	}
	return nil
}

func bookingResult(err error) string {
	var na *booking.NotAvailableError
	switch {
	case errors.As(err, &na):
		return string(na.Status)
	case errors.Is(err, booking.ErrNotToday):
		return "not_today"
	case errors.Is(err, booking.ErrClassNotFound):
		return "class_not_found"
	}
	return "error"
}

// Cancel drops the member's booking for the class and day. It reports
// whether a booking existed; cancelling nothing succeeds.
func (d *MemberDesk) Cancel(ctx context.Context, classID int, day time.Time) (bool, error) {
	removed, err := d.e.bookings.Cancel(ctx, d.userID(), classID, day)
	if err != nil {
		return false, Classify(err)
	}
	if !removed {
		return false, nil
	}

	metrics.RecordBookingCancellation()
	c, err := d.e.catalog.Get(ctx, classID)
	if err != nil {
		c = &catalog.Class{ID: classID}
	}
	d.e.publish(ctx, bookingEvent(events.BookingCancelled, d.userID(), c, day))
	return true, nil
}

// Bookings lists the member's bookings from today onward.
func (d *MemberDesk) Bookings(ctx context.Context) ([]BookingView, error) {
	bookings, err := d.e.bookings.ListUpcomingByUser(ctx, d.userID())
	if err != nil {
		return nil, Classify(err)
	}
	views, err := d.e.bookingViews(ctx, bookings)
	return views, Classify(err)
}

func (d *MemberDesk) Subscription(ctx context.Context) (*subscription.Status, error) {
	s, err := d.e.subs.Status(ctx, d.userID())
	return s, Classify(err)
}

func (d *MemberDesk) RemainingDays(ctx context.Context) (int, error) {
	n, err := d.e.subs.RemainingDays(ctx, d.userID())
	return n, Classify(err)
}

func (d *MemberDesk) Plans() []subscription.Plan {
	return d.e.subs.Plans()
}

func (d *MemberDesk) Freeze(ctx context.Context) (*subscription.Subscription, error) {
	sub, err := d.e.subs.Freeze(ctx, d.userID())
	if err != nil {
		metrics.RecordFreeze(freezeResult(err))
		return nil, Classify(err)
	}
	metrics.RecordFreeze("frozen")
	d.e.publish(ctx, subscriptionEvent(events.SubscriptionFrozen, sub))
	return sub, nil
}

func freezeResult(err error) string {
	switch {
	case errors.Is(err, subscription.ErrAlreadyFrozen):
		return "already_frozen"
	case errors.Is(err, subscription.ErrFreezeAlreadyUsed):
		return "already_used"
	case errors.Is(err, subscription.ErrNoActiveSubscription):
		return "no_subscription"
	}
	return "error"
}

// Purchase pays for a plan from the member's wallet.
func (d *MemberDesk) Purchase(ctx context.Context, t subscription.Type) (*subscription.Subscription, error) {
	sub, err := d.e.subs.Purchase(ctx, d.userID(), t)
	if err != nil {
		return nil, Classify(err)
	}
	metrics.RecordSubscription(string(t), "purchase")
	d.e.publish(ctx, subscriptionEvent(events.SubscriptionAssigned, sub))
	return sub, nil
}
