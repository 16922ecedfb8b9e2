package engine

import (
	"context"
	"sort"

	"formfitness/internal/booking"
	"formfitness/internal/catalog"
	"formfitness/internal/clock"
	"formfitness/internal/events"
	"formfitness/internal/logger"
	"formfitness/internal/metrics"
	"formfitness/internal/subscription"
	"formfitness/internal/user"
)

const statisticsWindow = 30 * clock.Day

// AdminDesk has everything on the staff desk plus user management and statistics.
type AdminDesk struct {
	StaffDesk
}

func (d *AdminDesk) Dashboard(ctx context.Context) (*AdminDashboard, error) {
	staff, err := d.StaffDesk.Dashboard(ctx)
	if err != nil {
		return nil, err
	}
	stats, err := d.Statistics(ctx)
	if err != nil {
		return nil, err
	}
	return &AdminDashboard{StaffDashboard: *staff, Statistics: *stats}, nil
}

// Statistics reports club totals. Bookings per class cover the last 30 days.
func (d *AdminDesk) Statistics(ctx context.Context) (*Statistics, error) {
	users, err := d.e.users.List(ctx)
	if err != nil {
		return nil, Classify(err)
	}
	subs, err := d.e.subs.ListAll(ctx)
	if err != nil {
		return nil, Classify(err)
	}
	bookings, err := d.e.bookings.ListAll(ctx)
	if err != nil {
		return nil, Classify(err)
	}
	classes, err := d.e.catalog.List(ctx)
	if err != nil {
		return nil, Classify(err)
	}

	now := d.e.clock.Now()
	active := make([]subscription.Subscription, 0, len(subs))
	for _, s := range subs {
		if s.CountedActive(now) {
			active = append(active, s)
		}
	}

	today := d.e.today()
	counts, err := d.e.bookings.CountByClass(ctx, today.Add(-statisticsWindow), today)
	if err != nil {
		return nil, Classify(err)
	}
	byClass := make([]ClassCount, 0, len(classes))
	for _, c := range classes {
		byClass = append(byClass, ClassCount{ClassID: c.ID, ClassName: c.Name, Bookings: counts[c.ID]})
	}
	sort.SliceStable(byClass, func(i, j int) bool { return byClass[i].Bookings > byClass[j].Bookings })

	stats := &Statistics{
		TotalUsers:          countDistinct(users, func(u user.User) int { return u.ID }),
		ActiveSubscriptions: countDistinct(active, func(s subscription.Subscription) int { return s.ID }),
		TotalBookings:       countDistinct(bookings, func(b booking.Booking) int { return b.ID }),
		TotalClasses:        countDistinct(classes, func(c catalog.Class) int { return c.ID }),
		BookingsByClass:     byClass,
	}
	metrics.SetActiveSubscriptions(stats.ActiveSubscriptions)
	return stats, nil
}

func (d *AdminDesk) Users(ctx context.Context) ([]user.User, error) {
	users, err := d.e.users.List(ctx)
	return users, Classify(err)
}

// UpdateUser edits name, phone and email. The role never changes.
func (d *AdminDesk) UpdateUser(ctx context.Context, userID int, req user.UpdateRequest) (*user.User, error) {
	u, err := d.e.users.Update(ctx, userID, req)
	return u, Classify(err)
}

// DeleteUser removes the user with their bookings, subscriptions, wallet
// and sessions.
func (d *AdminDesk) DeleteUser(ctx context.Context, userID int) error {
	if userID == d.sess.UserID {
		return Classify(ErrCannotDeleteSelf)
	}
	if _, err := d.e.users.GetByID(ctx, userID); err != nil {
		return Classify(err)
	}

	if err := d.e.bookings.DeleteByUser(ctx, userID); err != nil {
		return Classify(err)
	}
	if err := d.e.subs.DeleteByUser(ctx, userID); err != nil {
		return Classify(err)
	}
	if d.e.wallets != nil {
		if err := d.e.wallets.DeleteByUser(ctx, userID); err != nil {
			return Classify(err)
		}
	}
	if d.e.sessions != nil {
		if err := d.e.sessions.DeleteByUser(ctx, userID); err != nil {
			return Classify(err)
		}
	}
	if err := d.e.users.Delete(ctx, userID); err != nil {
		return Classify(err)
	}

	ev := events.New(events.UserDeleted)
	ev.UserID = userID
	d.e.publish(ctx, ev)
	logger.Info("User deleted", "user_id", userID, "by", d.sess.Login)
	return nil
}

func (d *AdminDesk) Subscriptions(ctx context.Context) ([]subscription.Subscription, error) {
	subs, err := d.e.subs.ListAll(ctx)
	return subs, Classify(err)
}

func (d *AdminDesk) Bookings(ctx context.Context) ([]BookingView, error) {
	bookings, err := d.e.bookings.ListAll(ctx)
	if err != nil {
		return nil, Classify(err)
	}
	views, err := d.e.bookingViews(ctx, bookings)
	return views, Classify(err)
}
