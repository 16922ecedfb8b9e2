package engine

import (
	"context"
	"time"

	"formfitness/internal/catalog"
	"formfitness/internal/clock"
	"formfitness/internal/events"
	"formfitness/internal/logger"
	"formfitness/internal/metrics"
	"formfitness/internal/session"
	"formfitness/internal/subscription"
	"formfitness/internal/user"
)

// StaffDesk manages the schedule and members' subscriptions.
type StaffDesk struct {
	e    *Engine
	sess *session.Session
}

func (d *StaffDesk) Session() *session.Session { return d.sess }
func (d *StaffDesk) desk()                     {}

func (d *StaffDesk) Dashboard(ctx context.Context) (*StaffDashboard, error) {
	u, err := d.e.users.GetByID(ctx, d.sess.UserID)
	if err != nil {
		return nil, Classify(err)
	}

	slots, err := d.e.todaysSlots(ctx, 0)
	if err != nil {
		return nil, Classify(err)
	}

	members, err := d.e.users.ListByRole(ctx, user.RoleMember)
	if err != nil {
		return nil, Classify(err)
	}

	return &StaffDashboard{
		User:    *u,
		Today:   d.e.today(),
		Classes: slots,
		Members: len(members),
	}, nil
}

func (d *StaffDesk) Schedule(ctx context.Context) ([]catalog.Class, error) {
	classes, err := d.e.catalog.List(ctx)
	return classes, Classify(err)
}

func (d *StaffDesk) CreateClass(ctx context.Context, req catalog.ClassRequest) (*catalog.Class, error) {
	c, err := d.e.catalog.Create(ctx, req)
	if err != nil {
		return nil, Classify(err)
	}
	d.e.publish(ctx, classEvent(events.ClassCreated, c))
	logger.Info("Class created", "class_id", c.ID, "by", d.sess.Login)
	return c, nil
}

func (d *StaffDesk) UpdateClass(ctx context.Context, id int, req catalog.ClassRequest) (*catalog.Class, error) {
	c, err := d.e.catalog.Update(ctx, id, req)
	if err != nil {
		return nil, Classify(err)
	}
	d.e.publish(ctx, classEvent(events.ClassUpdated, c))
	return c, nil
}

// DeleteClass removes the class together with all of its bookings.
func (d *StaffDesk) DeleteClass(ctx context.Context, id int) error {
	c, err := d.e.catalog.Get(ctx, id)
	if err != nil {
		return Classify(err)
	}
	if err := d.e.bookings.DeleteByClass(ctx, id); err != nil {
		return Classify(err)
	}
	if err := d.e.catalog.Delete(ctx, id); err != nil {
		return Classify(err)
	}
	d.e.publish(ctx, classEvent(events.ClassDeleted, c))
	logger.Info("Class deleted", "class_id", id, "by", d.sess.Login)
	return nil
}

// Members lists users with the member role.
func (d *StaffDesk) Members(ctx context.Context) ([]user.User, error) {
	members, err := d.e.users.ListByRole(ctx, user.RoleMember)
	return members, Classify(err)
}

func (d *StaffDesk) member(ctx context.Context, userID int) (*user.User, error) {
	u, err := d.e.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.Role != user.RoleMember {
		return nil, ErrNotAMember
	}
	return u, nil
}

// AssignSubscription issues a subscription to a member without payment.
func (d *StaffDesk) AssignSubscription(ctx context.Context, userID int, t subscription.Type) (*subscription.Subscription, error) {
	if _, err := d.member(ctx, userID); err != nil {
		return nil, Classify(err)
	}

	sub, err := d.e.subs.Assign(ctx, userID, t)
	if err != nil {
		return nil, Classify(err)
	}
	metrics.RecordSubscription(string(t), "assign")
	d.e.publish(ctx, subscriptionEvent(events.SubscriptionAssigned, sub))
	logger.Info("Subscription assigned", "user_id", userID, "type", t, "by", d.sess.Login)
	return sub, nil
}

func (d *StaffDesk) MemberSubscription(ctx context.Context, userID int) (*MemberSubscription, error) {
	u, err := d.member(ctx, userID)
	if err != nil {
		return nil, Classify(err)
	}

	status, err := d.e.subs.Status(ctx, userID)
	if err != nil {
		return nil, Classify(err)
	}
	history, err := d.e.subs.ListByUser(ctx, userID)
	if err != nil {
		return nil, Classify(err)
	}

	return &MemberSubscription{User: *u, Status: *status, History: history}, nil
}

// ClassRoster lists who is booked into a class on a day.
func (d *StaffDesk) ClassRoster(ctx context.Context, classID int, day time.Time) (*Roster, error) {
	c, err := d.e.catalog.Get(ctx, classID)
	if err != nil {
		return nil, Classify(err)
	}

	day = clock.DateOf(day)
	bookings, err := d.e.bookings.ListForClass(ctx, classID, day)
	if err != nil {
		return nil, Classify(err)
	}

	entries := make([]RosterEntry, 0, len(bookings))
	for _, b := range bookings {
		entry := RosterEntry{BookingID: b.ID, UserID: b.UserID, BookedAt: b.CreatedAt}
		if u, err := d.e.users.GetByID(ctx, b.UserID); err == nil {
			entry.Login = u.Login
			entry.Name = u.Name
		}
		entries = append(entries, entry)
	}

	return &Roster{Class: *c, Date: day, Entries: entries}, nil
}
