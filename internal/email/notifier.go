package email

import (
	"context"

	"formfitness/internal/events"
	"formfitness/internal/logger"
	"formfitness/internal/user"
)

type Users interface {
	GetByID(ctx context.Context, userID int) (*user.User, error)
}

// Notifier turns bus events into member mails. Members without an email
// address are skipped.
type Notifier struct {
	mail  *Service
	users Users
}

func NewNotifier(mail *Service, users Users) *Notifier {
	return &Notifier{mail: mail, users: users}
}

// Run consumes events until ctx ends or the bus closes the subscription.
func (n *Notifier) Run(ctx context.Context, bus events.Bus) {
	ch, cancel := bus.Subscribe(ctx)
	defer cancel()

	for e := range ch {
		if err := n.handle(ctx, e); err != nil {
			logger.Error("Failed to queue notification", "type", e.Type, "user_id", e.UserID, "error", err)
		}
	}
}

func (n *Notifier) handle(ctx context.Context, e events.Event) error {
	switch e.Type {
	case events.BookingCreated, events.BookingCancelled, events.SubscriptionFrozen, events.SubscriptionAssigned:
	default:
		return nil
	}
	if e.UserID == 0 {
		return nil
	}

	u, err := n.users.GetByID(ctx, e.UserID)
	if err != nil {
		return err
	}
	if u.Email == nil || *u.Email == "" {
		return nil
	}
	to := *u.Email

	switch e.Type {
	case events.BookingCreated:
		return n.mail.SendBookingConfirmation(ctx, to, u.Name, e.Data["class_name"], e.Date, e.Data["start_time"])
	case events.BookingCancelled:
		return n.mail.SendCancellation(ctx, to, u.Name, e.Data["class_name"], e.Date)
	case events.SubscriptionFrozen:
		return n.mail.SendFreezeNotice(ctx, to, u.Name, e.Data["freeze_end"])
	default:
		return n.mail.SendSubscriptionAssigned(ctx, to, u.Name, e.Data["type"], e.Data["end_date"])
	}
}
