// Package events carries ledger changes to whoever is listening: the SSE
// stream, the mail notifier and, when configured, a RabbitMQ exchange.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	BookingCreated       Type = "booking.created"
	BookingCancelled     Type = "booking.cancelled"
	SubscriptionAssigned Type = "subscription.assigned"
	SubscriptionFrozen   Type = "subscription.frozen"
	ClassCreated         Type = "class.created"
	ClassUpdated         Type = "class.updated"
	ClassDeleted         Type = "class.deleted"
	UserDeleted          Type = "user.deleted"
)

// Event describes one committed change. UserID is the member the change
// belongs to; ClassID and Date are set for class and booking events.
type Event struct {
	ID         string            `json:"id"`
	Type       Type              `json:"type"`
	OccurredAt time.Time         `json:"occurred_at"`
	UserID     int               `json:"user_id,omitempty"`
	ClassID    int               `json:"class_id,omitempty"`
	Date       string            `json:"date,omitempty"`
	Data       map[string]string `json:"data,omitempty"`
}

func New(t Type) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       t,
		OccurredAt: time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Bus publishes events and hands out subscriptions. The returned func
// cancels the subscription and closes its channel.
type Bus interface {
	Publisher
	Subscribe(ctx context.Context) (<-chan Event, func())
}
