package subscription

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, s Subscription) (*Subscription, error)
	// GetActive returns the subscription with the latest end date.
	GetActive(ctx context.Context, userID int) (*Subscription, error)
	ListByUser(ctx context.Context, userID int) ([]Subscription, error)
	ListAll(ctx context.Context) ([]Subscription, error)
	// Freeze sets the freeze window only if the subscription is not frozen and
	// its monthly freeze is unused. It reports ErrFreezeRejected otherwise.
	Freeze(ctx context.Context, id int, start, end time.Time) (*Subscription, error)
	DeleteByUser(ctx context.Context, userID int) error
}
