package subscription

import (
	"context"
	"errors"
	"fmt"

	"formfitness/internal/clock"
	"formfitness/internal/logger"
	"formfitness/internal/wallet"
)

const freezeAttempts = 2

var (
	ErrUnknownType         = errors.New("unknown subscription type")
	ErrAlreadyFrozen       = errors.New("subscription is already frozen")
	ErrFreezeAlreadyUsed   = errors.New("freeze already used this month")
	ErrInsufficientBalance = errors.New("insufficient wallet balance")
)

// Ledger issues, freezes and reports on member subscriptions.
type Ledger interface {
	Plans() []Plan
	// Assign always inserts a new subscription starting now.
	Assign(ctx context.Context, userID int, t Type) (*Subscription, error)
	// Purchase charges the member's wallet for the plan, then assigns it.
	Purchase(ctx context.Context, userID int, t Type) (*Subscription, error)
	GetActive(ctx context.Context, userID int) (*Subscription, error)
	Freeze(ctx context.Context, userID int) (*Subscription, error)
	RemainingDays(ctx context.Context, userID int) (int, error)
	Status(ctx context.Context, userID int) (*Status, error)
	ListByUser(ctx context.Context, userID int) ([]Subscription, error)
	ListAll(ctx context.Context) ([]Subscription, error)
	DeleteByUser(ctx context.Context, userID int) error
}

type ledger struct {
	repo    Repository
	wallets wallet.Repository
	clock   clock.Clock
}

func NewLedger(repo Repository, wallets wallet.Repository, clk clock.Clock) Ledger {
	return &ledger{repo: repo, wallets: wallets, clock: clk}
}

func (l *ledger) Plans() []Plan { return Plans() }

func (l *ledger) Assign(ctx context.Context, userID int, t Type) (*Subscription, error) {
	if !t.Valid() {
		return nil, ErrUnknownType
	}

	now := l.clock.Now()
	return l.repo.Create(ctx, Subscription{
		UserID:    userID,
		Type:      t,
		StartDate: now,
		EndDate:   now.Add(t.Duration()),
	})
}

func (l *ledger) Purchase(ctx context.Context, userID int, t Type) (*Subscription, error) {
	plan, ok := FindPlan(t)
	if !ok {
		return nil, ErrUnknownType
	}

	if err := l.wallets.Charge(ctx, userID, plan.PriceCents); err != nil {
		if errors.Is(err, wallet.ErrInsufficientBalance) {
			return nil, ErrInsufficientBalance
		}
		return nil, fmt.Errorf("charge wallet: %w", err)
	}

	sub, err := l.Assign(ctx, userID, t)
	if err != nil {
		if refundErr := l.wallets.Refund(ctx, userID, plan.PriceCents); refundErr != nil {
			logger.Error("Failed to refund subscription payment",
				"user_id", userID,
				"amount_cents", plan.PriceCents,
				"error", refundErr,
			)
		}
		return nil, err
	}

	return sub, nil
}

func (l *ledger) GetActive(ctx context.Context, userID int) (*Subscription, error) {
	return l.repo.GetActive(ctx, userID)
}

// Freeze retries once when a concurrent writer changed the subscription
// between the check and the conditional update.
func (l *ledger) Freeze(ctx context.Context, userID int) (*Subscription, error) {
	for attempt := 0; attempt < freezeAttempts; attempt++ {
		sub, err := l.repo.GetActive(ctx, userID)
		if err != nil {
			return nil, err
		}
		if err := freezeCheck(sub); err != nil {
			return nil, err
		}

		now := l.clock.Now()
		frozen, err := l.repo.Freeze(ctx, sub.ID, now, now.Add(FreezeDuration))
		if !errors.Is(err, ErrFreezeRejected) {
			return frozen, err
		}
	}
	return nil, ErrFreezeRejected
}

// freezeCheck puts the monthly allowance first: a frozen flag left over from
// an earlier freeze must not hide it.
func freezeCheck(sub *Subscription) error {
	switch {
	case sub.FreezeUsedThisMonth:
		return ErrFreezeAlreadyUsed
	case sub.IsFrozen:
		return ErrAlreadyFrozen
	}
	return nil
}

func (l *ledger) RemainingDays(ctx context.Context, userID int) (int, error) {
	sub, err := l.repo.GetActive(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNoActiveSubscription) {
			return 0, nil
		}
		return 0, err
	}
	return sub.RemainingDays(l.clock.Now()), nil
}

// Status bundles the active subscription with its remaining days.
// A member without any subscription gets an empty status.
func (l *ledger) Status(ctx context.Context, userID int) (*Status, error) {
	sub, err := l.repo.GetActive(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNoActiveSubscription) {
			return &Status{}, nil
		}
		return nil, err
	}
	return &Status{
		Subscription:  sub,
		RemainingDays: sub.RemainingDays(l.clock.Now()),
		CanFreeze:     freezeCheck(sub) == nil,
	}, nil
}

func (l *ledger) ListByUser(ctx context.Context, userID int) ([]Subscription, error) {
	return l.repo.ListByUser(ctx, userID)
}

func (l *ledger) ListAll(ctx context.Context) ([]Subscription, error) {
	return l.repo.ListAll(ctx)
}

func (l *ledger) DeleteByUser(ctx context.Context, userID int) error {
	return l.repo.DeleteByUser(ctx, userID)
}
