package engine

import (
	"errors"

	"formfitness/internal/apperr"
	"formfitness/internal/booking"
	"formfitness/internal/catalog"
	"formfitness/internal/subscription"
	"formfitness/internal/user"
	"formfitness/internal/wallet"
)

var (
	ErrNotAMember       = errors.New("subscriptions can only be assigned to members")
	ErrCannotDeleteSelf = errors.New("administrators cannot delete their own account")
)

// Classify maps ledger errors onto application error kinds.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}

	var na *booking.NotAvailableError
	switch {
	case errors.As(err, &na):
		switch na.Status {
		case booking.StatusFull:
			return apperr.Invalid("class_full", err)
		case booking.StatusBooked:
			return apperr.Invalid("already_booked", err)
		}
		return apperr.Invalid("not_available", err)
	case errors.Is(err, booking.ErrNotToday):
		return apperr.Invalid("not_today", err)
	case errors.Is(err, booking.ErrNoSubscription):
		return apperr.Invalid("subscription_required", err)
	case errors.Is(err, booking.ErrClassNotFound), errors.Is(err, catalog.ErrClassNotFound):
		return apperr.NotFound("class_not_found", err)
	case errors.Is(err, catalog.ErrInvalidClass):
		return apperr.Invalid("invalid_class", err)
	case errors.Is(err, subscription.ErrNoActiveSubscription):
		return apperr.Invalid("no_active_subscription", err)
	case errors.Is(err, subscription.ErrAlreadyFrozen):
		return apperr.Conflict("already_frozen", err)
	case errors.Is(err, subscription.ErrFreezeAlreadyUsed):
		return apperr.Conflict("freeze_already_used", err)
	case errors.Is(err, subscription.ErrFreezeRejected):
		return apperr.Conflict("freeze_rejected", err)
	case errors.Is(err, subscription.ErrUnknownType):
		return apperr.Invalid("unknown_subscription_type", err)
	case errors.Is(err, subscription.ErrInsufficientBalance), errors.Is(err, wallet.ErrInsufficientBalance):
		return apperr.Invalid("insufficient_balance", err)
	case errors.Is(err, ErrNotAMember):
		return apperr.Invalid("not_a_member", err)
	case errors.Is(err, ErrCannotDeleteSelf):
		return apperr.Invalid("cannot_delete_self", err)
	}

	return user.Classify(err)
}
