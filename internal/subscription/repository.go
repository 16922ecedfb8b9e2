package subscription

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

var (
	ErrNoActiveSubscription = errors.New("no active subscription")
	ErrFreezeRejected       = errors.New("subscription cannot be frozen")
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const subscriptionColumns = `id, user_id, type, start_date, end_date, is_frozen, freeze_start_date, freeze_end_date, freeze_used_this_month, created_at`

func (r *repository) Create(ctx context.Context, s Subscription) (*Subscription, error) {
	created := &Subscription{}
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO subscriptions (user_id, type, start_date, end_date)
		VALUES ($1, $2, $3, $4)
		RETURNING `+subscriptionColumns,
		s.UserID, s.Type, s.StartDate, s.EndDate,
	).StructScan(created)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *repository) GetActive(ctx context.Context, userID int) (*Subscription, error) {
	sub := &Subscription{}
	err := r.db.GetContext(ctx, sub, `
		SELECT `+subscriptionColumns+`
		FROM subscriptions
		WHERE user_id = $1
		ORDER BY end_date DESC, id DESC
		LIMIT 1
	`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoActiveSubscription
		}
		return nil, err
	}
	return sub, nil
}

func (r *repository) ListByUser(ctx context.Context, userID int) ([]Subscription, error) {
	subs := []Subscription{}
	err := r.db.SelectContext(ctx, &subs, `
		SELECT `+subscriptionColumns+`
		FROM subscriptions
		WHERE user_id = $1
		ORDER BY end_date DESC, id DESC
	`, userID)
	return subs, err
}

func (r *repository) ListAll(ctx context.Context) ([]Subscription, error) {
	subs := []Subscription{}
	err := r.db.SelectContext(ctx, &subs, `
		SELECT `+subscriptionColumns+`
		FROM subscriptions
		ORDER BY id
	`)
	return subs, err
}

func (r *repository) Freeze(ctx context.Context, id int, start, end time.Time) (*Subscription, error) {
	sub := &Subscription{}
	err := r.db.GetContext(ctx, sub, `
		UPDATE subscriptions
		SET is_frozen = TRUE,
		    freeze_start_date = $2,
		    freeze_end_date = $3,
		    freeze_used_this_month = TRUE
		WHERE id = $1
		  AND is_frozen = FALSE
		  AND freeze_used_this_month = FALSE
		RETURNING `+subscriptionColumns,
		id, start, end,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFreezeRejected
		}
		return nil, err
	}
	return sub, nil
}

func (r *repository) DeleteByUser(ctx context.Context, userID int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM subscriptions WHERE user_id = $1`, userID)
	return err
}
