package wallet

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("amount must be positive")
)

const defaultPageSize = 50

const (
	upsertWalletSQL = `
		INSERT INTO wallets (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING id, user_id, balance_cents, currency, created_at, updated_at`

	// The balance guard lives in the WHERE clause so concurrent debits can
	// not overdraw the wallet.
	applyDeltaSQL = `
		UPDATE wallets
		SET balance_cents = balance_cents + $2, updated_at = NOW()
		WHERE id = $1 AND balance_cents + $2 >= 0
		RETURNING balance_cents`

	journalSQL = `
		INSERT INTO wallet_transactions (wallet_id, amount_cents, type, balance_after)
		VALUES ($1, $2, $3, $4)`
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetOrCreateWallet(ctx context.Context, userID int) (*Wallet, error) {
	w := &Wallet{}
	if err := r.db.GetContext(ctx, w, upsertWalletSQL, userID); err != nil {
		return nil, err
	}
	return w, nil
}

func (r *repository) TopUp(ctx context.Context, userID int, amountCents int64) error {
	if amountCents <= 0 {
		return ErrInvalidAmount
	}
	return r.post(ctx, userID, amountCents, TxTopUp)
}

func (r *repository) Charge(ctx context.Context, userID int, amountCents int64) error {
	if amountCents <= 0 {
		return ErrInvalidAmount
	}
	return r.post(ctx, userID, -amountCents, TxSubscriptionPayment)
}

func (r *repository) Refund(ctx context.Context, userID int, amountCents int64) error {
	if amountCents <= 0 {
		return ErrInvalidAmount
	}
	return r.post(ctx, userID, amountCents, TxRefund)
}

// post moves delta cents and journals the movement in one transaction.
func (r *repository) post(ctx context.Context, userID int, delta int64, txType string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var w Wallet
	if err := tx.GetContext(ctx, &w, upsertWalletSQL, userID); err != nil {
		return err
	}

	var balance int64
	err = tx.GetContext(ctx, &balance, applyDeltaSQL, w.ID, delta)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrInsufficientBalance
	}
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, journalSQL, w.ID, delta, txType, balance); err != nil {
		return err
	}
	return tx.Commit()
}

// GetTransactions pages the journal newest first. A member without a wallet
// has an empty journal.
func (r *repository) GetTransactions(ctx context.Context, userID int, limit, offset int) ([]Transaction, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}

	txs := []Transaction{}
	err := r.db.SelectContext(ctx, &txs, `
		SELECT t.id, t.wallet_id, t.amount_cents, t.type, t.balance_after, t.created_at
		FROM wallet_transactions t
		JOIN wallets w ON w.id = t.wallet_id
		WHERE w.user_id = $1
		ORDER BY t.created_at DESC, t.id DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return txs, nil
}

// DeleteByUser removes the wallet; its transactions cascade.
func (r *repository) DeleteByUser(ctx context.Context, userID int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM wallets WHERE user_id = $1`, userID)
	return err
}
