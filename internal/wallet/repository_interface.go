package wallet

import "context"

// Repository owns member balances. Every movement is posted together with its
// journal row; a movement that would leave the balance negative is rejected.
type Repository interface {
	GetOrCreateWallet(ctx context.Context, userID int) (*Wallet, error)
	TopUp(ctx context.Context, userID int, amountCents int64) error
	// Charge debits a subscription payment.
	Charge(ctx context.Context, userID int, amountCents int64) error
	// Refund credits back a payment whose purchase did not go through.
	Refund(ctx context.Context, userID int, amountCents int64) error
	GetTransactions(ctx context.Context, userID int, limit, offset int) ([]Transaction, error)
	DeleteByUser(ctx context.Context, userID int) error
}
