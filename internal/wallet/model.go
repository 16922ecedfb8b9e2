package wallet

import "time"

const (
	Currency = "RUB"

	TxTopUp               = "topup"
	TxSubscriptionPayment = "subscription_payment"
	TxRefund              = "refund"
)

// Wallet holds the member's prepaid balance.
type Wallet struct {
	ID           int       `db:"id" json:"id"`
	UserID       int       `db:"user_id" json:"user_id"`
	BalanceCents int64     `db:"balance_cents" json:"balance_cents"`
	Currency     string    `db:"currency" json:"currency"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

type Transaction struct {
	ID           int       `db:"id" json:"id"`
	WalletID     int       `db:"wallet_id" json:"wallet_id"`
	AmountCents  int64     `db:"amount_cents" json:"amount_cents"`
	Type         string    `db:"type" json:"type"`
	BalanceAfter int64     `db:"balance_after" json:"balance_after"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type TopUpRequest struct {
	AmountCents int64 `json:"amount_cents" validate:"required,gt=0,lte=10000000" example:"500000"`
}

type TopUpResponse struct {
	Message string  `json:"message"`
	Wallet  *Wallet `json:"wallet"`
}
