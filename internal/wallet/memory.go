package wallet

import (
	"context"
	"sort"
	"sync"
	"time"
)

type MemoryRepository struct {
	mu      sync.Mutex
	nextID  int
	nextTx  int
	wallets map[int]*Wallet
	txs     map[int][]Transaction
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		nextID:  1,
		nextTx:  1,
		wallets: make(map[int]*Wallet),
		txs:     make(map[int][]Transaction),
	}
}

func (r *MemoryRepository) walletLocked(userID int) *Wallet {
	w, ok := r.wallets[userID]
	if !ok {
		now := time.Now()
		w = &Wallet{ID: r.nextID, UserID: userID, Currency: Currency, CreatedAt: now, UpdatedAt: now}
		r.nextID++
		r.wallets[userID] = w
	}
	return w
}

func (r *MemoryRepository) GetOrCreateWallet(ctx context.Context, userID int) (*Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := *r.walletLocked(userID)
	return &out, nil
}

func (r *MemoryRepository) TopUp(ctx context.Context, userID int, amountCents int64) error {
	if amountCents <= 0 {
		return ErrInvalidAmount
	}
	return r.post(userID, amountCents, TxTopUp)
}

func (r *MemoryRepository) Charge(ctx context.Context, userID int, amountCents int64) error {
	if amountCents <= 0 {
		return ErrInvalidAmount
	}
	return r.post(userID, -amountCents, TxSubscriptionPayment)
}

func (r *MemoryRepository) Refund(ctx context.Context, userID int, amountCents int64) error {
	if amountCents <= 0 {
		return ErrInvalidAmount
	}
	return r.post(userID, amountCents, TxRefund)
}

func (r *MemoryRepository) post(userID int, delta int64, txType string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	w := r.walletLocked(userID)
	balance := w.BalanceCents + delta
	if balance < 0 {
		return ErrInsufficientBalance
	}

	w.BalanceCents = balance
	w.UpdatedAt = time.Now()
	r.txs[w.ID] = append(r.txs[w.ID], Transaction{
		ID:           r.nextTx,
		WalletID:     w.ID,
		AmountCents:  delta,
		Type:         txType,
		BalanceAfter: balance,
		CreatedAt:    w.UpdatedAt,
	})
	r.nextTx++
	return nil
}

func (r *MemoryRepository) GetTransactions(ctx context.Context, userID int, limit, offset int) ([]Transaction, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.wallets[userID]
	if !ok {
		return []Transaction{}, nil
	}

	all := append([]Transaction(nil), r.txs[w.ID]...)
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })

	if offset >= len(all) {
		return []Transaction{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *MemoryRepository) DeleteByUser(ctx context.Context, userID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if w, ok := r.wallets[userID]; ok {
		delete(r.txs, w.ID)
		delete(r.wallets, userID)
	}
	return nil
}
