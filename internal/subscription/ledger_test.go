package subscription

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"formfitness/internal/clock"
	"formfitness/internal/wallet"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

func newTestLedger() (Ledger, *MemoryRepository, *wallet.MemoryRepository) {
	repo := NewMemoryRepository()
	wallets := wallet.NewMemoryRepository()
	return NewLedger(repo, wallets, clock.Fixed{T: testNow}), repo, wallets
}

func TestLedger_AssignOneMonth(t *testing.T) {
	l, _, _ := newTestLedger()
	ctx := context.Background()

	sub, err := l.Assign(ctx, 1, TypeOneMonth)
	require.NoError(t, err)
	assert.Equal(t, testNow, sub.StartDate)
	assert.Equal(t, testNow.Add(30*clock.Day), sub.EndDate)
	assert.False(t, sub.IsFrozen)

	days, err := l.RemainingDays(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 30, days)
}

func TestLedger_AssignDurations(t *testing.T) {
	tests := []struct {
		typ  Type
		days int
	}{
		{TypeOneMonth, 30},
		{TypeSixMonths, 180},
		{TypeTwelveMonths, 360},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			l, _, _ := newTestLedger()
			sub, err := l.Assign(context.Background(), 1, tt.typ)
			require.NoError(t, err)
			assert.Equal(t, tt.days, sub.RemainingDays(testNow))
		})
	}

	l, _, _ := newTestLedger()
	_, err := l.Assign(context.Background(), 1, Type("lifetime"))
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestLedger_AssignAlwaysInserts(t *testing.T) {
	l, _, _ := newTestLedger()
	ctx := context.Background()

	_, err := l.Assign(ctx, 1, TypeTwelveMonths)
	require.NoError(t, err)
	_, err = l.Assign(ctx, 1, TypeOneMonth)
	require.NoError(t, err)

	history, err := l.ListByUser(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	active, err := l.GetActive(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, TypeTwelveMonths, active.Type, "latest end date wins")
}

func TestLedger_RemainingDays(t *testing.T) {
	ctx := context.Background()

	t.Run("No subscription", func(t *testing.T) {
		l, _, _ := newTestLedger()
		days, err := l.RemainingDays(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, 0, days)
	})

	t.Run("Ten days left", func(t *testing.T) {
		l, repo, _ := newTestLedger()
		_, err := repo.Create(ctx, Subscription{UserID: 1, Type: TypeOneMonth, StartDate: testNow.Add(-20 * clock.Day), EndDate: testNow.Add(10 * clock.Day)})
		require.NoError(t, err)

		days, err := l.RemainingDays(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, 10, days)
	})

	t.Run("Frozen counts to freeze end", func(t *testing.T) {
		l, repo, _ := newTestLedger()
		sub, err := repo.Create(ctx, Subscription{UserID: 1, Type: TypeOneMonth, StartDate: testNow.Add(-20 * clock.Day), EndDate: testNow.Add(10 * clock.Day)})
		require.NoError(t, err)
		_, err = repo.Freeze(ctx, sub.ID, testNow.Add(-4*clock.Day), testNow.Add(3*clock.Day))
		require.NoError(t, err)

		days, err := l.RemainingDays(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, 3, days)
	})

	t.Run("Expired never goes negative", func(t *testing.T) {
		l, repo, _ := newTestLedger()
		_, err := repo.Create(ctx, Subscription{UserID: 1, Type: TypeOneMonth, StartDate: testNow.Add(-40 * clock.Day), EndDate: testNow.Add(-10 * clock.Day)})
		require.NoError(t, err)

		days, err := l.RemainingDays(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, 0, days)
	})

	t.Run("Partial days are floored", func(t *testing.T) {
		l, repo, _ := newTestLedger()
		_, err := repo.Create(ctx, Subscription{UserID: 1, Type: TypeOneMonth, StartDate: testNow, EndDate: testNow.Add(2*clock.Day + 23*time.Hour)})
		require.NoError(t, err)

		days, err := l.RemainingDays(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, 2, days)
	})
}

// flakyFreezeRepo rejects the first rejections conditional freezes as if
// another writer got there first.
type flakyFreezeRepo struct {
	*MemoryRepository
	rejections int
	calls      int
}

func (r *flakyFreezeRepo) Freeze(ctx context.Context, id int, start, end time.Time) (*Subscription, error) {
	r.calls++
	if r.calls <= r.rejections {
		return nil, ErrFreezeRejected
	}
	return r.MemoryRepository.Freeze(ctx, id, start, end)
}

func TestLedger_Freeze(t *testing.T) {
	ctx := context.Background()

	t.Run("No subscription", func(t *testing.T) {
		l, _, _ := newTestLedger()
		_, err := l.Freeze(ctx, 1)
		assert.ErrorIs(t, err, ErrNoActiveSubscription)
	})

	t.Run("First freeze sets a seven day window", func(t *testing.T) {
		l, _, _ := newTestLedger()
		sub, err := l.Assign(ctx, 1, TypeOneMonth)
		require.NoError(t, err)

		frozen, err := l.Freeze(ctx, 1)
		require.NoError(t, err)
		assert.True(t, frozen.IsFrozen)
		assert.True(t, frozen.FreezeUsedThisMonth)
		assert.Equal(t, testNow, *frozen.FreezeStartDate)
		assert.Equal(t, testNow.Add(7*clock.Day), *frozen.FreezeEndDate)
		assert.Equal(t, sub.EndDate, frozen.EndDate, "freeze never moves the end date")

		days, err := l.RemainingDays(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, 7, days)
	})

	t.Run("Second freeze reports the used monthly freeze", func(t *testing.T) {
		l, _, _ := newTestLedger()
		_, err := l.Assign(ctx, 1, TypeOneMonth)
		require.NoError(t, err)

		_, err = l.Freeze(ctx, 1)
		require.NoError(t, err)
		_, err = l.Freeze(ctx, 1)
		assert.ErrorIs(t, err, ErrFreezeAlreadyUsed)
		assert.NotErrorIs(t, err, ErrAlreadyFrozen)

		status, err := l.Status(ctx, 1)
		require.NoError(t, err)
		assert.False(t, status.CanFreeze)
	})

	t.Run("Frozen without a used freeze", func(t *testing.T) {
		assert.ErrorIs(t, freezeCheck(&Subscription{IsFrozen: true}), ErrAlreadyFrozen)
		assert.ErrorIs(t, freezeCheck(&Subscription{IsFrozen: true, FreezeUsedThisMonth: true}), ErrFreezeAlreadyUsed)
		assert.NoError(t, freezeCheck(&Subscription{}))
	})

	t.Run("Lost update is retried once", func(t *testing.T) {
		repo := &flakyFreezeRepo{MemoryRepository: NewMemoryRepository(), rejections: 1}
		l := NewLedger(repo, wallet.NewMemoryRepository(), clock.Fixed{T: testNow})
		_, err := l.Assign(ctx, 1, TypeOneMonth)
		require.NoError(t, err)

		frozen, err := l.Freeze(ctx, 1)
		require.NoError(t, err)
		assert.True(t, frozen.IsFrozen)
		assert.Equal(t, 2, repo.calls)
	})

	t.Run("Repeated lost updates are rejected", func(t *testing.T) {
		repo := &flakyFreezeRepo{MemoryRepository: NewMemoryRepository(), rejections: 5}
		l := NewLedger(repo, wallet.NewMemoryRepository(), clock.Fixed{T: testNow})
		_, err := l.Assign(ctx, 1, TypeOneMonth)
		require.NoError(t, err)

		_, err = l.Freeze(ctx, 1)
		assert.ErrorIs(t, err, ErrFreezeRejected)
		assert.Equal(t, freezeAttempts, repo.calls)
	})

	t.Run("Concurrent freezes let exactly one through", func(t *testing.T) {
		l, _, _ := newTestLedger()
		_, err := l.Assign(ctx, 1, TypeOneMonth)
		require.NoError(t, err)

		var wins atomic.Int32
		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := l.Freeze(ctx, 1); err == nil {
					wins.Add(1)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(1), wins.Load())
	})
}

var errCreateFailed = errors.New("insert failed")

type failingCreateRepo struct {
	*MemoryRepository
}

func (r *failingCreateRepo) Create(ctx context.Context, s Subscription) (*Subscription, error) {
	return nil, errCreateFailed
}

func TestLedger_Purchase(t *testing.T) {
	ctx := context.Background()

	t.Run("Insufficient balance", func(t *testing.T) {
		l, repo, _ := newTestLedger()

		_, err := l.Purchase(ctx, 1, TypeSixMonths)
		assert.ErrorIs(t, err, ErrInsufficientBalance)

		subs, _ := repo.ListByUser(ctx, 1)
		assert.Empty(t, subs)
	})

	t.Run("Charges the plan price", func(t *testing.T) {
		l, _, wallets := newTestLedger()
		require.NoError(t, wallets.TopUp(ctx, 1, 500000))

		sub, err := l.Purchase(ctx, 1, TypeOneMonth)
		require.NoError(t, err)
		assert.Equal(t, TypeOneMonth, sub.Type)

		w, err := wallets.GetOrCreateWallet(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(200000), w.BalanceCents)
	})

	t.Run("Failed assignment is refunded", func(t *testing.T) {
		wallets := wallet.NewMemoryRepository()
		require.NoError(t, wallets.TopUp(ctx, 1, 500000))
		repo := &failingCreateRepo{MemoryRepository: NewMemoryRepository()}
		l := NewLedger(repo, wallets, clock.Fixed{T: testNow})

		_, err := l.Purchase(ctx, 1, TypeOneMonth)
		assert.ErrorIs(t, err, errCreateFailed)

		w, err := wallets.GetOrCreateWallet(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(500000), w.BalanceCents)

		txs, err := wallets.GetTransactions(ctx, 1, 10, 0)
		require.NoError(t, err)
		require.Len(t, txs, 3)
		assert.Equal(t, wallet.TxRefund, txs[0].Type)
		assert.Equal(t, wallet.TxSubscriptionPayment, txs[1].Type)
	})

	t.Run("Unknown plan", func(t *testing.T) {
		l, _, _ := newTestLedger()
		_, err := l.Purchase(ctx, 1, Type("weekly"))
		assert.ErrorIs(t, err, ErrUnknownType)
	})
}

func TestPlans(t *testing.T) {
	plans := Plans()
	require.Len(t, plans, 3)
	assert.Equal(t, 1, plans[0].Months)
	assert.Equal(t, 180, plans[1].Days)
	assert.Equal(t, "RUB", plans[2].Currency)
}

func TestCountedActive(t *testing.T) {
	future := testNow.Add(clock.Day)
	past := testNow.Add(-clock.Day)

	assert.True(t, (&Subscription{EndDate: future}).CountedActive(testNow))
	assert.False(t, (&Subscription{EndDate: past}).CountedActive(testNow))
	assert.False(t, (&Subscription{EndDate: future, IsFrozen: true}).CountedActive(testNow))
}
