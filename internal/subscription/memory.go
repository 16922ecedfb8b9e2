package subscription

import (
	"context"
	"sort"
	"sync"
	"time"
)

type MemoryRepository struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]Subscription
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{nextID: 1, subs: make(map[int]Subscription)}
}

func (r *MemoryRepository) Create(ctx context.Context, s Subscription) (*Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s.ID = r.nextID
	r.nextID++
	s.IsFrozen = false
	s.FreezeStartDate = nil
	s.FreezeEndDate = nil
	s.FreezeUsedThisMonth = false
	s.CreatedAt = time.Now()
	r.subs[s.ID] = s
	return &s, nil
}

// byLatestEnd orders by end date, newest first.
func byLatestEnd(subs []Subscription) {
	sort.Slice(subs, func(i, j int) bool {
		if !subs[i].EndDate.Equal(subs[j].EndDate) {
			return subs[i].EndDate.After(subs[j].EndDate)
		}
		return subs[i].ID > subs[j].ID
	})
}

func (r *MemoryRepository) ListByUser(ctx context.Context, userID int) ([]Subscription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []Subscription{}
	for _, s := range r.subs {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	byLatestEnd(out)
	return out, nil
}

func (r *MemoryRepository) GetActive(ctx context.Context, userID int) (*Subscription, error) {
	subs, _ := r.ListByUser(ctx, userID)
	if len(subs) == 0 {
		return nil, ErrNoActiveSubscription
	}
	return &subs[0], nil
}

func (r *MemoryRepository) ListAll(ctx context.Context) ([]Subscription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Subscription, 0, len(r.subs))
	for _, s := range r.subs {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryRepository) Freeze(ctx context.Context, id int, start, end time.Time) (*Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.subs[id]
	if !ok || s.IsFrozen || s.FreezeUsedThisMonth {
		return nil, ErrFreezeRejected
	}

	s.IsFrozen = true
	s.FreezeStartDate = &start
	s.FreezeEndDate = &end
	s.FreezeUsedThisMonth = true
	r.subs[id] = s
	return &s, nil
}

func (r *MemoryRepository) DeleteByUser(ctx context.Context, userID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, s := range r.subs {
		if s.UserID == userID {
			delete(r.subs, id)
		}
	}
	return nil
}
