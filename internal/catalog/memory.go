package catalog

import (
	"context"
	"sort"
	"sync"
	"time"
)

type MemoryRepository struct {
	mu      sync.RWMutex
	nextID  int
	classes map[int]Class
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{nextID: 1, classes: make(map[int]Class)}
}

func sortClasses(cs []Class) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].DayOfWeek != cs[j].DayOfWeek {
			return cs[i].DayOfWeek < cs[j].DayOfWeek
		}
		if cs[i].StartTime != cs[j].StartTime {
			return cs[i].StartTime < cs[j].StartTime
		}
		return cs[i].ID < cs[j].ID
	})
}

func (r *MemoryRepository) List(ctx context.Context) ([]Class, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Class, 0, len(r.classes))
	for _, c := range r.classes {
		out = append(out, c)
	}
	sortClasses(out)
	return out, nil
}

func (r *MemoryRepository) ListByDay(ctx context.Context, day time.Weekday) ([]Class, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []Class{}
	for _, c := range r.classes {
		if c.DayOfWeek == day {
			out = append(out, c)
		}
	}
	sortClasses(out)
	return out, nil
}

func (r *MemoryRepository) Get(ctx context.Context, id int) (*Class, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.classes[id]
	if !ok {
		return nil, ErrClassNotFound
	}
	return &c, nil
}

func (r *MemoryRepository) Create(ctx context.Context, c Class) (*Class, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c.ID = r.nextID
	r.nextID++
	c.CreatedAt = time.Now()
	r.classes[c.ID] = c
	return &c, nil
}

func (r *MemoryRepository) Update(ctx context.Context, c Class) (*Class, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.classes[c.ID]
	if !ok {
		return nil, ErrClassNotFound
	}
	c.CreatedAt = existing.CreatedAt
	r.classes[c.ID] = c
	return &c, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.classes[id]; !ok {
		return ErrClassNotFound
	}
	delete(r.classes, id)
	return nil
}

func (r *MemoryRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.classes), nil
}
