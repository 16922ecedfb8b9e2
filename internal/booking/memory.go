package booking

import (
	"context"
	"sort"
	"sync"
	"time"
)

type bookingKey struct {
	userID  int
	classID int
	date    time.Time
}

// MemoryRepository holds bookings in process. One mutex covers the
// check-and-insert in Create so capacity can never be exceeded.
type MemoryRepository struct {
	mu       sync.Mutex
	nextID   int
	bookings map[bookingKey]Booking
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{nextID: 1, bookings: make(map[bookingKey]Booking)}
}

func (r *MemoryRepository) countLocked(classID int, date time.Time) int {
	n := 0
	for k := range r.bookings {
		if k.classID == classID && k.date.Equal(date) {
			n++
		}
	}
	return n
}

func (r *MemoryRepository) Count(ctx context.Context, classID int, date time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.countLocked(classID, date), nil
}

func (r *MemoryRepository) Exists(ctx context.Context, userID, classID int, date time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.bookings[bookingKey{userID, classID, date}]
	return ok, nil
}

func (r *MemoryRepository) Create(ctx context.Context, b Booking, capacity int) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := bookingKey{b.UserID, b.ClassID, b.Date}
	if _, ok := r.bookings[key]; ok {
		return nil, ErrAlreadyBooked
	}
	if r.countLocked(b.ClassID, b.Date) >= capacity {
		return nil, ErrClassFull
	}

	b.ID = r.nextID
	r.nextID++
	b.CreatedAt = time.Now()
	r.bookings[key] = b
	return &b, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, userID, classID int, date time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := bookingKey{userID, classID, date}
	if _, ok := r.bookings[key]; !ok {
		return false, nil
	}
	delete(r.bookings, key)
	return true, nil
}

func (r *MemoryRepository) filter(keep func(Booking) bool) []Booking {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []Booking{}
	for _, b := range r.bookings {
		if keep(b) {
			out = append(out, b)
		}
	}
	return out
}

func (r *MemoryRepository) ListByUser(ctx context.Context, userID int) ([]Booking, error) {
	out := r.filter(func(b Booking) bool { return b.UserID == userID })
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *MemoryRepository) ListUpcomingByUser(ctx context.Context, userID int, from time.Time) ([]Booking, error) {
	out := r.filter(func(b Booking) bool { return b.UserID == userID && !b.Date.Before(from) })
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *MemoryRepository) ListAll(ctx context.Context) ([]Booking, error) {
	out := r.filter(func(Booking) bool { return true })
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryRepository) ListForClass(ctx context.Context, classID int, date time.Time) ([]Booking, error) {
	out := r.filter(func(b Booking) bool { return b.ClassID == classID && b.Date.Equal(date) })
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryRepository) CountByClass(ctx context.Context, from, to time.Time) (map[int]int, error) {
	out := make(map[int]int)
	for _, b := range r.filter(func(b Booking) bool { return !b.Date.Before(from) && !b.Date.After(to) }) {
		out[b.ClassID]++
	}
	return out, nil
}

func (r *MemoryRepository) DeleteByUser(ctx context.Context, userID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for k := range r.bookings {
		if k.userID == userID {
			delete(r.bookings, k)
		}
	}
	return nil
}

func (r *MemoryRepository) DeleteByClass(ctx context.Context, classID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for k := range r.bookings {
		if k.classID == classID {
			delete(r.bookings, k)
		}
	}
	return nil
}
