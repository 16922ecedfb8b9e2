package engine

import (
	"time"

	"formfitness/internal/booking"
	"formfitness/internal/catalog"
	"formfitness/internal/subscription"
	"formfitness/internal/user"
)

// ClassSlot is a class on a given day with its current occupancy. Status
// is only filled in on member views.
type ClassSlot struct {
	Class  catalog.Class  `json:"class"`
	Date   time.Time      `json:"date"`
	Booked int            `json:"booked"`
	Free   int            `json:"free"`
	Status booking.Status `json:"status,omitempty"`
}

type BookingView struct {
	booking.Booking
	ClassName string `json:"class_name"`
	StartTime string `json:"start_time"`
}

type MemberDashboard struct {
	User         user.User           `json:"user"`
	Today        time.Time           `json:"today"`
	Classes      []ClassSlot         `json:"classes"`
	Subscription subscription.Status `json:"subscription"`
	Bookings     []BookingView       `json:"bookings"`
}

type StaffDashboard struct {
	User    user.User   `json:"user"`
	Today   time.Time   `json:"today"`
	Classes []ClassSlot `json:"classes"`
	Members int         `json:"members"`
}

type AdminDashboard struct {
	StaffDashboard
	Statistics Statistics `json:"statistics"`
}

type ClassCount struct {
	ClassID   int    `json:"class_id"`
	ClassName string `json:"class_name"`
	Bookings  int    `json:"bookings"`
}

// Statistics are club totals. Each total counts distinct ids.
type Statistics struct {
	TotalUsers          int          `json:"total_users"`
	ActiveSubscriptions int          `json:"active_subscriptions"`
	TotalBookings       int          `json:"total_bookings"`
	TotalClasses        int          `json:"total_classes"`
	BookingsByClass     []ClassCount `json:"bookings_by_class"`
}

type RosterEntry struct {
	BookingID int       `json:"booking_id"`
	UserID    int       `json:"user_id"`
	Login     string    `json:"login"`
	Name      string    `json:"name"`
	BookedAt  time.Time `json:"booked_at"`
}

type Roster struct {
	Class   catalog.Class `json:"class"`
	Date    time.Time     `json:"date"`
	Entries []RosterEntry `json:"entries"`
}

type MemberSubscription struct {
	User    user.User                   `json:"user"`
	Status  subscription.Status         `json:"status"`
	History []subscription.Subscription `json:"history"`
}

// countDistinct counts items by id, ignoring repeats.
func countDistinct[T any](items []T, id func(T) int) int {
	seen := make(map[int]struct{}, len(items))
	for _, it := range items {
		seen[id(it)] = struct{}{}
	}
	return len(seen)
}
