package subscription

import (
	"time"

	"formfitness/internal/clock"
)

type Type string

const (
	TypeOneMonth     Type = "one_month"
	TypeSixMonths    Type = "six_months"
	TypeTwelveMonths Type = "twelve_months"
)

const (
	DaysPerMonth   = 30
	FreezeDuration = 7 * clock.Day
)

func (t Type) Months() int {
	switch t {
	case TypeOneMonth:
		return 1
	case TypeSixMonths:
		return 6
	case TypeTwelveMonths:
		return 12
	}
	return 0
}

func (t Type) Valid() bool { return t.Months() > 0 }

// Duration is months × 30 days.
func (t Type) Duration() time.Duration {
	return time.Duration(t.Months()*DaysPerMonth) * clock.Day
}

type Plan struct {
	Type       Type   `json:"type"`
	Name       string `json:"name"`
	Months     int    `json:"months"`
	Days       int    `json:"days"`
	PriceCents int64  `json:"price_cents"`
	Currency   string `json:"currency"`
}

var plans = []Plan{
	{Type: TypeOneMonth, Name: "1 month", PriceCents: 300000},
	{Type: TypeSixMonths, Name: "6 months", PriceCents: 1500000},
	{Type: TypeTwelveMonths, Name: "12 months", PriceCents: 2700000},
}

func Plans() []Plan {
	out := make([]Plan, len(plans))
	for i, p := range plans {
		p.Months = p.Type.Months()
		p.Days = p.Months * DaysPerMonth
		p.Currency = "RUB"
		out[i] = p
	}
	return out
}

func FindPlan(t Type) (Plan, bool) {
	for _, p := range Plans() {
		if p.Type == t {
			return p, true
		}
	}
	return Plan{}, false
}

type Subscription struct {
	ID                  int        `db:"id" json:"id"`
	UserID              int        `db:"user_id" json:"user_id"`
	Type                Type       `db:"type" json:"type"`
	StartDate           time.Time  `db:"start_date" json:"start_date"`
	EndDate             time.Time  `db:"end_date" json:"end_date"`
	IsFrozen            bool       `db:"is_frozen" json:"is_frozen"`
	FreezeStartDate     *time.Time `db:"freeze_start_date" json:"freeze_start_date,omitempty"`
	FreezeEndDate       *time.Time `db:"freeze_end_date" json:"freeze_end_date,omitempty"`
	FreezeUsedThisMonth bool       `db:"freeze_used_this_month" json:"freeze_used_this_month"`
	CreatedAt           time.Time  `db:"created_at" json:"created_at"`
}

// EffectiveEnd is the freeze end while the frozen flag is set, else the end date.
func (s *Subscription) EffectiveEnd() time.Time {
	if s.IsFrozen && s.FreezeEndDate != nil {
		return *s.FreezeEndDate
	}
	return s.EndDate
}

// RemainingDays counts whole days left until EffectiveEnd, never below zero.
func (s *Subscription) RemainingDays(now time.Time) int {
	left := s.EffectiveEnd().Sub(now)
	if left <= 0 {
		return 0
	}
	return int(left / clock.Day)
}

// CountedActive reports whether the subscription counts as active in statistics.
func (s *Subscription) CountedActive(now time.Time) bool {
	return s.EndDate.After(now) && !s.IsFrozen
}

type AssignRequest struct {
	Type Type `json:"type" validate:"required,oneof=one_month six_months twelve_months" example:"one_month"`
}

type Status struct {
	Subscription  *Subscription `json:"subscription"`
	RemainingDays int           `json:"remaining_days"`
	CanFreeze     bool          `json:"can_freeze"`
}
