package engine

import (
	"context"
	"strconv"
	"time"

	"formfitness/internal/booking"
	"formfitness/internal/catalog"
	"formfitness/internal/clock"
	"formfitness/internal/events"
	"formfitness/internal/subscription"
)

func (e *Engine) today() time.Time {
	return clock.Today(e.clock)
}

// todaysSlots lists the classes running today. A positive userID adds that
// member's status to every slot.
func (e *Engine) todaysSlots(ctx context.Context, userID int) ([]ClassSlot, error) {
	today := e.today()
	classes, err := e.catalog.ListByDay(ctx, today.Weekday())
	if err != nil {
		return nil, err
	}

	slots := make([]ClassSlot, 0, len(classes))
	for _, c := range classes {
		n, err := e.bookings.Count(ctx, c.ID, today)
		if err != nil {
			return nil, err
		}
		slot := ClassSlot{Class: c, Date: today, Booked: n, Free: max(c.Capacity-n, 0)}
		if userID > 0 {
			if slot.Status, err = e.bookings.StatusFor(ctx, c.ID, today, userID); err != nil {
				return nil, err
			}
		}
		slots = append(slots, slot)
	}
	return slots, nil
}

func (e *Engine) bookingViews(ctx context.Context, bookings []booking.Booking) ([]BookingView, error) {
	classes, err := e.catalog.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[int]catalog.Class, len(classes))
	for _, c := range classes {
		byID[c.ID] = c
	}

	views := make([]BookingView, 0, len(bookings))
	for _, b := range bookings {
		c := byID[b.ClassID]
		views = append(views, BookingView{Booking: b, ClassName: c.Name, StartTime: c.StartTime})
	}
	return views, nil
}

func (e *Engine) publish(ctx context.Context, ev events.Event) {
	events.Emit(ctx, e.events, ev)
}

func bookingEvent(t events.Type, userID int, c *catalog.Class, day time.Time) events.Event {
	ev := events.New(t)
	ev.UserID = userID
	ev.ClassID = c.ID
	ev.Date = day.Format(time.DateOnly)
	ev.Data = map[string]string{"class_name": c.Name, "start_time": c.StartTime}
	return ev
}

func classEvent(t events.Type, c *catalog.Class) events.Event {
	ev := events.New(t)
	ev.ClassID = c.ID
	ev.Data = map[string]string{
		"name":       c.Name,
		"day":        c.DayOfWeek.String(),
		"start_time": c.StartTime,
		"capacity":   strconv.Itoa(c.Capacity),
	}
	return ev
}

func subscriptionEvent(t events.Type, sub *subscription.Subscription) events.Event {
	ev := events.New(t)
	ev.UserID = sub.UserID
	ev.Data = map[string]string{
		"subscription_id": strconv.Itoa(sub.ID),
		"type":            string(sub.Type),
		"end_date":        sub.EndDate.Format(time.DateOnly),
	}
	if sub.FreezeEndDate != nil {
		ev.Data["freeze_end"] = sub.FreezeEndDate.Format(time.DateOnly)
	}
	return ev
}
