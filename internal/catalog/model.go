package catalog

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

const DefaultCapacity = 8

// Rotation is the fixed set of weekdays classes run on.
var Rotation = []time.Weekday{time.Monday, time.Wednesday, time.Friday}

func InRotation(d time.Weekday) bool {
	for _, r := range Rotation {
		if r == d {
			return true
		}
	}
	return false
}

// Class is a recurring group class. DayOfWeek follows time.Weekday (0 = Sunday).
type Class struct {
	ID          int          `db:"id" json:"id"`
	Name        string       `db:"name" json:"name"`
	Description string       `db:"description" json:"description"`
	DayOfWeek   time.Weekday `db:"day_of_week" json:"day_of_week" swaggertype:"integer"`
	StartTime   string       `db:"start_time" json:"start_time" example:"18:00"`
	Capacity    int          `db:"capacity" json:"capacity"`
	TrainerName *string      `db:"trainer_name" json:"trainer_name,omitempty"`
	CreatedAt   time.Time    `db:"created_at" json:"created_at"`
}

// CapacityInput accepts a JSON number or string. Anything that is not a
// positive integer falls back to DefaultCapacity.
type CapacityInput string

func (c *CapacityInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*c = CapacityInput(s)
		return nil
	}
	*c = CapacityInput(data)
	return nil
}

func (c CapacityInput) Value() int {
	n, err := strconv.Atoi(strings.TrimSpace(string(c)))
	if err != nil || n <= 0 {
		return DefaultCapacity
	}
	return n
}

type ClassRequest struct {
	Name        string        `json:"name" validate:"required,max=255"`
	Description string        `json:"description" validate:"max=2000"`
	Day         string        `json:"day" validate:"required,oneof=monday wednesday friday" example:"monday"`
	StartTime   string        `json:"start_time" validate:"required,datetime=15:04" example:"10:00"`
	Capacity    CapacityInput `json:"capacity" swaggertype:"string" example:"8"`
	TrainerName *string       `json:"trainer_name,omitempty" validate:"omitempty,max=255"`
}

var dayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseDay accepts an English weekday name in any case.
func ParseDay(s string) (time.Weekday, bool) {
	d, ok := dayNames[strings.ToLower(strings.TrimSpace(s))]
	return d, ok
}
