package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateOf_UsesLocalCalendarDay(t *testing.T) {
	moscow := time.FixedZone("MSK", 3*60*60)
	// 23:30 UTC on the 14th is already the 15th in Moscow.
	late := time.Date(2026, 10, 14, 23, 30, 0, 0, time.UTC).In(moscow)

	got := DateOf(late)

	assert.Equal(t, time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC), got)
}

func TestToday(t *testing.T) {
	c := Fixed{T: time.Date(2026, 10, 15, 18, 45, 12, 0, time.UTC)}
	assert.Equal(t, time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC), Today(c))
}

func TestParseDate(t *testing.T) {
	c := Fixed{T: time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)}

	d, err := ParseDate(c, "")
	require.NoError(t, err)
	assert.Equal(t, Today(c), d)

	d, err = ParseDate(c, "2026-10-16")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate(c, "16.10.2026")
	assert.Error(t, err)
}

func TestSystem_UsesLocation(t *testing.T) {
	loc := time.FixedZone("X", 5*60*60)
	assert.Equal(t, loc, NewSystem(loc).Now().Location())
	assert.Equal(t, time.UTC, NewSystem(nil).Now().Location())
}
