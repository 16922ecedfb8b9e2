package catalog

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapacityInput(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected int
	}{
		{"Number", `{"capacity": 12}`, 12},
		{"Numeric text", `{"capacity": " 15 "}`, 15},
		{"Empty text", `{"capacity": ""}`, DefaultCapacity},
		{"Not a number", `{"capacity": "twelve"}`, DefaultCapacity},
		{"Zero", `{"capacity": 0}`, DefaultCapacity},
		{"Negative", `{"capacity": "-3"}`, DefaultCapacity},
		{"Missing", `{}`, DefaultCapacity},
		{"Null", `{"capacity": null}`, DefaultCapacity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req ClassRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			assert.Equal(t, tt.expected, req.Capacity.Value())
		})
	}
}

func TestParseDay(t *testing.T) {
	d, ok := ParseDay(" Wednesday ")
	assert.True(t, ok)
	assert.Equal(t, time.Wednesday, d)

	_, ok = ParseDay("someday")
	assert.False(t, ok)

	assert.True(t, InRotation(time.Friday))
	assert.False(t, InRotation(time.Tuesday))
}
