package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestIsOverdue(t *testing.T) {
	ret := day("2025-06-02")

	assert.False(t, IsOverdue(time.Date(2025, 6, 2, 23, 59, 0, 0, time.UTC), ret), "same day is not overdue")
	assert.True(t, IsOverdue(time.Date(2025, 6, 3, 0, 0, 1, 0, time.UTC), ret))
	assert.False(t, IsOverdue(day("2025-06-01"), ret))
	// time of day on the return side is ignored
	assert.False(t, IsOverdue(day("2025-06-02"), time.Date(2025, 6, 2, 18, 0, 0, 0, time.UTC)))
}

func TestDateOnlyUsesOwnLocation(t *testing.T) {
	loc := time.FixedZone("BRT", -3*3600)
	late := time.Date(2025, 6, 2, 22, 30, 0, 0, loc) // already June 3rd in UTC
	assert.Equal(t, day("2025-06-02"), DateOnly(late))
}

func TestOrderKeyRoundTrip(t *testing.T) {
	key := OrderKey(42, time.Date(2025, 6, 1, 15, 0, 0, 0, time.UTC))
	assert.Equal(t, "42-20250601", key)

	id, date, err := ParseOrderKey(key)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)
	assert.Equal(t, day("2025-06-01"), date)

	for _, bad := range []string{"", "42", "x-20250601", "0-20250601", "42-2025-06-01"} {
		_, _, err := ParseOrderKey(bad)
		assert.Error(t, err, bad)
	}
}

func TestMovementForDelta(t *testing.T) {
	item := InventoryItem{ID: 3, Name: "Cadeira"}

	m, ok := MovementForDelta(item, 5)
	require.True(t, ok)
	assert.Equal(t, MovementIn, m.Type)
	assert.Equal(t, int64(5), m.Quantity)

	m, ok = MovementForDelta(item, -2)
	require.True(t, ok)
	assert.Equal(t, MovementOut, m.Type)
	assert.Equal(t, int64(2), m.Quantity)

	_, ok = MovementForDelta(item, 0)
	assert.False(t, ok)
}
