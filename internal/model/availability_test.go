package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	m, err := ParseClock("09:30")
	require.NoError(t, err)
	assert.Equal(t, uint16(9*60+30), m)

	m, err = ParseClock("00:00")
	require.NoError(t, err)
	assert.Equal(t, uint16(0), m)

	m, err = ParseClock("23:59")
	require.NoError(t, err)
	assert.Equal(t, uint16(23*60+59), m)

	for _, bad := range []string{"24:00", "12:60", "noon", "", "-1:30", "09:30xyz", " 09:30", "09:30 "} {
		_, err := ParseClock(bad)
		assert.ErrorIs(t, err, ErrBadClock, bad)
	}
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "09:30", FormatClock(9*60+30))
	assert.Equal(t, "00:00", FormatClock(0))
	assert.Equal(t, "23:59", FormatClock(23*60+59))
}

func mondayWindow(start, end uint16) AvailabilityWindow {
	return AvailabilityWindow{Weekday: 1, StartMinute: start, EndMinute: end}
}

func TestSlotWithinWindows(t *testing.T) {
	// Monday 09:00-12:00 UTC.
	windows := []AvailabilityWindow{mondayWindow(9*60, 12*60)}

	monday := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)
	require.Equal(t, time.Monday, monday.Weekday())

	// Window start and the last slot that still fits are both in.
	assert.True(t, SlotWithinWindows(monday.Add(9*time.Hour), windows, 60))
	assert.True(t, SlotWithinWindows(monday.Add(11*time.Hour), windows, 60))

	// A slot ending past the window or starting before it is out.
	assert.False(t, SlotWithinWindows(monday.Add(11*time.Hour+30*time.Minute), windows, 60))
	assert.False(t, SlotWithinWindows(monday.Add(8*time.Hour), windows, 60))

	// Wrong weekday.
	tuesday := monday.AddDate(0, 0, 1)
	assert.False(t, SlotWithinWindows(tuesday.Add(9*time.Hour), windows, 60))
}

func TestSlotWithinWindowsRejectsOffGrid(t *testing.T) {
	// Monday 09:00-17:00 with hourly slots. 09:30 fits inside the window
	// but is never an advertised slot, and booking it would overlap the
	// 09:00-10:00 session.
	windows := []AvailabilityWindow{mondayWindow(9*60, 17*60)}
	monday := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)
	require.Equal(t, time.Monday, monday.Weekday())

	offGrid := monday.Add(9*time.Hour + 30*time.Minute)
	assert.False(t, SlotWithinWindows(offGrid, windows, 60))
	assert.NotContains(t, ExpandOpenSlots(windows, nil, monday, 1, 60), offGrid)

	// Every start ExpandOpenSlots advertises is accepted.
	for _, s := range ExpandOpenSlots(windows, nil, monday, 1, 60) {
		assert.True(t, SlotWithinWindows(s, windows, 60), s)
	}

	// A window starting off the hour carries its own grid.
	shifted := []AvailabilityWindow{mondayWindow(9*60+30, 12*60+30)}
	assert.True(t, SlotWithinWindows(monday.Add(10*time.Hour+30*time.Minute), shifted, 60))
	assert.False(t, SlotWithinWindows(monday.Add(10*time.Hour), shifted, 60))

	assert.False(t, SlotWithinWindows(monday.Add(9*time.Hour), windows, 0))
}

func TestExpandOpenSlots(t *testing.T) {
	// Monday 09:00-11:00 gives two hourly slots per week.
	windows := []AvailabilityWindow{mondayWindow(9*60, 11*60)}
	from := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC) // a Sunday

	slots := ExpandOpenSlots(windows, nil, from, 7, 60)
	require.Len(t, slots, 2)
	assert.Equal(t, time.Date(2026, 3, 16, 9, 0, 0, 0, time.UTC), slots[0])
	assert.Equal(t, time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC), slots[1])
}

func TestExpandOpenSlotsSubtractsTaken(t *testing.T) {
	windows := []AvailabilityWindow{mondayWindow(9*60, 11*60)}
	from := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	taken := []time.Time{time.Date(2026, 3, 16, 9, 0, 0, 0, time.UTC)}

	slots := ExpandOpenSlots(windows, taken, from, 7, 60)
	require.Len(t, slots, 1)
	assert.Equal(t, time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC), slots[0])
}

func TestExpandOpenSlotsSkipsPast(t *testing.T) {
	windows := []AvailabilityWindow{mondayWindow(9*60, 11*60)}
	// Projecting from Monday 09:30 drops the 09:00 slot.
	from := time.Date(2026, 3, 16, 9, 30, 0, 0, time.UTC)

	slots := ExpandOpenSlots(windows, nil, from, 1, 60)
	require.Len(t, slots, 1)
	assert.Equal(t, time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC), slots[0])
}

func TestExpandOpenSlotsDegenerate(t *testing.T) {
	windows := []AvailabilityWindow{mondayWindow(9*60, 11*60)}
	from := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	assert.Nil(t, ExpandOpenSlots(windows, nil, from, 0, 60))
	assert.Nil(t, ExpandOpenSlots(windows, nil, from, 7, 0))
	assert.Empty(t, ExpandOpenSlots(nil, nil, from, 7, 60))
}
