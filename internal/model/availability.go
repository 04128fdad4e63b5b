package model

import (
	"errors"
	"fmt"
	"time"
)

// AvailabilityWindow is a weekly recurring block in which a mentor
// accepts bookings. Times are minutes since midnight UTC so that window
// arithmetic needs no timezone handling.
type AvailabilityWindow struct {
	ID          uint64    // availability_windows.id
	MentorID    uint64    // availability_windows.mentor_id
	Weekday     uint8     // availability_windows.weekday (0=Sunday .. 6=Saturday)
	StartMinute uint16    // availability_windows.start_min
	EndMinute   uint16    // availability_windows.end_min (exclusive)
	CreatedAt   time.Time // availability_windows.created_at
}

// ErrBadClock is returned by ParseClock for values outside HH:MM form.
var ErrBadClock = errors.New("clock value must be HH:MM")

// ParseClock converts an "HH:MM" string into minutes since midnight.
// The whole string must be the clock value; trailing text is an error.
func ParseClock(s string) (uint16, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, ErrBadClock
	}
	return uint16(t.Hour()*60 + t.Minute()), nil
}

// FormatClock renders minutes since midnight back into "HH:MM".
func FormatClock(min uint16) string {
	return fmt.Sprintf("%02d:%02d", min/60, min%60)
}

// SlotWithinWindows reports whether t is a bookable slot start: it must
// lie on the slot grid of a declared window (window start plus a whole
// number of slots) and the slot must end inside that window. These are
// exactly the starts ExpandOpenSlots advertises, so an off-grid time
// like 09:30 against a 09:00 window with 60-minute slots is rejected
// even though it fits inside the window. t is interpreted in UTC.
func SlotWithinWindows(t time.Time, windows []AvailabilityWindow, slotMinutes int) bool {
	if slotMinutes <= 0 {
		return false
	}
	t = t.UTC()
	day := uint8(t.Weekday())
	start := t.Hour()*60 + t.Minute()
	end := start + slotMinutes
	for _, w := range windows {
		if w.Weekday != day {
			continue
		}
		if start < int(w.StartMinute) || end > int(w.EndMinute) {
			continue
		}
		if (start-int(w.StartMinute))%slotMinutes == 0 {
			return true
		}
	}
	return false
}

// ExpandOpenSlots projects the weekly windows forward from `from` for
// `horizonDays` days and returns the start time of every slot of
// slotMinutes that is not already taken. Taken entries are compared by
// instant. Slots that have already started are skipped. Results are in
// chronological order.
func ExpandOpenSlots(windows []AvailabilityWindow, taken []time.Time, from time.Time, horizonDays, slotMinutes int) []time.Time {
	if slotMinutes <= 0 || horizonDays <= 0 {
		return nil
	}
	booked := make(map[int64]struct{}, len(taken))
	for _, t := range taken {
		booked[t.UTC().Unix()] = struct{}{}
	}
	from = from.UTC()
	midnight := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	var out []time.Time
	for d := 0; d < horizonDays; d++ {
		day := midnight.AddDate(0, 0, d)
		wd := uint8(day.Weekday())
		for _, w := range windows {
			if w.Weekday != wd {
				continue
			}
			for m := int(w.StartMinute); m+slotMinutes <= int(w.EndMinute); m += slotMinutes {
				slot := day.Add(time.Duration(m) * time.Minute)
				if slot.Before(from) {
					continue
				}
				if _, ok := booked[slot.Unix()]; ok {
					continue
				}
				out = append(out, slot)
			}
		}
	}
	return out
}
