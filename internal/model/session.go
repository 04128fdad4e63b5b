package model

import "time"

// Derived session statuses. Status is never persisted; it is computed
// from the session date and the wall clock on every read.
const (
	SessionUpcoming  = "UPCOMING"
	SessionCompleted = "COMPLETED"
)

// Session is a scheduled meeting between a mentor and a mentee, or a
// group "circle" when MenteeID is NULL. The booking reference is an
// opaque UUID returned to clients for correlation.
type Session struct {
	ID              uint64     // sessions.id
	MentorID        uint64     // sessions.mentor_id
	MenteeID        *uint64    // sessions.mentee_id (NULL for circles)
	Date            time.Time  // sessions.date (UTC)
	BookingRef      string     // sessions.booking_ref
	Topic           *string    // sessions.topic (circles only)
	MaxParticipants uint32     // sessions.max_participants (0 for 1:1)
	Rating          *uint8     // sessions.rating (mentee only, 1..5)
	Feedback        *string    // sessions.feedback
	Summary         *string    // sessions.summary (AI insights)
	Topics          *string    // sessions.topics (JSON array)
	ActionItems     *string    // sessions.action_items (JSON array)
	CreatedAt       time.Time  // sessions.created_at
	UpdatedAt       time.Time  // sessions.updated_at
}

// IsCircle reports whether the session is a group session.
func (s Session) IsCircle() bool { return s.MenteeID == nil }

// DeriveStatus computes the display status of a session purely from its
// date and the supplied clock reading. A session dated in the past is
// COMPLETED; everything else, boundary included, is UPCOMING.
func DeriveStatus(date, now time.Time) string {
	if date.Before(now) {
		return SessionCompleted
	}
	return SessionUpcoming
}

// CircleParticipant links a mentee to a group session.
type CircleParticipant struct {
	ID        uint64    // circle_participants.id
	SessionID uint64    // circle_participants.session_id
	UserID    uint64    // circle_participants.user_id
	CreatedAt time.Time // circle_participants.created_at
}
