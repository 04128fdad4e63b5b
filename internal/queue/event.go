// Package queue defines message payloads exchanged over the message
// broker and the background consumer that records them.
package queue

// SessionQueueName is the durable queue carrying booking audit events.
const SessionQueueName = "session.booked"

// SessionBookedEvent is published whenever a session is successfully
// booked (1:1 or circle join). It carries enough detail for downstream
// consumers to log or trigger analytics without querying the database.
type SessionBookedEvent struct {
	SessionID  uint64 `json:"session_id"`
	BookingRef string `json:"booking_ref"`
	MentorID   uint64 `json:"mentor_id"`
	MenteeID   uint64 `json:"mentee_id"`
	Kind       string `json:"kind"` // ONE_ON_ONE | CIRCLE
	Topic      string `json:"topic,omitempty"`
	Date       string `json:"date"`
	BookedAt   string `json:"booked_at"`
}
