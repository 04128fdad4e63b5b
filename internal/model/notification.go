package model

import "time"

// Notification is created as a side effect of state transitions elsewhere
// (request accepted, session booked, new message) and is only ever
// mutated by marking it read. The row is the durable fallback when the
// recipient has no live connection.
type Notification struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"user_id"`
	Message   string    `json:"message"`
	Link      string    `json:"link,omitempty"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
