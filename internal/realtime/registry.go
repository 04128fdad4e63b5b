// Package realtime tracks which users currently hold a live event-stream
// connection and fans notification events out to them. The registry is
// an interface so handlers and the notification dispatcher can be tested
// with a double instead of a real connection table.
package realtime

// Event is a single payload pushed over a user's live connection.
// Name matches the client-side event type ("newNotification",
// "newSession", "sessionUpdated"); Data is an already-serialisable value.
type Event struct {
	Name string `json:"event"`
	Data any    `json:"data"`
}

// Registry is the connection table contract. Register replaces any
// previous connection for the user. Unregister removes the entry only
// when ch is still the registered one, so a stream handler unwinding
// after being replaced cannot tear down its successor. Send is
// best-effort and reports whether the user had a live connection.
type Registry interface {
	Register(userID uint64, ch chan Event)
	Unregister(userID uint64, ch chan Event)
	Send(userID uint64, ev Event) bool
}
