package realtime

import "sync"

// Hub is the in-process Registry implementation backing the SSE
// endpoint. One buffered channel per user; a second connection from the
// same user replaces the first. Send never blocks: when the subscriber's
// buffer is full the event is dropped, since the notification row in the
// database is the durable copy.
type Hub struct {
	mu    sync.RWMutex
	conns map[uint64]chan Event
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{conns: make(map[uint64]chan Event)}
}

// Register installs ch as the user's live connection, closing any
// channel it replaces so the previous stream handler unwinds. The close
// happens under the write lock; Send holds the read lock for the whole
// delivery, so a channel is never closed with a send in flight.
func (h *Hub) Register(userID uint64, ch chan Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if old, ok := h.conns[userID]; ok {
		close(old)
	}
	h.conns[userID] = ch
}

// Unregister removes and closes the user's connection, but only when ch
// is still the registered one. A handler whose channel was already
// replaced is a no-op here.
func (h *Hub) Unregister(userID uint64, ch chan Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if cur, ok := h.conns[userID]; ok && cur == ch {
		delete(h.conns, userID)
		close(cur)
	}
}

// Send delivers ev to the user's connection when one exists. It returns
// false when the user is offline or the buffer is full. The read lock
// is held across the non-blocking send so a concurrent Register or
// Unregister cannot close the channel underneath it.
func (h *Hub) Send(userID uint64, ev Event) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	ch, ok := h.conns[userID]
	if !ok {
		return false
	}
	select {
	case ch <- ev:
		return true
	default:
		return false
	}
}
