package realtime

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubSendToRegistered(t *testing.T) {
	h := NewHub()
	ch := make(chan Event, 1)
	h.Register(1, ch)

	ok := h.Send(1, Event{Name: "newNotification", Data: "hi"})
	require.True(t, ok)

	ev := <-ch
	assert.Equal(t, "newNotification", ev.Name)
	assert.Equal(t, "hi", ev.Data)
}

func TestHubSendOffline(t *testing.T) {
	h := NewHub()
	assert.False(t, h.Send(42, Event{Name: "x"}))
}

func TestHubSendDropsOnFullBuffer(t *testing.T) {
	h := NewHub()
	ch := make(chan Event, 1)
	h.Register(1, ch)

	require.True(t, h.Send(1, Event{Name: "a"}))
	// Buffer full now; the second send must not block.
	assert.False(t, h.Send(1, Event{Name: "b"}))
}

func TestHubRegisterReplacesConnection(t *testing.T) {
	h := NewHub()
	first := make(chan Event, 1)
	second := make(chan Event, 1)

	h.Register(1, first)
	h.Register(1, second)

	// The replaced channel is closed so its reader unwinds.
	_, open := <-first
	assert.False(t, open)

	require.True(t, h.Send(1, Event{Name: "x"}))
	ev := <-second
	assert.Equal(t, "x", ev.Name)
}

func TestHubUnregisterOnlyOwnChannel(t *testing.T) {
	h := NewHub()
	first := make(chan Event, 1)
	second := make(chan Event, 1)

	h.Register(1, first)
	h.Register(1, second)

	// The replaced handler unwinding must not tear down the new stream.
	h.Unregister(1, first)
	assert.True(t, h.Send(1, Event{Name: "still-here"}))

	h.Unregister(1, second)
	assert.False(t, h.Send(1, Event{Name: "gone"}))
	_, open := <-second
	assert.False(t, open)
}

func TestHubSendRacesDisconnect(t *testing.T) {
	// Pushes hammer a user while their stream connects and disconnects.
	// A send landing on a just-closed channel would panic here.
	h := NewHub()
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				h.Send(1, Event{Name: "newNotification"})
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 1000; j++ {
			ch := make(chan Event, 1)
			h.Register(1, ch)
			h.Unregister(1, ch)
		}
	}()

	wg.Wait()
	assert.False(t, h.Send(1, Event{Name: "after"}))
}
