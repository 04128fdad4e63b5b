package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeriveStatus(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, SessionCompleted, DeriveStatus(now.Add(-time.Minute), now))
	assert.Equal(t, SessionUpcoming, DeriveStatus(now.Add(time.Minute), now))

	// A session dated exactly now has not started in the past.
	assert.Equal(t, SessionUpcoming, DeriveStatus(now, now))
}

func TestDeriveStatusIsPure(t *testing.T) {
	date := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	// Same inputs, same answer; the clock is a parameter, not a global.
	before := date.Add(-time.Hour)
	after := date.Add(time.Hour)
	for i := 0; i < 3; i++ {
		assert.Equal(t, SessionUpcoming, DeriveStatus(date, before))
		assert.Equal(t, SessionCompleted, DeriveStatus(date, after))
	}
}

func TestIsCircle(t *testing.T) {
	mentee := uint64(7)
	assert.False(t, Session{MenteeID: &mentee}.IsCircle())
	assert.True(t, Session{MenteeID: nil}.IsCircle())
}
