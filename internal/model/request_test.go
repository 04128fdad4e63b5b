package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	// Only PENDING moves, and only to a terminal state.
	assert.True(t, CanTransition(RequestPending, RequestAccepted))
	assert.True(t, CanTransition(RequestPending, RequestRejected))
	assert.True(t, CanTransition(RequestPending, RequestCancelled))

	assert.False(t, CanTransition(RequestPending, RequestPending))
	assert.False(t, CanTransition(RequestAccepted, RequestRejected))
	assert.False(t, CanTransition(RequestRejected, RequestPending))
	assert.False(t, CanTransition(RequestCancelled, RequestAccepted))
	assert.False(t, CanTransition(RequestAccepted, RequestPending))
}

func TestValidRequestStatus(t *testing.T) {
	for _, s := range []string{RequestPending, RequestAccepted, RequestRejected, RequestCancelled} {
		assert.True(t, ValidRequestStatus(s), s)
	}
	assert.False(t, ValidRequestStatus("pending"))
	assert.False(t, ValidRequestStatus("DONE"))
	assert.False(t, ValidRequestStatus(""))
}

func TestAllowedActor(t *testing.T) {
	req := MentorshipRequest{MentorID: 10, MenteeID: 20}

	// Mentor decides accept/reject but cannot cancel.
	assert.True(t, req.AllowedActor(10, RoleMentor, RequestAccepted))
	assert.True(t, req.AllowedActor(10, RoleMentor, RequestRejected))
	assert.False(t, req.AllowedActor(10, RoleMentor, RequestCancelled))

	// Mentee may only cancel.
	assert.True(t, req.AllowedActor(20, RoleMentee, RequestCancelled))
	assert.False(t, req.AllowedActor(20, RoleMentee, RequestAccepted))
	assert.False(t, req.AllowedActor(20, RoleMentee, RequestRejected))

	// A third party may do nothing.
	assert.False(t, req.AllowedActor(30, RoleMentee, RequestCancelled))
	assert.False(t, req.AllowedActor(30, RoleMentor, RequestAccepted))

	// Admins pass every check.
	assert.True(t, req.AllowedActor(99, RoleAdmin, RequestAccepted))
	assert.True(t, req.AllowedActor(99, RoleAdmin, RequestCancelled))
}
