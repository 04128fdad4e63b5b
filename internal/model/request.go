package model

import "time"

// Mentorship request statuses. PENDING is the only non-terminal state;
// the three outcomes are terminal and a request is never reopened.
const (
	RequestPending   = "PENDING"
	RequestAccepted  = "ACCEPTED"
	RequestRejected  = "REJECTED"
	RequestCancelled = "CANCELLED"
)

// MentorshipRequest is the proposal from a mentee to a mentor to begin a
// mentoring relationship. At most one PENDING request may exist per
// (mentor, mentee) pair; the database enforces this with a unique key
// over (mentor_id, mentee_id, active) where `active` is 1 while the
// request is PENDING and NULL once it reaches a terminal state.
type MentorshipRequest struct {
	ID        uint64    // mentorship_requests.id
	MentorID  uint64    // mentorship_requests.mentor_id
	MenteeID  uint64    // mentorship_requests.mentee_id
	Status    string    // mentorship_requests.status
	Message   *string   // mentorship_requests.message (nullable)
	CreatedAt time.Time // mentorship_requests.created_at
	UpdatedAt time.Time // mentorship_requests.updated_at
}

// ValidRequestStatus reports whether s names a known request status.
func ValidRequestStatus(s string) bool {
	switch s {
	case RequestPending, RequestAccepted, RequestRejected, RequestCancelled:
		return true
	}
	return false
}

// TerminalRequestStatus reports whether s is one of the three outcomes.
func TerminalRequestStatus(s string) bool {
	return s == RequestAccepted || s == RequestRejected || s == RequestCancelled
}

// CanTransition reports whether a request may move from one status to
// another. Only PENDING -> terminal moves are legal.
func CanTransition(from, to string) bool {
	return from == RequestPending && TerminalRequestStatus(to)
}

// AllowedActor reports whether a user may request the given transition on
// a request: the mentor decides ACCEPTED/REJECTED, the mentee may
// CANCEL, and admins may do either. Callers still check the current
// status separately.
func (r MentorshipRequest) AllowedActor(userID uint64, role, newStatus string) bool {
	if role == RoleAdmin {
		return true
	}
	switch newStatus {
	case RequestAccepted, RequestRejected:
		return userID == r.MentorID
	case RequestCancelled:
		return userID == r.MenteeID
	}
	return false
}
