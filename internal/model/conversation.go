package model

import "time"

// Conversation kinds. A MATCH conversation is opened when a mentorship
// request is accepted; an ASSISTANT conversation is opened lazily on the
// first AI chat turn and has no second human participant.
const (
	ConversationMatch     = "MATCH"
	ConversationAssistant = "ASSISTANT"
)

// Conversation groups an ordered sequence of messages. For MATCH
// conversations exactly one row exists per (mentor, mentee) pair, ever.
type Conversation struct {
	ID        uint64    `json:"id"`
	PublicID  string    `json:"public_id"`
	Kind      string    `json:"kind"`
	MentorID  uint64    `json:"mentor_id"` // owner for ASSISTANT conversations
	MenteeID  *uint64   `json:"mentee_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Senders recorded on assistant messages in addition to user ids.
const (
	SenderUser      = "USER"
	SenderAssistant = "ASSISTANT"
)

// Message is a single turn inside a conversation.
type Message struct {
	ID             uint64    `json:"id"`
	ConversationID uint64    `json:"conversation_id"`
	SenderID       *uint64   `json:"sender_id,omitempty"` // nil for assistant turns
	SenderKind     string    `json:"sender_kind"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

// Participant reports whether the given user belongs to the conversation.
func (c Conversation) Participant(userID uint64) bool {
	if c.MentorID == userID {
		return true
	}
	return c.MenteeID != nil && *c.MenteeID == userID
}
