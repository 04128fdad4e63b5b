package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/iliyamo/mentor-match/internal/model"
)

// ConversationRepo provides access to the `conversations` and `messages`
// tables. MATCH conversations are unique per (mentor, mentee) pair; the
// table enforces this with a unique key so EnsureMatch stays idempotent
// under concurrent accepts.
type ConversationRepo struct{ DB *sql.DB }

func NewConversationRepo(db *sql.DB) *ConversationRepo { return &ConversationRepo{DB: db} }

const conversationCols = "id,public_id,kind,mentor_id,mentee_id,created_at"

func scanConversation(row interface{ Scan(...any) error }) (model.Conversation, error) {
	var c model.Conversation
	var mentee sql.NullInt64
	err := row.Scan(&c.ID, &c.PublicID, &c.Kind, &c.MentorID, &mentee, &c.CreatedAt)
	if mentee.Valid {
		v := uint64(mentee.Int64)
		c.MenteeID = &v
	}
	return c, err
}

// EnsureMatch returns the MATCH conversation for the pair, creating it
// when absent. A concurrent create loses the race on the unique key and
// falls through to the fetch, so exactly one conversation ever exists.
func (r *ConversationRepo) EnsureMatch(ctx context.Context, mentorID, menteeID uint64) (model.Conversation, error) {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO conversations (public_id, kind, mentor_id, mentee_id) VALUES (?,?,?,?)",
		uuid.NewString(), model.ConversationMatch, mentorID, menteeID)
	if err != nil && !strings.Contains(strings.ToLower(err.Error()), "1062") {
		return model.Conversation{}, err
	}
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+conversationCols+" FROM conversations WHERE kind=? AND mentor_id=? AND mentee_id=? LIMIT 1",
		model.ConversationMatch, mentorID, menteeID)
	return scanConversation(row)
}

// CreateAssistant opens a fresh assistant conversation owned by the user.
func (r *ConversationRepo) CreateAssistant(ctx context.Context, userID uint64) (model.Conversation, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO conversations (public_id, kind, mentor_id, mentee_id) VALUES (?,?,?,NULL)",
		uuid.NewString(), model.ConversationAssistant, userID)
	if err != nil {
		return model.Conversation{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Conversation{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByID fetches a conversation by id.
func (r *ConversationRepo) GetByID(ctx context.Context, id uint64) (model.Conversation, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+conversationCols+" FROM conversations WHERE id=? LIMIT 1", id)
	return scanConversation(row)
}

// ListForUser returns conversations the user takes part in, newest first.
func (r *ConversationRepo) ListForUser(ctx context.Context, userID uint64) ([]model.Conversation, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+conversationCols+" FROM conversations WHERE mentor_id=? OR mentee_id=? ORDER BY created_at DESC",
		userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Conversation, 0)
	for rows.Next() {
		c, err := scanConversation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// AddMessage appends a turn to a conversation. senderID is nil for
// assistant replies.
func (r *ConversationRepo) AddMessage(ctx context.Context, conversationID uint64, senderID *uint64, senderKind, content string) (model.Message, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO messages (conversation_id, sender_id, sender_kind, content) VALUES (?,?,?,?)",
		conversationID, senderID, senderKind, content)
	if err != nil {
		return model.Message{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Message{}, err
	}
	var m model.Message
	var sid sql.NullInt64
	err = r.DB.QueryRowContext(ctx,
		"SELECT id,conversation_id,sender_id,sender_kind,content,created_at FROM messages WHERE id=?",
		id).Scan(&m.ID, &m.ConversationID, &sid, &m.SenderKind, &m.Content, &m.CreatedAt)
	if sid.Valid {
		v := uint64(sid.Int64)
		m.SenderID = &v
	}
	return m, err
}

// ListMessages returns a conversation's messages in chronological order.
func (r *ConversationRepo) ListMessages(ctx context.Context, conversationID uint64) ([]model.Message, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,conversation_id,sender_id,sender_kind,content,created_at FROM messages WHERE conversation_id=? ORDER BY created_at, id",
		conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Message, 0)
	for rows.Next() {
		var m model.Message
		var sid sql.NullInt64
		if err := rows.Scan(&m.ID, &m.ConversationID, &sid, &m.SenderKind, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		if sid.Valid {
			v := uint64(sid.Int64)
			m.SenderID = &v
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
