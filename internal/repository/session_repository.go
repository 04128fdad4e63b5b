package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/mentor-match/internal/model"
)

// ErrSlotUnavailable is returned when a booking time is outside every
// declared window or already taken by another session. The check is
// re-run at write time inside a transaction holding row locks on the
// mentor's sessions, which closes the check-then-act window between two
// concurrent bookings.
var ErrSlotUnavailable = errors.New("slot unavailable")

// SessionRepo provides access to the `sessions` and
// `circle_participants` tables. All timestamps are UTC.
type SessionRepo struct{ DB *sql.DB }

func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{DB: db} }

const sessionCols = "id,mentor_id,mentee_id,date,booking_ref,topic,max_participants,rating,feedback,summary,topics,action_items,created_at,updated_at"

func scanSession(row interface{ Scan(...any) error }) (model.Session, error) {
	var s model.Session
	var mentee sql.NullInt64
	var topic, feedback, summary, topics, actions sql.NullString
	var rating sql.NullInt16
	err := row.Scan(&s.ID, &s.MentorID, &mentee, &s.Date, &s.BookingRef, &topic, &s.MaxParticipants,
		&rating, &feedback, &summary, &topics, &actions, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return s, err
	}
	if mentee.Valid {
		v := uint64(mentee.Int64)
		s.MenteeID = &v
	}
	if topic.Valid {
		v := topic.String
		s.Topic = &v
	}
	if rating.Valid {
		v := uint8(rating.Int16)
		s.Rating = &v
	}
	if feedback.Valid {
		v := feedback.String
		s.Feedback = &v
	}
	if summary.Valid {
		v := summary.String
		s.Summary = &v
	}
	if topics.Valid {
		v := topics.String
		s.Topics = &v
	}
	if actions.Valid {
		v := actions.String
		s.ActionItems = &v
	}
	return s, nil
}

// TakenTimesForMentor returns the start times of the mentor's sessions
// from `from` onwards. Used to subtract booked slots when listing
// availability; no locks are taken.
func (r *SessionRepo) TakenTimesForMentor(ctx context.Context, mentorID uint64, from time.Time) ([]time.Time, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT date FROM sessions WHERE mentor_id=? AND date >= ?",
		mentorID, from.UTC().Format("2006-01-02 15:04:05"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []time.Time
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		out = append(out, t.UTC())
	}
	return out, rows.Err()
}

// SlotTakenTx reports whether the mentor already has a session at the
// exact instant, locking matching rows for the duration of the
// transaction so a concurrent booking blocks until commit.
func (r *SessionRepo) SlotTakenTx(ctx context.Context, tx *sql.Tx, mentorID uint64, at time.Time) (bool, error) {
	rows, err := tx.QueryContext(ctx,
		"SELECT id FROM sessions WHERE mentor_id=? AND date=? FOR UPDATE",
		mentorID, at.UTC().Format("2006-01-02 15:04:05"))
	if err != nil {
		return false, err
	}
	defer rows.Close()
	taken := rows.Next()
	return taken, rows.Err()
}

// CreateTx inserts a 1:1 session within the provided transaction and
// returns its id. The caller commits or rolls back.
func (r *SessionRepo) CreateTx(ctx context.Context, tx *sql.Tx, mentorID, menteeID uint64, at time.Time, bookingRef string) (uint64, error) {
	res, err := tx.ExecContext(ctx,
		"INSERT INTO sessions (mentor_id, mentee_id, date, booking_ref) VALUES (?,?,?,?)",
		mentorID, menteeID, at.UTC().Format("2006-01-02 15:04:05"), bookingRef)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// CreateCircle inserts a group session owned by the mentor.
func (r *SessionRepo) CreateCircle(ctx context.Context, mentorID uint64, topic string, at time.Time, maxParticipants uint32, bookingRef string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO sessions (mentor_id, mentee_id, date, booking_ref, topic, max_participants) VALUES (?,NULL,?,?,?,?)",
		mentorID, at.UTC().Format("2006-01-02 15:04:05"), bookingRef, topic, maxParticipants)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches a session by id.
func (r *SessionRepo) GetByID(ctx context.Context, id uint64) (model.Session, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+sessionCols+" FROM sessions WHERE id=? LIMIT 1", id)
	return scanSession(row)
}

// ListForUser returns every session the user takes part in: as mentor,
// as the booked mentee, or as a circle participant. Newest first.
func (r *SessionRepo) ListForUser(ctx context.Context, userID uint64) ([]model.Session, error) {
	const q = `SELECT DISTINCT s.id,s.mentor_id,s.mentee_id,s.date,s.booking_ref,s.topic,s.max_participants,
	                  s.rating,s.feedback,s.summary,s.topics,s.action_items,s.created_at,s.updated_at
	           FROM sessions s
	           LEFT JOIN circle_participants cp ON cp.session_id = s.id
	           WHERE s.mentor_id=? OR s.mentee_id=? OR cp.user_id=?
	           ORDER BY s.date DESC`
	rows, err := r.DB.QueryContext(ctx, q, userID, userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Session, 0)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ListUpcomingCircles returns group sessions dated from `now` onwards
// together with their current participant counts.
func (r *SessionRepo) ListUpcomingCircles(ctx context.Context, now time.Time) ([]model.Session, []uint32, error) {
	const q = `SELECT s.id,s.mentor_id,s.mentee_id,s.date,s.booking_ref,s.topic,s.max_participants,
	                  s.rating,s.feedback,s.summary,s.topics,s.action_items,s.created_at,s.updated_at,
	                  COUNT(cp.id)
	           FROM sessions s
	           LEFT JOIN circle_participants cp ON cp.session_id = s.id
	           WHERE s.mentee_id IS NULL AND s.date >= ?
	           GROUP BY s.id
	           ORDER BY s.date`
	rows, err := r.DB.QueryContext(ctx, q, now.UTC().Format("2006-01-02 15:04:05"))
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()
	sessions := make([]model.Session, 0)
	counts := make([]uint32, 0)
	for rows.Next() {
		var s model.Session
		var mentee sql.NullInt64
		var topic, feedback, summary, topics, actions sql.NullString
		var rating sql.NullInt16
		var count uint32
		if err := rows.Scan(&s.ID, &s.MentorID, &mentee, &s.Date, &s.BookingRef, &topic, &s.MaxParticipants,
			&rating, &feedback, &summary, &topics, &actions, &s.CreatedAt, &s.UpdatedAt, &count); err != nil {
			return nil, nil, err
		}
		if topic.Valid {
			v := topic.String
			s.Topic = &v
		}
		sessions = append(sessions, s)
		counts = append(counts, count)
	}
	return sessions, counts, rows.Err()
}

// CountParticipantsTx counts circle participants while locking the rows,
// so the capacity check and the insert below see a stable count.
func (r *SessionRepo) CountParticipantsTx(ctx context.Context, tx *sql.Tx, sessionID uint64) (uint32, error) {
	var n uint32
	err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM circle_participants WHERE session_id=? FOR UPDATE",
		sessionID).Scan(&n)
	return n, err
}

// AddParticipantTx inserts a circle participant. A duplicate join hits
// the unique (session_id, user_id) key and maps to ErrConflict.
func (r *SessionRepo) AddParticipantTx(ctx context.Context, tx *sql.Tx, sessionID, userID uint64) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO circle_participants (session_id, user_id) VALUES (?,?)",
		sessionID, userID)
	if err != nil && strings.Contains(strings.ToLower(err.Error()), "1062") {
		return ErrConflict
	}
	return err
}

// ListParticipants returns the user ids joined to a circle.
func (r *SessionRepo) ListParticipants(ctx context.Context, sessionID uint64) ([]uint64, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT user_id FROM circle_participants WHERE session_id=? ORDER BY created_at", sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]uint64, 0)
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// SetFeedback stores rating and/or comment on a session.
func (r *SessionRepo) SetFeedback(ctx context.Context, id uint64, rating *uint8, comment *string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE sessions SET rating=COALESCE(?, rating), feedback=COALESCE(?, feedback) WHERE id=?",
		rating, comment, id)
	return err
}

// SetInsights stores the AI-generated summary, topics and action items.
func (r *SessionRepo) SetInsights(ctx context.Context, id uint64, summary, topicsJSON, actionsJSON string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE sessions SET summary=?, topics=?, action_items=? WHERE id=?",
		summary, topicsJSON, actionsJSON, id)
	return err
}

// Delete removes a session and its participants. Admin/cleanup only.
func (r *SessionRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx, "DELETE FROM circle_participants WHERE session_id=?", id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM sessions WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
