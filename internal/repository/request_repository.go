package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/mentor-match/internal/model"
)

// ErrDuplicateRequest is returned when a PENDING request already exists
// between the pair. The duplicate is detected by the database, not by a
// pre-check: the table carries a unique key over (mentor_id, mentee_id,
// active) where `active` is 1 while PENDING and NULL afterwards, so two
// concurrent creates cannot both commit.
var ErrDuplicateRequest = errors.New("pending request already exists")

// RequestRepo provides access to the `mentorship_requests` table.
type RequestRepo struct{ DB *sql.DB }

func NewRequestRepo(db *sql.DB) *RequestRepo { return &RequestRepo{DB: db} }

const requestCols = "id,mentor_id,mentee_id,status,message,created_at,updated_at"

func scanRequest(row interface{ Scan(...any) error }) (model.MentorshipRequest, error) {
	var req model.MentorshipRequest
	var msg sql.NullString
	err := row.Scan(&req.ID, &req.MentorID, &req.MenteeID, &req.Status, &msg, &req.CreatedAt, &req.UpdatedAt)
	if msg.Valid {
		m := msg.String
		req.Message = &m
	}
	return req, err
}

// Create inserts a PENDING request and returns the stored row. MySQL
// duplicate-key errors (1062) map to ErrDuplicateRequest.
func (r *RequestRepo) Create(ctx context.Context, mentorID, menteeID uint64, message *string) (model.MentorshipRequest, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO mentorship_requests (mentor_id, mentee_id, status, active, message) VALUES (?,?,'PENDING',1,?)",
		mentorID, menteeID, message)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return model.MentorshipRequest{}, ErrDuplicateRequest
		}
		return model.MentorshipRequest{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.MentorshipRequest{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByID fetches a request by id.
func (r *RequestRepo) GetByID(ctx context.Context, id uint64) (model.MentorshipRequest, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+requestCols+" FROM mentorship_requests WHERE id=? LIMIT 1", id)
	return scanRequest(row)
}

// Resolve moves a PENDING request into a terminal state in a single
// atomic statement; clearing `active` releases the unique key so the
// pair may start over later. When zero rows match, the request was
// either missing (sql.ErrNoRows) or already terminal
// (ErrInvalidTransition) - the follow-up read distinguishes the two.
func (r *RequestRepo) Resolve(ctx context.Context, id uint64, newStatus string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE mentorship_requests SET status=?, active=NULL WHERE id=? AND status='PENDING'",
		newStatus, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}
	var exists bool
	if err := r.DB.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM mentorship_requests WHERE id=?)", id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return sql.ErrNoRows
	}
	return ErrInvalidTransition
}

// AdminSetStatus overrides the status regardless of the current state.
// It keeps the `active` marker consistent with the new status.
func (r *RequestRepo) AdminSetStatus(ctx context.Context, id uint64, newStatus string) error {
	active := sql.NullInt64{}
	if newStatus == model.RequestPending {
		active = sql.NullInt64{Int64: 1, Valid: true}
	}
	res, err := r.DB.ExecContext(ctx,
		"UPDATE mentorship_requests SET status=?, active=? WHERE id=?",
		newStatus, active, id)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrDuplicateRequest
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// RowsAffected is also zero when the status already matches; treat
		// a present row as a no-op success.
		var exists bool
		if err := r.DB.QueryRowContext(ctx,
			"SELECT EXISTS(SELECT 1 FROM mentorship_requests WHERE id=?)", id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return sql.ErrNoRows
		}
	}
	return nil
}

// ListByMentee returns requests the mentee has sent, newest first.
func (r *RequestRepo) ListByMentee(ctx context.Context, menteeID uint64) ([]model.MentorshipRequest, error) {
	return r.list(ctx, "mentee_id", menteeID)
}

// ListByMentor returns requests addressed to the mentor, newest first.
func (r *RequestRepo) ListByMentor(ctx context.Context, mentorID uint64) ([]model.MentorshipRequest, error) {
	return r.list(ctx, "mentor_id", mentorID)
}

func (r *RequestRepo) list(ctx context.Context, col string, id uint64) ([]model.MentorshipRequest, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+requestCols+" FROM mentorship_requests WHERE "+col+"=? ORDER BY created_at DESC", id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.MentorshipRequest, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

// HasAccepted reports whether an ACCEPTED request exists for the pair.
// Booking a 1:1 session requires an accepted relationship.
func (r *RequestRepo) HasAccepted(ctx context.Context, mentorID, menteeID uint64) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM mentorship_requests WHERE mentor_id=? AND mentee_id=? AND status='ACCEPTED')",
		mentorID, menteeID).Scan(&exists)
	return exists, err
}

// Delete removes a request permanently. Admin/cleanup only.
func (r *RequestRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM mentorship_requests WHERE id=?", id)
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
	return nil
}
