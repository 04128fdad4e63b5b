package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/mentor-match/internal/model"
)

// AvailabilityRepo provides access to the `availability_windows` table
// holding each mentor's weekly recurring bookable blocks.
type AvailabilityRepo struct{ DB *sql.DB }

func NewAvailabilityRepo(db *sql.DB) *AvailabilityRepo { return &AvailabilityRepo{DB: db} }

// Create inserts a window for the mentor and returns its id.
func (r *AvailabilityRepo) Create(ctx context.Context, w model.AvailabilityWindow) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO availability_windows (mentor_id, weekday, start_min, end_min) VALUES (?,?,?,?)",
		w.MentorID, w.Weekday, w.StartMinute, w.EndMinute)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// ListByMentor returns the mentor's windows ordered by weekday and start.
func (r *AvailabilityRepo) ListByMentor(ctx context.Context, mentorID uint64) ([]model.AvailabilityWindow, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, mentor_id, weekday, start_min, end_min, created_at
		 FROM availability_windows WHERE mentor_id=? ORDER BY weekday, start_min`, mentorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.AvailabilityWindow, 0)
	for rows.Next() {
		var w model.AvailabilityWindow
		if err := rows.Scan(&w.ID, &w.MentorID, &w.Weekday, &w.StartMinute, &w.EndMinute, &w.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// Delete removes a window owned by the mentor. It returns sql.ErrNoRows
// when the window does not exist and ErrForbidden when it belongs to a
// different mentor.
func (r *AvailabilityRepo) Delete(ctx context.Context, id, mentorID uint64) error {
	var owner uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT mentor_id FROM availability_windows WHERE id=?", id).Scan(&owner)
	if err != nil {
		return err
	}
	if owner != mentorID {
		return ErrForbidden
	}
	_, err = r.DB.ExecContext(ctx, "DELETE FROM availability_windows WHERE id=?", id)
	return err
}
