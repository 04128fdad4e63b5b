package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/mentor-match/internal/model"
)

// GoalRepo provides access to the `goals` table.
type GoalRepo struct{ DB *sql.DB }

func NewGoalRepo(db *sql.DB) *GoalRepo { return &GoalRepo{DB: db} }

const goalCols = "id,request_id,title,description,target_date,status,created_at,updated_at"

func scanGoal(row interface{ Scan(...any) error }) (model.Goal, error) {
	var g model.Goal
	var target sql.NullTime
	err := row.Scan(&g.ID, &g.RequestID, &g.Title, &g.Description, &target, &g.Status, &g.CreatedAt, &g.UpdatedAt)
	if target.Valid {
		t := target.Time.UTC()
		g.TargetDate = &t
	}
	return g, err
}

// Create inserts a goal and returns the stored row.
func (r *GoalRepo) Create(ctx context.Context, g model.Goal) (model.Goal, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO goals (request_id, title, description, target_date, status) VALUES (?,?,?,?,?)",
		g.RequestID, g.Title, g.Description, g.TargetDate, g.Status)
	if err != nil {
		return model.Goal{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Goal{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByID fetches a goal by id.
func (r *GoalRepo) GetByID(ctx context.Context, id uint64) (model.Goal, error) {
	row := r.DB.QueryRowContext(ctx, "SELECT "+goalCols+" FROM goals WHERE id=? LIMIT 1", id)
	return scanGoal(row)
}

// ListByRequest returns the goals attached to a mentorship request.
func (r *GoalRepo) ListByRequest(ctx context.Context, requestID uint64) ([]model.Goal, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+goalCols+" FROM goals WHERE request_id=? ORDER BY created_at", requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Goal, 0)
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// Update replaces the mutable fields of a goal.
func (r *GoalRepo) Update(ctx context.Context, g model.Goal) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE goals SET title=?, description=?, target_date=?, status=? WHERE id=?",
		g.Title, g.Description, g.TargetDate, g.Status, g.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	_ = n // zero rows also covers a no-change update; existence checked by caller
	return nil
}

// Delete removes a goal.
func (r *GoalRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM goals WHERE id=?", id)
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
