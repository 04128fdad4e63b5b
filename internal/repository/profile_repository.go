package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/mentor-match/internal/model"
)

// ProfileRepo provides access to the `profiles` table. Every user owns at
// most one profile row; Upsert creates it on first save.
type ProfileRepo struct{ DB *sql.DB }

func NewProfileRepo(db *sql.DB) *ProfileRepo { return &ProfileRepo{DB: db} }

const profileCols = "id,user_id,name,bio,skills,goals,avatar_url,created_at,updated_at"

func scanProfile(row interface{ Scan(...any) error }) (model.Profile, error) {
	var p model.Profile
	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Bio, &p.Skills, &p.Goals, &p.AvatarURL, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// GetByUserID fetches the profile owned by the given user. sql.ErrNoRows
// is returned when the user has not saved a profile yet.
func (r *ProfileRepo) GetByUserID(ctx context.Context, userID uint64) (model.Profile, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+profileCols+" FROM profiles WHERE user_id=? LIMIT 1", userID)
	return scanProfile(row)
}

// Upsert creates or replaces the caller's profile fields in one statement.
func (r *ProfileRepo) Upsert(ctx context.Context, p model.Profile) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO profiles (user_id, name, bio, skills, goals, avatar_url)
		 VALUES (?,?,?,?,?,?)
		 ON DUPLICATE KEY UPDATE name=VALUES(name), bio=VALUES(bio),
		   skills=VALUES(skills), goals=VALUES(goals), avatar_url=VALUES(avatar_url)`,
		p.UserID, p.Name, p.Bio, p.Skills, p.Goals, p.AvatarURL)
	return err
}

// MentorCard pairs a mentor's user id with their profile for discovery
// listings. Email is intentionally not exposed here.
type MentorCard struct {
	UserID    uint64   `json:"user_id"`
	Name      string   `json:"name"`
	Bio       string   `json:"bio"`
	Skills    []string `json:"skills"`
	Goals     string   `json:"goals"`
	AvatarURL string   `json:"avatar_url,omitempty"`
}

// ListMentors returns profile cards for all active mentors, optionally
// filtered by a single skill (matched case-insensitively against the
// comma-separated skills column).
func (r *ProfileRepo) ListMentors(ctx context.Context, skill string) ([]MentorCard, error) {
	q := `SELECT u.id, p.name, p.bio, p.skills, p.goals, p.avatar_url
	      FROM users u
	      JOIN profiles p ON p.user_id = u.id
	      WHERE u.role = 'MENTOR' AND u.is_active = 1`
	args := []any{}
	if s := strings.TrimSpace(skill); s != "" {
		q += " AND LOWER(CONCAT(',', p.skills, ',')) LIKE ?"
		args = append(args, "%,"+strings.ToLower(s)+",%")
	}
	q += " ORDER BY p.name"
	return r.queryCards(ctx, q, args...)
}

// SearchMentors matches the query against mentor names, bios and skills.
func (r *ProfileRepo) SearchMentors(ctx context.Context, query string) ([]MentorCard, error) {
	like := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	const q = `SELECT u.id, p.name, p.bio, p.skills, p.goals, p.avatar_url
	           FROM users u
	           JOIN profiles p ON p.user_id = u.id
	           WHERE u.role = 'MENTOR' AND u.is_active = 1
	             AND (LOWER(p.name) LIKE ? OR LOWER(p.bio) LIKE ? OR LOWER(p.skills) LIKE ?)
	           ORDER BY p.name`
	return r.queryCards(ctx, q, like, like, like)
}

func (r *ProfileRepo) queryCards(ctx context.Context, q string, args ...any) ([]MentorCard, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	cards := make([]MentorCard, 0)
	for rows.Next() {
		var c MentorCard
		var skills string
		if err := rows.Scan(&c.UserID, &c.Name, &c.Bio, &skills, &c.Goals, &c.AvatarURL); err != nil {
			return nil, err
		}
		c.Skills = model.Profile{Skills: skills}.SkillList()
		cards = append(cards, c)
	}
	return cards, rows.Err()
}
