package model

import (
	"strings"
	"time"
)

// Profile holds the public-facing data of a user. One row per user.
// Skills are stored as a comma-separated list in a single column and
// split on read; ordering is not significant.
type Profile struct {
	ID        uint64    // profiles.id
	UserID    uint64    // profiles.user_id (unique)
	Name      string    // profiles.name
	Bio       string    // profiles.bio
	Skills    string    // profiles.skills (comma separated)
	Goals     string    // profiles.goals
	AvatarURL string    // profiles.avatar_url
	CreatedAt time.Time // profiles.created_at
	UpdatedAt time.Time // profiles.updated_at
}

// SkillList splits the stored skills column into trimmed, non-empty entries.
func (p Profile) SkillList() []string {
	out := make([]string, 0, 4)
	for _, s := range strings.Split(p.Skills, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// IsComplete reports whether the profile satisfies the completeness rule
// enforced at the access-control boundary: name, bio and goals present
// and at least one skill. It is deliberately not a database constraint.
func (p Profile) IsComplete() bool {
	return strings.TrimSpace(p.Name) != "" &&
		strings.TrimSpace(p.Bio) != "" &&
		strings.TrimSpace(p.Goals) != "" &&
		len(p.SkillList()) > 0
}

// JoinSkills normalises a skill slice back into the stored column form.
func JoinSkills(skills []string) string {
	clean := make([]string, 0, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		if s != "" {
			clean = append(clean, s)
		}
	}
	return strings.Join(clean, ",")
}
