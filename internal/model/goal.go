package model

import "time"

// Goal statuses.
const (
	GoalInProgress = "InProgress"
	GoalCompleted  = "Completed"
	GoalOnHold     = "OnHold"
)

// Goal is a SMART goal agreed inside a mentorship. It references the
// mentorship request that established the relationship.
type Goal struct {
	ID          uint64     `json:"id"`
	RequestID   uint64     `json:"request_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	TargetDate  *time.Time `json:"target_date,omitempty"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ValidGoalStatus reports whether s names a known goal status.
func ValidGoalStatus(s string) bool {
	return s == GoalInProgress || s == GoalCompleted || s == GoalOnHold
}
