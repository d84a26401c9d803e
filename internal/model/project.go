package model

import "time"

// Project is a user-owned collection of tasks.
//
// OWNERSHIP:
// UserID is set from the creating identity and never reassigned. It is
// the sole basis for authorization decisions — only the owner may mutate
// the project or the tasks under it.
//
// Progress is computed, not stored: the percentage of the project's
// tasks that are completed (0 when the project has no tasks). The
// service layer fills it in from task counts when building responses.
type Project struct {
	ID          string    `json:"id"          db:"id"`
	Title       string    `json:"title"       db:"title"`
	Description string    `json:"description" db:"description"`
	UserID      string    `json:"-"           db:"user_id"` // owner, immutable
	Progress    float64   `json:"progress"`
	CreatedAt   time.Time `json:"createdAt"   db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt"   db:"updated_at"`
}
