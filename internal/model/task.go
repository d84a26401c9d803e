package model

// Task is a single unit of work inside a Project.
//
// Tasks have no owner column of their own — authorization is transitive
// through the parent project's owner. ProjectID is immutable after
// creation; deleting a project cascades to its tasks.
//
// DueDate is a plain calendar date ("2006-01-02"), not a timestamp.
// We keep it as a string rather than time.Time so "no due date" is just
// the empty string and no timezone ambiguity sneaks into the API.
type Task struct {
	ID          string `json:"id"          db:"id"`
	Title       string `json:"title"       db:"title"`
	Description string `json:"description" db:"description"`
	DueDate     string `json:"dueDate"     db:"due_date"` // "YYYY-MM-DD" or ""
	IsCompleted bool   `json:"isCompleted" db:"is_completed"`
	ProjectID   string `json:"projectId"   db:"project_id"`
}
