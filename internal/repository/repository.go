// Package repository defines the storage interfaces the service layer
// depends on.
//
// WHY INTERFACES HERE AND IMPLEMENTATIONS IN A SUBPACKAGE?
// Services program against these interfaces, never against SQLite
// directly. That keeps the business layer storage-agnostic and lets
// tests substitute in-memory fakes without touching a database.
package repository

import (
	"context"

	"github.com/LOUBNATANASSA/project-tasks/internal/model"
)

// UserRepository is the credential store: user records keyed by ID with
// a unique email column.
//
// Email matching is exact and case-sensitive — GetByEmail("Ana@x.com")
// does NOT find "ana@x.com". Callers that want different semantics must
// normalize before storing, which this application deliberately does not.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Delete removes the user and cascades to their projects and tasks.
	Delete(ctx context.Context, id string) error
}

// ProjectRepository stores projects, each carrying the immutable ID of
// the user that created it.
type ProjectRepository interface {
	Create(ctx context.Context, project *model.Project) error
	GetByID(ctx context.Context, id string) (*model.Project, error)
	ListByUser(ctx context.Context, userID string) ([]model.Project, error)
	Update(ctx context.Context, project *model.Project) error
	Delete(ctx context.Context, id string) error
}

// TaskCounts feeds the project progress computation: progress is
// Completed/Total as a percentage, 0 for an empty project.
type TaskCounts struct {
	Total     int
	Completed int
}

// TaskRepository stores tasks, each belonging to exactly one project.
type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) error
	GetByID(ctx context.Context, id string) (*model.Task, error)
	ListByProject(ctx context.Context, projectID string) ([]model.Task, error)
	Update(ctx context.Context, task *model.Task) error
	Delete(ctx context.Context, id string) error
	CountByProject(ctx context.Context, projectID string) (TaskCounts, error)
}
