package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/LOUBNATANASSA/project-tasks/internal/apperror"
	"github.com/LOUBNATANASSA/project-tasks/internal/auth"
	"github.com/LOUBNATANASSA/project-tasks/internal/model"
	"github.com/LOUBNATANASSA/project-tasks/internal/repository"
)

// dueDateLayout is the wire and storage format for task due dates.
const dueDateLayout = "2006-01-02"

// TaskService handles business logic for tasks.
//
// Tasks have no owner of their own — authorization is transitive through
// the parent project. Every mutation therefore fetches the parent and
// runs the same ownership check the project operations use.
type TaskService struct {
	tasks    repository.TaskRepository
	projects repository.ProjectRepository
	logger   *slog.Logger
}

// NewTaskService creates a TaskService.
func NewTaskService(
	tasks repository.TaskRepository,
	projects repository.ProjectRepository,
	logger *slog.Logger,
) *TaskService {
	return &TaskService{
		tasks:    tasks,
		projects: projects,
		logger:   logger,
	}
}

// TaskUpdate carries the mutable task fields for Update. As with
// ProjectUpdate, nil means "keep the current value".
type TaskUpdate struct {
	Title       *string
	Description *string
	DueDate     *string
}

// Create validates and saves a new task under a project the caller owns.
//
// The parent project must exist (404 otherwise) and belong to the caller
// (403 otherwise) — creating a task IS a mutation of the project's
// contents, so it goes through the ownership check like any other.
func (s *TaskService) Create(ctx context.Context, identity *model.Identity, projectID, title, description, dueDate string) (*model.Task, error) {
	if identity == nil {
		return nil, apperror.Unauthorized("authentication required")
	}

	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return nil, apperror.ValidationFailed("projectId", "project ID is required")
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperror.ValidationFailed("title", "task title is required")
	}
	if len(title) > MaxTitleLength {
		return nil, apperror.ValidationFailed("title",
			fmt.Sprintf("task title must be %d characters or less", MaxTitleLength))
	}
	if len(description) > MaxDescriptionLength {
		return nil, apperror.ValidationFailed("description",
			fmt.Sprintf("description must be %d characters or less", MaxDescriptionLength))
	}
	dueDate, err := normalizeDueDate(dueDate)
	if err != nil {
		return nil, err
	}

	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !auth.CanMutate(identity, project.UserID) {
		return nil, apperror.Forbidden("you do not own this project")
	}

	task := &model.Task{
		Title:       title,
		Description: strings.TrimSpace(description),
		DueDate:     dueDate,
		IsCompleted: false,
		ProjectID:   project.ID,
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		s.logger.Error("failed to create task",
			slog.String("projectID", projectID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating task: %w", err)
	}

	s.logger.Info("task created",
		slog.String("id", task.ID),
		slog.String("projectID", project.ID),
	)

	return task, nil
}

// ListByProject returns all tasks under a project. Like project reads,
// task reads require authentication but not ownership. The project must
// exist so a bogus ID yields 404 instead of an empty list.
func (s *TaskService) ListByProject(ctx context.Context, identity *model.Identity, projectID string) ([]model.Task, error) {
	if identity == nil {
		return nil, apperror.Unauthorized("authentication required")
	}

	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return nil, apperror.ValidationFailed("projectId", "project ID is required")
	}

	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return nil, err
	}

	tasks, err := s.tasks.ListByProject(ctx, projectID)
	if err != nil {
		s.logger.Error("failed to list tasks",
			slog.String("projectID", projectID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing tasks: %w", err)
	}

	return tasks, nil
}

// Update modifies a task in a project the caller owns.
func (s *TaskService) Update(ctx context.Context, identity *model.Identity, id string, in TaskUpdate) (*model.Task, error) {
	task, err := s.authorizeMutation(ctx, identity, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, apperror.ValidationFailed("title", "task title must not be empty")
		}
		if len(title) > MaxTitleLength {
			return nil, apperror.ValidationFailed("title",
				fmt.Sprintf("task title must be %d characters or less", MaxTitleLength))
		}
		task.Title = title
	}
	if in.Description != nil {
		if len(*in.Description) > MaxDescriptionLength {
			return nil, apperror.ValidationFailed("description",
				fmt.Sprintf("description must be %d characters or less", MaxDescriptionLength))
		}
		task.Description = strings.TrimSpace(*in.Description)
	}
	if in.DueDate != nil {
		due, err := normalizeDueDate(*in.DueDate)
		if err != nil {
			return nil, err
		}
		task.DueDate = due
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		s.logger.Error("failed to update task",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.Info("task updated", slog.String("id", task.ID))

	return task, nil
}

// Toggle flips a task's completed flag. Two toggles in sequence land the
// task back where it started — each one reads the current state and
// writes the inverse, last write wins.
func (s *TaskService) Toggle(ctx context.Context, identity *model.Identity, id string) (*model.Task, error) {
	task, err := s.authorizeMutation(ctx, identity, id)
	if err != nil {
		return nil, err
	}

	task.IsCompleted = !task.IsCompleted

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	s.logger.Info("task toggled",
		slog.String("id", task.ID),
		slog.Bool("isCompleted", task.IsCompleted),
	)

	return task, nil
}

// Delete removes a task from a project the caller owns.
func (s *TaskService) Delete(ctx context.Context, identity *model.Identity, id string) error {
	task, err := s.authorizeMutation(ctx, identity, id)
	if err != nil {
		return err
	}

	if err := s.tasks.Delete(ctx, task.ID); err != nil {
		return err
	}

	s.logger.Info("task deleted", slog.String("id", task.ID))
	return nil
}

// authorizeMutation is the shared front half of every task mutation:
// fetch the task (404), fetch its parent project, and check the caller
// owns it (403). Returns the task ready to be modified.
//
// If the parent project has vanished (a concurrent project delete), the
// cascade will have removed the task too, so the project lookup's
// NotFound is the honest answer.
func (s *TaskService) authorizeMutation(ctx context.Context, identity *model.Identity, id string) (*model.Task, error) {
	if identity == nil {
		return nil, apperror.Unauthorized("authentication required")
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "task ID is required")
	}

	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	project, err := s.projects.GetByID(ctx, task.ProjectID)
	if err != nil {
		return nil, err
	}
	if !auth.CanMutate(identity, project.UserID) {
		return nil, apperror.Forbidden("you do not own this project")
	}

	return task, nil
}

// normalizeDueDate validates the "YYYY-MM-DD" format. Empty is allowed —
// a task without a due date is fine.
func normalizeDueDate(dueDate string) (string, error) {
	dueDate = strings.TrimSpace(dueDate)
	if dueDate == "" {
		return "", nil
	}
	if _, err := time.Parse(dueDateLayout, dueDate); err != nil {
		return "", apperror.ValidationFailed("dueDate", "due date must be in YYYY-MM-DD format")
	}
	return dueDate, nil
}
