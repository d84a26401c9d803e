package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/LOUBNATANASSA/project-tasks/internal/apperror"
	"github.com/LOUBNATANASSA/project-tasks/internal/auth"
	"github.com/LOUBNATANASSA/project-tasks/internal/model"
	"github.com/LOUBNATANASSA/project-tasks/internal/repository"
)

// Validation limits, shared by projects and tasks.
const (
	MaxTitleLength       = 100
	MaxDescriptionLength = 2000
)

// ProjectService handles business logic for projects: validation, the
// ownership check on every mutation, and the computed progress field.
//
// It also receives the task repository — only for the aggregate counts
// behind Progress, never for task mutation (that's TaskService's job).
type ProjectService struct {
	projects repository.ProjectRepository
	tasks    repository.TaskRepository
	logger   *slog.Logger
}

// NewProjectService creates a ProjectService.
func NewProjectService(
	projects repository.ProjectRepository,
	tasks repository.TaskRepository,
	logger *slog.Logger,
) *ProjectService {
	return &ProjectService{
		projects: projects,
		tasks:    tasks,
		logger:   logger,
	}
}

// ProjectUpdate carries the mutable project fields for Update. Pointer
// fields distinguish "not sent" (nil — keep the current value) from
// "sent as empty" (non-nil pointing at ""), which is what lets one
// method serve both PUT and PATCH.
type ProjectUpdate struct {
	Title       *string
	Description *string
}

// Create validates and saves a new project owned by the caller.
// Ownership is established here, from the authenticated identity, and
// never changes afterwards.
func (s *ProjectService) Create(ctx context.Context, identity *model.Identity, title, description string) (*model.Project, error) {
	if identity == nil {
		return nil, apperror.Unauthorized("authentication required")
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperror.ValidationFailed("title", "project title is required")
	}
	if len(title) > MaxTitleLength {
		return nil, apperror.ValidationFailed("title",
			fmt.Sprintf("project title must be %d characters or less", MaxTitleLength))
	}
	if len(description) > MaxDescriptionLength {
		return nil, apperror.ValidationFailed("description",
			fmt.Sprintf("description must be %d characters or less", MaxDescriptionLength))
	}

	project := &model.Project{
		Title:       title,
		Description: strings.TrimSpace(description),
		UserID:      identity.ID,
	}

	if err := s.projects.Create(ctx, project); err != nil {
		s.logger.Error("failed to create project",
			slog.String("title", title),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating project: %w", err)
	}

	s.logger.Info("project created",
		slog.String("id", project.ID),
		slog.String("userID", identity.ID),
	)

	return project, nil
}

// List returns the caller's own projects, progress included. Other
// users' projects are never in this listing.
func (s *ProjectService) List(ctx context.Context, identity *model.Identity) ([]model.Project, error) {
	if identity == nil {
		return nil, apperror.Unauthorized("authentication required")
	}

	projects, err := s.projects.ListByUser(ctx, identity.ID)
	if err != nil {
		s.logger.Error("failed to list projects", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing projects: %w", err)
	}

	for i := range projects {
		if err := s.fillProgress(ctx, &projects[i]); err != nil {
			return nil, err
		}
	}

	return projects, nil
}

// GetByID returns a single project with its progress.
//
// Any authenticated user may fetch any project by id — reads are not
// ownership-gated, matching the system's original behaviour. Only
// mutations go through the ownership check.
func (s *ProjectService) GetByID(ctx context.Context, identity *model.Identity, id string) (*model.Project, error) {
	if identity == nil {
		return nil, apperror.Unauthorized("authentication required")
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "project ID is required")
	}

	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.fillProgress(ctx, project); err != nil {
		return nil, err
	}

	return project, nil
}

// Update modifies a project the caller owns.
//
// ORDER OF CHECKS:
// 1. fetch → NotFound if the project doesn't exist (404)
// 2. ownership → Forbidden if the caller isn't the owner (403)
// 3. field validation → ValidationFailed on a blank title (400)
// The existence check runs first on purpose: a mismatched owner is told
// the project exists but is off-limits, not that it's missing.
func (s *ProjectService) Update(ctx context.Context, identity *model.Identity, id string, in ProjectUpdate) (*model.Project, error) {
	if identity == nil {
		return nil, apperror.Unauthorized("authentication required")
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "project ID is required")
	}

	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !auth.CanMutate(identity, project.UserID) {
		return nil, apperror.Forbidden("you do not own this project")
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, apperror.ValidationFailed("title", "project title must not be empty")
		}
		if len(title) > MaxTitleLength {
			return nil, apperror.ValidationFailed("title",
				fmt.Sprintf("project title must be %d characters or less", MaxTitleLength))
		}
		project.Title = title
	}
	if in.Description != nil {
		if len(*in.Description) > MaxDescriptionLength {
			return nil, apperror.ValidationFailed("description",
				fmt.Sprintf("description must be %d characters or less", MaxDescriptionLength))
		}
		project.Description = strings.TrimSpace(*in.Description)
	}

	if err := s.projects.Update(ctx, project); err != nil {
		s.logger.Error("failed to update project",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.Info("project updated", slog.String("id", project.ID))

	if err := s.fillProgress(ctx, project); err != nil {
		return nil, err
	}

	return project, nil
}

// Delete removes a project the caller owns, and its tasks with it.
//
// The original system let any authenticated user delete any project;
// that was an oversight, and delete now goes through the same ownership
// check as update.
func (s *ProjectService) Delete(ctx context.Context, identity *model.Identity, id string) error {
	if identity == nil {
		return apperror.Unauthorized("authentication required")
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "project ID is required")
	}

	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !auth.CanMutate(identity, project.UserID) {
		return apperror.Forbidden("you do not own this project")
	}

	if err := s.projects.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("project deleted",
		slog.String("id", id),
		slog.String("userID", identity.ID),
	)
	return nil
}

// fillProgress computes the completed-task percentage for a project.
// Zero tasks means zero progress, not a division by zero.
func (s *ProjectService) fillProgress(ctx context.Context, project *model.Project) error {
	counts, err := s.tasks.CountByProject(ctx, project.ID)
	if err != nil {
		return fmt.Errorf("computing progress for project %s: %w", project.ID, err)
	}
	if counts.Total == 0 {
		project.Progress = 0
		return nil
	}
	project.Progress = float64(counts.Completed) / float64(counts.Total) * 100
	return nil
}
