package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/LOUBNATANASSA/project-tasks/internal/apperror"
	"github.com/LOUBNATANASSA/project-tasks/internal/auth"
	"github.com/LOUBNATANASSA/project-tasks/internal/service"
)

// TaskHandler manages the task CRUD surface. Like ProjectHandler, every
// route is protected and fails closed on a missing identity; the
// ownership decision itself (via the parent project) lives in the
// service.
type TaskHandler struct {
	tasks  *service.TaskService
	logger *slog.Logger
}

// NewTaskHandler creates a TaskHandler.
func NewTaskHandler(tasks *service.TaskService, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{tasks: tasks, logger: logger}
}

// taskRequest is the create payload. ProjectID links the task to its
// parent — and thereby to the owner whose token must sign the request.
type taskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
	ProjectID   string `json:"projectId"`
}

func (r taskRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, service.MaxTitleLength)),
		validation.Field(&r.Description, validation.Length(0, service.MaxDescriptionLength)),
		validation.Field(&r.DueDate, validation.Date("2006-01-02")),
		validation.Field(&r.ProjectID, validation.Required),
	)
}

// taskUpdateRequest is the update payload; nil fields are left unchanged.
type taskUpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	DueDate     *string `json:"dueDate"`
}

// HandleCreate adds a task to a project the caller owns.
//
// HTTP: POST /api/tasks
// BODY: {"title": "...", "description": "...", "dueDate": "2026-01-31", "projectId": "..."}
func (h *TaskHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}

	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid task JSON", slog.String("error", err.Error()))
		writeError(w, apperror.ValidationFailed("", "invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, apperror.ValidationFailed("", err.Error()))
		return
	}

	task, err := h.tasks.Create(r.Context(), identity, req.ProjectID, req.Title, req.Description, req.DueDate)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, task)
}

// HandleListByProject returns all tasks under a project.
//
// HTTP: GET /api/tasks/project/{projectId}
func (h *TaskHandler) HandleListByProject(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}

	tasks, err := h.tasks.ListByProject(r.Context(), identity, r.PathValue("projectId"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tasks)
}

// HandleUpdate modifies a task in a project the caller owns.
//
// HTTP: PUT /api/tasks/{id}
func (h *TaskHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}

	var req taskUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid task JSON", slog.String("error", err.Error()))
		writeError(w, apperror.ValidationFailed("", "invalid JSON body"))
		return
	}

	task, err := h.tasks.Update(r.Context(), identity, r.PathValue("id"), service.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// HandleToggle flips a task's completed flag.
//
// HTTP: PUT /api/tasks/{id}/toggle
//
// No body — the current state determines the next one.
func (h *TaskHandler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}

	task, err := h.tasks.Toggle(r.Context(), identity, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// HandleDelete removes a task.
//
// HTTP: DELETE /api/tasks/{id}
func (h *TaskHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}

	if err := h.tasks.Delete(r.Context(), identity, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
