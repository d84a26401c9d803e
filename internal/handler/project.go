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

// ProjectHandler manages the project CRUD surface.
//
// FAIL-CLOSED AT THE HANDLER:
// The auth middleware attaches an identity when a valid token is
// presented but never rejects a request itself. Every handler here is
// protected, so each one starts with IdentityFromContext and answers
// 401 before touching anything when the request is anonymous.
type ProjectHandler struct {
	projects *service.ProjectService
	logger   *slog.Logger
}

// NewProjectHandler creates a ProjectHandler.
func NewProjectHandler(projects *service.ProjectService, logger *slog.Logger) *ProjectHandler {
	return &ProjectHandler{projects: projects, logger: logger}
}

// projectRequest is the create payload. Both updates reuse
// projectUpdateRequest below, where fields are optional.
type projectRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (r projectRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, service.MaxTitleLength)),
		validation.Field(&r.Description, validation.Length(0, service.MaxDescriptionLength)),
	)
}

// projectUpdateRequest is the PUT/PATCH payload. Pointer fields
// distinguish "absent" from "sent empty", so PATCH can change one field
// and leave the rest alone. A field sent blank is still rejected — the
// service refuses an empty title.
type projectUpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// HandleList returns the caller's projects, newest first, with progress.
//
// HTTP: GET /api/projects
func (h *ProjectHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}

	projects, err := h.projects.List(r.Context(), identity)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, projects)
}

// HandleCreate saves a new project owned by the caller.
//
// HTTP: POST /api/projects
// BODY: {"title": "My project", "description": "..."}
func (h *ProjectHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}

	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid project JSON", slog.String("error", err.Error()))
		writeError(w, apperror.ValidationFailed("", "invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, apperror.ValidationFailed("", err.Error()))
		return
	}

	project, err := h.projects.Create(r.Context(), identity, req.Title, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, project)
}

// HandleGetByID returns a single project.
//
// HTTP: GET /api/projects/{id}
func (h *ProjectHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}

	project, err := h.projects.GetByID(r.Context(), identity, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, project)
}

// HandleUpdate modifies a project the caller owns.
//
// HTTP: PUT /api/projects/{id} and PATCH /api/projects/{id}
//
// Both verbs run the same code path: fields absent from the body are
// left untouched, so PUT with a full body replaces and PATCH with a
// partial body patches. 404 if absent, 403 if not the owner.
func (h *ProjectHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}

	var req projectUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid project JSON", slog.String("error", err.Error()))
		writeError(w, apperror.ValidationFailed("", "invalid JSON body"))
		return
	}

	project, err := h.projects.Update(r.Context(), identity, r.PathValue("id"), service.ProjectUpdate{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, project)
}

// HandleDelete removes a project the caller owns, tasks included.
//
// HTTP: DELETE /api/projects/{id}
func (h *ProjectHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}

	if err := h.projects.Delete(r.Context(), identity, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
