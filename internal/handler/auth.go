// Package handler contains the HTTP layer: request decoding, payload
// validation, and translation between domain results and responses.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/LOUBNATANASSA/project-tasks/internal/apperror"
	"github.com/LOUBNATANASSA/project-tasks/internal/service"
)

// AuthHandler exposes sign-up and sign-in.
//
// It owns no business logic: decoding, payload validation and response
// shaping happen here, everything else is AuthService.
type AuthHandler struct {
	auth   *service.AuthService
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(auth *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

// signupRequest is the sign-up payload.
//
// DECLARATIVE VALIDATION:
// ozzo-validation lets the DTO state its own shape rules. These are
// transport-level checks (present, sane length, looks like an email);
// business rules (email uniqueness) live in the service.
type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r signupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(1, 72)),
	)
}

// signinRequest is the sign-in payload. Deliberately looser than
// signup: whatever is sent gets the same uniform failure if it doesn't
// match an account, so there is nothing to gain from field-level errors.
type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r signinRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// jwtResponse is the successful sign-in response. Type is always
// "Bearer" — it tells the client how to transmit the token back.
type jwtResponse struct {
	Token string `json:"token"`
	Type  string `json:"type"`
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// HandleSignup registers a new account.
//
// HTTP: POST /api/auth/signup
// BODY: {"name": "Ana", "email": "ana@x.com", "password": "pw123"}
//
// 201 on success, 409 if the email is already in use.
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid signup JSON", slog.String("error", err.Error()))
		writeError(w, apperror.ValidationFailed("", "invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, apperror.ValidationFailed("", err.Error()))
		return
	}

	if _, err := h.auth.Register(r.Context(), req.Name, req.Email, req.Password); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, MessageResponse{Message: "user registered successfully"})
}

// HandleSignin authenticates a user and issues a session token.
//
// HTTP: POST /api/auth/signin
// BODY: {"email": "ana@x.com", "password": "pw123"}
//
// 200 with {token, type, id, name, email} on success; 401 with a
// uniform message on ANY credential failure.
func (h *AuthHandler) HandleSignin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid signin JSON", slog.String("error", err.Error()))
		writeError(w, apperror.ValidationFailed("", "invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		// A missing field can't possibly authenticate; answer exactly
		// like a wrong password would.
		writeError(w, apperror.Unauthorized("invalid email or password"))
		return
	}

	result, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, jwtResponse{
		Token: result.Token,
		Type:  "Bearer",
		ID:    result.User.ID,
		Name:  result.User.Name,
		Email: result.User.Email,
	})
}
