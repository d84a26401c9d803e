// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (business layer) → validates, enforces rules, orchestrates
//	Repository (data layer)  → reads/writes the database
//
// Services accept primitives and domain values (never *http.Request) and
// return domain errors (never HTTP status codes). The handler translates
// both directions. Services receive repository INTERFACES, so tests swap
// in in-memory fakes and the sqlite package is never imported here.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/LOUBNATANASSA/project-tasks/internal/apperror"
	"github.com/LOUBNATANASSA/project-tasks/internal/auth"
	"github.com/LOUBNATANASSA/project-tasks/internal/model"
	"github.com/LOUBNATANASSA/project-tasks/internal/repository"
)

// badCredentials is the single failure message for every sign-in
// problem. Unknown email and wrong password MUST be indistinguishable to
// the caller, or the login endpoint becomes an email-enumeration oracle.
const badCredentials = "invalid email or password"

// AuthService orchestrates the credential store, the password hasher,
// and the token codec to implement sign-up and sign-in.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
// Call this in server.go when wiring the dependency graph.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// AuthResult is returned by a successful sign-in. It bundles the user
// record and the issued token so the handler can build the response in
// one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// Register implements sign-up:
//
//	check email uniqueness → {reject duplicate | hash + persist → success}
//
// No path skips the uniqueness check, and nothing is persisted on a
// duplicate. The email is stored exactly as given — no case
// normalization — so sign-in later uses the same exact string.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if name == "" {
		return nil, apperror.ValidationFailed("name", "name is required")
	}
	if email == "" {
		return nil, apperror.ValidationFailed("email", "email is required")
	}
	if password == "" {
		return nil, apperror.ValidationFailed("password", "password is required")
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("checking email uniqueness: %w", err)
	}
	if exists {
		return nil, apperror.Conflict("email is already in use")
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		// An over-long password is the caller's mistake, not ours.
		return nil, apperror.ValidationFailed("password", err.Error())
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}

	// The store's UNIQUE index backstops the race where two sign-ups for
	// the same email pass the existence check simultaneously; the loser
	// gets the same Conflict error.
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, err
		}
		s.logger.Error("failed to create user",
			slog.String("email", email),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating user: %w", err)
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("email", user.Email),
	)

	return user, nil
}

// Login implements sign-in:
//
//	lookup by email → {not found → fail | verify password → {mismatch → fail | issue token}}
//
// Both failure branches return the SAME Unauthorized error. The specific
// cause is logged at debug level for operators, never sent to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, apperror.Unauthorized(badCredentials)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			s.logger.Debug("login failed: unknown email", slog.String("email", email))
			return nil, apperror.Unauthorized(badCredentials)
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		s.logger.Debug("login failed: password mismatch", slog.String("userID", user.ID))
		return nil, apperror.Unauthorized(badCredentials)
	}

	token, err := s.tokens.Generate(user.Email)
	if err != nil {
		return nil, fmt.Errorf("generating token for user %s: %w", user.ID, err)
	}

	s.logger.Info("user signed in", slog.String("userID", user.ID))

	return &AuthResult{
		User:  user,
		Token: token,
	}, nil
}
