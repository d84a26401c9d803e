package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/LOUBNATANASSA/project-tasks/internal/apperror"
	"github.com/LOUBNATANASSA/project-tasks/internal/model"
	"github.com/LOUBNATANASSA/project-tasks/internal/repository"
)

// UserDB implements repository.UserRepository on top of the shared
// connection pool. Each entity gets its own thin repo struct so the
// method sets don't collide on *DB and services can be handed exactly
// the repository they need.
type UserDB struct {
	conn *sql.DB
}

// Users returns the user repository view of this database.
func (db *DB) Users() *UserDB {
	return &UserDB{conn: db.conn}
}

// COMPILE-TIME INTERFACE CHECK:
// `var _ X = (*Y)(nil)` assigns a typed nil to the interface — if
// *UserDB stops implementing repository.UserRepository, the build
// breaks right here instead of at some distant call site.
var _ repository.UserRepository = (*UserDB)(nil)

// Create inserts a new user record.
//
// ID GENERATION WITH xid: 20 chars, URL-safe, sortable by creation time
// (e.g. "cv37rs3pp9olc6atsptg"). Generated here so callers never hand us
// an ID of their own choosing.
//
// The UNIQUE constraint on email is the real uniqueness guarantee; the
// service checks ExistsByEmail first for a friendly error, and this
// translation to Conflict catches the race where two registrations for
// the same email arrive at once.
func (u *UserDB) Create(ctx context.Context, user *model.User) error {
	user.ID = xid.New().String()

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := u.conn.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("email is already in use")
		}
		return fmt.Errorf("sqlite: creating user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by internal ID.
func (u *UserDB) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User

	err := u.conn.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, created_at, updated_at
		 FROM users
		 WHERE id = ?`,
		id,
	).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", id, err)
	}

	return &user, nil
}

// GetByEmail retrieves a user by their exact email.
//
// CASE SENSITIVITY:
// SQLite's = on TEXT is byte-wise, so this is a case-sensitive match —
// matching the registration behaviour. No COLLATE NOCASE here.
func (u *UserDB) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User

	err := u.conn.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, created_at, updated_at
		 FROM users
		 WHERE email = ?`,
		email,
	).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", email)
		}
		return nil, fmt.Errorf("sqlite: getting user by email: %w", err)
	}

	return &user, nil
}

// ExistsByEmail reports whether an account with this exact email exists.
// Cheaper than GetByEmail when the caller only needs a yes/no (the
// registration uniqueness check).
func (u *UserDB) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int
	err := u.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE email = ?`,
		email,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("sqlite: checking email existence: %w", err)
	}
	return count > 0, nil
}

// Delete removes a user. With foreign_keys=ON the projects table's
// ON DELETE CASCADE removes their projects, which in turn cascades to
// tasks.
func (u *UserDB) Delete(ctx context.Context, id string) error {
	result, err := u.conn.ExecContext(ctx,
		`DELETE FROM users WHERE id = ?`,
		id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting user %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("user", id)
	}

	return nil
}

// isUniqueViolation detects a UNIQUE constraint failure.
//
// modernc.org/sqlite doesn't export a typed error for this, so we match
// on the message SQLite itself produces ("UNIQUE constraint failed: ...").
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
