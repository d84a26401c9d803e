package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/LOUBNATANASSA/project-tasks/internal/apperror"
	"github.com/LOUBNATANASSA/project-tasks/internal/model"
	"github.com/LOUBNATANASSA/project-tasks/internal/repository"
)

// ProjectDB implements repository.ProjectRepository.
type ProjectDB struct {
	conn *sql.DB
}

// Projects returns the project repository view of this database.
func (db *DB) Projects() *ProjectDB {
	return &ProjectDB{conn: db.conn}
}

var _ repository.ProjectRepository = (*ProjectDB)(nil)

// Create inserts a new project. The caller has already set UserID from
// the authenticated identity; after creation it is never written again —
// note that Update below deliberately leaves user_id out of its SET list.
func (p *ProjectDB) Create(ctx context.Context, project *model.Project) error {
	project.ID = xid.New().String()

	now := time.Now()
	project.CreatedAt = now
	project.UpdatedAt = now

	_, err := p.conn.ExecContext(ctx,
		`INSERT INTO projects (id, title, description, user_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		project.ID,
		project.Title,
		project.Description,
		project.UserID,
		project.CreatedAt,
		project.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating project: %w", err)
	}

	return nil
}

// GetByID retrieves a single project by its ID.
//
// sql.ErrNoRows is not really an error — it just means "no matching row
// exists". We translate it to our NotFound error so the handler knows to
// return 404.
func (p *ProjectDB) GetByID(ctx context.Context, id string) (*model.Project, error) {
	var project model.Project

	err := p.conn.QueryRowContext(ctx,
		`SELECT id, title, description, user_id, created_at, updated_at
		 FROM projects
		 WHERE id = ?`,
		id,
	).Scan(
		&project.ID,
		&project.Title,
		&project.Description,
		&project.UserID,
		&project.CreatedAt,
		&project.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("project", id)
		}
		return nil, fmt.Errorf("sqlite: getting project %s: %w", id, err)
	}

	return &project, nil
}

// ListByUser retrieves all projects owned by the given user, newest first.
//
// defer rows.Close() is critical: sql.Rows holds a connection from the
// pool, and a missed Close leaks it until the pool runs dry.
func (p *ProjectDB) ListByUser(ctx context.Context, userID string) ([]model.Project, error) {
	rows, err := p.conn.QueryContext(ctx,
		`SELECT id, title, description, user_id, created_at, updated_at
		 FROM projects
		 WHERE user_id = ?
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing projects for user %s: %w", userID, err)
	}
	defer rows.Close()

	projects := []model.Project{}
	for rows.Next() {
		var pr model.Project
		if err := rows.Scan(
			&pr.ID, &pr.Title, &pr.Description, &pr.UserID,
			&pr.CreatedAt, &pr.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning project row: %w", err)
		}
		projects = append(projects, pr)
	}

	// rows.Err() catches errors that happened DURING iteration.
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating projects: %w", err)
	}

	return projects, nil
}

// Update modifies a project's title and description.
//
// RowsAffected() tells us whether the WHERE clause matched anything — a
// zero means the project vanished (e.g. a concurrent delete won the
// race), which surfaces to the caller as NotFound. Last write wins.
func (p *ProjectDB) Update(ctx context.Context, project *model.Project) error {
	project.UpdatedAt = time.Now()

	result, err := p.conn.ExecContext(ctx,
		`UPDATE projects
		 SET title = ?, description = ?, updated_at = ?
		 WHERE id = ?`,
		project.Title,
		project.Description,
		project.UpdatedAt,
		project.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating project %s: %w", project.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("project", project.ID)
	}

	return nil
}

// Delete removes a project. Tasks under it go with it via ON DELETE CASCADE.
func (p *ProjectDB) Delete(ctx context.Context, id string) error {
	result, err := p.conn.ExecContext(ctx,
		`DELETE FROM projects WHERE id = ?`,
		id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting project %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("project", id)
	}

	return nil
}
