package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/xid"

	"github.com/LOUBNATANASSA/project-tasks/internal/apperror"
	"github.com/LOUBNATANASSA/project-tasks/internal/model"
	"github.com/LOUBNATANASSA/project-tasks/internal/repository"
)

// TaskDB implements repository.TaskRepository.
type TaskDB struct {
	conn *sql.DB
}

// Tasks returns the task repository view of this database.
func (db *DB) Tasks() *TaskDB {
	return &TaskDB{conn: db.conn}
}

var _ repository.TaskRepository = (*TaskDB)(nil)

// Create inserts a new task under its project. The service layer has
// already confirmed the project exists and that the caller owns it.
func (t *TaskDB) Create(ctx context.Context, task *model.Task) error {
	task.ID = xid.New().String()

	_, err := t.conn.ExecContext(ctx,
		`INSERT INTO tasks (id, title, description, due_date, is_completed, project_id)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		task.ID,
		task.Title,
		task.Description,
		task.DueDate,
		task.IsCompleted,
		task.ProjectID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating task: %w", err)
	}

	return nil
}

// GetByID retrieves a single task by its ID.
func (t *TaskDB) GetByID(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task

	err := t.conn.QueryRowContext(ctx,
		`SELECT id, title, description, due_date, is_completed, project_id
		 FROM tasks
		 WHERE id = ?`,
		id,
	).Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.DueDate,
		&task.IsCompleted,
		&task.ProjectID,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("task", id)
		}
		return nil, fmt.Errorf("sqlite: getting task %s: %w", id, err)
	}

	return &task, nil
}

// ListByProject retrieves all tasks belonging to a project, oldest
// first. Ordering by id gives creation order because xid embeds a
// timestamp prefix.
func (t *TaskDB) ListByProject(ctx context.Context, projectID string) ([]model.Task, error) {
	rows, err := t.conn.QueryContext(ctx,
		`SELECT id, title, description, due_date, is_completed, project_id
		 FROM tasks
		 WHERE project_id = ?
		 ORDER BY id`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing tasks for project %s: %w", projectID, err)
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		var tk model.Task
		if err := rows.Scan(
			&tk.ID, &tk.Title, &tk.Description, &tk.DueDate,
			&tk.IsCompleted, &tk.ProjectID,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning task row: %w", err)
		}
		tasks = append(tasks, tk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating tasks: %w", err)
	}

	return tasks, nil
}

// Update modifies a task's mutable fields. project_id stays out of the
// SET list — a task never moves between projects.
func (t *TaskDB) Update(ctx context.Context, task *model.Task) error {
	result, err := t.conn.ExecContext(ctx,
		`UPDATE tasks
		 SET title = ?, description = ?, due_date = ?, is_completed = ?
		 WHERE id = ?`,
		task.Title,
		task.Description,
		task.DueDate,
		task.IsCompleted,
		task.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating task %s: %w", task.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("task", task.ID)
	}

	return nil
}

// Delete removes a task by its ID.
func (t *TaskDB) Delete(ctx context.Context, id string) error {
	result, err := t.conn.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = ?`,
		id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting task %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("task", id)
	}

	return nil
}

// CountByProject returns task totals for progress computation. One
// aggregate query instead of loading every row.
func (t *TaskDB) CountByProject(ctx context.Context, projectID string) (repository.TaskCounts, error) {
	var counts repository.TaskCounts

	err := t.conn.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(is_completed), 0)
		 FROM tasks
		 WHERE project_id = ?`,
		projectID,
	).Scan(&counts.Total, &counts.Completed)
	if err != nil {
		return repository.TaskCounts{}, fmt.Errorf("sqlite: counting tasks for project %s: %w", projectID, err)
	}

	return counts, nil
}
