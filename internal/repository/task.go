package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/taskdeck/taskdeck/internal/model"
)

// CreateTask inserts a new task into the database.
// The user_id column is not validated against the users table.
func (r *Repository) CreateTask(ctx context.Context, task *model.Task) error {
	query := `
		INSERT INTO tasks (id, title, description, conclusion, status, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		task.Conclusion,
		task.Status,
		task.UserID,
		task.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	return nil
}

// ListTasksByUser returns all tasks owned by the given user ID.
// Returns an empty slice when the user has no tasks.
func (r *Repository) ListTasksByUser(ctx context.Context, userID string) ([]*model.Task, error) {
	query := `
		SELECT id, title, description, conclusion, status, user_id, created_at
		FROM tasks
		WHERE user_id = $1
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	return scanTasks(rows)
}

// ListTasksByUserAndStatus returns the user's tasks whose status exactly
// matches the given label.
func (r *Repository) ListTasksByUserAndStatus(ctx context.Context, userID, status string) ([]*model.Task, error) {
	query := `
		SELECT id, title, description, conclusion, status, user_id, created_at
		FROM tasks
		WHERE user_id = $1 AND status = $2
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query, userID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks by status: %w", err)
	}
	defer rows.Close()

	return scanTasks(rows)
}

func scanTasks(rows pgx.Rows) ([]*model.Task, error) {
	tasks := make([]*model.Task, 0)

	for rows.Next() {
		var task model.Task
		err := rows.Scan(
			&task.ID,
			&task.Title,
			&task.Description,
			&task.Conclusion,
			&task.Status,
			&task.UserID,
			&task.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, &task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}

	return tasks, nil
}
