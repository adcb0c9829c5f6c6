package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"taskboard/internal/model"
	"taskboard/internal/store"
)

func (s *Store) CreateTask(ctx context.Context, task model.Task) error {
	query := `
		INSERT INTO tasks (id, user_id, title, description, status, due_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(ctx, query,
		task.ID, task.UserID, task.Title, task.Description, task.Status,
		task.DueDate, task.CreatedAt, task.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrConflict
		}
		s.logger.Error("failed to create task", "task_id", task.ID, "error", err)
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (s *Store) GetTask(ctx context.Context, id string) (model.Task, error) {
	query := `
		SELECT id, user_id, title, description, status, due_date, created_at, updated_at
		FROM tasks
		WHERE id = $1
	`
	var t model.Task
	var due sql.NullTime
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.UserID, &t.Title, &t.Description, &t.Status, &due, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Task{}, store.ErrNotFound
		}
		s.logger.Error("failed to scan task row", "task_id", id, "error", err)
		return model.Task{}, fmt.Errorf("get task: %w", err)
	}
	if due.Valid {
		t.DueDate = &due.Time
	}
	return t, nil
}

func (s *Store) ListTasks(ctx context.Context, userID string, filter store.TaskFilter) ([]model.Task, error) {
	var query string
	var args []interface{}

	if filter.Status != "" {
		query = `
			SELECT id, user_id, title, description, status, due_date, created_at, updated_at
			FROM tasks
			WHERE user_id = $1 AND status = $2
			ORDER BY created_at ASC, id ASC
		`
		args = []interface{}{userID, filter.Status}
	} else {
		query = `
			SELECT id, user_id, title, description, status, due_date, created_at, updated_at
			FROM tasks
			WHERE user_id = $1
			ORDER BY created_at ASC, id ASC
		`
		args = []interface{}{userID}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		s.logger.Error("failed to query tasks", "user_id", userID, "error", err)
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]model.Task, 0)
	for rows.Next() {
		var t model.Task
		var due sql.NullTime
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Status, &due, &t.CreatedAt, &t.UpdatedAt); err != nil {
			s.logger.Error("failed to scan task row", "user_id", userID, "error", err)
			return nil, fmt.Errorf("scan task: %w", err)
		}
		if due.Valid {
			t.DueDate = &due.Time
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, nil
}

func (s *Store) UpdateTask(ctx context.Context, task model.Task) error {
	query := `
		UPDATE tasks
		SET title = $1, description = $2, status = $3, due_date = $4, updated_at = $5
		WHERE id = $6
	`
	result, err := s.db.ExecContext(ctx, query,
		task.Title, task.Description, task.Status, task.DueDate, task.UpdatedAt, task.ID)
	if err != nil {
		s.logger.Error("failed to update task", "task_id", task.ID, "error", err)
		return fmt.Errorf("update task: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update task rows affected: %w", err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteTask(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		s.logger.Error("failed to delete task", "task_id", id, "error", err)
		return fmt.Errorf("delete task: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete task rows affected: %w", err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}
