package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tasklist-api/internal/models"
	"tasklist-api/pkg/database"
)

// TaskRepository scopes every statement by author_id. Callers never get to
// see or touch another user's rows, and a missing row is indistinguishable
// from a row owned by someone else (both are ErrNotFound).
type TaskRepository struct {
	db *database.DB
}

func NewTaskRepository(db *database.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

const taskColumns = "id, author_id, title, done"

// ListByAuthor returns the author's tasks, open ones first, then by id.
func (r *TaskRepository) ListByAuthor(ctx context.Context, authorID int) ([]models.Task, error) {
	query := r.db.Dialect.Rebind(
		"SELECT " + taskColumns + " FROM tasks WHERE author_id = ? ORDER BY done ASC, id ASC")

	rows, err := r.db.QueryContext(ctx, query, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		var task models.Task
		if err := rows.Scan(&task.ID, &task.AuthorID, &task.Title, &task.Done); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) Create(ctx context.Context, authorID int, title string) (models.Task, error) {
	query := r.db.Dialect.Rebind(
		"INSERT INTO tasks (author_id, title, done) VALUES (?, ?, ?) RETURNING " + taskColumns)

	task, err := scanTask(r.db.QueryRowContext(ctx, query, authorID, title, false))
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

func (r *TaskRepository) Get(ctx context.Context, authorID, id int) (models.Task, error) {
	query := r.db.Dialect.Rebind(
		"SELECT " + taskColumns + " FROM tasks WHERE id = ? AND author_id = ?")

	task, err := scanTask(r.db.QueryRowContext(ctx, query, id, authorID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, ErrNotFound
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

// Update applies patch in one conditional statement and returns the
// resulting row. The ownership match and the write cannot interleave with
// another request.
func (r *TaskRepository) Update(ctx context.Context, authorID, id int, patch models.TaskPatch) (models.Task, error) {
	query := r.db.Dialect.Rebind(`
		UPDATE tasks
		SET title = COALESCE(?, title),
			done = COALESCE(?, done),
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND author_id = ?
		RETURNING ` + taskColumns)

	var title sql.NullString
	if patch.Title != nil {
		title = sql.NullString{String: *patch.Title, Valid: true}
	}
	var done sql.NullBool
	if patch.Done != nil {
		done = sql.NullBool{Bool: *patch.Done, Valid: true}
	}

	task, err := scanTask(r.db.QueryRowContext(ctx, query, title, done, id, authorID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, ErrNotFound
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

// Delete removes the task when, and only when, authorID owns it.
func (r *TaskRepository) Delete(ctx context.Context, authorID, id int) error {
	query := r.db.Dialect.Rebind("DELETE FROM tasks WHERE id = ? AND author_id = ?")

	res, err := r.db.ExecContext(ctx, query, id, authorID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanTask(row *sql.Row) (models.Task, error) {
	var task models.Task
	err := row.Scan(&task.ID, &task.AuthorID, &task.Title, &task.Done)
	return task, err
}
