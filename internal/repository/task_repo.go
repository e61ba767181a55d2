package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-task-manager/internal/model"
)

type TaskRepository struct {
	pool *pgxpool.Pool
}

var _ TaskStore = (*TaskRepository)(nil)

func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

func (r *TaskRepository) Create(ctx context.Context, task model.Task) (model.Task, error) {
	now := time.Now().UTC()

	var created model.Task
	err := r.pool.QueryRow(ctx,
		`INSERT INTO tasks (title, description, completed, owner_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $5)
		 RETURNING id, title, COALESCE(description, ''), completed, owner_id, created_at, updated_at`,
		task.Title, nullIfEmpty(task.Description), task.Completed, task.OwnerID, now).
		Scan(&created.ID, &created.Title, &created.Description, &created.Completed,
			&created.OwnerID, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return model.Task{}, fmt.Errorf("create task: %w", err)
	}
	return created, nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id int64) (model.Task, error) {
	var t model.Task
	err := r.pool.QueryRow(ctx,
		`SELECT id, title, COALESCE(description, ''), completed, owner_id, created_at, updated_at
		 FROM tasks WHERE id = $1`, id).
		Scan(&t.ID, &t.Title, &t.Description, &t.Completed, &t.OwnerID, &t.CreatedAt, &t.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Task{}, model.ErrTaskNotFound
	}
	if err != nil {
		return model.Task{}, fmt.Errorf("find task by id: %w", err)
	}
	return t, nil
}

func (r *TaskRepository) ListByOwner(ctx context.Context, ownerID int64, page model.TaskPage) ([]model.Task, error) {
	query := `SELECT id, title, COALESCE(description, ''), completed, owner_id, created_at, updated_at
	          FROM tasks WHERE owner_id = $1`
	args := []any{ownerID}

	if page.Completed != nil {
		query += fmt.Sprintf(" AND completed = $%d", len(args)+1)
		args = append(args, *page.Completed)
	}

	query += fmt.Sprintf(" ORDER BY id OFFSET $%d LIMIT $%d", len(args)+1, len(args)+2)
	args = append(args, page.Skip, page.Limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks by owner: %w", err)
	}
	defer rows.Close()

	tasks := make([]model.Task, 0)
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Completed,
			&t.OwnerID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// Update writes all mutable columns; the service decides which fields
// changed. Concurrent updates resolve last-write-wins.
func (r *TaskRepository) Update(ctx context.Context, task model.Task) (model.Task, error) {
	var updated model.Task
	err := r.pool.QueryRow(ctx,
		`UPDATE tasks SET title = $2, description = $3, completed = $4, updated_at = $5
		 WHERE id = $1
		 RETURNING id, title, COALESCE(description, ''), completed, owner_id, created_at, updated_at`,
		task.ID, task.Title, nullIfEmpty(task.Description), task.Completed, time.Now().UTC()).
		Scan(&updated.ID, &updated.Title, &updated.Description, &updated.Completed,
			&updated.OwnerID, &updated.CreatedAt, &updated.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Task{}, model.ErrTaskNotFound
	}
	if err != nil {
		return model.Task{}, fmt.Errorf("update task: %w", err)
	}
	return updated, nil
}

func (r *TaskRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) CountByOwner(ctx context.Context, ownerID int64) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM tasks WHERE owner_id = $1`, ownerID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return count, nil
}

func (r *TaskRepository) CountCompletedByOwner(ctx context.Context, ownerID int64) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM tasks WHERE owner_id = $1 AND completed`, ownerID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count completed tasks: %w", err)
	}
	return count, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
