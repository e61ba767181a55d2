// Package repository contains the persistence contracts the services
// depend on, plus their PostgreSQL implementations.
package repository

import (
	"context"

	"go-task-manager/internal/model"
)

// UserDirectory is the narrow persistence contract for user records.
type UserDirectory interface {
	FindByUsername(ctx context.Context, username string) (model.User, error)
	FindByID(ctx context.Context, id int64) (model.User, error)
	Create(ctx context.Context, username string, passwordHash string) (model.User, error)
	SetActive(ctx context.Context, id int64, active bool) error
}

// TaskStore is the narrow persistence contract for task records.
type TaskStore interface {
	Create(ctx context.Context, task model.Task) (model.Task, error)
	FindByID(ctx context.Context, id int64) (model.Task, error)
	ListByOwner(ctx context.Context, ownerID int64, page model.TaskPage) ([]model.Task, error)
	Update(ctx context.Context, task model.Task) (model.Task, error)
	Delete(ctx context.Context, id int64) error
	CountByOwner(ctx context.Context, ownerID int64) (int, error)
	CountCompletedByOwner(ctx context.Context, ownerID int64) (int, error)
}
