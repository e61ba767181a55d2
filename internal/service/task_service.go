package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go-task-manager/internal/model"
	"go-task-manager/internal/repository"
)

const defaultPageSize = 100

// TaskService owns all task operations. Every call acts on behalf of a
// resolved principal and only ever touches that principal's tasks. A
// task that exists under a different owner is reported exactly like a
// task that does not exist.
type TaskService struct {
	tasks       repository.TaskStore
	maxPageSize int
}

func NewTaskService(tasks repository.TaskStore, maxPageSize int) *TaskService {
	if maxPageSize <= 0 {
		maxPageSize = defaultPageSize
	}

	return &TaskService{tasks: tasks, maxPageSize: maxPageSize}
}

func (s *TaskService) Create(ctx context.Context, principal model.Principal, title string, description string) (model.Task, error) {
	title, err := validateTitle(title)
	if err != nil {
		return model.Task{}, err
	}

	description = strings.TrimSpace(description)
	if err := validateDescription(description); err != nil {
		return model.Task{}, err
	}

	return s.tasks.Create(ctx, model.Task{
		Title:       title,
		Description: description,
		Completed:   false,
		OwnerID:     principal.ID,
	})
}

func (s *TaskService) List(ctx context.Context, principal model.Principal, page model.TaskPage) ([]model.Task, error) {
	if page.Skip < 0 {
		page.Skip = 0
	}
	if page.Limit <= 0 || page.Limit > s.maxPageSize {
		page.Limit = s.maxPageSize
	}

	return s.tasks.ListByOwner(ctx, principal.ID, page)
}

func (s *TaskService) Get(ctx context.Context, principal model.Principal, taskID int64) (model.Task, error) {
	return s.ownedTask(ctx, principal, taskID)
}

func (s *TaskService) Update(ctx context.Context, principal model.Principal, taskID int64, req model.UpdateTaskRequest) (model.Task, error) {
	task, err := s.ownedTask(ctx, principal, taskID)
	if err != nil {
		return model.Task{}, err
	}

	if req.Title != nil {
		title, err := validateTitle(*req.Title)
		if err != nil {
			return model.Task{}, err
		}
		task.Title = title
	}

	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if err := validateDescription(description); err != nil {
			return model.Task{}, err
		}
		task.Description = description
	}

	if req.Completed != nil {
		task.Completed = *req.Completed
	}

	return s.tasks.Update(ctx, task)
}

// SetCompletion is idempotent: asking for the state the task is already
// in returns the task unchanged without touching the store.
func (s *TaskService) SetCompletion(ctx context.Context, principal model.Principal, taskID int64, completed bool) (model.Task, error) {
	task, err := s.ownedTask(ctx, principal, taskID)
	if err != nil {
		return model.Task{}, err
	}

	if task.Completed == completed {
		return task, nil
	}

	task.Completed = completed
	return s.tasks.Update(ctx, task)
}

func (s *TaskService) Delete(ctx context.Context, principal model.Principal, taskID int64) error {
	if _, err := s.ownedTask(ctx, principal, taskID); err != nil {
		return err
	}

	if err := s.tasks.Delete(ctx, taskID); err != nil {
		if errors.Is(err, model.ErrTaskNotFound) {
			return errTaskNotFound()
		}
		return err
	}
	return nil
}

func (s *TaskService) Statistics(ctx context.Context, principal model.Principal) (model.TaskStatistics, error) {
	total, err := s.tasks.CountByOwner(ctx, principal.ID)
	if err != nil {
		return model.TaskStatistics{}, err
	}

	completed, err := s.tasks.CountCompletedByOwner(ctx, principal.ID)
	if err != nil {
		return model.TaskStatistics{}, err
	}

	stats := model.TaskStatistics{
		TotalTasks:     total,
		CompletedTasks: completed,
		PendingTasks:   total - completed,
	}
	if total > 0 {
		stats.CompletionPercentage = float64(completed) / float64(total) * 100
	}
	return stats, nil
}

// ownedTask loads a task and enforces ownership. Absent and
// foreign-owned collapse into the same not-found error.
func (s *TaskService) ownedTask(ctx context.Context, principal model.Principal, taskID int64) (model.Task, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if errors.Is(err, model.ErrTaskNotFound) {
		return model.Task{}, errTaskNotFound()
	}
	if err != nil {
		return model.Task{}, err
	}

	if task.OwnerID != principal.ID {
		return model.Task{}, errTaskNotFound()
	}
	return task, nil
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", errValidation("task title cannot be empty", "title")
	}
	if utf8.RuneCountInString(title) > model.TaskTitleMaxLen {
		return "", errValidation(
			fmt.Sprintf("task title must be at most %d characters", model.TaskTitleMaxLen), "title")
	}
	return title, nil
}

func validateDescription(description string) error {
	if utf8.RuneCountInString(description) > model.TaskDescriptionMaxLen {
		return errValidation(
			fmt.Sprintf("task description must be at most %d characters", model.TaskDescriptionMaxLen), "description")
	}
	return nil
}
