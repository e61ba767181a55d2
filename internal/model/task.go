package model

import "time"

const (
	TaskTitleMaxLen       = 255
	TaskDescriptionMaxLen = 2000
)

type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Completed   bool      `json:"completed"`
	OwnerID     int64     `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TaskPage bounds a listing. Limit is clamped by the service so a caller
// can never request an unbounded result set.
type TaskPage struct {
	Skip      int
	Limit     int
	Completed *bool
}

// TaskStatistics summarizes one owner's tasks.
type TaskStatistics struct {
	TotalTasks           int     `json:"total_tasks"`
	CompletedTasks       int     `json:"completed_tasks"`
	PendingTasks         int     `json:"pending_tasks"`
	CompletionPercentage float64 `json:"completion_percentage"`
}
