package models

import "time"

// TaskStatus defines the possible statuses for a task.
type TaskStatus string

const (
	StatusPending   TaskStatus = "pending"
	StatusCompleted TaskStatus = "completed"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// Task represents a single user-owned task. The owner is set from the
// authenticated caller at creation time and never changes afterwards.
type Task struct {
	ID             string       `json:"id"`
	OwnerID        string       `json:"user"`
	Title          string       `json:"title"`
	Description    string       `json:"description,omitempty"`
	DueDate        *time.Time   `json:"dueDate,omitempty"`
	Status         TaskStatus   `json:"status"`
	Priority       TaskPriority `json:"priority"`
	LastRemindedAt *time.Time   `json:"-"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
}

// TaskFilter defines the available parameters for filtering task lists.
type TaskFilter struct {
	Status *TaskStatus
}

// TaskPatch carries a partial update: nil fields are left untouched.
// DueDateSet distinguishes "clear the due date" from "keep it".
type TaskPatch struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	DueDateSet  bool
	Status      *TaskStatus
	Priority    *TaskPriority
}

type CreateTaskRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"omitempty,max=2000"`
	DueDate     string `json:"dueDate" validate:"omitempty"`
	Status      string `json:"status" validate:"omitempty,oneof=pending completed"`
	Priority    string `json:"priority" validate:"omitempty,oneof=low medium high"`
}

type UpdateTaskRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	DueDate     *string `json:"dueDate"`
	Status      *string `json:"status" validate:"omitempty,oneof=pending completed"`
	Priority    *string `json:"priority" validate:"omitempty,oneof=low medium high"`
}
