package dto

import "time"

// CreateTaskRequest is the JSON body for POST /api/{user_id}/tasks.
type CreateTaskRequest struct {
	Title       string `json:"title" binding:"required,min=1,max=500"`
	Description string `json:"description" binding:"omitempty,max=10000"`
	Priority    string `json:"priority" binding:"omitempty,oneof=low medium high"`
}

// UpdateTaskRequest is the JSON body for PUT /api/{user_id}/tasks/{task_id}.
// nil = leave unchanged, value = set. Status "deleted" is not accepted here;
// deletion goes through DELETE.
type UpdateTaskRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=500"`
	Description *string `json:"description" binding:"omitempty,max=10000"`
	Status      *string `json:"status" binding:"omitempty,oneof=pending in-progress completed"`
	Priority    *string `json:"priority" binding:"omitempty,oneof=low medium high"`
}

// TaskResponse is the task as serialized in every envelope.
type TaskResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TaskEnvelope wraps a single task.
type TaskEnvelope struct {
	Status  string       `json:"status"`
	Data    TaskResponse `json:"data"`
	Message string       `json:"message,omitempty"`
}

// TaskListEnvelope wraps a task collection.
type TaskListEnvelope struct {
	Status string         `json:"status"`
	Data   []TaskResponse `json:"data"`
	Meta   ListMeta       `json:"meta"`
}

// ListMeta carries collection metadata.
type ListMeta struct {
	Total int `json:"total"`
}
