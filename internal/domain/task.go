package domain

import "time"

// Status is the lifecycle state of a task. The set is closed: any other
// value is rejected at the boundary.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusDeleted    Status = "deleted"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusDeleted:
		return true
	}
	return false
}

// UpdatableByClient reports whether a client may set this status through an
// update. Deletion goes through DELETE only, so "deleted" is excluded.
func (s Status) UpdatableByClient() bool {
	return s.Valid() && s != StatusDeleted
}

// Priority of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task is the domain entity. Every task belongs to exactly one user;
// "deleted" is terminal and such rows are kept but never listed.
type Task struct {
	ID          string
	UserID      string
	Title       string
	Description string
	Status      Status
	Priority    Priority

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Deleted reports whether the task has been soft-deleted.
func (t Task) Deleted() bool { return t.Status == StatusDeleted }
