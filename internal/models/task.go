package models

import "time"

// TaskStatus enumerates the lifecycle states of a task.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
)

// Valid reports whether the status is a known lifecycle state.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskPending, TaskInProgress, TaskCompleted:
		return true
	}
	return false
}

// TaskPriority enumerates task priorities.
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// Valid reports whether the priority is known.
func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

// Task is a work item raised by an admin or customer, optionally assigned to
// a worker. CreatorRole records which account table CreatorID belongs to.
type Task struct {
	ID          string       `db:"task_id" json:"task_id"`
	CreatorID   string       `db:"creator_id" json:"creator_id"`
	CreatorRole UserRole     `db:"creator_role" json:"creator_role"`
	Title       string       `db:"title" json:"title"`
	Description *string      `db:"description" json:"description,omitempty"`
	Status      TaskStatus   `db:"status" json:"status"`
	Priority    TaskPriority `db:"priority" json:"priority"`
	AssignedTo  *string      `db:"assigned_to" json:"assigned_to,omitempty"`
	CreatedAt   time.Time    `db:"created_at" json:"created_at"`
}

// TaskDetail joins display names onto a task row for listings.
type TaskDetail struct {
	Task
	CreatorName  string  `db:"creator_name" json:"creator_name"`
	AssigneeName *string `db:"assignee_name" json:"assignee_name,omitempty"`
}

// TaskFilter captures filtering criteria for admin task listings.
type TaskFilter struct {
	Status   *TaskStatus
	Priority *TaskPriority
	Page     int
	PageSize int
}
