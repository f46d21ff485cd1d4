package domain

import "time"

// Status is the task workflow state. Only two states exist.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Valid reports whether s is one of the two known states.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusCompleted
}

// Toggled returns the opposite state.
func (s Status) Toggled() Status {
	if s == StatusPending {
		return StatusCompleted
	}
	return StatusPending
}

// Domain entity: бизнес-объект (истина).
// Не зависит от Gin, SQLite, Redis.
type Task struct {
	ID          int64
	UserID      int64
	Title       string
	Description string
	Status      Status

	CreatedAt time.Time
	UpdatedAt time.Time
}
