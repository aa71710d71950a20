// Package service defines the backend-agnostic interface for task operations.
package service

import (
	"context"
	"errors"
)

// Service defines the interface for task backend operations.
// The file store, the HTTP client and the Google Tasks mirror implement it.
type Service interface {
	// ListTasks returns every task in creation order.
	ListTasks(ctx context.Context) ([]Task, error)

	// CreateTask validates title and priority and stores a new open task.
	// Returns a *ValidationError when either field is rejected.
	CreateTask(ctx context.Context, title, priority string) (Task, error)

	// CompleteTask marks the task done.
	// found is false when no task has the id; that is not an error.
	CompleteTask(ctx context.Context, id int) (found bool, err error)
}

// ErrNotFound is returned by clients when a resource does not exist.
var ErrNotFound = errors.New("not found")

// ValidationError reports a rejected title or priority.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validation messages shared by every backend.
const (
	MsgTitleRequired   = "title must be non-empty"
	MsgInvalidPriority = "priority must be one of: low, normal, high"
)

// IsValidation reports whether err is or wraps a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
