package googletasks

import (
	"context"
	"io"
	"log"

	"todod/internal/service"
)

// Remote receives mirrored task changes. *Client implements it.
type Remote interface {
	InsertTask(ctx context.Context, t service.Task) error
	CompleteTask(ctx context.Context, id int) error
}

// Mirror wraps a service.Service and copies accepted creates and completions
// to a Remote. The wrapped service stays authoritative: remote failures are
// logged and never change the result.
type Mirror struct {
	inner  service.Service
	remote Remote
	logger *log.Logger
}

// NewMirror wraps inner. logger may be nil.
func NewMirror(inner service.Service, remote Remote, logger *log.Logger) *Mirror {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Mirror{inner: inner, remote: remote, logger: logger}
}

// ListTasks implements service.Service.
func (m *Mirror) ListTasks(ctx context.Context) ([]service.Task, error) {
	return m.inner.ListTasks(ctx)
}

// CreateTask implements service.Service.
func (m *Mirror) CreateTask(ctx context.Context, title, priority string) (service.Task, error) {
	task, err := m.inner.CreateTask(ctx, title, priority)
	if err != nil {
		return task, err
	}
	if err := m.remote.InsertTask(context.WithoutCancel(ctx), task); err != nil {
		m.logger.Printf("warning: mirror create %d: %v", task.ID, err)
	}
	return task, nil
}

// CompleteTask implements service.Service.
func (m *Mirror) CompleteTask(ctx context.Context, id int) (bool, error) {
	found, err := m.inner.CompleteTask(ctx, id)
	if err != nil || !found {
		return found, err
	}
	if err := m.remote.CompleteTask(context.WithoutCancel(ctx), id); err != nil {
		m.logger.Printf("warning: mirror complete %d: %v", id, err)
	}
	return true, nil
}
